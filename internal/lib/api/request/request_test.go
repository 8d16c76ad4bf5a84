package request

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestID(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		param  string
		want   int64
		expErr error
	}{
		{name: "Valid", param: "42", want: 42},
		{name: "Missing", param: "", expErr: ErrMissingID},
		{name: "Not a number", param: "abc", expErr: ErrInvalidID},
		{name: "Zero", param: "0", expErr: ErrInvalidID},
		{name: "Negative", param: "-3", expErr: ErrInvalidID},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tc.param)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			got, err := ID(req, "id")
			assert.ErrorIs(t, err, tc.expErr)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPage(t *testing.T) {
	t.Parallel()

	for query, want := range map[string]int{"": 1, "?page=3": 3, "?page=0": 1, "?page=x": 1} {
		req := httptest.NewRequest(http.MethodGet, "/events"+query, nil)
		assert.Equal(t, want, Page(req), query)
	}
}
