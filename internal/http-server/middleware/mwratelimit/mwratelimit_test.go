package mwratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"eventManager/internal/lib/logger/handlers/slogdiscard"

	"github.com/stretchr/testify/assert"
)

func TestRateLimit(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := New(slogdiscard.NewDiscardLogger(), NewLimiter(0.001, 2))(next)

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/events/1/register", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:5002"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2:5000"))
}
