package eventinput

import (
	"testing"
	"time"

	"eventManager/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now   = time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	start = now.Add(48 * time.Hour)
)

func validRequest() Request {
	return Request{
		Title:    "  Go Meetup ",
		Category: models.CategoryMeetup,
		StartAt:  start,
		EndAt:    start.Add(2 * time.Hour),
		Venue:    "Main hall",
		Capacity: 50,
	}
}

func TestRequestValidation(t *testing.T) {
	t.Parallel()

	v := validator.New()

	testCases := []struct {
		name   string
		modify func(r *Request)
		field  string
	}{
		{name: "Valid", modify: func(r *Request) {}},
		{name: "Missing title", modify: func(r *Request) { r.Title = "" }, field: "Title"},
		{name: "Unknown category", modify: func(r *Request) { r.Category = "party" }, field: "Category"},
		{name: "End before start", modify: func(r *Request) { r.EndAt = start.Add(-time.Hour) }, field: "EndAt"},
		{name: "Offline without venue", modify: func(r *Request) { r.Venue = "" }, field: "Venue"},
		{name: "Online without url", modify: func(r *Request) { r.IsOnline = true; r.Venue = "" }, field: "OnlineURL"},
		{name: "Online with bad url", modify: func(r *Request) { r.IsOnline = true; r.OnlineURL = "not a url" }, field: "OnlineURL"},
		{name: "Negative capacity", modify: func(r *Request) { r.Capacity = -1 }, field: "Capacity"},
		{name: "Online valid", modify: func(r *Request) { r.IsOnline = true; r.Venue = ""; r.OnlineURL = "https://meet.example.com/x" }},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := validRequest()
			tc.modify(&req)

			err := v.Struct(req)
			if tc.field == "" {
				assert.NoError(t, err)
				return
			}

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tc.field, verrs[0].Field())
		})
	}
}

func TestDetails(t *testing.T) {
	t.Parallel()

	d, err := validRequest().Details(now)
	require.NoError(t, err)
	assert.Equal(t, "Go Meetup", d.Title)
	assert.Equal(t, "Main hall", d.Venue)
	assert.True(t, d.RegistrationDeadline.IsZero())

	past := validRequest()
	past.StartAt = now.Add(-time.Hour)
	_, err = past.Details(now)
	assert.ErrorIs(t, err, ErrStartInPast)

	late := validRequest()
	deadline := start.Add(time.Hour)
	late.RegistrationDeadline = &deadline
	_, err = late.Details(now)
	assert.ErrorIs(t, err, ErrDeadlineAfterStart)

	multiline := validRequest()
	multiline.Title = "Party\r\nBcc: someone@example.com"
	_, err = multiline.Details(now)
	assert.ErrorIs(t, err, ErrTitleLineBreak)

	ok := validRequest()
	deadline = start.Add(-time.Hour)
	ok.RegistrationDeadline = &deadline
	d, err = ok.Details(now)
	require.NoError(t, err)
	assert.Equal(t, deadline, d.RegistrationDeadline)
}
