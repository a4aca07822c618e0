package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fairyhunter13/ai-interviewer/internal/domain"
)

func TestWriteError_Mapping(t *testing.T) {
	t.Parallel()
	cases := []struct {
		err      error
		status   int
		codeWord string
	}{
		{fmt.Errorf("%w: bad field", domain.ErrInvalidArgument), http.StatusBadRequest, "INVALID_ARGUMENT"},
		{fmt.Errorf("%w: session gone", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("%w: .exe", domain.ErrUnsupportedMedia), http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA"},
		{fmt.Errorf("%w: 2 MB body", domain.ErrPayloadTooLarge), http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
		{fmt.Errorf("%w: model stalled", domain.ErrUpstreamTimeout), http.StatusServiceUnavailable, "UPSTREAM_TIMEOUT"},
		{fmt.Errorf("%w: connection refused", domain.ErrUpstreamUnavailable), http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE"},
		{errors.New("something else"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeError(rec, nil, tc.err, nil)
		assert.Equal(t, tc.status, rec.Code, tc.err.Error())
		assert.Contains(t, rec.Body.String(), tc.codeWord)
		assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	}
}
