package api

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrMalformedResponse indicates a 2xx response whose body could not be
// decoded as the expected JSON shape. It is deliberately distinct from Error
// so callers never mistake a backend contract break for a rejected request.
var ErrMalformedResponse = errors.New("malformed response body")

// Error is a non-2xx response from the backend. Detail carries the
// server-supplied "detail" message when one was present in the body.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not an
// api.Error (e.g. a transport failure).
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// DetailOf returns the server-supplied detail message carried by err, if any.
func DetailOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}
