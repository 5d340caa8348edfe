package regapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidBaseURL is returned by NewClient for unusable base URLs.
	ErrInvalidBaseURL = errors.New("invalid register API URL")

	// ErrMalformedResponse is returned when a response body is not the
	// expected JSON record.
	ErrMalformedResponse = errors.New("malformed register API response")
)

// StatusError is returned for responses with a non-2xx status code.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// IsStatus reports whether err is a *StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
