package httpclient

import (
	"encoding/json"
	goerrors "errors"
	"fmt"
	"net/http"

	"github.com/tallybank/tallybank/internal/errors"
)

// Error is a non-2xx answer from a remote service. Response holds the raw
// body so callers can read the remote error envelope.
type Error struct {
	*errors.InternalError
	Method     string
	URL        string
	StatusCode int
	Response   []byte
}

// remoteEnvelope is the error body every service of this system answers with
type remoteEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (e *Error) Unwrap() error {
	return e.InternalError.Unwrap()
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
}

// RemoteCode returns the error code of the remote envelope, or "" when the
// body is not one
func (e *Error) RemoteCode() string {
	var env remoteEnvelope
	if err := json.Unmarshal(e.Response, &env); err != nil {
		return ""
	}
	return env.Error.Code
}

// Transient reports whether the remote answered with a status that may
// succeed on a later attempt
func (e *Error) Transient() bool {
	switch e.StatusCode {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// NewError records a failed call to method url
func NewError(method, url string, statusCode int, response []byte) *Error {
	return &Error{
		InternalError: errors.New(errors.ErrCodeHTTPClient, "remote call failed"),
		Method:        method,
		URL:           url,
		StatusCode:    statusCode,
		Response:      response,
	}
}

// IsHTTPError checks if an error is an HTTP client error
func IsHTTPError(err error) (*Error, bool) {
	var httpErr *Error
	if goerrors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}
