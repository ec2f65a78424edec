package apiclient

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/jrsteele09/dental-session-client/internal/errors"
)

var (
	errNoRefreshToken      = errors.New("no refresh token stored")
	errRetryUnauthorized   = errors.New("retried request was still unauthorized")
	errEmptyRefreshedToken = errors.New("refresh response had no access token")
)

// AuthExpiredError means the access token was rejected and could not be
// renewed. The session has already been cleared when it is returned.
type AuthExpiredError struct {
	Cause error
}

func (e *AuthExpiredError) Error() string {
	if e.Cause == nil {
		return apperrors.ErrAuthExpired.Error()
	}
	return fmt.Sprintf("%s: %v", apperrors.ErrAuthExpired, e.Cause)
}

func (e *AuthExpiredError) Unwrap() []error {
	if e.Cause == nil {
		return []error{apperrors.ErrAuthExpired}
	}
	return []error{apperrors.ErrAuthExpired, e.Cause}
}

// RequestFailedError is any non-2xx response that is not handled as an
// authentication failure. The session is left untouched.
type RequestFailedError struct {
	Status  int
	Message string
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("%s: %d %s", apperrors.ErrRequestFailed, e.Status, e.Message)
}

func (e *RequestFailedError) Unwrap() error {
	return apperrors.ErrRequestFailed
}

// NetworkError means no response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", apperrors.ErrNetwork, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	return []error{apperrors.ErrNetwork, e.Err}
}

func newRequestFailed(status int, body []byte, fallback string) *RequestFailedError {
	msg := parseErrorMessage(body)
	if msg == "" {
		msg = fallback
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	if msg == "" {
		msg = "request failed"
	}
	return &RequestFailedError{Status: status, Message: msg}
}
