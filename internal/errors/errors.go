package errors

import "errors"

// Sentinel errors for common failure modes.
var (
	ErrInvalidURL         = errors.New("invalid URL")
	ErrInvalidMethod      = errors.New("invalid HTTP method")
	ErrSigningFailed      = errors.New("request signing failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrClock              = errors.New("clock unavailable")
	ErrTransport          = errors.New("transport failure")
	ErrUserCancelled      = errors.New("user cancelled operation")
	ErrTimeout            = errors.New("operation timed out")
	ErrResponseTooLarge   = errors.New("response body too large")
)

// ValidationError represents a field validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}
