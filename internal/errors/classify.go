package errors

import (
	"context"
	"errors"
)

// ErrorSeverity indicates the severity of an error for UI presentation.
type ErrorSeverity int

const (
	SeverityInfo    ErrorSeverity = iota // User should know, not blocking
	SeverityWarning                      // Degraded functionality
	SeverityError                        // Operation failed, can retry
	SeverityFatal                        // Application must exit
)

// UIError wraps an error with UI-friendly presentation metadata.
type UIError struct {
	Err      error
	Severity ErrorSeverity
	Title    string   // Short user-facing title
	Message  string   // Detailed user-facing message
	Recovery []string // Suggested actions (bullet points)
	Details  string   // Technical details (collapsed by default)

	// Retryable marks failures where sending the same request again may
	// succeed.
	Retryable bool
}

func (e UIError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Title
}

// Unwrap returns the underlying error.
func (e UIError) Unwrap() error {
	return e.Err
}

// ClassifyError converts an error into a UIError with a title, message and
// recovery suggestions. It returns nil for a nil error.
func ClassifyError(err error) *UIError {
	if err == nil {
		return nil
	}

	var uiErr *UIError
	if errors.As(err, &uiErr) {
		return uiErr
	}

	switch {
	case errors.Is(err, ErrInvalidURL):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Invalid URL",
			Message:  "The request URL could not be parsed.",
			Recovery: []string{
				"Include the scheme, e.g. https://",
				"Check for stray spaces or characters",
			},
			Details: err.Error(),
		}

	case errors.Is(err, ErrInvalidMethod):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Invalid Method",
			Message:  "The HTTP method is not supported.",
			Recovery: []string{"Pick a method from the list"},
			Details:  err.Error(),
		}

	case errors.Is(err, ErrInvalidCredentials):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Incomplete Credentials",
			Message:  "The selected authentication is missing required values.",
			Recovery: []string{"Fill in every field on the Auth tab"},
			Details:  err.Error(),
		}

	case errors.Is(err, ErrSigningFailed):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Signing Failed",
			Message:  "The request could not be signed and was not sent.",
			Recovery: []string{"Check the access key, secret key, region and service"},
			Details:  err.Error(),
		}

	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, ErrTimeout):
		return &UIError{
			Err:       err,
			Severity:  SeverityError,
			Title:     "Request Timeout",
			Message:   "The server took too long to respond.",
			Recovery:  []string{"Try again", "Increase request_timeout in the config file"},
			Details:   err.Error(),
			Retryable: true,
		}

	case errors.Is(err, context.Canceled), errors.Is(err, ErrUserCancelled):
		return &UIError{
			Err:      err,
			Severity: SeverityInfo,
			Title:    "Request Cancelled",
			Message:  "The request was cancelled.",
			Recovery: []string{},
		}

	case errors.Is(err, ErrResponseTooLarge):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Response Too Large",
			Message:  "The response body is larger than courier will hold in memory.",
			Recovery: []string{"Request a smaller range or page of the resource"},
			Details:  err.Error(),
		}

	case errors.Is(err, ErrTransport):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Connection Failed",
			Message:  "No response was received from the server.",
			Recovery: []string{
				"Check that the host name resolves",
				"Check that the server is running",
				"Check your network connection",
			},
			Details:   err.Error(),
			Retryable: true,
		}
	}

	var validationErr ValidationError
	if errors.As(err, &validationErr) {
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Validation Error",
			Message:  validationErr.Message,
			Recovery: []string{"Correct the field value and try again"},
			Details:  validationErr.Error(),
		}
	}

	return &UIError{
		Err:      err,
		Severity: SeverityError,
		Title:    "Unexpected Error",
		Message:  "An unexpected error occurred.",
		Recovery: []string{"Try again"},
		Details:  err.Error(),
	}
}
