package domain

import (
	"fmt"
	"strings"
	"time"
)

// Header is a single header line. Names keep the case they were supplied or
// received with.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ResponseKind tells a server response apart from locally synthesized ones.
type ResponseKind int

const (
	// KindCompleted is a response received from the server, any status.
	KindCompleted ResponseKind = iota
	// KindTransportFailure means no response was received.
	KindTransportFailure
	// KindAuthFailure means the request was not sent because signing failed.
	KindAuthFailure
)

func (k ResponseKind) String() string {
	switch k {
	case KindCompleted:
		return "completed"
	case KindTransportFailure:
		return "transport failure"
	case KindAuthFailure:
		return "auth failure"
	default:
		return "unknown"
	}
}

// Response is the outcome of one completed send. Values stored in a response
// cell are never mutated afterwards.
type Response struct {
	Kind       ResponseKind
	Headers    []Header
	BodyRaw    string
	BodyPretty string // empty when BodyRaw is not JSON
	OK         bool
	Status     int
	StatusText string
	Duration   time.Duration
}

// HasPretty reports whether a pretty-printed body is available.
func (r Response) HasPretty() bool {
	return r.BodyPretty != ""
}

// View returns the pretty body when requested and available, else the raw body.
func (r Response) View(pretty bool) string {
	if pretty && r.HasPretty() {
		return r.BodyPretty
	}
	return r.BodyRaw
}

// Size is the raw body length in bytes.
func (r Response) Size() int {
	return len(r.BodyRaw)
}

// Header returns the first header matching name case-insensitively.
func (r Response) Header(name string) (string, bool) {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// StatusLine summarizes the response for status bars and CLI output.
func (r Response) StatusLine() string {
	switch r.Kind {
	case KindTransportFailure:
		return "Transport error"
	case KindAuthFailure:
		return "Authentication failed"
	}
	if r.StatusText == "" {
		return fmt.Sprintf("%d", r.Status)
	}
	return fmt.Sprintf("%d %s", r.Status, r.StatusText)
}

func (r Response) clone() Response {
	if r.Headers != nil {
		headers := make([]Header, len(r.Headers))
		copy(headers, r.Headers)
		r.Headers = headers
	}
	return r
}
