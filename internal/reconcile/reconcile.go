// Package reconcile maps transport outcomes onto domain.Response values.
package reconcile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shhac/courier/internal/domain"
)

// RawResponse is what the transport returns for a completed exchange.
type RawResponse struct {
	Status     int
	StatusText string
	Headers    []domain.Header
	Body       []byte
}

// Success builds the Response for a completed exchange. BodyRaw holds the
// exact bytes received; BodyPretty is set only when the body is JSON.
func Success(raw RawResponse, elapsed time.Duration) domain.Response {
	statusText := raw.StatusText
	if statusText == "" {
		statusText = http.StatusText(raw.Status)
	}
	headers := make([]domain.Header, len(raw.Headers))
	copy(headers, raw.Headers)

	return domain.Response{
		Kind:       domain.KindCompleted,
		Headers:    headers,
		BodyRaw:    string(raw.Body),
		BodyPretty: PrettyJSON(raw.Body),
		OK:         raw.Status >= 200 && raw.Status < 300,
		Status:     raw.Status,
		StatusText: statusText,
		Duration:   elapsed,
	}
}

// TransportFailure builds the Response shown when no response arrived. It
// carries no status or headers; the diagnostic is in BodyRaw.
func TransportFailure(err error, elapsed time.Duration) domain.Response {
	return domain.Response{
		Kind:     domain.KindTransportFailure,
		BodyRaw:  fmt.Sprintf("error sending request: %v", err),
		Duration: elapsed,
	}
}

// AuthFailure builds the Response shown when signing failed and the request
// was withheld.
func AuthFailure(err error) domain.Response {
	return domain.Response{
		Kind:    domain.KindAuthFailure,
		BodyRaw: fmt.Sprintf("request not sent: %v", err),
	}
}

// PrettyJSON returns body re-indented with two spaces, or "" when body is not
// a JSON document. Key order is preserved.
func PrettyJSON(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return ""
	}
	var out bytes.Buffer
	if err := json.Indent(&out, trimmed, "", "  "); err != nil {
		return ""
	}
	return out.String()
}
