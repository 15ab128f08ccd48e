package model

import (
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2/data/binding"

	"github.com/shhac/courier/internal/domain"
)

// ApplicationState represents the centralized application state with Fyne data bindings.
// All UI components bind to these values for reactive updates.
type ApplicationState struct {
	// Name of the workspace the open tabs belong to
	WorkspaceName binding.String

	// Status bar message
	Status binding.String

	// Response of the active tab
	Response *ResponseState
}

// NewApplicationState creates a new ApplicationState with initialized bindings.
func NewApplicationState() *ApplicationState {
	return &ApplicationState{
		WorkspaceName: binding.NewString(),
		Status:        binding.NewString(),
		Response:      NewResponseState(),
	}
}

// ResponseState represents the state of the response panel.
type ResponseState struct {
	Status    binding.String     // "200 OK", "Transport error", ...
	OK        binding.Bool       // 2xx status
	Failed    binding.Bool       // no HTTP response was received
	Loading   binding.Bool       // a send is in flight
	Duration  binding.String     // e.g. "123 ms"
	Size      binding.String     // e.g. "1.2 KB"
	Headers   binding.StringList // "Name: value" lines
	Body      binding.String     // body in the selected view
	Pretty    binding.Bool       // pretty view selected
	HasPretty binding.Bool       // a pretty view exists

	mu     sync.Mutex
	raw    string
	pretty string
}

// NewResponseState creates a new ResponseState with initialized bindings.
func NewResponseState() *ResponseState {
	pretty := binding.NewBool()
	_ = pretty.Set(true) // Pretty view preferred when available

	return &ResponseState{
		Status:    binding.NewString(),
		OK:        binding.NewBool(),
		Failed:    binding.NewBool(),
		Loading:   binding.NewBool(),
		Duration:  binding.NewString(),
		Size:      binding.NewString(),
		Headers:   binding.NewStringList(),
		Body:      binding.NewString(),
		Pretty:    pretty,
		HasPretty: binding.NewBool(),
	}
}

// Apply shows resp.
func (s *ResponseState) Apply(resp domain.Response) {
	headers := make([]string, len(resp.Headers))
	for i, h := range resp.Headers {
		headers[i] = h.Name + ": " + h.Value
	}

	s.mu.Lock()
	s.raw = resp.BodyRaw
	s.pretty = resp.BodyPretty
	s.mu.Unlock()

	_ = s.Status.Set(resp.StatusLine())
	_ = s.OK.Set(resp.OK)
	_ = s.Failed.Set(resp.Kind != domain.KindCompleted)
	_ = s.Duration.Set(FormatDuration(resp.Duration))
	_ = s.Size.Set(FormatSize(resp.Size()))
	_ = s.Headers.Set(headers)
	_ = s.HasPretty.Set(resp.HasPretty())
	s.refreshBody()
}

// Clear resets the panel to its empty state.
func (s *ResponseState) Clear() {
	s.mu.Lock()
	s.raw, s.pretty = "", ""
	s.mu.Unlock()

	_ = s.Status.Set("")
	_ = s.OK.Set(false)
	_ = s.Failed.Set(false)
	_ = s.Duration.Set("")
	_ = s.Size.Set("")
	_ = s.Headers.Set(nil)
	_ = s.HasPretty.Set(false)
	_ = s.Body.Set("")
}

// SetPretty selects the pretty or raw body view. Without a pretty form the
// raw body is shown either way.
func (s *ResponseState) SetPretty(pretty bool) {
	_ = s.Pretty.Set(pretty)
	s.refreshBody()
}

// PrettyBody returns the pretty form of the current body, if any.
func (s *ResponseState) PrettyBody() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pretty
}

// RawBody returns the current body as received.
func (s *ResponseState) RawBody() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raw
}

func (s *ResponseState) refreshBody() {
	pretty, _ := s.Pretty.Get()
	s.mu.Lock()
	body := s.raw
	if pretty && s.pretty != "" {
		body = s.pretty
	}
	s.mu.Unlock()
	_ = s.Body.Set(body)
}

// FormatDuration renders a request duration for display.
func FormatDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return ""
	case d < time.Millisecond:
		return "<1 ms"
	case d < time.Second:
		return fmt.Sprintf("%d ms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2f s", d.Seconds())
	}
}

// FormatSize renders a byte count for display.
func FormatSize(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := unit, 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}

// Settings are the user-editable request settings shown in the preferences
// dialog.
type Settings struct {
	RequestTimeout  time.Duration
	MaxInFlight     int
	FollowRedirects bool
	CancelInFlight  bool
	SigningFailOpen bool
}
