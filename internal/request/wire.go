package request

import (
	"net/url"
	"strings"

	"github.com/shhac/courier/internal/domain"
)

// WireRequest is a fully assembled request, ready to sign and transmit.
type WireRequest struct {
	Method  domain.Method
	URL     string
	Headers []domain.Header
	Body    []byte
}

// Get returns the value of the header matching name case-insensitively.
func (r *WireRequest) Get(name string) (string, bool) {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// Set inserts a header or overwrites the value of an existing one with the
// same name. An overwritten header keeps its position and takes the new
// spelling of the name.
func (r *WireRequest) Set(name, value string) {
	for i, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			r.Headers[i] = domain.Header{Name: name, Value: value}
			return
		}
	}
	r.Headers = append(r.Headers, domain.Header{Name: name, Value: value})
}

// AddQuery appends a form-encoded key=value to the URL's query string.
func (r *WireRequest) AddQuery(key, value string) {
	r.URL = appendQuery(r.URL, encodePairs([]domain.Pair{{Key: key, Value: value}}))
}

// Clone returns a deep copy of r.
func (r *WireRequest) Clone() *WireRequest {
	dup := *r
	dup.Headers = append([]domain.Header(nil), r.Headers...)
	dup.Body = append([]byte(nil), r.Body...)
	return &dup
}

// encodePairs form-encodes pairs in the given order. url.Values.Encode is not
// used because it sorts by key.
func encodePairs(pairs []domain.Pair) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// appendQuery joins query onto rawURL, keeping any query already present
// and any fragment at the end.
func appendQuery(rawURL, query string) string {
	if query == "" {
		return rawURL
	}
	base, fragment, hasFragment := strings.Cut(rawURL, "#")
	switch {
	case !strings.Contains(base, "?"):
		base += "?" + query
	case strings.HasSuffix(base, "?"), strings.HasSuffix(base, "&"):
		base += query
	default:
		base += "&" + query
	}
	if hasFragment {
		base += "#" + fragment
	}
	return base
}
