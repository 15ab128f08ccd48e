// Package transport executes wire requests over HTTP.
package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/shhac/courier/internal/domain"
	apperrors "github.com/shhac/courier/internal/errors"
	"github.com/shhac/courier/internal/reconcile"
	"github.com/shhac/courier/internal/request"
)

// defaultMaxBodySize caps how much of a response body is read into memory.
const defaultMaxBodySize = 64 << 20

// Transport sends a wire request and returns the raw response, or an error
// when no response was received.
type Transport interface {
	Fetch(ctx context.Context, req *request.WireRequest) (reconcile.RawResponse, error)
}

// Options configures the HTTP transport.
type Options struct {
	// Timeout bounds the whole exchange. Zero means no timeout.
	Timeout time.Duration
	// FollowRedirects makes the client follow 3xx responses.
	FollowRedirects bool
	// Jar stores cookies between requests. Nil disables cookies.
	Jar http.CookieJar
	// MaxBodySize is the largest response body accepted. Zero means 64 MiB.
	MaxBodySize int64
}

// HTTPTransport is the net/http implementation of Transport.
type HTTPTransport struct {
	client  *http.Client
	maxBody int64
	logger  *slog.Logger
}

// NewHTTPTransport creates a transport with its own http.Client.
func NewHTTPTransport(opts Options, logger *slog.Logger) *HTTPTransport {
	client := &http.Client{
		Timeout: opts.Timeout,
		Jar:     opts.Jar,
	}
	if !opts.FollowRedirects {
		client.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	maxBody := opts.MaxBodySize
	if maxBody <= 0 {
		maxBody = defaultMaxBodySize
	}
	return &HTTPTransport{client: client, maxBody: maxBody, logger: logger}
}

// Fetch performs the exchange. Any failure before a status line is received
// is returned as an error wrapping ErrTransport.
func (t *HTTPTransport) Fetch(ctx context.Context, req *request.WireRequest) (reconcile.RawResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, string(req.Method), req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return reconcile.RawResponse{}, fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}
	copyHeaders(httpReq, req.Headers)

	t.logger.Debug("sending request",
		slog.String("method", string(req.Method)),
		slog.String("url", req.URL),
		slog.Int("body_bytes", len(req.Body)),
	)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		t.logger.Warn("request failed",
			slog.String("url", req.URL),
			slog.Any("error", err),
		)
		if errors.Is(err, context.Canceled) {
			return reconcile.RawResponse{}, fmt.Errorf("%w: %w", apperrors.ErrUserCancelled, err)
		}
		return reconcile.RawResponse{}, fmt.Errorf("%w: %w", apperrors.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBody+1))
	if err != nil {
		return reconcile.RawResponse{}, fmt.Errorf("%w: read body: %w", apperrors.ErrTransport, err)
	}
	if int64(len(body)) > t.maxBody {
		t.logger.Warn("response body over limit",
			slog.String("url", req.URL),
			slog.Int64("limit", t.maxBody),
		)
		return reconcile.RawResponse{}, fmt.Errorf("%w: %w: over %d bytes", apperrors.ErrTransport, apperrors.ErrResponseTooLarge, t.maxBody)
	}

	t.logger.Debug("response received",
		slog.String("url", req.URL),
		slog.Int("status", resp.StatusCode),
		slog.Int("body_bytes", len(body)),
	)

	return reconcile.RawResponse{
		Status:     resp.StatusCode,
		StatusText: statusText(resp),
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
	}, nil
}

// copyHeaders sets headers on r with their names as supplied. A later
// header replaces an earlier one whose name differs only in case. A Host
// header overrides the request host.
func copyHeaders(r *http.Request, headers []domain.Header) {
	for _, h := range headers {
		if strings.EqualFold(h.Name, "Host") {
			r.Host = h.Value
			continue
		}
		for name := range r.Header {
			if strings.EqualFold(name, h.Name) {
				delete(r.Header, name)
			}
		}
		name := h.Name
		if clientManaged[http.CanonicalHeaderKey(name)] {
			name = http.CanonicalHeaderKey(name)
		}
		r.Header[name] = []string{h.Value}
	}
}

// clientManaged headers are looked up by net/http under their canonical
// name, so a differently cased copy would be sent twice.
var clientManaged = map[string]bool{
	"User-Agent":        true,
	"Accept-Encoding":   true,
	"Content-Length":    true,
	"Connection":        true,
	"Transfer-Encoding": true,
}

// statusText strips the code from "200 OK".
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprintf("%d", resp.StatusCode)))
	if text == "" {
		return http.StatusText(resp.StatusCode)
	}
	return text
}

// flattenHeaders lists headers sorted by name, one entry per value.
func flattenHeaders(h http.Header) []domain.Header {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]domain.Header, 0, len(names))
	for _, name := range names {
		for _, v := range h[name] {
			out = append(out, domain.Header{Name: name, Value: v})
		}
	}
	return out
}
