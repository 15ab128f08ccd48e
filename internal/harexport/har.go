// Package harexport converts finished exchanges to HTTP Archive (HAR 1.2)
// entries.
package harexport

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/pb33f/harhar"

	"github.com/shhac/courier/internal/domain"
	"github.com/shhac/courier/internal/request"
)

const (
	harVersion  = "1.2"
	httpVersion = "HTTP/1.1"
)

// Version is reported as the creator version in exported archives.
var Version = "dev"

type document struct {
	Log harLog `json:"log"`
}

type harLog struct {
	Version string         `json:"version"`
	Creator harhar.Creator `json:"creator"`
	Entries []harhar.Entry `json:"entries"`
}

// Entry builds a HAR entry from the request as sent and its outcome. A
// request that never produced an HTTP response is recorded with status 0
// and the diagnostic as response text.
func Entry(wire *request.WireRequest, resp domain.Response, started time.Time) harhar.Entry {
	ms := float64(resp.Duration) / float64(time.Millisecond)
	return harhar.Entry{
		Start:    started.UTC().Format(time.RFC3339Nano),
		Time:     ms,
		Request:  buildRequest(wire),
		Response: buildResponse(resp),
		Timings:  harhar.Timings{Send: 0, Wait: ms, Receive: 0},
	}
}

// Write encodes entries as a HAR document.
func Write(w io.Writer, entries []harhar.Entry) error {
	if entries == nil {
		entries = []harhar.Entry{}
	}
	doc := document{Log: harLog{
		Version: harVersion,
		Creator: harhar.Creator{Name: "courier", Version: Version},
		Entries: entries,
	}}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write har: %w", err)
	}
	return nil
}

func buildRequest(wire *request.WireRequest) harhar.Request {
	req := harhar.Request{
		Method:      string(wire.Method),
		URL:         wire.URL,
		HTTPVersion: httpVersion,
		Headers:     make([]harhar.NameValuePair, 0, len(wire.Headers)),
		QueryParams: queryPairs(wire.URL),
		Cookies:     []harhar.Cookie{},
		HeadersSize: -1,
		BodySize:    len(wire.Body),
	}
	for _, h := range wire.Headers {
		req.Headers = append(req.Headers, harhar.NameValuePair{Name: h.Name, Value: h.Value})
	}
	if len(wire.Body) > 0 {
		mime, _ := wire.Get("Content-Type")
		req.Body = harhar.BodyType{MIMEType: mime, Content: string(wire.Body)}
	}
	return req
}

func buildResponse(resp domain.Response) harhar.Response {
	out := harhar.Response{
		StatusCode:  resp.Status,
		StatusText:  resp.StatusText,
		HTTPVersion: httpVersion,
		Headers:     make([]harhar.NameValuePair, 0, len(resp.Headers)),
		Cookies:     []harhar.Cookie{},
		HeadersSize: -1,
		BodySize:    resp.Size(),
	}
	for _, h := range resp.Headers {
		out.Headers = append(out.Headers, harhar.NameValuePair{Name: h.Name, Value: h.Value})
	}
	mime, _ := resp.Header("Content-Type")
	if resp.Kind != domain.KindCompleted {
		out.HTTPVersion = ""
		out.BodySize = -1
		mime = "text/plain"
	}
	out.Body = harhar.BodyResponseType{
		Size:     len(resp.BodyRaw),
		MIMEType: mime,
		Content:  resp.BodyRaw,
	}
	return out
}

// queryPairs decodes the URL's query string in order. url.ParseQuery is not
// used because it groups values by key.
func queryPairs(rawURL string) []harhar.NameValuePair {
	pairs := []harhar.NameValuePair{}
	u, err := url.Parse(rawURL)
	if err != nil || u.RawQuery == "" {
		return pairs
	}
	for part := range strings.SplitSeq(u.RawQuery, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		if dk, err := url.QueryUnescape(k); err == nil {
			k = dk
		}
		if dv, err := url.QueryUnescape(v); err == nil {
			v = dv
		}
		pairs = append(pairs, harhar.NameValuePair{Name: k, Value: v})
	}
	return pairs
}
