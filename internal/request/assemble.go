// Package request turns a draft's fields into a wire-level HTTP request.
package request

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shhac/courier/internal/domain"
	apperrors "github.com/shhac/courier/internal/errors"
)

// AssemblyError reports a draft that cannot be turned into a request.
type AssemblyError struct {
	Field string // "url" or "method"
	Value string
	Err   error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("cannot send request: %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *AssemblyError) Unwrap() error {
	return e.Err
}

// Assemble builds a wire request from the draft fields. Only effective query
// parameters and headers are used, in their original order. An "Accept: */*"
// header is always added first, so a user-supplied Accept replaces it.
// The body is used verbatim; an empty body stays a zero-length body.
func Assemble(rawURL string, method domain.Method, query, headers []domain.Param, body string) (*WireRequest, error) {
	if !method.Valid() {
		return nil, &AssemblyError{
			Field: "method",
			Value: string(method),
			Err:   apperrors.ErrInvalidMethod,
		}
	}

	target := strings.TrimSpace(rawURL)
	if err := validateURL(target); err != nil {
		return nil, &AssemblyError{Field: "url", Value: rawURL, Err: err}
	}

	req := &WireRequest{
		Method:  method,
		URL:     appendQuery(target, encodePairs(domain.FilterEffective(query))),
		Headers: []domain.Header{{Name: "Accept", Value: "*/*"}},
		Body:    []byte(body),
	}
	for _, h := range domain.FilterEffective(headers) {
		req.Set(h.Key, h.Value)
	}

	// The joined query must still parse.
	if _, err := url.Parse(req.URL); err != nil {
		return nil, &AssemblyError{
			Field: "url",
			Value: rawURL,
			Err:   fmt.Errorf("%w: %v", apperrors.ErrInvalidURL, err),
		}
	}

	return req, nil
}

// AssembleSnapshot is Assemble over a draft snapshot.
func AssembleSnapshot(s domain.Snapshot) (*WireRequest, error) {
	return Assemble(s.URL, s.Method, s.Query, s.Headers, s.Body)
}

func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: empty", apperrors.ErrInvalidURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidURL, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	case "":
		return fmt.Errorf("%w: missing scheme", apperrors.ErrInvalidURL)
	default:
		return fmt.Errorf("%w: unsupported scheme %q", apperrors.ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", apperrors.ErrInvalidURL)
	}
	return nil
}
