package reconcile

import (
	"errors"
	"testing"
	"time"

	"github.com/shhac/courier/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestSuccess_JSONBody(t *testing.T) {
	raw := RawResponse{
		Status:     200,
		StatusText: "OK",
		Headers:    []domain.Header{{Name: "Content-Type", Value: "application/json"}},
		Body:       []byte(`{"b":1,"a":[true,null]}`),
	}

	got := Success(raw, 15*time.Millisecond)
	assert.Equal(t, domain.KindCompleted, got.Kind)
	assert.True(t, got.OK)
	assert.Equal(t, 200, got.Status)
	assert.Equal(t, "OK", got.StatusText)
	assert.Equal(t, `{"b":1,"a":[true,null]}`, got.BodyRaw)
	assert.Equal(t, "{\n  \"b\": 1,\n  \"a\": [\n    true,\n    null\n  ]\n}", got.BodyPretty)
	assert.Equal(t, 15*time.Millisecond, got.Duration)
	assert.Equal(t, raw.Headers, got.Headers)
}

func TestSuccess_NonJSONBody(t *testing.T) {
	body := []byte("plain text \xff bytes")
	got := Success(RawResponse{Status: 500, Body: body}, 0)

	assert.False(t, got.HasPretty())
	assert.Equal(t, "", got.BodyPretty)
	assert.Equal(t, string(body), got.BodyRaw, "raw body keeps the exact bytes")
	assert.False(t, got.OK)
	assert.Equal(t, "Internal Server Error", got.StatusText, "falls back to the standard reason phrase")
}

func TestSuccess_OKRange(t *testing.T) {
	for status, want := range map[int]bool{199: false, 200: true, 204: true, 299: true, 301: false, 404: false} {
		assert.Equal(t, want, Success(RawResponse{Status: status}, 0).OK, "status %d", status)
	}
}

func TestSuccess_CopiesHeaders(t *testing.T) {
	raw := RawResponse{Status: 200, Headers: []domain.Header{{Name: "A", Value: "1"}}}
	got := Success(raw, 0)
	raw.Headers[0].Value = "2"
	assert.Equal(t, "1", got.Headers[0].Value)
}

func TestTransportFailure(t *testing.T) {
	err := errors.New("dial tcp: lookup nohost.invalid: no such host")
	got := TransportFailure(err, time.Second)

	assert.Equal(t, domain.KindTransportFailure, got.Kind)
	assert.False(t, got.OK)
	assert.Contains(t, got.BodyRaw, "no such host")
	assert.Empty(t, got.Headers)
	assert.Zero(t, got.Status)
	assert.Equal(t, "Transport error", got.StatusLine())
}

func TestAuthFailure(t *testing.T) {
	got := AuthFailure(errors.New("region is empty"))
	assert.Equal(t, domain.KindAuthFailure, got.Kind)
	assert.False(t, got.OK)
	assert.Contains(t, got.BodyRaw, "region is empty")
}

func TestPrettyJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`[1,2]`, "[\n  1,\n  2\n]"},
		{`  "s"  `, `"s"`},
		{`42`, `42`},
		{``, ``},
		{`{"a":`, ``},
		{`<html></html>`, ``},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PrettyJSON([]byte(tt.in)), "input %q", tt.in)
	}
}
