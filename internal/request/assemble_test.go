package request

import (
	"errors"
	"net/url"
	"testing"

	"github.com/shhac/courier/internal/domain"
	apperrors "github.com/shhac/courier/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble_QueryOrderAndEncoding(t *testing.T) {
	query := []domain.Param{domain.NewParam("a", "1"), domain.NewParam("b", "2")}

	req, err := Assemble("http://x/y", domain.MethodGet, query, nil, "")
	require.NoError(t, err)
	assert.Equal(t, "http://x/y?a=1&b=2", req.URL)

	u, err := url.Parse(req.URL)
	require.NoError(t, err)
	assert.Equal(t, "a=1&b=2", u.RawQuery)
}

func TestAssemble_PreservesInsertionOrderNotSorted(t *testing.T) {
	query := []domain.Param{domain.NewParam("z", "1"), domain.NewParam("a", "2")}
	req, err := Assemble("http://x/", domain.MethodGet, query, nil, "")
	require.NoError(t, err)
	assert.Equal(t, "http://x/?z=1&a=2", req.URL)
}

func TestAssemble_FormEncodesValues(t *testing.T) {
	query := []domain.Param{domain.NewParam("q", "a b&c"), domain.NewParam("k=", "é")}
	req, err := Assemble("https://x", domain.MethodGet, query, nil, "")
	require.NoError(t, err)
	assert.Equal(t, "https://x?q=a+b%26c&k%3D=%C3%A9", req.URL)
}

func TestAssemble_DisabledParamRemoved(t *testing.T) {
	query := []domain.Param{
		domain.NewParam("a", "1"),
		{Enabled: false, Key: "b", Value: "2"},
		domain.NewParam("c", "3"),
	}
	req, err := Assemble("http://x/y", domain.MethodGet, query, nil, "")
	require.NoError(t, err)
	assert.Equal(t, "http://x/y?a=1&c=3", req.URL)
}

func TestAssemble_NoQueryLeavesURL(t *testing.T) {
	req, err := Assemble("http://x/y", domain.MethodGet, []domain.Param{domain.NewParam("", "")}, nil, "")
	require.NoError(t, err)
	assert.Equal(t, "http://x/y", req.URL)
}

func TestAssemble_ExistingQueryAndFragment(t *testing.T) {
	query := []domain.Param{domain.NewParam("b", "2")}
	req, err := Assemble("http://x/y?a=1#top", domain.MethodGet, query, nil, "")
	require.NoError(t, err)
	assert.Equal(t, "http://x/y?a=1&b=2#top", req.URL)
}

func TestAssemble_Headers(t *testing.T) {
	headers := []domain.Param{
		domain.NewParam("X-One", "1"),
		domain.NewParam("x-one", "2"),
		{Enabled: false, Key: "X-Off", Value: "v"},
	}
	req, err := Assemble("http://x", domain.MethodPost, nil, headers, "")
	require.NoError(t, err)

	assert.Equal(t, []domain.Header{
		{Name: "Accept", Value: "*/*"},
		{Name: "x-one", Value: "2"},
	}, req.Headers)
}

func TestAssemble_UserAcceptOverridesDefault(t *testing.T) {
	headers := []domain.Param{domain.NewParam("accept", "application/json")}
	req, err := Assemble("http://x", domain.MethodGet, nil, headers, "")
	require.NoError(t, err)

	require.Len(t, req.Headers, 1)
	v, ok := req.Get("Accept")
	assert.True(t, ok)
	assert.Equal(t, "application/json", v)
}

func TestAssemble_Body(t *testing.T) {
	req, err := Assemble("http://x", domain.MethodPost, nil, nil, "")
	require.NoError(t, err)
	assert.Len(t, req.Body, 0)

	req, err = Assemble("http://x", domain.MethodPost, nil, nil, "héllo")
	require.NoError(t, err)
	assert.Equal(t, []byte("héllo"), req.Body)
}

func TestAssemble_Errors(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		method  domain.Method
		field   string
		wantErr error
	}{
		{"empty url", "", domain.MethodGet, "url", apperrors.ErrInvalidURL},
		{"no scheme", "example.com/path", domain.MethodGet, "url", apperrors.ErrInvalidURL},
		{"bad scheme", "ftp://example.com", domain.MethodGet, "url", apperrors.ErrInvalidURL},
		{"no host", "http://", domain.MethodGet, "url", apperrors.ErrInvalidURL},
		{"control char", "http://exa\x7fmple.com", domain.MethodGet, "url", apperrors.ErrInvalidURL},
		{"bad method", "http://x", domain.Method("FETCH"), "method", apperrors.ErrInvalidMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := Assemble(tt.url, tt.method, nil, nil, "")
			require.Error(t, err)
			assert.Nil(t, req)

			var asmErr *AssemblyError
			require.True(t, errors.As(err, &asmErr))
			assert.Equal(t, tt.field, asmErr.Field)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestWireRequest_AddQueryAndClone(t *testing.T) {
	req := &WireRequest{URL: "http://x/y", Headers: []domain.Header{{Name: "A", Value: "1"}}, Body: []byte("b")}
	req.AddQuery("api key", "v/1")
	assert.Equal(t, "http://x/y?api+key=v%2F1", req.URL)

	dup := req.Clone()
	dup.Set("A", "2")
	dup.Body[0] = 'x'
	v, _ := req.Get("A")
	assert.Equal(t, "1", v)
	assert.Equal(t, []byte("b"), req.Body)
}
