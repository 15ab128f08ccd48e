package domain

import (
	"fmt"
	"strings"

	apperrors "github.com/shhac/courier/internal/errors"
)

// Method is an HTTP request method from a closed set.
type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodDelete  Method = "DELETE"
	MethodPatch   Method = "PATCH"
	MethodConnect Method = "CONNECT"
)

// Methods lists every supported method in menu order.
var Methods = []Method{
	MethodGet,
	MethodPost,
	MethodPut,
	MethodHead,
	MethodOptions,
	MethodDelete,
	MethodPatch,
	MethodConnect,
}

// ParseMethod resolves a method name case-insensitively.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	if m.Valid() {
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidMethod, s)
}

// Valid reports whether m is one of Methods.
func (m Method) Valid() bool {
	for _, known := range Methods {
		if m == known {
			return true
		}
	}
	return false
}

func (m Method) String() string {
	return string(m)
}

// MethodNames returns Methods as strings, for select widgets and flag help.
func MethodNames() []string {
	names := make([]string, len(Methods))
	for i, m := range Methods {
		names[i] = string(m)
	}
	return names
}
