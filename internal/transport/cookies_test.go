package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCookieJar_StoreAndGet(t *testing.T) {
	jar := NewCookieJar()

	_, ok := jar.CookieHeader("https://api.example.com/")
	assert.False(t, ok)

	jar.StoreCookies("https://api.example.com/login", []string{
		"a=1; Path=/",
		"b=2; Path=/",
		"not a cookie",
	})

	header, ok := jar.CookieHeader("https://api.example.com/items")
	assert.True(t, ok)
	assert.Equal(t, "a=1; b=2", header)

	_, ok = jar.CookieHeader("https://other.example.org/")
	assert.False(t, ok, "cookies are scoped to their host")
}

func TestCookieJar_InvalidURL(t *testing.T) {
	jar := NewCookieJar()
	jar.StoreCookies("://bad", []string{"a=1"})
	_, ok := jar.CookieHeader("://bad")
	assert.False(t, ok)
}
