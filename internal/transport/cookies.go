package transport

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// CookieJar stores cookies per URL. It is attached to the HTTP client, so
// cookies are sent and received without ever appearing in an assembled
// request's header list.
type CookieJar struct {
	jar *cookiejar.Jar
}

// NewCookieJar returns an empty jar using the public suffix list for domain
// matching.
func NewCookieJar() *CookieJar {
	// cookiejar.New never returns a non-nil error.
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return &CookieJar{jar: jar}
}

// CookieHeader returns the Cookie header value that would be sent to rawURL.
func (j *CookieJar) CookieHeader(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	cookies := j.jar.Cookies(u)
	if len(cookies) == 0 {
		return "", false
	}
	parts := make([]string, len(cookies))
	for i, c := range cookies {
		parts[i] = c.Name + "=" + c.Value
	}
	return strings.Join(parts, "; "), true
}

// StoreCookies records Set-Cookie header values received from rawURL.
// Values that do not parse are skipped.
func (j *CookieJar) StoreCookies(rawURL string, setCookies []string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return
	}
	cookies := make([]*http.Cookie, 0, len(setCookies))
	for _, v := range setCookies {
		c, err := http.ParseSetCookie(v)
		if err != nil {
			continue
		}
		cookies = append(cookies, c)
	}
	if len(cookies) > 0 {
		j.jar.SetCookies(u, cookies)
	}
}

// SetCookies implements http.CookieJar.
func (j *CookieJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.jar.SetCookies(u, cookies)
}

// Cookies implements http.CookieJar.
func (j *CookieJar) Cookies(u *url.URL) []*http.Cookie {
	return j.jar.Cookies(u)
}

var _ http.CookieJar = (*CookieJar)(nil)
