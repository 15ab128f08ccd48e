// Package testserver runs a local HTTP echo server for integration tests.
package testserver

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Echo is the JSON document returned by the /echo endpoint.
type Echo struct {
	Method  string              `json:"method"`
	Path    string              `json:"path"`
	Query   string              `json:"query"`
	Headers map[string][]string `json:"headers"`
	Body    string              `json:"body"`
}

// New starts the server. Endpoints:
//
//	ANY /echo                 request echoed back as JSON
//	GET /text                 plain text body
//	GET /status/:code         empty body with the given status
//	GET /slow?delay=100ms     "slow" after sleeping, echoing ?tag=
//	GET /cookies/set?name=&value=   sets a cookie
//	GET /cookies              request Cookie header as text
//	GET /redirect             302 to /text
func New() *httptest.Server {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.Any("/echo", func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.JSON(http.StatusOK, Echo{
			Method:  c.Request.Method,
			Path:    c.Request.URL.Path,
			Query:   c.Request.URL.RawQuery,
			Headers: c.Request.Header,
			Body:    string(body),
		})
	})

	r.GET("/text", func(c *gin.Context) {
		c.String(http.StatusOK, "hello, plain world")
	})

	r.GET("/status/:code", func(c *gin.Context) {
		code, err := strconv.Atoi(c.Param("code"))
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(code)
	})

	r.GET("/slow", func(c *gin.Context) {
		delay, _ := time.ParseDuration(c.Query("delay"))
		select {
		case <-time.After(delay):
		case <-c.Request.Context().Done():
			return
		}
		c.String(http.StatusOK, "slow:"+c.Query("tag"))
	})

	r.GET("/cookies/set", func(c *gin.Context) {
		c.SetCookie(c.Query("name"), c.Query("value"), 3600, "/", "", false, true)
		c.Status(http.StatusNoContent)
	})

	r.GET("/cookies", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetHeader("Cookie"))
	})

	r.GET("/redirect", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/text")
	})

	return httptest.NewServer(r)
}
