// Package collection reads and writes YAML request collections used by the
// command line.
//
// A collection file looks like:
//
//	name: users api
//	requests:
//	  - name: list
//	    method: GET
//	    url: https://api.example.com/users
//	    query:
//	      - {key: page, value: "2"}
//	      - {key: debug, value: "1", disabled: true}
//	    auth:
//	      type: bearer
//	      token: ${API_TOKEN}
//
// ${VAR} references in string values are expanded from the environment when
// the file is loaded. Any other "$" is kept as written.
package collection

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shhac/courier/internal/domain"
)

// ErrRequestNotFound is returned by Find for an unknown request name.
var ErrRequestNotFound = errors.New("request not found in collection")

var envReference = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Collection is a named list of requests.
type Collection struct {
	Name     string        `yaml:"name,omitempty"`
	Requests []RequestSpec `yaml:"requests"`
}

// RequestSpec is one request of a collection.
type RequestSpec struct {
	Name    string              `yaml:"name"`
	Method  string              `yaml:"method,omitempty"`
	URL     string              `yaml:"url"`
	Query   []ParamSpec         `yaml:"query,omitempty"`
	Headers []ParamSpec         `yaml:"headers,omitempty"`
	Body    string              `yaml:"body,omitempty"`
	Auth    domain.AuthEnvelope `yaml:"auth,omitempty"`
}

// ParamSpec is a query parameter or header. Entries are enabled unless
// marked disabled.
type ParamSpec struct {
	Key      string `yaml:"key"`
	Value    string `yaml:"value"`
	Disabled bool   `yaml:"disabled,omitempty"`
}

// Load reads a collection file, expanding environment references.
func Load(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read collection: %w", err)
	}
	c, err := Parse(data, os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a collection, expanding ${VAR} references with getenv. A
// document holding a single request without the requests list is accepted
// as a collection of one.
func Parse(data []byte, getenv func(string) string) (*Collection, error) {
	var c Collection
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse collection: %w", err)
	}
	if len(c.Requests) == 0 {
		var single RequestSpec
		if err := yaml.Unmarshal(data, &single); err != nil {
			return nil, fmt.Errorf("parse request: %w", err)
		}
		if single.URL == "" {
			return nil, errors.New("collection has no requests")
		}
		c = Collection{Requests: []RequestSpec{single}}
	}

	for i := range c.Requests {
		c.Requests[i].expand(getenv)
	}
	return &c, nil
}

// Find returns the request with the given name. An empty name selects the
// first request.
func (c *Collection) Find(name string) (RequestSpec, error) {
	if len(c.Requests) == 0 {
		return RequestSpec{}, ErrRequestNotFound
	}
	if name == "" {
		return c.Requests[0], nil
	}
	for _, r := range c.Requests {
		if r.Name == name {
			return r, nil
		}
	}
	return RequestSpec{}, fmt.Errorf("%w: %q", ErrRequestNotFound, name)
}

// Names lists the request names in file order.
func (c *Collection) Names() []string {
	names := make([]string, len(c.Requests))
	for i, r := range c.Requests {
		names[i] = r.Name
	}
	return names
}

// Saved converts r to the persisted request form, validating the
// method and auth type.
func (r RequestSpec) Saved() (domain.SavedRequest, error) {
	method := domain.MethodGet
	if r.Method != "" {
		m, err := domain.ParseMethod(r.Method)
		if err != nil {
			return domain.SavedRequest{}, err
		}
		method = m
	}
	auth := r.Auth
	if auth.Type == "" {
		auth.Type = domain.AuthKindNone
	}
	if _, err := auth.Scheme(); err != nil {
		return domain.SavedRequest{}, err
	}
	return domain.SavedRequest{
		Name:    r.Name,
		Method:  method,
		URL:     r.URL,
		Query:   toParams(r.Query),
		Headers: toParams(r.Headers),
		Body:    r.Body,
		Auth:    auth,
	}, nil
}

// Draft builds a draft from r.
func (r RequestSpec) Draft(id domain.DraftID) (*domain.Draft, error) {
	saved, err := r.Saved()
	if err != nil {
		return nil, err
	}
	return domain.DraftFromSaved(id, saved)
}

// FromWorkspace converts a saved workspace into a collection.
func FromWorkspace(ws domain.Workspace) *Collection {
	c := &Collection{Name: ws.Name, Requests: make([]RequestSpec, 0, len(ws.Requests))}
	for _, s := range ws.Requests {
		c.Requests = append(c.Requests, RequestSpec{
			Name:    s.Name,
			Method:  string(s.Method),
			URL:     s.URL,
			Query:   fromParams(s.Query),
			Headers: fromParams(s.Headers),
			Body:    s.Body,
			Auth:    s.Auth,
		})
	}
	return c
}

// Workspace converts the collection into a workspace with every request
// open, the first one active.
func (c *Collection) Workspace() (domain.Workspace, error) {
	ws := domain.Workspace{Name: c.Name, Requests: make([]domain.SavedRequest, 0, len(c.Requests))}
	for i, r := range c.Requests {
		saved, err := r.Saved()
		if err != nil {
			return domain.Workspace{}, fmt.Errorf("request %d (%s): %w", i, r.Name, err)
		}
		ws.Requests = append(ws.Requests, saved)
	}
	return ws, nil
}

// Write encodes the collection as YAML.
func (c *Collection) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	return enc.Close()
}

func (r *RequestSpec) expand(getenv func(string) string) {
	x := func(s string) string {
		if !strings.Contains(s, "${") {
			return s
		}
		return envReference.ReplaceAllStringFunc(s, func(ref string) string {
			return getenv(ref[2 : len(ref)-1])
		})
	}
	r.URL = x(r.URL)
	r.Body = x(r.Body)
	for i := range r.Query {
		r.Query[i].Value = x(r.Query[i].Value)
	}
	for i := range r.Headers {
		r.Headers[i].Value = x(r.Headers[i].Value)
	}
	a := &r.Auth
	a.Username, a.Password, a.Token = x(a.Username), x(a.Password), x(a.Token)
	a.Value = x(a.Value)
	a.AccessKey, a.SecretKey, a.SessionToken = x(a.AccessKey), x(a.SecretKey), x(a.SessionToken)
	a.Region = x(a.Region)
}

func toParams(specs []ParamSpec) domain.Params {
	if len(specs) == 0 {
		return nil
	}
	out := make(domain.Params, len(specs))
	for i, s := range specs {
		out[i] = domain.Param{Enabled: !s.Disabled, Key: s.Key, Value: s.Value}
	}
	return out
}

func fromParams(params domain.Params) []ParamSpec {
	var out []ParamSpec
	for _, p := range params {
		if p.Key == "" && p.Value == "" {
			continue
		}
		out = append(out, ParamSpec{Key: p.Key, Value: p.Value, Disabled: !p.Enabled})
	}
	return out
}
