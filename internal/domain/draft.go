package domain

// DraftID identifies an open draft. IDs are handed out by the collection
// that owns the drafts and never reused within a process.
type DraftID uint64

// Draft is the editable request definition behind one tab. Its fields are
// owned by the UI goroutine; only the response cell is shared with
// background sends.
type Draft struct {
	ID      DraftID
	Name    string
	URL     string
	Method  Method
	Query   Params
	Headers Params
	Body    string
	Auth    AuthScheme

	response *ResponseCell
}

// NewDraft returns a GET draft with one empty query and header row each.
func NewDraft(id DraftID) *Draft {
	return &Draft{
		ID:       id,
		Method:   MethodGet,
		Query:    Params{NewParam("", "")},
		Headers:  Params{NewParam("", "")},
		Auth:     NoAuth{},
		response: NewResponseCell(),
	}
}

// Response returns the draft's response cell. Background sends receive this
// handle, never the draft itself.
func (d *Draft) Response() *ResponseCell {
	if d.response == nil {
		d.response = NewResponseCell()
	}
	return d.response
}

// Snapshot is an immutable copy of a draft's request fields, safe to hand to
// another goroutine while the draft keeps being edited.
type Snapshot struct {
	ID      DraftID
	URL     string
	Method  Method
	Query   Params
	Headers Params
	Body    string
	Auth    AuthScheme
}

// Snapshot clones the request fields of d.
func (d *Draft) Snapshot() Snapshot {
	auth := d.Auth
	if auth == nil {
		auth = NoAuth{}
	}
	return Snapshot{
		ID:      d.ID,
		URL:     d.URL,
		Method:  d.Method,
		Query:   d.Query.Clone(),
		Headers: d.Headers.Clone(),
		Body:    d.Body,
		Auth:    auth,
	}
}

// Title is the tab label for the draft.
func (d *Draft) Title() string {
	if d.Name != "" {
		return d.Name
	}
	if d.URL != "" {
		return string(d.Method) + " " + d.URL
	}
	return "Untitled"
}

// SavedRequest is the persisted form of a draft.
type SavedRequest struct {
	Name    string       `json:"name" yaml:"name"`
	Method  Method       `json:"method" yaml:"method"`
	URL     string       `json:"url" yaml:"url"`
	Query   Params       `json:"query,omitempty" yaml:"query,omitempty"`
	Headers Params       `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body    string       `json:"body,omitempty" yaml:"body,omitempty"`
	Auth    AuthEnvelope `json:"auth" yaml:"auth"`
}

// Save converts the draft to its persisted form. The response is not saved.
func (d *Draft) Save() SavedRequest {
	return SavedRequest{
		Name:    d.Name,
		Method:  d.Method,
		URL:     d.URL,
		Query:   d.Query.Clone(),
		Headers: d.Headers.Clone(),
		Body:    d.Body,
		Auth:    Envelope(d.Auth),
	}
}

// DraftFromSaved rebuilds a draft from its persisted form.
func DraftFromSaved(id DraftID, s SavedRequest) (*Draft, error) {
	d := NewDraft(id)
	d.Name = s.Name
	d.URL = s.URL
	if s.Method != "" {
		m, err := ParseMethod(string(s.Method))
		if err != nil {
			return nil, err
		}
		d.Method = m
	}
	if len(s.Query) > 0 {
		d.Query = s.Query.Clone()
	}
	if len(s.Headers) > 0 {
		d.Headers = s.Headers.Clone()
	}
	d.Body = s.Body
	auth, err := s.Auth.Scheme()
	if err != nil {
		return nil, err
	}
	d.Auth = auth
	return d, nil
}

// Workspace holds the drafts that were open when the session was saved.
type Workspace struct {
	Name     string         `json:"name"`
	Requests []SavedRequest `json:"requests"`
	Active   int            `json:"active"`
}
