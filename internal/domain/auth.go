package domain

import "fmt"

// AuthKind names an authentication scheme.
type AuthKind string

const (
	AuthKindNone     AuthKind = "none"
	AuthKindBasic    AuthKind = "basic"
	AuthKindBearer   AuthKind = "bearer"
	AuthKindAPIKey   AuthKind = "api_key"
	AuthKindAWSSigV4 AuthKind = "aws_sigv4"
)

// AuthKinds lists the schemes in menu order.
var AuthKinds = []AuthKind{AuthKindNone, AuthKindBasic, AuthKindBearer, AuthKindAPIKey, AuthKindAWSSigV4}

// DisplayName is the label shown in the auth selector.
func (k AuthKind) DisplayName() string {
	switch k {
	case AuthKindBasic:
		return "Basic Auth"
	case AuthKindBearer:
		return "Bearer"
	case AuthKindAPIKey:
		return "API Key"
	case AuthKindAWSSigV4:
		return "AWS SigV4"
	default:
		return "No auth"
	}
}

// AuthScheme is the closed set of authentication schemes a draft can carry.
// The concrete types are NoAuth, BasicAuth, BearerAuth, APIKeyAuth and
// AWSSigV4Auth. All of them are plain values, so copying a scheme is a clone.
type AuthScheme interface {
	Kind() AuthKind
	authScheme()
}

// NoAuth sends the request without credentials.
type NoAuth struct{}

// BasicAuth sends "Authorization: Basic base64(username:password)".
// A colon inside Username cannot be distinguished from the separator.
type BasicAuth struct {
	Username string
	Password string
}

// BearerAuth sends "Authorization: Bearer <token>".
type BearerAuth struct {
	Token string
}

// APIKeyLocation selects where an API key is placed.
type APIKeyLocation string

const (
	APIKeyInHeader APIKeyLocation = "header"
	APIKeyInQuery  APIKeyLocation = "query"
)

// APIKeyAuth places Key=Value either as a header or as a query parameter.
type APIKeyAuth struct {
	Key      string
	Value    string
	Location APIKeyLocation
}

// AWSSigV4Auth signs the request with AWS Signature Version 4.
type AWSSigV4Auth struct {
	AccessKey    string
	SecretKey    string
	SessionToken string
	Region       string
	Service      string
}

func (NoAuth) Kind() AuthKind       { return AuthKindNone }
func (BasicAuth) Kind() AuthKind    { return AuthKindBasic }
func (BearerAuth) Kind() AuthKind   { return AuthKindBearer }
func (APIKeyAuth) Kind() AuthKind   { return AuthKindAPIKey }
func (AWSSigV4Auth) Kind() AuthKind { return AuthKindAWSSigV4 }

func (NoAuth) authScheme()       {}
func (BasicAuth) authScheme()    {}
func (BearerAuth) authScheme()   {}
func (APIKeyAuth) authScheme()   {}
func (AWSSigV4Auth) authScheme() {}

// EmptyAuth returns the zero-valued scheme of the given kind, used when the
// user switches schemes in the editor.
func EmptyAuth(kind AuthKind) AuthScheme {
	switch kind {
	case AuthKindBasic:
		return BasicAuth{}
	case AuthKindBearer:
		return BearerAuth{}
	case AuthKindAPIKey:
		return APIKeyAuth{Location: APIKeyInHeader}
	case AuthKindAWSSigV4:
		return AWSSigV4Auth{}
	default:
		return NoAuth{}
	}
}

// AuthEnvelope is the serialized form of an AuthScheme used by workspace
// files and YAML request files.
type AuthEnvelope struct {
	Type         AuthKind       `json:"type" yaml:"type"`
	Username     string         `json:"username,omitempty" yaml:"username,omitempty"`
	Password     string         `json:"password,omitempty" yaml:"password,omitempty"`
	Token        string         `json:"token,omitempty" yaml:"token,omitempty"`
	Key          string         `json:"key,omitempty" yaml:"key,omitempty"`
	Value        string         `json:"value,omitempty" yaml:"value,omitempty"`
	Location     APIKeyLocation `json:"location,omitempty" yaml:"location,omitempty"`
	AccessKey    string         `json:"access_key,omitempty" yaml:"access_key,omitempty"`
	SecretKey    string         `json:"secret_key,omitempty" yaml:"secret_key,omitempty"`
	SessionToken string         `json:"session_token,omitempty" yaml:"session_token,omitempty"`
	Region       string         `json:"region,omitempty" yaml:"region,omitempty"`
	Service      string         `json:"service,omitempty" yaml:"service,omitempty"`
}

// Envelope converts a scheme to its serialized form. A nil scheme is NoAuth.
func Envelope(s AuthScheme) AuthEnvelope {
	switch a := s.(type) {
	case BasicAuth:
		return AuthEnvelope{Type: AuthKindBasic, Username: a.Username, Password: a.Password}
	case BearerAuth:
		return AuthEnvelope{Type: AuthKindBearer, Token: a.Token}
	case APIKeyAuth:
		return AuthEnvelope{Type: AuthKindAPIKey, Key: a.Key, Value: a.Value, Location: a.Location}
	case AWSSigV4Auth:
		return AuthEnvelope{
			Type:         AuthKindAWSSigV4,
			AccessKey:    a.AccessKey,
			SecretKey:    a.SecretKey,
			SessionToken: a.SessionToken,
			Region:       a.Region,
			Service:      a.Service,
		}
	default:
		return AuthEnvelope{Type: AuthKindNone}
	}
}

// Scheme converts the envelope back to an AuthScheme.
func (e AuthEnvelope) Scheme() (AuthScheme, error) {
	switch e.Type {
	case "", AuthKindNone:
		return NoAuth{}, nil
	case AuthKindBasic:
		return BasicAuth{Username: e.Username, Password: e.Password}, nil
	case AuthKindBearer:
		return BearerAuth{Token: e.Token}, nil
	case AuthKindAPIKey:
		loc := e.Location
		switch loc {
		case "":
			loc = APIKeyInHeader
		case APIKeyInHeader, APIKeyInQuery:
		default:
			return nil, fmt.Errorf("unknown api key location %q", e.Location)
		}
		return APIKeyAuth{Key: e.Key, Value: e.Value, Location: loc}, nil
	case AuthKindAWSSigV4:
		return AWSSigV4Auth{
			AccessKey:    e.AccessKey,
			SecretKey:    e.SecretKey,
			SessionToken: e.SessionToken,
			Region:       e.Region,
			Service:      e.Service,
		}, nil
	default:
		return nil, fmt.Errorf("unknown auth type %q", e.Type)
	}
}
