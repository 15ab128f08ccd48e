// Package auth applies a draft's authentication scheme to an assembled request.
package auth

import (
	"context"
	"encoding/base64"
	"log/slog"

	"github.com/shhac/courier/internal/domain"
	"github.com/shhac/courier/internal/request"
)

// Applier converts an AuthScheme into header or query mutations.
type Applier struct {
	signer *Signer
	logger *slog.Logger
}

// NewApplier creates an Applier that signs AWS requests with signer.
func NewApplier(signer *Signer, logger *slog.Logger) *Applier {
	if signer == nil {
		signer = NewSigner(nil)
	}
	return &Applier{signer: signer, logger: logger}
}

// Apply mutates req according to scheme. Only the SigV4 scheme can fail;
// the returned error is then a *SigningError and req is left unsigned.
// Only the ApiKey query variant touches the URL, and the body is never changed.
func (a *Applier) Apply(ctx context.Context, scheme domain.AuthScheme, req *request.WireRequest) error {
	switch s := scheme.(type) {
	case nil, domain.NoAuth:
		return nil

	case domain.BasicAuth:
		req.Set("Authorization", BasicHeader(s.Username, s.Password))

	case domain.BearerAuth:
		req.Set("Authorization", "Bearer "+s.Token)

	case domain.APIKeyAuth:
		if s.Location == domain.APIKeyInQuery {
			req.AddQuery(s.Key, s.Value)
		} else {
			req.Set(s.Key, s.Value)
		}

	case domain.AWSSigV4Auth:
		if err := a.signer.Sign(ctx, req, s); err != nil {
			return err
		}
	}

	a.logger.Debug("applied auth",
		slog.String("kind", string(scheme.Kind())),
		slog.String("url", req.URL),
	)
	return nil
}

// BasicHeader returns the Authorization value for HTTP Basic auth.
func BasicHeader(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}
