package auth

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"

	"github.com/shhac/courier/internal/domain"
	apperrors "github.com/shhac/courier/internal/errors"
	"github.com/shhac/courier/internal/request"
)

const credentialSource = "courier"

// SigningError reports why a request could not be signed. It matches both
// ErrSigningFailed and the underlying cause with errors.Is.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string {
	return "sign request: " + e.Err.Error()
}

func (e *SigningError) Unwrap() []error {
	return []error{apperrors.ErrSigningFailed, e.Err}
}

// Signer signs requests with AWS Signature Version 4.
type Signer struct {
	v4  *v4.Signer
	now func() time.Time
}

// NewSigner returns a Signer reading the time from now, or time.Now if nil.
func NewSigner(now func() time.Time) *Signer {
	if now == nil {
		now = time.Now
	}
	return &Signer{v4: v4.NewSigner(), now: now}
}

// Sign computes the SigV4 Authorization header for req and merges it, along
// with X-Amz-Date and X-Amz-Security-Token, into req's headers. Every header
// already on req is signed. On error req is not modified.
func (s *Signer) Sign(ctx context.Context, req *request.WireRequest, creds domain.AWSSigV4Auth) error {
	if err := validateCredentials(creds); err != nil {
		return &SigningError{Err: err}
	}
	for _, h := range req.Headers {
		if !utf8.ValidString(h.Name) || !utf8.ValidString(h.Value) {
			return &SigningError{Err: fmt.Errorf("header %q is not valid UTF-8", h.Name)}
		}
	}

	signingTime := s.now()
	if signingTime.IsZero() {
		return &SigningError{Err: apperrors.ErrClock}
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(req.Method), req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return &SigningError{Err: fmt.Errorf("%w: %v", apperrors.ErrInvalidURL, err)}
	}
	for _, h := range req.Headers {
		if strings.EqualFold(h.Name, "Host") {
			httpReq.Host = h.Value
			continue
		}
		httpReq.Header.Set(h.Name, h.Value)
	}
	rawQuery := httpReq.URL.RawQuery

	awsCreds := aws.Credentials{
		AccessKeyID:     creds.AccessKey,
		SecretAccessKey: creds.SecretKey,
		SessionToken:    creds.SessionToken,
		Source:          credentialSource,
	}
	err = s.v4.SignHTTP(ctx, awsCreds, httpReq, PayloadHash(req.Body), creds.Service, creds.Region, signingTime.UTC())
	if err != nil {
		return &SigningError{Err: err}
	}

	for _, name := range []string{"Authorization", "X-Amz-Date", "X-Amz-Security-Token"} {
		if v := httpReq.Header.Get(name); v != "" {
			req.Set(name, v)
		}
	}
	if httpReq.URL.RawQuery != rawQuery {
		req.URL = httpReq.URL.String()
	}
	return nil
}

// PayloadHash is the hex-encoded SHA-256 of body.
func PayloadHash(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

func validateCredentials(c domain.AWSSigV4Auth) error {
	switch {
	case c.AccessKey == "":
		return fmt.Errorf("%w: access key is empty", apperrors.ErrInvalidCredentials)
	case c.SecretKey == "":
		return fmt.Errorf("%w: secret key is empty", apperrors.ErrInvalidCredentials)
	case c.Region == "":
		return fmt.Errorf("%w: region is empty", apperrors.ErrInvalidCredentials)
	case c.Service == "":
		return fmt.Errorf("%w: service is empty", apperrors.ErrInvalidCredentials)
	}
	return nil
}
