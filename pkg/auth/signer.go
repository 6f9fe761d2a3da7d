// Package auth builds the authentication envelope of signed calls: a nonce
// from a pluggable NonceSource and a signature from a pluggable Strategy.
package auth

import (
	"fmt"

	"shapeshift/pkg/core"
)

// Header names carrying the envelope. The body holds only declared parameters.
const (
	HeaderAPIKey    = "X-Api-Key"
	HeaderNonce     = "X-Nonce"
	HeaderSignature = "X-Signature"
)

// Signature is the envelope attached to an authenticated request.
type Signature struct {
	Nonce string
	Value string
}

// Signer produces nonces and signatures for a fixed set of credentials.
type Signer struct {
	creds    core.Credentials
	strategy Strategy
	nonces   NonceSource
}

// Option configures a Signer.
type Option func(*Signer)

// WithStrategy replaces the default HMAC-SHA256 strategy.
func WithStrategy(s Strategy) Option {
	return func(sg *Signer) {
		sg.strategy = s
	}
}

// WithNonceSource replaces the default timestamp nonce source.
func WithNonceSource(n NonceSource) Option {
	return func(sg *Signer) {
		sg.nonces = n
	}
}

// NewSigner returns a signer using HMAC-SHA256 and timestamp nonces unless overridden.
func NewSigner(creds core.Credentials, opts ...Option) *Signer {
	s := &Signer{
		creds:    creds,
		strategy: NewHMACSHA256(),
		nonces:   NewTimestampNonce(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Message returns the canonical string that gets signed:
// nonce, method, URL and body joined by newlines.
func Message(nonce, method, url string, body []byte) []byte {
	msg := make([]byte, 0, len(nonce)+len(method)+len(url)+len(body)+3)
	msg = append(msg, nonce...)
	msg = append(msg, '\n')
	msg = append(msg, method...)
	msg = append(msg, '\n')
	msg = append(msg, url...)
	msg = append(msg, '\n')
	msg = append(msg, body...)
	return msg
}

// Sign draws a fresh nonce and signs the canonical message for the request.
func (s *Signer) Sign(method, url string, body []byte) (Signature, error) {
	if s.creds.SecretKey == "" {
		return Signature{}, &core.SwapError{
			Kind:    core.KindValidation,
			Code:    core.ErrCodeNoCredentials,
			Message: "secret key is required for signing",
			Err:     core.ErrNoCredentials,
		}
	}

	nonce := s.nonces.Next()
	value, err := s.strategy.Sign(Message(nonce, method, url, body), s.creds.SecretKey)
	if err != nil {
		return Signature{}, fmt.Errorf("sign payload: %w", err)
	}
	return Signature{Nonce: nonce, Value: value}, nil
}

// Apply signs the request and sets the envelope headers.
func (s *Signer) Apply(req *core.Request) error {
	payload, err := req.Payload()
	if err != nil {
		return fmt.Errorf("encode body: %w", err)
	}

	sig, err := s.Sign(req.Method, req.URL, payload)
	if err != nil {
		return err
	}

	if s.creds.APIKey != "" {
		req.SetHeader(HeaderAPIKey, s.creds.APIKey)
	}
	req.SetHeader(HeaderNonce, sig.Nonce)
	req.SetHeader(HeaderSignature, sig.Value)
	return nil
}
