package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
)

// Strategy computes a signature over a payload with a secret.
type Strategy interface {
	Sign(payload []byte, secret string) (string, error)
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc func(payload []byte, secret string) (string, error)

// Sign calls f(payload, secret).
func (f StrategyFunc) Sign(payload []byte, secret string) (string, error) {
	return f(payload, secret)
}

// HMAC signs with a keyed hash and returns the hex digest.
type HMAC struct {
	hash func() hash.Hash
}

// NewHMACSHA256 returns an HMAC-SHA256 strategy.
func NewHMACSHA256() *HMAC {
	return &HMAC{hash: sha256.New}
}

// NewHMACSHA512 returns an HMAC-SHA512 strategy.
func NewHMACSHA512() *HMAC {
	return &HMAC{hash: sha512.New}
}

func (h *HMAC) Sign(payload []byte, secret string) (string, error) {
	mac := hmac.New(h.hash, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil)), nil
}
