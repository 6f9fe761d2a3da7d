package auth

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// NonceSource produces a per-request uniqueness token.
type NonceSource interface {
	Next() string
}

// TimestampNonce yields millisecond timestamps that strictly increase,
// even for calls landing in the same millisecond.
type TimestampNonce struct {
	last atomic.Int64
	now  func() time.Time
}

// NewTimestampNonce returns a source backed by the wall clock.
func NewTimestampNonce() *TimestampNonce {
	return &TimestampNonce{now: time.Now}
}

// Next returns the current millisecond, bumped past the last value if needed.
func (n *TimestampNonce) Next() string {
	for {
		last := n.last.Load()
		next := n.now().UnixMilli()
		if next <= last {
			next = last + 1
		}
		if n.last.CompareAndSwap(last, next) {
			return strconv.FormatInt(next, 10)
		}
	}
}

// UUIDNonce yields random version 4 UUIDs.
type UUIDNonce struct{}

// Next returns a new random UUID.
func (UUIDNonce) Next() string {
	return uuid.NewString()
}

// StaticNonce always returns the same value. Services reject replayed
// nonces, so this is only useful in tests.
type StaticNonce string

// Next returns the fixed value.
func (n StaticNonce) Next() string {
	return string(n)
}
