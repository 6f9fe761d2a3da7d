package core

import "context"

// Transport performs network I/O for a fully built request.
// Implementations return the raw response body; they own timeouts,
// proxying and TLS. Failures are returned unchanged to the caller.
type Transport interface {
	Do(ctx context.Context, req *Request) ([]byte, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *Request) ([]byte, error)

// Do calls f(ctx, req).
func (f TransportFunc) Do(ctx context.Context, req *Request) ([]byte, error) {
	return f(ctx, req)
}
