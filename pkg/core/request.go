package core

import "net/http"

// Request is a fully composed call ready for a Transport.
type Request struct {
	Op          Operation         `json:"op"`
	Method      string            `json:"method"`
	URL         string            `json:"url"`
	Body        *Body             `json:"body,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	RequireAuth bool              `json:"require_auth"`
}

// NewRequest returns a request without a body or headers.
func NewRequest(op Operation, method, url string) *Request {
	return &Request{
		Op:      op,
		Method:  method,
		URL:     url,
		Headers: make(map[string]string),
	}
}

// SetBody attaches the ordered body.
func (r *Request) SetBody(body *Body) *Request {
	r.Body = body
	return r
}

// SetHeader sets a header, allocating the map on first use.
func (r *Request) SetHeader(key, value string) *Request {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers[key] = value
	return r
}

// SetRequireAuth marks the request for throttling and signing.
func (r *Request) SetRequireAuth(require bool) *Request {
	r.RequireAuth = require
	return r
}

// Payload returns the serialized body, or nil for requests without one.
func (r *Request) Payload() ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	return r.Body.MarshalJSON()
}

// IsPost reports whether the request carries a body.
func (r *Request) IsPost() bool {
	return r.Method == http.MethodPost
}
