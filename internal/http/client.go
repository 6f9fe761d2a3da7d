package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"resty.dev/v3"

	"shapeshift/pkg/core"
)

// Client is the resty implementation of core.Transport. It never retries;
// failures are surfaced to the caller as transport errors.
type Client struct {
	client *resty.Client
	logger zerolog.Logger
	mu     sync.RWMutex
	closed bool
}

// Config holds the transport settings.
type Config struct {
	Timeout   time.Duration     `validate:"min=1ms"`
	Proxy     string            `validate:"omitempty,url"`
	UserAgent string            `validate:"omitempty"`
	Headers   map[string]string `validate:"omitempty"`
}

// ConfigFrom derives the transport settings from a client configuration.
func ConfigFrom(cfg *core.Config) *Config {
	return &Config{
		Timeout:   cfg.Timeout,
		Proxy:     cfg.Proxy,
		UserAgent: cfg.UserAgent,
	}
}

// NewClient validates the config and builds the resty client.
func NewClient(config *Config, logger zerolog.Logger) (*Client, error) {
	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := resty.New()
	client.SetTimeout(config.Timeout)
	client.SetRetryCount(0)
	if config.Proxy != "" {
		client.SetProxy(config.Proxy)
	}
	if config.UserAgent != "" {
		client.SetHeader("User-Agent", config.UserAgent)
	}
	for k, v := range config.Headers {
		client.SetHeader(k, v)
	}

	client.AddRequestMiddleware(func(_ *resty.Client, req *resty.Request) error {
		logger.Debug().
			Str("method", req.Method).
			Str("url", req.URL).
			Msg("http request")
		return nil
	})

	client.AddResponseMiddleware(func(_ *resty.Client, resp *resty.Response) error {
		logger.Debug().
			Str("method", resp.Request.Method).
			Str("url", resp.Request.URL).
			Int("status", resp.StatusCode()).
			Int("size", len(resp.Bytes())).
			Msg("http response")
		return nil
	})

	return &Client{
		client: client,
		logger: logger,
	}, nil
}

// Close releases idle connections. Later calls fail with ErrClientClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.client.Close()
}

// Do dispatches the request and returns the raw response body.
func (c *Client) Do(ctx context.Context, req *core.Request) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, core.NewTransportError("dispatch", core.ErrClientClosed)
	}

	r := c.client.R().SetContext(ctx)
	for k, v := range req.Headers {
		r.SetHeader(k, v)
	}

	var (
		resp *resty.Response
		err  error
	)
	switch req.Method {
	case http.MethodGet:
		resp, err = r.Get(req.URL)
	case http.MethodPost:
		payload, encErr := req.Payload()
		if encErr != nil {
			return nil, fmt.Errorf("encode body: %w", encErr)
		}
		resp, err = r.SetHeader("Content-Type", "application/json").
			SetBody(payload).
			Post(req.URL)
	default:
		return nil, fmt.Errorf("unsupported http method: %s", req.Method)
	}

	if err != nil {
		c.logger.Error().Err(err).
			Str("method", req.Method).
			Str("url", req.URL).
			Msg("http request failed")
		return nil, core.NewTransportError("http request", err)
	}

	body := resp.Bytes()
	if resp.IsError() {
		c.logger.Warn().
			Str("method", req.Method).
			Str("url", req.URL).
			Int("status", resp.StatusCode()).
			Msg("http error status")
		return body, core.NewTransportError(fmt.Sprintf("http status %s", resp.Status()), nil).
			WithStatus(resp.StatusCode())
	}

	return body, nil
}
