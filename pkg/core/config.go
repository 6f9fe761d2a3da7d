package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// ProductionURL is the service endpoint base.
	ProductionURL = "https://shapeshift.io/"
	// CORSURL serves the same API with CORS headers enabled.
	CORSURL = "https://cors.shapeshift.io/"
)

// Credentials holds API authentication credentials.
type Credentials struct {
	// APIKey is the public affiliate key, used for volume tracking and split-shifts.
	APIKey string `json:"api_key" yaml:"api_key"`
	// SecretKey is the private key used for signing authenticated calls.
	SecretKey string `json:"secret_key" yaml:"secret_key"`
}

// String masks both keys so credentials are safe to log.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{APIKey:%s, SecretKey:%s}", maskKey(c.APIKey), maskKey(c.SecretKey))
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}

// Config contains all configuration options for a client.
type Config struct {
	// BaseURL overrides the service host. When empty, CORS selects the host.
	BaseURL string `json:"base_url" yaml:"base_url" validate:"omitempty,url"`
	CORS    bool   `json:"cors" yaml:"cors"`
	// Proxy routes every call through the given proxy URL, e.g. socks5://127.0.0.1:1080.
	Proxy     string `json:"proxy" yaml:"proxy" validate:"omitempty,url"`
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	Credentials *Credentials `json:"credentials,omitempty" yaml:"credentials,omitempty"`

	// Timeout is the maximum duration for a single HTTP request.
	Timeout time.Duration `json:"timeout" yaml:"timeout" validate:"min=1ms"`

	// MinInterval is the minimum spacing between authenticated calls.
	MinInterval time.Duration `json:"min_interval" yaml:"min_interval" validate:"min=0"`

	// PublicRateLimitRequests per PublicRateLimitPeriod caps unauthenticated calls.
	// Zero disables the public limiter.
	PublicRateLimitRequests int           `json:"public_rate_limit_requests" yaml:"public_rate_limit_requests" validate:"min=0"`
	PublicRateLimitPeriod   time.Duration `json:"public_rate_limit_period" yaml:"public_rate_limit_period" validate:"min=0"`

	// Coins is the ordered coin catalog. Pair generation depends on the order.
	Coins []string `json:"coins" yaml:"coins" validate:"required,min=2,dive,required,alphanum"`

	LogLevel string `json:"log_level" yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns a Config initialized with sensible defaults:
// production host, 10s timeout, 1s between authenticated calls, public
// limiter disabled and the default coin catalog.
func DefaultConfig() *Config {
	coins := make([]string, len(DefaultCoins))
	copy(coins, DefaultCoins)
	return &Config{
		Timeout:     10 * time.Second,
		MinInterval: time.Second,
		Coins:       coins,
		LogLevel:    "info",
	}
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return NewValidationError(ErrCodeInvalidConfig, "%v", err)
	}
	if c.PublicRateLimitRequests > 0 && c.PublicRateLimitPeriod <= 0 {
		return NewValidationError(ErrCodeInvalidConfig, "PublicRateLimitPeriod must be positive when PublicRateLimitRequests is set")
	}
	return nil
}

// Endpoint returns the base URL every path is composed onto. It always ends with "/".
func (c *Config) Endpoint() string {
	base := c.BaseURL
	if base == "" {
		if c.CORS {
			return CORSURL
		}
		return ProductionURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base
}

// WithCredentials sets the API credentials and returns the config for chaining.
func (c *Config) WithCredentials(creds *Credentials) *Config {
	c.Credentials = creds
	return c
}

// WithBaseURL overrides the service host and returns the config for chaining.
func (c *Config) WithBaseURL(url string) *Config {
	c.BaseURL = url
	return c
}

// WithCORS switches to the CORS host and returns the config for chaining.
func (c *Config) WithCORS(cors bool) *Config {
	c.CORS = cors
	return c
}

// WithProxy sets the proxy URL and returns the config for chaining.
func (c *Config) WithProxy(proxy string) *Config {
	c.Proxy = proxy
	return c
}

// WithTimeout sets the request timeout and returns the config for chaining.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithMinInterval sets the spacing between authenticated calls and returns the config for chaining.
func (c *Config) WithMinInterval(interval time.Duration) *Config {
	c.MinInterval = interval
	return c
}

// WithPublicRateLimit caps unauthenticated calls and returns the config for chaining.
func (c *Config) WithPublicRateLimit(requests int, period time.Duration) *Config {
	c.PublicRateLimitRequests = requests
	c.PublicRateLimitPeriod = period
	return c
}

// WithCoins replaces the coin catalog and returns the config for chaining.
func (c *Config) WithCoins(coins ...string) *Config {
	c.Coins = coins
	return c
}
