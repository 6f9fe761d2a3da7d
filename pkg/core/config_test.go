package core

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Empty(t, config.BaseURL)
	assert.False(t, config.CORS)
	assert.Equal(t, 10*time.Second, config.Timeout)
	assert.Equal(t, time.Second, config.MinInterval)
	assert.Equal(t, 0, config.PublicRateLimitRequests)
	assert.Equal(t, DefaultCoins, config.Coins)
	assert.Equal(t, "info", config.LogLevel)
	assert.NoError(t, config.Validate())
}

func TestDefaultConfig_CopiesCoins(t *testing.T) {
	config := DefaultConfig()
	config.Coins[0] = "zzz"

	assert.Equal(t, "btc", DefaultCoins[0])
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid_config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "invalid_timeout",
			mutate:  func(c *Config) { c.Timeout = -1 * time.Second },
			wantErr: true,
			errMsg:  "Timeout",
		},
		{
			name:    "negative_min_interval",
			mutate:  func(c *Config) { c.MinInterval = -time.Millisecond },
			wantErr: true,
			errMsg:  "MinInterval",
		},
		{
			name:    "invalid_base_url",
			mutate:  func(c *Config) { c.BaseURL = "not a url" },
			wantErr: true,
			errMsg:  "BaseURL",
		},
		{
			name:    "single_coin",
			mutate:  func(c *Config) { c.Coins = []string{"btc"} },
			wantErr: true,
			errMsg:  "Coins",
		},
		{
			name:    "coin_with_symbols",
			mutate:  func(c *Config) { c.Coins = []string{"btc", "l-t-c"} },
			wantErr: true,
			errMsg:  "Coins",
		},
		{
			name:    "invalid_log_level",
			mutate:  func(c *Config) { c.LogLevel = "trace" },
			wantErr: true,
			errMsg:  "LogLevel",
		},
		{
			name:    "public_limit_without_period",
			mutate:  func(c *Config) { c.PublicRateLimitRequests = 5 },
			wantErr: true,
			errMsg:  "PublicRateLimitPeriod",
		},
		{
			name:    "public_limit_with_period",
			mutate:  func(c *Config) { c.WithPublicRateLimit(5, time.Second) },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, IsErrorCode(err, ErrCodeInvalidConfig))
				assert.True(t, strings.Contains(err.Error(), tt.errMsg), "expected error to contain %q, got %q", tt.errMsg, err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Endpoint(t *testing.T) {
	assert.Equal(t, "https://shapeshift.io/", DefaultConfig().Endpoint())
	assert.Equal(t, "https://cors.shapeshift.io/", DefaultConfig().WithCORS(true).Endpoint())
	assert.Equal(t, "http://127.0.0.1:8080/", DefaultConfig().WithBaseURL("http://127.0.0.1:8080").Endpoint())
	assert.Equal(t, "http://127.0.0.1:8080/api/", DefaultConfig().WithBaseURL("http://127.0.0.1:8080/api/").Endpoint())
}

func TestConfig_WithCredentials(t *testing.T) {
	config := DefaultConfig()
	creds := &Credentials{
		APIKey:    "test-key",
		SecretKey: "test-secret",
	}

	result := config.WithCredentials(creds)

	assert.Equal(t, config, result)
	assert.Equal(t, creds, config.Credentials)
}

func TestConfig_Chained(t *testing.T) {
	config := DefaultConfig().
		WithTimeout(30*time.Second).
		WithMinInterval(250*time.Millisecond).
		WithProxy("socks5://127.0.0.1:1080").
		WithCoins("btc", "ltc", "eth")

	assert.Equal(t, 30*time.Second, config.Timeout)
	assert.Equal(t, 250*time.Millisecond, config.MinInterval)
	assert.Equal(t, "socks5://127.0.0.1:1080", config.Proxy)
	assert.Equal(t, []string{"btc", "ltc", "eth"}, config.Coins)
	assert.NoError(t, config.Validate())
}

func TestCredentials_String(t *testing.T) {
	creds := Credentials{APIKey: "abcdefghijkl", SecretKey: "short"}

	assert.Equal(t, "Credentials{APIKey:abcd****ijkl, SecretKey:****}", creds.String())
	assert.NotContains(t, creds.String(), "short")
}
