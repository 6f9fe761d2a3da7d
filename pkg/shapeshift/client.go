package shapeshift

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	httpclient "shapeshift/internal/http"
	"shapeshift/internal/ratelimit"
	"shapeshift/pkg/auth"
	"shapeshift/pkg/core"
)

// Limiter spaces authenticated calls by a minimum interval. Create one per
// process with NewLimiter and hand the same pointer to every Client.
type Limiter = ratelimit.Interval

// NewLimiter returns a limiter whose first call never waits.
func NewLimiter(min time.Duration) *Limiter {
	return ratelimit.NewInterval(min)
}

// State represents the lifecycle state of a Client.
type State int

const (
	// StateActive indicates a client that is ready to process requests.
	StateActive State = iota
	// StateClosed indicates a client that has been shut down and can no longer be used.
	StateClosed
)

// String returns the string representation of the State.
func (s State) String() string {
	return [...]string{"ACTIVE", "CLOSED"}[s]
}

// Client runs every operation through the same pipeline: validate and
// compose the request, throttle authenticated calls on the shared limiter,
// sign, dispatch, then record. Clients are safe for concurrent use.
type Client struct {
	mu        sync.RWMutex
	config    *core.Config
	protocol  *Protocol
	transport core.Transport
	limiter   *Limiter
	public    *ratelimit.TokenBucket
	signer    *auth.Signer
	logger    zerolog.Logger
	state     State
	createdAt time.Time
	lastUsed  time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used by the client and its default transport.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTransport replaces the default resty transport.
func WithTransport(t core.Transport) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// WithSigner replaces the signer derived from the configured credentials.
func WithSigner(s *auth.Signer) Option {
	return func(c *Client) {
		c.signer = s
	}
}

// New creates a client. The configuration is validated and the pair catalog
// generated before the client is returned. The limiter is required and is
// normally shared with every other client in the process.
func New(config *core.Config, limiter *Limiter, opts ...Option) (*Client, error) {
	if config == nil {
		return nil, core.NewValidationError(core.ErrCodeInvalidConfig, "config is required")
	}
	if limiter == nil {
		return nil, &core.SwapError{
			Kind:      core.KindValidation,
			Code:      core.ErrCodeInvalidConfig,
			Message:   "new client",
			Err:       core.ErrLimiterRequired,
			Timestamp: time.Now(),
		}
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	protocol, err := NewProtocol(config)
	if err != nil {
		return nil, fmt.Errorf("build catalogs: %w", err)
	}

	now := time.Now()
	c := &Client{
		config:    config,
		protocol:  protocol,
		limiter:   limiter,
		logger:    zerolog.Nop(),
		state:     StateActive,
		createdAt: now,
		lastUsed:  now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.signer == nil && config.Credentials != nil {
		c.signer = auth.NewSigner(*config.Credentials)
	}
	if config.PublicRateLimitRequests > 0 {
		c.public = ratelimit.NewTokenBucket(config.PublicRateLimitRequests, config.PublicRateLimitPeriod)
	}
	if c.transport == nil {
		transport, err := httpclient.NewClient(httpclient.ConfigFrom(config), c.logger)
		if err != nil {
			return nil, fmt.Errorf("create transport: %w", err)
		}
		c.transport = transport
	}

	return c, nil
}

// Do runs a composed request through the pipeline and returns the raw body.
// Requests that require authentication are throttled on the shared limiter
// and signed; others only pass the optional public limiter.
func (c *Client) Do(ctx context.Context, req *core.Request) ([]byte, error) {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return nil, core.NewTransportError("dispatch", core.ErrClientClosed)
	}
	c.lastUsed = time.Now()
	c.mu.Unlock()

	if req.RequireAuth {
		return c.doSigned(ctx, req)
	}

	if c.public != nil {
		if err := c.public.Wait(ctx); err != nil {
			return nil, fmt.Errorf("public rate limit wait: %w", err)
		}
	}
	return c.dispatch(ctx, req)
}

func (c *Client) doSigned(ctx context.Context, req *core.Request) ([]byte, error) {
	if c.signer == nil {
		return nil, &core.SwapError{
			Kind:      core.KindValidation,
			Code:      core.ErrCodeNoCredentials,
			Message:   fmt.Sprintf("%s requires credentials", req.Op),
			Err:       core.ErrNoCredentials,
			Timestamp: time.Now(),
		}
	}

	if wait := c.limiter.Remaining(); wait > 0 {
		c.logger.Debug().
			Str("op", req.Op.String()).
			Dur("wait", wait).
			Msg("throttling call")
	}

	slot, err := c.limiter.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("throttle: %w", err)
	}

	if err := c.signer.Apply(req); err != nil {
		slot.Abort()
		return nil, fmt.Errorf("sign request: %w", err)
	}

	defer slot.Release()
	return c.dispatch(ctx, req)
}

// dispatch hands the request to the transport. Its errors are returned unchanged.
func (c *Client) dispatch(ctx context.Context, req *core.Request) ([]byte, error) {
	return c.transport.Do(ctx, req)
}

// rejected logs a request that failed validation and passes the error on.
func (c *Client) rejected(op core.Operation, err error) ([]byte, error) {
	c.logger.Debug().
		Err(err).
		Str("op", op.String()).
		Msg("request rejected")
	return nil, err
}

func (c *Client) run(ctx context.Context, op core.Operation, req *core.Request, err error) ([]byte, error) {
	if err != nil {
		return c.rejected(op, err)
	}
	return c.Do(ctx, req)
}

// Rate returns the current rate for a pair, or for every pair when pair is empty.
func (c *Client) Rate(ctx context.Context, pair string) ([]byte, error) {
	req, err := c.protocol.RateRequest(pair)
	return c.run(ctx, core.OpRate, req, err)
}

// DepositLimit returns the maximum deposit for a pair.
func (c *Client) DepositLimit(ctx context.Context, pair string) ([]byte, error) {
	req, err := c.protocol.DepositLimitRequest(pair)
	return c.run(ctx, core.OpDepositLimit, req, err)
}

// MarketInfo returns rate, limits and miner fee for a pair, or for every pair.
func (c *Client) MarketInfo(ctx context.Context, pair string) ([]byte, error) {
	req, err := c.protocol.MarketInfoRequest(pair)
	return c.run(ctx, core.OpMarketInfo, req, err)
}

// RecentTransactions returns up to max recent swaps. Zero lets the service choose.
func (c *Client) RecentTransactions(ctx context.Context, max int) ([]byte, error) {
	req, err := c.protocol.RecentTransactionsRequest(max)
	return c.run(ctx, core.OpRecentTransactions, req, err)
}

// TransactionStatus returns the status of the deposit sent to address.
func (c *Client) TransactionStatus(ctx context.Context, address string) ([]byte, error) {
	req, err := c.protocol.TransactionStatusRequest(address)
	return c.run(ctx, core.OpTransactionStatus, req, err)
}

// TimeRemaining returns the seconds left on a fixed-amount deposit.
func (c *Client) TimeRemaining(ctx context.Context, address string) ([]byte, error) {
	req, err := c.protocol.TimeRemainingRequest(address)
	return c.run(ctx, core.OpTimeRemaining, req, err)
}

// TimeRemainingRipple is TimeRemaining for a Ripple deposit with a destination tag.
func (c *Client) TimeRemainingRipple(ctx context.Context, address, destTag string) ([]byte, error) {
	req, err := c.protocol.TimeRemainingRippleRequest(address, destTag)
	return c.run(ctx, core.OpTimeRemaining, req, err)
}

// Coins returns every coin the service knows, with availability.
func (c *Client) Coins(ctx context.Context) ([]byte, error) {
	req, err := c.protocol.CoinsRequest()
	return c.run(ctx, core.OpCoins, req, err)
}

// TransactionsByAPIKey lists the swaps made with a private API key.
func (c *Client) TransactionsByAPIKey(ctx context.Context, apiKey string) ([]byte, error) {
	req, err := c.protocol.TransactionsByAPIKeyRequest(apiKey)
	return c.run(ctx, core.OpTransactionsByAPIKey, req, err)
}

// TransactionsByAddress lists the swaps sent to a withdrawal address.
func (c *Client) TransactionsByAddress(ctx context.Context, address, apiKey string) ([]byte, error) {
	req, err := c.protocol.TransactionsByAddressRequest(address, apiKey)
	return c.run(ctx, core.OpTransactionsByAddress, req, err)
}

// TransactionsByAddressRipple is TransactionsByAddress for a Ripple address with a destination tag.
func (c *Client) TransactionsByAddressRipple(ctx context.Context, address, apiKey, destTag string) ([]byte, error) {
	req, err := c.protocol.TransactionsByAddressRippleRequest(address, apiKey, destTag)
	return c.run(ctx, core.OpTransactionsByAddress, req, err)
}

// ValidateAddress asks the service whether address is valid for coin.
func (c *Client) ValidateAddress(ctx context.Context, address, coin string) ([]byte, error) {
	req, err := c.protocol.ValidateAddressRequest(address, coin)
	return c.run(ctx, core.OpValidateAddress, req, err)
}

// Shift creates a swap and returns the deposit address.
func (c *Client) Shift(ctx context.Context, in *ShiftRequest) ([]byte, error) {
	req, err := c.protocol.ShiftRequest(in)
	return c.run(ctx, core.OpShift, req, err)
}

// RequestEmailReceipt mails a receipt for a completed order.
func (c *Client) RequestEmailReceipt(ctx context.Context, in *EmailReceiptRequest) ([]byte, error) {
	req, err := c.protocol.EmailReceiptRequest(in)
	return c.run(ctx, core.OpEmailReceipt, req, err)
}

// SendAmount creates a fixed-amount swap and returns the quote.
func (c *Client) SendAmount(ctx context.Context, in *SendAmountRequest) ([]byte, error) {
	req, err := c.protocol.SendAmountRequest(in)
	return c.run(ctx, core.OpSendAmount, req, err)
}

// CancelPending cancels a pending swap by its deposit address.
func (c *Client) CancelPending(ctx context.Context, in *CancelPendingRequest) ([]byte, error) {
	req, err := c.protocol.CancelPendingRequest(in)
	return c.run(ctx, core.OpCancelPending, req, err)
}

// Protocol returns the request builder backing the client.
func (c *Client) Protocol() *Protocol {
	return c.protocol
}

// CoinCatalog returns the configured coin catalog.
func (c *Client) CoinCatalog() *core.CoinCatalog {
	return c.protocol.Coins()
}

// PairCatalog returns the pairs generated from the coin catalog.
func (c *Client) PairCatalog() *core.PairCatalog {
	return c.protocol.Pairs()
}

// Limiter returns the shared limiter.
func (c *Client) Limiter() *Limiter {
	return c.limiter
}

// PublicMetrics returns the public limiter statistics. ok is false when
// the public limiter is disabled.
func (c *Client) PublicMetrics() (snapshot ratelimit.MetricsSnapshot, ok bool) {
	if c.public == nil {
		return ratelimit.MetricsSnapshot{}, false
	}
	return c.public.Metrics(), true
}

// Config returns the configuration used to create the client.
func (c *Client) Config() *core.Config {
	return c.config
}

// State returns the current lifecycle state of the client.
func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// CreatedAt returns the timestamp when the client was created.
func (c *Client) CreatedAt() time.Time {
	return c.createdAt
}

// LastUsed returns the timestamp of the last request issued by the client.
func (c *Client) LastUsed() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUsed
}

// Close shuts down the client and its transport when the transport owns
// resources. The shared limiter is left untouched.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateClosed {
		return nil
	}
	c.state = StateClosed

	if closer, ok := c.transport.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
