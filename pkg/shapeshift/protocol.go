package shapeshift

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"shapeshift/pkg/core"
)

// Protocol builds validated requests for every operation. It never performs I/O.
type Protocol struct {
	builder *Builder
	coins   *core.CoinCatalog
	pairs   *core.PairCatalog
	apiKey  string
}

// NewProtocol generates the catalogs for the configured coins.
func NewProtocol(config *core.Config) (*Protocol, error) {
	coins, err := core.NewCoinCatalog(config.Coins)
	if err != nil {
		return nil, err
	}
	pairs := core.NewPairCatalog(coins)

	var apiKey string
	if config.Credentials != nil {
		apiKey = config.Credentials.APIKey
	}

	return &Protocol{
		builder: NewBuilder(config.Endpoint(), pairs),
		coins:   coins,
		pairs:   pairs,
		apiKey:  apiKey,
	}, nil
}

// Builder returns the URL builder.
func (p *Protocol) Builder() *Builder {
	return p.builder
}

// Coins returns the configured coin catalog.
func (p *Protocol) Coins() *core.CoinCatalog {
	return p.coins
}

// Pairs returns the generated pair catalog.
func (p *Protocol) Pairs() *core.PairCatalog {
	return p.pairs
}

func (p *Protocol) get(op core.Operation, spec EndpointSpec, confine string) (*core.Request, error) {
	u, err := p.builder.BuildSpec(spec, confine)
	if err != nil {
		return nil, err
	}
	return core.NewRequest(op, http.MethodGet, u), nil
}

// RateRequest builds rate/{pair}. An empty pair asks for every pair.
func (p *Protocol) RateRequest(pair string) (*core.Request, error) {
	return p.get(core.OpRate, EndpointRate, pair)
}

// DepositLimitRequest builds limit/{pair}.
func (p *Protocol) DepositLimitRequest(pair string) (*core.Request, error) {
	return p.get(core.OpDepositLimit, EndpointDepositLimit, pair)
}

// MarketInfoRequest builds marketinfo/{pair}. An empty pair asks for every pair.
func (p *Protocol) MarketInfoRequest(pair string) (*core.Request, error) {
	return p.get(core.OpMarketInfo, EndpointMarketInfo, pair)
}

// RecentTransactionsRequest lists up to max recent swaps. Zero leaves the
// limit to the service, which returns 5.
func (p *Protocol) RecentTransactionsRequest(max int) (*core.Request, error) {
	confine := ""
	if max != 0 {
		confine = strconv.Itoa(max)
	}
	return p.get(core.OpRecentTransactions, EndpointRecentTx, confine)
}

// TransactionStatusRequest builds txstat/{address}.
func (p *Protocol) TransactionStatusRequest(address string) (*core.Request, error) {
	return p.get(core.OpTransactionStatus, EndpointTxStatus, address)
}

// TimeRemainingRequest builds timeremaining/{address}.
func (p *Protocol) TimeRemainingRequest(address string) (*core.Request, error) {
	return p.get(core.OpTimeRemaining, EndpointTimeRemaining, address)
}

// TimeRemainingRippleRequest escapes the address and appends the destination tag.
func (p *Protocol) TimeRemainingRippleRequest(address, destTag string) (*core.Request, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, missingConfine("timeremaining")
	}
	req, err := p.get(core.OpTimeRemaining, EndpointTimeRemaining, url.PathEscape(address))
	if err != nil {
		return nil, err
	}
	return withDestTag(req, destTag)
}

// CoinsRequest builds getcoins.
func (p *Protocol) CoinsRequest() (*core.Request, error) {
	return p.get(core.OpCoins, EndpointCoins, "")
}

// TransactionsByAPIKeyRequest builds txbyapikey/{apiKey}.
func (p *Protocol) TransactionsByAPIKeyRequest(apiKey string) (*core.Request, error) {
	return p.get(core.OpTransactionsByAPIKey, EndpointTxByAPIKey, apiKey)
}

// TransactionsByAddressRequest builds txbyaddress/{address}/{apiKey}.
func (p *Protocol) TransactionsByAddressRequest(address, apiKey string) (*core.Request, error) {
	confine, err := joinRequired("txbyaddress", address, apiKey)
	if err != nil {
		return nil, err
	}
	return p.get(core.OpTransactionsByAddress, EndpointTxByAddress, confine)
}

// TransactionsByAddressRippleRequest escapes the address and appends the destination tag.
func (p *Protocol) TransactionsByAddressRippleRequest(address, apiKey, destTag string) (*core.Request, error) {
	confine, err := joinRequired("txbyaddress", url.PathEscape(strings.TrimSpace(address)), apiKey)
	if err != nil {
		return nil, err
	}
	req, err := p.get(core.OpTransactionsByAddress, EndpointTxByAddress, confine)
	if err != nil {
		return nil, err
	}
	return withDestTag(req, destTag)
}

// ValidateAddressRequest builds validateaddress/{address}/{coin}. Any coin
// symbol is accepted, including ones outside the configured catalog.
func (p *Protocol) ValidateAddressRequest(address, coin string) (*core.Request, error) {
	coin = strings.ToLower(strings.TrimSpace(coin))
	if strings.ContainsAny(coin, "/?#") {
		return nil, core.NewValidationError(core.ErrCodeInvalidCoin, "coin %q is not a symbol", coin)
	}
	confine, err := joinRequired("validateaddress", address, coin)
	if err != nil {
		return nil, err
	}
	return p.get(core.OpValidateAddress, EndpointValidateAddress, confine)
}

// ShiftRequest builds the shift body: withdrawal, pair, then the optionals.
func (p *Protocol) ShiftRequest(in *ShiftRequest) (*core.Request, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	pair, err := p.checkPair(in.Pair)
	if err != nil {
		return nil, err
	}

	body := core.NewBody().
		Set("withdrawal", in.Withdrawal).
		Set("pair", pair)
	if err := p.appendOptionals(body, in.Optionals); err != nil {
		return nil, err
	}
	return p.post(core.OpShift, EndpointShift, body)
}

// EmailReceiptRequest builds the mail body.
func (p *Protocol) EmailReceiptRequest(in *EmailReceiptRequest) (*core.Request, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	body := core.NewBody().
		Set("email", in.Email).
		Set("orderId", in.OrderID)
	return p.post(core.OpEmailReceipt, EndpointMail, body)
}

// SendAmountRequest builds the sendamount body. Both amounts must be positive.
func (p *Protocol) SendAmountRequest(in *SendAmountRequest) (*core.Request, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := positive("Amount", in.Amount); err != nil {
		return nil, err
	}
	if err := positive("DepositAmount", in.DepositAmount); err != nil {
		return nil, err
	}
	pair, err := p.checkPair(in.Pair)
	if err != nil {
		return nil, err
	}

	body := core.NewBody().
		Set("amount", in.Amount.Text('f')).
		Set("depositAmount", in.DepositAmount.Text('f')).
		Set("withdrawal", in.Withdrawal).
		Set("pair", pair)
	if err := p.appendOptionals(body, in.Optionals); err != nil {
		return nil, err
	}
	return p.post(core.OpSendAmount, EndpointSendAmount, body)
}

// CancelPendingRequest builds the cancelpending body.
func (p *Protocol) CancelPendingRequest(in *CancelPendingRequest) (*core.Request, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	body := core.NewBody().Set("address", in.Address)
	return p.post(core.OpCancelPending, EndpointCancelPending, body)
}

func (p *Protocol) post(op core.Operation, spec EndpointSpec, body *core.Body) (*core.Request, error) {
	u, err := p.builder.BuildSpec(spec, "")
	if err != nil {
		return nil, err
	}
	return core.NewRequest(op, http.MethodPost, u).
		SetBody(body).
		SetRequireAuth(op.IsAuthenticated()), nil
}

// appendOptionals adds optional parameters in their fixed order.
func (p *Protocol) appendOptionals(body *core.Body, opt Optionals) error {
	body.SetOptional("returnAddress", opt.ReturnAddress).
		SetOptional("destTag", opt.DestTag).
		SetOptional("rsAddress", opt.RSAddress)

	if opt.IncludeAPIKey {
		if p.apiKey == "" {
			return core.NewValidationError(core.ErrCodeInvalidParam, "apiKey requested but none is configured")
		}
		body.Set("apiKey", p.apiKey)
	}
	return nil
}

func (p *Protocol) checkPair(pair string) (string, error) {
	canonical, status := p.pairs.Check(pair)
	switch status {
	case core.PairAccepted:
		return canonical, nil
	case core.PairEmpty:
		return "", core.NewValidationError(core.ErrCodeMissingConfine, "pair is required")
	default:
		return "", invalidPair(canonical)
	}
}

func positive(field string, d *apd.Decimal) error {
	if d.Sign() <= 0 {
		return core.NewValidationError(core.ErrCodeInvalidParam, "%s must be positive, got %s", field, d.Text('f'))
	}
	return nil
}

func joinRequired(resource string, parts ...string) (string, error) {
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return "", missingConfine(resource)
		}
		parts[i] = part
	}
	return strings.Join(parts, "/"), nil
}

func withDestTag(req *core.Request, destTag string) (*core.Request, error) {
	destTag = strings.TrimSpace(destTag)
	if destTag == "" {
		return nil, core.NewValidationError(core.ErrCodeInvalidParam, "destination tag is required")
	}
	req.URL += "?dt=" + url.QueryEscape(destTag)
	return req, nil
}
