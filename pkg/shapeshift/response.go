package shapeshift

import (
	"bytes"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/apd/v3"

	"shapeshift/pkg/core"
)

// Amount is a decimal quantity. The service sends amounts both as JSON
// strings and as bare numbers; both decode without loss.
type Amount struct {
	apd.Decimal
}

// NewAmount parses a decimal string.
func NewAmount(s string) (Amount, error) {
	var a Amount
	if _, _, err := a.Decimal.SetString(s); err != nil {
		return Amount{}, err
	}
	return a, nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	data = bytes.Trim(data, `"`)
	if len(data) == 0 {
		return nil
	}
	if _, _, err := a.Decimal.SetString(string(data)); err != nil {
		return fmt.Errorf("amount %q: %w", data, err)
	}
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(a.String())
}

func (a Amount) String() string {
	return a.Decimal.Text('f')
}

// Rate is the response of rate/{pair}.
type Rate struct {
	Pair string `json:"pair"`
	Rate Amount `json:"rate"`
}

// Limit is the response of limit/{pair}.
type Limit struct {
	Pair  string `json:"pair"`
	Limit Amount `json:"limit"`
	Min   Amount `json:"min"`
}

// MarketInfo is one entry of marketinfo. Without a pair the service
// returns a list of these.
type MarketInfo struct {
	Pair     string `json:"pair"`
	Rate     Amount `json:"rate"`
	Limit    Amount `json:"limit"`
	MaxLimit Amount `json:"maxLimit"`
	Minimum  Amount `json:"minimum"`
	MinerFee Amount `json:"minerFee"`
}

// RecentTransaction is one entry of recenttx.
type RecentTransaction struct {
	CurIn     string `json:"curIn"`
	CurOut    string `json:"curOut"`
	Amount    Amount `json:"amount"`
	Timestamp Amount `json:"timestamp"`
	TxID      string `json:"txid,omitempty"`
}

// Deposit statuses reported by txStat.
const (
	StatusNoDeposits = "no_deposits"
	StatusReceived   = "received"
	StatusComplete   = "complete"
	StatusFailed     = "failed"
)

// DepositStatus is the response of txStat/{address}. The incoming and
// outgoing fields are set once a deposit has been seen.
type DepositStatus struct {
	Status       string `json:"status"`
	Address      string `json:"address"`
	Withdraw     string `json:"withdraw,omitempty"`
	IncomingCoin Amount `json:"incomingCoin"`
	IncomingType string `json:"incomingType,omitempty"`
	OutgoingCoin Amount `json:"outgoingCoin"`
	OutgoingType string `json:"outgoingType,omitempty"`
	Transaction  string `json:"transaction,omitempty"`
	Error        string `json:"error,omitempty"`
}

// TimeRemaining is the response of timeremaining/{address}.
type TimeRemaining struct {
	Status           string `json:"status"`
	SecondsRemaining Amount `json:"seconds_remaining"`
}

// CoinInfo is one entry of getcoins, keyed by symbol.
type CoinInfo struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Image  string `json:"image"`
	Status string `json:"status"`
}

// Available reports whether the coin is currently accepted.
func (c CoinInfo) Available() bool {
	return c.Status == "available"
}

// TransactionRecord is one entry of txbyapikey and txbyaddress.
type TransactionRecord struct {
	InputTxID      string `json:"inputTXID"`
	InputAddress   string `json:"inputAddress"`
	InputCurrency  string `json:"inputCurrency"`
	InputAmount    Amount `json:"inputAmount"`
	OutputTxID     string `json:"outputTXID"`
	OutputAddress  string `json:"outputAddress"`
	OutputCurrency string `json:"outputCurrency"`
	OutputAmount   Amount `json:"outputAmount"`
	ShiftRate      Amount `json:"shiftRate"`
	Status         string `json:"status"`
}

// AddressValidation is the response of validateAddress. Its error field
// explains an invalid address and is not a service failure.
type AddressValidation struct {
	Valid bool   `json:"isvalid"`
	Error string `json:"error,omitempty"`
}

// ShiftResponse is the response of shift.
type ShiftResponse struct {
	Deposit        string `json:"deposit"`
	DepositType    string `json:"depositType"`
	Withdrawal     string `json:"withdrawal"`
	WithdrawalType string `json:"withdrawalType"`
	Public         string `json:"public,omitempty"`
	XRPDestTag     string `json:"xrpDestTag,omitempty"`
	APIPubKey      string `json:"apiPubKey,omitempty"`
}

// SendAmountQuote is the quote nested under "success" in a sendamount response.
type SendAmountQuote struct {
	Pair             string `json:"pair"`
	Withdrawal       string `json:"withdrawal"`
	WithdrawalAmount Amount `json:"withdrawalAmount"`
	Deposit          string `json:"deposit"`
	DepositAmount    Amount `json:"depositAmount"`
	Expiration       int64  `json:"expiration"`
	QuotedRate       Amount `json:"quotedRate"`
	MaxLimit         Amount `json:"maxLimit"`
	MinerFee         Amount `json:"minerFee"`
	ReturnAddress    string `json:"returnAddress,omitempty"`
	APIPubKey        string `json:"apiPubKey,omitempty"`
}

// SendAmountResponse is the response of sendamount.
type SendAmountResponse struct {
	Success SendAmountQuote `json:"success"`
}

// EmailReceipt is the response of mail.
type EmailReceipt struct {
	Email struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"email"`
}

// CancelResponse is the response of cancelpending.
type CancelResponse struct {
	Success string `json:"success"`
}

type errorPayload struct {
	Error any `json:"error"`
}

// CheckError returns a service error when the body is a JSON object
// carrying a non-empty "error" field.
func CheckError(body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var payload errorPayload
	if err := sonic.Unmarshal(trimmed, &payload); err != nil {
		return nil
	}
	switch v := payload.Error.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		return core.NewServiceError(v)
	default:
		return core.NewServiceError(fmt.Sprint(v))
	}
}

// Decode checks the body for a service error and decodes it into T.
func Decode[T any](body []byte) (T, error) {
	var out T
	if err := CheckError(body); err != nil {
		return out, err
	}
	if err := decodeInto(body, &out); err != nil {
		return out, err
	}
	return out, nil
}

func decodeInto(body []byte, out any) error {
	if err := sonic.Unmarshal(body, out); err != nil {
		return &core.SwapError{
			Kind:      core.KindService,
			Code:      core.ErrCodeService,
			Message:   "decode response",
			Err:       err,
			Timestamp: time.Now(),
		}
	}
	return nil
}

// DecodeAddressValidation decodes a validateAddress body. Its error field is
// part of the answer, so it is not checked.
func DecodeAddressValidation(body []byte) (AddressValidation, error) {
	var out AddressValidation
	err := decodeInto(body, &out)
	return out, err
}
