package shapeshift

import (
	"errors"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/go-playground/validator/v10"

	"shapeshift/pkg/core"
)

// Optionals are the parameters shift and sendamount accept on top of their
// required fields. Nil pointers are left out of the body entirely.
type Optionals struct {
	// ReturnAddress receives the deposit back if anything goes wrong.
	ReturnAddress *string
	// DestTag is appended to a Ripple payment.
	DestTag *string
	// RSAddress funds a new NXT account.
	RSAddress *string
	// IncludeAPIKey attaches the configured public API key.
	IncludeAPIKey bool
}

// ShiftRequest creates a normal swap.
type ShiftRequest struct {
	Withdrawal string `validate:"required"`
	Pair       string `validate:"required"`
	Optionals
}

// SendAmountRequest creates a fixed-amount swap.
type SendAmountRequest struct {
	Amount        *apd.Decimal `validate:"required"`
	DepositAmount *apd.Decimal `validate:"required"`
	Withdrawal    string       `validate:"required"`
	Pair          string       `validate:"required"`
	Optionals
}

// EmailReceiptRequest asks for a receipt for an order.
type EmailReceiptRequest struct {
	Email   string `validate:"required,email"`
	OrderID string `validate:"required"`
}

// CancelPendingRequest cancels a pending swap by its deposit address.
type CancelPendingRequest struct {
	Address string `validate:"required"`
}

// String returns a pointer to s, for filling optional parameters.
func String(s string) *string {
	return &s
}

var validate = validator.New()

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, fe.Field()+" failed "+fe.Tag())
		}
		return core.NewValidationError(core.ErrCodeInvalidParam, "%s", strings.Join(msgs, "; "))
	}
	return core.NewValidationError(core.ErrCodeInvalidParam, "%v", err)
}
