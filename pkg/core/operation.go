package core

// Operation represents a call supported by the swap service.
type Operation int

// Operation constants define all supported service calls.
const (
	// OpRate retrieves the estimated exchange rate for a pair.
	OpRate Operation = iota
	// OpDepositLimit retrieves the current deposit limit for a pair.
	OpDepositLimit
	// OpMarketInfo retrieves rate, limits and miner fee for a pair.
	OpMarketInfo
	// OpRecentTransactions lists the most recent swaps.
	OpRecentTransactions
	// OpTransactionStatus retrieves the status of the last deposit to an address.
	OpTransactionStatus
	// OpTimeRemaining retrieves the seconds left on a fixed-amount transaction.
	OpTimeRemaining
	// OpCoins lists the currently supported coins.
	OpCoins
	// OpTransactionsByAPIKey lists swaps made with a private API key.
	OpTransactionsByAPIKey
	// OpTransactionsByAddress lists swaps sent to an output address.
	OpTransactionsByAddress
	// OpValidateAddress checks an address against a coin's wallet daemon.
	OpValidateAddress
	// OpShift creates a normal swap.
	OpShift
	// OpEmailReceipt requests a receipt e-mail for an order.
	OpEmailReceipt
	// OpSendAmount creates a fixed-amount swap or requests a quote.
	OpSendAmount
	// OpCancelPending cancels a pending swap by deposit address.
	OpCancelPending
)

// String returns the string representation of the operation.
func (o Operation) String() string {
	return [...]string{
		"RATE",
		"DEPOSIT_LIMIT",
		"MARKET_INFO",
		"RECENT_TRANSACTIONS",
		"TRANSACTION_STATUS",
		"TIME_REMAINING",
		"COINS",
		"TRANSACTIONS_BY_API_KEY",
		"TRANSACTIONS_BY_ADDRESS",
		"VALIDATE_ADDRESS",
		"SHIFT",
		"EMAIL_RECEIPT",
		"SEND_AMOUNT",
		"CANCEL_PENDING",
	}[o]
}

// IsAuthenticated reports whether the operation is a signed POST call.
func (o Operation) IsAuthenticated() bool {
	return o >= OpShift
}
