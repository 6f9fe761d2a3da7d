package core

import "strings"

// DefaultCoins is the coin list supported by the service as of April 2018.
// Order matters: pair generation depends on catalog position.
var DefaultCoins = []string{
	"btc", "ltc", "ppc", "drk", "doge", "nmc", "ftc", "blk", "nxt", "btcd",
	"qrk", "rdd", "nbt", "bts", "bitusd", "xcp", "xmr",
}

// CoinCatalog is an ordered, immutable set of coin symbols.
type CoinCatalog struct {
	symbols []string
	index   map[string]int
}

// NewCoinCatalog builds a catalog from the given symbols, keeping their order.
// Symbols are trimmed and lower-cased. Empty and duplicate symbols are rejected.
func NewCoinCatalog(symbols []string) (*CoinCatalog, error) {
	if len(symbols) == 0 {
		return nil, NewValidationError(ErrCodeInvalidConfig, "coin catalog is empty")
	}

	c := &CoinCatalog{
		symbols: make([]string, 0, len(symbols)),
		index:   make(map[string]int, len(symbols)),
	}
	for _, s := range symbols {
		sym := normalize(s)
		if sym == "" {
			return nil, NewValidationError(ErrCodeInvalidCoin, "empty coin symbol")
		}
		if _, dup := c.index[sym]; dup {
			return nil, NewValidationError(ErrCodeInvalidCoin, "duplicate coin symbol %q", sym)
		}
		c.index[sym] = len(c.symbols)
		c.symbols = append(c.symbols, sym)
	}
	return c, nil
}

// Symbols returns a copy of the catalog in order.
func (c *CoinCatalog) Symbols() []string {
	out := make([]string, len(c.symbols))
	copy(out, c.symbols)
	return out
}

// Len returns the number of coins.
func (c *CoinCatalog) Len() int {
	return len(c.symbols)
}

// Contains reports whether the symbol is in the catalog, ignoring case and surrounding space.
func (c *CoinCatalog) Contains(symbol string) bool {
	_, ok := c.index[normalize(symbol)]
	return ok
}

// Index returns the catalog position of the symbol, or -1.
func (c *CoinCatalog) Index(symbol string) int {
	if i, ok := c.index[normalize(symbol)]; ok {
		return i
	}
	return -1
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
