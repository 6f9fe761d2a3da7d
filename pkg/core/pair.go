package core

import "strings"

// PairStatus is the outcome of checking a value against the pair catalog.
type PairStatus int

const (
	// PairRejected means the value is not a covered pair.
	PairRejected PairStatus = iota
	// PairEmpty means no pair constraint was given.
	PairEmpty
	// PairAccepted means the value is a covered pair.
	PairAccepted
)

// String returns the string representation of the status.
func (s PairStatus) String() string {
	return [...]string{
		"REJECTED",
		"EMPTY",
		"ACCEPTED",
	}[s]
}

// PairCatalog is the immutable set of pairs covered by the service.
type PairCatalog struct {
	pairs []string
	set   map[string]struct{}
}

// GeneratePairs emits coins[i]_coins[j] for every j < i.
// Each unordered combination appears once, with the higher-indexed coin first.
func GeneratePairs(coins []string) []string {
	pairs := make([]string, 0, len(coins)*(len(coins)-1)/2)
	for i := range coins {
		for j := 0; j < i; j++ {
			pairs = append(pairs, coins[i]+"_"+coins[j])
		}
	}
	return pairs
}

// NewPairCatalog generates the pair catalog for the given coins.
func NewPairCatalog(coins *CoinCatalog) *PairCatalog {
	pairs := GeneratePairs(coins.symbols)
	set := make(map[string]struct{}, len(pairs))
	for _, p := range pairs {
		set[p] = struct{}{}
	}
	return &PairCatalog{pairs: pairs, set: set}
}

// Check normalizes the value and tests it for exact membership.
// The empty string is accepted as "no pair constraint".
func (p *PairCatalog) Check(pair string) (string, PairStatus) {
	pair = normalize(pair)
	if pair == "" {
		return pair, PairEmpty
	}
	if _, ok := p.set[pair]; ok {
		return pair, PairAccepted
	}
	return pair, PairRejected
}

// Contains reports whether the value is a covered pair.
func (p *PairCatalog) Contains(pair string) bool {
	_, status := p.Check(pair)
	return status == PairAccepted
}

// Pairs returns the covered pairs in generation order.
func (p *PairCatalog) Pairs() []string {
	out := make([]string, len(p.pairs))
	copy(out, p.pairs)
	return out
}

// Len returns the number of covered pairs.
func (p *PairCatalog) Len() int {
	return len(p.pairs)
}

// IsPairShaped reports whether the value looks like "<alnum>_<alnum>" once normalized.
// Addresses and API keys do not contain underscores, so this tells the two apart.
func IsPairShaped(value string) bool {
	base, quote, ok := strings.Cut(normalize(value), "_")
	return ok && isAlnum(base) && isAlnum(quote)
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
