package shapeshift

import (
	"strconv"
	"strings"

	"shapeshift/pkg/core"
)

// ConfineRule says whether an endpoint takes a path argument.
type ConfineRule int

const (
	ConfineOptional ConfineRule = iota
	ConfineRequired
	ConfineForbidden
)

// ConfineKind says how a path argument is validated.
type ConfineKind int

const (
	// KindAuto checks pair-shaped values against the pair catalog and
	// passes anything else through.
	KindAuto ConfineKind = iota
	// KindPair requires a covered pair.
	KindPair
	// KindAddress passes the value through verbatim.
	KindAddress
	// KindAPIKey passes the value through verbatim.
	KindAPIKey
	// KindNumber requires an integer within [Min, Max].
	KindNumber
)

// EndpointSpec describes one GET resource and its path argument.
type EndpointSpec struct {
	Resource string
	Rule     ConfineRule
	Kind     ConfineKind
	Min, Max int
}

// Nullable reports whether the path argument may be empty.
func (s EndpointSpec) Nullable() bool {
	return s.Rule != ConfineRequired
}

var (
	EndpointRate            = EndpointSpec{Resource: "rate", Rule: ConfineOptional, Kind: KindPair}
	EndpointDepositLimit    = EndpointSpec{Resource: "limit", Rule: ConfineOptional, Kind: KindPair}
	EndpointMarketInfo      = EndpointSpec{Resource: "marketinfo", Rule: ConfineOptional, Kind: KindPair}
	EndpointRecentTx        = EndpointSpec{Resource: "recenttx", Rule: ConfineOptional, Kind: KindNumber, Min: 1, Max: 50}
	EndpointTxStatus        = EndpointSpec{Resource: "txStat", Rule: ConfineRequired, Kind: KindAddress}
	EndpointTimeRemaining   = EndpointSpec{Resource: "timeremaining", Rule: ConfineRequired, Kind: KindAddress}
	EndpointCoins           = EndpointSpec{Resource: "getcoins", Rule: ConfineForbidden}
	EndpointTxByAPIKey      = EndpointSpec{Resource: "txbyapikey", Rule: ConfineRequired, Kind: KindAPIKey}
	EndpointTxByAddress     = EndpointSpec{Resource: "txbyaddress", Rule: ConfineRequired, Kind: KindAddress}
	EndpointValidateAddress = EndpointSpec{Resource: "validateAddress", Rule: ConfineRequired, Kind: KindAddress}
	EndpointShift           = EndpointSpec{Resource: "shift", Rule: ConfineForbidden}
	EndpointMail            = EndpointSpec{Resource: "mail", Rule: ConfineForbidden}
	EndpointSendAmount      = EndpointSpec{Resource: "sendamount", Rule: ConfineForbidden}
	EndpointCancelPending   = EndpointSpec{Resource: "cancelpending", Rule: ConfineForbidden}
)

// Builder composes absolute request URLs from a base and a resource.
type Builder struct {
	base  string
	pairs *core.PairCatalog
}

// NewBuilder returns a builder for the given base. A trailing slash is added if missing.
func NewBuilder(base string, pairs *core.PairCatalog) *Builder {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &Builder{base: base, pairs: pairs}
}

// Base returns the URL every resource is composed onto.
func (b *Builder) Base() string {
	return b.base
}

// Build composes base + resource + "/" + confine. An empty confine is allowed
// only when nullable. A pair-shaped confine must be a covered pair; any other
// value, such as an address or API key, is appended as given.
func (b *Builder) Build(resource, confine string, nullable bool) (string, error) {
	resource = normalizeResource(resource)
	value, err := b.resolveAuto(resource, confine, nullable)
	if err != nil {
		return "", err
	}
	return b.base + resource + "/" + value, nil
}

// BuildSpec composes the URL for a described endpoint.
func (b *Builder) BuildSpec(spec EndpointSpec, confine string) (string, error) {
	resource := normalizeResource(spec.Resource)
	confine = strings.TrimSpace(confine)

	if spec.Rule == ConfineForbidden {
		if confine != "" {
			return "", core.NewValidationError(core.ErrCodeInvalidParam, "%s takes no argument", resource)
		}
		return b.base + resource, nil
	}

	if spec.Kind == KindAuto {
		return b.Build(resource, confine, spec.Nullable())
	}

	if confine == "" {
		if !spec.Nullable() {
			return "", missingConfine(resource)
		}
		return b.base + resource + "/", nil
	}

	switch spec.Kind {
	case KindPair:
		canonical, status := b.pairs.Check(confine)
		if status != core.PairAccepted {
			return "", invalidPair(canonical)
		}
		confine = canonical
	case KindNumber:
		n, err := strconv.Atoi(confine)
		if err != nil || n < spec.Min || n > spec.Max {
			return "", core.NewValidationError(core.ErrCodeInvalidParam,
				"%s expects a number between %d and %d, got %q", resource, spec.Min, spec.Max, confine)
		}
	}

	return b.base + resource + "/" + confine, nil
}

func (b *Builder) resolveAuto(resource, confine string, nullable bool) (string, error) {
	canonical, status := b.pairs.Check(confine)
	switch {
	case status == core.PairEmpty:
		if !nullable {
			return "", missingConfine(resource)
		}
		return "", nil
	case status == core.PairAccepted:
		return canonical, nil
	case core.IsPairShaped(confine):
		return "", invalidPair(canonical)
	default:
		return strings.TrimSpace(confine), nil
	}
}

func normalizeResource(resource string) string {
	return strings.ToLower(strings.TrimSpace(resource))
}

func missingConfine(resource string) error {
	return core.NewValidationError(core.ErrCodeMissingConfine, "%s requires an argument", resource)
}

func invalidPair(pair string) error {
	return core.NewValidationError(core.ErrCodeInvalidPair, "pair %q is not covered", pair)
}
