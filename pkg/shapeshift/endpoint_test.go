package shapeshift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shapeshift/pkg/core"
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	coins, err := core.NewCoinCatalog(core.DefaultCoins)
	require.NoError(t, err)
	return NewBuilder(core.ProductionURL, core.NewPairCatalog(coins))
}

func TestNewBuilder_TrailingSlash(t *testing.T) {
	b := NewBuilder("http://localhost:8080", nil)
	assert.Equal(t, "http://localhost:8080/", b.Base())

	b = NewBuilder("http://localhost:8080/", nil)
	assert.Equal(t, "http://localhost:8080/", b.Base())
}

func TestBuilder_Build(t *testing.T) {
	b := newTestBuilder(t)

	tests := []struct {
		name     string
		resource string
		confine  string
		nullable bool
		want     string
		code     core.ErrorCode
	}{
		{
			name:     "empty confine on nullable resource",
			resource: "rate",
			nullable: true,
			want:     "https://shapeshift.io/rate/",
		},
		{
			name:     "empty confine on required resource",
			resource: "txStat",
			code:     core.ErrCodeMissingConfine,
		},
		{
			name:     "covered pair is canonicalized",
			resource: "rate",
			confine:  " LTC_BTC ",
			nullable: true,
			want:     "https://shapeshift.io/rate/ltc_btc",
		},
		{
			name:     "reversed pair is not covered",
			resource: "rate",
			confine:  "btc_ltc",
			nullable: true,
			code:     core.ErrCodeInvalidPair,
		},
		{
			name:     "pair with unknown coin",
			resource: "marketinfo",
			confine:  "eth_btc",
			nullable: true,
			code:     core.ErrCodeInvalidPair,
		},
		{
			name:     "address passes through",
			resource: "txStat",
			confine:  "1BoatSLRHtKNngkdXEeobR76b53LETtpyT",
			want:     "https://shapeshift.io/txstat/1BoatSLRHtKNngkdXEeobR76b53LETtpyT",
		},
		{
			name:     "upper-case resource is lowered",
			resource: "RATE",
			nullable: true,
			want:     "https://shapeshift.io/rate/",
		},
		{
			name:     "mixed-case resource is lowered and trimmed",
			resource: " MarketInfo ",
			confine:  "doge_btc",
			nullable: true,
			want:     "https://shapeshift.io/marketinfo/doge_btc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.Build(tt.resource, tt.confine, tt.nullable)
			if tt.code != "" {
				require.Error(t, err)
				assert.True(t, core.IsValidationError(err))
				assert.True(t, core.IsErrorCode(err, tt.code), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuilder_BuildSpec(t *testing.T) {
	b := newTestBuilder(t)

	tests := []struct {
		name    string
		spec    EndpointSpec
		confine string
		want    string
		code    core.ErrorCode
	}{
		{name: "forbidden has no trailing slash", spec: EndpointCoins, want: "https://shapeshift.io/getcoins"},
		{name: "forbidden rejects argument", spec: EndpointCoins, confine: "btc", code: core.ErrCodeInvalidParam},
		{name: "post resource", spec: EndpointShift, want: "https://shapeshift.io/shift"},
		{name: "optional pair omitted", spec: EndpointDepositLimit, want: "https://shapeshift.io/limit/"},
		{name: "strict pair", spec: EndpointRate, confine: "doge_ltc", want: "https://shapeshift.io/rate/doge_ltc"},
		{name: "strict pair rejects address", spec: EndpointRate, confine: "1BoatSLR", code: core.ErrCodeInvalidPair},
		{name: "number in range", spec: EndpointRecentTx, confine: "25", want: "https://shapeshift.io/recenttx/25"},
		{name: "number lower bound", spec: EndpointRecentTx, confine: "0", code: core.ErrCodeInvalidParam},
		{name: "number upper bound", spec: EndpointRecentTx, confine: "51", code: core.ErrCodeInvalidParam},
		{name: "number not numeric", spec: EndpointRecentTx, confine: "ten", code: core.ErrCodeInvalidParam},
		{name: "required address missing", spec: EndpointTimeRemaining, confine: "  ", code: core.ErrCodeMissingConfine},
		{name: "address keeps case", spec: EndpointTxStatus, confine: "Xyz123", want: "https://shapeshift.io/txstat/Xyz123"},
		{name: "validate address resource is lowered", spec: EndpointValidateAddress, confine: "1Abc/btc", want: "https://shapeshift.io/validateaddress/1Abc/btc"},
		{name: "upper-case spec resource", spec: EndpointSpec{Resource: "GETCOINS", Rule: ConfineForbidden}, want: "https://shapeshift.io/getcoins"},
		{name: "mixed-case spec resource with confine", spec: EndpointSpec{Resource: "TxByAPIKey", Rule: ConfineRequired, Kind: KindAPIKey}, confine: "Key9", want: "https://shapeshift.io/txbyapikey/Key9"},
		{name: "api key passes through", spec: EndpointTxByAPIKey, confine: "abc_def", want: "https://shapeshift.io/txbyapikey/abc_def"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.BuildSpec(tt.spec, tt.confine)
			if tt.code != "" {
				require.Error(t, err)
				assert.True(t, core.IsErrorCode(err, tt.code), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEndpointSpec_Nullable(t *testing.T) {
	assert.True(t, EndpointRate.Nullable())
	assert.True(t, EndpointCoins.Nullable())
	assert.False(t, EndpointTxStatus.Nullable())
}
