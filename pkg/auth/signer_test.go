package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shapeshift/pkg/core"
)

func expectedHMAC(msg []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(msg)
	return hex.EncodeToString(h.Sum(nil))
}

func TestHMAC_Sign(t *testing.T) {
	sig, err := NewHMACSHA256().Sign([]byte("payload"), "secret")
	require.NoError(t, err)

	assert.Equal(t, expectedHMAC([]byte("payload"), "secret"), sig)
	assert.Len(t, sig, 64)

	sig512, err := NewHMACSHA512().Sign([]byte("payload"), "secret")
	require.NoError(t, err)
	assert.Len(t, sig512, 128)
}

func TestMessage(t *testing.T) {
	msg := Message("42", "POST", "https://shapeshift.io/shift", []byte(`{"a":1}`))

	assert.Equal(t, "42\nPOST\nhttps://shapeshift.io/shift\n{\"a\":1}", string(msg))
}

func TestSigner_Sign(t *testing.T) {
	signer := NewSigner(core.Credentials{APIKey: "pub", SecretKey: "secret"},
		WithNonceSource(StaticNonce("7")))

	sig, err := signer.Sign("POST", "https://shapeshift.io/mail", []byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, "7", sig.Nonce)
	assert.Equal(t, expectedHMAC(Message("7", "POST", "https://shapeshift.io/mail", []byte(`{}`)), "secret"), sig.Value)
}

func TestSigner_NoSecret(t *testing.T) {
	signer := NewSigner(core.Credentials{APIKey: "pub"})

	_, err := signer.Sign("POST", "/shift", nil)

	assert.ErrorIs(t, err, core.ErrNoCredentials)
	assert.True(t, core.IsErrorCode(err, core.ErrCodeNoCredentials))
}

func TestSigner_CustomStrategy(t *testing.T) {
	var gotPayload []byte
	var gotSecret string
	strategy := StrategyFunc(func(payload []byte, secret string) (string, error) {
		gotPayload = payload
		gotSecret = secret
		return "custom", nil
	})

	signer := NewSigner(core.Credentials{SecretKey: "s3"},
		WithStrategy(strategy), WithNonceSource(StaticNonce("n")))

	sig, err := signer.Sign("POST", "/x", []byte("b"))
	require.NoError(t, err)

	assert.Equal(t, "custom", sig.Value)
	assert.Equal(t, "s3", gotSecret)
	assert.Equal(t, "n\nPOST\n/x\nb", string(gotPayload))
}

func TestSigner_StrategyError(t *testing.T) {
	boom := errors.New("hsm unavailable")
	signer := NewSigner(core.Credentials{SecretKey: "s"},
		WithStrategy(StrategyFunc(func([]byte, string) (string, error) { return "", boom })))

	_, err := signer.Sign("POST", "/x", nil)

	assert.ErrorIs(t, err, boom)
}

func TestSigner_Apply(t *testing.T) {
	signer := NewSigner(core.Credentials{APIKey: "pub", SecretKey: "secret"},
		WithNonceSource(StaticNonce("99")))
	req := core.NewRequest(core.OpCancelPending, http.MethodPost, "https://shapeshift.io/cancelpending").
		SetBody(core.NewBody().Set("address", "1abc"))

	require.NoError(t, signer.Apply(req))

	payload, _ := req.Payload()
	assert.Equal(t, "pub", req.Headers[HeaderAPIKey])
	assert.Equal(t, "99", req.Headers[HeaderNonce])
	assert.Equal(t, expectedHMAC(Message("99", "POST", req.URL, payload), "secret"), req.Headers[HeaderSignature])
	assert.Equal(t, 1, req.Body.Len(), "envelope must not leak into the body")
}

func TestSigner_ApplyWithoutAPIKey(t *testing.T) {
	signer := NewSigner(core.Credentials{SecretKey: "secret"})
	req := core.NewRequest(core.OpShift, http.MethodPost, "/shift")

	require.NoError(t, signer.Apply(req))

	_, ok := req.Headers[HeaderAPIKey]
	assert.False(t, ok)
	assert.NotEmpty(t, req.Headers[HeaderNonce])
}

func TestTimestampNonce_StrictlyIncreasing(t *testing.T) {
	fixed := time.UnixMilli(1_700_000_000_000)
	n := NewTimestampNonce()
	n.now = func() time.Time { return fixed }

	assert.Equal(t, "1700000000000", n.Next())
	assert.Equal(t, "1700000000001", n.Next())
	assert.Equal(t, "1700000000002", n.Next())
}

func TestTimestampNonce_Concurrent(t *testing.T) {
	n := NewTimestampNonce()

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := n.Next()
			mu.Lock()
			seen[v] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 100)
	for v := range seen {
		_, err := strconv.ParseInt(v, 10, 64)
		assert.NoError(t, err)
	}
}

func TestUUIDNonce(t *testing.T) {
	a, b := UUIDNonce{}.Next(), UUIDNonce{}.Next()

	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}
