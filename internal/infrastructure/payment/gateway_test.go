package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreateOrderSendsProviderRequest(t *testing.T) {
	var gotAuth bool
	var gotBody createOrderRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		gotAuth = ok && user == "key_id" && pass == "key_secret"

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]string{"id": "order_ABC123"})
	}))
	defer srv.Close()

	g := NewGateway(Config{KeyID: "key_id", KeySecret: "key_secret", BaseURL: srv.URL}, zap.NewNop())

	orderID, err := g.CreateOrder(context.Background(), 49900)
	require.NoError(t, err)
	require.Equal(t, "order_ABC123", orderID)

	require.True(t, gotAuth, "request should carry basic auth credentials")
	require.Equal(t, int64(49900), gotBody.Amount)
	require.Equal(t, "INR", gotBody.Currency)
	require.Equal(t, 1, gotBody.PaymentCapture)
	require.Len(t, gotBody.Receipt, 12)
}

func TestCreateOrderProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g := NewGateway(Config{KeyID: "k", KeySecret: "s", BaseURL: srv.URL}, zap.NewNop())

	_, err := g.CreateOrder(context.Background(), 100)
	require.Error(t, err)
}

func TestVerifySignature(t *testing.T) {
	secret := "key_secret"
	g := NewGateway(Config{KeyID: "k", KeySecret: secret, BaseURL: "http://unused"}, zap.NewNop())

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("order_1|pay_1"))
	valid := hex.EncodeToString(mac.Sum(nil))

	require.True(t, g.VerifySignature("order_1", "pay_1", valid))
	require.False(t, g.VerifySignature("order_1", "pay_1", "deadbeef"))
	require.False(t, g.VerifySignature("order_2", "pay_1", valid))
}
