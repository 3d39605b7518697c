package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rizanep/waqthecombackend1/pkg/mylogger"
	"github.com/rizanep/waqthecombackend1/pkg/utils"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Gateway talks to the external payment provider. CreateOrder registers a
// payable order and returns the provider's order id, VerifySignature checks
// the callback signature the provider sends after a payment.
type Gateway interface {
	CreateOrder(ctx context.Context, amountMinorUnits int64) (string, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

type Config struct {
	KeyID     string
	KeySecret string
	BaseURL   string
}

type gateway struct {
	cfg    Config
	client *http.Client
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

func NewGateway(cfg Config, logger *zap.Logger) Gateway {
	settings := utils.NewBreakerSettings("PaymentGateway")
	settings.OnStateChange = func(name string, from gobreaker.State, to gobreaker.State) {
		logger.Warn(
			"Circuit breaker state changed",
			zap.String("name", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	}

	return &gateway{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		cb:     gobreaker.NewCircuitBreaker(settings),
		logger: logger,
	}
}

type createOrderRequest struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
	PaymentCapture int    `json:"payment_capture"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

func (g *gateway) CreateOrder(ctx context.Context, amountMinorUnits int64) (string, error) {
	receipt := uuid.New().String()[:12]

	body, err := json.Marshal(createOrderRequest{
		Amount:         amountMinorUnits,
		Currency:       "INR",
		Receipt:        receipt,
		PaymentCapture: 1,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal order request: %w", err)
	}

	orderID, err := utils.ExecuteWithBreaker(g.cb, func() (string, error) {
		return g.doCreateOrder(ctx, body)
	})
	if err != nil {
		mylogger.Error(
			ctx,
			g.logger,
			"Failed to create payment order",
			zap.Int64("amount", amountMinorUnits),
			zap.Error(err),
		)

		return "", err
	}

	mylogger.Info(
		ctx,
		g.logger,
		"Payment order created ✅",
		zap.String("order_id", orderID),
		zap.String("receipt", receipt),
	)

	return orderID, nil
}

func (g *gateway) doCreateOrder(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	req.SetBasicAuth(g.cfg.KeyID, g.cfg.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("payment provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("payment provider returned %d: %s", resp.StatusCode, payload)
	}

	var parsed createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode provider response: %w", err)
	}

	if parsed.ID == "" {
		return "", fmt.Errorf("provider response missing order id")
	}

	return parsed.ID, nil
}

// VerifySignature checks the HMAC-SHA256 the provider computes over
// "orderID|paymentID" with the key secret.
func (g *gateway) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.cfg.KeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
