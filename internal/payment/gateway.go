// Package payment talks to the external payment provider. Order creation is
// a network call; signature verification is recomputed locally against the
// shared secret and never leaves the process.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hostelhub/server/internal/apperr"
)

// Order is the provider's handle for a payable amount.
type Order struct {
	OrderID      string  `json:"order_id"`
	ReceiptToken string  `json:"receipt_token"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
}

type Gateway interface {
	CreateOrder(ctx context.Context, amount float64, currency, referenceID string) (*Order, error)
	// VerifySignature reports whether signature matches the expected
	// HMAC for the order/payment pair. A mismatch is a plain false, not
	// an error.
	VerifySignature(orderID, paymentID, signature string) bool
}

type HTTPGateway struct {
	baseURL string
	keyID   string
	secret  string
	client  *http.Client
	logger  *slog.Logger
}

func NewHTTPGateway(baseURL, keyID, secret string, logger *slog.Logger) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		keyID:   keyID,
		secret:  secret,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

type createOrderRequest struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Reference string  `json:"reference"`
}

type createOrderResponse struct {
	ID      string `json:"id"`
	Receipt string `json:"receipt"`
}

// CreateOrder asks the provider for a new order. Transient failures are
// retried once; anything else surfaces as a gateway error.
func (g *HTTPGateway) CreateOrder(ctx context.Context, amount float64, currency, referenceID string) (*Order, error) {
	body, err := json.Marshal(createOrderRequest{
		Amount:    amount,
		Currency:  currency,
		Reference: referenceID,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to encode order request", err)
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		order, retryable, err := g.createOrderOnce(ctx, body, amount, currency)
		if err == nil {
			return order, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		g.logger.Warn("payment order creation failed, retrying", "attempt", attempt+1, "error", err)
	}

	return nil, apperr.Wrap(apperr.Gateway, "payment provider unavailable", lastErr)
}

func (g *HTTPGateway) createOrderOnce(ctx context.Context, body []byte, amount float64, currency string) (*Order, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.secret)

	resp, err := g.client.Do(req)
	if err != nil {
		// Network-level failure; worth one retry.
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("provider returned %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, false, fmt.Errorf("provider returned %d", resp.StatusCode)
	}

	var decoded createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, false, fmt.Errorf("decode provider response: %w", err)
	}

	return &Order{
		OrderID:      decoded.ID,
		ReceiptToken: decoded.Receipt,
		Amount:       amount,
		Currency:     currency,
	}, false, nil
}

// VerifySignature recomputes HMAC-SHA256 over "orderID|paymentID" with the
// shared secret and compares in constant time.
func (g *HTTPGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(g.secret, orderID, paymentID, signature)
}

func VerifySignature(secret, orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign produces the signature the provider would send for an order/payment
// pair. Exposed for tests and local tooling.
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
