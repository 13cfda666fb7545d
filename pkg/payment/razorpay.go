// Package payment talks to the Razorpay gateway: it opens orders for the
// hosted checkout and checks the signature the checkout hands back.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/razorpay/razorpay-go"
)

var ErrOrderCreationFailed = errors.New("failed to create payment order")

type Config struct {
	KeyID     string
	KeySecret string
}

type Gateway struct {
	client    *razorpay.Client
	keyID     string
	keySecret string
}

func NewGateway(cfg Config) *Gateway {
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		slog.Warn("razorpay credentials are empty, orders will fail")
	}
	return &Gateway{
		client:    razorpay.NewClient(cfg.KeyID, cfg.KeySecret),
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
	}
}

func (g *Gateway) KeyID() string { return g.keyID }

// CreateOrder opens an order for amount in the smallest currency unit and
// returns the gateway's order id.
func (g *Gateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
	}
	id, ok := order["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("%w: response has no order id", ErrOrderCreationFailed)
	}
	slog.Info("payment order created", "order_id", id, "amount", amount, "currency", currency)
	return id, nil
}

// VerifySignature checks the checkout signature, a hex HMAC-SHA256 of
// "orderId|paymentId" keyed with the account secret.
func (g *Gateway) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(g.keySecret, orderID, paymentID, signature)
}

func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func VerifySignature(secret, orderID, paymentID, signature string) bool {
	if secret == "" || orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	expected := Sign(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
