// Package gateway wraps the hosted payment gateway: order creation and the
// payment lookup used to reconcile claimed-successful payments.
package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Payment is the gateway's authoritative record of a payment.
type Payment struct {
	OrderID string
	Status  string
}

// Client abstracts the operations required from the upstream gateway so tests
// can substitute fakes.
type Client interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency string) (string, error)
	FetchPayment(ctx context.Context, paymentID string) (Payment, error)
}

// Captured reports whether a gateway payment status indicates a completed
// capture.
func Captured(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), "captured")
}

// Signature computes the Razorpay checkout signature: HMAC-SHA256 over
// "orderID|paymentID" keyed with the API secret, hex encoded.
func Signature(orderID, paymentID, secret string) string {
	key := strings.TrimSpace(secret)
	if key == "" {
		return ""
	}
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(orderID))
	mac.Write([]byte("|"))
	mac.Write([]byte(paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
