package gateway

import (
	"context"
	"errors"
	"strings"

	razorpay "github.com/razorpay/razorpay-go"
)

// Razorpay implements Client over the official SDK.
type Razorpay struct {
	client *razorpay.Client
}

// NewRazorpay constructs a gateway client from the API key pair.
func NewRazorpay(keyID, keySecret string) *Razorpay {
	return &Razorpay{client: razorpay.NewClient(keyID, keySecret)}
}

// CreateOrder opens a gateway order for the given amount in minor units and
// returns the gateway-assigned order id.
func (r *Razorpay) CreateOrder(_ context.Context, amountMinor int64, currency string) (string, error) {
	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": strings.ToUpper(strings.TrimSpace(currency)),
	}
	body, err := r.client.Order.Create(data, nil)
	if err != nil {
		return "", err
	}
	orderID, ok := body["id"].(string)
	if !ok || orderID == "" {
		return "", errors.New("gateway order response missing id")
	}
	return orderID, nil
}

// FetchPayment looks up a payment by its gateway id.
func (r *Razorpay) FetchPayment(_ context.Context, paymentID string) (Payment, error) {
	body, err := r.client.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		return Payment{}, err
	}
	orderID, _ := body["order_id"].(string)
	status, _ := body["status"].(string)
	return Payment{OrderID: orderID, Status: status}, nil
}
