package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

// PaymentGateway opens an online payment for an order and returns the
// provider's reference for it.
type PaymentGateway interface {
	CreatePayment(ctx context.Context, orderID uint, amount decimal.Decimal) (string, error)
}

type StripeGateway struct {
	sc       *client.API
	currency string
}

func NewStripeGateway(secretKey, currency string) *StripeGateway {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	if currency == "" {
		currency = string(stripe.CurrencyINR)
	}
	return &StripeGateway{sc: sc, currency: strings.ToLower(currency)}
}

// CreatePayment creates a PaymentIntent for amount in the smallest
// currency unit
func (g *StripeGateway) CreatePayment(ctx context.Context, orderID uint, amount decimal.Decimal) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(amount.Shift(2).Round(0).IntPart()),
		Currency:    stripe.String(g.currency),
		Description: stripe.String(fmt.Sprintf("Home Flavours order #%d", orderID)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("order_id", fmt.Sprint(orderID))

	pi, err := g.sc.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe payment intent: %w", err)
	}
	return pi.ID, nil
}

// ManualGateway records GPay orders for out-of-band settlement
type ManualGateway struct{}

func (ManualGateway) CreatePayment(_ context.Context, orderID uint, _ decimal.Decimal) (string, error) {
	return fmt.Sprintf("manual-%d", orderID), nil
}
