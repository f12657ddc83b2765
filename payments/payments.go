// Package payments wraps the hosted checkout provider behind a small
// interface so handlers and tests never touch the provider SDK directly.
package payments

import (
	"context"

	"github.com/Rhymond/go-money"
)

type CheckoutParams struct {
	ProductName   string
	Description   string
	Price         *money.Money
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

type CheckoutInfo struct {
	SessionID   string
	CheckoutURL string
}

type CheckoutStatus struct {
	SessionID     string
	Paid          bool
	CustomerEmail string
	Metadata      map[string]string
}

type EventType string

const (
	EventTypeCheckoutCompleted EventType = "checkout.session.completed"
	EventTypePaymentSucceeded  EventType = "payment_intent.succeeded"
	EventTypePaymentFailed     EventType = "payment_intent.payment_failed"
	EventTypeUnknown           EventType = "unknown"
)

// Event is a verified webhook notification. SessionID, CustomerEmail,
// AmountTotal, and Metadata are only populated for checkout events.
type Event struct {
	Type          EventType
	SessionID     string
	CustomerEmail string
	AmountTotal   int64
	Metadata      map[string]string
}

type CheckoutManager interface {
	// CreateCheckout starts one hosted payment session. No idempotency key is
	// used; callers submitting twice get two sessions.
	CreateCheckout(ctx context.Context, params CheckoutParams) (CheckoutInfo, error)
	// GetCheckout re-queries the provider for a session's payment status.
	GetCheckout(ctx context.Context, sessionID string) (CheckoutStatus, error)
	// ConfirmCheckout verifies the webhook signature and decodes the event.
	// Nothing in the payload is trusted before the signature passes.
	ConfirmCheckout(ctx context.Context, payload []byte, signature string) (Event, error)
}
