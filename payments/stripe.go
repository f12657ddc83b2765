package payments

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/stripe/stripe-go/v85"
	"github.com/stripe/stripe-go/v85/webhook"
)

var _ CheckoutManager = &StripeCheckoutManager{}

type StripeCheckoutManager struct {
	client        *stripe.Client
	webhookSecret string
}

func NewStripeCheckoutManager(apiKey string, webhookSecret string) *StripeCheckoutManager {
	return &StripeCheckoutManager{
		client:        stripe.NewClient(apiKey),
		webhookSecret: webhookSecret,
	}
}

func (s *StripeCheckoutManager) CreateCheckout(ctx context.Context, params CheckoutParams) (CheckoutInfo, error) {
	sess, err := s.client.V1CheckoutSessions.Create(ctx, &stripe.CheckoutSessionCreateParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(params.Price.Currency().Code)),
					UnitAmount: stripe.Int64(params.Price.Amount()),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name:        stripe.String(params.ProductName),
						Description: stripe.String(params.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:    stripe.String(params.SuccessURL),
		CancelURL:     stripe.String(params.CancelURL),
		CustomerEmail: stripe.String(params.CustomerEmail),
		Metadata:      params.Metadata,
	})
	if err != nil {
		return CheckoutInfo{}, NewProviderFailureError(stripeMessage(err), err)
	}

	return CheckoutInfo{
		SessionID:   sess.ID,
		CheckoutURL: sess.URL,
	}, nil
}

func (s *StripeCheckoutManager) GetCheckout(ctx context.Context, sessionID string) (CheckoutStatus, error) {
	sess, err := s.client.V1CheckoutSessions.Retrieve(ctx, sessionID, nil)
	if err != nil {
		return CheckoutStatus{}, NewProviderFailureError(stripeMessage(err), err)
	}

	return CheckoutStatus{
		SessionID:     sess.ID,
		Paid:          sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		CustomerEmail: sess.CustomerEmail,
		Metadata:      sess.Metadata,
	}, nil
}

func (s *StripeCheckoutManager) ConfirmCheckout(ctx context.Context, payload []byte, signature string) (Event, error) {
	stripeEvent, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return Event{}, NewInvalidSignatureError(err.Error(), err)
	}

	switch stripeEvent.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var sess stripe.CheckoutSession
		err = json.Unmarshal(stripeEvent.Data.Raw, &sess)
		if err != nil {
			return Event{}, NewInvalidEventError("failed to decode checkout session from event", err)
		}

		return Event{
			Type:          EventTypeCheckoutCompleted,
			SessionID:     sess.ID,
			CustomerEmail: sess.CustomerEmail,
			AmountTotal:   sess.AmountTotal,
			Metadata:      sess.Metadata,
		}, nil
	case stripe.EventTypePaymentIntentSucceeded:
		return Event{Type: EventTypePaymentSucceeded}, nil
	case stripe.EventTypePaymentIntentPaymentFailed:
		return Event{Type: EventTypePaymentFailed}, nil
	default:
		return Event{Type: EventTypeUnknown}, nil
	}
}

// stripeMessage pulls the provider's human-readable message out of an API
// error so it can be surfaced verbatim.
func stripeMessage(err error) string {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return stripeErr.Msg
	}
	return err.Error()
}
