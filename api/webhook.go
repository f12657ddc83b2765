package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/aaa-sports-camp/camp-registration/camp"
	"github.com/aaa-sports-camp/camp-registration/payments"
)

type webhookResponse struct {
	Received bool `json:"received"`
}

// stripeWebhook is the asynchronous payment-completion path. Nothing in the
// payload is trusted until the signature verifies, and once it does the
// provider always gets a 200 so it stops retrying delivery.
func (a *API) stripeWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := a.getLoggerOrBaseLogger(ctx)

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 65536)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("Failed to read stripe webhook body", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	event, err := a.checkoutManager.ConfirmCheckout(ctx, payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		logger.Error("Webhook signature verification failed", slog.String("error", err.Error()))

		writeError(w, http.StatusBadRequest, "Webhook Error: "+providerMessage(err))
		return
	}

	switch event.Type {
	case payments.EventTypeCheckoutCompleted:
		a.completeRegistrationPayment(r, event)
	case payments.EventTypePaymentSucceeded:
		logger.Info("PaymentIntent succeeded")
	case payments.EventTypePaymentFailed:
		logger.Info("Payment failed")
	default:
		logger.Info("Unhandled event type", slog.String("type", string(event.Type)))
	}

	writeJSON(w, http.StatusOK, webhookResponse{Received: true})
}

// completeRegistrationPayment marks the stored record paid and confirms to
// the parent. Failures here are logged, never surfaced: the payment already
// happened, and a non-200 would only make the provider redeliver.
func (a *API) completeRegistrationPayment(r *http.Request, event payments.Event) {
	ctx := r.Context()
	logger := a.getLoggerOrBaseLogger(ctx)

	logger.Info("Payment successful",
		slog.String("sessionId", event.SessionID),
		slog.String("email", event.CustomerEmail),
		slog.Int64("amountTotal", event.AmountTotal),
		slog.Any("metadata", event.Metadata),
	)

	if !a.persistenceEnabled {
		logger.Warn("Store not configured; payment not recorded", slog.String("sessionId", event.SessionID))
		return
	}

	reg, err := camp.ConfirmRegistrationPaid(ctx, event.SessionID, a.db)
	if err != nil {
		var campErr *camp.Error
		if errors.As(err, &campErr) && campErr.Reason == camp.REASON_REGISTRATION_DOES_NOT_EXIST {
			logger.Warn("No stored registration for session; skipping write-back",
				slog.String("sessionId", event.SessionID))
			return
		}

		logger.Error("Failed to mark registration paid",
			slog.String("error", err.Error()),
			slog.String("sessionId", event.SessionID),
		)
		return
	}

	err = camp.SendPaymentConfirmationEmail(ctx, a.emailSender, a.fromEmail, reg)
	if err != nil {
		logger.Error("Failed to send payment confirmation email",
			slog.String("error", err.Error()),
			slog.String("email", reg.ParentEmail),
		)
	}
}
