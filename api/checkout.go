package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aaa-sports-camp/camp-registration/camp"
	"github.com/aaa-sports-camp/camp-registration/payments"
	"github.com/google/uuid"
)

type createCheckoutRequest struct {
	ChildFirstName   string `json:"childFirstName"`
	ChildLastName    string `json:"childLastName"`
	ChildAge         int    `json:"childAge"`
	ParentName       string `json:"parentName"`
	ParentEmail      string `json:"parentEmail"`
	ParentPhone      string `json:"parentPhone"`
	EmergencyContact string `json:"emergencyContact"`
	EmergencyPhone   string `json:"emergencyPhone"`
	// RegistrationId links the session back to a stored record so the
	// webhook can mark it paid. Absent in demo mode.
	RegistrationId *uuid.UUID `json:"registrationId,omitempty"`
}

type createCheckoutResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
	SessionId   string `json:"sessionId"`
}

func (a *API) createCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := a.getLoggerOrBaseLogger(ctx)

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	var req createCheckoutRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Warn("Invalid body for checkout", slog.String("error", err.Error()))

		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.ChildFirstName == "" || req.ChildLastName == "" || req.ParentEmail == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	program := camp.SummerProgram()

	metadata := map[string]string{
		"childName":        fmt.Sprintf("%s %s", req.ChildFirstName, req.ChildLastName),
		"childAge":         strconv.Itoa(req.ChildAge),
		"parentName":       req.ParentName,
		"parentPhone":      req.ParentPhone,
		"emergencyContact": req.EmergencyContact,
		"emergencyPhone":   req.EmergencyPhone,
	}
	if req.RegistrationId != nil {
		metadata["registrationId"] = req.RegistrationId.String()
	}

	checkout, err := a.checkoutManager.CreateCheckout(ctx, payments.CheckoutParams{
		ProductName:   program.Name,
		Description:   program.Description,
		Price:         program.Price,
		CustomerEmail: req.ParentEmail,
		SuccessURL:    a.siteOrigin + "/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     a.siteOrigin + "/pricing",
		Metadata:      metadata,
	})
	if err != nil {
		logger.Error("Failed to create checkout session", slog.String("error", err.Error()))

		writeErrorWithMessage(w, http.StatusInternalServerError, "Failed to create checkout session", providerMessage(err))
		return
	}

	if req.RegistrationId != nil && a.persistenceEnabled {
		err = a.db.AttachPaymentSession(ctx, *req.RegistrationId, checkout.SessionID)
		if err != nil {
			// The session exists either way; the webhook just won't find a
			// record to mark paid. Worth a loud log, not a failed checkout.
			logger.Error("Failed to attach payment session to registration",
				slog.String("error", err.Error()),
				slog.String("registrationId", req.RegistrationId.String()),
				slog.String("sessionId", checkout.SessionID),
			)
		}
	}

	writeJSON(w, http.StatusOK, createCheckoutResponse{
		CheckoutURL: checkout.CheckoutURL,
		SessionId:   checkout.SessionID,
	})
}

// providerMessage unwraps the payment provider's own diagnostic message.
func providerMessage(err error) string {
	var paymentsErr *payments.Error
	if errors.As(err, &paymentsErr) {
		return paymentsErr.Message
	}
	return err.Error()
}
