package api

import (
	"log/slog"
	"net/http"
)

type verifyPaymentResponse struct {
	Paid          bool              `json:"paid"`
	CustomerEmail string            `json:"customerEmail"`
	Metadata      map[string]string `json:"metadata"`
}

// verifyPayment is the synchronous confirmation check the success page runs
// after the redirect back from checkout. Read-only; the webhook owns the
// write-back.
func (a *API) verifyPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := a.getLoggerOrBaseLogger(ctx)

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	sessionId := r.URL.Query().Get("session_id")
	if sessionId == "" {
		writeError(w, http.StatusBadRequest, "Missing session_id")
		return
	}

	status, err := a.checkoutManager.GetCheckout(ctx, sessionId)
	if err != nil {
		logger.Error("Failed to verify payment", slog.String("error", err.Error()), slog.String("sessionId", sessionId))

		writeErrorWithMessage(w, http.StatusInternalServerError, "Failed to verify payment", providerMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, verifyPaymentResponse{
		Paid:          status.Paid,
		CustomerEmail: status.CustomerEmail,
		Metadata:      status.Metadata,
	})
}
