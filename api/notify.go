package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aaa-sports-camp/camp-registration/camp"
	"github.com/google/uuid"
)

type notifyRequest struct {
	PlayerName       string `json:"playerName"`
	Age              int    `json:"age"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	ParentName       string `json:"parentName"`
	Program          string `json:"program"`
	EmergencyContact string `json:"emergencyContact"`
	EmergencyPhone   string `json:"emergencyPhone"`
}

type notifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Id      string `json:"id"`
}

// sendRegistrationEmail notifies camp staff about a new registration. The
// client treats this as best-effort; a failure here never blocks the payment
// redirect.
func (a *API) sendRegistrationEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := a.getLoggerOrBaseLogger(ctx)

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req notifyRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Warn("Invalid body for notification", slog.String("error", err.Error()))

		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	notificationId := uuid.New()

	err = camp.SendStaffNotificationEmail(ctx, a.emailSender, a.fromEmail, a.staffEmail, camp.StaffNotification{
		PlayerName:       req.PlayerName,
		Age:              req.Age,
		Email:            req.Email,
		Phone:            req.Phone,
		ParentName:       req.ParentName,
		Program:          req.Program,
		EmergencyContact: req.EmergencyContact,
		EmergencyPhone:   req.EmergencyPhone,
	})
	if err != nil {
		logger.Error("Failed to send staff notification email", slog.String("error", err.Error()))

		writeErrorWithMessage(w, http.StatusInternalServerError, "Failed to send email", err.Error())
		return
	}

	logger.Info("Staff notification sent",
		slog.String("notificationId", notificationId.String()),
		slog.String("player", req.PlayerName),
	)

	writeJSON(w, http.StatusOK, notifyResponse{
		Success: true,
		Message: "Email sent successfully",
		Id:      notificationId.String(),
	})
}
