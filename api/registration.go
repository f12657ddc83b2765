package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/aaa-sports-camp/camp-registration/camp"
	"github.com/aaa-sports-camp/camp-registration/slices"
	"github.com/google/uuid"
)

type registrationRequest struct {
	ChildFirstName   string `json:"childFirstName"`
	ChildLastName    string `json:"childLastName"`
	ChildAge         int    `json:"childAge"`
	ParentName       string `json:"parentName"`
	ParentEmail      string `json:"parentEmail"`
	ParentPhone      string `json:"parentPhone"`
	EmergencyContact string `json:"emergencyContact"`
	EmergencyPhone   string `json:"emergencyPhone"`
	WaiverCompleted  bool   `json:"waiverCompleted"`
	AgreeToPolicy    bool   `json:"agreeToPolicy"`
}

type registrationResponse struct {
	Id            uuid.UUID          `json:"id"`
	PaymentStatus camp.PaymentStatus `json:"paymentStatus"`
	DemoMode      bool               `json:"demoMode"`
}

type demoModeResponse struct {
	DemoMode bool   `json:"demoMode"`
	Warning  string `json:"warning"`
}

type apiRegistration struct {
	Id               uuid.UUID          `json:"id"`
	ChildFirstName   string             `json:"childFirstName"`
	ChildLastName    string             `json:"childLastName"`
	ChildAge         int                `json:"childAge"`
	ParentName       string             `json:"parentName"`
	ParentEmail      string             `json:"parentEmail"`
	ParentPhone      string             `json:"parentPhone"`
	EmergencyContact string             `json:"emergencyContact"`
	EmergencyPhone   string             `json:"emergencyPhone"`
	Program          string             `json:"program"`
	WaiverCompleted  bool               `json:"waiverCompleted"`
	PolicyAgreed     bool               `json:"policyAgreed"`
	PaymentStatus    camp.PaymentStatus `json:"paymentStatus"`
	RegisteredAt     time.Time          `json:"registeredAt"`
}

type listRegistrationsResponse struct {
	Data        []apiRegistration `json:"data"`
	Cursor      *string           `json:"cursor"`
	HasNextPage bool              `json:"hasNextPage"`
}

func (a *API) handleRegistrations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.createRegistration(w, r)
	case http.MethodGet:
		a.listRegistrations(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}
}

func (a *API) createRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := a.getLoggerOrBaseLogger(ctx)

	var req registrationRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Warn("Invalid body for registration", slog.String("error", err.Error()))

		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !a.persistenceEnabled {
		logger.Warn("Registration store not configured, running in demo mode", slog.String("child", req.ChildFirstName))

		writeJSON(w, http.StatusOK, demoModeResponse{
			DemoMode: true,
			Warning:  "Database not configured. For demo purposes, proceeding to payment without saving registration.",
		})
		return
	}

	reg, err := camp.SubmitRegistration(ctx, camp.Registration{
		ChildFirstName:   req.ChildFirstName,
		ChildLastName:    req.ChildLastName,
		ChildAge:         req.ChildAge,
		ParentName:       req.ParentName,
		ParentEmail:      req.ParentEmail,
		ParentPhone:      req.ParentPhone,
		EmergencyContact: req.EmergencyContact,
		EmergencyPhone:   req.EmergencyPhone,
		WaiverCompleted:  req.WaiverCompleted,
		PolicyAgreed:     req.AgreeToPolicy,
	}, a.db)
	if err != nil {
		logger.Error("Failed to save registration", slog.String("error", err.Error()))

		var campErr *camp.Error
		if errors.As(err, &campErr) {
			switch campErr.Reason {
			case camp.REASON_MISSING_REQUIRED_FIELDS, camp.REASON_AGE_OUT_OF_RANGE:
				writeError(w, http.StatusBadRequest, campErr.Message)
				return
			}
		}

		writeError(w, http.StatusInternalServerError, "Failed to save registration")
		return
	}

	writeJSON(w, http.StatusOK, registrationResponse{
		Id:            reg.ID,
		PaymentStatus: reg.PaymentStatus,
		DemoMode:      false,
	})
}

func (a *API) listRegistrations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := a.getLoggerOrBaseLogger(ctx)

	_, err := a.validateStaffToken(ctx, r.Header.Get("Authorization"))
	if err != nil {
		logger.Warn("Rejected staff listing request", slog.String("error", err.Error()))

		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if !a.persistenceEnabled {
		writeJSON(w, http.StatusOK, listRegistrationsResponse{Data: []apiRegistration{}})
		return
	}

	limit := 10
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		userLimit, err := strconv.Atoi(limitParam)
		if err != nil || userLimit < 1 || userLimit > 50 {
			logger.Warn("Limit out of bounds", slog.String("limit", limitParam))

			writeError(w, http.StatusBadRequest, "Limit must be between 1 and 50")
			return
		}
		limit = userLimit
	}

	var cursor *string
	if cursorParam := r.URL.Query().Get("cursor"); cursorParam != "" {
		cursor = &cursorParam
	}

	result, err := a.db.ListRegistrations(ctx, int32(limit), cursor)
	if err != nil {
		logger.Error("Failed to list registrations", slog.String("error", err.Error()))

		var campErr *camp.Error
		if errors.As(err, &campErr) && campErr.Reason == camp.REASON_INVALID_CURSOR {
			writeError(w, http.StatusBadRequest, "Cursor is invalid")
			return
		}

		writeError(w, http.StatusInternalServerError, "Failed to list registrations")
		return
	}

	writeJSON(w, http.StatusOK, listRegistrationsResponse{
		Data: slices.Map(result.Data, func(reg camp.Registration) apiRegistration {
			return registrationToApiRegistration(reg)
		}),
		Cursor:      result.Cursor,
		HasNextPage: result.HasNextPage,
	})
}

func registrationToApiRegistration(reg camp.Registration) apiRegistration {
	return apiRegistration{
		Id:               reg.ID,
		ChildFirstName:   reg.ChildFirstName,
		ChildLastName:    reg.ChildLastName,
		ChildAge:         reg.ChildAge,
		ParentName:       reg.ParentName,
		ParentEmail:      reg.ParentEmail,
		ParentPhone:      reg.ParentPhone,
		EmergencyContact: reg.EmergencyContact,
		EmergencyPhone:   reg.EmergencyPhone,
		Program:          reg.Program,
		WaiverCompleted:  reg.WaiverCompleted,
		PolicyAgreed:     reg.PolicyAgreed,
		PaymentStatus:    reg.PaymentStatus,
		RegisteredAt:     reg.RegisteredAt,
	}
}
