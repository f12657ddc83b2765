package camp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PAYMENT_PENDING PaymentStatus = "pending"
	PAYMENT_PAID    PaymentStatus = "paid"
)

const (
	MinCamperAge = 6
	MaxCamperAge = 12
)

type Registration struct {
	ID               uuid.UUID
	Version          int
	ChildFirstName   string
	ChildLastName    string
	ChildAge         int
	ParentName       string
	ParentEmail      string
	ParentPhone      string
	EmergencyContact string
	EmergencyPhone   string
	Program          string
	WaiverCompleted  bool
	PolicyAgreed     bool
	PaymentStatus    PaymentStatus
	PaymentSessionID string
	RegisteredAt     time.Time
}

func (r Registration) ChildName() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s", r.ChildFirstName, r.ChildLastName))
}

type ListRegistrationsResponse struct {
	Data        []Registration
	Cursor      *string
	HasNextPage bool
}

type Repository interface {
	CreateRegistration(ctx context.Context, reg Registration) error
	GetRegistration(ctx context.Context, id uuid.UUID) (Registration, error)
	GetRegistrationBySessionID(ctx context.Context, paymentSessionID string) (Registration, error)
	// AttachPaymentSession records the checkout session created for a
	// registration; the session id is the join key the webhook uses later.
	AttachPaymentSession(ctx context.Context, id uuid.UUID, paymentSessionID string) error
	MarkRegistrationPaid(ctx context.Context, id uuid.UUID) (Registration, error)
	ListRegistrations(ctx context.Context, limit int32, cursor *string) (ListRegistrationsResponse, error)
}

// SubmitRegistration validates a submission, assigns the server-owned fields,
// and writes exactly one record with a pending payment status.
func SubmitRegistration(ctx context.Context, reg Registration, repo Repository) (Registration, error) {
	if err := validateSubmission(reg); err != nil {
		return Registration{}, err
	}

	reg.ID = uuid.New()
	reg.Version = 1
	reg.PaymentStatus = PAYMENT_PENDING
	reg.RegisteredAt = time.Now().UTC()
	if reg.Program == "" {
		reg.Program = SummerProgram().Label
	}

	err := repo.CreateRegistration(ctx, reg)
	if err != nil {
		return Registration{}, err
	}

	return reg, nil
}

// ConfirmRegistrationPaid is the webhook write-back path: once the payment
// provider reports a completed checkout, the stored record becomes paid. The
// record is found through the session id attached when checkout began.
func ConfirmRegistrationPaid(ctx context.Context, paymentSessionID string, repo Repository) (Registration, error) {
	reg, err := repo.GetRegistrationBySessionID(ctx, paymentSessionID)
	if err != nil {
		return Registration{}, err
	}

	return repo.MarkRegistrationPaid(ctx, reg.ID)
}

func validateSubmission(reg Registration) error {
	required := []struct {
		field string
		value string
	}{
		{"childFirstName", reg.ChildFirstName},
		{"childLastName", reg.ChildLastName},
		{"parentName", reg.ParentName},
		{"parentEmail", reg.ParentEmail},
		{"parentPhone", reg.ParentPhone},
		{"emergencyContact", reg.EmergencyContact},
		{"emergencyPhone", reg.EmergencyPhone},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.field)
		}
	}
	if len(missing) > 0 {
		return NewMissingRequiredFieldsError(missing)
	}

	if reg.ChildAge < MinCamperAge || reg.ChildAge > MaxCamperAge {
		return NewAgeOutOfRangeError(reg.ChildAge)
	}

	return nil
}
