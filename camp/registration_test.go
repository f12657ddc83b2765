package camp

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	CreateRegistrationFunc         func(ctx context.Context, reg Registration) error
	GetRegistrationFunc            func(ctx context.Context, id uuid.UUID) (Registration, error)
	GetRegistrationBySessionIDFunc func(ctx context.Context, paymentSessionID string) (Registration, error)
	AttachPaymentSessionFunc       func(ctx context.Context, id uuid.UUID, paymentSessionID string) error
	MarkRegistrationPaidFunc       func(ctx context.Context, id uuid.UUID) (Registration, error)
	ListRegistrationsFunc          func(ctx context.Context, limit int32, cursor *string) (ListRegistrationsResponse, error)
}

func (m *mockRepository) CreateRegistration(ctx context.Context, reg Registration) error {
	if m.CreateRegistrationFunc != nil {
		return m.CreateRegistrationFunc(ctx, reg)
	}
	return nil
}

func (m *mockRepository) GetRegistration(ctx context.Context, id uuid.UUID) (Registration, error) {
	if m.GetRegistrationFunc != nil {
		return m.GetRegistrationFunc(ctx, id)
	}
	return Registration{}, nil
}

func (m *mockRepository) GetRegistrationBySessionID(ctx context.Context, paymentSessionID string) (Registration, error) {
	if m.GetRegistrationBySessionIDFunc != nil {
		return m.GetRegistrationBySessionIDFunc(ctx, paymentSessionID)
	}
	return Registration{}, nil
}

func (m *mockRepository) AttachPaymentSession(ctx context.Context, id uuid.UUID, paymentSessionID string) error {
	if m.AttachPaymentSessionFunc != nil {
		return m.AttachPaymentSessionFunc(ctx, id, paymentSessionID)
	}
	return nil
}

func (m *mockRepository) MarkRegistrationPaid(ctx context.Context, id uuid.UUID) (Registration, error) {
	if m.MarkRegistrationPaidFunc != nil {
		return m.MarkRegistrationPaidFunc(ctx, id)
	}
	return Registration{}, nil
}

func (m *mockRepository) ListRegistrations(ctx context.Context, limit int32, cursor *string) (ListRegistrationsResponse, error) {
	if m.ListRegistrationsFunc != nil {
		return m.ListRegistrationsFunc(ctx, limit, cursor)
	}
	return ListRegistrationsResponse{}, nil
}

func validRegistration() Registration {
	return Registration{
		ChildFirstName:   "Emma",
		ChildLastName:    "Lee",
		ChildAge:         9,
		ParentName:       "Dana Lee",
		ParentEmail:      "dana@example.com",
		ParentPhone:      "555-0100",
		EmergencyContact: "Sam Lee",
		EmergencyPhone:   "555-0101",
		WaiverCompleted:  true,
		PolicyAgreed:     true,
	}
}

func TestSubmitRegistration(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns the server-owned fields and writes once", func(t *testing.T) {
		var storedReg Registration
		writes := 0
		repo := &mockRepository{
			CreateRegistrationFunc: func(ctx context.Context, reg Registration) error {
				storedReg = reg
				writes++
				return nil
			},
		}

		before := time.Now().UTC()
		reg, err := SubmitRegistration(ctx, validRegistration(), repo)
		require.NoError(t, err)

		assert.Equal(t, 1, writes)
		assert.Equal(t, storedReg, reg)

		assert.NotEqual(t, uuid.Nil, reg.ID)
		assert.Equal(t, 1, reg.Version)
		assert.Equal(t, PAYMENT_PENDING, reg.PaymentStatus)
		assert.Equal(t, SummerProgram().Label, reg.Program)
		assert.False(t, reg.RegisteredAt.Before(before))
	})

	t.Run("keeps a program the caller already set", func(t *testing.T) {
		repo := &mockRepository{}

		submission := validRegistration()
		submission.Program = "Spring Clinic"

		reg, err := SubmitRegistration(ctx, submission, repo)
		require.NoError(t, err)
		assert.Equal(t, "Spring Clinic", reg.Program)
	})

	t.Run("rejects a submission with missing fields", func(t *testing.T) {
		repo := &mockRepository{
			CreateRegistrationFunc: func(ctx context.Context, reg Registration) error {
				t.Fatal("should not write an invalid submission")
				return nil
			},
		}

		submission := validRegistration()
		submission.ParentEmail = ""
		submission.EmergencyPhone = "  "

		_, err := SubmitRegistration(ctx, submission, repo)
		require.Error(t, err)

		var campErr *Error
		require.ErrorAs(t, err, &campErr)
		assert.Equal(t, REASON_MISSING_REQUIRED_FIELDS, campErr.Reason)
		assert.Contains(t, campErr.Message, "parentEmail")
		assert.Contains(t, campErr.Message, "emergencyPhone")
	})

	t.Run("rejects a camper who is too young", func(t *testing.T) {
		submission := validRegistration()
		submission.ChildAge = 4

		_, err := SubmitRegistration(ctx, submission, &mockRepository{})
		require.Error(t, err)

		var campErr *Error
		require.ErrorAs(t, err, &campErr)
		assert.Equal(t, REASON_AGE_OUT_OF_RANGE, campErr.Reason)
	})

	t.Run("rejects a camper who is too old", func(t *testing.T) {
		submission := validRegistration()
		submission.ChildAge = 13

		_, err := SubmitRegistration(ctx, submission, &mockRepository{})
		require.Error(t, err)

		var campErr *Error
		require.ErrorAs(t, err, &campErr)
		assert.Equal(t, REASON_AGE_OUT_OF_RANGE, campErr.Reason)
	})

	t.Run("passes a write failure through", func(t *testing.T) {
		repo := &mockRepository{
			CreateRegistrationFunc: func(ctx context.Context, reg Registration) error {
				return NewFailedToWriteError("write failed", assert.AnError)
			},
		}

		_, err := SubmitRegistration(ctx, validRegistration(), repo)
		require.Error(t, err)

		var campErr *Error
		require.ErrorAs(t, err, &campErr)
		assert.Equal(t, REASON_FAILED_TO_WRITE, campErr.Reason)
	})
}

func TestConfirmRegistrationPaid(t *testing.T) {
	ctx := context.Background()

	t.Run("marks the registration found by session id", func(t *testing.T) {
		regID := uuid.New()

		repo := &mockRepository{
			GetRegistrationBySessionIDFunc: func(ctx context.Context, paymentSessionID string) (Registration, error) {
				assert.Equal(t, "cs_test_123", paymentSessionID)
				return Registration{ID: regID, PaymentStatus: PAYMENT_PENDING}, nil
			},
			MarkRegistrationPaidFunc: func(ctx context.Context, id uuid.UUID) (Registration, error) {
				assert.Equal(t, regID, id)
				return Registration{ID: regID, PaymentStatus: PAYMENT_PAID}, nil
			},
		}

		reg, err := ConfirmRegistrationPaid(ctx, "cs_test_123", repo)
		require.NoError(t, err)
		assert.Equal(t, PAYMENT_PAID, reg.PaymentStatus)
	})

	t.Run("passes through when no registration has the session", func(t *testing.T) {
		repo := &mockRepository{
			GetRegistrationBySessionIDFunc: func(ctx context.Context, paymentSessionID string) (Registration, error) {
				return Registration{}, NewRegistrationDoesNotExistError(paymentSessionID, nil)
			},
			MarkRegistrationPaidFunc: func(ctx context.Context, id uuid.UUID) (Registration, error) {
				t.Fatal("should not mark anything paid without a record")
				return Registration{}, nil
			},
		}

		_, err := ConfirmRegistrationPaid(ctx, "cs_unknown", repo)
		require.Error(t, err)

		var campErr *Error
		require.ErrorAs(t, err, &campErr)
		assert.Equal(t, REASON_REGISTRATION_DOES_NOT_EXIST, campErr.Reason)
	})
}

func TestChildName(t *testing.T) {
	assert.Equal(t, "Emma Lee", Registration{ChildFirstName: "Emma", ChildLastName: "Lee"}.ChildName())
	assert.Equal(t, "Emma", Registration{ChildFirstName: "Emma"}.ChildName())
}
