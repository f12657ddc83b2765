package api

import (
	"context"
	"log/slog"

	"github.com/International-Combat-Archery-Alliance/email"
	"github.com/aaa-sports-camp/camp-registration/camp"
	"github.com/aaa-sports-camp/camp-registration/payments"
	"github.com/google/uuid"
	"google.golang.org/api/idtoken"
)

var noopLogger = slog.New(slog.DiscardHandler)

var _ DB = &mockDB{}

type mockDB struct {
	CreateRegistrationFunc         func(ctx context.Context, reg camp.Registration) error
	GetRegistrationFunc            func(ctx context.Context, id uuid.UUID) (camp.Registration, error)
	GetRegistrationBySessionIDFunc func(ctx context.Context, paymentSessionID string) (camp.Registration, error)
	AttachPaymentSessionFunc       func(ctx context.Context, id uuid.UUID, paymentSessionID string) error
	MarkRegistrationPaidFunc       func(ctx context.Context, id uuid.UUID) (camp.Registration, error)
	ListRegistrationsFunc          func(ctx context.Context, limit int32, cursor *string) (camp.ListRegistrationsResponse, error)
}

func (m *mockDB) CreateRegistration(ctx context.Context, reg camp.Registration) error {
	if m.CreateRegistrationFunc != nil {
		return m.CreateRegistrationFunc(ctx, reg)
	}
	return nil
}

func (m *mockDB) GetRegistration(ctx context.Context, id uuid.UUID) (camp.Registration, error) {
	if m.GetRegistrationFunc != nil {
		return m.GetRegistrationFunc(ctx, id)
	}
	return camp.Registration{}, nil
}

func (m *mockDB) GetRegistrationBySessionID(ctx context.Context, paymentSessionID string) (camp.Registration, error) {
	if m.GetRegistrationBySessionIDFunc != nil {
		return m.GetRegistrationBySessionIDFunc(ctx, paymentSessionID)
	}
	return camp.Registration{}, nil
}

func (m *mockDB) AttachPaymentSession(ctx context.Context, id uuid.UUID, paymentSessionID string) error {
	if m.AttachPaymentSessionFunc != nil {
		return m.AttachPaymentSessionFunc(ctx, id, paymentSessionID)
	}
	return nil
}

func (m *mockDB) MarkRegistrationPaid(ctx context.Context, id uuid.UUID) (camp.Registration, error) {
	if m.MarkRegistrationPaidFunc != nil {
		return m.MarkRegistrationPaidFunc(ctx, id)
	}
	return camp.Registration{}, nil
}

func (m *mockDB) ListRegistrations(ctx context.Context, limit int32, cursor *string) (camp.ListRegistrationsResponse, error) {
	if m.ListRegistrationsFunc != nil {
		return m.ListRegistrationsFunc(ctx, limit, cursor)
	}
	return camp.ListRegistrationsResponse{}, nil
}

type mockEmailSender struct {
	SendEmailFunc func(ctx context.Context, e email.Email) error
}

func (m *mockEmailSender) SendEmail(ctx context.Context, e email.Email) error {
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(ctx, e)
	}
	return nil
}

type mockCheckoutManager struct {
	CreateCheckoutFunc  func(ctx context.Context, params payments.CheckoutParams) (payments.CheckoutInfo, error)
	GetCheckoutFunc     func(ctx context.Context, sessionID string) (payments.CheckoutStatus, error)
	ConfirmCheckoutFunc func(ctx context.Context, payload []byte, signature string) (payments.Event, error)
}

func (m *mockCheckoutManager) CreateCheckout(ctx context.Context, params payments.CheckoutParams) (payments.CheckoutInfo, error) {
	if m.CreateCheckoutFunc != nil {
		return m.CreateCheckoutFunc(ctx, params)
	}
	return payments.CheckoutInfo{}, nil
}

func (m *mockCheckoutManager) GetCheckout(ctx context.Context, sessionID string) (payments.CheckoutStatus, error) {
	if m.GetCheckoutFunc != nil {
		return m.GetCheckoutFunc(ctx, sessionID)
	}
	return payments.CheckoutStatus{}, nil
}

func (m *mockCheckoutManager) ConfirmCheckout(ctx context.Context, payload []byte, signature string) (payments.Event, error) {
	if m.ConfirmCheckoutFunc != nil {
		return m.ConfirmCheckoutFunc(ctx, payload, signature)
	}
	return payments.Event{}, nil
}

type mockIDTokenValidator struct {
	ValidateFunc func(ctx context.Context, token string, audience string) (*idtoken.Payload, error)
}

func (m *mockIDTokenValidator) Validate(ctx context.Context, token string, audience string) (*idtoken.Payload, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, token, audience)
	}
	return &idtoken.Payload{Claims: map[string]any{"hd": staffHostedDomain}}, nil
}

func newTestAPI(db DB, emailSender email.Sender, checkoutManager payments.CheckoutManager, validator IDTokenValidator) *API {
	return NewAPI(
		db,
		noopLogger,
		LOCAL,
		emailSender,
		checkoutManager,
		validator,
		"https://aaasportscamp.com",
		"admin@aaasportscamp.com",
		"noreply@aaasportscamp.com",
	)
}
