package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/International-Combat-Archery-Alliance/email"
	"github.com/aaa-sports-camp/camp-registration/camp"
	"github.com/aaa-sports-camp/camp-registration/payments"
)

type DB interface {
	camp.Repository
}

type Environment int

const (
	LOCAL Environment = iota
	PROD
)

func ParseEnvironment(s string) (Environment, error) {
	switch s {
	case "local":
		return LOCAL, nil
	case "prod":
		return PROD, nil
	default:
		return LOCAL, fmt.Errorf("unknown environment: %q", s)
	}
}

type API struct {
	db              DB
	logger          *slog.Logger
	env             Environment
	emailSender     email.Sender
	checkoutManager payments.CheckoutManager
	staffValidator  IDTokenValidator
	siteOrigin      string
	staffEmail      string
	fromEmail       string

	// Decided once at construction; handlers never re-derive it. A nil db
	// means the hosted store is not configured and the flow runs in demo
	// mode, proceeding to payment without saving anything.
	persistenceEnabled bool
}

func NewAPI(
	db DB,
	logger *slog.Logger,
	env Environment,
	emailSender email.Sender,
	checkoutManager payments.CheckoutManager,
	staffValidator IDTokenValidator,
	siteOrigin string,
	staffEmail string,
	fromEmail string,
) *API {
	return &API{
		db:                 db,
		logger:             logger,
		env:                env,
		emailSender:        emailSender,
		checkoutManager:    checkoutManager,
		staffValidator:     staffValidator,
		siteOrigin:         siteOrigin,
		staffEmail:         staffEmail,
		fromEmail:          fromEmail,
		persistenceEnabled: db != nil,
	}
}

func (a *API) Routes() http.Handler {
	r := http.NewServeMux()

	r.HandleFunc("/api/registrations", a.handleRegistrations)
	r.HandleFunc("/api/create-checkout", a.createCheckout)
	r.HandleFunc("/api/stripe-webhook", a.stripeWebhook)
	r.HandleFunc("/api/verify-payment", a.verifyPayment)
	r.HandleFunc("/api/send-registration-email", a.sendRegistrationEmail)

	return useMiddlewares(r,
		a.requestIdMiddleware(),
		a.loggingMiddleware(),
		a.corsMiddleware(),
	)
}
