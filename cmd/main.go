package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"

	"github.com/aaa-sports-camp/camp-registration/api"
	"github.com/aaa-sports-camp/camp-registration/dynamo"
	"github.com/aaa-sports-camp/camp-registration/payments"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
)

func main() {
	// Missing .env is fine; deployed environments set real env vars.
	_ = godotenv.Load()

	settings := getServerSettingsFromEnv()

	env, err := api.ParseEnvironment(settings.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid ENV: %s\n", err)
		os.Exit(1)
	}

	logger := createLogger(env)

	ctx := context.Background()

	db, err := createDB(ctx, settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up registration store: %s\n", err)
		os.Exit(1)
	}
	if db == nil {
		logger.Warn("REGISTRATIONS_TABLE_NAME is not set, running in demo mode without persistence")
	}

	emailSender, err := createEmailSender(ctx, logger, env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up email sender: %s\n", err)
		os.Exit(1)
	}

	checkoutManager := payments.NewStripeCheckoutManager(settings.StripeSecretKey, settings.StripeWebhookSecret)

	campAPI := api.NewAPI(
		db,
		logger,
		env,
		emailSender,
		checkoutManager,
		api.GoogleIDTokenValidator{},
		settings.SiteOrigin,
		settings.AdminEmail,
		settings.FromEmail,
	)

	s := &http.Server{
		Handler: campAPI.Routes(),
		Addr:    net.JoinHostPort(settings.Host, settings.Port),
	}

	logger.Info("Starting server", slog.String("addr", s.Addr))
	err = s.ListenAndServe()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %s\n", err)
		os.Exit(1)
	}
}

type ServerSettings struct {
	Host                string
	Port                string
	Env                 string
	SiteOrigin          string
	StripeSecretKey     string
	StripeWebhookSecret string
	AdminEmail          string
	FromEmail           string
	RegistrationsTable  string
}

func getServerSettingsFromEnv() ServerSettings {
	return ServerSettings{
		Host:                getEnvOrDefault("HOST", "0.0.0.0"),
		Port:                getEnvOrDefault("PORT", "8080"),
		Env:                 getEnvOrDefault("ENV", "local"),
		SiteOrigin:          getEnvOrDefault("SITE_URL", "http://localhost:5173"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		AdminEmail:          getEnvOrDefault("ADMIN_EMAIL", "registrations@aaasportscamp.com"),
		FromEmail:           getEnvOrDefault("FROM_EMAIL", "AAA Sports Camp <registrations@aaasportscamp.com>"),
		RegistrationsTable:  os.Getenv("REGISTRATIONS_TABLE_NAME"),
	}
}

func getEnvOrDefault(key string, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	return defaultVal
}

func createLogger(env api.Environment) *slog.Logger {
	if env == api.PROD {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// createDB returns nil when the table is not configured: that single check is
// what puts the whole flow in demo mode.
func createDB(ctx context.Context, settings ServerSettings) (api.DB, error) {
	if settings.RegistrationsTable == "" {
		return nil, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get aws config: %w", err)
	}

	return dynamo.NewDB(dynamodb.NewFromConfig(cfg), settings.RegistrationsTable), nil
}
