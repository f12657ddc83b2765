package camp

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/International-Combat-Archery-Alliance/email"
)

//go:embed templates
var templates embed.FS

// StaffNotification is the transient payload of the notification dispatcher.
// It is never persisted; it only feeds the staff email templates.
type StaffNotification struct {
	PlayerName       string
	Age              int
	Email            string
	Phone            string
	ParentName       string
	Program          string
	EmergencyContact string
	EmergencyPhone   string
}

// SendStaffNotificationEmail tells camp staff about a new registration.
func SendStaffNotificationEmail(ctx context.Context, emailSender email.Sender, fromAddress string, staffAddress string, notification StaffNotification) error {
	htmlBody, err := renderTemplate("staff-notification.tmpl", notification)
	if err != nil {
		return err
	}

	textOnlyBody, err := renderTemplate("staff-notification-textonly.tmpl", notification)
	if err != nil {
		return err
	}

	return emailSender.SendEmail(ctx, email.Email{
		FromAddress: fromAddress,
		ToAddresses: []string{staffAddress},
		Subject:     fmt.Sprintf("New Registration: %s", notification.PlayerName),
		HTMLBody:    htmlBody,
		TextBody:    textOnlyBody,
	})
}

// SendPaymentConfirmationEmail confirms a completed payment to the parent.
func SendPaymentConfirmationEmail(ctx context.Context, emailSender email.Sender, fromAddress string, reg Registration) error {
	data := map[string]any{
		"Registration": reg,
		"Program":      SummerProgram(),
	}

	htmlBody, err := renderTemplate("payment-confirmation.tmpl", data)
	if err != nil {
		return err
	}

	textOnlyBody, err := renderTemplate("payment-confirmation-textonly.tmpl", data)
	if err != nil {
		return err
	}

	return emailSender.SendEmail(ctx, email.Email{
		FromAddress: fromAddress,
		ToAddresses: []string{reg.ParentEmail},
		Subject:     fmt.Sprintf("Payment confirmed - %s is signed up for AAA Sports Camp", reg.ChildName()),
		HTMLBody:    htmlBody,
		TextBody:    textOnlyBody,
	})
}

func renderTemplate(name string, data any) (string, error) {
	tmpl, err := template.New(name).ParseFS(templates, "templates/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse email template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}

	return buf.String(), nil
}
