package mailer

import (
	"context"
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"
)

// Mailer sends transactional email through Resend. In dev mode (no API key)
// sends are logged instead of delivered, so the rest of the flow is
// exercisable locally.
type Mailer struct {
	client    *resend.Client
	fromEmail string
	appURL    string
	devMode   bool
}

// New creates a Mailer. An empty apiKey puts it in dev mode.
func New(apiKey, fromEmail, appURL string) *Mailer {
	var client *resend.Client
	if apiKey != "" {
		client = resend.NewClient(apiKey)
	}
	return &Mailer{
		client:    client,
		fromEmail: fromEmail,
		appURL:    appURL,
		devMode:   apiKey == "",
	}
}

// SendVerificationEmail sends the registration verification link. Callers
// treat failures as best-effort: registration succeeds either way.
func (m *Mailer) SendVerificationEmail(email, username, token string) error {
	verifyURL := fmt.Sprintf("%s/api/verifyemail?token=%s", m.appURL, token)
	subject := "Verify your email"
	body := fmt.Sprintf(
		"Hi %s,\n\nWelcome! Please verify your email address by opening the link below:\n\n%s\n\nIf you did not sign up, you can ignore this message.\n",
		username, verifyURL)

	return m.send(email, subject, body, "verification")
}

// SendWelcomeEmail is sent once after the email has been verified.
func (m *Mailer) SendWelcomeEmail(email, username string) error {
	subject := "Welcome aboard"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour email is verified and your account is ready. Happy writing!\n",
		username)

	return m.send(email, subject, body, "welcome")
}

func (m *Mailer) send(to, subject, body, kind string) error {
	if m.devMode {
		log.Printf("email sent (dev mode): type=%s to=%s subject=%q", kind, to, subject)
		return nil
	}
	if m.client == nil {
		return fmt.Errorf("mailer not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    m.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}
	if _, err := m.client.Emails.SendWithContext(context.Background(), params); err != nil {
		return fmt.Errorf("failed to send %s email: %w", kind, err)
	}
	log.Printf("email sent: type=%s to=%s", kind, to)
	return nil
}
