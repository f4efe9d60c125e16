// Package mailer sends transactional email through SendGrid.
package mailer

import (
	"context"
	"fmt"
	"html"

	"github.com/lshigami/Learnhub/config"
	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Email struct {
	ToAddress string
	ToName    string
	Subject   string
	PlainText string
	HTML      string
}

type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// New returns a SendGrid mailer when an API key is configured and a logging
// mailer otherwise.
func New(cfg *config.Config) Mailer {
	if cfg.Mail.SendGridAPIKey == "" {
		log.Warn().Msg("SENDGRID_API_KEY not set, emails will only be logged")
		return logMailer{}
	}
	return &sendGridMailer{
		client: sendgrid.NewSendClient(cfg.Mail.SendGridAPIKey),
		from:   mail.NewEmail(cfg.Mail.FromName, cfg.Mail.FromAddress),
	}
}

type sendGridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

func (m *sendGridMailer) Send(ctx context.Context, email Email) error {
	message := mail.NewSingleEmail(m.from, email.Subject, mail.NewEmail(email.ToName, email.ToAddress), email.PlainText, email.HTML)
	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("send email: sendgrid returned status %d", resp.StatusCode)
	}
	log.Info().Str("to", email.ToAddress).Str("subject", email.Subject).Msg("Email sent")
	return nil
}

type logMailer struct{}

func (logMailer) Send(_ context.Context, email Email) error {
	log.Info().Str("to", email.ToAddress).Str("subject", email.Subject).Msg("Email not sent, mailer disabled")
	return nil
}

// EnrollmentConfirmation is sent once a paid checkout has been reconciled.
func EnrollmentConfirmation(toAddress, courseTitle, courseURL string) Email {
	return Email{
		ToAddress: toAddress,
		Subject:   fmt.Sprintf("You're enrolled in %s", courseTitle),
		PlainText: fmt.Sprintf("Your payment was received and you are now enrolled in %s.\nStart learning: %s\n", courseTitle, courseURL),
		HTML: fmt.Sprintf(`<p>Your payment was received and you are now enrolled in <strong>%s</strong>.</p><p><a href="%s">Start learning</a></p>`,
			html.EscapeString(courseTitle), html.EscapeString(courseURL)),
	}
}
