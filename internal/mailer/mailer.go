// Package mailer sends the transactional e-mails of the application.
package mailer

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-study-keeper/internal/config"
	"github.com/MKhiriev/go-study-keeper/internal/logger"
)

// Mailer delivers password-reset links.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, link string) error
}

const resetSubject = "Restablece tu contraseña"

// New returns a Mailgun mailer, or a LogMailer when cfg carries no API key.
func New(cfg config.Mail, log *logger.Logger) Mailer {
	if cfg.APIKey == "" || cfg.Domain == "" {
		log.Warn().Msg("mailgun is not configured, e-mails are only logged")
		return NewLogMailer(log)
	}
	return NewMailgun(cfg.Domain, cfg.APIKey, cfg.Sender)
}

func resetText(link string) string {
	return fmt.Sprintf("Recibimos una solicitud para restablecer tu contraseña.\n\n"+
		"Abre este enlace para elegir una nueva:\n%s\n\n"+
		"Si no fuiste tú, ignora este mensaje.\n", link)
}

// LogMailer writes e-mails to the log instead of sending them.
type LogMailer struct {
	log *logger.Logger
}

func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	logger.FromContext(ctx).Info().
		Str("to", to).
		Str("subject", resetSubject).
		Str("link", link).
		Msg("password reset e-mail")
	return nil
}
