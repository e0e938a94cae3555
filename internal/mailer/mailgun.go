package mailer

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"

	"github.com/MKhiriev/go-study-keeper/internal/logger"
)

const sendTimeout = 10 * time.Second

var resetHTML = template.Must(template.New("reset").Parse(
	`<p>Recibimos una solicitud para restablecer tu contraseña.</p>` +
		`<p><a href="{{.}}">Elegir una nueva contraseña</a></p>` +
		`<p>Si no fuiste tú, ignora este mensaje.</p>`))

// Mailgun sends e-mail through the Mailgun API.
type Mailgun struct {
	client *mg.MailgunImpl
	sender string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{client: mg.NewMailgun(domain, apiKey), sender: sender}
}

// SetAPIBase points the client at another API root, e.g. the EU region.
func (m *Mailgun) SetAPIBase(base string) {
	m.client.SetAPIBase(base)
}

func (m *Mailgun) SendPasswordReset(ctx context.Context, to, link string) error {
	var html strings.Builder
	if err := resetHTML.Execute(&html, link); err != nil {
		return fmt.Errorf("error rendering reset e-mail: %w", err)
	}

	msg := m.client.NewMessage(m.sender, resetSubject, resetText(link), to)
	msg.SetHtml(html.String())

	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, id, err := m.client.Send(c, msg)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*Mailgun.SendPasswordReset").Msg("error sending e-mail")
		return fmt.Errorf("error sending e-mail: %w", err)
	}

	logger.FromContext(ctx).Debug().Str("id", id).Msg("password reset e-mail queued")
	return nil
}
