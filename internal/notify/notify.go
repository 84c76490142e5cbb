// Package notify sends an e-mail once a booking goes through.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"ticketbooker/internal/booking"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("internal/notify")

type SmtpConfig struct {
	Server       string   `json:"server"`
	Port         int      `json:"port"`
	EmailAddress string   `json:"email_address"`
	Password     string   `json:"password"`
	// Notify lists the recipients, the sender address is used when empty.
	Notify []string `json:"notify"`
}

// Enabled is false when no server is configured.
func (c SmtpConfig) Enabled() bool {
	return c.Server != "" && c.EmailAddress != ""
}

func (c SmtpConfig) addr() string {
	return fmt.Sprintf("%s:%d", c.Server, c.Port)
}

func (c SmtpConfig) recipients() []string {
	if len(c.Notify) == 0 {
		return []string{c.EmailAddress}
	}
	return c.Notify
}

type Mailer struct {
	config SmtpConfig
}

func NewMailer(config SmtpConfig) Mailer {
	return Mailer{config: config}
}

// Notify implements booking.Notifier.
func (m Mailer) Notify(ctx context.Context, outcome booking.Outcome) error {
	_, span := tracer.Start(ctx, "Notify")
	defer span.End()

	span.SetAttributes(
		attribute.String("run_id", outcome.RunID),
		attribute.Int("recipients", len(m.config.recipients())),
	)

	mail := m.message(outcome)
	err := mail.Send(
		m.config.addr(),
		smtp.PlainAuth("", m.config.EmailAddress, m.config.Password, m.config.Server),
	)
	// local relays and test servers often do not offer AUTH at all
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(m.config.addr(), nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

func (m Mailer) message(o booking.Outcome) *email.Email {
	mail := email.NewEmail()
	mail.From = fmt.Sprintf("ticketbooker <%s>", m.config.EmailAddress)
	mail.To = m.config.recipients()
	mail.Subject = fmt.Sprintf("Booked: %s (%s)", o.Concert, o.Site)

	body := fmt.Sprintf(`%s.

Concert: %s
Show:    %d
Zone:    %s
Seats:   %d of %d requested
Run:     %s
Started: %s
Took:    %s

Payment still has to be completed in the browser.`,
		o.Summary(),
		o.Concert,
		o.Show,
		o.Zone,
		o.SeatsSelected, o.SeatsRequested,
		o.RunID,
		o.StartedAt.Format(time.RFC1123),
		o.Duration().Round(time.Second),
	)
	if o.UsedFallback {
		body += "\n\nThe preferred zone was sold out, seats were taken from another zone."
	}
	mail.Text = []byte(body)
	return mail
}
