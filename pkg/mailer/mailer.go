/**
 * @description
 * This package sends transactional email over SMTP: KYC decision notices and
 * the admin "appreciate donor" message. A nil or unconfigured Mailer degrades
 * to logging so mail problems never fail the calling operation.
 *
 * @dependencies
 * - gopkg.in/gomail.v2: SMTP message construction and delivery.
 */
package mailer

import (
	"log"
	"strings"

	gomail "gopkg.in/gomail.v2"
)

// Sender delivers a single email message.
type Sender interface {
	Send(to, subject, body string) error
}

// Mailer sends mail through a configured SMTP relay.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// New creates a Mailer. Returns nil when the host or sender is unset, which
// callers treat as "mail disabled".
func New(host string, port int, username, password, from string) *Mailer {
	if strings.TrimSpace(host) == "" || strings.TrimSpace(from) == "" {
		return nil
	}
	if port <= 0 {
		port = 587
	}
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send delivers a plain-text message. A nil Mailer logs and succeeds.
func (m *Mailer) Send(to, subject, body string) error {
	if m == nil {
		log.Printf("level=warn component=mailer msg=\"mail disabled; message dropped\" to=%s subject=%q", to, subject)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		log.Printf("level=error component=mailer msg=\"send failed\" to=%s subject=%q err=%v", to, subject, err)
		return err
	}
	return nil
}
