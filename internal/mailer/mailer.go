// Package mailer performs best-effort SMTP delivery. Failures are returned
// to the caller for logging and never retried here.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/config"
)

// Mailer sends HTML email through a configured SMTP relay.
type Mailer struct {
	cfg config.SMTPConfig
}

// New builds a mailer. With an empty Host every Send becomes a no-op.
func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Enabled reports whether a relay is configured.
func (m *Mailer) Enabled() bool {
	return strings.TrimSpace(m.cfg.Host) != ""
}

// Send delivers one HTML message to a single recipient.
func (m *Mailer) Send(to, subject, htmlBody string) error {
	if !m.Enabled() {
		return nil
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg.String()))
}

// RequestAckBody renders the acknowledgment mail sent when a request is
// registered.
func RequestAckBody(clientName string, number int64, description string) string {
	return fmt.Sprintf(`<html><body>
<h2>Richiesta registrata</h2>
<p>Gentile %s,</p>
<p>la vostra richiesta n. %d &egrave; stata registrata e verr&agrave; presa in carico al pi&ugrave; presto.</p>
<blockquote>%s</blockquote>
<p>Helpdesk</p>
</body></html>`, clientName, number, description)
}

// LowHoursBody renders the hour-bank alert mail.
func LowHoursBody(clientName string, remaining float64) string {
	return fmt.Sprintf(`<html><body>
<h2>Monte ore in esaurimento</h2>
<p>Gentile %s,</p>
<p>il monte ore del vostro contratto di assistenza &egrave; sceso a %.2f ore residue.</p>
<p>Contattateci per una ricarica.</p>
<p>Helpdesk</p>
</body></html>`, clientName, remaining)
}
