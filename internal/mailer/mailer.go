// Package mailer delivers the one-time notification email containing the
// employee's secure evaluation link. Delivery is best effort: the caller logs
// and swallows any error, and record creation never depends on the outcome.
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/google/uuid"
	"github.com/uipafrica/evaluation-backend/internal/config"
	"go.uber.org/zap"
)

type Mailer struct {
	cfg config.SMTPConfig
	log *zap.Logger
}

func New(cfg config.SMTPConfig, log *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

// SendEvaluationLink emails the employee their access link and reference
// number. Returns an error on any transport failure; retries are out of
// scope.
func (m *Mailer) SendEvaluationLink(ctx context.Context, toEmail, link, referenceNumber string) error {
	if m.cfg.Host == "" {
		return fmt.Errorf("smtp host not configured")
	}

	subject := "Employee Evaluation - Action Required"
	html := buildHTMLBody(link, referenceNumber)
	text := buildTextBody(link, referenceNumber)
	message := buildMessage(m.cfg.From, toEmail, subject, html, text)

	if err := m.send(ctx, toEmail, []byte(message)); err != nil {
		return fmt.Errorf("send evaluation email: %w", err)
	}

	m.log.Info("evaluation email sent",
		zap.String("to", toEmail),
		zap.String("referenceNumber", referenceNumber))
	return nil
}

// buildMessage assembles the raw RFC 5322 message with a multipart/alternative
// body carrying both the plain-text and HTML renditions.
func buildMessage(from, to, subject, html, text string) string {
	boundary := "alt-" + uuid.NewString()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s\r\n", from))
	b.WriteString(fmt.Sprintf("To: %s\r\n", to))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	b.WriteString(fmt.Sprintf("Message-ID: <%s@%s>\r\n", uuid.NewString(), domainOf(from)))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n", boundary))
	b.WriteString("\r\n")

	b.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(text)
	b.WriteString("\r\n")

	b.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(html)
	b.WriteString("\r\n")

	b.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return b.String()
}

func domainOf(addr string) string {
	if i := strings.LastIndex(addr, "@"); i >= 0 && i < len(addr)-1 {
		return addr[i+1:]
	}
	return "localhost"
}

// send dials the SMTP server with the configured connect timeout. With UseTLS
// the connection is implicit TLS (port 465 style); the socket deadline bounds
// the greeting and the whole exchange, so a stalled server degrades to an
// error rather than a hang.
func (m *Mailer) send(ctx context.Context, to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	conn, err := net.DialTimeout("tcp", addr, m.cfg.ConnectTimeout)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			conn.Close()
			return err
		}
	}

	if m.cfg.UseTLS {
		conn = tls.Client(conn, &tls.Config{
			ServerName:         m.cfg.Host,
			InsecureSkipVerify: m.cfg.InsecureSkipVerify,
		})
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp greeting: %w", err)
	}
	defer client.Close()

	if !m.cfg.UseTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			tlsCfg := &tls.Config{
				ServerName:         m.cfg.Host,
				InsecureSkipVerify: m.cfg.InsecureSkipVerify,
			}
			if err := client.StartTLS(tlsCfg); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}

	if m.cfg.Username != "" && m.cfg.Password != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(message); err != nil {
		w.Close()
		return fmt.Errorf("smtp write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close body: %w", err)
	}

	return client.Quit()
}
