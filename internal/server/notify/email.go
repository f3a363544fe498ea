package notify

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"wkmetrics/internal/server/config"
	"wkmetrics/internal/types"

	"go.uber.org/zap"
)

// EmailNotifier represents email notifier
type EmailNotifier struct {
	config *config.EmailConfig
	logger *zap.Logger
}

// NewEmailNotifier creates new Email notifier
func NewEmailNotifier(cfg *config.EmailConfig, logger *zap.Logger) (*EmailNotifier, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("email notifier is disabled")
	}

	return &EmailNotifier{
		config: cfg,
		logger: logger,
	}, nil
}

// NotifyCriticalValue sends a critical value alert
func (n *EmailNotifier) NotifyCriticalValue(value *types.IndicatorValue) error {
	label := indicatorLabel(value)
	subject := fmt.Sprintf("Critical Indicator Alert - %s", label)

	var body bytes.Buffer
	body.WriteString("<html><body>")
	body.WriteString(fmt.Sprintf("<h2>Critical value recorded for %s</h2>", label))
	body.WriteString("<table>")
	if value.Value != nil {
		body.WriteString(fmt.Sprintf("<tr><td>Value</td><td>%g</td></tr>", *value.Value))
	}
	if value.TextValue != nil {
		body.WriteString(fmt.Sprintf("<tr><td>Value</td><td>%s</td></tr>", *value.TextValue))
	}
	body.WriteString(fmt.Sprintf("<tr><td>Period</td><td>%s to %s</td></tr>", value.PeriodStart, value.PeriodEnd))
	body.WriteString(fmt.Sprintf("<tr><td>Source</td><td>%s</td></tr>", value.Source))
	body.WriteString(fmt.Sprintf("<tr><td>Recorded</td><td>%s</td></tr>", time.Now().Format(time.RFC1123Z)))
	body.WriteString("</table>")
	body.WriteString("</body></html>")

	return n.sendEmail(subject, body.String())
}

// sendEmail sends an email
func (n *EmailNotifier) sendEmail(subject, content string) error {
	auth := smtp.PlainAuth("", n.config.Username, n.config.Password, n.config.SMTPServer)

	msg := buildEmailMessage(n.config.From, n.config.To, subject, content)

	var err error
	if n.config.UseTLS {
		err = n.sendTLSEmail(auth, msg)
	} else {
		addr := fmt.Sprintf("%s:%d", n.config.SMTPServer, n.config.SMTPPort)
		err = smtp.SendMail(addr, auth, n.config.From, n.config.To, msg)
	}

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// sendTLSEmail sends email with explicit connection handling
func (n *EmailNotifier) sendTLSEmail(auth smtp.Auth, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", n.config.SMTPServer, n.config.SMTPPort)

	tlsConfig := &tls.Config{
		ServerName: n.config.SMTPServer,
		MinVersion: tls.VersionTLS12,
	}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("failed to create TLS connection: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, n.config.SMTPServer)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	// Validate and clean the from address
	from := n.config.From
	if !strings.Contains(from, "@") {
		return fmt.Errorf("invalid from address: %s", from)
	}
	from = cleanEmailAddress(from)

	// Set sender
	if err = client.Mail(from); err != nil {
		return fmt.Errorf("MAIL FROM failed for %s: %w", from, err)
	}

	// Add recipients
	cleanTo := cleanEmailAddresses(n.config.To)
	for _, addr := range cleanTo {
		if err = client.Rcpt(addr); err != nil {
			return fmt.Errorf("RCPT TO failed for %s: %w", addr, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}

	if _, err = w.Write(msg); err != nil {
		w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}

	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close message writer: %w", err)
	}
	return client.Quit()
}

// buildEmailMessage builds email message
func buildEmailMessage(from string, to []string, subject, body string) []byte {
	var msg bytes.Buffer

	// Clean and format addresses
	cleanFrom := cleanEmailAddress(from)
	cleanTo := cleanEmailAddresses(to)

	// Add headers with proper line endings
	headers := map[string]string{
		"From":         cleanFrom,
		"To":           strings.Join(cleanTo, ", "),
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
		"Date":         time.Now().Format(time.RFC1123Z),
	}

	for key, value := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", key, value))
	}

	msg.WriteString("\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	return msg.Bytes()
}

// cleanEmailAddress cleans email address by removing display name and angle brackets
func cleanEmailAddress(addr string) string {
	if idx := strings.LastIndex(addr, "<"); idx >= 0 {
		return strings.Trim(addr[idx:], "<>")
	}
	return addr
}

// cleanEmailAddresses cleans a list of email addresses
func cleanEmailAddresses(addrs []string) []string {
	cleaned := make([]string, len(addrs))
	for i, addr := range addrs {
		cleaned[i] = cleanEmailAddress(addr)
	}
	return cleaned
}
