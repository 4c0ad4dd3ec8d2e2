package utils

import (
	"fmt"
	"html"
	"mime"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// SMTPMailer sends multipart (plain + html) mail. With no SMTP credentials it only logs.
type SMTPMailer struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string

	log  *zap.Logger
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(host, port, username, password, fromName string, log *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		FromName: fromName,
		log:      log,
		send:     smtp.SendMail,
	}
}

// Configured reports whether real delivery is possible.
func (m *SMTPMailer) Configured() bool {
	return m.Host != "" && m.Port != "" && m.Username != "" && m.Password != ""
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	if !m.Configured() {
		m.log.Info("[MOCK EMAIL]",
			zap.String("to", MaskEmail(to)),
			zap.String("subject", subject),
		)
		return nil
	}

	msg := BuildMultipartMessage(m.from(), to, subject, body)
	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	addr := fmt.Sprintf("%s:%s", m.Host, m.Port)

	if err := m.send(addr, auth, m.Username, []string{to}, msg); err != nil {
		m.log.Error("failed to send email", zap.String("to", MaskEmail(to)), zap.Error(err))
		return err
	}

	m.log.Info("📨 email sent", zap.String("to", MaskEmail(to)))
	return nil
}

func (m *SMTPMailer) from() string {
	if m.FromName == "" {
		return m.Username
	}
	return fmt.Sprintf("%s <%s>", encodeHeader(m.FromName), m.Username)
}

const mailBoundary = "----=_HOTEL_ADMIN_BOUNDARY"

// BuildMultipartMessage renders a text/plain + text/html message.
func BuildMultipartMessage(from, to, subject, body string) []byte {
	plainBody := strings.ReplaceAll(body, "\r\n", "\n")

	htmlBody := fmt.Sprintf(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<style>
body { background:#f5f7fb; font-family:Arial, Helvetica, sans-serif; color:#222; }
.card { max-width:640px; margin:20px auto; background:#fff; border:1px solid #e6eef6; padding:24px; border-radius:8px; }
</style>
</head>
<body>
<div class="card">%s</div>
</body>
</html>`, strings.ReplaceAll(html.EscapeString(plainBody), "\n", "<br>"))

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", headerSafe(to)))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", encodeHeader(subject)))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", mailBoundary))

	sb.WriteString(fmt.Sprintf("--%s\r\n", mailBoundary))
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(plainBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s\r\n", mailBoundary))
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	sb.WriteString(htmlBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s--\r\n", mailBoundary))
	return []byte(sb.String())
}

// headers must stay on one line
func headerSafe(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// encodeHeader applies RFC 2047 Q-encoding when the text is not plain ASCII.
func encodeHeader(s string) string {
	return mime.QEncoding.Encode("utf-8", headerSafe(s))
}

// MaskEmail returns masked email for safe display
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}
	local := parts[0]
	domain := parts[1]

	maskedLocal := local
	if len(local) > 2 {
		maskedLocal = local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:]
	} else if len(local) == 2 {
		maskedLocal = local[:1] + "*"
	}

	domainParts := strings.Split(domain, ".")
	if len(domainParts) >= 2 && len(domainParts[0]) > 1 {
		domainParts[0] = domainParts[0][:1] + strings.Repeat("*", len(domainParts[0])-1)
	}

	return maskedLocal + "@" + strings.Join(domainParts, ".")
}
