package utils

import (
	"mime"
	"net/smtp"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGenerateInvoiceNumber(t *testing.T) {
	now := time.Date(2025, 3, 1, 22, 0, 0, 0, time.UTC)
	inv := GenerateInvoiceNumber(now)
	assert.Regexp(t, regexp.MustCompile(`^INV-20250301-[0-9A-F]{6}$`), inv)
	assert.NotEqual(t, inv, GenerateInvoiceNumber(now))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2025-03-10T15:04:05Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("10/03/2025")
	assert.Error(t, err)
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "j**n@e******.com", MaskEmail("john@example.com"))
	assert.Equal(t, "a*@x.io", MaskEmail("ab@x.io"))
	assert.Equal(t, "not-an-email", MaskEmail("not-an-email"))
}

func TestSMTPMailerMockWhenUnconfigured(t *testing.T) {
	m := NewSMTPMailer("", "", "", "", "", zap.NewNop())
	called := false
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	}
	require.NoError(t, m.Send("guest@example.com", "hi", "body"))
	assert.False(t, called)
}

func TestSMTPMailerSend(t *testing.T) {
	m := NewSMTPMailer("smtp.example.com", "587", "bot@example.com", "secret", "Grand Hotel", zap.NewNop())
	var gotAddr string
	var gotTo []string
	var gotMsg string
	m.send = func(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		return nil
	}

	require.NoError(t, m.Send("guest@example.com", "[Grand] Booking INV-1", "Hello <b>\nSee you"))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"guest@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "From: Grand Hotel <bot@example.com>\r\n")
	assert.Contains(t, gotMsg, "Subject: [Grand] Booking INV-1\r\n")
	assert.Contains(t, gotMsg, "Hello &lt;b&gt;<br>See you")
}

func TestBuildMultipartMessageStripsHeaderInjection(t *testing.T) {
	msg := string(BuildMultipartMessage("a@b.c", "x@y.z\r\nBcc: evil@z.z", "subj", "body"))
	assert.False(t, strings.Contains(msg, "\r\nBcc:"))
}

func TestBuildMultipartMessageEncodesNonASCIISubject(t *testing.T) {
	subject := "[Hôtel Été] Booking INV-20250301-ABC123"
	msg := string(BuildMultipartMessage("bot@example.com", "guest@example.com", subject, "body"))

	var line string
	for _, l := range strings.Split(msg, "\r\n") {
		if strings.HasPrefix(l, "Subject: ") {
			line = strings.TrimPrefix(l, "Subject: ")
			break
		}
	}
	require.NotEmpty(t, line)
	assert.True(t, strings.HasPrefix(line, "=?utf-8?q?"), line)
	for _, r := range line {
		assert.Less(t, r, rune(0x80), "header must be 7-bit: %q", line)
	}

	decoded, err := new(mime.WordDecoder).DecodeHeader(line)
	require.NoError(t, err)
	assert.Equal(t, subject, decoded)
}

func TestSMTPMailerEncodesFromName(t *testing.T) {
	m := NewSMTPMailer("smtp.example.com", "587", "bot@example.com", "secret", "Hôtel Été", zap.NewNop())
	assert.Equal(t, "=?utf-8?q?H=C3=B4tel_=C3=89t=C3=A9?= <bot@example.com>", m.from())
}
