package services

import (
	"context"

	"hotel-admin/utils"
)

// Notification is one guest-facing message about a booking.
type Notification struct {
	BookingID     uint
	InvoiceNumber string
	To            string
	GuestName     string
	Subject       string
	Body          string
}

// NotificationDispatcher delivers a notification. Implementations must be safe for concurrent use.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, n Notification) error
}

// MailDispatcher sends notifications through an SMTP mailer.
type MailDispatcher struct {
	Mailer *utils.SMTPMailer
}

func NewMailDispatcher(m *utils.SMTPMailer) *MailDispatcher {
	return &MailDispatcher{Mailer: m}
}

func (d *MailDispatcher) Dispatch(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.Mailer.Send(n.To, n.Subject, n.Body)
}
