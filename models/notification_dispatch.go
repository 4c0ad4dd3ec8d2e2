package models

import "time"

const (
	DispatchStatusPending = "PENDING"
	DispatchStatusSent    = "SENT"
	DispatchStatusFailed  = "FAILED"
)

// NotificationDispatch records one request to message a guest about a booking.
type NotificationDispatch struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BookingID uint      `gorm:"index" json:"bookingId"`
	To        string    `gorm:"column:recipient;size:255" json:"to"`
	Subject   string    `gorm:"size:255" json:"subject"`
	Body      string    `gorm:"type:text" json:"body"`
	Status    string    `gorm:"size:16;default:PENDING" json:"status"`
	Error     string    `gorm:"column:error_message;type:text" json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
