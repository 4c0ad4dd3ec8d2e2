package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "Pending"
	BookingStatusConfirmed  BookingStatus = "Confirmed"
	BookingStatusCheckedIn  BookingStatus = "CheckedIn"
	BookingStatusCheckedOut BookingStatus = "CheckedOut"
	BookingStatusCancelled  BookingStatus = "Cancelled"
)

// HoldingStatuses are the statuses whose bookings consume room type stock.
var HoldingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCheckedIn,
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCheckedIn,
		BookingStatusCheckedOut, BookingStatusCancelled:
		return true
	}
	return false
}

// HoldsStock reports whether a booking in this status counts against inventory.
func (s BookingStatus) HoldsStock() bool {
	for _, h := range HoldingStatuses {
		if s == h {
			return true
		}
	}
	return false
}

// Terminal reports whether the status ends the normal lifecycle.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCheckedOut || s == BookingStatusCancelled
}

// Booking reserves one unit of a room type for [CheckIn, CheckOut).
// Guest contact fields are a snapshot; the booking survives edits to the user record.
type Booking struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	InvoiceNumber string `gorm:"size:64;uniqueIndex" json:"invoiceNumber"`

	RoomTypeID uint      `gorm:"index;column:room_type_id" json:"roomTypeId"`
	RoomName   string    `gorm:"size:150" json:"roomName"`
	RoomType   *RoomType `gorm:"foreignKey:RoomTypeID;references:ID" json:"roomType,omitempty"`

	UserID    *uint  `gorm:"index;column:user_id" json:"userId,omitempty"`
	GuestName string `gorm:"size:255" json:"guestName"`
	Email     string `gorm:"size:255;index" json:"email"`
	Phone     string `gorm:"size:50" json:"phone"`

	CheckIn  time.Time `gorm:"column:check_in;index" json:"checkIn"`
	CheckOut time.Time `gorm:"column:check_out;index" json:"checkOut"`

	Adults            int                         `gorm:"default:1" json:"adults"`
	Children          int                         `gorm:"default:0" json:"children"`
	SelectedAmenities datatypes.JSONSlice[string] `json:"selectedAmenities"`

	Status     BookingStatus   `gorm:"size:32;index" json:"status"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(14,2)" json:"totalPrice"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
