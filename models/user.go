package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// VIPSpendThreshold is the lifetime non-cancelled spend above which a guest is VIP.
var VIPSpendThreshold = decimal.NewFromInt(50000)

// User is a registered guest account.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:255" json:"name"`
	Email      string    `gorm:"size:255;uniqueIndex" json:"email"`
	Phone      string    `gorm:"size:50" json:"phone"`
	IsVerified bool      `gorm:"default:false" json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
}

// UserStats is derived from the bookings attributed to a user.
type UserStats struct {
	BookingCount int64           `json:"bookingCount"`
	TotalSpent   decimal.Decimal `json:"totalSpent"`
}

func (s UserStats) IsVIP() bool {
	return s.TotalSpent.GreaterThan(VIPSpendThreshold)
}

// UserWithStats is what the admin guest list shows.
type UserWithStats struct {
	User
	UserStats
	IsVIP bool `json:"isVip"`
}
