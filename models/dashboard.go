package models

import "github.com/shopspring/decimal"

// PopularRoomNone is reported when no booking exists yet.
const PopularRoomNone = "N/A"

// DashboardStats is derived on every request and never persisted.
type DashboardStats struct {
	Users          int64           `json:"users"`
	Rooms          int64           `json:"rooms"`
	Bookings       int64           `json:"bookings"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	MonthlyRevenue decimal.Decimal `json:"monthlyRevenue"`
	PopularRoom    string          `json:"popularRoom"`

	ArrivingToday   int64 `json:"arrivingToday"`
	DepartingToday  int64 `json:"departingToday"`
	PendingBookings int64 `json:"pendingBookings"`
}
