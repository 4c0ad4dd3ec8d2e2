package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hotel-admin/models"
)

// ReportService derives dashboard and guest statistics. It only reads, without
// locks, so figures may trail in-flight mutations by one request.
type ReportService struct {
	DB       *gorm.DB
	Location *time.Location
	Now      func() time.Time
}

func NewReportService(db *gorm.DB, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{DB: db, Location: loc, Now: time.Now}
}

// today is the current calendar date in the reporting location, as stored (UTC midnight).
func (s *ReportService) today() time.Time {
	y, m, d := s.Now().In(s.Location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *ReportService) ComputeDashboardStats(ctx context.Context) (models.DashboardStats, error) {
	db := s.DB.WithContext(ctx)
	var st models.DashboardStats

	if err := db.Model(&models.User{}).Count(&st.Users).Error; err != nil {
		return st, fmt.Errorf("count users: %w", err)
	}
	if err := db.Model(&models.RoomType{}).Count(&st.Rooms).Error; err != nil {
		return st, fmt.Errorf("count room types: %w", err)
	}
	if err := db.Model(&models.Booking{}).Count(&st.Bookings).Error; err != nil {
		return st, fmt.Errorf("count bookings: %w", err)
	}

	total, err := sumRevenue(db.Model(&models.Booking{}))
	if err != nil {
		return st, err
	}
	st.TotalRevenue = total

	// month window on check-in date: [first of this month, first of next)
	today := s.today()
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)
	monthly, err := sumRevenue(db.Model(&models.Booking{}).
		Where("check_in >= ? AND check_in < ?", monthStart, monthEnd))
	if err != nil {
		return st, err
	}
	st.MonthlyRevenue = monthly

	if st.PopularRoom, err = s.popularRoom(db); err != nil {
		return st, err
	}

	tomorrow := today.AddDate(0, 0, 1)
	if err := db.Model(&models.Booking{}).
		Where("check_in >= ? AND check_in < ?", today, tomorrow).
		Where("status IN ?", []models.BookingStatus{models.BookingStatusPending, models.BookingStatusConfirmed}).
		Count(&st.ArrivingToday).Error; err != nil {
		return st, fmt.Errorf("count arrivals: %w", err)
	}
	if err := db.Model(&models.Booking{}).
		Where("check_out >= ? AND check_out < ?", today, tomorrow).
		Where("status IN ?", []models.BookingStatus{models.BookingStatusConfirmed, models.BookingStatusCheckedIn}).
		Count(&st.DepartingToday).Error; err != nil {
		return st, fmt.Errorf("count departures: %w", err)
	}
	if err := db.Model(&models.Booking{}).
		Where("status = ?", models.BookingStatusPending).
		Count(&st.PendingBookings).Error; err != nil {
		return st, fmt.Errorf("count pending: %w", err)
	}

	return st, nil
}

// sumRevenue adds totalPrice over the non-cancelled bookings in q. Summed in Go to stay exact.
func sumRevenue(q *gorm.DB) (decimal.Decimal, error) {
	var prices []decimal.Decimal
	if err := q.Where("status <> ?", models.BookingStatusCancelled).Pluck("total_price", &prices).Error; err != nil {
		return decimal.Zero, fmt.Errorf("sum revenue: %w", err)
	}
	sum := decimal.Zero
	for _, p := range prices {
		sum = sum.Add(p)
	}
	if sum.IsNegative() {
		return decimal.Zero, nil
	}
	return sum, nil
}

// popularRoom: most bookings of any status, lowest room type id on ties.
func (s *ReportService) popularRoom(db *gorm.DB) (string, error) {
	var top []struct {
		RoomTypeID uint
		Cnt        int64
	}
	err := db.Model(&models.Booking{}).
		Select("room_type_id, COUNT(*) AS cnt").
		Group("room_type_id").
		Order("cnt DESC").
		Order("room_type_id ASC").
		Limit(1).
		Scan(&top).Error
	if err != nil {
		return "", fmt.Errorf("popular room: %w", err)
	}
	if len(top) == 0 {
		return models.PopularRoomNone, nil
	}

	var rt models.RoomType
	err = db.Select("name").First(&rt, top[0].RoomTypeID).Error
	if err == nil {
		return rt.Name, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("popular room name: %w", err)
	}

	// room type was deleted; fall back to the name bookings kept
	var names []string
	if err := db.Model(&models.Booking{}).
		Where("room_type_id = ?", top[0].RoomTypeID).
		Limit(1).
		Pluck("room_name", &names).Error; err != nil {
		return "", fmt.Errorf("popular room snapshot: %w", err)
	}
	if len(names) == 0 || names[0] == "" {
		return fmt.Sprintf("Room type #%d", top[0].RoomTypeID), nil
	}
	return names[0], nil
}

// attributedTo selects bookings owned by u: linked by user_id, or unlinked with u's e-mail.
func attributedTo(db *gorm.DB, u *models.User) *gorm.DB {
	email := strings.ToLower(strings.TrimSpace(u.Email))
	q := db.Model(&models.Booking{})
	if email == "" {
		return q.Where("user_id = ?", u.ID)
	}
	return q.Where("user_id = ? OR (user_id IS NULL AND LOWER(email) = ?)", u.ID, email)
}

func (s *ReportService) ComputeUserStats(ctx context.Context, userID uint) (models.UserStats, error) {
	db := s.DB.WithContext(ctx)

	var u models.User
	if err := db.First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.UserStats{}, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return models.UserStats{}, fmt.Errorf("load user: %w", err)
	}

	var st models.UserStats
	if err := attributedTo(db, &u).Count(&st.BookingCount).Error; err != nil {
		return st, fmt.Errorf("count user bookings: %w", err)
	}
	spent, err := sumRevenue(attributedTo(db, &u))
	if err != nil {
		return st, err
	}
	st.TotalSpent = spent
	return st, nil
}

// ListUsersWithStats returns every user with derived stats, newest account first.
func (s *ReportService) ListUsersWithStats(ctx context.Context) ([]models.UserWithStats, error) {
	db := s.DB.WithContext(ctx)

	var users []models.User
	if err := db.Order("created_at DESC").Order("id DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	var bookings []models.Booking
	if err := db.Select("id", "user_id", "email", "status", "total_price").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}

	byID := make(map[uint]*models.UserStats, len(users))
	byEmail := make(map[string]*models.UserStats, len(users))
	out := make([]models.UserWithStats, len(users))
	for i := range users {
		out[i].User = users[i]
		out[i].TotalSpent = decimal.Zero
		byID[users[i].ID] = &out[i].UserStats
		if email := strings.ToLower(strings.TrimSpace(users[i].Email)); email != "" {
			byEmail[email] = &out[i].UserStats
		}
	}

	for _, b := range bookings {
		var st *models.UserStats
		if b.UserID != nil {
			st = byID[*b.UserID]
		} else if email := strings.ToLower(strings.TrimSpace(b.Email)); email != "" {
			st = byEmail[email]
		}
		if st == nil {
			continue
		}
		st.BookingCount++
		if b.Status != models.BookingStatusCancelled {
			st.TotalSpent = st.TotalSpent.Add(b.TotalPrice)
		}
	}

	for i := range out {
		out[i].IsVIP = out[i].UserStats.IsVIP()
	}
	return out, nil
}
