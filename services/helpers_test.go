package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hotel-admin/config"
	"hotel-admin/models"
	"hotel-admin/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "hotel.db") + "?_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), config.GormConfig("silent"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection serialises transactions the way row locks do on MySQL
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func seedRoomType(t *testing.T, db *gorm.DB, name string, stock int) *models.RoomType {
	t.Helper()
	rt := &models.RoomType{
		Name:            name,
		BasePrice:       dec(2000),
		TotalStock:      stock,
		MaxAdults:       3,
		MaxChildren:     2,
		MaxOccupancy:    4,
		BaseCapacity:    2,
		MinOccupancy:    1,
		ExtraAdultPrice: dec(1000),
		ExtraChildPrice: dec(500),
		Amenities:       []models.Amenity{{Name: "Breakfast", Price: dec(300)}},
	}
	require.NoError(t, db.Create(rt).Error)
	return rt
}

func seedBooking(t *testing.T, db *gorm.DB, rt *models.RoomType, status models.BookingStatus, in, out time.Time, price int64) *models.Booking {
	t.Helper()
	b := &models.Booking{
		InvoiceNumber: utils.GenerateInvoiceNumber(in),
		RoomTypeID:    rt.ID,
		RoomName:      rt.Name,
		GuestName:     "Guest",
		Email:         "guest@example.com",
		CheckIn:       in,
		CheckOut:      out,
		Adults:        1,
		Status:        status,
		TotalPrice:    dec(price),
	}
	require.NoError(t, db.Create(b).Error)
	return b
}

// recordingDispatcher captures dispatched notifications and can be made to fail.
type recordingDispatcher struct {
	sent []Notification
	err  error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, n Notification) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, n)
	return nil
}

func nopLogger() *zap.Logger { return zap.NewNop() }
