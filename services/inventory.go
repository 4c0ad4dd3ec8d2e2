package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-admin/models"
)

// InventoryLedger answers how many units of a room type are free for a date range.
// Stock is never decremented; a booking holds a unit while its status is one of
// models.HoldingStatuses, so release happens by changing status or deleting.
type InventoryLedger struct {
	DB *gorm.DB
}

func NewInventoryLedger(db *gorm.DB) *InventoryLedger {
	return &InventoryLedger{DB: db}
}

// Availability is the result of an availability query.
type Availability struct {
	RoomTypeID     uint `json:"roomTypeId"`
	AvailableUnits int  `json:"availableUnits"`
	TotalStock     int  `json:"totalStock"`
	LowStock       bool `json:"lowStock"`
}

func (l *InventoryLedger) CheckAvailability(ctx context.Context, roomTypeID uint, checkIn, checkOut time.Time) (Availability, error) {
	if Nights(checkIn, checkOut) <= 0 {
		return Availability{}, fmt.Errorf("%w: check-out must be after check-in", ErrInvalidDateRange)
	}

	var rt models.RoomType
	if err := l.DB.WithContext(ctx).First(&rt, roomTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Availability{}, fmt.Errorf("room type %d: %w", roomTypeID, ErrNotFound)
		}
		return Availability{}, fmt.Errorf("load room type: %w", err)
	}

	free, err := availableUnits(l.DB.WithContext(ctx), &rt, checkIn, checkOut, 0)
	if err != nil {
		return Availability{}, err
	}
	return Availability{
		RoomTypeID:     rt.ID,
		AvailableUnits: free,
		TotalStock:     rt.TotalStock,
		LowStock:       rt.TotalStock < models.LowStockThreshold,
	}, nil
}

// Reserve locks the room type row and checks that one more unit fits in the range.
// It must run inside the caller's transaction; excludeBookingID lets a booking that
// re-enters a holding status ignore itself.
func (l *InventoryLedger) Reserve(tx *gorm.DB, roomTypeID uint, checkIn, checkOut time.Time, excludeBookingID uint) (*models.RoomType, error) {
	if Nights(checkIn, checkOut) <= 0 {
		return nil, fmt.Errorf("%w: check-out must be after check-in", ErrInvalidDateRange)
	}

	rt, err := lockRoomType(tx, roomTypeID)
	if err != nil {
		return nil, err
	}
	if err := l.ensureAvailable(tx, rt, checkIn, checkOut, excludeBookingID); err != nil {
		return nil, err
	}
	return rt, nil
}

// ensureAvailable expects the room type row to be locked already.
func (l *InventoryLedger) ensureAvailable(tx *gorm.DB, rt *models.RoomType, checkIn, checkOut time.Time, excludeBookingID uint) error {
	free, err := availableUnits(tx, rt, checkIn, checkOut, excludeBookingID)
	if err != nil {
		return err
	}
	if free < 1 {
		return fmt.Errorf("%w: no %s units left between %s and %s", ErrInsufficientStock,
			rt.Name, checkIn.Format("2006-01-02"), checkOut.Format("2006-01-02"))
	}
	return nil
}

// lockingTxOptions opens stock-changing transactions as READ COMMITTED on MySQL, so the
// plain overlap count taken after the room type lock sees bookings committed while the
// lock was awaited. Under REPEATABLE READ the snapshot could predate the lock.
func lockingTxOptions(db *gorm.DB) []*sql.TxOptions {
	return txOptionsFor(db.Dialector.Name())
}

func txOptionsFor(dialect string) []*sql.TxOptions {
	if dialect == "mysql" {
		return []*sql.TxOptions{{Isolation: sql.LevelReadCommitted}}
	}
	return nil
}

func lockRoomType(tx *gorm.DB, id uint) (*models.RoomType, error) {
	var rt models.RoomType
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&rt, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("room type %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("lock room type: %w", err)
	}
	return &rt, nil
}

// availableUnits = totalStock − holding bookings overlapping [checkIn, checkOut), clamped to [0, totalStock].
func availableUnits(db *gorm.DB, rt *models.RoomType, checkIn, checkOut time.Time, excludeBookingID uint) (int, error) {
	q := db.Model(&models.Booking{}).
		Where("room_type_id = ?", rt.ID).
		Where("status IN ?", models.HoldingStatuses).
		// half-open overlap: existing.in < query.out AND query.in < existing.out
		Where("check_in < ? AND check_out > ?", checkOut.UTC(), checkIn.UTC())
	if excludeBookingID != 0 {
		q = q.Where("id <> ?", excludeBookingID)
	}

	var held int64
	if err := q.Count(&held).Error; err != nil {
		return 0, fmt.Errorf("count overlapping bookings: %w", err)
	}

	free := rt.TotalStock - int(held)
	if free < 0 {
		free = 0
	}
	if free > rt.TotalStock {
		free = rt.TotalStock
	}
	return free, nil
}
