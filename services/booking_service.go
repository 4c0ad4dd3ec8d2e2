// services/booking_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-admin/models"
	"hotel-admin/utils"
)

const maxInvoiceRetries = 5

// BookingService owns the booking lifecycle: creation, status transitions, contact
// edits, deletion and guest notification requests.
type BookingService struct {
	DB         *gorm.DB
	Pricing    *PricingEngine
	Inventory  *InventoryLedger
	Dispatcher NotificationDispatcher
	Log        *zap.Logger

	// StrictTransitions rejects off-path status changes unless the caller forces them.
	StrictTransitions bool
	Now               func() time.Time

	validate *validator.Validate
}

func NewBookingService(
	db *gorm.DB,
	pricing *PricingEngine,
	inventory *InventoryLedger,
	dispatcher NotificationDispatcher,
	log *zap.Logger,
	strict bool,
) *BookingService {
	return &BookingService{
		DB:                db,
		Pricing:           pricing,
		Inventory:         inventory,
		Dispatcher:        dispatcher,
		Log:               log,
		StrictTransitions: strict,
		Now:               time.Now,
		validate:          validator.New(),
	}
}

type CreateBookingInput struct {
	RoomTypeID        uint
	UserID            *uint
	GuestName         string
	Email             string
	Phone             string
	CheckIn           time.Time
	CheckOut          time.Time
	Adults            int
	Children          int
	SelectedAmenities []string
	// Status defaults to Pending; only holding statuses are accepted.
	Status models.BookingStatus
}

// UpdateBookingInput carries a partial update. Nil fields are left untouched.
type UpdateBookingInput struct {
	Status    *models.BookingStatus
	Force     bool
	GuestName *string
	Email     *string
	Phone     *string
}

type BookingFilter struct {
	Status models.BookingStatus
	// Search matches guest name or invoice number, case-insensitively.
	Search string
}

// ---------------------------
// Create
// ---------------------------

func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	in.GuestName = strings.TrimSpace(in.GuestName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Status == "" {
		in.Status = models.BookingStatusPending
	}

	if in.GuestName == "" {
		return nil, fmt.Errorf("%w: guest name is required", ErrValidation)
	}
	if err := s.checkEmail(in.Email); err != nil {
		return nil, err
	}
	if !in.Status.HoldsStock() {
		return nil, fmt.Errorf("%w: a new booking must start as Pending, Confirmed or CheckedIn", ErrValidation)
	}
	checkIn, checkOut := utils.DateOnly(in.CheckIn), utils.DateOnly(in.CheckOut)

	var booking models.Booking
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// the room type lock is the first statement; every read below must come after it
		rt, err := lockRoomType(tx, in.RoomTypeID)
		if err != nil {
			return err
		}

		if in.UserID != nil {
			var n int64
			if err := tx.Model(&models.User{}).Where("id = ?", *in.UserID).Count(&n).Error; err != nil {
				return fmt.Errorf("check user: %w", err)
			}
			if n == 0 {
				return fmt.Errorf("%w: user %d does not exist", ErrValidation, *in.UserID)
			}
		}

		// price first so bad input is reported before stock
		total, err := s.Pricing.ComputePrice(rt, checkIn, checkOut, in.Adults, in.Children, in.SelectedAmenities)
		if err != nil {
			return err
		}
		if err := s.Inventory.ensureAvailable(tx, rt, checkIn, checkOut, 0); err != nil {
			return err
		}

		booking = models.Booking{
			RoomTypeID:        rt.ID,
			RoomName:          rt.Name,
			UserID:            in.UserID,
			GuestName:         in.GuestName,
			Email:             in.Email,
			Phone:             in.Phone,
			CheckIn:           checkIn,
			CheckOut:          checkOut,
			Adults:            in.Adults,
			Children:          in.Children,
			SelectedAmenities: append([]string{}, in.SelectedAmenities...),
			Status:            in.Status,
			TotalPrice:        total,
		}

		var createErr error
		for attempt := 0; attempt < maxInvoiceRetries; attempt++ {
			booking.ID = 0
			booking.InvoiceNumber = utils.GenerateInvoiceNumber(s.Now())
			createErr = tx.Create(&booking).Error
			if createErr == nil || !isDuplicateKey(createErr) {
				break
			}
			s.Log.Warn("invoice number collision, retrying", zap.Int("attempt", attempt+1))
		}
		if createErr != nil {
			return fmt.Errorf("create booking: %w", createErr)
		}
		return nil
	}, lockingTxOptions(s.DB)...)
	if err != nil {
		return nil, err
	}

	s.Log.Info("booking created",
		zap.Uint("bookingId", booking.ID),
		zap.String("invoice", booking.InvoiceNumber),
		zap.String("total", booking.TotalPrice.String()),
	)
	return &booking, nil
}

// ---------------------------
// Read
// ---------------------------

func (s *BookingService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	var b models.Booking
	if err := s.DB.WithContext(ctx).Preload("RoomType").First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("booking %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("load booking: %w", err)
	}
	return &b, nil
}

func (s *BookingService) ListBookings(ctx context.Context, f BookingFilter) ([]models.Booking, error) {
	q := s.DB.WithContext(ctx).Model(&models.Booking{})

	if f.Status != "" {
		if !f.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, f.Status)
		}
		q = q.Where("status = ?", f.Status)
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		like := "%" + term + "%"
		q = q.Where("LOWER(guest_name) LIKE ? OR LOWER(invoice_number) LIKE ?", like, like)
	}

	bookings := []models.Booking{}
	if err := q.Order("created_at DESC").Order("id DESC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// ---------------------------
// Status transitions
// ---------------------------

// UpdateStatus moves a booking to a new status. Setting the current status is a no-op.
func (s *BookingService) UpdateStatus(ctx context.Context, id uint, status models.BookingStatus, force bool) (*models.Booking, error) {
	return s.UpdateBooking(ctx, id, UpdateBookingInput{Status: &status, Force: force})
}

// UpdateBooking applies contact edits and an optional status change in one transaction.
// Contact edits never touch price or inventory.
func (s *BookingService) UpdateBooking(ctx context.Context, id uint, in UpdateBookingInput) (*models.Booking, error) {
	updates := map[string]interface{}{}
	if in.GuestName != nil {
		name := strings.TrimSpace(*in.GuestName)
		if name == "" {
			return nil, fmt.Errorf("%w: guest name must not be empty", ErrValidation)
		}
		updates["guest_name"] = name
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if err := s.checkEmail(email); err != nil {
			return nil, err
		}
		updates["email"] = email
	}
	if in.Phone != nil {
		updates["phone"] = strings.TrimSpace(*in.Phone)
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *in.Status)
	}

	var booking models.Booking
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("booking %d: %w", id, ErrNotFound)
			}
			return fmt.Errorf("lock booking: %w", err)
		}

		if in.Status != nil && *in.Status != booking.Status {
			if err := s.transition(tx, &booking, *in.Status, in.Force); err != nil {
				return err
			}
			updates["status"] = *in.Status
		}

		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&booking).Updates(updates).Error; err != nil {
			return fmt.Errorf("update booking: %w", err)
		}
		return nil
	}, lockingTxOptions(s.DB)...)
	if err != nil {
		return nil, err
	}
	return s.GetBooking(ctx, id)
}

// transition checks the move from booking.Status to `to` and re-reserves stock when a
// booking re-enters a holding status. Leaving a holding status releases implicitly.
func (s *BookingService) transition(tx *gorm.DB, booking *models.Booking, to models.BookingStatus, force bool) error {
	from := booking.Status

	if !OnRecommendedPath(from, to) {
		if s.StrictTransitions && !force {
			return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, from, to)
		}
		s.Log.Warn("manual booking status correction",
			zap.Uint("bookingId", booking.ID),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
			zap.Bool("forced", force),
		)
	}

	if !from.HoldsStock() && to.HoldsStock() {
		_, err := s.Inventory.Reserve(tx, booking.RoomTypeID, booking.CheckIn, booking.CheckOut, booking.ID)
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: room type %d no longer exists", ErrConflict, booking.RoomTypeID)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// OnRecommendedPath reports whether from → to follows
// Pending → Confirmed → CheckedIn → CheckedOut, or cancels a non-terminal booking.
func OnRecommendedPath(from, to models.BookingStatus) bool {
	if to == models.BookingStatusCancelled {
		return !from.Terminal()
	}
	switch from {
	case models.BookingStatusPending:
		return to == models.BookingStatusConfirmed
	case models.BookingStatusConfirmed:
		return to == models.BookingStatusCheckedIn
	case models.BookingStatusCheckedIn:
		return to == models.BookingStatusCheckedOut
	}
	return false
}

// ---------------------------
// Delete
// ---------------------------

// DeleteBooking removes the booking and its dispatch history. Held stock is free once this returns.
func (s *BookingService) DeleteBooking(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("booking %d: %w", id, ErrNotFound)
			}
			return fmt.Errorf("lock booking: %w", err)
		}

		if err := tx.Where("booking_id = ?", id).Delete(&models.NotificationDispatch{}).Error; err != nil {
			return fmt.Errorf("delete dispatches: %w", err)
		}
		if err := tx.Delete(&booking).Error; err != nil {
			return fmt.Errorf("delete booking: %w", err)
		}

		s.Log.Info("booking deleted",
			zap.Uint("bookingId", id),
			zap.String("invoice", booking.InvoiceNumber),
			zap.String("status", string(booking.Status)),
		)
		return nil
	})
}

// ---------------------------
// Notifications
// ---------------------------

// RequestNotification records and dispatches a custom message to the booking's guest.
// Every call produces a new dispatch row; the booking itself is never modified.
func (s *BookingService) RequestNotification(ctx context.Context, id uint, customMessage string) (*models.NotificationDispatch, error) {
	body := strings.TrimSpace(customMessage)
	if body == "" {
		return nil, ErrEmptyMessage
	}

	booking, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(booking.Email) == "" {
		return nil, fmt.Errorf("%w: booking %s has no guest e-mail", ErrValidation, booking.InvoiceNumber)
	}

	var setting models.HotelSetting
	if err := s.DB.WithContext(ctx).Order("id ASC").Limit(1).Find(&setting).Error; err != nil {
		return nil, fmt.Errorf("load hotel settings: %w", err)
	}

	dispatch := models.NotificationDispatch{
		BookingID: booking.ID,
		To:        booking.Email,
		Subject:   setting.SubjectPrefix() + "Booking " + booking.InvoiceNumber,
		Body:      body,
		Status:    models.DispatchStatusPending,
	}
	if err := s.DB.WithContext(ctx).Create(&dispatch).Error; err != nil {
		return nil, fmt.Errorf("create dispatch: %w", err)
	}

	sendErr := s.Dispatcher.Dispatch(ctx, Notification{
		BookingID:     booking.ID,
		InvoiceNumber: booking.InvoiceNumber,
		To:            dispatch.To,
		GuestName:     booking.GuestName,
		Subject:       dispatch.Subject,
		Body:          dispatch.Body,
	})

	if sendErr != nil {
		dispatch.Status = models.DispatchStatusFailed
		dispatch.Error = sendErr.Error()
	} else {
		dispatch.Status = models.DispatchStatusSent
	}
	// the send already happened; record the outcome even if the request was cancelled
	if err := s.DB.WithContext(context.WithoutCancel(ctx)).Model(&dispatch).Updates(map[string]interface{}{
		"status":        dispatch.Status,
		"error_message": dispatch.Error,
	}).Error; err != nil {
		s.Log.Error("failed to record dispatch status", zap.Uint("dispatchId", dispatch.ID), zap.Error(err))
	}

	if sendErr != nil {
		s.Log.Warn("notification dispatch failed",
			zap.Uint("bookingId", booking.ID),
			zap.Uint("dispatchId", dispatch.ID),
			zap.Error(sendErr),
		)
		return &dispatch, fmt.Errorf("%w: %v", ErrDispatchFailed, sendErr)
	}
	return &dispatch, nil
}

func (s *BookingService) checkEmail(email string) error {
	if email == "" {
		return nil
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return fmt.Errorf("%w: %q is not a valid e-mail address", ErrValidation, email)
	}
	return nil
}
