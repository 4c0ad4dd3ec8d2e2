package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-admin/models"
)

// RoomTypeInput is the full editable state of a room type. Update replaces every
// field wholesale except images, which are merged.
type RoomTypeInput struct {
	Name        string `validate:"required,max=150"`
	Description string
	Dimensions  string `validate:"max=64"`
	Size        int    `validate:"min=0"`

	BasePrice          decimal.Decimal
	DiscountPercentage decimal.Decimal
	TotalStock         int `validate:"min=0"`

	MaxAdults    int `validate:"min=0"`
	MaxChildren  int `validate:"min=0"`
	MaxOccupancy int `validate:"min=0"`
	BaseCapacity int `validate:"min=0"`
	MinOccupancy int `validate:"min=0"`

	ExtraAdultPrice decimal.Decimal
	ExtraChildPrice decimal.Decimal

	Amenities []models.Amenity
	Furniture []string

	// KeepImages, when non-nil, limits which stored images survive an update.
	KeepImages []string
	// RemoveImages are dropped from the stored list on update.
	RemoveImages []string
	// NewImages are references already written by the ImageStore; appended in order.
	NewImages []string
}

type RoomTypeService struct {
	DB     *gorm.DB
	Cache  RoomCache
	Images *ImageStore
	Log    *zap.Logger

	validate *validator.Validate
}

func NewRoomTypeService(db *gorm.DB, cache RoomCache, images *ImageStore, log *zap.Logger) *RoomTypeService {
	if cache == nil {
		cache = NoopRoomCache{}
	}
	return &RoomTypeService{DB: db, Cache: cache, Images: images, Log: log, validate: validator.New()}
}

func (s *RoomTypeService) List(ctx context.Context) ([]models.RoomType, error) {
	rooms, gen, ok := s.Cache.Get(ctx)
	if ok {
		return rooms, nil
	}

	rooms = []models.RoomType{}
	if err := s.DB.WithContext(ctx).Order("id ASC").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("list room types: %w", err)
	}
	for i := range rooms {
		rooms[i].FillDerived()
	}
	s.Cache.Set(ctx, gen, rooms)
	return rooms, nil
}

func (s *RoomTypeService) Get(ctx context.Context, id uint) (*models.RoomType, error) {
	var rt models.RoomType
	if err := s.DB.WithContext(ctx).First(&rt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("room type %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("load room type: %w", err)
	}
	rt.FillDerived()
	return &rt, nil
}

func (s *RoomTypeService) Create(ctx context.Context, in RoomTypeInput) (*models.RoomType, error) {
	if err := s.check(&in); err != nil {
		return nil, err
	}

	rt := models.RoomType{}
	apply(&rt, &in)
	rt.Images = dedupe(in.NewImages)

	if err := s.DB.WithContext(ctx).Create(&rt).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("%w: room type %q already exists", ErrConflict, rt.Name)
		}
		return nil, fmt.Errorf("create room type: %w", err)
	}
	s.Cache.Invalidate(ctx)

	rt.FillDerived()
	s.Log.Info("room type created", zap.Uint("roomTypeId", rt.ID), zap.String("name", rt.Name))
	return &rt, nil
}

func (s *RoomTypeService) Update(ctx context.Context, id uint, in RoomTypeInput) (*models.RoomType, error) {
	if err := s.check(&in); err != nil {
		return nil, err
	}

	var rt models.RoomType
	var dropped []string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&rt, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("room type %d: %w", id, ErrNotFound)
			}
			return fmt.Errorf("lock room type: %w", err)
		}

		var images []string
		images, dropped = MergeImages(rt.Images, in.KeepImages, in.RemoveImages, in.NewImages)
		apply(&rt, &in)
		rt.Images = images

		if err := tx.Save(&rt).Error; err != nil {
			if isDuplicateKey(err) {
				return fmt.Errorf("%w: room type %q already exists", ErrConflict, rt.Name)
			}
			return fmt.Errorf("update room type: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Cache.Invalidate(ctx)
	s.removeFiles(dropped)

	rt.FillDerived()
	return &rt, nil
}

// Delete hard-deletes a room type that no Pending, Confirmed or CheckedIn booking holds.
func (s *RoomTypeService) Delete(ctx context.Context, id uint) error {
	var rt models.RoomType
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&rt, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("room type %d: %w", id, ErrNotFound)
			}
			return fmt.Errorf("lock room type: %w", err)
		}

		var holding int64
		if err := tx.Model(&models.Booking{}).
			Where("room_type_id = ? AND status IN ?", id, models.HoldingStatuses).
			Count(&holding).Error; err != nil {
			return fmt.Errorf("count holding bookings: %w", err)
		}
		if holding > 0 {
			return fmt.Errorf("%w: room type %q has %d active bookings", ErrConflict, rt.Name, holding)
		}

		if err := tx.Delete(&rt).Error; err != nil {
			return fmt.Errorf("delete room type: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.Cache.Invalidate(ctx)
	s.removeFiles(rt.Images)

	s.Log.Info("room type deleted", zap.Uint("roomTypeId", id), zap.String("name", rt.Name))
	return nil
}

func (s *RoomTypeService) check(in *RoomTypeInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	switch {
	case in.BasePrice.IsNegative():
		return fmt.Errorf("%w: basePrice must not be negative", ErrValidation)
	case in.ExtraAdultPrice.IsNegative(), in.ExtraChildPrice.IsNegative():
		return fmt.Errorf("%w: extra guest prices must not be negative", ErrValidation)
	case in.DiscountPercentage.IsNegative(), in.DiscountPercentage.GreaterThan(hundred):
		return fmt.Errorf("%w: discountPercentage must be between 0 and 100", ErrValidation)
	case in.BaseCapacity > in.MaxOccupancy:
		return fmt.Errorf("%w: baseCapacity %d exceeds maxOccupancy %d", ErrValidation, in.BaseCapacity, in.MaxOccupancy)
	case in.MaxAdults+in.MaxChildren < in.MaxOccupancy:
		return fmt.Errorf("%w: maxAdults + maxChildren must be at least maxOccupancy", ErrValidation)
	case in.MinOccupancy > in.MaxOccupancy:
		return fmt.Errorf("%w: minOccupancy %d exceeds maxOccupancy %d", ErrValidation, in.MinOccupancy, in.MaxOccupancy)
	}

	seen := map[string]bool{}
	for i, a := range in.Amenities {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return fmt.Errorf("%w: amenity %d has no name", ErrValidation, i+1)
		}
		if seen[name] {
			return fmt.Errorf("%w: amenity %q listed twice", ErrValidation, name)
		}
		if a.Price.IsNegative() {
			return fmt.Errorf("%w: amenity %q has a negative price", ErrValidation, name)
		}
		seen[name] = true
		in.Amenities[i].Name = name
	}
	return nil
}

func apply(rt *models.RoomType, in *RoomTypeInput) {
	rt.Name = in.Name
	rt.Description = in.Description
	rt.Dimensions = in.Dimensions
	rt.Size = in.Size
	rt.BasePrice = in.BasePrice
	rt.DiscountPercentage = in.DiscountPercentage
	rt.TotalStock = in.TotalStock
	rt.MaxAdults = in.MaxAdults
	rt.MaxChildren = in.MaxChildren
	rt.MaxOccupancy = in.MaxOccupancy
	rt.BaseCapacity = in.BaseCapacity
	rt.MinOccupancy = in.MinOccupancy
	rt.ExtraAdultPrice = in.ExtraAdultPrice
	rt.ExtraChildPrice = in.ExtraChildPrice
	rt.Amenities = append([]models.Amenity{}, in.Amenities...)
	rt.Furniture = append([]string{}, in.Furniture...)
}

// MergeImages computes (existing ∩ keep − remove) followed by uploads, without duplicates,
// and reports which existing images were dropped.
func MergeImages(existing, keep, remove, uploads []string) (merged, dropped []string) {
	var keepSet map[string]bool
	if keep != nil {
		keepSet = make(map[string]bool, len(keep))
		for _, k := range keep {
			keepSet[k] = true
		}
	}
	removeSet := make(map[string]bool, len(remove))
	for _, r := range remove {
		removeSet[r] = true
	}

	merged = []string{}
	seen := map[string]bool{}
	for _, img := range existing {
		if removeSet[img] || (keepSet != nil && !keepSet[img]) {
			dropped = append(dropped, img)
			continue
		}
		if !seen[img] {
			seen[img] = true
			merged = append(merged, img)
		}
	}
	for _, img := range uploads {
		if img != "" && !seen[img] {
			seen[img] = true
			merged = append(merged, img)
		}
	}
	return merged, dropped
}

func dedupe(items []string) []string {
	out, _ := MergeImages(nil, nil, nil, items)
	return out
}

func (s *RoomTypeService) removeFiles(refs []string) {
	if s.Images == nil {
		return
	}
	for _, ref := range refs {
		if err := s.Images.Remove(ref); err != nil {
			s.Log.Warn("failed to remove image", zap.String("ref", ref), zap.Error(err))
		}
	}
}
