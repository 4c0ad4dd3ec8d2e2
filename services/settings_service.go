package services

import (
	"context"
	"fmt"

	"hotel-admin/models"

	"gorm.io/gorm"
)

// SettingsService manages the single hotel_settings row.
type SettingsService struct {
	DB *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db}
}

// Get returns the stored settings, or an empty value when none were saved yet.
func (s *SettingsService) Get(ctx context.Context) (models.HotelSetting, error) {
	var hotel models.HotelSetting
	if err := s.DB.WithContext(ctx).Order("id ASC").Limit(1).Find(&hotel).Error; err != nil {
		return hotel, fmt.Errorf("load hotel settings: %w", err)
	}
	return hotel, nil
}

// Save creates the row on first use and overwrites it afterwards.
func (s *SettingsService) Save(ctx context.Context, in models.HotelSetting) (models.HotelSetting, error) {
	hotel, err := s.Get(ctx)
	if err != nil {
		return hotel, err
	}

	hotel.Name = in.Name
	hotel.Address = in.Address
	hotel.Phone = in.Phone
	hotel.Email = in.Email
	hotel.Website = in.Website
	hotel.Logo = in.Logo

	if err := s.DB.WithContext(ctx).Save(&hotel).Error; err != nil {
		return hotel, fmt.Errorf("save hotel settings: %w", err)
	}
	return hotel, nil
}
