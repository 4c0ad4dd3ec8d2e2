package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// LowStockThreshold marks room types the admin list flags as running low.
const LowStockThreshold = 3

// Amenity is a priced add-on offered with a room type. It is not part of the base price.
type Amenity struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// RoomType is a category of interchangeable rooms sharing price, capacity and amenities.
type RoomType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"size:150;uniqueIndex" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Dimensions  string `gorm:"size:64" json:"dimensions"`
	Size        int    `json:"size"`

	BasePrice          decimal.Decimal `gorm:"type:decimal(12,2)" json:"basePrice"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2)" json:"discountPercentage"`
	TotalStock         int             `gorm:"column:total_stock" json:"totalStock"`

	MaxAdults    int `json:"maxAdults"`
	MaxChildren  int `json:"maxChildren"`
	MaxOccupancy int `json:"maxOccupancy"`
	BaseCapacity int `json:"baseCapacity"`
	MinOccupancy int `json:"minOccupancy"`

	ExtraAdultPrice decimal.Decimal `gorm:"type:decimal(12,2)" json:"extraAdultPrice"`
	ExtraChildPrice decimal.Decimal `gorm:"type:decimal(12,2)" json:"extraChildPrice"`

	Amenities datatypes.JSONSlice[Amenity] `json:"amenities"`
	Furniture datatypes.JSONSlice[string]  `json:"furniture"`
	Images    datatypes.JSONSlice[string]  `json:"images"`

	// derived on read, never stored
	LowStock bool `gorm:"-" json:"lowStock"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AmenityByName returns the amenity with the given name, if the room type offers it.
func (rt *RoomType) AmenityByName(name string) (Amenity, bool) {
	for _, a := range rt.Amenities {
		if a.Name == name {
			return a, true
		}
	}
	return Amenity{}, false
}

// FillDerived sets the read-only fields computed from stored ones.
func (rt *RoomType) FillDerived() {
	rt.LowStock = rt.TotalStock < LowStockThreshold
}
