package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"hotel-admin/models"
)

var hundred = decimal.NewFromInt(100)

// PricingEngine computes the total price of a stay. It holds no state besides policy.
type PricingEngine struct {
	// AmenitiesPerNight charges selected amenities every night instead of once per stay.
	AmenitiesPerNight bool
	// MinorUnitDigits is the number of decimal places the total is rounded to.
	MinorUnitDigits int32
}

func NewPricingEngine(amenitiesPerNight bool, minorUnitDigits int32) *PricingEngine {
	return &PricingEngine{AmenitiesPerNight: amenitiesPerNight, MinorUnitDigits: minorUnitDigits}
}

// Nights counts whole calendar days between two dates. It works on day numbers rather
// than time.Duration, which saturates after about 292 years.
func Nights(checkIn, checkOut time.Time) int {
	return int(dayNumber(checkOut) - dayNumber(checkIn))
}

// dayNumber is the proleptic Gregorian day count of t's calendar date, 1970-01-01 = 0.
func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	year, month, day := int64(y), int64(m), int64(d)
	if month <= 2 {
		year--
	}
	era := year / 400
	if year < 0 && year%400 != 0 {
		era--
	}
	yoe := year - era*400
	mp := (month + 9) % 12
	doy := (153*mp+2)/5 + day - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

// ComputePrice returns
//
//	nights × (base × (1 − discount/100) + extraAdults × extraAdultPrice + extraChildren × extraChildPrice)
//	+ amenities
//
// where base capacity is filled by adults first, then children.
func (p *PricingEngine) ComputePrice(
	rt *models.RoomType,
	checkIn, checkOut time.Time,
	adults, children int,
	selectedAmenities []string,
) (decimal.Decimal, error) {
	nights := Nights(checkIn, checkOut)
	if nights <= 0 {
		return decimal.Zero, fmt.Errorf("%w: check-out must be after check-in", ErrInvalidDateRange)
	}

	if err := validateRoomPricing(rt); err != nil {
		return decimal.Zero, err
	}
	if err := checkOccupancy(rt, adults, children); err != nil {
		return decimal.Zero, err
	}

	nightly := rt.BasePrice.Mul(hundred.Sub(rt.DiscountPercentage)).Div(hundred)

	extraAdults := max(0, adults-rt.BaseCapacity)
	extraChildren := max(0, children-max(0, rt.BaseCapacity-adults))
	surcharge := rt.ExtraAdultPrice.Mul(decimal.NewFromInt(int64(extraAdults))).
		Add(rt.ExtraChildPrice.Mul(decimal.NewFromInt(int64(extraChildren))))

	amenities := decimal.Zero
	seen := make(map[string]struct{}, len(selectedAmenities))
	for _, name := range selectedAmenities {
		if _, dup := seen[name]; dup {
			return decimal.Zero, fmt.Errorf("%w: amenity %q selected twice", ErrValidation, name)
		}
		seen[name] = struct{}{}

		a, ok := rt.AmenityByName(name)
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: room type %q does not offer amenity %q", ErrValidation, rt.Name, name)
		}
		if a.Price.IsNegative() {
			return decimal.Zero, fmt.Errorf("%w: amenity %q has a negative price", ErrValidation, name)
		}
		amenities = amenities.Add(a.Price)
	}

	n := decimal.NewFromInt(int64(nights))
	if p.AmenitiesPerNight {
		amenities = amenities.Mul(n)
	}

	total := n.Mul(nightly.Add(surcharge)).Add(amenities)
	return total.Round(p.MinorUnitDigits), nil
}

func validateRoomPricing(rt *models.RoomType) error {
	switch {
	case rt.BasePrice.IsNegative():
		return fmt.Errorf("%w: base price must not be negative", ErrValidation)
	case rt.ExtraAdultPrice.IsNegative(), rt.ExtraChildPrice.IsNegative():
		return fmt.Errorf("%w: extra guest prices must not be negative", ErrValidation)
	case rt.DiscountPercentage.IsNegative(), rt.DiscountPercentage.GreaterThan(hundred):
		return fmt.Errorf("%w: discount percentage must be between 0 and 100", ErrValidation)
	}
	return nil
}

func checkOccupancy(rt *models.RoomType, adults, children int) error {
	if adults < 1 {
		return fmt.Errorf("%w: at least one adult is required", ErrValidation)
	}
	if children < 0 {
		return fmt.Errorf("%w: children must not be negative", ErrValidation)
	}
	if adults+children > rt.MaxOccupancy {
		return fmt.Errorf("%w: %d guests exceed max occupancy %d", ErrOccupancyExceeded, adults+children, rt.MaxOccupancy)
	}
	if adults > rt.MaxAdults {
		return fmt.Errorf("%w: %d adults exceed max %d", ErrOccupancyExceeded, adults, rt.MaxAdults)
	}
	if children > rt.MaxChildren {
		return fmt.Errorf("%w: %d children exceed max %d", ErrOccupancyExceeded, children, rt.MaxChildren)
	}
	if adults+children < rt.MinOccupancy {
		return fmt.Errorf("%w: %d guests below min occupancy %d", ErrValidation, adults+children, rt.MinOccupancy)
	}
	return nil
}
