package models

import (
	"strings"
	"time"
)

// HotelSetting is a single-row table holding the property's public identity.
type HotelSetting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255" json:"name"`
	Address   string    `gorm:"type:text" json:"address"`
	Phone     string    `gorm:"size:50" json:"phone"`
	Email     string    `gorm:"size:150" json:"email"`
	Website   string    `gorm:"size:255" json:"website"`
	Logo      string    `gorm:"size:255" json:"logo"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubjectPrefix is prepended to guest e-mail subjects, empty when no name is configured.
func (h HotelSetting) SubjectPrefix() string {
	name := strings.TrimSpace(h.Name)
	if name == "" {
		return ""
	}
	return "[" + name + "] "
}
