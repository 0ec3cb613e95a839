package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is one entry in a user's address book. At most one address per
// user carries selected=true; the selected address feeds delivery quotes.
type Address struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Label      string    `gorm:"column:label;type:text;not null"`
	Line1      string    `gorm:"column:line1;type:text;not null"`
	Line2      *string   `gorm:"column:line2;type:text"`
	City       string    `gorm:"column:city;type:text;not null"`
	State      string    `gorm:"column:state;type:text;not null"`
	PostalCode string    `gorm:"column:postal_code;type:text;not null"`
	Lat        float64   `gorm:"column:lat;not null"`
	Lng        float64   `gorm:"column:lng;not null"`
	Selected   bool      `gorm:"column:selected;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
