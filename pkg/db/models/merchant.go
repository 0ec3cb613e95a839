package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Merchant is a storefront on the platform (restaurant, kirana store, print
// shop). Serviceability is judged against its location and radius.
type Merchant struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Name            string         `gorm:"column:name;type:text;not null"`
	Lat             float64        `gorm:"column:lat;not null"`
	Lng             float64        `gorm:"column:lng;not null"`
	ServiceRadiusKm float64        `gorm:"column:service_radius_km;not null;default:0"`
	GSTExempt       bool           `gorm:"column:gst_exempt;not null;default:false"`
	IsOpen          bool           `gorm:"column:is_open;not null"`
	Categories      pq.StringArray `gorm:"column:categories;type:text[]"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
