package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/townbasket/townbasket-backend/pkg/enums"
)

// CartLine persists one catalog item inside a Cart, snapshotting price at
// add time. Position preserves insertion order for display.
type CartLine struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	CartID         uuid.UUID      `gorm:"column:cart_id;type:uuid;not null;index"`
	ItemID         uuid.UUID      `gorm:"column:item_id;type:uuid;not null"`
	MerchantID     uuid.UUID      `gorm:"column:merchant_id;type:uuid;not null"`
	Name           string         `gorm:"column:name;type:text;not null"`
	ImageRef       *string        `gorm:"column:image_ref;type:text"`
	UnitPriceCents int            `gorm:"column:unit_price_cents;not null"`
	ListPriceCents int            `gorm:"column:list_price_cents;not null"`
	Quantity       int            `gorm:"column:quantity;not null"`
	LineType       enums.LineType `gorm:"column:line_type;type:text;not null"`
	Position       int            `gorm:"column:position;not null;default:0"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
