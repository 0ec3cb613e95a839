package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/townbasket/townbasket-backend/pkg/enums"
)

// OrderLine freezes one cart line at checkout.
type OrderLine struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	OrderID        uuid.UUID      `gorm:"column:order_id;type:uuid;not null;index"`
	ItemID         uuid.UUID      `gorm:"column:item_id;type:uuid;not null"`
	Name           string         `gorm:"column:name;type:text;not null"`
	UnitPriceCents int            `gorm:"column:unit_price_cents;not null"`
	ListPriceCents int            `gorm:"column:list_price_cents;not null"`
	Quantity       int            `gorm:"column:quantity;not null"`
	LineType       enums.LineType `gorm:"column:line_type;type:text;not null"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
}
