package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/townbasket/townbasket-backend/pkg/enums"
)

// CatalogItem is one purchasable entry in a merchant's menu/catalog. The
// cart engine trusts its pricing as-is; list_price_cents is the pre-discount
// strike-through price and is never below unit_price_cents.
type CatalogItem struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	MerchantID     uuid.UUID      `gorm:"column:merchant_id;type:uuid;not null;index"`
	Name           string         `gorm:"column:name;type:text;not null"`
	ImageRef       *string        `gorm:"column:image_ref;type:text"`
	UnitPriceCents int            `gorm:"column:unit_price_cents;not null"`
	ListPriceCents int            `gorm:"column:list_price_cents;not null"`
	LineType       enums.LineType `gorm:"column:line_type;type:text;not null"`
	IsActive       bool           `gorm:"column:is_active;not null"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
