package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/townbasket/townbasket-backend/pkg/enums"
)

// Promo is a platform-level promo code. Value is a percentage (0-100) for
// percentage promos and cents for fixed promos.
type Promo struct {
	ID               uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	Code             string               `gorm:"column:code;type:text;not null;uniqueIndex"`
	Title            string               `gorm:"column:title;type:text;not null"`
	ValueType        enums.PromoValueType `gorm:"column:value_type;type:text;not null"`
	Value            int                  `gorm:"column:value;not null"`
	MaxDiscountCents *int                 `gorm:"column:max_discount_cents"`
	MinSubtotalCents int                  `gorm:"column:min_subtotal_cents;not null;default:0"`
	Active           bool                 `gorm:"column:active;not null"`
	ExpiresAt        *time.Time           `gorm:"column:expires_at"`
	CreatedAt        time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
