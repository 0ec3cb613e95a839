package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/townbasket/townbasket-backend/pkg/enums"
	"github.com/townbasket/townbasket-backend/pkg/types"
)

// Cart persists the buyer's active cart. Exactly one active cart exists per
// user; merchant_id is null while the cart is empty.
type Cart struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	UserID         uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	MerchantID     *uuid.UUID            `gorm:"column:merchant_id;type:uuid"`
	Status         enums.CartStatus      `gorm:"column:status;type:text;not null;default:'active'"`
	PromoCode      *string               `gorm:"column:promo_code;type:text"`
	PointsToRedeem int                   `gorm:"column:points_to_redeem;not null;default:0"`
	TipCents       int                   `gorm:"column:tip_cents;not null;default:0"`
	DonationCents  int                   `gorm:"column:donation_cents;not null;default:0"`
	Note           *string               `gorm:"column:note;type:text"`
	PendingReplace *types.PendingReplace `gorm:"column:pending_replace;type:jsonb;serializer:json"`
	Revision       int64                 `gorm:"column:revision;not null;default:0"`

	// Last successfully fetched delivery quote, kept so a provider outage
	// degrades to a stale summary instead of an error.
	LastDeliveryFeeCents *int     `gorm:"column:last_delivery_fee_cents"`
	LastDistanceKm       *float64 `gorm:"column:last_distance_km"`
	LastServiceable      *bool    `gorm:"column:last_serviceable"`

	Lines     []CartLine `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
