package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/townbasket/townbasket-backend/pkg/enums"
)

// Order snapshots a checked-out cart with its full fee breakdown. Totals are
// frozen at placement; the cart that produced them is marked converted.
type Order struct {
	ID                  uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	UserID              uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	MerchantID          uuid.UUID           `gorm:"column:merchant_id;type:uuid;not null"`
	AddressID           uuid.UUID           `gorm:"column:address_id;type:uuid;not null"`
	Status              enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'placed'"`
	PaymentMethod       enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	SubtotalCents       int                 `gorm:"column:subtotal_cents;not null"`
	DeliveryFeeCents    int                 `gorm:"column:delivery_fee_cents;not null"`
	HandlingFeeCents    int                 `gorm:"column:handling_fee_cents;not null;default:0"`
	GSTCents            int                 `gorm:"column:gst_cents;not null;default:0"`
	PromoCode           *string             `gorm:"column:promo_code;type:text"`
	PromoDiscountCents  int                 `gorm:"column:promo_discount_cents;not null;default:0"`
	PointsRedeemed      int                 `gorm:"column:points_redeemed;not null;default:0"`
	PointsDiscountCents int                 `gorm:"column:points_discount_cents;not null;default:0"`
	TipCents            int                 `gorm:"column:tip_cents;not null;default:0"`
	DonationCents       int                 `gorm:"column:donation_cents;not null;default:0"`
	TotalCents          int                 `gorm:"column:total_cents;not null"`
	DistanceKm          float64             `gorm:"column:distance_km;not null;default:0"`
	Note                *string             `gorm:"column:note;type:text"`
	Lines               []OrderLine         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
