package models

import (
	"time"

	"github.com/google/uuid"
)

// PointsEntry is one movement on a points account. Delta is negative for
// redemptions and positive for credits; the running balance lives on the
// account row.
type PointsEntry struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	AccountID uuid.UUID  `gorm:"column:account_id;type:uuid;not null;index"`
	Delta     int        `gorm:"column:delta;not null"`
	Reason    string     `gorm:"column:reason;type:text;not null"`
	OrderID   *uuid.UUID `gorm:"column:order_id;type:uuid"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}
