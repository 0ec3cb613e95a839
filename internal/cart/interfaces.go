package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/townbasket/townbasket-backend/pkg/db/models"
	"github.com/townbasket/townbasket-backend/pkg/enums"
)

// CartRepository defines the persistence surface required by the cart service.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	Update(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	ReplaceLines(ctx context.Context, cartID uuid.UUID, lines []models.CartLine) error
	UpdateStatus(ctx context.Context, id, userID uuid.UUID, status enums.CartStatus) error
}
