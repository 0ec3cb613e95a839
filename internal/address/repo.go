package address

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/townbasket/townbasket-backend/pkg/db/models"
)

// Repository exposes persistence operations for the user's address book.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an address repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new address.
func (r *Repository) Create(ctx context.Context, addr *models.Address) (*models.Address, error) {
	if addr.ID == uuid.Nil {
		addr.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(addr).Error; err != nil {
		return nil, err
	}
	return addr, nil
}

// ListByUser returns the user's addresses, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	var rows []models.Address
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByIDAndUser returns an address restricted to the owner.
func (r *Repository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Address, error) {
	var addr models.Address
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&addr).Error
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

// FindSelected returns the user's currently selected address, if any.
func (r *Repository) FindSelected(ctx context.Context, userID uuid.UUID) (*models.Address, error) {
	var addr models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND selected = ?", userID, true).
		First(&addr).Error
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

// MarkSelected flips selection to the given address, deselecting the rest.
func (r *Repository) MarkSelected(ctx context.Context, id, userID uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Model(&models.Address{}).
		Where("user_id = ?", userID).
		Update("selected", false).Error; err != nil {
		return err
	}
	return tx.Model(&models.Address{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("selected", true).Error
}
