package merchants

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/townbasket/townbasket-backend/pkg/db/models"
)

// Repository exposes read operations over merchants.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a merchant repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads one merchant.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&merchant).Error; err != nil {
		return nil, err
	}
	return &merchant, nil
}

// ListOpen returns open merchants, optionally filtered by category.
func (r *Repository) ListOpen(ctx context.Context, category string) ([]models.Merchant, error) {
	q := r.db.WithContext(ctx).Where("is_open = ?", true)
	if category != "" {
		q = q.Where("? = ANY(categories)", category)
	}
	var rows []models.Merchant
	if err := q.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
