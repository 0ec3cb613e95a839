package promo

import (
	"context"

	"gorm.io/gorm"

	"github.com/townbasket/townbasket-backend/pkg/db/models"
)

// Repository exposes read operations over promo codes.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a promo repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByCode loads a promo by its upper-cased code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Promo, error) {
	var promo models.Promo
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&promo).Error; err != nil {
		return nil, err
	}
	return &promo, nil
}

// ListActive returns currently usable promos for display.
func (r *Repository) ListActive(ctx context.Context) ([]models.Promo, error) {
	var rows []models.Promo
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
