package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/townbasket/townbasket-backend/pkg/db/models"
	pkgerrors "github.com/townbasket/townbasket-backend/pkg/errors"
)

// Service supplies catalog items; the cart trusts its pricing as-is.
type Service interface {
	GetItem(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error)
	Menu(ctx context.Context, merchantID uuid.UUID) ([]models.CatalogItem, error)
}

type service struct {
	repo *Repository
}

// NewService builds the catalog service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// GetItem loads one item. Callers decide how to treat inactive items.
func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) Menu(ctx context.Context, merchantID uuid.UUID) ([]models.CatalogItem, error) {
	if merchantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchant id is required")
	}
	rows, err := s.repo.ListActiveByMerchant(ctx, merchantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list menu")
	}
	return rows, nil
}
