package address

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/townbasket/townbasket-backend/pkg/db/models"
	pkgerrors "github.com/townbasket/townbasket-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the user's address book.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Address, error)
	Select(ctx context.Context, userID, addressID uuid.UUID) error
	Selected(ctx context.Context, userID uuid.UUID) (*models.Address, error)
}

// CreateInput carries a new address book entry.
type CreateInput struct {
	Label      string
	Line1      string
	Line2      *string
	City       string
	State      string
	PostalCode string
	Lat        float64
	Lng        float64
	Selected   bool
}

type service struct {
	repo *Repository
	tx   txRunner
}

// NewService builds the address book service.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	return rows, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if strings.TrimSpace(input.Line1) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address line1 is required")
	}
	if strings.TrimSpace(input.City) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "city is required")
	}
	if input.Lat == 0 && input.Lng == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address location is required")
	}

	label := strings.TrimSpace(input.Label)
	if label == "" {
		label = "Home"
	}

	addr := &models.Address{
		UserID:     userID,
		Label:      label,
		Line1:      strings.TrimSpace(input.Line1),
		Line2:      input.Line2,
		City:       strings.TrimSpace(input.City),
		State:      strings.TrimSpace(input.State),
		PostalCode: strings.TrimSpace(input.PostalCode),
		Lat:        input.Lat,
		Lng:        input.Lng,
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		created, err := txRepo.Create(ctx, addr)
		if err != nil {
			return err
		}
		if input.Selected {
			return txRepo.MarkSelected(ctx, created.ID, userID)
		}
		return nil
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
	}
	if input.Selected {
		addr.Selected = true
	}
	return addr, nil
}

func (s *service) Select(ctx context.Context, userID, addressID uuid.UUID) error {
	if userID == uuid.Nil || addressID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and address id are required")
	}
	if _, err := s.repo.FindByIDAndUser(ctx, addressID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).MarkSelected(ctx, addressID, userID)
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "select address")
	}
	return nil
}

// Selected returns the chosen delivery address, or nil when none is selected.
func (s *service) Selected(ctx context.Context, userID uuid.UUID) (*models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	addr, err := s.repo.FindSelected(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load selected address")
	}
	return addr, nil
}
