package rewards

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/townbasket/townbasket-backend/pkg/db/models"
)

// Repository exposes persistence operations for points accounts and their
// ledger entries.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a rewards repository bound to the provided DB.
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

// FindAccountByUser loads the user's points account.
func (r *Repository) FindAccountByUser(ctx context.Context, userID uuid.UUID) (*models.PointsAccount, error) {
	var account models.PointsAccount
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// CreateAccount inserts an empty points account.
func (r *Repository) CreateAccount(ctx context.Context, account *models.PointsAccount) (*models.PointsAccount, error) {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}

// AppendEntry records a ledger entry and adjusts the account balance.
func (r *Repository) AppendEntry(ctx context.Context, account *models.PointsAccount, entry *models.PointsEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.AccountID = account.ID

	tx := r.db.WithContext(ctx)
	if err := tx.Create(entry).Error; err != nil {
		return err
	}
	account.Balance += entry.Delta
	return tx.Model(&models.PointsAccount{}).
		Where("id = ?", account.ID).
		Update("balance", account.Balance).Error
}
