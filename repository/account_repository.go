package repository

import (
	"context"

	"coldcommand/models"

	"gorm.io/gorm"
)

type EmailAccountRepository struct {
	db *gorm.DB
}

func NewEmailAccountRepository(db *gorm.DB) *EmailAccountRepository {
	return &EmailAccountRepository{db: db}
}

// ListForOrg returns the organization's sending accounts, oldest first.
func (r *EmailAccountRepository) ListForOrg(ctx context.Context, orgID string) ([]models.EmailAccount, error) {
	accounts := []models.EmailAccount{}
	err := r.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("created_at ASC").
		Find(&accounts).Error
	return accounts, err
}
