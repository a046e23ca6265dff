package repository

import (
	"context"
	"errors"

	"coldcommand/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID loads a user by primary key.
func (r *UserRepository) FindByID(ctx context.Context, userID string) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrNotFound
	}
	return user, err
}

// OrganizationForUser resolves the organization an active user belongs to.
func (r *UserRepository) OrganizationForUser(ctx context.Context, userID string) (string, error) {
	if !validID(userID) {
		return "", ErrNotFound
	}
	user, err := r.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if !user.IsActive || user.OrganizationID == nil || *user.OrganizationID == "" {
		return "", ErrNotFound
	}
	return *user.OrganizationID, nil
}
