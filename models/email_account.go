package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const EmailAccountStatusActive = "active"

// EmailAccount is a sending mailbox connected to the organization
type EmailAccount struct {
	ID    string `gorm:"type:uuid;primaryKey" json:"id"`
	OrgID string `gorm:"type:uuid;not null;index" json:"org_id"`

	Email    string `gorm:"not null" json:"email"`
	FromName string `json:"from_name"`

	// Usage limits
	DailyLimit int    `gorm:"default:0" json:"daily_limit"`
	Status     string `gorm:"default:'active'" json:"status"` // active, paused, warming, disconnected

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (EmailAccount) TableName() string { return "email_accounts" }

func (a *EmailAccount) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// IsActive reports whether the account contributes to sending capacity.
func (a EmailAccount) IsActive() bool {
	return a.Status == EmailAccountStatusActive
}
