package models

import "time"

// Organization is a tenant. Every campaign, lead and email account belongs to one.
type Organization struct {
	ID   string `gorm:"type:uuid;primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Organization) TableName() string { return "organizations" }

// User is an authenticated dashboard user. Accounts are provisioned and
// linked to an organization by the auth service; this service only reads them.
type User struct {
	ID             string  `gorm:"type:uuid;primaryKey" json:"id"`
	Email          string  `gorm:"not null;uniqueIndex" json:"email"`
	Name           string  `json:"name"`
	OrganizationID *string `gorm:"type:uuid;index" json:"organization_id"`
	IsActive       bool    `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
