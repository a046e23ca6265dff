package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrgLead is a prospect owned by an organization. Leads are imported by the
// prospecting service; campaigns only enroll them.
type OrgLead struct {
	ID    string `gorm:"type:uuid;primaryKey" json:"id"`
	OrgID string `gorm:"type:uuid;not null;index" json:"org_id"`

	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	FullName            string `json:"full_name"`
	Email               string `json:"email"`
	LinkedinURL         string `json:"linkedin_url"`
	LatestTitle         string `json:"latest_title"`
	LatestCompany       string `json:"latest_company"`
	LatestCompanyDomain string `json:"latest_company_domain"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (OrgLead) TableName() string { return "org_leads" }

func (l *OrgLead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// EnrolledLead is a campaign enrollment joined with the lead's profile.
// Profile fields are nil when the lead row no longer exists.
type EnrolledLead struct {
	LeadID              string    `json:"lead_id"`
	AddedAt             time.Time `json:"added_at"`
	FirstName           *string   `json:"first_name,omitempty"`
	LastName            *string   `json:"last_name,omitempty"`
	FullName            *string   `json:"full_name,omitempty"`
	LinkedinURL         *string   `json:"linkedin_url,omitempty"`
	LatestTitle         *string   `json:"latest_title,omitempty"`
	LatestCompany       *string   `json:"latest_company,omitempty"`
	LatestCompanyDomain *string   `json:"latest_company_domain,omitempty"`
}
