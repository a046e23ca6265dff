package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CampaignStatus is the lifecycle state of a campaign. It is moved by the
// launch/pause actions and the status worker, never by sequence edits.
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignStatusDraft, CampaignStatusActive, CampaignStatusPaused, CampaignStatusCompleted:
		return true
	}
	return false
}

// Campaign represents an outbound email campaign owned by an organization
type Campaign struct {
	ID    string `gorm:"type:uuid;primaryKey" json:"id"`
	OrgID string `gorm:"type:uuid;not null;index" json:"org_id"`

	Name   string         `gorm:"not null" json:"name"`
	Status CampaignStatus `gorm:"not null;default:'draft'" json:"status"`

	// Schedule, limits and launch metadata live in one JSON column
	Settings CampaignSettings `gorm:"type:jsonb;serializer:json" json:"settings"`

	// Sending platform link
	SmartleadCampaignID *int64 `gorm:"index" json:"smartlead_campaign_id"`

	// Bumped by every sequence replace; exposed as the sequence ETag
	SequenceVersion int `gorm:"not null;default:0" json:"sequence_version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Sequences []CampaignSequence `gorm:"foreignKey:CampaignID;constraint:OnDelete:CASCADE" json:"-"`
	Leads     []CampaignLead     `gorm:"foreignKey:CampaignID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Campaign) TableName() string { return "campaigns" }

func (c *Campaign) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = CampaignStatusDraft
	}
	return nil
}

// CampaignLead joins leads to campaigns
type CampaignLead struct {
	CampaignID string    `gorm:"type:uuid;primaryKey" json:"campaign_id"`
	LeadID     string    `gorm:"type:uuid;primaryKey" json:"lead_id"`
	AddedAt    time.Time `gorm:"autoCreateTime" json:"added_at"`
}

func (CampaignLead) TableName() string { return "campaign_leads" }
