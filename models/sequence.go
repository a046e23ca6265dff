package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CampaignSequence is one email step in a campaign's outreach sequence
type CampaignSequence struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	CampaignID string `gorm:"type:uuid;not null;uniqueIndex:idx_campaign_seq" json:"campaign_id"`

	SeqNumber int    `gorm:"not null;uniqueIndex:idx_campaign_seq" json:"seq_number"`
	Subject   string `gorm:"type:text" json:"subject"`
	Body      string `gorm:"type:text" json:"body"`
	DelayDays int    `gorm:"not null;default:0" json:"delay_days"` // Days after the previous step

	CreatedAt time.Time `json:"created_at"`
}

func (CampaignSequence) TableName() string { return "campaign_sequences" }

func (s *CampaignSequence) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// IsReply reports whether the step is sent as a threaded reply to the first email.
func (s CampaignSequence) IsReply() bool {
	return s.SeqNumber > 1
}
