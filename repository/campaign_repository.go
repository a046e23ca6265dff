package repository

import (
	"context"
	"errors"
	"time"

	"coldcommand/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CampaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// FindForOrg loads a campaign only if it belongs to orgID.
func (r *CampaignRepository) FindForOrg(ctx context.Context, orgID, campaignID string) (models.Campaign, error) {
	if !validID(campaignID) || !validID(orgID) {
		return models.Campaign{}, ErrNotFound
	}
	var campaign models.Campaign
	err := r.db.WithContext(ctx).
		Where("id = ? AND org_id = ?", campaignID, orgID).
		First(&campaign).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Campaign{}, ErrNotFound
	}
	return campaign, err
}

// ListForOrg returns the organization's campaigns, newest first.
func (r *CampaignRepository) ListForOrg(ctx context.Context, orgID string) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := r.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("created_at DESC").
		Find(&campaigns).Error
	return campaigns, err
}

func (r *CampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	return r.db.WithContext(ctx).Create(campaign).Error
}

// Update writes the mutable campaign columns. Sequence version is owned by the sequence repository.
func (r *CampaignRepository) Update(ctx context.Context, campaign *models.Campaign) error {
	campaign.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.Campaign{}).
		Where("id = ? AND org_id = ?", campaign.ID, campaign.OrgID).
		Select("name", "status", "settings", "smartlead_campaign_id", "updated_at").
		Updates(campaign)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateSettings replaces the settings blob of one campaign.
func (r *CampaignRepository) UpdateSettings(ctx context.Context, campaignID string, settings models.CampaignSettings) error {
	result := r.db.WithContext(ctx).
		Model(&models.Campaign{ID: campaignID}).
		Select("settings", "updated_at").
		Updates(&models.Campaign{Settings: settings, UpdatedAt: time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus sets the status of a campaign regardless of organization; used by the status worker.
func (r *CampaignRepository) UpdateStatus(ctx context.Context, campaignID string, status models.CampaignStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Campaign{}).
		Where("id = ?", campaignID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

// Delete removes the campaign and, through cascades, its steps and lead links.
func (r *CampaignRepository) Delete(ctx context.Context, orgID, campaignID string) error {
	if !validID(campaignID) || !validID(orgID) {
		return ErrNotFound
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var campaign models.Campaign
		if err := tx.Where("id = ? AND org_id = ?", campaignID, orgID).First(&campaign).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		tables := []interface{}{
			&models.CampaignSequence{},
			&models.CampaignLead{},
		}
		for _, table := range tables {
			if err := tx.Where("campaign_id = ?", campaign.ID).Delete(table).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&campaign).Error
	})
}

// ListLinkedByStatus returns campaigns in status that are linked to the sending platform.
func (r *CampaignRepository) ListLinkedByStatus(ctx context.Context, status models.CampaignStatus) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := r.db.WithContext(ctx).
		Where("status = ? AND smartlead_campaign_id IS NOT NULL", status).
		Find(&campaigns).Error
	return campaigns, err
}

// validID guards uuid columns; postgres rejects malformed ids with a syntax error instead of no rows.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
