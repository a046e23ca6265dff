package repository

import (
	"context"
	"time"

	"coldcommand/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// CountForCampaign counts the leads enrolled in a campaign.
func (r *LeadRepository) CountForCampaign(ctx context.Context, campaignID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CampaignLead{}).
		Where("campaign_id = ?", campaignID).
		Count(&count).Error
	return int(count), err
}

// ListForCampaign returns the campaign's leads, most recently added first.
func (r *LeadRepository) ListForCampaign(ctx context.Context, campaignID string) ([]models.EnrolledLead, error) {
	leads := []models.EnrolledLead{}
	err := r.db.WithContext(ctx).
		Table("campaign_leads AS cl").
		Select("cl.lead_id, cl.added_at, ol.first_name, ol.last_name, ol.full_name, " +
			"ol.linkedin_url, ol.latest_title, ol.latest_company, ol.latest_company_domain").
		Joins("LEFT JOIN org_leads ol ON ol.id = cl.lead_id").
		Where("cl.campaign_id = ?", campaignID).
		Order("cl.added_at DESC").
		Scan(&leads).Error
	return leads, err
}

// Add enrolls the leads that belong to orgID and returns how many that was.
// Leads already enrolled count as added; unknown or foreign ids are ignored.
func (r *LeadRepository) Add(ctx context.Context, orgID, campaignID string, leadIDs []string) (int, error) {
	ids := uniqueIDs(leadIDs)
	if len(ids) == 0 {
		return 0, nil
	}

	var added int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owned []string
		if err := tx.Model(&models.OrgLead{}).
			Where("id IN ? AND org_id = ?", ids, orgID).
			Pluck("id", &owned).Error; err != nil {
			return err
		}
		if len(owned) == 0 {
			return nil
		}

		rows := make([]models.CampaignLead, len(owned))
		for i, id := range owned {
			rows[i] = models.CampaignLead{CampaignID: campaignID, LeadID: id}
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			return err
		}
		added = len(owned)
		return touchCampaign(tx, campaignID)
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// Remove unenrolls leads and returns the number of enrollments deleted.
func (r *LeadRepository) Remove(ctx context.Context, campaignID string, leadIDs []string) (int, error) {
	ids := uniqueIDs(leadIDs)
	if len(ids) == 0 {
		return 0, nil
	}

	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("campaign_id = ? AND lead_id IN ?", campaignID, ids).
			Delete(&models.CampaignLead{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected
		return touchCampaign(tx, campaignID)
	})
	if err != nil {
		return 0, err
	}
	return int(removed), nil
}

func touchCampaign(tx *gorm.DB, campaignID string) error {
	return tx.Model(&models.Campaign{}).
		Where("id = ?", campaignID).
		Update("updated_at", time.Now()).Error
}

// uniqueIDs drops duplicates and anything that is not a uuid.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !validID(id) {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
