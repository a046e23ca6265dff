package repository

import (
	"context"

	"coldcommand/models"

	"gorm.io/gorm"
)

type SequenceRepository struct {
	db *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// List returns the campaign's steps ordered by seq_number.
func (r *SequenceRepository) List(ctx context.Context, campaignID string) ([]models.CampaignSequence, error) {
	steps := []models.CampaignSequence{}
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("seq_number ASC").
		Find(&steps).Error
	return steps, err
}

// Replace swaps the campaign's whole step list in one transaction and returns
// the new sequence version. When expectedVersion is set the write only
// proceeds if the stored version still matches it.
func (r *SequenceRepository) Replace(ctx context.Context, campaignID string, steps []models.CampaignSequence, expectedVersion *int) (int, error) {
	var version int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bump := tx.Model(&models.Campaign{}).Where("id = ?", campaignID)
		if expectedVersion != nil {
			bump = bump.Where("sequence_version = ?", *expectedVersion)
		}
		result := bump.Update("sequence_version", gorm.Expr("sequence_version + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			if expectedVersion != nil {
				return ErrStaleVersion
			}
			return ErrNotFound
		}

		if err := tx.Model(&models.Campaign{}).
			Where("id = ?", campaignID).
			Select("sequence_version").
			Scan(&version).Error; err != nil {
			return err
		}

		if err := tx.Where("campaign_id = ?", campaignID).Delete(&models.CampaignSequence{}).Error; err != nil {
			return err
		}

		if len(steps) == 0 {
			return nil
		}
		rows := make([]models.CampaignSequence, len(steps))
		for i, step := range steps {
			rows[i] = models.CampaignSequence{
				CampaignID: campaignID,
				SeqNumber:  step.SeqNumber,
				Subject:    step.Subject,
				Body:       step.Body,
				DelayDays:  step.DelayDays,
			}
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return 0, err
	}
	return version, nil
}
