package repository

import (
	"context"
	"testing"
	"time"

	"coldcommand/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// every connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.EmailAccount{},
		&models.OrgLead{},
		&models.Campaign{},
		&models.CampaignSequence{},
		&models.CampaignLead{},
	))
	return db
}

func seedCampaign(t *testing.T, db *gorm.DB, orgID string) models.Campaign {
	t.Helper()
	campaign := models.Campaign{
		OrgID:     orgID,
		Name:      "Q3 outbound",
		UpdatedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.Create(&campaign).Error)
	return campaign
}

func stepRows(subjects ...string) []models.CampaignSequence {
	out := make([]models.CampaignSequence, len(subjects))
	for i, s := range subjects {
		out[i] = models.CampaignSequence{SeqNumber: i + 1, Subject: s, DelayDays: i * 3}
	}
	return out
}

func storedVersion(t *testing.T, db *gorm.DB, campaignID string) int {
	t.Helper()
	var c models.Campaign
	require.NoError(t, db.First(&c, "id = ?", campaignID).Error)
	return c.SequenceVersion
}

func TestSequenceRepositoryReplace(t *testing.T) {
	ctx := context.Background()

	t.Run("bumps version and stores steps in order", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewSequenceRepository(db)
		campaign := seedCampaign(t, db, uuid.NewString())

		version, err := repo.Replace(ctx, campaign.ID, stepRows("Intro", "Bump", "Breakup"), nil)
		require.NoError(t, err)
		assert.Equal(t, 1, version)

		rows, err := repo.List(ctx, campaign.ID)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		for i, row := range rows {
			assert.Equal(t, i+1, row.SeqNumber)
			assert.Equal(t, campaign.ID, row.CampaignID)
		}
		assert.Equal(t, "Breakup", rows[2].Subject)

		version, err = repo.Replace(ctx, campaign.ID, stepRows("Only"), &version)
		require.NoError(t, err)
		assert.Equal(t, 2, version)
		rows, err = repo.List(ctx, campaign.ID)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("empty list clears the sequence", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewSequenceRepository(db)
		campaign := seedCampaign(t, db, uuid.NewString())

		_, err := repo.Replace(ctx, campaign.ID, stepRows("Intro"), nil)
		require.NoError(t, err)
		_, err = repo.Replace(ctx, campaign.ID, nil, nil)
		require.NoError(t, err)

		rows, err := repo.List(ctx, campaign.ID)
		require.NoError(t, err)
		assert.Empty(t, rows)
		assert.NotNil(t, rows)
	})

	t.Run("stale version is rejected without writing", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewSequenceRepository(db)
		campaign := seedCampaign(t, db, uuid.NewString())

		_, err := repo.Replace(ctx, campaign.ID, stepRows("Intro", "Bump"), nil)
		require.NoError(t, err)

		stale := 0
		_, err = repo.Replace(ctx, campaign.ID, stepRows("Other"), &stale)
		assert.ErrorIs(t, err, ErrStaleVersion)

		rows, err := repo.List(ctx, campaign.ID)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
		assert.Equal(t, 1, storedVersion(t, db, campaign.ID))
	})

	t.Run("failed insert keeps the previous sequence", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewSequenceRepository(db)
		campaign := seedCampaign(t, db, uuid.NewString())

		_, err := repo.Replace(ctx, campaign.ID, stepRows("Intro", "Bump"), nil)
		require.NoError(t, err)

		duplicate := []models.CampaignSequence{
			{SeqNumber: 1, Subject: "a"},
			{SeqNumber: 1, Subject: "b"},
		}
		_, err = repo.Replace(ctx, campaign.ID, duplicate, nil)
		require.Error(t, err)

		rows, err := repo.List(ctx, campaign.ID)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Intro", rows[0].Subject)
		assert.Equal(t, 1, storedVersion(t, db, campaign.ID))
	})

	t.Run("unknown campaign", func(t *testing.T) {
		repo := NewSequenceRepository(newTestDB(t))
		_, err := repo.Replace(ctx, uuid.NewString(), stepRows("Intro"), nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCampaignRepositorySettings(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCampaignRepository(db)
	orgID := uuid.NewString()
	campaign := seedCampaign(t, db, orgID)

	t.Run("empty days stay empty", func(t *testing.T) {
		settings := models.CampaignSettings{
			MaxEmailsPerDay: 200,
			Schedule:        &models.SendingSchedule{Days: []int{}, StartHour: "08:00", EndHour: "12:00"},
		}
		require.NoError(t, repo.UpdateSettings(ctx, campaign.ID, settings))

		got, err := repo.FindForOrg(ctx, orgID, campaign.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Settings.Schedule)
		assert.NotNil(t, got.Settings.Schedule.Days)
		assert.Len(t, got.Settings.Schedule.Days, 0)
		assert.Equal(t, 200, got.Settings.MaxEmailsPerDay)
		assert.Equal(t, "08:00", got.Settings.Schedule.StartHour)
	})

	t.Run("unset days stay nil", func(t *testing.T) {
		settings := models.CampaignSettings{Schedule: &models.SendingSchedule{Timezone: "Europe/London"}}
		require.NoError(t, repo.UpdateSettings(ctx, campaign.ID, settings))

		got, err := repo.FindForOrg(ctx, orgID, campaign.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Settings.Schedule)
		assert.Nil(t, got.Settings.Schedule.Days)
	})

	t.Run("unknown campaign", func(t *testing.T) {
		err := repo.UpdateSettings(ctx, uuid.NewString(), models.CampaignSettings{})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCampaignRepositoryOwnership(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCampaignRepository(db)
	orgID := uuid.NewString()
	campaign := seedCampaign(t, db, orgID)

	_, err := repo.FindForOrg(ctx, uuid.NewString(), campaign.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.FindForOrg(ctx, orgID, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, uuid.NewString(), campaign.ID), ErrNotFound)

	_, err = NewSequenceRepository(db).Replace(ctx, campaign.ID, stepRows("Intro"), nil)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, orgID, campaign.ID))

	var remaining int64
	require.NoError(t, db.Model(&models.CampaignSequence{}).Where("campaign_id = ?", campaign.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
}
