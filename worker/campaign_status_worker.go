package worker

import (
	"context"
	"time"

	"coldcommand/models"
	"coldcommand/smartlead"
	"coldcommand/utils"

	"github.com/sirupsen/logrus"
)

type LinkedCampaignStore interface {
	ListLinkedByStatus(ctx context.Context, status models.CampaignStatus) ([]models.Campaign, error)
	UpdateStatus(ctx context.Context, campaignID string, status models.CampaignStatus) error
}

type CampaignStatusSource interface {
	GetCampaign(ctx context.Context, id int64) (*smartlead.Campaign, error)
}

// CampaignStatusWorker mirrors SmartLead's view of running campaigns into
// local campaign status.
type CampaignStatusWorker struct {
	Campaigns    LinkedCampaignStore
	Platform     CampaignStatusSource
	Interval     time.Duration
	StartupDelay time.Duration
	Logger       *logrus.Entry
}

func NewCampaignStatusWorker(campaigns LinkedCampaignStore, platform CampaignStatusSource, interval time.Duration, logger *logrus.Entry) *CampaignStatusWorker {
	return &CampaignStatusWorker{
		Campaigns:    campaigns,
		Platform:     platform,
		Interval:     interval,
		StartupDelay: 10 * time.Second,
		Logger:       logger,
	}
}

func (w *CampaignStatusWorker) Start(ctx context.Context) {
	// Initial delay to let the server start up
	select {
	case <-ctx.Done():
		return
	case <-time.After(w.StartupDelay):
	}

	w.Logger.WithField("interval", w.Interval.String()).Info("Campaign status worker started")

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		w.SyncOnce(ctx)
		select {
		case <-ctx.Done():
			w.Logger.Info("Campaign status worker shutting down...")
			return
		case <-ticker.C:
		}
	}
}

// SyncOnce checks every active linked campaign and returns how many changed.
func (w *CampaignStatusWorker) SyncOnce(ctx context.Context) int {
	campaigns, err := w.Campaigns.ListLinkedByStatus(ctx, models.CampaignStatusActive)
	if err != nil {
		w.Logger.WithError(err).Error("Error fetching active campaigns")
		return 0
	}

	changed := 0
	for _, campaign := range campaigns {
		if ctx.Err() != nil {
			return changed
		}
		remote, err := w.Platform.GetCampaign(ctx, *campaign.SmartleadCampaignID)
		if err != nil {
			w.Logger.WithError(err).WithField("campaign_id", campaign.ID).Warn("Error fetching SmartLead campaign")
			continue
		}

		next, ok := localStatus(remote.Status)
		if !ok || next == campaign.Status {
			continue
		}
		if err := w.Campaigns.UpdateStatus(ctx, campaign.ID, next); err != nil {
			utils.LogError("campaign_status_sync_failed", err, map[string]interface{}{
				"campaign_id": campaign.ID,
				"status":      next,
			})
			continue
		}
		utils.LogEvent("campaign_status_synced", map[string]interface{}{
			"campaign_id": campaign.ID,
			"from":        campaign.Status,
			"to":          next,
		})
		changed++
	}
	return changed
}

func localStatus(remote string) (models.CampaignStatus, bool) {
	switch remote {
	case smartlead.StatusCompleted:
		return models.CampaignStatusCompleted, true
	case smartlead.StatusPaused, smartlead.StatusStopped:
		return models.CampaignStatusPaused, true
	case smartlead.StatusActive, smartlead.StatusStart:
		return models.CampaignStatusActive, true
	}
	return "", false
}
