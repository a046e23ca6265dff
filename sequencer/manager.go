package sequencer

import (
	"context"
	"errors"

	"coldcommand/models"
	"coldcommand/repository"
	"coldcommand/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type CampaignStore interface {
	FindForOrg(ctx context.Context, orgID, campaignID string) (models.Campaign, error)
	UpdateSettings(ctx context.Context, campaignID string, settings models.CampaignSettings) error
}

type SequenceStore interface {
	List(ctx context.Context, campaignID string) ([]models.CampaignSequence, error)
	Replace(ctx context.Context, campaignID string, steps []models.CampaignSequence, expectedVersion *int) (int, error)
}

type AccountStore interface {
	ListForOrg(ctx context.Context, orgID string) ([]models.EmailAccount, error)
}

type LeadCounter interface {
	CountForCampaign(ctx context.Context, campaignID string) (int, error)
}

// Manager owns a campaign's step list and sending configuration.
// Every operation checks that the campaign belongs to orgID first.
type Manager struct {
	campaigns CampaignStore
	sequences SequenceStore
	accounts  AccountStore
	leads     LeadCounter
	log       *logrus.Entry
}

func NewManager(campaigns CampaignStore, sequences SequenceStore, accounts AccountStore, leads LeadCounter, log *logrus.Entry) *Manager {
	if log == nil {
		log = utils.Component("sequencer")
	}
	return &Manager{
		campaigns: campaigns,
		sequences: sequences,
		accounts:  accounts,
		leads:     leads,
		log:       log,
	}
}

// Sequence is a campaign's ordered steps at a given version.
type Sequence struct {
	CampaignID string `json:"campaign_id"`
	Version    int    `json:"version"`
	Steps      []Step `json:"sequences"`
}

// ListSteps returns the campaign's steps ordered by number; zero steps is not an error.
func (m *Manager) ListSteps(ctx context.Context, orgID, campaignID string) (Sequence, error) {
	campaign, err := m.campaign(ctx, orgID, campaignID)
	if err != nil {
		return Sequence{}, err
	}
	return m.load(ctx, campaign)
}

// ReplaceSteps stores inputs as the campaign's whole sequence, numbered by
// position. With expectedVersion set the write fails with ErrConflict if
// someone saved in between.
func (m *Manager) ReplaceSteps(ctx context.Context, orgID, campaignID string, inputs []StepInput, expectedVersion *int) (Sequence, error) {
	if fields := utils.FieldErrors(replaceRequest{Sequences: inputs}); fields != nil {
		return Sequence{}, newValidationError("invalid sequence", fields)
	}
	campaign, err := m.campaign(ctx, orgID, campaignID)
	if err != nil {
		return Sequence{}, err
	}
	return m.save(ctx, campaign.ID, BuildSteps(inputs), expectedVersion)
}

// AppendStep adds an empty step at the end of the stored sequence.
func (m *Manager) AppendStep(ctx context.Context, orgID, campaignID string, expectedVersion *int) (Sequence, error) {
	current, err := m.editable(ctx, orgID, campaignID, expectedVersion)
	if err != nil {
		return Sequence{}, err
	}
	return m.save(ctx, current.CampaignID, AddStep(current.Steps), &current.Version)
}

// RemoveStep deletes step seqNumber and renumbers the remaining steps.
func (m *Manager) RemoveStep(ctx context.Context, orgID, campaignID string, seqNumber int, expectedVersion *int) (Sequence, error) {
	current, err := m.editable(ctx, orgID, campaignID, expectedVersion)
	if err != nil {
		return Sequence{}, err
	}
	steps, ok := DeleteStep(current.Steps, seqNumber)
	if !ok {
		return Sequence{}, newValidationError("invalid step", map[string]string{
			"seq_number": "no step with this number",
		})
	}
	return m.save(ctx, current.CampaignID, steps, &current.Version)
}

// MoveStep moves step from to position to and renumbers.
func (m *Manager) MoveStep(ctx context.Context, orgID, campaignID string, from, to int, expectedVersion *int) (Sequence, error) {
	current, err := m.editable(ctx, orgID, campaignID, expectedVersion)
	if err != nil {
		return Sequence{}, err
	}
	steps, ok := MoveStep(current.Steps, from, to)
	if !ok {
		field := "to"
		if indexOf(current.Steps, from) < 0 {
			field = "seq_number"
		}
		return Sequence{}, newValidationError("invalid step", map[string]string{
			field: "no step with this number",
		})
	}
	return m.save(ctx, current.CampaignID, steps, &current.Version)
}

// Settings returns the campaign's configuration with defaults applied.
func (m *Manager) Settings(ctx context.Context, orgID, campaignID string) (Settings, error) {
	campaign, err := m.campaign(ctx, orgID, campaignID)
	if err != nil {
		return Settings{}, err
	}
	return ResolveSettings(campaign.Settings), nil
}

// UpdateSchedule merges patch into the stored sending schedule.
func (m *Manager) UpdateSchedule(ctx context.Context, orgID, campaignID string, patch SchedulePatch) (Settings, error) {
	campaign, err := m.campaign(ctx, orgID, campaignID)
	if err != nil {
		return Settings{}, err
	}
	next, err := UpdateSchedule(ResolveSchedule(campaign.Settings.Schedule), patch)
	if err != nil {
		return Settings{}, err
	}

	settings := campaign.Settings
	settings.Schedule = &next
	if err := m.writeSettings(ctx, campaign.ID, settings); err != nil {
		return Settings{}, err
	}
	return ResolveSettings(settings), nil
}

// ToggleScheduleDay flips one weekday in the stored schedule.
func (m *Manager) ToggleScheduleDay(ctx context.Context, orgID, campaignID string, day int) (Settings, error) {
	return m.UpdateSchedule(ctx, orgID, campaignID, SchedulePatch{ToggleDays: []int{day}})
}

// UpdateLimits changes daily limits and sending options.
func (m *Manager) UpdateLimits(ctx context.Context, orgID, campaignID string, patch LimitsPatch) (Settings, error) {
	if fields := utils.FieldErrors(patch); fields != nil {
		return Settings{}, newValidationError("invalid limits", fields)
	}
	campaign, err := m.campaign(ctx, orgID, campaignID)
	if err != nil {
		return Settings{}, err
	}
	settings, err := ApplyLimits(campaign.Settings, patch)
	if err != nil {
		return Settings{}, err
	}
	if err := m.writeSettings(ctx, campaign.ID, settings); err != nil {
		return Settings{}, err
	}
	return ResolveSettings(settings), nil
}

// CampaignContext is the campaign metadata shown next to the sequence.
type CampaignContext struct {
	ID                  string                `json:"id"`
	Name                string                `json:"name"`
	Status              models.CampaignStatus `json:"status"`
	SmartleadCampaignID *int64                `json:"smartlead_campaign_id"`
}

type StepSummary struct {
	Step
	Timing string `json:"timing"`
}

// Overview is the pre-launch review of a campaign.
type Overview struct {
	Campaign        CampaignContext  `json:"campaign"`
	Settings        Settings         `json:"settings"`
	ScheduleSummary string           `json:"schedule_summary"`
	Version         int              `json:"version"`
	Steps           []StepSummary    `json:"steps"`
	Capacity        CapacityEstimate `json:"capacity"`
}

// Overview gathers steps, accounts and lead count concurrently and computes a fresh capacity estimate.
func (m *Manager) Overview(ctx context.Context, orgID, campaignID string) (Overview, error) {
	campaign, err := m.campaign(ctx, orgID, campaignID)
	if err != nil {
		return Overview{}, err
	}

	var (
		rows      []models.CampaignSequence
		accounts  []models.EmailAccount
		leadCount int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = m.sequences.List(gctx, campaign.ID)
		return m.persistence("list steps", err)
	})
	g.Go(func() error {
		var err error
		accounts, err = m.accounts.ListForOrg(gctx, orgID)
		return m.persistence("list email accounts", err)
	})
	g.Go(func() error {
		var err error
		leadCount, err = m.leads.CountForCampaign(gctx, campaign.ID)
		return m.persistence("count leads", err)
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	settings := ResolveSettings(campaign.Settings)
	steps := StepsFromModels(rows)
	summaries := make([]StepSummary, len(steps))
	for i, s := range steps {
		summaries[i] = StepSummary{Step: s, Timing: s.Timing()}
	}
	return Overview{
		Campaign: CampaignContext{
			ID:                  campaign.ID,
			Name:                campaign.Name,
			Status:              campaign.Status,
			SmartleadCampaignID: campaign.SmartleadCampaignID,
		},
		Settings:        settings,
		ScheduleSummary: Summary(settings.Schedule),
		Version:         campaign.SequenceVersion,
		Steps:           summaries,
		Capacity:        EstimateCapacity(leadCount, accounts),
	}, nil
}

func (m *Manager) campaign(ctx context.Context, orgID, campaignID string) (models.Campaign, error) {
	campaign, err := m.campaigns.FindForOrg(ctx, orgID, campaignID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Campaign{}, ErrNotFound
	}
	if err != nil {
		return models.Campaign{}, m.persistence("load campaign", err)
	}
	return campaign, nil
}

func (m *Manager) load(ctx context.Context, campaign models.Campaign) (Sequence, error) {
	rows, err := m.sequences.List(ctx, campaign.ID)
	if err != nil {
		return Sequence{}, m.persistence("list steps", err)
	}
	return Sequence{
		CampaignID: campaign.ID,
		Version:    campaign.SequenceVersion,
		Steps:      StepsFromModels(rows),
	}, nil
}

// editable loads the stored sequence for a read-modify-write edit. The
// write that follows is conditioned on the version read here.
func (m *Manager) editable(ctx context.Context, orgID, campaignID string, expectedVersion *int) (Sequence, error) {
	campaign, err := m.campaign(ctx, orgID, campaignID)
	if err != nil {
		return Sequence{}, err
	}
	if expectedVersion != nil && *expectedVersion != campaign.SequenceVersion {
		return Sequence{}, ErrConflict
	}
	return m.load(ctx, campaign)
}

func (m *Manager) save(ctx context.Context, campaignID string, steps []Step, expectedVersion *int) (Sequence, error) {
	version, err := m.sequences.Replace(ctx, campaignID, toModels(campaignID, steps), expectedVersion)
	switch {
	case errors.Is(err, repository.ErrStaleVersion):
		return Sequence{}, ErrConflict
	case errors.Is(err, repository.ErrNotFound):
		return Sequence{}, ErrNotFound
	case err != nil:
		return Sequence{}, m.persistence("replace steps", err)
	}

	m.log.WithFields(logrus.Fields{
		"campaign_id": campaignID,
		"steps":       len(steps),
		"version":     version,
	}).Info("Sequence saved")
	return Sequence{CampaignID: campaignID, Version: version, Steps: steps}, nil
}

func (m *Manager) writeSettings(ctx context.Context, campaignID string, settings models.CampaignSettings) error {
	err := m.campaigns.UpdateSettings(ctx, campaignID, settings)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return m.persistence("update settings", err)
}

func (m *Manager) persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	m.log.WithError(err).WithField("op", op).Error("Store call failed")
	return &PersistenceError{Op: op, Err: err}
}
