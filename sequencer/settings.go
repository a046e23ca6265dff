package sequencer

import (
	"coldcommand/models"
	"coldcommand/utils"
)

const (
	DefaultMaxEmailsPerDay   = 1000
	DefaultMaxNewLeadsPerDay = 1000
)

// Settings is the fully resolved campaign configuration; every field is set.
type Settings struct {
	MaxEmailsPerDay   int                    `json:"max_emails_per_day"`
	MaxNewLeadsPerDay int                    `json:"max_new_leads_per_day"`
	Schedule          models.SendingSchedule `json:"schedule"`
	PlainText         bool                   `json:"plain_text"`
	OpenTracking      bool                   `json:"open_tracking"`
	UnsubscribeLink   bool                   `json:"unsubscribe_link"`
}

// ResolveSettings merges the stored settings blob over the defaults.
func ResolveSettings(stored models.CampaignSettings) Settings {
	out := Settings{
		MaxEmailsPerDay:   DefaultMaxEmailsPerDay,
		MaxNewLeadsPerDay: DefaultMaxNewLeadsPerDay,
		Schedule:          ResolveSchedule(stored.Schedule),
		UnsubscribeLink:   true,
	}
	if stored.MaxEmailsPerDay > 0 {
		out.MaxEmailsPerDay = stored.MaxEmailsPerDay
	}
	if stored.MaxNewLeadsPerDay > 0 {
		out.MaxNewLeadsPerDay = stored.MaxNewLeadsPerDay
	}
	if stored.PlainText != nil {
		out.PlainText = *stored.PlainText
	}
	if stored.OpenTracking != nil {
		out.OpenTracking = *stored.OpenTracking
	}
	if stored.UnsubscribeLink != nil {
		out.UnsubscribeLink = *stored.UnsubscribeLink
	}
	return out
}

// LimitsPatch updates throughput limits and sending options; nil fields are left alone.
type LimitsPatch struct {
	MaxEmailsPerDay   *int  `json:"max_emails_per_day" validate:"omitempty,min=1"`
	MaxNewLeadsPerDay *int  `json:"max_new_leads_per_day" validate:"omitempty,min=1"`
	PlainText         *bool `json:"plain_text"`
	OpenTracking      *bool `json:"open_tracking"`
	UnsubscribeLink   *bool `json:"unsubscribe_link"`
}

// ApplyLimits validates patch and writes it into a copy of stored.
func ApplyLimits(stored models.CampaignSettings, patch LimitsPatch) (models.CampaignSettings, error) {
	if fields := utils.FieldErrors(patch); fields != nil {
		return stored, newValidationError("invalid limits", fields)
	}
	if patch.MaxEmailsPerDay != nil {
		stored.MaxEmailsPerDay = *patch.MaxEmailsPerDay
	}
	if patch.MaxNewLeadsPerDay != nil {
		stored.MaxNewLeadsPerDay = *patch.MaxNewLeadsPerDay
	}
	if patch.PlainText != nil {
		stored.PlainText = utils.Pointer(*patch.PlainText)
	}
	if patch.OpenTracking != nil {
		stored.OpenTracking = utils.Pointer(*patch.OpenTracking)
	}
	if patch.UnsubscribeLink != nil {
		stored.UnsubscribeLink = utils.Pointer(*patch.UnsubscribeLink)
	}
	return stored, nil
}
