package models

import "time"

// CampaignSettings is the typed form of the campaign settings blob.
// Zero values mean "not set"; defaults are merged on read by the sequencer.
type CampaignSettings struct {
	MaxEmailsPerDay   int              `json:"max_emails_per_day,omitempty"`
	MaxNewLeadsPerDay int              `json:"max_new_leads_per_day,omitempty"`
	Schedule          *SendingSchedule `json:"schedule,omitempty"`

	PlainText       *bool `json:"plain_text,omitempty"`
	OpenTracking    *bool `json:"open_tracking,omitempty"`
	UnsubscribeLink *bool `json:"unsubscribe_link,omitempty"`

	// Launch metadata
	LaunchedAt *time.Time `json:"launched_at,omitempty"`
	LaunchType string     `json:"launch_type,omitempty"` // now, scheduled
}

// SendingSchedule is the weekly window in which a campaign may send.
// Days uses Sunday=0..Saturday=6. A nil Days means "use the default";
// an empty non-nil Days means the campaign never sends.
type SendingSchedule struct {
	Days      []int  `json:"days"`
	StartHour string `json:"start_hour,omitempty"` // HH:MM, 24-hour
	EndHour   string `json:"end_hour,omitempty"`   // HH:MM, 24-hour
	Timezone  string `json:"timezone,omitempty"`   // IANA name
}
