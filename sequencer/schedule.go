package sequencer

import (
	"sort"
	"strconv"
	"strings"

	"coldcommand/models"
	"coldcommand/utils"
)

const (
	DefaultStartHour = "09:00"
	DefaultEndHour   = "17:00"
	DefaultTimezone  = "America/New_York"
)

// Timezone is a selectable sending timezone.
type Timezone struct {
	ID    string `json:"value"`
	Label string `json:"label"`
	Short string `json:"short"`
}

// SupportedTimezones is the closed set of timezones a schedule may use.
var SupportedTimezones = []Timezone{
	{"America/New_York", "Eastern Time (ET)", "Eastern"},
	{"America/Chicago", "Central Time (CT)", "Central"},
	{"America/Denver", "Mountain Time (MT)", "Mountain"},
	{"America/Los_Angeles", "Pacific Time (PT)", "Pacific"},
	{"America/Anchorage", "Alaska Time (AKT)", "Alaska"},
	{"Pacific/Honolulu", "Hawaii Time (HT)", "Hawaii"},
	{"Europe/London", "London (GMT)", "GMT"},
	{"Europe/Paris", "Central European (CET)", "CET"},
	{"Asia/Tokyo", "Japan (JST)", "JST"},
	{"Asia/Shanghai", "China (CST)", "CST"},
	{"Australia/Sydney", "Sydney (AEST)", "AEST"},
}

var dayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func init() {
	utils.RegisterValidation("sendtz", IsSupportedTimezone)
}

func IsSupportedTimezone(id string) bool {
	_, ok := lookupTimezone(id)
	return ok
}

// TimezoneLabel returns the short display name, or id itself when unknown.
func TimezoneLabel(id string) string {
	if tz, ok := lookupTimezone(id); ok {
		return tz.Short
	}
	return id
}

func lookupTimezone(id string) (Timezone, bool) {
	for _, tz := range SupportedTimezones {
		if tz.ID == id {
			return tz, true
		}
	}
	return Timezone{}, false
}

// DefaultSchedule is weekdays, 09:00-17:00 US Eastern.
func DefaultSchedule() models.SendingSchedule {
	return models.SendingSchedule{
		Days:      []int{1, 2, 3, 4, 5},
		StartHour: DefaultStartHour,
		EndHour:   DefaultEndHour,
		Timezone:  DefaultTimezone,
	}
}

// ResolveSchedule fills unset fields of a stored schedule with the defaults.
// A stored empty day list is kept; only a missing one is defaulted.
func ResolveSchedule(stored *models.SendingSchedule) models.SendingSchedule {
	out := DefaultSchedule()
	if stored == nil {
		return out
	}
	if stored.Days != nil {
		out.Days = normalizeDays(stored.Days)
	}
	if stored.StartHour != "" {
		out.StartHour = stored.StartHour
	}
	if stored.EndHour != "" {
		out.EndHour = stored.EndHour
	}
	if stored.Timezone != "" {
		out.Timezone = stored.Timezone
	}
	return out
}

// SchedulePatch holds the fields to overwrite; nil fields are left alone.
type SchedulePatch struct {
	Days      *[]int  `json:"days"`
	StartHour *string `json:"start_hour"`
	EndHour   *string `json:"end_hour"`
	Timezone  *string `json:"timezone"`
	// ToggleDays flips membership of each listed day after the fields above are applied.
	ToggleDays []int `json:"toggle_days"`
}

// UpdateSchedule shallow-merges patch into current and validates the result.
func UpdateSchedule(current models.SendingSchedule, patch SchedulePatch) (models.SendingSchedule, error) {
	next := ResolveSchedule(&current)
	if patch.Days != nil {
		next.Days = normalizeDays(*patch.Days)
		if next.Days == nil {
			next.Days = []int{}
		}
	}
	if patch.StartHour != nil {
		next.StartHour = *patch.StartHour
	}
	if patch.EndHour != nil {
		next.EndHour = *patch.EndHour
	}
	if patch.Timezone != nil {
		next.Timezone = *patch.Timezone
	}
	for _, day := range patch.ToggleDays {
		toggled, err := ToggleDay(next, day)
		if err != nil {
			return current, err
		}
		next = toggled
	}
	if err := ValidateSchedule(next); err != nil {
		return current, err
	}
	return next, nil
}

// ToggleDay adds day to the schedule if absent and removes it if present.
func ToggleDay(s models.SendingSchedule, day int) (models.SendingSchedule, error) {
	if day < 0 || day > 6 {
		return s, newValidationError("invalid schedule", map[string]string{
			"day": "must be between 0 (Sunday) and 6 (Saturday)",
		})
	}
	days := make([]int, 0, len(s.Days)+1)
	found := false
	for _, d := range s.Days {
		if d == day {
			found = true
			continue
		}
		days = append(days, d)
	}
	if !found {
		days = append(days, day)
	}
	s.Days = normalizeDays(days)
	return s, nil
}

type scheduleRules struct {
	Days      []int  `json:"days" validate:"dive,min=0,max=6"`
	StartHour string `json:"start_hour" validate:"required,hhmm"`
	EndHour   string `json:"end_hour" validate:"required,hhmm"`
	Timezone  string `json:"timezone" validate:"required,sendtz"`
}

// ValidateSchedule checks field formats and that the window opens before it closes.
func ValidateSchedule(s models.SendingSchedule) error {
	fields := utils.FieldErrors(scheduleRules{
		Days:      s.Days,
		StartHour: s.StartHour,
		EndHour:   s.EndHour,
		Timezone:  s.Timezone,
	})
	if fields == nil && s.StartHour >= s.EndHour {
		// zero-padded HH:MM sorts lexically
		fields = map[string]string{"end_hour": "must be later than start_hour"}
	}
	if fields != nil {
		return newValidationError("invalid schedule", fields)
	}
	return nil
}

// normalizeDays sorts and de-duplicates. Out-of-range values are kept for validation to report.
func normalizeDays(days []int) []int {
	if days == nil {
		return nil
	}
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out
}

// FormatDays renders a day set the way the review screen shows it.
func FormatDays(days []int) string {
	days = normalizeDays(days)
	switch {
	case len(days) == 0:
		return "No days selected"
	case len(days) == 7:
		return "Every day"
	case equalInts(days, []int{1, 2, 3, 4, 5}):
		return "Mon-Fri"
	case equalInts(days, []int{0, 6}):
		return "Weekends"
	}
	names := make([]string, 0, len(days))
	for _, d := range days {
		if d >= 0 && d < len(dayNames) {
			names = append(names, dayNames[d])
		}
	}
	return strings.Join(names, ", ")
}

// FormatTime turns "13:30" into "1:30 PM". Malformed input is returned unchanged.
func FormatTime(hhmm string) string {
	if !utils.IsClockTime(hhmm) {
		return hhmm
	}
	h, _ := strconv.Atoi(hhmm[:2])
	ampm := "AM"
	if h >= 12 {
		ampm = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return strconv.Itoa(h12) + ":" + hhmm[3:] + " " + ampm
}

// Summary renders a schedule as "Mon-Fri, 9:00 AM - 5:00 PM (Eastern)".
func Summary(s models.SendingSchedule) string {
	return FormatDays(s.Days) + ", " + FormatTime(s.StartHour) + " - " +
		FormatTime(s.EndHour) + " (" + TimezoneLabel(s.Timezone) + ")"
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
