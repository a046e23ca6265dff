package sequencer

import (
	"strconv"

	"coldcommand/models"
)

const (
	// FirstStepDelay is the delay of step 1; the opening email goes out on launch.
	FirstStepDelay = 0
	// DefaultFollowUpDelay is used for new follow-ups and for follow-ups left without a delay.
	DefaultFollowUpDelay = 3
)

// Step is one email in a campaign sequence as seen by editors.
type Step struct {
	SeqNumber int    `json:"seq_number"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	DelayDays int    `json:"delay_days"`
	IsReply   bool   `json:"is_reply"`
}

// StepInput is one element of a full-sequence save. Position in the list
// decides the step number; callers never send one.
type StepInput struct {
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	DelayDays *int   `json:"delay_days" validate:"omitempty,min=0"`
}

type replaceRequest struct {
	Sequences []StepInput `json:"sequences" validate:"dive"`
}

// BuildSteps numbers inputs by position. A missing delay becomes 0 and
// step 1 always sends immediately; later steps keep whatever was given.
func BuildSteps(inputs []StepInput) []Step {
	steps := make([]Step, len(inputs))
	for i, in := range inputs {
		delay := 0
		if in.DelayDays != nil {
			delay = *in.DelayDays
		}
		if i == 0 {
			delay = FirstStepDelay
		}
		steps[i] = Step{
			SeqNumber: i + 1,
			Subject:   in.Subject,
			Body:      in.Body,
			DelayDays: delay,
			IsReply:   i > 0,
		}
	}
	return steps
}

// AddStep returns a copy of steps with an empty step appended.
func AddStep(steps []Step) []Step {
	out := clone(steps, 1)
	delay := DefaultFollowUpDelay
	if len(out) == 0 {
		delay = FirstStepDelay
	}
	return append(out, Step{
		SeqNumber: len(out) + 1,
		DelayDays: delay,
		IsReply:   len(out) > 0,
	})
}

// DeleteStep removes the step numbered seqNumber and renumbers the rest.
// The second return value is false when no such step exists.
func DeleteStep(steps []Step, seqNumber int) ([]Step, bool) {
	idx := indexOf(steps, seqNumber)
	if idx < 0 {
		return clone(steps, 0), false
	}
	out := clone(steps, 0)
	out = append(out[:idx], out[idx+1:]...)
	return renumber(out), true
}

// MoveStep moves the step numbered from so that it ends up numbered to.
func MoveStep(steps []Step, from, to int) ([]Step, bool) {
	idx := indexOf(steps, from)
	if idx < 0 || to < 1 || to > len(steps) {
		return clone(steps, 0), false
	}
	out := clone(steps, 0)
	moved := out[idx]
	out = append(out[:idx], out[idx+1:]...)
	target := to - 1
	out = append(out, Step{})
	copy(out[target+1:], out[target:])
	out[target] = moved
	return renumber(out), true
}

// renumber restores 1..N numbering, forces step 1 to send immediately and
// gives follow-ups without a delay the default one.
func renumber(steps []Step) []Step {
	for i := range steps {
		steps[i].SeqNumber = i + 1
		steps[i].IsReply = i > 0
		switch {
		case i == 0:
			steps[i].DelayDays = FirstStepDelay
		case steps[i].DelayDays <= 0:
			steps[i].DelayDays = DefaultFollowUpDelay
		}
	}
	return steps
}

func indexOf(steps []Step, seqNumber int) int {
	for i, s := range steps {
		if s.SeqNumber == seqNumber {
			return i
		}
	}
	return -1
}

func clone(steps []Step, extra int) []Step {
	out := make([]Step, len(steps), len(steps)+extra)
	copy(out, steps)
	return out
}

// StepsFromModels converts stored rows, already ordered by seq_number.
func StepsFromModels(rows []models.CampaignSequence) []Step {
	steps := make([]Step, len(rows))
	for i, r := range rows {
		steps[i] = Step{
			SeqNumber: r.SeqNumber,
			Subject:   r.Subject,
			Body:      r.Body,
			DelayDays: r.DelayDays,
			IsReply:   r.IsReply(),
		}
	}
	return steps
}

func toModels(campaignID string, steps []Step) []models.CampaignSequence {
	rows := make([]models.CampaignSequence, len(steps))
	for i, s := range steps {
		rows[i] = models.CampaignSequence{
			CampaignID: campaignID,
			SeqNumber:  s.SeqNumber,
			Subject:    s.Subject,
			Body:       s.Body,
			DelayDays:  s.DelayDays,
		}
	}
	return rows
}

// Timing describes when a step fires relative to the previous one.
func (s Step) Timing() string {
	switch {
	case s.SeqNumber <= 1 || s.DelayDays == 0:
		return "sends immediately"
	case s.DelayDays == 1:
		return "sends after 1 day"
	default:
		return "sends after " + strconv.Itoa(s.DelayDays) + " days"
	}
}
