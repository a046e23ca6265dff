package controller

import (
	"bytes"
	"encoding/json"

	"coldcommand/middleware"
	"coldcommand/sequencer"
	"coldcommand/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type SequenceController struct {
	Manager *sequencer.Manager
	Hub     *SequenceHub
	Logger  *logrus.Entry
}

func NewSequenceController(manager *sequencer.Manager, hub *SequenceHub, logger *logrus.Entry) *SequenceController {
	return &SequenceController{
		Manager: manager,
		Hub:     hub,
		Logger:  logger,
	}
}

// GetSequences returns the campaign's steps with the version as ETag
func (sc *SequenceController) GetSequences(c *fiber.Ctx) error {
	seq, err := sc.Manager.ListSteps(c.UserContext(), middleware.OrgID(c), c.Params("id"))
	if err != nil {
		return respondError(c, sc.Logger, err)
	}
	setETag(c, seq.Version)
	return c.JSON(seq)
}

// ReplaceSequences saves the full ordered step list
func (sc *SequenceController) ReplaceSequences(c *fiber.Ctx) error {
	var input struct {
		Sequences json.RawMessage `json:"sequences"`
		Version   *int            `json:"version"`
	}
	if err := json.Unmarshal(c.Body(), &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	raw := bytes.TrimSpace(input.Sequences)
	if len(raw) == 0 || raw[0] != '[' {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "sequences must be an array")
	}
	var steps []sequencer.StepInput
	if err := json.Unmarshal(raw, &steps); err != nil {
		return utils.ValidationResponse(c, "invalid sequence", map[string]string{"sequences": err.Error()})
	}

	expected, err := expectedVersion(c, input.Version)
	if err != nil {
		return respondError(c, sc.Logger, err)
	}

	seq, err := sc.Manager.ReplaceSteps(c.UserContext(), middleware.OrgID(c), c.Params("id"), steps, expected)
	if err != nil {
		return respondError(c, sc.Logger, err)
	}
	return sc.saved(c, seq)
}

// AddStep appends an empty step to the stored sequence
func (sc *SequenceController) AddStep(c *fiber.Ctx) error {
	expected, err := expectedVersion(c, nil)
	if err != nil {
		return respondError(c, sc.Logger, err)
	}
	seq, err := sc.Manager.AppendStep(c.UserContext(), middleware.OrgID(c), c.Params("id"), expected)
	if err != nil {
		return respondError(c, sc.Logger, err)
	}
	return sc.saved(c, seq)
}

// DeleteStep removes one step and renumbers the rest
func (sc *SequenceController) DeleteStep(c *fiber.Ctx) error {
	seqNumber, err := intParam(c, "seq")
	if err != nil {
		return respondError(c, sc.Logger, err)
	}
	expected, err := expectedVersion(c, nil)
	if err != nil {
		return respondError(c, sc.Logger, err)
	}
	seq, err := sc.Manager.RemoveStep(c.UserContext(), middleware.OrgID(c), c.Params("id"), seqNumber, expected)
	if err != nil {
		return respondError(c, sc.Logger, err)
	}
	return sc.saved(c, seq)
}

// MoveStep reorders one step to a new position
func (sc *SequenceController) MoveStep(c *fiber.Ctx) error {
	from, err := intParam(c, "seq")
	if err != nil {
		return respondError(c, sc.Logger, err)
	}
	var input struct {
		To int `json:"to" validate:"required,min=1"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if fields := utils.FieldErrors(input); fields != nil {
		return utils.ValidationResponse(c, "invalid move", fields)
	}
	expected, err := expectedVersion(c, nil)
	if err != nil {
		return respondError(c, sc.Logger, err)
	}
	seq, err := sc.Manager.MoveStep(c.UserContext(), middleware.OrgID(c), c.Params("id"), from, input.To, expected)
	if err != nil {
		return respondError(c, sc.Logger, err)
	}
	return sc.saved(c, seq)
}

func (sc *SequenceController) saved(c *fiber.Ctx, seq sequencer.Sequence) error {
	if sc.Hub != nil {
		sc.Hub.Broadcast(seq.CampaignID, seq.Version)
	}
	utils.LogEvent("sequence_saved", map[string]interface{}{
		"campaign_id": seq.CampaignID,
		"org_id":      middleware.OrgID(c),
		"version":     seq.Version,
		"steps":       len(seq.Steps),
	})
	setETag(c, seq.Version)
	return c.JSON(seq)
}

// ListVariables returns the placeholders editors can insert
func (sc *SequenceController) ListVariables(c *fiber.Ctx) error {
	vars := make([]fiber.Map, len(sequencer.Tokens))
	for i, t := range sequencer.Tokens {
		vars[i] = fiber.Map{"token": string(t), "label": t.Label()}
	}
	return c.JSON(fiber.Map{"variables": vars})
}

// InsertVariable splices a placeholder into subject or body text at the cursor
func (sc *SequenceController) InsertVariable(c *fiber.Ctx) error {
	var input struct {
		Field       string `json:"field" validate:"required"`
		Text        string `json:"text"`
		CursorStart int    `json:"cursor_start"`
		CursorEnd   *int   `json:"cursor_end"`
		Token       string `json:"token" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if fields := utils.FieldErrors(input); fields != nil {
		return utils.ValidationResponse(c, "invalid variable insert", fields)
	}
	if !sequencer.Field(input.Field).Valid() {
		return utils.ValidationResponse(c, "invalid variable insert", map[string]string{
			"field": "must be subject or body",
		})
	}
	token, ok := sequencer.ParseToken(input.Token)
	if !ok {
		return utils.ValidationResponse(c, "invalid variable insert", map[string]string{
			"token": "is not a supported variable",
		})
	}
	end := input.CursorStart
	if input.CursorEnd != nil {
		end = *input.CursorEnd
	}

	text, cursor := sequencer.InsertVariable(input.Text, input.CursorStart, end, token)
	return c.JSON(fiber.Map{
		"field":  input.Field,
		"text":   text,
		"cursor": cursor,
	})
}
