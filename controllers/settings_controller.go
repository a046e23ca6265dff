package controller

import (
	"coldcommand/middleware"
	"coldcommand/sequencer"
	"coldcommand/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type SettingsController struct {
	Manager *sequencer.Manager
	Logger  *logrus.Entry
}

func NewSettingsController(manager *sequencer.Manager, logger *logrus.Entry) *SettingsController {
	return &SettingsController{Manager: manager, Logger: logger}
}

func (sc *SettingsController) GetSettings(c *fiber.Ctx) error {
	settings, err := sc.Manager.Settings(c.UserContext(), middleware.OrgID(c), c.Params("id"))
	if err != nil {
		return respondError(c, sc.Logger, err)
	}
	return c.JSON(fiber.Map{
		"settings":         settings,
		"schedule_summary": sequencer.Summary(settings.Schedule),
		"timezones":        sequencer.SupportedTimezones,
	})
}

// UpdateLimits patches daily limits and sending options
func (sc *SettingsController) UpdateLimits(c *fiber.Ctx) error {
	var patch sequencer.LimitsPatch
	if err := c.BodyParser(&patch); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	settings, err := sc.Manager.UpdateLimits(c.UserContext(), middleware.OrgID(c), c.Params("id"), patch)
	if err != nil {
		return respondError(c, sc.Logger, err)
	}
	return c.JSON(fiber.Map{"settings": settings})
}

// UpdateSchedule merges the posted fields into the sending schedule
func (sc *SettingsController) UpdateSchedule(c *fiber.Ctx) error {
	var patch sequencer.SchedulePatch
	if err := c.BodyParser(&patch); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	settings, err := sc.Manager.UpdateSchedule(c.UserContext(), middleware.OrgID(c), c.Params("id"), patch)
	if err != nil {
		return respondError(c, sc.Logger, err)
	}
	return c.JSON(fiber.Map{
		"settings":         settings,
		"schedule_summary": sequencer.Summary(settings.Schedule),
	})
}

// ToggleDay flips one weekday (0 = Sunday) in the schedule
func (sc *SettingsController) ToggleDay(c *fiber.Ctx) error {
	day, err := intParam(c, "day")
	if err != nil {
		return respondError(c, sc.Logger, err)
	}
	settings, err := sc.Manager.ToggleScheduleDay(c.UserContext(), middleware.OrgID(c), c.Params("id"), day)
	if err != nil {
		return respondError(c, sc.Logger, err)
	}
	return c.JSON(fiber.Map{
		"settings":         settings,
		"schedule_summary": sequencer.Summary(settings.Schedule),
	})
}

// GetOverview returns the pre-launch review with a fresh capacity estimate
func (sc *SettingsController) GetOverview(c *fiber.Ctx) error {
	overview, err := sc.Manager.Overview(c.UserContext(), middleware.OrgID(c), c.Params("id"))
	if err != nil {
		return respondError(c, sc.Logger, err)
	}
	setETag(c, overview.Version)
	return c.JSON(overview)
}
