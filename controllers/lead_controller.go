package controller

import (
	"context"
	"errors"

	"coldcommand/middleware"
	"coldcommand/models"
	"coldcommand/repository"
	"coldcommand/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type CampaignFinder interface {
	FindForOrg(ctx context.Context, orgID, campaignID string) (models.Campaign, error)
}

type CampaignLeadStore interface {
	ListForCampaign(ctx context.Context, campaignID string) ([]models.EnrolledLead, error)
	Add(ctx context.Context, orgID, campaignID string, leadIDs []string) (int, error)
	Remove(ctx context.Context, campaignID string, leadIDs []string) (int, error)
}

// LeadController manages which of the organization's leads a campaign targets.
type LeadController struct {
	Campaigns CampaignFinder
	Leads     CampaignLeadStore
	Logger    *logrus.Entry
}

func NewLeadController(campaigns CampaignFinder, leads CampaignLeadStore, logger *logrus.Entry) *LeadController {
	return &LeadController{
		Campaigns: campaigns,
		Leads:     leads,
		Logger:    logger,
	}
}

type leadIDsInput struct {
	LeadIDs []string `json:"lead_ids" validate:"required,min=1"`
}

// GetCampaignLeads lists enrolled leads, newest first
func (lc *LeadController) GetCampaignLeads(c *fiber.Ctx) error {
	if _, err := lc.Campaigns.FindForOrg(c.UserContext(), middleware.OrgID(c), c.Params("id")); err != nil {
		return lc.campaignError(c, err)
	}
	leads, err := lc.Leads.ListForCampaign(c.UserContext(), c.Params("id"))
	if err != nil {
		lc.Logger.WithError(err).WithField("campaign_id", c.Params("id")).Error("Failed to fetch campaign leads")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch campaign leads")
	}
	if leads == nil {
		leads = []models.EnrolledLead{}
	}
	return c.JSON(fiber.Map{"leads": leads, "total": len(leads)})
}

// AddCampaignLeads enrolls leads; ids outside the organization are skipped
func (lc *LeadController) AddCampaignLeads(c *fiber.Ctx) error {
	var input leadIDsInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "lead_ids array required")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "lead_ids array required")
	}
	if _, err := lc.Campaigns.FindForOrg(c.UserContext(), middleware.OrgID(c), c.Params("id")); err != nil {
		return lc.campaignError(c, err)
	}

	added, err := lc.Leads.Add(c.UserContext(), middleware.OrgID(c), c.Params("id"), input.LeadIDs)
	if err != nil {
		utils.LogError("campaign_leads_add_failed", err, map[string]interface{}{
			"campaign_id": c.Params("id"),
			"org_id":      middleware.OrgID(c),
		})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to add leads to campaign")
	}
	if added == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "No valid leads found")
	}

	utils.LogEvent("campaign_leads_added", map[string]interface{}{
		"campaign_id": c.Params("id"),
		"added":       added,
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"added":   added,
		"skipped": len(input.LeadIDs) - added,
	})
}

// RemoveCampaignLeads unenrolls leads from the campaign
func (lc *LeadController) RemoveCampaignLeads(c *fiber.Ctx) error {
	var input leadIDsInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "lead_ids array required")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "lead_ids array required")
	}
	if _, err := lc.Campaigns.FindForOrg(c.UserContext(), middleware.OrgID(c), c.Params("id")); err != nil {
		return lc.campaignError(c, err)
	}

	removed, err := lc.Leads.Remove(c.UserContext(), c.Params("id"), input.LeadIDs)
	if err != nil {
		utils.LogError("campaign_leads_remove_failed", err, map[string]interface{}{
			"campaign_id": c.Params("id"),
			"org_id":      middleware.OrgID(c),
		})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to remove leads from campaign")
	}
	return c.JSON(fiber.Map{"success": true, "removed": removed})
}

func (lc *LeadController) campaignError(c *fiber.Ctx, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found")
	}
	lc.Logger.WithError(err).WithField("campaign_id", c.Params("id")).Error("Failed to fetch campaign")
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
}
