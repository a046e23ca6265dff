package controller

import (
	"context"
	"errors"
	"strings"
	"time"

	"coldcommand/middleware"
	"coldcommand/models"
	"coldcommand/repository"
	"coldcommand/sequencer"
	"coldcommand/smartlead"
	"coldcommand/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type CampaignStore interface {
	FindForOrg(ctx context.Context, orgID, campaignID string) (models.Campaign, error)
	ListForOrg(ctx context.Context, orgID string) ([]models.Campaign, error)
	Create(ctx context.Context, campaign *models.Campaign) error
	Update(ctx context.Context, campaign *models.Campaign) error
	Delete(ctx context.Context, orgID, campaignID string) error
}

// SendingPlatform is the subset of the SmartLead client the campaign endpoints use.
type SendingPlatform interface {
	Configured() bool
	CreateCampaign(ctx context.Context, name string, clientID *int64) (*smartlead.Campaign, error)
	UpdateCampaignStatus(ctx context.Context, id int64, status string) error
	DeleteCampaign(ctx context.Context, id int64) error
}

type CampaignController struct {
	Campaigns CampaignStore
	Platform  SendingPlatform
	Logger    *logrus.Entry
}

func NewCampaignController(campaigns CampaignStore, platform SendingPlatform, logger *logrus.Entry) *CampaignController {
	return &CampaignController{
		Campaigns: campaigns,
		Platform:  platform,
		Logger:    logger,
	}
}

// GetCampaigns returns the organization's campaigns, newest first
func (cc *CampaignController) GetCampaigns(c *fiber.Ctx) error {
	campaigns, err := cc.Campaigns.ListForOrg(c.UserContext(), middleware.OrgID(c))
	if err != nil {
		cc.Logger.WithError(err).Error("Failed to fetch campaigns")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch campaigns")
	}
	if campaigns == nil {
		campaigns = []models.Campaign{}
	}
	return c.JSON(fiber.Map{"campaigns": campaigns})
}

// CreateCampaign creates the campaign on SmartLead first, then stores it locally
func (cc *CampaignController) CreateCampaign(c *fiber.Ctx) error {
	orgID := middleware.OrgID(c)

	var input struct {
		Name     string `json:"name" validate:"required,max=255"`
		ClientID *int64 `json:"client_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	input.Name = strings.TrimSpace(input.Name)
	if fields := utils.FieldErrors(input); fields != nil {
		return utils.ValidationResponse(c, "Campaign name is required", fields)
	}

	campaign := models.Campaign{
		OrgID:  orgID,
		Name:   input.Name,
		Status: models.CampaignStatusDraft,
	}

	if cc.Platform != nil && cc.Platform.Configured() {
		remote, err := cc.Platform.CreateCampaign(c.UserContext(), input.Name, input.ClientID)
		if err != nil {
			return cc.platformError(c, "Failed to create campaign in SmartLead", err)
		}
		campaign.SmartleadCampaignID = utils.Pointer(remote.ID)
	}

	if err := cc.Campaigns.Create(c.UserContext(), &campaign); err != nil {
		ctx := map[string]interface{}{"org_id": orgID, "name": input.Name}
		if campaign.SmartleadCampaignID != nil {
			// remote campaign exists without a local row; needs manual cleanup
			ctx["smartlead_campaign_id"] = *campaign.SmartleadCampaignID
		}
		utils.LogError("campaign_create_failed", err, ctx)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create campaign")
	}

	utils.LogEvent("campaign_created", map[string]interface{}{
		"campaign_id": campaign.ID,
		"org_id":      orgID,
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"campaign": campaign})
}

func (cc *CampaignController) GetCampaign(c *fiber.Ctx) error {
	campaign, err := cc.find(c)
	if err != nil {
		return cc.storeError(c, err)
	}
	return c.JSON(fiber.Map{"campaign": campaign})
}

// UpdateCampaign patches name, status, settings or the SmartLead link
func (cc *CampaignController) UpdateCampaign(c *fiber.Ctx) error {
	var input struct {
		Name                *string                  `json:"name" validate:"omitempty,min=1,max=255"`
		Status              *models.CampaignStatus   `json:"status"`
		Settings            *models.CampaignSettings `json:"settings"`
		SmartleadCampaignID *int64                   `json:"smartlead_campaign_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if input.Name != nil {
		input.Name = utils.Pointer(strings.TrimSpace(*input.Name))
	}
	if fields := utils.FieldErrors(input); fields != nil {
		return utils.ValidationResponse(c, "invalid campaign", fields)
	}
	if input.Status != nil && !input.Status.Valid() {
		return utils.ValidationResponse(c, "invalid campaign", map[string]string{
			"status": "must be one of draft active paused completed",
		})
	}
	if input.Settings != nil {
		if err := validateSettings(*input.Settings); err != nil {
			return respondError(c, cc.Logger, err)
		}
	}

	campaign, err := cc.find(c)
	if err != nil {
		return cc.storeError(c, err)
	}
	if input.Name != nil {
		campaign.Name = *input.Name
	}
	if input.Status != nil {
		campaign.Status = *input.Status
	}
	if input.Settings != nil {
		campaign.Settings = *input.Settings
	}
	if input.SmartleadCampaignID != nil {
		campaign.SmartleadCampaignID = input.SmartleadCampaignID
	}

	if err := cc.Campaigns.Update(c.UserContext(), &campaign); err != nil {
		return cc.storeError(c, err)
	}
	return c.JSON(fiber.Map{"campaign": campaign})
}

// DeleteCampaign removes the campaign, its steps and lead links
func (cc *CampaignController) DeleteCampaign(c *fiber.Ctx) error {
	campaign, err := cc.find(c)
	if err != nil {
		return cc.storeError(c, err)
	}

	if campaign.SmartleadCampaignID != nil && cc.Platform != nil && cc.Platform.Configured() {
		if err := cc.Platform.DeleteCampaign(c.UserContext(), *campaign.SmartleadCampaignID); err != nil {
			cc.Logger.WithError(err).WithField("campaign_id", campaign.ID).
				Warn("SmartLead delete failed; removing local campaign anyway")
		}
	}

	if err := cc.Campaigns.Delete(c.UserContext(), campaign.OrgID, campaign.ID); err != nil {
		return cc.storeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// LaunchCampaign activates the campaign and starts it on SmartLead when linked
func (cc *CampaignController) LaunchCampaign(c *fiber.Ctx) error {
	var input struct {
		LaunchType string `json:"launch_type" validate:"omitempty,oneof=now scheduled"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}
	if fields := utils.FieldErrors(input); fields != nil {
		return utils.ValidationResponse(c, "invalid launch", fields)
	}
	if input.LaunchType == "" {
		input.LaunchType = "scheduled"
	}

	campaign, err := cc.find(c)
	if err != nil {
		return cc.storeError(c, err)
	}
	if err := cc.pushStatus(c.UserContext(), campaign, smartlead.StatusStart); err != nil {
		return cc.platformError(c, "Failed to start campaign in SmartLead", err)
	}

	now := time.Now().UTC()
	campaign.Status = models.CampaignStatusActive
	campaign.Settings.LaunchedAt = &now
	campaign.Settings.LaunchType = input.LaunchType
	if err := cc.Campaigns.Update(c.UserContext(), &campaign); err != nil {
		return cc.storeError(c, err)
	}

	utils.LogEvent("campaign_launched", map[string]interface{}{
		"campaign_id": campaign.ID,
		"launch_type": input.LaunchType,
	})
	return c.JSON(fiber.Map{"campaign": campaign})
}

// PauseCampaign pauses sending locally and on SmartLead
func (cc *CampaignController) PauseCampaign(c *fiber.Ctx) error {
	campaign, err := cc.find(c)
	if err != nil {
		return cc.storeError(c, err)
	}
	if campaign.Status != models.CampaignStatusActive {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Only active campaigns can be paused")
	}
	if err := cc.pushStatus(c.UserContext(), campaign, smartlead.StatusPaused); err != nil {
		return cc.platformError(c, "Failed to pause campaign in SmartLead", err)
	}

	campaign.Status = models.CampaignStatusPaused
	if err := cc.Campaigns.Update(c.UserContext(), &campaign); err != nil {
		return cc.storeError(c, err)
	}
	return c.JSON(fiber.Map{"campaign": campaign})
}

func (cc *CampaignController) find(c *fiber.Ctx) (models.Campaign, error) {
	return cc.Campaigns.FindForOrg(c.UserContext(), middleware.OrgID(c), c.Params("id"))
}

func (cc *CampaignController) pushStatus(ctx context.Context, campaign models.Campaign, status string) error {
	if campaign.SmartleadCampaignID == nil || cc.Platform == nil || !cc.Platform.Configured() {
		return nil
	}
	return cc.Platform.UpdateCampaignStatus(ctx, *campaign.SmartleadCampaignID, status)
}

func (cc *CampaignController) storeError(c *fiber.Ctx, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found")
	}
	cc.Logger.WithError(err).WithField("campaign_id", c.Params("id")).Error("Campaign store failed")
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
}

func (cc *CampaignController) platformError(c *fiber.Ctx, message string, err error) error {
	status := fiber.StatusBadGateway
	var apiErr *smartlead.APIError
	if errors.As(err, &apiErr) {
		message += ": " + apiErr.Message
		if apiErr.StatusCode == fiber.StatusServiceUnavailable {
			status = apiErr.StatusCode
		}
	}
	utils.LogError("smartlead_error", err, map[string]interface{}{
		"org_id": middleware.OrgID(c),
		"path":   c.Path(),
	})
	return utils.ErrorResponse(c, status, message)
}

// validateSettings rejects a settings blob whose schedule or limits could not be used.
func validateSettings(s models.CampaignSettings) error {
	if s.MaxEmailsPerDay < 0 || s.MaxNewLeadsPerDay < 0 {
		return &sequencer.ValidationError{
			Message:     "invalid limits",
			FieldErrors: map[string]string{"settings": "daily limits cannot be negative"},
		}
	}
	if s.Schedule == nil {
		return nil
	}
	return sequencer.ValidateSchedule(sequencer.ResolveSchedule(s.Schedule))
}
