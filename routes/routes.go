package routes

import (
	controller "coldcommand/controllers"
	"coldcommand/middleware"
	"coldcommand/repository"
	"coldcommand/sequencer"
	"coldcommand/smartlead"
	"coldcommand/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

// Options carries what the router needs beyond the database.
type Options struct {
	JWTSecret          string
	SequenceWriteLimit int
	// LimiterStorage backs the write limiter; nil keeps counters in memory
	LimiterStorage fiber.Storage
	Smartlead      *smartlead.Client
	Hub            *controller.SequenceHub
}

func SetupAPIRoutes(app *fiber.App, db *gorm.DB, opts Options) {
	campaigns := repository.NewCampaignRepository(db)
	sequences := repository.NewSequenceRepository(db)
	accounts := repository.NewEmailAccountRepository(db)
	leads := repository.NewLeadRepository(db)
	users := repository.NewUserRepository(db)

	manager := sequencer.NewManager(campaigns, sequences, accounts, leads, utils.Component("sequencer"))
	hub := opts.Hub
	if hub == nil {
		hub = controller.NewSequenceHub(utils.Component("sequence_ws"))
	}

	campaignController := controller.NewCampaignController(campaigns, opts.Smartlead, utils.Component("campaigns"))
	sequenceController := controller.NewSequenceController(manager, hub, utils.Component("sequences"))
	settingsController := controller.NewSettingsController(manager, utils.Component("settings"))
	accountController := controller.NewEmailAccountController(accounts, utils.Component("email_accounts"))
	leadController := controller.NewLeadController(campaigns, leads, utils.Component("campaign_leads"))

	protected := middleware.Protected(users, opts.JWTSecret)
	writeLimit := middleware.SequenceWriteLimiter(opts.SequenceWriteLimit, opts.LimiterStorage)

	// API group with versioning and protection
	api := app.Group("/api/v1", protected, logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	api.Get("/email-accounts", accountController.GetEmailAccounts)

	// Campaign routes
	campaign := api.Group("/campaigns")
	campaign.Get("/", campaignController.GetCampaigns)
	campaign.Post("/", campaignController.CreateCampaign)
	campaign.Get("/:id", campaignController.GetCampaign)
	campaign.Patch("/:id", campaignController.UpdateCampaign)
	campaign.Delete("/:id", campaignController.DeleteCampaign)
	campaign.Post("/:id/launch", campaignController.LaunchCampaign)
	campaign.Post("/:id/pause", campaignController.PauseCampaign)
	campaign.Get("/:id/overview", settingsController.GetOverview)

	// Lead enrollment
	campaign.Get("/:id/leads", leadController.GetCampaignLeads)
	campaign.Post("/:id/leads", leadController.AddCampaignLeads)
	campaign.Delete("/:id/leads", leadController.RemoveCampaignLeads)

	// Settings and schedule
	campaign.Get("/:id/settings", settingsController.GetSettings)
	campaign.Patch("/:id/settings/limits", writeLimit, settingsController.UpdateLimits)
	campaign.Patch("/:id/schedule", writeLimit, settingsController.UpdateSchedule)
	campaign.Post("/:id/schedule/days/:day/toggle", writeLimit, settingsController.ToggleDay)

	// Sequence routes
	campaign.Get("/:id/sequences", sequenceController.GetSequences)
	campaign.Put("/:id/sequences", writeLimit, sequenceController.ReplaceSequences)
	campaign.Post("/:id/sequences/steps", writeLimit, sequenceController.AddStep)
	campaign.Delete("/:id/sequences/steps/:seq", writeLimit, sequenceController.DeleteStep)
	campaign.Post("/:id/sequences/steps/:seq/move", writeLimit, sequenceController.MoveStep)

	variables := api.Group("/sequences/variables")
	variables.Get("/", sequenceController.ListVariables)
	variables.Post("/insert", sequenceController.InsertVariable)

	// WebSocket route for live sequence edits
	app.Get("/ws/campaigns/:id/sequences",
		protected,
		controller.UpgradeSequenceSocket(manager, utils.Component("sequence_ws")),
		hub.HandleSequenceSocket(),
	)
}

func SetupRoutes(app *fiber.App, db *gorm.DB, opts Options) {
	// Setup health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupAPIRoutes(app, db, opts)

	// Setup 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}
