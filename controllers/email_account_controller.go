package controller

import (
	"context"

	"coldcommand/middleware"
	"coldcommand/models"
	"coldcommand/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type EmailAccountLister interface {
	ListForOrg(ctx context.Context, orgID string) ([]models.EmailAccount, error)
}

type EmailAccountController struct {
	Accounts EmailAccountLister
	Logger   *logrus.Entry
}

func NewEmailAccountController(accounts EmailAccountLister, logger *logrus.Entry) *EmailAccountController {
	return &EmailAccountController{Accounts: accounts, Logger: logger}
}

// GetEmailAccounts lists the organization's sending accounts, oldest first
func (ec *EmailAccountController) GetEmailAccounts(c *fiber.Ctx) error {
	accounts, err := ec.Accounts.ListForOrg(c.UserContext(), middleware.OrgID(c))
	if err != nil {
		ec.Logger.WithError(err).Error("Failed to fetch email accounts")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch email accounts")
	}
	if accounts == nil {
		accounts = []models.EmailAccount{}
	}
	return c.JSON(fiber.Map{"email_accounts": accounts})
}
