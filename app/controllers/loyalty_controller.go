package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rewardcircle/rewardcircle/app/models"
	"github.com/rewardcircle/rewardcircle/app/repository"
	"github.com/rewardcircle/rewardcircle/internal/pkg/loyalty"
	"github.com/rewardcircle/rewardcircle/internal/pkg/tenant"
	"github.com/rewardcircle/rewardcircle/internal/pkg/usercontext"
)

type earnRequest struct {
	Phone          string  `json:"phone"`
	Email          string  `json:"email"`
	Name           string  `json:"name"`
	PurchaseAmount float64 `json:"purchase_amount"`
}

// HandleEarn records a purchase and credits points. Staff or owner only.
func HandleEarn(c *fiber.Ctx) error {
	var req earnRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_input",
			"message": "malformed request body",
		})
	}

	actor := usercontext.GetActorContext(c)
	result, err := getEngine().Earn(loyalty.EarnInput{
		TenantID:       tenant.LockedTenantID(),
		Phone:          req.Phone,
		Email:          req.Email,
		Name:           req.Name,
		PurchaseAmount: decimal.NewFromFloat(req.PurchaseAmount),
		ActorID:        actor.ActorID(),
	})
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(result)
}

type redeemRequest struct {
	CustomerID string `json:"customer_id"`
	RewardID   string `json:"reward_id"`
}

// HandleRedeem debits a reward's cost from a customer's balance. Staff or
// owner only.
func HandleRedeem(c *fiber.Ctx) error {
	var req redeemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_input",
			"message": "malformed request body",
		})
	}

	actor := usercontext.GetActorContext(c)
	result, err := getEngine().Redeem(loyalty.RedeemInput{
		TenantID:   tenant.LockedTenantID(),
		CustomerID: req.CustomerID,
		RewardID:   req.RewardID,
		ActorID:    actor.ActorID(),
	})
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(result)
}

type lookupRequest struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// HandleLookup is the self-service wallet view: a customer supplies their
// contact and gets their record, the program rules and the active reward
// catalog. Read-only, no authentication, never creates a customer.
func HandleLookup(c *fiber.Ctx) error {
	var req lookupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_input",
			"message": "malformed request body",
		})
	}

	phone := models.NormalizePhone(req.Phone)
	email := models.NormalizeEmail(req.Email)
	if phone == "" && email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_input",
			"message": "phone or email is required",
		})
	}

	tenantID := tenant.LockedTenantID()
	repos := repository.GetGlobalRepositories()

	settings, err := repos.Program.GetSettings(tenantID)
	if err != nil {
		return jsonError(c, err)
	}

	customer, err := repos.Customer.GetByContact(tenantID, phone, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"found":   false,
				"error":   "not_found",
				"message": "no wallet for that contact yet; ask staff to add points for you first",
			})
		}
		return jsonError(c, err)
	}

	rewards, err := repos.Reward.ListActiveByTenant(tenantID)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(fiber.Map{
		"found":      true,
		"customer":   customer,
		"tier_label": models.TierLabel(customer.CurrentTier, settings),
		"program":    settings,
		"rewards":    rewards,
	})
}
