package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/rewardcircle/rewardcircle/app/models"
	"github.com/rewardcircle/rewardcircle/app/repository"
	"github.com/rewardcircle/rewardcircle/internal/pkg/loyalty"
	"github.com/rewardcircle/rewardcircle/internal/pkg/tenant"
	"github.com/rewardcircle/rewardcircle/internal/pkg/usercontext"
)

// Owner-facing program administration: settings, reward catalog, customer
// roster and the dashboard overview. Role gating happens in the router;
// every handler here can assume an owner session.

// HandleGetSettings returns the tenant's program settings, falling back to
// defaults when the tenant never configured anything.
func HandleGetSettings(c *fiber.Ctx) error {
	settings, err := repository.GetGlobalRepositories().Program.GetSettings(tenant.LockedTenantID())
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(settings)
}

// HandleSaveSettings validates and persists the owner-editable rule set.
// Nothing is persisted when validation fails.
func HandleSaveSettings(c *fiber.Ctx) error {
	var settings models.ProgramSettings
	if err := c.BodyParser(&settings); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_input",
			"message": "malformed request body",
		})
	}

	repos := repository.GetGlobalRepositories()
	if err := repos.Program.SaveSettings(tenant.LockedTenantID(), settings); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_input",
			"message": err.Error(),
		})
	}

	saved, err := repos.Program.GetSettings(tenant.LockedTenantID())
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(fiber.Map{"ok": true, "settings": saved})
}

// HandleListRewards returns the full catalog, archived entries included.
func HandleListRewards(c *fiber.Ctx) error {
	rewards, err := repository.GetGlobalRepositories().Reward.ListByTenant(tenant.LockedTenantID())
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(fiber.Map{"rewards": rewards})
}

type rewardRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PointsCost  *int    `json:"points_cost"`
	SortOrder   *int    `json:"sort_order"`
	Active      *bool   `json:"active"`
}

// HandleCreateReward adds a catalog entry.
func HandleCreateReward(c *fiber.Ctx) error {
	var req rewardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_input",
			"message": "malformed request body",
		})
	}

	name := ""
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_input",
			"message": "reward name is required",
		})
	}
	if req.PointsCost == nil || *req.PointsCost <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_input",
			"message": "points cost must be a positive number",
		})
	}

	description := ""
	if req.Description != nil {
		description = strings.TrimSpace(*req.Description)
	}
	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}

	reward, err := models.NewReward(tenant.LockedTenantID(), name, description, *req.PointsCost, sortOrder)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_input",
			"message": err.Error(),
		})
	}
	if req.Active != nil {
		reward.Active = *req.Active
	}

	if err := repository.GetGlobalRepositories().Reward.Create(reward); err != nil {
		return jsonError(c, err)
	}

	return c.JSON(fiber.Map{"ok": true, "reward": reward})
}

// HandleUpdateReward applies a partial update to a catalog entry. Setting
// active=false archives the reward; nothing is ever hard-deleted.
func HandleUpdateReward(c *fiber.Ctx) error {
	rewardID := c.Params("id")
	if rewardID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_input",
			"message": "reward id is required",
		})
	}

	var req rewardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_input",
			"message": "malformed request body",
		})
	}

	repos := repository.GetGlobalRepositories()
	reward, err := repos.Reward.GetByPublicID(tenant.LockedTenantID(), rewardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, loyalty.ErrRewardNotFound)
		}
		return jsonError(c, err)
	}

	if req.Name != nil {
		reward.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		reward.Description = strings.TrimSpace(*req.Description)
	}
	if req.PointsCost != nil {
		if *req.PointsCost <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "invalid_input",
				"message": "points cost must be a positive number",
			})
		}
		reward.PointsCost = *req.PointsCost
	}
	if req.SortOrder != nil {
		reward.SortOrder = *req.SortOrder
	}
	if req.Active != nil {
		reward.Active = *req.Active
	}

	if err := reward.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_input",
			"message": err.Error(),
		})
	}
	if err := repos.Reward.Update(reward); err != nil {
		return jsonError(c, err)
	}

	return c.JSON(fiber.Map{"ok": true, "reward": reward})
}

// HandleListCustomers returns the tenant's customer roster, name
// ascending.
func HandleListCustomers(c *fiber.Ctx) error {
	customers, err := repository.GetGlobalRepositories().Customer.ListByTenant(tenant.LockedTenantID())
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(fiber.Map{"customers": customers})
}

// HandleGetCustomer returns one customer plus their recent ledger history.
func HandleGetCustomer(c *fiber.Ctx) error {
	customerID := c.Params("id")
	tenantID := tenant.LockedTenantID()
	repos := repository.GetGlobalRepositories()

	customer, err := repos.Customer.GetByPublicID(tenantID, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, loyalty.ErrCustomerNotFound)
		}
		return jsonError(c, err)
	}

	transactions, err := repos.Transaction.ListByCustomer(tenantID, customer.ID, 50)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(fiber.Map{
		"customer":     customer,
		"transactions": transactions,
	})
}

type adjustRequest struct {
	Points int    `json:"points"`
	Note   string `json:"note"`
}

// HandleAdjustCustomer applies a manual points correction.
func HandleAdjustCustomer(c *fiber.Ctx) error {
	var req adjustRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_input",
			"message": "malformed request body",
		})
	}

	actor := usercontext.GetActorContext(c)
	result, err := getEngine().Adjust(loyalty.AdjustInput{
		TenantID:   tenant.LockedTenantID(),
		CustomerID: c.Params("id"),
		Points:     req.Points,
		Note:       strings.TrimSpace(req.Note),
		ActorID:    actor.ActorID(),
	})
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(result)
}

const overviewRecentLimit = 20

// HandleOverview returns the dashboard: aggregate counters over recent
// activity, the latest transactions annotated with customer names, and
// the roster.
func HandleOverview(c *fiber.Ctx) error {
	tenantID := tenant.LockedTenantID()
	repos := repository.GetGlobalRepositories()

	customers, err := repos.Customer.ListByTenant(tenantID)
	if err != nil {
		return jsonError(c, err)
	}

	recent, err := repos.Transaction.ListRecentByTenant(tenantID, overviewRecentLimit)
	if err != nil {
		return jsonError(c, err)
	}

	nameByRef := make(map[string]string, len(customers))
	for _, customer := range customers {
		nameByRef[customer.PublicID] = customer.Name
	}

	totalIssued := 0
	totalRedeemed := 0
	annotated := make([]fiber.Map, 0, len(recent))
	for _, tx := range recent {
		switch tx.Type {
		case models.TX_TYPE_EARN:
			totalIssued += tx.Points
		case models.TX_TYPE_REDEEM:
			totalRedeemed += -tx.Points
		}

		name := nameByRef[tx.CustomerRef]
		if name == "" {
			name = tx.CustomerRef
		}
		annotated = append(annotated, fiber.Map{
			"transaction":   tx,
			"customer_name": name,
		})
	}

	return c.JSON(fiber.Map{
		"summary": fiber.Map{
			"total_customers":       len(customers),
			"total_points_issued":   totalIssued,
			"total_points_redeemed": totalRedeemed,
		},
		"recent":    annotated,
		"customers": customers,
	})
}
