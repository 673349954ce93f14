package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/rewardcircle/rewardcircle/app/controllers"
	"github.com/rewardcircle/rewardcircle/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())

	// Self-service wallet lookup: read-only, contact match is the gate.
	loyalty := api.Group("/loyalty")
	loyalty.Post("/lookup", controllers.HandleLookup)

	// Ledger mutations require a staff or owner session.
	loyalty.Post("/earn", middleware.RequireStaff, controllers.HandleEarn)
	loyalty.Post("/redeem", middleware.RequireStaff, controllers.HandleRedeem)

	// Program administration is owner-only.
	admin := api.Group("/admin", middleware.RequireOwner)
	admin.Get("/settings", controllers.HandleGetSettings)
	admin.Post("/settings", controllers.HandleSaveSettings)
	admin.Get("/rewards", controllers.HandleListRewards)
	admin.Post("/rewards", controllers.HandleCreateReward)
	admin.Patch("/rewards/:id", controllers.HandleUpdateReward)
	admin.Get("/customers", controllers.HandleListCustomers)
	admin.Get("/customers/:id", controllers.HandleGetCustomer)
	admin.Post("/customers/:id/adjust", controllers.HandleAdjustCustomer)
	admin.Get("/overview", controllers.HandleOverview)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
