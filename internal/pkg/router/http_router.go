package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rewardcircle/rewardcircle/app/controllers"
	"github.com/rewardcircle/rewardcircle/internal/pkg/middleware"
	"github.com/rewardcircle/rewardcircle/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply ActorContext middleware globally as first middleware
	app.Use(middleware.ActorContextMiddleware)

	app.Post("/auth/login", controllers.HandleLogin)
	app.Post("/auth/logout", controllers.HandleLogout)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
