package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sleepquest/diary-api/internal/config"
	"github.com/sleepquest/diary-api/internal/handler"
	"github.com/sleepquest/diary-api/internal/middleware"
	"github.com/sleepquest/diary-api/internal/models"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler    *handler.AuthHandler
	DiaryHandler   *handler.DiaryHandler
	GameHandler    *handler.GameHandler
	TeacherHandler *handler.TeacherHandler
	AdminHandler   *handler.AdminHandler
	JWTMiddleware  fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.LoginRateLimit(cfg.LoginRateMax, time.Minute))
		deps.AuthHandler.Register(auth)
	}

	if deps.DiaryHandler != nil {
		diary := api.Group("/diary", jwtMiddleware, middleware.RequireRole(models.RoleParticipant))
		deps.DiaryHandler.Register(diary)
	}

	if deps.GameHandler != nil {
		game := api.Group("/game", jwtMiddleware, middleware.RequireRole(models.RoleParticipant))
		deps.GameHandler.Register(game)
	}

	if deps.TeacherHandler != nil {
		teacher := api.Group("/teacher", jwtMiddleware, middleware.RequireRole(models.RoleTeacher))
		deps.TeacherHandler.Register(teacher)
	}

	if deps.AdminHandler != nil {
		admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole(models.RoleAdmin))
		deps.AdminHandler.Register(admin)
	}
}
