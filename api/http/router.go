package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lokesh-manneti/skillsync-ai-v2/api/http/handlers"
)

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, auth *handlers.AuthHandler, health *handlers.HealthHandler, profile *handlers.ProfileHandler, chat *handlers.ChatHandler, authMW fiber.Handler) {
	app.Get("/", handlers.Root)

	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", health.Health)
	v1.Get("/ready", health.Ready)

	v1.Post("/signup", auth.Signup)
	v1.Post("/login", auth.Login)

	p := v1.Group("/profile", authMW)
	p.Post("/upload", profile.Upload)
	p.Get("/me", profile.Me)
	p.Patch("/roadmap/toggle", profile.ToggleRoadmapItem)
	p.Post("/optimize_resume", profile.OptimizeResume)

	v1.Post("/chat", authMW, chat.Chat)
}
