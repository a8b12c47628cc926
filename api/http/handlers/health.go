package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/lokesh-manneti/skillsync-ai-v2/api/http/presenter"
	"github.com/lokesh-manneti/skillsync-ai-v2/pkg/health"
)

type HealthHandler struct {
	readiness health.ReadinessUseCase
}

func NewHealthHandler(readiness health.ReadinessUseCase) *HealthHandler {
	return &HealthHandler{readiness: readiness}
}

// Health is the liveness probe.
// @Summary Liveness
// @Tags    health
// @Produce json
// @Success 200 {object} map[string]any
// @Router  /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return presenter.JSON(c, http.StatusOK, fiber.Map{"status": "ok"})
}

// Ready reports whether dependencies (postgres) are reachable.
// @Summary Readiness
// @Tags    health
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 503 {object} presenter.ErrorResponse
// @Router  /ready [get]
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	if err := h.readiness.Ready(c.Context()); err != nil {
		return presenter.Error(c, http.StatusServiceUnavailable, err.Error())
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"status": "ready"})
}

// Root is the public status banner.
func Root(c *fiber.Ctx) error {
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"message": "SkillSync AI System Operational",
		"status":  "active",
	})
}
