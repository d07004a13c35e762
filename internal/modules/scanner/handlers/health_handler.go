package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	ocrProvider string
	refine      bool
}

func NewHealthHandler(ocrProvider string, refine bool) *HealthHandler {
	return &HealthHandler{ocrProvider: ocrProvider, refine: refine}
}

// GetHealth godoc
// @Summary Service health check
// @Description Check if API is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":       "ok",
		"service":      "struk-scanner-api",
		"ocr_provider": h.ocrProvider,
		"llm_refine":   h.refine,
	})
}
