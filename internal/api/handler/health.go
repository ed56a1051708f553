package handler

import (
	"github.com/gofiber/fiber/v2"
)

// Version is reported by the health endpoint
const Version = "0.1.0"

type HealthHandler struct {
	detector string
}

// NewHealthHandler creates a health handler reporting the given detection backend
func NewHealthHandler(detector string) *HealthHandler {
	return &HealthHandler{detector: detector}
}

type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version,omitempty"`
	Detector string `json:"detector,omitempty"`
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "ok",
		Version: Version,
	})
}

// Ready reports the configured detector. Nothing is stateful, so a running
// process is ready.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:   "ready",
		Detector: h.detector,
	})
}
