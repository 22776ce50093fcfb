package handlers

import (
	"time"

	"loandesk/internal/config"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *gorm.DB, cfg *config.Config) *HealthHandler {
	return &HealthHandler{db: db, cfg: cfg}
}

// Root handles root endpoint
// @Summary Root endpoint
// @Description Returns API status
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "🚀 LoanDesk API v1.0 is running",
		"mode":    h.cfg.AppMode,
		"docs":    "/swagger/index.html",
	})
}

// Check returns service health
// @Summary Health check
// @Description Returns service and database status
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := fiber.StatusOK
	overall := "ok"
	dbStatus := "up"
	if err := config.HealthCheck(h.db); err != nil {
		status = fiber.StatusServiceUnavailable
		overall = "degraded"
		dbStatus = "down"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":    overall,
		"mode":      h.cfg.AppMode,
		"database":  dbStatus,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
