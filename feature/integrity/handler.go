package integrity

import (
	"errors"

	"deluge-submit/core/logger"
	"deluge-submit/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	// Force import for Swagger
	var _ = checks.SchemaReport{}
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/deluge", h.HandleDelugeCheck)
	group.Get("/storage", h.HandleStorageCheck)
	group.Get("/history", h.HandleHistoryCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs all available integrity checks (Deluge, Storage, History) concurrently.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Failure 503 {object} map[string]interface{} "Combined Report with failures"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report, err := h.service.RunAll(c.Context())
	if err != nil {
		l.Warn("Integrity check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(report)
	}
	return c.JSON(report)
}

// HandleDelugeCheck checks the daemon.
// @Summary Check Deluge
// @Description Detects the installed client generation and opens one session against the configured daemon.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.DelugeReport "Deluge Report"
// @Failure 503 {object} map[string]string "Service Unavailable"
// @Router /integrity/deluge [get]
func (h *Handler) HandleDelugeCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckDeluge(c.Context())
	if err != nil {
		l.Error("Deluge check failed", zap.Error(err))
		return unavailable(c, err)
	}
	return c.JSON(report)
}

// HandleStorageCheck checks and optionally fixes the archive bucket.
// @Summary Check Storage
// @Description Checks that the archive bucket exists. Optionally creates it.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create the bucket when missing"
// @Success 200 {object} checks.StorageReport "Storage Report"
// @Failure 503 {object} map[string]string "Service Unavailable"
// @Router /integrity/storage [get]
func (h *Handler) HandleStorageCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	if fix {
		l.Info("Ensuring archive bucket")
		if err := h.service.FixStorage(c.Context()); err != nil {
			return unavailable(c, err)
		}
	}

	report, err := h.service.CheckStorage(c.Context())
	if err != nil {
		l.Error("Storage check failed", zap.Error(err))
		return unavailable(c, err)
	}
	return c.JSON(report)
}

// HandleHistoryCheck checks the submissions table schema.
// @Summary Check History Schema
// @Description Checks that the submissions table matches the history model.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 503 {object} map[string]string "Service Unavailable"
// @Router /integrity/history [get]
func (h *Handler) HandleHistoryCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckHistory()
	if err != nil {
		l.Error("History schema check failed", zap.Error(err))
		return unavailable(c, err)
	}
	return c.JSON(report)
}

func unavailable(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrSkipped) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
}
