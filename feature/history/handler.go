package history

import (
	"errors"

	"deluge-submit/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for submission history.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the history routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/submissions")
	group.Get("/", h.HandleList)
	group.Get("/:batch", h.HandleBatch)
}

// HandleList returns recent submissions.
// @Summary List Submissions
// @Description Returns the most recent submissions, newest first.
// @Tags history
// @Produce json
// @Param limit query int false "Maximum number of rows"
// @Success 200 {array} Submission
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /submissions [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	rows, err := h.service.List(c.Context(), c.QueryInt("limit", 0))
	if err != nil {
		l.Error("Listing submissions failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rows)
}

// HandleBatch returns the submissions of one batch.
// @Summary Get Batch
// @Description Returns every submission recorded for a batch id.
// @Tags history
// @Produce json
// @Param batch path string true "Batch ID"
// @Success 200 {array} Submission
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /submissions/{batch} [get]
func (h *Handler) HandleBatch(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	batchID := c.Params("batch")

	rows, err := h.service.Batch(c.Context(), batchID)
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Loading batch failed", zap.String("batch_id", batchID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rows)
}
