package archive

import (
	"deluge-submit/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the archive.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the archive routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/archive")
	group.Get("/", h.HandleList)
	group.Delete("/:name", h.HandleRemove)
}

// HandleList lists archived torrent files.
// @Summary List Archived Torrents
// @Description Lists the staged torrent files copied to object storage.
// @Tags archive
// @Produce json
// @Success 200 {array} Object
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /archive [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	objects, err := h.service.List(c.Context())
	if err != nil {
		l.Error("Archive listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if objects == nil {
		objects = []Object{}
	}
	return c.JSON(objects)
}

// HandleRemove deletes one archived torrent file.
// @Summary Remove Archived Torrent
// @Description Deletes an archived torrent file by name.
// @Tags archive
// @Param name path string true "Object name"
// @Success 204
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /archive/{name} [delete]
func (h *Handler) HandleRemove(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	name := c.Params("name")

	if err := h.service.Remove(c.Context(), name); err != nil {
		l.Warn("Archive removal failed", zap.String("name", name), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	l.Info("Removed archived torrent", zap.String("name", name))
	return c.SendStatus(fiber.StatusNoContent)
}
