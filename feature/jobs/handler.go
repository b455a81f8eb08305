package jobs

import (
	"fmt"

	"github.com/scenespin/reference-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the jobs view.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the jobs routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/jobs")
	group.Get("/", h.HandleList)
	group.Post("/wake", h.HandleWake)
	group.Delete("/:id", h.HandleDelete)
}

// HandleList returns the merged job collection and polling state. The
// optional scope query must name the workspace this server is bound to.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	if scope := c.Query("scope"); scope != "" && scope != h.service.Scope() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("unknown scope %q", scope),
		})
	}
	return c.JSON(h.service.Snapshot())
}

// HandleWake forces an immediate poll. Presentation calls this right after
// creating a job so it appears without waiting out the idle interval.
func (h *Handler) HandleWake(c *fiber.Ctx) error {
	h.service.Wake()
	return c.SendStatus(fiber.StatusAccepted)
}

// HandleDelete removes a job.
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	id := c.Params("id")
	l := logger.WithRayID(h.service.logger, c)

	if err := h.service.Delete(c.Context(), id); err != nil {
		l.Error("Job deletion failed", zap.String("job_id", id), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
