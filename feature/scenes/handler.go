package scenes

import (
	"fmt"

	"github.com/scenespin/reference-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the scene tree.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the scene routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/scenes")
	group.Get("/", h.HandleScenes)
	group.Post("/refresh", h.HandleRefresh)
}

// HandleScenes returns the reconstructed scene/shot/variation tree. The
// optional scope query must name the workspace this server is bound to.
func (h *Handler) HandleScenes(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if scope := c.Query("scope"); scope != "" && scope != h.service.Scope() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("unknown scope %q", scope),
		})
	}

	scenes, isLoading, err := h.service.Scenes(c.Context())
	if err != nil {
		l.Error("Scene tree query failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if scenes == nil {
		scenes = []Scene{}
	}

	return c.JSON(Snapshot{Scenes: scenes, IsLoading: isLoading})
}

// HandleRefresh invalidates the tree and rebuilds it immediately.
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	h.service.Invalidate()
	return h.HandleScenes(c)
}
