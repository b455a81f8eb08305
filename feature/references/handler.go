package references

import (
	"github.com/scenespin/reference-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for entity references and URL resolution.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the reference and URL routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/entities/:type/:id/references", h.HandleEntityReferences)

	urls := app.Group("/urls")
	urls.Post("/resolve", h.HandleResolve)
	urls.Post("/resolve-full", h.HandleResolveFull)
}

// HandleEntityReferences returns the reference collection for one entity.
func (h *Handler) HandleEntityReferences(c *fiber.Ctx) error {
	entityType := c.Params("type")
	entityID := c.Params("id")
	l := logger.WithRayID(h.service.logger, c)

	collections, isLoading, err := h.service.EntityReferences(c.Context(), entityType, []string{entityID})
	if err != nil {
		l.Error("Entity reference query failed",
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	data := collections[entityID]
	if data == nil {
		data = []Reference{}
	}

	return c.JSON(Snapshot{Data: data, IsLoading: isLoading})
}

type resolveRequest struct {
	Keys []string `json:"keys"`
}

// HandleResolve resolves a batch of storage keys to display URLs.
func (h *Handler) HandleResolve(c *fiber.Ctx) error {
	var req resolveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	l := logger.WithRayID(h.service.logger, c)

	urls, err := h.service.Resolver().Resolve(c.Context(), req.Keys)
	if err != nil {
		l.Error("URL batch resolution failed", zap.Int("keys", len(req.Keys)), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data":      urls,
		"isLoading": false,
	})
}

type resolveFullRequest struct {
	Key string `json:"key"`
}

// HandleResolveFull resolves a single full-size key, used when a reference
// becomes selected and its full-resolution object is needed.
func (h *Handler) HandleResolveFull(c *fiber.Ctx) error {
	var req resolveFullRequest
	if err := c.BodyParser(&req); err != nil || req.Key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	l := logger.WithRayID(h.service.logger, c)

	url, err := h.service.Resolver().ResolveFull(c.Context(), req.Key)
	if err != nil {
		l.Error("Full URL resolution failed", zap.String("key", req.Key), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data":      fiber.Map{req.Key: url},
		"isLoading": false,
	})
}
