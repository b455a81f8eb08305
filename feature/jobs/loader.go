package jobs

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the jobs feature for one workspace scope.
func NewFeature(client Client, cfg Config, logger *zap.Logger, scope string) *Feature {
	svc := NewService(client, cfg, logger, scope)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Service exposes the underlying service for completion-hook wiring.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "jobs"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes and starts the poll loop.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	f.service.Start(context.Background())
	return nil
}

// Stop halts the poll loop; called on shutdown.
func (f *Feature) Stop() {
	f.service.Stop()
}
