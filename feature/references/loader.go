package references

import (
	"github.com/scenespin/reference-sync/core/urlcache"
	"github.com/scenespin/reference-sync/feature/catalog"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the references feature for one workspace scope.
func NewFeature(lister catalog.Lister, resolver *urlcache.Resolver, logger *zap.Logger, scope string) *Feature {
	svc := NewService(lister, resolver, logger, scope)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Service exposes the underlying service so other features (the job poller)
// can wire their invalidation hooks to it.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "references"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
