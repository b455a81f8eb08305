package scenes

import (
	"context"
	"sync"

	"github.com/scenespin/reference-sync/feature/catalog"

	"go.uber.org/zap"
)

// Snapshot is what the presentation surface renders for the scene tree.
type Snapshot struct {
	Scenes    []Scene `json:"scenes"`
	IsLoading bool    `json:"isLoading"`
}

// Service rebuilds and serves the scene/shot/variation tree for one scope.
type Service struct {
	lister catalog.Lister
	logger *zap.Logger
	scope  string

	mu         sync.Mutex
	scenes     []Scene
	loaded     bool
	refreshing bool
}

// NewService creates a scenes service for one workspace scope.
func NewService(lister catalog.Lister, logger *zap.Logger, scope string) *Service {
	return &Service{
		lister: lister,
		logger: logger,
		scope:  scope,
	}
}

// Scenes returns the reconstructed tree. A refetch is just another call
// after Invalidate; while a refresh is in flight elsewhere, the last
// completed tree is returned with IsLoading set.
func (s *Service) Scenes(ctx context.Context) ([]Scene, bool, error) {
	s.mu.Lock()
	if s.loaded || s.refreshing {
		scenes := s.scenes
		inFlight := s.refreshing
		s.mu.Unlock()
		return scenes, inFlight, nil
	}
	s.refreshing = true
	s.mu.Unlock()

	objects, err := catalog.ListAll(ctx, s.lister, s.scope, catalog.Filters{EntityType: catalog.EntityScene})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshing = false

	if err != nil {
		s.logger.Warn("Scene scan failed", zap.String("scope", s.scope), zap.Error(err))
		if !s.loaded {
			return nil, false, err
		}
		return s.scenes, false, nil
	}

	// Rebuilt from scratch every refresh; no identity survives except
	// through the (sceneId, shotNumber, timestamp) key.
	s.scenes = Reconstruct(objects)
	s.loaded = true

	return s.scenes, false, nil
}

// Scope returns the workspace scope this service is bound to.
func (s *Service) Scope() string {
	return s.scope
}

// Invalidate discards the tree so the next query rebuilds it.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.loaded = false
	s.mu.Unlock()
}
