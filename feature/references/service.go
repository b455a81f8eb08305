package references

import (
	"context"
	"sync"

	"github.com/scenespin/reference-sync/core/urlcache"
	"github.com/scenespin/reference-sync/feature/catalog"

	"go.uber.org/zap"
)

// Snapshot is what the presentation surface renders for an entity query.
type Snapshot struct {
	// Data is the entity's reference collection, possibly from the last
	// completed refresh if a newer one is in flight.
	Data []Reference `json:"data"`
	// IsLoading reports whether a refresh is currently in flight.
	IsLoading bool `json:"isLoading"`
}

// Service owns the scope's classified reference state: it scans the catalog,
// classifies, binds per entity, and pre-warms the URL cache with the
// thumbnail-first display batch.
type Service struct {
	lister   catalog.Lister
	resolver *urlcache.Resolver
	binder   *Binder
	logger   *zap.Logger
	scope    string

	mu         sync.RWMutex
	refs       []Reference
	loaded     bool
	refreshing bool
}

// NewService creates a references service for one workspace scope.
func NewService(lister catalog.Lister, resolver *urlcache.Resolver, logger *zap.Logger, scope string) *Service {
	return &Service{
		lister:   lister,
		resolver: resolver,
		binder:   NewBinder(),
		logger:   logger,
		scope:    scope,
	}
}

// EntityReferences returns the reference collections for the given entities.
// The first call scans the scope; later calls serve classified state until it
// is invalidated. While a refresh started by another caller is in flight, the
// last-known-good collections are returned with IsLoading set.
func (s *Service) EntityReferences(ctx context.Context, entityType string, entityIDs []string) (map[string][]Reference, bool, error) {
	s.mu.Lock()
	if s.loaded || s.refreshing {
		refs := s.refs
		inFlight := s.refreshing
		s.mu.Unlock()
		return s.binder.Bind(refs, entityType, entityIDs), inFlight, nil
	}
	s.refreshing = true
	s.mu.Unlock()

	err := s.refresh(ctx)

	s.mu.Lock()
	s.refreshing = false
	refs := s.refs
	hadData := len(refs) > 0
	s.mu.Unlock()

	if err != nil {
		// Prior data (if any) stays visible; the error is non-fatal then.
		s.logger.Warn("Scope refresh failed", zap.String("scope", s.scope), zap.Error(err))
		if !hadData {
			return nil, false, err
		}
	}

	return s.binder.Bind(refs, entityType, entityIDs), false, nil
}

// Resolver exposes the URL resolution cache to the presentation handlers.
func (s *Service) Resolver() *urlcache.Resolver {
	return s.resolver
}

// InvalidateScope discards the classified state and the display URLs of the
// current reference set, forcing a rescan on the next query. Wired to job
// completion so newly generated objects show up.
func (s *Service) InvalidateScope() {
	s.mu.Lock()
	refs := s.refs
	s.loaded = false
	s.mu.Unlock()

	keys := make([]string, 0, len(refs))
	for _, ref := range refs {
		keys = append(keys, ref.DisplayKey())
	}
	s.resolver.Invalidate(keys)

	s.logger.Debug("Scope invalidated", zap.String("scope", s.scope))
}

// refresh scans the scope, classifies everything, and pre-warms the URL
// cache with the thumbnail-first batch for the new reference set.
func (s *Service) refresh(ctx context.Context) error {
	objects, err := catalog.ListAll(ctx, s.lister, s.scope, catalog.Filters{})
	if err != nil {
		return err
	}

	refs := ClassifyAll(objects)

	s.mu.Lock()
	s.refs = refs
	s.loaded = true
	s.mu.Unlock()

	s.warmDisplayURLs(ctx, refs)

	return nil
}

// warmDisplayURLs resolves the display keys (thumbnail-first) of every
// non-archived reference so grid views render without per-item fetches.
// Resolution failures are logged and ignored; placeholders render instead.
func (s *Service) warmDisplayURLs(ctx context.Context, refs []Reference) {
	keys := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.Archived {
			continue
		}
		keys = append(keys, ref.DisplayKey())
	}
	if len(keys) == 0 {
		return
	}

	if _, err := s.resolver.Resolve(ctx, keys); err != nil {
		s.logger.Warn("Failed to pre-warm display URLs",
			zap.String("scope", s.scope),
			zap.Int("keys", len(keys)),
			zap.Error(err),
		)
	}
}
