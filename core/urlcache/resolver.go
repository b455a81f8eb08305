package urlcache

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/scenespin/reference-sync/core/metrics"
	"github.com/scenespin/reference-sync/core/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Issuer is the capability interface for the URL issuing service.
// Implementations return a URL for every requested key; keys that cannot
// be resolved (deleted between polls, server-side 404) map to the empty
// string rather than failing the batch. An error is returned only when
// the whole call fails.
type Issuer interface {
	IssueURLs(ctx context.Context, keys []string, ttl time.Duration) (map[string]string, error)
}

// entry is one cached batch resolution.
type entry struct {
	urls  map[string]string
	built time.Time
	ttl   time.Duration
}

// isExpired returns true if this entry has outlived its freshness window.
// A zero TTL disables caching entirely.
func (e *entry) isExpired() bool {
	if e.ttl == 0 {
		return true
	}
	return time.Since(e.built) > e.ttl
}

// Resolver maps sets of storage keys to displayable URLs.
//
// Cache entries are keyed by the identity of the requested key set (sorted,
// deduplicated), so two calls for the same set in different order or with
// duplicates hit the same entry and issue at most one network call between
// them. Because every write is keyed by its own request's set identity, a
// late response for a superseded request lands under its own key and can
// never clobber a newer batch.
type Resolver struct {
	cfg    Config
	issuer Issuer
	logger *zap.Logger

	mu      sync.RWMutex
	entries map[string]*entry
	sf      singleflight.Group
}

// NewResolver creates a resolver for the configured mode. The issuer may be
// nil in proxy mode, which performs no network calls.
func NewResolver(cfg Config, issuer Issuer, logger *zap.Logger) *Resolver {
	return &Resolver{
		cfg:     cfg,
		issuer:  issuer,
		logger:  logger,
		entries: make(map[string]*entry),
	}
}

// BatchKey returns the cache identity for a set of storage keys: the sorted,
// deduplicated key list joined into one string.
func BatchKey(keys []string) string {
	seen := make(map[string]struct{}, len(keys))
	unique := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, k)
	}
	sort.Strings(unique)
	return strings.Join(unique, "\n")
}

// Resolve returns a displayable URL for every key in the set. Keys that
// cannot be resolved map to the empty string; callers render a placeholder.
func (r *Resolver) Resolve(ctx context.Context, keys []string) (map[string]string, error) {
	batchKey := BatchKey(keys)
	if batchKey == "" {
		return map[string]string{}, nil
	}
	unique := strings.Split(batchKey, "\n")

	if r.cfg.Mode == ModeProxy {
		// Stable URLs derived from a template; no network, no expiry.
		urls := make(map[string]string, len(unique))
		base := strings.TrimSuffix(r.cfg.ProxyBaseURL, "/")
		for _, k := range unique {
			urls[k] = base + "/" + k
		}
		return urls, nil
	}

	// Fast path: fresh cached batch.
	r.mu.RLock()
	cached, exists := r.entries[batchKey]
	r.mu.RUnlock()

	if exists && !cached.isExpired() {
		metrics.URLCacheHits.Inc()
		return cached.urls, nil
	}

	metrics.URLCacheMisses.Inc()

	// Slow path: issue the batch, collapsing concurrent misses for the
	// same key set into a single upstream call.
	result, err, _ := r.sf.Do(batchKey, func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		r.mu.RLock()
		cached, exists := r.entries[batchKey]
		r.mu.RUnlock()

		if exists && !cached.isExpired() {
			return cached.urls, nil
		}

		urls, err := r.issue(ctx, unique)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.entries[batchKey] = &entry{
			urls:  urls,
			built: time.Now(),
			ttl:   time.Duration(r.cfg.FreshnessSeconds) * time.Second,
		}
		r.mu.Unlock()

		return urls, nil
	})

	if err != nil {
		metrics.URLIssueErrors.Inc()
		return nil, err
	}

	return result.(map[string]string), nil
}

// ResolveFull resolves a single key. Used for lazy full-resolution loads
// when a reference becomes selected; thumbnail keys go through Resolve in
// the initial batch instead.
func (r *Resolver) ResolveFull(ctx context.Context, key string) (string, error) {
	urls, err := r.Resolve(ctx, []string{key})
	if err != nil {
		return "", err
	}
	return urls[key], nil
}

// Invalidate drops every cached batch containing any of the given keys.
// Called when the object set changes, e.g. on job completion.
func (r *Resolver) Invalidate(keys []string) {
	if len(keys) == 0 {
		return
	}
	needle := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		needle[k] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for batchKey, e := range r.entries {
		for k := range e.urls {
			if _, hit := needle[k]; hit {
				delete(r.entries, batchKey)
				break
			}
		}
	}
}

// InvalidateAll drops the entire cache.
func (r *Resolver) InvalidateAll() {
	r.mu.Lock()
	r.entries = make(map[string]*entry)
	r.mu.Unlock()
}

// issue calls the issuing service with bounded retries on transient errors.
func (r *Resolver) issue(ctx context.Context, keys []string) (map[string]string, error) {
	if r.issuer == nil {
		return nil, fmt.Errorf("signed mode requires an issuer")
	}

	ttl := time.Duration(r.cfg.SignedTTLSeconds) * time.Second

	var urls map[string]string
	err := utils.WithBackoff(ctx, 3, 250*time.Millisecond, func() error {
		var issueErr error
		urls, issueErr = r.issuer.IssueURLs(ctx, keys, ttl)
		return issueErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to issue urls for %d keys: %w", len(keys), err)
	}

	// Every requested key gets an entry, resolvable or not.
	for _, k := range keys {
		if _, ok := urls[k]; !ok {
			urls[k] = ""
		}
	}

	return urls, nil
}
