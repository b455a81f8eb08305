package references

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Binder groups classified references into per-entity collections.
//
// Collections never contain archived objects or clothing references, and an
// entity with any production-sourced reference hides its creation-sourced
// ones entirely (creation imagery is a last resort, shown only when
// production has nothing).
//
// Bind memoizes its last result keyed on the filtered object count and the
// sorted id list; a call where nothing relevant changed returns the previous
// map by reference so downstream caches keyed on identity stay warm.
type Binder struct {
	mu       sync.Mutex
	memoKey  string
	memoized map[string][]Reference
}

// NewBinder creates an empty binder.
func NewBinder() *Binder {
	return &Binder{}
}

// Bind returns entityID -> references for the requested entities. Ordering
// within a collection is unspecified; presentation decides.
func (b *Binder) Bind(refs []Reference, entityType string, entityIDs []string) map[string][]Reference {
	wanted := make(map[string]struct{}, len(entityIDs))
	for _, id := range entityIDs {
		wanted[id] = struct{}{}
	}

	filtered := make([]Reference, 0, len(refs))
	for _, ref := range refs {
		if ref.Archived {
			continue
		}
		if ref.Category == CategoryClothingReference {
			continue
		}
		if ref.EntityType != entityType {
			continue
		}
		if _, ok := wanted[ref.EntityID]; !ok {
			continue
		}
		filtered = append(filtered, ref)
	}

	sortedIDs := make([]string, 0, len(wanted))
	for id := range wanted {
		sortedIDs = append(sortedIDs, id)
	}
	sort.Strings(sortedIDs)
	key := fmt.Sprintf("%s|%d|%s", entityType, len(filtered), strings.Join(sortedIDs, ","))

	b.mu.Lock()
	defer b.mu.Unlock()
	if key == b.memoKey && b.memoized != nil {
		return b.memoized
	}

	result := group(filtered)

	b.memoKey = key
	b.memoized = result
	return result
}

// group buckets references by entity id and applies the
// production-suppresses-creation rule per entity.
func group(refs []Reference) map[string][]Reference {
	byEntity := make(map[string][]Reference)
	hasProduction := make(map[string]bool)

	for _, ref := range refs {
		byEntity[ref.EntityID] = append(byEntity[ref.EntityID], ref)
		if ref.Category == CategoryProductionAsset {
			hasProduction[ref.EntityID] = true
		}
	}

	for id, list := range byEntity {
		if !hasProduction[id] {
			continue
		}
		kept := make([]Reference, 0, len(list))
		for _, ref := range list {
			if ref.Category == CategoryCreationAsset {
				continue
			}
			kept = append(kept, ref)
		}
		byEntity[id] = kept
	}

	return byEntity
}
