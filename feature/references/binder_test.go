package references

import (
	"testing"

	"github.com/scenespin/reference-sync/feature/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ref(key, entityID string, category Category) Reference {
	return Reference{
		Object: catalog.Object{
			StorageKey: key,
			EntityType: catalog.EntityCharacter,
			EntityID:   entityID,
		},
		Category: category,
	}
}

func TestBind_GroupsByEntity(t *testing.T) {
	refs := []Reference{
		ref("a.png", "char-1", CategoryProductionAsset),
		ref("b.png", "char-2", CategoryProductionAsset),
		ref("c.png", "char-1", CategoryHeadshot),
	}

	result := NewBinder().Bind(refs, catalog.EntityCharacter, []string{"char-1", "char-2"})
	assert.Len(t, result["char-1"], 2)
	assert.Len(t, result["char-2"], 1)
}

// Creation imagery is a last resort: one production reference on the entity
// hides every creation reference; removing production brings creation back.
func TestBind_CreationFallback(t *testing.T) {
	production := ref("prod.png", "char-1", CategoryProductionAsset)
	creation := ref("base.png", "char-1", CategoryCreationAsset)

	b := NewBinder()

	both := b.Bind([]Reference{production, creation}, catalog.EntityCharacter, []string{"char-1"})
	require.Len(t, both["char-1"], 1)
	assert.Equal(t, "prod.png", both["char-1"][0].StorageKey)

	creationOnly := b.Bind([]Reference{creation}, catalog.EntityCharacter, []string{"char-1"})
	require.Len(t, creationOnly["char-1"], 1)
	assert.Equal(t, "base.png", creationOnly["char-1"][0].StorageKey)
}

func TestBind_ExcludesArchivedAndClothing(t *testing.T) {
	archived := ref("old.png", "char-1", CategoryProductionAsset)
	archived.Archived = true
	clothing := ref("shirt.png", "char-1", CategoryClothingReference)
	visible := ref("keep.png", "char-1", CategoryProductionAsset)

	result := NewBinder().Bind([]Reference{archived, clothing, visible}, catalog.EntityCharacter, []string{"char-1"})
	require.Len(t, result["char-1"], 1)
	assert.Equal(t, "keep.png", result["char-1"][0].StorageKey)
}

func TestBind_IgnoresOtherEntities(t *testing.T) {
	refs := []Reference{
		ref("a.png", "char-1", CategoryProductionAsset),
		ref("b.png", "char-9", CategoryProductionAsset),
	}

	result := NewBinder().Bind(refs, catalog.EntityCharacter, []string{"char-1"})
	assert.Len(t, result, 1)
	assert.Contains(t, result, "char-1")
}

// When nothing relevant changed, Bind returns the previous map by
// reference, so downstream caches keyed on identity stay warm. The memo key
// tolerates id order and duplicates.
func TestBind_ReferentiallyStable(t *testing.T) {
	refs := []Reference{
		ref("a.png", "char-1", CategoryProductionAsset),
		ref("b.png", "char-2", CategoryHeadshot),
	}

	b := NewBinder()
	first := b.Bind(refs, catalog.EntityCharacter, []string{"char-1", "char-2"})
	second := b.Bind(refs, catalog.EntityCharacter, []string{"char-2", "char-1", "char-1"})

	// Map identity, not just equality: a write through one must be visible
	// through the other.
	first["probe"] = nil
	_, shared := second["probe"]
	assert.True(t, shared, "expected the memoized map to be returned by reference")
	delete(first, "probe")

	// A changed reference set misses the memo.
	third := b.Bind(refs[:1], catalog.EntityCharacter, []string{"char-1", "char-2"})
	_, stale := third["char-2"]
	assert.False(t, stale)
}
