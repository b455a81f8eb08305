package references

import (
	"testing"

	"github.com/scenespin/reference-sync/feature/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obj(key string, meta map[string]any) catalog.Object {
	return catalog.Object{
		StorageKey: key,
		EntityType: catalog.EntityCharacter,
		EntityID:   "char-1",
		Metadata:   meta,
	}
}

func TestClassify_Precedence(t *testing.T) {
	tests := []struct {
		name string
		meta map[string]any
		want Category
	}{
		{
			name: "VirtualTryOnMarker",
			meta: map[string]any{catalog.MetaVirtualTryOn: "true"},
			want: CategoryClothingReference,
		},
		{
			name: "VirtualTryOnUploadMethod",
			meta: map[string]any{catalog.MetaUploadMethod: catalog.UploadVirtualTryOn},
			want: CategoryClothingReference,
		},
		{
			name: "ClothingBeatsAngle",
			meta: map[string]any{
				catalog.MetaVirtualTryOn: true,
				catalog.MetaCameraAngle:  "wide",
			},
			want: CategoryClothingReference,
		},
		{
			name: "Headshot",
			meta: map[string]any{catalog.MetaHeadshot: "true"},
			want: CategoryHeadshot,
		},
		{
			name: "ExplicitAngle",
			meta: map[string]any{catalog.MetaCameraAngle: "low"},
			want: CategoryAngle,
		},
		{
			name: "ExplicitBackgroundType",
			meta: map[string]any{catalog.MetaBackgroundType: "exterior"},
			want: CategoryBackground,
		},
		{
			name: "PoseGenerationSource",
			meta: map[string]any{catalog.MetaSource: catalog.SourcePoseGeneration},
			want: CategoryProductionAsset,
		},
		{
			name: "ProductionUpload",
			meta: map[string]any{catalog.MetaUploadMethod: catalog.UploadProduction},
			want: CategoryProductionAsset,
		},
		{
			name: "PoseIDPresent",
			meta: map[string]any{catalog.MetaPoseID: "pose-7"},
			want: CategoryProductionAsset,
		},
		{
			name: "BaseReference",
			meta: map[string]any{catalog.MetaBaseReference: "true"},
			want: CategoryCreationAsset,
		},
		{
			name: "CharacterCreationUpload",
			meta: map[string]any{catalog.MetaUploadMethod: catalog.UploadCharacterCreation},
			want: CategoryCreationAsset,
		},
		{
			name: "LocationCreationUpload",
			meta: map[string]any{catalog.MetaUploadMethod: catalog.UploadLocationCreation},
			want: CategoryCreationAsset,
		},
		{
			name: "BareMetadataDefaultsToCreation",
			meta: map[string]any{},
			want: CategoryCreationAsset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(obj("img.png", tt.meta), false)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// An object from the angle-generation pipeline is a background only when it
// also carries a background type. The pipeline tag alone keeps it an angle.
func TestClassify_AngleBackgroundAmbiguity(t *testing.T) {
	pipelineOnly := obj("img.png", map[string]any{
		catalog.MetaSource: catalog.SourceAngleGeneration,
	})
	got, ok := Classify(pipelineOnly, false)
	require.True(t, ok)
	assert.Equal(t, CategoryAngle, got)

	withBackgroundType := obj("img.png", map[string]any{
		catalog.MetaSource:         catalog.SourceAngleGeneration,
		catalog.MetaBackgroundType: "interior",
	})
	got, ok = Classify(withBackgroundType, false)
	require.True(t, ok)
	assert.Equal(t, CategoryBackground, got)
}

func TestClassify_DefaultFollowsEntityProvenance(t *testing.T) {
	bare := obj("img.png", map[string]any{})

	got, ok := Classify(bare, true)
	require.True(t, ok)
	assert.Equal(t, CategoryProductionAsset, got)

	got, ok = Classify(bare, false)
	require.True(t, ok)
	assert.Equal(t, CategoryCreationAsset, got)
}

func TestClassify_MissingStorageKeyDropped(t *testing.T) {
	_, ok := Classify(obj("", map[string]any{catalog.MetaCameraAngle: "wide"}), false)
	assert.False(t, ok)
}

// Every classifiable object lands in exactly one category: classification
// is total (never none) and exclusive (never two) by construction, so we
// assert totality over a metadata grid.
func TestClassifyAll_Total(t *testing.T) {
	objects := []catalog.Object{
		obj("a.png", map[string]any{catalog.MetaVirtualTryOn: "1"}),
		obj("b.png", map[string]any{catalog.MetaHeadshot: "1"}),
		obj("c.png", map[string]any{catalog.MetaCameraAngle: "high"}),
		obj("d.png", map[string]any{catalog.MetaSource: catalog.SourceAngleGeneration}),
		obj("e.png", map[string]any{catalog.MetaBackgroundType: "street"}),
		obj("f.png", map[string]any{catalog.MetaSource: catalog.SourcePoseGeneration}),
		obj("g.png", map[string]any{catalog.MetaBaseReference: "1"}),
		obj("h.png", nil),
		{StorageKey: "", Metadata: nil}, // unclassifiable, dropped
	}

	refs := ClassifyAll(objects)
	assert.Len(t, refs, 8)
	for _, ref := range refs {
		assert.NotEmpty(t, ref.Category.String())
	}
}

// ClassifyAll computes the production-presence default from the same list:
// a bare object on an entity with production imagery elsewhere defaults to
// production.
func TestClassifyAll_EntityContextDefault(t *testing.T) {
	bare := obj("bare.png", map[string]any{})
	produced := obj("gen.png", map[string]any{catalog.MetaSource: catalog.SourcePoseGeneration})

	refs := ClassifyAll([]catalog.Object{bare, produced})
	require.Len(t, refs, 2)
	assert.Equal(t, CategoryProductionAsset, refs[0].Category)
	assert.Equal(t, CategoryProductionAsset, refs[1].Category)

	// Same bare object without production context stays creation.
	refs = ClassifyAll([]catalog.Object{bare})
	require.Len(t, refs, 1)
	assert.Equal(t, CategoryCreationAsset, refs[0].Category)
}
