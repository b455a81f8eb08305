package references

import (
	"fmt"

	"github.com/scenespin/reference-sync/feature/catalog"
)

// Category is the closed set of display buckets a remote object can land in.
// Exactly one category applies to any classifiable object.
type Category int

const (
	// CategoryHeadshot is a character face reference.
	CategoryHeadshot Category = iota
	// CategoryClothingReference is a virtual-try-on garment image. Dropped
	// from all entity collections.
	CategoryClothingReference
	// CategoryAngle is a location camera-angle image.
	CategoryAngle
	// CategoryBackground is a location background plate.
	CategoryBackground
	// CategoryProductionAsset is an image produced by a generation pipeline
	// or a production upload.
	CategoryProductionAsset
	// CategoryCreationAsset is a base reference from entity creation. Shown
	// only when production has nothing (last resort).
	CategoryCreationAsset
)

// String returns the category's wire name.
func (c Category) String() string {
	switch c {
	case CategoryHeadshot:
		return "headshot"
	case CategoryClothingReference:
		return "clothing-reference"
	case CategoryAngle:
		return "angle"
	case CategoryBackground:
		return "background"
	case CategoryProductionAsset:
		return "production-asset"
	case CategoryCreationAsset:
		return "creation-asset"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// MarshalText encodes the category as its wire name in JSON payloads.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Reference is a remote object annotated with exactly one category.
// Derived, never stored; recomputed whenever the object set changes.
type Reference struct {
	catalog.Object
	Category Category `json:"category"`
}

// Classify decides which bucket an object belongs to. Precedence is fixed,
// first match wins. entityHasProduction feeds the final default: an entity
// that has production imagery anywhere in its set defaults unknowns to
// production rather than creation.
//
// Returns ok=false for objects without a storage key; they cannot be
// displayed and are dropped.
func Classify(obj catalog.Object, entityHasProduction bool) (Category, bool) {
	if obj.StorageKey == "" {
		return 0, false
	}

	// 1. Explicit disqualifiers: clothing / virtual-try-on markers.
	if obj.MetaBool(catalog.MetaVirtualTryOn) || obj.Meta(catalog.MetaUploadMethod) == catalog.UploadVirtualTryOn {
		return CategoryClothingReference, true
	}

	// 2. Explicit headshot marker.
	if obj.MetaBool(catalog.MetaHeadshot) {
		return CategoryHeadshot, true
	}

	// 3. Explicit angle metadata.
	if obj.HasMeta(catalog.MetaCameraAngle) {
		return CategoryAngle, true
	}

	// 4. Background plates share the angle-generation pipeline. An object
	// from that pipeline is a background only if it ALSO carries a
	// background type; without one it stays an angle. This must be the
	// conjunction of both conditions, not either alone, or angle images
	// get silently misfiled as backgrounds.
	if obj.Meta(catalog.MetaSource) == catalog.SourceAngleGeneration {
		if obj.HasMeta(catalog.MetaBackgroundType) {
			return CategoryBackground, true
		}
		return CategoryAngle, true
	}
	if obj.HasMeta(catalog.MetaBackgroundType) {
		return CategoryBackground, true
	}

	// 5. Production pipeline markers.
	if HasProductionMarkers(obj) {
		return CategoryProductionAsset, true
	}

	// 6. Creation pipeline markers.
	if obj.MetaBool(catalog.MetaBaseReference) {
		return CategoryCreationAsset, true
	}
	switch obj.Meta(catalog.MetaUploadMethod) {
	case catalog.UploadCharacterCreation, catalog.UploadLocationCreation:
		return CategoryCreationAsset, true
	}

	// 7. Default follows the entity's overall provenance.
	if entityHasProduction {
		return CategoryProductionAsset, true
	}
	return CategoryCreationAsset, true
}

// HasProductionMarkers reports whether an object carries any
// production-pipeline tag: a generation source, a production upload method,
// or a pose identifier.
func HasProductionMarkers(obj catalog.Object) bool {
	switch obj.Meta(catalog.MetaSource) {
	case catalog.SourcePoseGeneration, catalog.SourceSceneGeneration:
		return true
	}
	if obj.Meta(catalog.MetaUploadMethod) == catalog.UploadProduction {
		return true
	}
	return obj.HasMeta(catalog.MetaPoseID)
}

// ClassifyAll classifies a whole object list. The per-entity production
// presence needed by the classification default is computed in a first pass
// over the same list, so the result depends only on the input.
func ClassifyAll(objects []catalog.Object) []Reference {
	production := make(map[string]bool)
	for _, obj := range objects {
		if HasProductionMarkers(obj) {
			production[entityKey(obj.EntityType, obj.EntityID)] = true
		}
	}

	refs := make([]Reference, 0, len(objects))
	for _, obj := range objects {
		category, ok := Classify(obj, production[entityKey(obj.EntityType, obj.EntityID)])
		if !ok {
			continue
		}
		refs = append(refs, Reference{Object: obj, Category: category})
	}
	return refs
}

func entityKey(entityType, entityID string) string {
	return entityType + "/" + entityID
}
