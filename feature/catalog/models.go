package catalog

import (
	"time"

	"github.com/scenespin/reference-sync/core/utils"
)

// Entity types that own remote objects.
const (
	EntityCharacter = "character"
	EntityLocation  = "location"
	EntityAsset     = "asset"
	EntityScene     = "scene"
)

// Metadata keys. Remote objects carry free-form metadata; these are the keys
// the reference layer interprets. Everything else passes through untouched.
const (
	MetaEntityType     = "entity_type"
	MetaEntityID       = "entity_id"
	MetaUploadMethod   = "upload_method"
	MetaSource         = "source" // generation pipeline that produced the object
	MetaCameraAngle    = "camera_angle"
	MetaBackgroundType = "background_type"
	MetaVirtualTryOn   = "virtual_try_on"
	MetaHeadshot       = "headshot"
	MetaPoseID         = "pose_id"
	MetaBaseReference  = "base_reference"
	MetaThumbnailKey   = "thumbnail_key"
	MetaArchived       = "archived"

	MetaSceneID      = "scene_id"
	MetaSceneNumber  = "scene_number"
	MetaSceneHeading = "scene_heading"
	MetaShotNumber   = "shot_number"
	MetaKind         = "kind"        // frame or video
	MetaTakenAt      = "taken_at"    // unix millis of the variation
	MetaRecordedAt   = "recorded_at" // secondary recency fallback
)

// Generation pipelines. Angle and background images come out of the same
// pipeline; only the background_type field tells them apart.
const (
	SourceAngleGeneration = "angle-generation"
	SourcePoseGeneration  = "pose-generation"
	SourceSceneGeneration = "scene-generation"
)

// Upload methods.
const (
	UploadCharacterCreation = "character-creation"
	UploadLocationCreation  = "location-creation"
	UploadProduction        = "production"
	UploadVirtualTryOn      = "virtual-try-on"
)

// Object kinds within a scene shot.
const (
	KindFrame = "frame"
	KindVideo = "video"
)

// Object is the unit of truth: an opaque stored file identified by a storage
// key plus free-form metadata. Immutable once created; only Archived flips
// true on soft delete. Objects can disappear between polls (deletion is an
// external collaborator action this layer tolerates).
type Object struct {
	// StorageKey identifies the full-size object in the remote store.
	StorageKey string `json:"storage_key"`
	// ThumbnailKey identifies the small preview twin, if one exists.
	ThumbnailKey string `json:"thumbnail_key,omitempty"`
	// EntityType is the owning entity's type (character, location, ...).
	EntityType string `json:"entity_type"`
	// EntityID is the owning entity's identifier.
	EntityID string `json:"entity_id"`
	// Metadata carries the free-form annotations used for classification.
	Metadata map[string]any `json:"metadata"`
	// Archived marks a soft-deleted object.
	Archived bool `json:"archived"`
	// CreatedAt is when the object appeared in the store.
	CreatedAt time.Time `json:"created_at"`
}

// Meta returns the string form of a metadata value, or "" when absent.
func (o Object) Meta(key string) string {
	v, ok := o.Metadata[key]
	if !ok {
		return ""
	}
	return utils.ToString(v)
}

// MetaInt returns the integer form of a metadata value, or 0 when absent.
func (o Object) MetaInt(key string) int {
	v, ok := o.Metadata[key]
	if !ok {
		return 0
	}
	return utils.ToInt(v)
}

// MetaBool returns the boolean form of a metadata value.
func (o Object) MetaBool(key string) bool {
	v, ok := o.Metadata[key]
	if !ok {
		return false
	}
	return utils.ToBool(v)
}

// HasMeta reports whether a metadata key is present with a non-empty value.
func (o Object) HasMeta(key string) bool {
	return o.Meta(key) != ""
}

// DisplayKey returns the key to place in an initial resolution batch:
// the thumbnail when one exists, the full key otherwise. Full keys of
// thumbnailed objects are resolved lazily on selection.
func (o Object) DisplayKey() string {
	if o.ThumbnailKey != "" {
		return o.ThumbnailKey
	}
	return o.StorageKey
}
