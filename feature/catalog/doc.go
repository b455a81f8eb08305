// Package catalog defines the remote object model and the listing capability.
//
// A remote object is an opaque stored file (image/video/audio) identified by
// a storage key plus free-form metadata. The catalog does not own the store:
// objects appear, flip to archived, or disappear entirely through external
// collaborators, and every consumer of this package is written to tolerate
// that.
//
// # Listing
//
// The Lister interface is the narrow capability this layer consumes for
// entity-wide scans. ListAll drains cursor-paginated results with bounded
// retries. StorageLister is the MinIO-backed implementation, reading domain
// metadata from S3 user metadata.
package catalog
