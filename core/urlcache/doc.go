// Package urlcache resolves sets of storage keys to displayable URLs.
//
// It supports two modes:
//
//   - proxy: URLs are derived deterministically from a template. No network
//     calls, no expiry.
//   - signed: batches are issued through the storage provider as time-limited
//     signed URLs and cached with a freshness window well below the signed
//     expiry, so cached URLs are stale-but-still-valid rather than reissued
//     on every request.
//
// # Batch Identity
//
// A cache entry's identity is the sorted, deduplicated list of requested keys
// joined into one string. Resolving [a,b] and [b,a] hits the same entry and
// issues at most one upstream call between them; concurrent misses for the
// same set are collapsed via singleflight. Because writes are keyed by the
// request's own set identity, a late response for a superseded key set cannot
// overwrite a newer batch.
//
// # Failure Mode
//
// Keys that cannot be resolved map to the empty string; callers render a
// placeholder. Only whole-call failures (network, cancellation) surface as
// errors, after bounded exponential-backoff retries.
package urlcache
