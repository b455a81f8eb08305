// Package references turns the flat remote object collection into stable,
// entity-scoped reference views.
//
// It reconciles three concerns:
//  1. Classification: every object with a storage key lands in exactly one
//     display category, decided by a fixed precedence over its metadata.
//  2. Binding: classified references are grouped per entity, with archived
//     objects and clothing references excluded, and creation-sourced imagery
//     suppressed whenever production-sourced imagery exists for the entity.
//  3. Display URLs: each refresh pre-warms the URL resolution cache with the
//     thumbnail-first key batch so grid views render without per-item fetches.
//
// # Classification Precedence
//
// Clothing markers, headshot marker, explicit camera angle, the shared
// angle/background pipeline rule (background requires the background-type
// field IN ADDITION to the pipeline tag), explicit background type,
// production markers, creation markers, then a default that follows the
// entity's overall provenance.
//
// # HTTP Endpoints
//
//   - GET  /entities/:type/:id/references : entity reference collection
//   - POST /urls/resolve                  : batch display-URL resolution
//   - POST /urls/resolve-full             : lazy full-size resolution on selection
package references
