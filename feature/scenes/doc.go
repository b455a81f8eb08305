// Package scenes rebuilds the scene -> shot -> variation tree from the flat
// remote object collection.
//
// The tree is reconstructed from scratch on every refresh, purely from
// embedded metadata. Frames are primaries, videos are secondaries; the two
// halves of a variation are joined by the (sceneId, shotNumber, timestamp)
// composite key, and videos without a saved frame still surface as
// secondary-only variations. Shots are ordered ascending by number,
// variations newest first, and the newest variation of each shot is tagged
// current.
//
// # HTTP Endpoints
//
//   - GET  /scenes/         : the reconstructed tree
//   - POST /scenes/refresh  : invalidate and rebuild immediately
package scenes
