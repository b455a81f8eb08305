package scenes

import "github.com/scenespin/reference-sync/feature/catalog"

// Variation is one take of a shot: a representative frame, its companion
// video, or both when the two were produced together.
type Variation struct {
	// Timestamp is the variation's creation time in unix milliseconds.
	Timestamp int64 `json:"timestamp"`
	// Primary is the representative frame, absent for orphaned videos.
	Primary *catalog.Object `json:"primary,omitempty"`
	// Secondary is the companion video, absent for frame-only takes.
	Secondary *catalog.Object `json:"secondary,omitempty"`
	// IsCurrent marks the newest variation of the shot. Exactly one
	// variation per shot carries it.
	IsCurrent bool `json:"is_current"`
}

// Shot is one numbered shot of a scene with its variations, newest first.
type Shot struct {
	Number     int         `json:"number"`
	Variations []Variation `json:"variations"`
}

// Scene is the top of the reconstructed tree.
type Scene struct {
	ID      string `json:"id"`
	Number  int    `json:"number"`
	Heading string `json:"heading,omitempty"`
	Shots   []Shot `json:"shots"`
}
