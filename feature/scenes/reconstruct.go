package scenes

import (
	"sort"

	"github.com/scenespin/reference-sync/feature/catalog"
)

// variationKey joins a shot's primary object to its secondary counterpart.
// The tree keeps no identity across rebuilds except through this key.
type variationKey struct {
	sceneID    string
	shotNumber int
	timestamp  int64
}

// Reconstruct rebuilds the scene -> shot -> variation tree from a flat
// object list. It is a pure function of its input and is called from
// scratch on every refresh.
//
// Pass 1 partitions objects into primaries (frames) and secondaries
// (videos) and indexes the secondaries by composite key. Pass 2 emits one
// variation per primary, joined with its secondary when one exists. Pass 3
// emits the secondaries that matched no primary as secondary-only
// variations, so an orphaned clip is never invisible in the rebuilt tree.
//
// Objects with malformed scene metadata are dropped; one bad object must
// not blank the whole view.
func Reconstruct(objects []catalog.Object) []Scene {
	var primaries, secondaries []catalog.Object
	secondaryIndex := make(map[variationKey]catalog.Object)

	for _, obj := range objects {
		if obj.Archived || obj.StorageKey == "" {
			continue
		}
		key, ok := keyOf(obj)
		if !ok {
			continue
		}

		switch obj.Meta(catalog.MetaKind) {
		case catalog.KindFrame:
			primaries = append(primaries, obj)
		case catalog.KindVideo:
			secondaries = append(secondaries, obj)
			secondaryIndex[key] = obj
		}
	}

	type sceneAccum struct {
		scene Scene
		shots map[int][]Variation
	}
	accums := make(map[string]*sceneAccum)
	accumFor := func(obj catalog.Object) *sceneAccum {
		id := obj.Meta(catalog.MetaSceneID)
		acc, ok := accums[id]
		if !ok {
			acc = &sceneAccum{
				scene: Scene{
					ID:      id,
					Number:  obj.MetaInt(catalog.MetaSceneNumber),
					Heading: obj.Meta(catalog.MetaSceneHeading),
				},
				shots: make(map[int][]Variation),
			}
			accums[id] = acc
		}
		if acc.scene.Heading == "" {
			acc.scene.Heading = obj.Meta(catalog.MetaSceneHeading)
		}
		return acc
	}

	// Pass 2: primaries, joined with their secondary counterpart.
	matched := make(map[variationKey]struct{})
	for _, obj := range primaries {
		key, _ := keyOf(obj)
		variation := Variation{
			Timestamp: key.timestamp,
			Primary:   ptr(obj),
		}
		if sec, ok := secondaryIndex[key]; ok {
			variation.Secondary = ptr(sec)
			matched[key] = struct{}{}
		}
		acc := accumFor(obj)
		acc.shots[key.shotNumber] = append(acc.shots[key.shotNumber], variation)
	}

	// Pass 3: secondaries that found no primary. This must run over the
	// unmatched set explicitly; folding it into pass 2 would miss clips
	// whose frame was never saved.
	for _, obj := range secondaries {
		key, _ := keyOf(obj)
		if _, ok := matched[key]; ok {
			continue
		}
		acc := accumFor(obj)
		acc.shots[key.shotNumber] = append(acc.shots[key.shotNumber], Variation{
			Timestamp: key.timestamp,
			Secondary: ptr(obj),
		})
	}

	// Assemble, sort, and tag the current variation per shot.
	result := make([]Scene, 0, len(accums))
	for _, acc := range accums {
		numbers := make([]int, 0, len(acc.shots))
		for n := range acc.shots {
			numbers = append(numbers, n)
		}
		sort.Ints(numbers)

		for _, n := range numbers {
			variations := acc.shots[n]
			sort.SliceStable(variations, func(i, j int) bool {
				if variations[i].Timestamp != variations[j].Timestamp {
					return variations[i].Timestamp > variations[j].Timestamp
				}
				return recency(variations[i]) > recency(variations[j])
			})
			variations[0].IsCurrent = true
			acc.scene.Shots = append(acc.scene.Shots, Shot{
				Number:     n,
				Variations: variations,
			})
		}

		result = append(result, acc.scene)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Number != result[j].Number {
			return result[i].Number < result[j].Number
		}
		return result[i].ID < result[j].ID
	})

	return result
}

// keyOf extracts the composite variation key. ok is false when the scene id
// or shot number is missing or malformed.
func keyOf(obj catalog.Object) (variationKey, bool) {
	sceneID := obj.Meta(catalog.MetaSceneID)
	if sceneID == "" {
		return variationKey{}, false
	}
	if !obj.HasMeta(catalog.MetaShotNumber) {
		return variationKey{}, false
	}
	shot := obj.MetaInt(catalog.MetaShotNumber)
	if shot == 0 && obj.Meta(catalog.MetaShotNumber) != "0" {
		return variationKey{}, false
	}

	ts := int64(obj.MetaInt(catalog.MetaTakenAt))
	if ts == 0 {
		ts = int64(obj.MetaInt(catalog.MetaRecordedAt))
	}

	return variationKey{
		sceneID:    sceneID,
		shotNumber: shot,
		timestamp:  ts,
	}, true
}

// recency is the tie-break ordering field: the secondary's recording time
// when the variation carries one.
func recency(v Variation) int64 {
	if v.Secondary == nil {
		return 0
	}
	return int64(v.Secondary.MetaInt(catalog.MetaRecordedAt))
}

func ptr(obj catalog.Object) *catalog.Object {
	return &obj
}
