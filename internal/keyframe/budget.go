package keyframe

import (
	"math"
	"sort"
)

// TierConfig maps scene duration to a per-scene keyframe target.
// Thresholds must be monotonic: ShortSceneMaxSec <= MediumSceneMaxSec.
type TierConfig struct {
	ShortSceneKeyframes  int
	MediumSceneKeyframes int
	LongSceneKeyframes   int

	ShortSceneMaxSec  float64
	MediumSceneMaxSec float64
}

// DefaultTierConfig returns the tier settings used when nothing is configured.
func DefaultTierConfig() TierConfig {
	return TierConfig{
		ShortSceneKeyframes:  1,
		MediumSceneKeyframes: 2,
		LongSceneKeyframes:   3,
		ShortSceneMaxSec:     3.0,
		MediumSceneMaxSec:    10.0,
	}
}

// TargetFor returns the keyframe target for a scene based on its duration.
func (c TierConfig) TargetFor(scene Scene) int {
	d := scene.DurationSec()
	switch {
	case d <= c.ShortSceneMaxSec:
		return c.ShortSceneKeyframes
	case d <= c.MediumSceneMaxSec:
		return c.MediumSceneKeyframes
	default:
		return c.LongSceneKeyframes
	}
}

// MergeWithBudget merges per-scene candidate sets into one deduplicated,
// ascending pool and enforces the global maximum by evenly spaced selection
// over pool positions (not frame values). Rounding collisions may yield
// slightly fewer than globalMax entries. A pool smaller than the configured
// global minimum is returned as-is; no upsampling is attempted.
func MergeWithBudget(perScene [][]int, globalMax int) []int {
	seen := make(map[int]struct{})
	var pool []int
	for _, set := range perScene {
		for _, idx := range set {
			if _, ok := seen[idx]; ok {
				continue
			}
			seen[idx] = struct{}{}
			pool = append(pool, idx)
		}
	}
	sort.Ints(pool)

	if globalMax <= 0 || len(pool) <= globalMax {
		return pool
	}
	if globalMax == 1 {
		return pool[:1]
	}

	lastPos := len(pool) - 1
	posSeen := make(map[int]struct{}, globalMax)
	out := make([]int, 0, globalMax)
	for i := 0; i < globalMax; i++ {
		pos := int(math.Round(float64(i) * float64(lastPos) / float64(globalMax-1)))
		if _, ok := posSeen[pos]; ok {
			continue
		}
		posSeen[pos] = struct{}{}
		out = append(out, pool[pos])
	}
	return out
}
