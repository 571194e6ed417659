package keyframe

import (
	"math"
	"sort"
)

// Strategy selects how sample positions are spread inside a scene.
type Strategy int

const (
	// StrategyUniformInterval spreads picks evenly across the scene span,
	// always including the first and last frame when more than one pick
	// is requested.
	StrategyUniformInterval Strategy = iota

	// StrategyMiddle picks the single middle frame of the scene.
	StrategyMiddle

	// StrategyStartMiddleEnd picks the scene start, and adds the end and
	// middle frames as the target count allows.
	StrategyStartMiddleEnd
)

// ParseStrategy maps a configuration string to a Strategy.
// Unknown values fall back to StrategyUniformInterval.
func ParseStrategy(s string) Strategy {
	switch s {
	case "middle":
		return StrategyMiddle
	case "start_middle_end":
		return StrategyStartMiddleEnd
	default:
		return StrategyUniformInterval
	}
}

func (s Strategy) String() string {
	switch s {
	case StrategyMiddle:
		return "middle"
	case StrategyStartMiddleEnd:
		return "start_middle_end"
	default:
		return "uniform_interval"
	}
}

// Sample returns a deterministic, ascending set of absolute frame indices
// within [scene.StartFrame, scene.EndFrame). It returns nil when targetCount
// or the scene frame span is non-positive. The result holds at most
// min(targetCount, span) indices; clamping collisions may shrink it further
// and are accepted rather than re-sampled.
func Sample(scene Scene, targetCount int, strategy Strategy) []int {
	span := scene.FrameSpan()
	if targetCount <= 0 || span <= 0 {
		return nil
	}

	actual := targetCount
	if span < actual {
		actual = span
	}
	if actual < 1 {
		actual = 1
	}

	start := scene.StartFrame
	last := span - 1 // last valid relative offset

	var picks []int
	switch strategy {
	case StrategyMiddle:
		picks = []int{start + last/2}
	case StrategyStartMiddleEnd:
		picks = append(picks, start)
		if actual > 2 {
			picks = append(picks, start+last/2)
		}
		if actual > 1 {
			picks = append(picks, start+last)
		}
	default:
		if actual == 1 {
			picks = []int{start + last/2}
			break
		}
		picks = make([]int, 0, actual)
		for i := 0; i < actual; i++ {
			offset := int(math.Round(float64(i) * float64(last) / float64(actual-1)))
			picks = append(picks, start+offset)
		}
	}

	seen := make(map[int]struct{}, len(picks))
	out := make([]int, 0, len(picks))
	for _, p := range picks {
		if p < start {
			p = start
		}
		if limit := scene.EndFrame - 1; p > limit {
			p = limit
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Ints(out)

	if len(out) > actual {
		out = out[:actual]
	}
	return out
}
