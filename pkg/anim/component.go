package anim

import (
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/rigexport/pkg/scene"
)

// Component is one scalar curve: keyframes in ascending frame order.
type Component struct {
	Keyframes []Keyframe
}

// Len returns the number of keyframes.
func (c Component) Len() int {
	return len(c.Keyframes)
}

// NewComponent resolves host keys into a Component and rescales slopes to
// per-segment tangents for Hermite evaluation.
//
// Key i > 0 is scaled by the length of the segment ending at it. After that
// the last key is scaled again by the length of the first segment. The
// second step matches the existing .anim files and runtime and must not be
// changed without re-exporting them.
func NewComponent(keys []scene.Keyframe, fps float64, log *zap.Logger) Component {
	sorted := make([]scene.Keyframe, len(keys))
	copy(sorted, keys)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Frame < sorted[j].Frame })

	c := Component{Keyframes: make([]Keyframe, 0, len(sorted))}
	for i, hk := range sorted {
		k := ResolveKeyframe(hk, fps, log)
		if i > 0 {
			segment := k.Frame - c.Keyframes[i-1].Frame
			k.InSlope *= segment
			k.OutSlope *= segment
		}
		c.Keyframes = append(c.Keyframes, k)
	}

	if n := len(c.Keyframes); n > 1 {
		segment := c.Keyframes[1].Frame - c.Keyframes[0].Frame
		last := &c.Keyframes[n-1]
		last.InSlope *= segment
		last.OutSlope *= segment
	}
	return c
}

// bracket finds the keys around frame. Outside the key range both results
// are the nearest end key.
func (c Component) bracket(frame float64) (a, b Keyframe) {
	keys := c.Keyframes
	first, last := 0, len(keys)-1
	for last-first > 1 {
		mid := first + (last-first)/2
		if keys[mid].Frame < frame {
			first = mid
		} else {
			last = mid
		}
	}

	switch {
	case frame <= keys[first].Frame:
		return keys[first], keys[first]
	case frame < keys[last].Frame:
		return keys[first], keys[last]
	default:
		return keys[last], keys[last]
	}
}
