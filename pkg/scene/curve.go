package scene

import (
	"sort"

	"github.com/Faultbox/rigexport/pkg/math"
)

// outSlope and inSlope return the host tangents in value per second.
func (k Keyframe) outSlope() float64 {
	if !k.SlopeUsed {
		return 0
	}
	return k.Slope
}

func (k Keyframe) inSlope() float64 {
	if !k.SlopeUsed {
		return 0
	}
	if k.SlopeTied {
		return k.Slope
	}
	return k.InSlope
}

// evalCurve evaluates keys at frame. Keys must be sorted by frame. The
// segment between two keys is shaped by the expression of its left key.
func evalCurve(keys []Keyframe, fallback, frame, fps float64) float64 {
	if len(keys) == 0 {
		return fallback
	}

	i := sort.Search(len(keys), func(i int) bool { return keys[i].Frame > frame })
	if i == 0 {
		return keys[0].Value
	}
	if i == len(keys) {
		return keys[len(keys)-1].Value
	}

	a, b := keys[i-1], keys[i]
	span := b.Frame - a.Frame
	if span <= 0 {
		return b.Value
	}
	t := (frame - a.Frame) / span

	switch a.Expression {
	case "linear()", "qlinear()":
		return a.Value + t*(b.Value-a.Value)
	case "cubic()":
		seconds := span / fps
		return math.Hermite(a.Value, a.outSlope()*seconds, b.Value, b.inSlope()*seconds, t)
	default:
		return a.Value
	}
}
