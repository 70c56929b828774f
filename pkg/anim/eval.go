package anim

import (
	"github.com/Faultbox/rigexport/pkg/math"
)

// Eval samples the channel at frame the way the runtime does: each component
// is bracketed independently, then the channel interpolation is applied.
// Quaternion channels slerp using the first component's parameter.
func (ch *Channel) Eval(frame float64) []float64 {
	n := len(ch.Components)
	a := make([]float64, n)
	b := make([]float64, n)
	left := make([]float64, n)
	right := make([]float64, n)
	t := make([]float64, n)

	interpolate := false
	for i, c := range ch.Components {
		ka, kb := c.bracket(frame)
		a[i], b[i] = ka.Value, kb.Value
		left[i], right[i] = ka.OutSlope, kb.InSlope
		if ka.Frame != kb.Frame {
			interpolate = true
			t[i] = (frame - ka.Frame) / (kb.Frame - ka.Frame)
		}
	}
	if !interpolate {
		return a
	}

	out := make([]float64, n)
	switch ch.Interp {
	case Linear:
		for i := range out {
			out[i] = a[i] + t[i]*(b[i]-a[i])
		}
	case Cubic:
		for i := range out {
			out[i] = math.Hermite(a[i], left[i], b[i], right[i], t[i])
		}
	case QLinear:
		if ch.Kind != Quaternion || n != QuaternionSize {
			for i := range out {
				out[i] = a[i] + t[i]*(b[i]-a[i])
			}
			break
		}
		qa := toQuat(a)
		qb := toQuat(b)
		q := qa.Slerp(qb, float32(t[0])).Array()
		for i := range out {
			out[i] = float64(q[i])
		}
	default:
		copy(out, a)
	}
	return out
}

func toQuat(v []float64) math.Quat {
	return math.Quat{X: float32(v[0]), Y: float32(v[1]), Z: float32(v[2]), W: float32(v[3])}
}
