// Package anim builds animation exports from host curves: keyframe tangent
// resolution, per-channel normalization and animation assembly.
package anim

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/rigexport/pkg/scene"
)

// Interpolation is the curve segment function. Values are the exported
// "expr" codes.
type Interpolation uint8

const (
	Constant Interpolation = 0
	Linear   Interpolation = 1
	Cubic    Interpolation = 2
	QLinear  Interpolation = 3
)

// String returns the interpolation name.
func (i Interpolation) String() string {
	switch i {
	case Constant:
		return "constant"
	case Linear:
		return "linear"
	case Cubic:
		return "cubic"
	case QLinear:
		return "qlinear"
	default:
		return fmt.Sprintf("Interpolation(%d)", uint8(i))
	}
}

// ParseInterpolation maps a host curve expression to an interpolation kind.
func ParseInterpolation(expr string) (Interpolation, bool) {
	switch expr {
	case "constant()":
		return Constant, true
	case "linear()":
		return Linear, true
	case "cubic()":
		return Cubic, true
	case "qlinear()":
		return QLinear, true
	default:
		return Constant, false
	}
}

// Keyframe is one exported curve sample. Slopes are in value per frame, or
// per segment once the owning Component has scaled them.
type Keyframe struct {
	Frame    float64
	Value    float64
	InSlope  float64
	OutSlope float64
	Interp   Interpolation
}

// Tuple returns the exported [frame, value, inSlope, outSlope] form.
func (k Keyframe) Tuple() [4]float64 {
	return [4]float64{k.Frame, k.Value, k.InSlope, k.OutSlope}
}

// ResolveKeyframe converts a host key into a Keyframe. Slopes are divided by
// fps to turn value/second into value/frame. Unknown expressions fall back
// to Constant with a warning.
func ResolveKeyframe(k scene.Keyframe, fps float64, log *zap.Logger) Keyframe {
	var in, out float64
	if k.SlopeUsed {
		out = k.Slope
		if k.SlopeTied {
			in = out
		} else {
			in = k.InSlope
		}
	}

	interp, ok := ParseInterpolation(k.Expression)
	if !ok {
		orNop(log).Warn("unknown keyframe expression, using constant",
			zap.String("expr", k.Expression),
			zap.Float64("frame", k.Frame))
	}

	return Keyframe{
		Frame:    k.Frame,
		Value:    k.Value,
		InSlope:  in / fps,
		OutSlope: out / fps,
		Interp:   interp,
	}
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
