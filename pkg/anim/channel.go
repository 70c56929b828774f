package anim

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/rigexport/pkg/math"
	"github.com/Faultbox/rigexport/pkg/scene"
)

// ChannelKind is the exported channel type. Values are the "type" codes.
type ChannelKind uint8

const (
	ScalarGroup ChannelKind = 0
	Quaternion  ChannelKind = 2
)

// String returns the kind name.
func (k ChannelKind) String() string {
	switch k {
	case ScalarGroup:
		return "scalar"
	case Quaternion:
		return "quaternion"
	default:
		return fmt.Sprintf("ChannelKind(%d)", uint8(k))
	}
}

// sourceKind is the host type code before normalization.
type sourceKind uint8

const (
	sourceScalar sourceKind = 0
	sourceEuler  sourceKind = 1
)

// QuaternionSize is the component count of a quaternion channel.
const QuaternionSize = 4

// eulerSize is the number of host curves of an Euler rotation channel.
const eulerSize = 3

// Channel is one animated attribute.
type Channel struct {
	Name          string
	SubName       string
	Kind          ChannelKind
	RotationOrder math.RotationOrder
	Size          int
	Interp        Interpolation
	LastFrame     float64
	Components    []Component
}

// ParseChannelName splits a host channel name such as "/obj/j_220:t" into
// the joint name and the attribute sub-name. Only the last path segment is
// used; "." is accepted in place of ":".
func ParseChannelName(full string) (name, subName string) {
	last := full
	if i := strings.LastIndex(full, "/"); i >= 0 {
		last = full[i+1:]
	}
	parts := strings.Split(strings.ReplaceAll(last, ".", ":"), ":")
	if len(parts) > 1 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}

func parseSourceKind(code int) (sourceKind, bool) {
	switch sourceKind(code) {
	case sourceScalar, sourceEuler:
		return sourceKind(code), true
	default:
		return 0, false
	}
}

// ChannelSource is the host description of one channel.
type ChannelSource struct {
	Name     string
	TypeCode int
	RotOrder string
	Size     int
	Values   []scene.Parm
}

// NewChannel normalizes a host channel. Euler rotations are resampled into a
// quaternion channel; every other channel keeps its native keys.
func NewChannel(src ChannelSource, fps float64, log *zap.Logger) (Channel, error) {
	log = orNop(log)
	name, subName := ParseChannelName(src.Name)
	ch := Channel{Name: name, SubName: subName}

	kind, ok := parseSourceKind(src.TypeCode)
	if !ok {
		return ch, configErr(src.Name, ErrUnknownChannelType, "type code %d", src.TypeCode)
	}
	order, ok := math.ParseRotationOrder(src.RotOrder)
	if !ok {
		return ch, configErr(src.Name, ErrUnknownRotationOrder, "%q", src.RotOrder)
	}
	ch.RotationOrder = order

	var components []Component
	switch kind {
	case sourceEuler:
		if len(src.Values) < eulerSize {
			return ch, configErr(src.Name, ErrMissingParm, "euler rotation needs %d curves, got %d", eulerSize, len(src.Values))
		}
		ch.Kind = Quaternion
		components = resampleEuler(src.Values[:eulerSize], order, fps, log)
	default:
		if src.Size < 1 {
			return ch, configErr(src.Name, ErrEmptyChannel, "size %d", src.Size)
		}
		if len(src.Values) < src.Size {
			return ch, configErr(src.Name, ErrMissingParm, "size %d but %d value curves", src.Size, len(src.Values))
		}
		ch.Kind = ScalarGroup
		components = make([]Component, src.Size)
		for i := range components {
			components[i] = NewComponent(src.Values[i].Keyframes(), fps, log)
		}
	}

	if err := ch.setComponents(components, log); err != nil {
		return ch, err
	}
	return ch, nil
}

// resampleEuler evaluates the three Euler curves at the union of their key
// frames and emits one flat QLINEAR key per quaternion component.
func resampleEuler(curves []scene.Parm, order math.RotationOrder, fps float64, log *zap.Logger) []Component {
	frames := unionFrames(curves)

	components := make([]Component, QuaternionSize)
	for i := range components {
		components[i].Keyframes = make([]Keyframe, 0, len(frames))
	}

	for _, f := range frames {
		deg := math.Vec3{
			X: float32(curves[0].EvalAtFrame(f)),
			Y: float32(curves[1].EvalAtFrame(f)),
			Z: float32(curves[2].EvalAtFrame(f)),
		}
		q := math.QuatFromEuler(math.Radians(deg), order).Array()
		for i := range components {
			k := ResolveKeyframe(scene.Keyframe{
				Frame:      f,
				Value:      float64(q[i]),
				Expression: "qlinear()",
			}, fps, log)
			components[i].Keyframes = append(components[i].Keyframes, k)
		}
	}
	return components
}

// unionFrames returns the sorted, de-duplicated key frames of all curves.
func unionFrames(curves []scene.Parm) []float64 {
	seen := make(map[float64]struct{})
	var frames []float64
	for _, c := range curves {
		for _, k := range c.Keyframes() {
			if _, dup := seen[k.Frame]; dup {
				continue
			}
			seen[k.Frame] = struct{}{}
			frames = append(frames, k.Frame)
		}
	}
	sort.Float64s(frames)
	return frames
}

// setComponents installs the components, picks the channel interpolation
// from the first key of the first component and coerces any other key to
// it. The authoritative kind is positional, not a majority vote.
func (ch *Channel) setComponents(components []Component, log *zap.Logger) error {
	if len(components) == 0 {
		return configErr(ch.Name, ErrEmptyChannel, "no components")
	}
	for i, c := range components {
		if c.Len() == 0 {
			return configErr(ch.Name, ErrEmptyChannel, "component %d", i)
		}
	}

	interp := components[0].Keyframes[0].Interp
	lastFrame := 0.0
	mismatched := 0
	for ci := range components {
		keys := components[ci].Keyframes
		for ki := range keys {
			if keys[ki].Interp != interp {
				keys[ki].Interp = interp
				mismatched++
			}
			if keys[ki].Frame > lastFrame {
				lastFrame = keys[ki].Frame
			}
		}
	}
	if mismatched > 0 {
		log.Warn("component expressions differ, using channel default",
			zap.String("channel", ch.Name),
			zap.String("subName", ch.SubName),
			zap.Stringer("interp", interp),
			zap.Int("keys", mismatched))
	}

	ch.Components = components
	ch.Size = len(components)
	ch.Interp = interp
	ch.LastFrame = lastFrame
	return nil
}
