package anim

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/rigexport/pkg/scene"
)

// Animation is every channel of one host node.
type Animation struct {
	Name      string
	LastFrame float64
	Channels  []Channel
}

// Builder assembles Animations from host nodes.
type Builder struct {
	// FPS is the sampling rate used to convert slopes to per-frame units.
	FPS float64
	// Log receives non-fatal warnings. Nil discards them.
	Log *zap.Logger
}

// Build reads "numchannels" and the per-channel parameters name#, type#,
// rOrd#, size# and the value# tuple from node.
func (b *Builder) Build(node scene.Node) (*Animation, error) {
	if b.FPS <= 0 {
		return nil, configErr("", ErrInvalidFPS, "fps %v", b.FPS)
	}
	log := orNop(b.Log).With(zap.String("node", node.Path()))

	num, ok := node.Parm("numchannels")
	if !ok {
		return nil, configErr("", ErrMissingParm, "numchannels on %s", node.Path())
	}
	count := int(num.Eval())
	if count < 0 {
		return nil, configErr("numchannels", ErrInvalidChannelCount, "%d on %s", count, node.Path())
	}

	a := &Animation{
		Name:     node.Name(),
		Channels: make([]Channel, 0, count),
	}
	for i := 0; i < count; i++ {
		src, err := channelSource(node, i)
		if err != nil {
			return nil, err
		}
		ch, err := NewChannel(src, b.FPS, log)
		if err != nil {
			return nil, err
		}
		if ch.LastFrame > a.LastFrame {
			a.LastFrame = ch.LastFrame
		}
		log.Debug("channel built",
			zap.String("channel", ch.Name),
			zap.String("subName", ch.SubName),
			zap.Stringer("kind", ch.Kind),
			zap.Int("size", ch.Size),
			zap.Float64("lastFrame", ch.LastFrame))
		a.Channels = append(a.Channels, ch)
	}
	return a, nil
}

// Build is a shorthand for a Builder without logging.
func Build(node scene.Node, fps float64) (*Animation, error) {
	b := Builder{FPS: fps}
	return b.Build(node)
}

func channelSource(node scene.Node, idx int) (ChannelSource, error) {
	parm := func(prefix string) (scene.Parm, error) {
		name := fmt.Sprintf("%s%d", prefix, idx)
		p, ok := node.Parm(name)
		if !ok {
			return nil, configErr(name, ErrMissingParm, "on %s", node.Path())
		}
		return p, nil
	}

	name, err := parm("name")
	if err != nil {
		return ChannelSource{}, err
	}
	typ, err := parm("type")
	if err != nil {
		return ChannelSource{}, err
	}
	rord, err := parm("rOrd")
	if err != nil {
		return ChannelSource{}, err
	}
	size, err := parm("size")
	if err != nil {
		return ChannelSource{}, err
	}

	valueName := fmt.Sprintf("value%d", idx)
	values, ok := node.ParmTuple(valueName)
	if !ok {
		return ChannelSource{}, configErr(valueName, ErrMissingParm, "on %s", node.Path())
	}

	return ChannelSource{
		Name:     name.EvalString(),
		TypeCode: int(typ.Eval()),
		RotOrder: rord.EvalString(),
		Size:     int(size.Eval()),
		Values:   values,
	}, nil
}
