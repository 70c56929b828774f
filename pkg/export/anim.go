package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/rigexport/pkg/anim"
	"github.com/Faultbox/rigexport/pkg/math"
)

type animDoc struct {
	Name      string       `json:"name"`
	LastFrame float64      `json:"lastFrame"`
	Channels  []channelDoc `json:"channels"`
}

type channelDoc struct {
	Name      string         `json:"name"`
	SubName   string         `json:"subName"`
	Type      int            `json:"type"`
	ROrd      int            `json:"rord"`
	Expr      int            `json:"expr"`
	Size      int            `json:"size"`
	LastFrame float64        `json:"lastFrame"`
	Comp      [][][4]float64 `json:"comp"`
}

// WriteAnimation writes a as an .anim document. indent is the number of
// spaces per level; zero writes compact JSON.
func WriteAnimation(w io.Writer, a *anim.Animation, indent int) error {
	doc := animDoc{
		Name:      a.Name,
		LastFrame: a.LastFrame,
		Channels:  make([]channelDoc, len(a.Channels)),
	}
	for i, ch := range a.Channels {
		cd := channelDoc{
			Name:      ch.Name,
			SubName:   ch.SubName,
			Type:      int(ch.Kind),
			ROrd:      int(ch.RotationOrder),
			Expr:      int(ch.Interp),
			Size:      ch.Size,
			LastFrame: ch.LastFrame,
			Comp:      make([][][4]float64, len(ch.Components)),
		}
		for ci, c := range ch.Components {
			keys := make([][4]float64, len(c.Keyframes))
			for ki, k := range c.Keyframes {
				keys[ki] = k.Tuple()
			}
			cd.Comp[ci] = keys
		}
		doc.Channels[i] = cd
	}
	return writeJSON(w, doc, indent)
}

// Wire shapes for reading. Pointers detect missing keys.
type animWire struct {
	Name      *string        `json:"name"`
	LastFrame *float64       `json:"lastFrame"`
	Channels  *[]channelWire `json:"channels"`
}

type channelWire struct {
	Name      *string        `json:"name"`
	SubName   *string        `json:"subName"`
	Type      *int           `json:"type"`
	ROrd      *int           `json:"rord"`
	Expr      *int           `json:"expr"`
	Size      *int           `json:"size"`
	LastFrame *float64       `json:"lastFrame"`
	Comp      *[][][]float64 `json:"comp"`
}

// ParseAnimation reads an .anim document with the runtime loader's checks.
// Only the first size components of a channel are kept; an out-of-range
// expression reads as constant and an unknown rotation order as XYZ.
func ParseAnimation(data []byte) (*anim.Animation, error) {
	var doc animWire
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	switch {
	case doc.Name == nil:
		return nil, fmt.Errorf("%w: no animation name", ErrMalformed)
	case doc.LastFrame == nil:
		return nil, fmt.Errorf("%w: no lastFrame", ErrMalformed)
	case doc.Channels == nil:
		return nil, fmt.Errorf("%w: no channels", ErrMalformed)
	}

	a := &anim.Animation{
		Name:      *doc.Name,
		LastFrame: *doc.LastFrame,
		Channels:  make([]anim.Channel, len(*doc.Channels)),
	}
	for i, cw := range *doc.Channels {
		ch, err := parseChannel(cw)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", i, err)
		}
		a.Channels[i] = ch
	}
	return a, nil
}

func parseChannel(cw channelWire) (anim.Channel, error) {
	var ch anim.Channel
	for _, f := range []struct {
		key string
		ok  bool
	}{
		{"name", cw.Name != nil},
		{"subName", cw.SubName != nil},
		{"type", cw.Type != nil},
		{"rord", cw.ROrd != nil},
		{"expr", cw.Expr != nil},
		{"size", cw.Size != nil},
		{"comp", cw.Comp != nil},
	} {
		if !f.ok {
			return ch, fmt.Errorf("%w: no %s", ErrMalformed, f.key)
		}
	}

	size := *cw.Size
	comp := *cw.Comp
	if size < 1 {
		return ch, fmt.Errorf("%w: size %d", ErrMalformed, size)
	}
	if len(comp) < size {
		return ch, fmt.Errorf("%w: %d components for size %d", ErrMalformed, len(comp), size)
	}

	switch {
	case *cw.Type == int(anim.ScalarGroup):
		ch.Kind = anim.ScalarGroup
	case *cw.Type == int(anim.Quaternion) && size == anim.QuaternionSize:
		ch.Kind = anim.Quaternion
	default:
		return ch, fmt.Errorf("%w: type %d with size %d", ErrMalformed, *cw.Type, size)
	}

	ch.Name = *cw.Name
	ch.SubName = *cw.SubName
	ch.Size = size
	ch.RotationOrder = math.RotXYZ
	ch.Interp = anim.Constant
	if e := *cw.Expr; e >= 0 && e <= int(anim.QLinear) {
		ch.Interp = anim.Interpolation(e)
	}

	ch.Components = make([]anim.Component, size)
	for ci := 0; ci < size; ci++ {
		tuples := comp[ci]
		if len(tuples) == 0 {
			return ch, fmt.Errorf("%w: component %d has no keyframes", ErrMalformed, ci)
		}
		keys := make([]anim.Keyframe, len(tuples))
		for ki, tp := range tuples {
			if len(tp) != 4 {
				return ch, fmt.Errorf("%w: component %d keyframe %d has %d values", ErrMalformed, ci, ki, len(tp))
			}
			keys[ki] = anim.Keyframe{Frame: tp[0], Value: tp[1], InSlope: tp[2], OutSlope: tp[3], Interp: ch.Interp}
			if tp[0] > ch.LastFrame {
				ch.LastFrame = tp[0]
			}
		}
		ch.Components[ci] = anim.Component{Keyframes: keys}
	}
	if cw.LastFrame != nil {
		ch.LastFrame = *cw.LastFrame
	}
	return ch, nil
}

// ParseAnimationFile reads an .anim document from disk.
func ParseAnimationFile(path string) (*anim.Animation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading animation file: %w", err)
	}
	return ParseAnimation(data)
}
