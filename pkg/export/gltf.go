package export

import (
	"fmt"
	"io"
	gomath "math"
	"sort"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/rigexport/pkg/anim"
	"github.com/Faultbox/rigexport/pkg/math"
	"github.com/Faultbox/rigexport/pkg/rig"
)

// GLTFOptions controls glTF output.
type GLTFOptions struct {
	// FPS converts frames to seconds.
	FPS float64
	// Binary writes a .glb container instead of .gltf JSON with an
	// embedded buffer.
	Binary bool
	// Log receives skipped-channel warnings. Nil discards them.
	Log *zap.Logger
}

// WriteGLTF writes the rig and its animations as a glTF 2.0 asset.
func WriteGLTF(w io.Writer, r *rig.Rig, anims []*anim.Animation, opts GLTFOptions) error {
	doc, err := BuildGLTF(r, anims, opts)
	if err != nil {
		return err
	}
	if !opts.Binary {
		for _, b := range doc.Buffers {
			b.EmbeddedResource()
		}
	}

	enc := gltf.NewEncoder(w)
	enc.AsBinary = opts.Binary
	return enc.Encode(doc)
}

// BuildGLTF converts the rig into one node per joint, in export order, and
// one skin whose joints are in skin order. Each animation becomes a glTF
// animation; channels are bound to joints by name and subName t, r or s.
func BuildGLTF(r *rig.Rig, anims []*anim.Animation, opts GLTFOptions) (*gltf.Document, error) {
	if opts.FPS <= 0 {
		return nil, fmt.Errorf("%w: fps %v", anim.ErrInvalidFPS, opts.FPS)
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "rigexport"

	addJoints(doc, r)
	addSkin(doc, r)
	for _, a := range anims {
		addAnimation(doc, r, a, opts.FPS, log.With(zap.String("animation", a.Name)))
	}
	return doc, nil
}

func addJoints(doc *gltf.Document, r *rig.Rig) {
	for _, j := range r.Joints() {
		t, q, s := j.Local.Decompose()
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:        j.Name,
			Translation: [3]float32{t.X, t.Y, t.Z},
			Rotation:    q.Array(),
			Scale:       [3]float32{s.X, s.Y, s.Z},
		})

		idx := uint32(j.ExportIndex)
		if j.Parent == rig.None {
			doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, idx)
		} else {
			parent := doc.Nodes[j.Parent]
			parent.Children = append(parent.Children, idx)
		}
	}
}

func addSkin(doc *gltf.Document, r *rig.Rig) {
	skinned := r.SkinJoints()
	if len(skinned) == 0 {
		return
	}

	joints := make([]uint32, len(skinned))
	ibm := make([][4][4]float32, len(skinned))
	for i, j := range skinned {
		joints[i] = uint32(j.ExportIndex)
		ibm[i] = j.InverseWorld.Columns()
	}
	ibmAcc := modeler.WriteAccessor(doc, gltf.TargetNone, ibm)

	doc.Skins = append(doc.Skins, &gltf.Skin{
		Name:                r.Joints()[0].Name,
		InverseBindMatrices: gltf.Index(ibmAcc),
		Skeleton:            gltf.Index(0),
		Joints:              joints,
	})
}

func addAnimation(doc *gltf.Document, r *rig.Rig, a *anim.Animation, fps float64, log *zap.Logger) {
	ga := &gltf.Animation{Name: a.Name}

	for i := range a.Channels {
		ch := &a.Channels[i]
		node := r.Find(ch.Name)
		if node == rig.None {
			log.Warn("channel has no joint, skipped", zap.String("channel", ch.Name), zap.String("subName", ch.SubName))
			continue
		}
		target, ok := channelTarget(ch, node)
		if !ok {
			log.Warn("channel target not supported, skipped", zap.String("channel", ch.Name), zap.String("subName", ch.SubName))
			continue
		}

		frames := sampleFrames(ch)
		times := make([]float32, len(frames))
		for fi, f := range frames {
			times[fi] = float32(f / fps)
		}
		keysAcc := modeler.WriteAccessor(doc, gltf.TargetNone, times)

		var samplesAcc uint32
		switch target.Path {
		case gltf.TRSRotation:
			samplesAcc = modeler.WriteAccessor(doc, gltf.TargetNone, sampleRotations(ch, frames))
		case gltf.TRSScale:
			samplesAcc = modeler.WriteAccessor(doc, gltf.TargetNone, sampleVec3(ch, frames, 1))
		default:
			samplesAcc = modeler.WriteAccessor(doc, gltf.TargetNone, sampleVec3(ch, frames, 0))
		}

		interp := gltf.InterpolationLinear
		if ch.Interp == anim.Constant {
			interp = gltf.InterpolationStep
		}
		ga.Samplers = append(ga.Samplers, &gltf.AnimationSampler{
			Input:         gltf.Index(keysAcc),
			Output:        gltf.Index(samplesAcc),
			Interpolation: interp,
		})
		ga.Channels = append(ga.Channels, &gltf.Channel{
			Sampler: gltf.Index(uint32(len(ga.Samplers) - 1)),
			Target:  target,
		})
	}

	if len(ga.Channels) > 0 {
		doc.Animations = append(doc.Animations, ga)
	}
}

func channelTarget(ch *anim.Channel, node int) (gltf.ChannelTarget, bool) {
	t := gltf.ChannelTarget{Node: gltf.Index(uint32(node))}
	switch ch.SubName {
	case "t":
		t.Path = gltf.TRSTranslation
	case "s":
		t.Path = gltf.TRSScale
	case "r":
		if ch.Kind != anim.Quaternion && ch.Size < 3 {
			return t, false
		}
		t.Path = gltf.TRSRotation
	default:
		return t, false
	}
	return t, true
}

// sampleFrames returns the frames a channel is sampled at: every key frame
// of every component, or every whole frame of the key range for cubic
// channels, which glTF cannot express with the exported tangents.
func sampleFrames(ch *anim.Channel) []float64 {
	seen := make(map[float64]struct{})
	var frames []float64
	for _, c := range ch.Components {
		for _, k := range c.Keyframes {
			if _, dup := seen[k.Frame]; dup {
				continue
			}
			seen[k.Frame] = struct{}{}
			frames = append(frames, k.Frame)
		}
	}
	sort.Float64s(frames)
	if ch.Interp != anim.Cubic || len(frames) < 2 {
		return frames
	}

	first := gomath.Floor(frames[0])
	last := gomath.Ceil(frames[len(frames)-1])
	baked := make([]float64, 0, int(last-first)+1)
	for f := first; f <= last; f++ {
		baked = append(baked, f)
	}
	return baked
}

func sampleVec3(ch *anim.Channel, frames []float64, def float32) [][3]float32 {
	out := make([][3]float32, len(frames))
	for i, f := range frames {
		v := ch.Eval(f)
		s := [3]float32{def, def, def}
		for c := 0; c < 3 && c < len(v); c++ {
			s[c] = float32(v[c])
		}
		out[i] = s
	}
	return out
}

// sampleRotations returns unit quaternions. Scalar rotation channels are
// Euler angles in degrees.
func sampleRotations(ch *anim.Channel, frames []float64) [][4]float32 {
	out := make([][4]float32, len(frames))
	for i, f := range frames {
		v := ch.Eval(f)
		var q math.Quat
		if ch.Kind == anim.Quaternion {
			q = math.Quat{X: float32(v[0]), Y: float32(v[1]), Z: float32(v[2]), W: float32(v[3])}.Normalize()
		} else {
			deg := math.Vec3{X: float32(v[0]), Y: float32(v[1]), Z: float32(v[2])}
			q = math.QuatFromEuler(math.Radians(deg), ch.RotationOrder)
		}
		out[i] = q.Array()
	}
	return out
}
