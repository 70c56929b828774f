package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/rigexport/pkg/anim"
)

func gltfAnimation() *anim.Animation {
	line := func(interp anim.Interpolation, frames ...float64) anim.Component {
		c := anim.Component{}
		for i, f := range frames {
			c.Keyframes = append(c.Keyframes, anim.Keyframe{Frame: f, Value: float64(i), Interp: interp})
		}
		return c
	}
	return &anim.Animation{
		Name: "walk",
		Channels: []anim.Channel{
			{Name: "B", SubName: "t", Kind: anim.ScalarGroup, Size: 3, Interp: anim.Linear,
				Components: []anim.Component{line(anim.Linear, 0, 10), line(anim.Linear, 0, 5), line(anim.Linear, 0)}},
			{Name: "root", SubName: "r", Kind: anim.Quaternion, Size: 4, Interp: anim.QLinear,
				Components: []anim.Component{line(anim.QLinear, 0, 8), line(anim.QLinear, 0, 8), line(anim.QLinear, 0, 8), line(anim.QLinear, 0, 8)}},
			{Name: "A", SubName: "s", Kind: anim.ScalarGroup, Size: 1, Interp: anim.Cubic,
				Components: []anim.Component{line(anim.Cubic, 0.5, 2.5)}},
			{Name: "A", SubName: "t", Kind: anim.ScalarGroup, Size: 1, Interp: anim.Constant,
				Components: []anim.Component{line(anim.Constant, 0, 1, 2)}},
			{Name: "ghost", SubName: "t", Kind: anim.ScalarGroup, Size: 1, Interp: anim.Linear,
				Components: []anim.Component{line(anim.Linear, 0)}},
			{Name: "A", SubName: "vis", Kind: anim.ScalarGroup, Size: 1, Interp: anim.Linear,
				Components: []anim.Component{line(anim.Linear, 0)}},
		},
	}
}

func TestBuildGLTFNodesAndSkin(t *testing.T) {
	doc, err := BuildGLTF(sampleRig(t), nil, GLTFOptions{FPS: 24})
	if err != nil {
		t.Fatalf("BuildGLTF: %v", err)
	}

	if len(doc.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(doc.Nodes))
	}
	for i, name := range []string{"root", "A", "B"} {
		if doc.Nodes[i].Name != name {
			t.Errorf("node %d: got %q, want %q", i, doc.Nodes[i].Name, name)
		}
	}
	if got := doc.Scenes[0].Nodes; len(got) != 1 || got[0] != 0 {
		t.Errorf("scene roots: got %v", got)
	}
	if got := doc.Nodes[0].Children; len(got) != 1 || got[0] != 1 {
		t.Errorf("root children: got %v", got)
	}
	if doc.Nodes[0].Translation != [3]float32{0, 1, 0} {
		t.Errorf("root translation: got %v", doc.Nodes[0].Translation)
	}
	if doc.Nodes[2].Scale != [3]float32{1, 2, 1} {
		t.Errorf("B scale: got %v", doc.Nodes[2].Scale)
	}

	if len(doc.Skins) != 1 {
		t.Fatalf("expected one skin, got %d", len(doc.Skins))
	}
	skin := doc.Skins[0]
	// skin order: B (skin 0), root (skin 1)
	if len(skin.Joints) != 2 || skin.Joints[0] != 2 || skin.Joints[1] != 0 {
		t.Errorf("skin joints: got %v, want [2 0]", skin.Joints)
	}
	if skin.InverseBindMatrices == nil || doc.Accessors[*skin.InverseBindMatrices].Count != 2 {
		t.Errorf("inverse bind matrices accessor: %+v", skin.InverseBindMatrices)
	}
	if len(doc.Animations) != 0 {
		t.Errorf("expected no animations, got %d", len(doc.Animations))
	}
}

func TestBuildGLTFAnimation(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	doc, err := BuildGLTF(sampleRig(t), []*anim.Animation{gltfAnimation()}, GLTFOptions{FPS: 24, Log: zap.New(core)})
	if err != nil {
		t.Fatalf("BuildGLTF: %v", err)
	}

	if len(doc.Animations) != 1 {
		t.Fatalf("expected one animation, got %d", len(doc.Animations))
	}
	a := doc.Animations[0]
	if a.Name != "walk" || len(a.Channels) != 4 || len(a.Samplers) != 4 {
		t.Fatalf("animation %q: %d channels, %d samplers", a.Name, len(a.Channels), len(a.Samplers))
	}

	tests := []struct {
		node    uint32
		path    gltf.ChannelTarget
		samples uint32
		sampler gltf.AnimationSampler
	}{
		{2, gltf.ChannelTarget{Path: gltf.TRSTranslation}, 3, gltf.AnimationSampler{Interpolation: gltf.InterpolationLinear}},
		{0, gltf.ChannelTarget{Path: gltf.TRSRotation}, 2, gltf.AnimationSampler{Interpolation: gltf.InterpolationLinear}},
		{1, gltf.ChannelTarget{Path: gltf.TRSScale}, 4, gltf.AnimationSampler{Interpolation: gltf.InterpolationLinear}}, // baked 0..3
		{1, gltf.ChannelTarget{Path: gltf.TRSTranslation}, 3, gltf.AnimationSampler{Interpolation: gltf.InterpolationStep}},
	}
	for i, tt := range tests {
		ch := a.Channels[i]
		if *ch.Target.Node != tt.node || ch.Target.Path != tt.path.Path {
			t.Errorf("channel %d: target node %d path %v", i, *ch.Target.Node, ch.Target.Path)
		}
		s := a.Samplers[*ch.Sampler]
		if s.Interpolation != tt.sampler.Interpolation {
			t.Errorf("channel %d: interpolation %v, want %v", i, s.Interpolation, tt.sampler.Interpolation)
		}
		if in := doc.Accessors[*s.Input]; in.Count != tt.samples {
			t.Errorf("channel %d: %d input samples, want %d", i, in.Count, tt.samples)
		}
		if out := doc.Accessors[*s.Output]; out.Count != tt.samples {
			t.Errorf("channel %d: %d output samples, want %d", i, out.Count, tt.samples)
		}
	}

	if logs.FilterMessageSnippet("has no joint").Len() != 1 {
		t.Errorf("expected unknown joint warning, got %v", logs.All())
	}
	if logs.FilterMessageSnippet("not supported").Len() != 1 {
		t.Errorf("expected unsupported target warning, got %v", logs.All())
	}
}

func TestBuildGLTFInvalidFPS(t *testing.T) {
	if _, err := BuildGLTF(sampleRig(t), nil, GLTFOptions{}); !errors.Is(err, anim.ErrInvalidFPS) {
		t.Errorf("expected ErrInvalidFPS, got %v", err)
	}
}

func TestWriteGLTF(t *testing.T) {
	tests := []struct {
		name   string
		binary bool
	}{
		{"glb", true},
		{"gltf", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts := GLTFOptions{FPS: 24, Binary: tt.binary}
			if err := WriteGLTF(&buf, sampleRig(t), []*anim.Animation{gltfAnimation()}, opts); err != nil {
				t.Fatalf("WriteGLTF: %v", err)
			}

			if tt.binary {
				if !bytes.HasPrefix(buf.Bytes(), []byte("glTF")) {
					t.Errorf("missing glb magic: %q", buf.Bytes()[:4])
				}
			} else if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), ";base64,") {
				t.Errorf("expected JSON with an embedded buffer")
			}

			var doc gltf.Document
			if err := gltf.NewDecoder(bytes.NewReader(buf.Bytes())).Decode(&doc); err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if len(doc.Nodes) != 3 || len(doc.Skins) != 1 || len(doc.Animations) != 1 {
				t.Errorf("decoded %d nodes, %d skins, %d animations", len(doc.Nodes), len(doc.Skins), len(doc.Animations))
			}
		})
	}
}
