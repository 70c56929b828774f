package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/Faultbox/rigexport/pkg/math"
	"github.com/Faultbox/rigexport/pkg/rig"
)

// sampleRig is root -> A -> B with root and B skinned, B first.
func sampleRig(t *testing.T) *rig.Rig {
	t.Helper()
	joint := func(name string, export, parent, skin int, local math.Mat4) rig.Joint {
		return rig.Joint{
			Name:            name,
			ExportIndex:     export,
			GeoCaptureIndex: rig.None,
			SkinIndex:       skin,
			Parent:          parent,
			Local:           local,
			InverseWorld:    local.Inverse(),
		}
	}
	r, err := rig.New([]rig.Joint{
		joint("root", 0, rig.None, 1, math.Translate(0, 1, 0)),
		joint("A", 1, 0, rig.None, math.QuatFromAxisAngle(math.Vec3{Z: 1}, 1.5707964).ToMat4()),
		joint("B", 2, 1, 0, math.ComposeTRS(math.Vec3{X: 2}, math.QuatIdentity(), math.Vec3{X: 1, Y: 2, Z: 1})),
	})
	if err != nil {
		t.Fatalf("rig.New: %v", err)
	}
	return r
}

func TestWriteRigLayout(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRig(&buf, sampleRig(t), DefaultRigIndent); err != nil {
		t.Fatalf("WriteRig: %v", err)
	}
	out := buf.String()
	if strings.ContainsAny(out, "\n ") {
		t.Errorf("rig document should be compact:\n%s", out)
	}
	if !strings.HasPrefix(out, `{"joints":[{"name":"root","idx":0,"parIdx":-1,"skinIdx":1},`) {
		t.Errorf("unexpected document head: %s", out[:min(len(out), 80)])
	}
	if !strings.Contains(out, `"mtx":[[1,0,0,0,0,1,0,0,0,0,1,0,0,1,0,1],`) {
		t.Errorf("root local matrix missing: %s", out)
	}
}

func TestRigRoundTrip(t *testing.T) {
	want := sampleRig(t)

	var buf bytes.Buffer
	if err := WriteRig(&buf, want, 0); err != nil {
		t.Fatalf("WriteRig: %v", err)
	}
	got, err := ParseRig(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseRig: %v", err)
	}

	if got.Len() != want.Len() || got.SkinCount() != want.SkinCount() {
		t.Fatalf("got %d joints %d skinned", got.Len(), got.SkinCount())
	}
	for i, w := range want.Joints() {
		g := got.Joints()[i]
		if g.Name != w.Name || g.Parent != w.Parent || g.SkinIndex != w.SkinIndex || g.Local != w.Local {
			t.Errorf("joint %d: got %+v, want %+v", i, g, w)
		}
		if w.Captured() && g.InverseWorld != w.InverseWorld {
			t.Errorf("joint %d inverse world: got %v, want %v", i, g.InverseWorld, w.InverseWorld)
		}
	}
	if a, _ := got.Joint(1); a.InverseWorld != math.Identity() {
		t.Errorf("uncaptured joint should read identity inverse, got %v", a.InverseWorld)
	}
}

func TestParseRigMalformed(t *testing.T) {
	const m = `[1,0,0,0,0,1,0,0,0,0,1,0,0,0,0,1]`

	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `[`},
		{"no joints", `{"mtx":[],"imtx":[]}`},
		{"no mtx", `{"joints":[],"imtx":[]}`},
		{"no imtx", `{"joints":[],"mtx":[]}`},
		{"mtx count", `{"joints":[{"name":"r","idx":0,"parIdx":-1,"skinIdx":-1}],"mtx":[],"imtx":[]}`},
		{"short matrix", `{"joints":[{"name":"r","idx":0,"parIdx":-1,"skinIdx":-1}],"mtx":[[1,0,0]],"imtx":[]}`},
		{"joint without parIdx", `{"joints":[{"name":"r","idx":0,"skinIdx":-1}],"mtx":[` + m + `],"imtx":[]}`},
		{"idx out of range", `{"joints":[{"name":"r","idx":3,"parIdx":-1,"skinIdx":-1}],"mtx":[` + m + `],"imtx":[]}`},
		{"skinIdx without imtx", `{"joints":[{"name":"r","idx":0,"parIdx":-1,"skinIdx":0}],"mtx":[` + m + `],"imtx":[]}`},
		{"extra imtx", `{"joints":[{"name":"r","idx":0,"parIdx":-1,"skinIdx":-1}],"mtx":[` + m + `],"imtx":[` + m + `]}`},
		{"parent after child", `{"joints":[{"name":"r","idx":0,"parIdx":1,"skinIdx":-1},{"name":"c","idx":1,"parIdx":-1,"skinIdx":-1}],"mtx":[` + m + `,` + m + `],"imtx":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRig([]byte(tt.doc)); !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestParseRigOrdersByIdx(t *testing.T) {
	const m = `[1,0,0,0,0,1,0,0,0,0,1,0,0,0,0,1]`
	doc := `{"joints":[{"name":"c","idx":1,"parIdx":0,"skinIdx":0},{"name":"r","idx":0,"parIdx":-1,"skinIdx":-1}],` +
		`"mtx":[` + m + `,` + m + `],"imtx":[` + m + `]}`

	r, err := ParseRig([]byte(doc))
	if err != nil {
		t.Fatalf("ParseRig: %v", err)
	}
	if r.Joints()[0].Name != "r" || r.Joints()[1].Name != "c" {
		t.Errorf("joints not placed by idx: %+v", r.Joints())
	}
}
