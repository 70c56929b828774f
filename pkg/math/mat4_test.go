package math

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	id := Identity()
	result := m.Mul(id)

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation should be in column 4 (indices 12, 13, 14)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestScale(t *testing.T) {
	m := Scale(2, 3, 4)

	if m[0] != 2 || m[5] != 3 || m[10] != 4 {
		t.Errorf("Scale diagonal: got (%f, %f, %f), want (2, 3, 4)", m[0], m[5], m[10])
	}
}

func TestTransformPoint(t *testing.T) {
	// Translate by (10, 20, 30)
	m := Translate(10, 20, 30)
	p := [3]float32{1, 2, 3}
	result := m.TransformPoint(p)

	expected := [3]float32{11, 22, 33}
	if result != expected {
		t.Errorf("TransformPoint: got %v, want %v", result, expected)
	}
}

func TestTransformPointScale(t *testing.T) {
	m := Scale(2, 2, 2)
	p := [3]float32{1, 2, 3}
	result := m.TransformPoint(p)

	expected := [3]float32{2, 4, 6}
	if result != expected {
		t.Errorf("TransformPoint with scale: got %v, want %v", result, expected)
	}
}

func TestRotateY90(t *testing.T) {
	m := QuatFromAxisAngle(Vec3{Y: 1}, float32(math.Pi/2)).ToMat4() // 90 degrees
	p := [3]float32{1, 0, 0}                                          // Point on X axis
	result := m.TransformPoint(p)

	// After 90 degree Y rotation, (1,0,0) should become approximately (0,0,-1)
	if abs(result[0]) > 0.001 || abs(result[1]) > 0.001 || abs(result[2]+1) > 0.001 {
		t.Errorf("RotateY 90: got %v, want (0, 0, -1)", result)
	}
}

func TestInverseRoundTrip(t *testing.T) {
	m := ComposeTRS(Vec3{1, -2, 3}, QuatFromAxisAngle(Vec3{0, 1, 0}, 0.7), Vec3{2, 2, 2})
	got := m.Mul(m.Inverse())
	id := Identity()
	for i := 0; i < 16; i++ {
		if abs(got[i]-id[i]) > 0.0001 {
			t.Errorf("M * M^-1 element %d: got %f, want %f", i, got[i], id[i])
		}
	}
}

func TestInverseMatchesMathGL(t *testing.T) {
	m := Mat4(mgl32.Translate3D(4, 5, 6).
		Mul4(mgl32.HomogRotate3DX(0.3)).
		Mul4(mgl32.HomogRotate3DZ(-1.1)).
		Mul4(mgl32.Scale3D(1, 2, 0.5)))
	want := mgl32.Mat4(m).Inv()
	got := m.Inverse()
	for i := 0; i < 16; i++ {
		if abs(got[i]-want[i]) > 0.0001 {
			t.Errorf("Inverse element %d: got %f, want %f", i, got[i], want[i])
		}
	}
}

func TestInverseSingular(t *testing.T) {
	var zero Mat4
	if zero.Inverse() != Identity() {
		t.Error("singular matrix should invert to identity")
	}
}

func TestComposeTRS(t *testing.T) {
	m := ComposeTRS(Vec3{10, 0, 0}, QuatIdentity(), Vec3{2, 2, 2})
	got := m.TransformPoint([3]float32{1, 1, 1})
	want := [3]float32{12, 2, 2}
	if got != want {
		t.Errorf("ComposeTRS: got %v, want %v", got, want)
	}
}

func TestColumns(t *testing.T) {
	m := Translate(7, 8, 9)
	c := m.Columns()
	if c[3][0] != 7 || c[3][1] != 8 || c[3][2] != 9 || c[3][3] != 1 {
		t.Errorf("translation column: got %v", c[3])
	}
	if c[0] != [4]float32{1, 0, 0, 0} {
		t.Errorf("column 0: got %v", c[0])
	}
}

func TestDecompose(t *testing.T) {
	tests := []struct {
		name string
		t    Vec3
		r    Quat
		s    Vec3
	}{
		{"identity", Vec3{}, QuatIdentity(), Vec3{X: 1, Y: 1, Z: 1}},
		{"z 90", Vec3{X: 1, Y: 2, Z: 3}, QuatFromAxisAngle(Vec3{Z: 1}, math.Pi/2), Vec3{X: 1, Y: 1, Z: 1}},
		{"x 180 scaled", Vec3{Y: -4}, QuatFromAxisAngle(Vec3{X: 1}, math.Pi), Vec3{X: 2, Y: 3, Z: 4}},
		{"euler", Vec3{X: 5}, QuatFromEuler(Radians(Vec3{X: 30, Y: -60, Z: 120}), RotXYZ), Vec3{X: 0.5, Y: 0.5, Z: 0.5}},
		{"mirrored", Vec3{Z: 1}, QuatIdentity(), Vec3{X: -1, Y: 1, Z: 1}},
		{"mirrored rotated", Vec3{}, QuatFromAxisAngle(Vec3{Y: 1}, 0.8), Vec3{X: -2, Y: 1, Z: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt, gr, gs := ComposeTRS(tt.t, tt.r, tt.s).Decompose()
			if gt.Sub(tt.t).Length() > 1e-4 || gs.Sub(tt.s).Length() > 1e-4 {
				t.Errorf("t/s: got %v %v, want %v %v", gt, gs, tt.t, tt.s)
			}
			// q and -q are the same rotation
			if d := abs(gr.Dot(tt.r)); abs(d-1) > 1e-4 {
				t.Errorf("rotation: got %v, want %v", gr, tt.r)
			}
		})
	}
}

func TestMat4FromSlice(t *testing.T) {
	v := make([]float64, 16)
	for i := range v {
		v[i] = float64(i)
	}
	m := Mat4FromSlice(v)
	for i := 0; i < 16; i++ {
		if m[i] != float32(i) {
			t.Errorf("element %d: got %f, want %d", i, m[i], i)
		}
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
