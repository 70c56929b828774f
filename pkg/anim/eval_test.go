package anim

import (
	"math"
	"testing"
)

func lineChannel(interp Interpolation) *Channel {
	return &Channel{
		Kind:   ScalarGroup,
		Interp: interp,
		Size:   1,
		Components: []Component{{Keyframes: []Keyframe{
			{Frame: 0, Value: 0},
			{Frame: 10, Value: 20},
		}}},
	}
}

func TestChannelEvalScalar(t *testing.T) {
	tests := []struct {
		name   string
		interp Interpolation
		frame  float64
		want   float64
	}{
		{"linear midpoint", Linear, 5, 10},
		{"linear before range", Linear, -4, 0},
		{"linear after range", Linear, 40, 20},
		{"constant holds", Constant, 9, 0},
		{"constant at key", Constant, 10, 20},
		{"cubic flat tangents", Cubic, 5, 10},
		{"qlinear on scalars lerps", QLinear, 2.5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lineChannel(tt.interp).Eval(tt.frame)
			if len(got) != 1 || math.Abs(got[0]-tt.want) > 1e-9 {
				t.Errorf("Eval(%v) = %v, want %v", tt.frame, got, tt.want)
			}
		})
	}
}

func TestChannelEvalCubicTangents(t *testing.T) {
	ch := lineChannel(Cubic)
	ch.Components[0].Keyframes[0].OutSlope = 8
	// h10(0.5) = 0.125
	want := 10 + 0.125*8
	if got := ch.Eval(5)[0]; math.Abs(got-want) > 1e-9 {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestChannelEvalQuaternionSlerp(t *testing.T) {
	s, c := math.Sin(math.Pi/4), math.Cos(math.Pi/4)
	comp := func(a, b float64) Component {
		return Component{Keyframes: []Keyframe{{Frame: 0, Value: a}, {Frame: 10, Value: b}}}
	}
	ch := &Channel{
		Kind:       Quaternion,
		Interp:     QLinear,
		Size:       4,
		Components: []Component{comp(0, 0), comp(0, 0), comp(0, s), comp(1, c)},
	}

	got := ch.Eval(5)
	wantZ, wantW := math.Sin(math.Pi/8), math.Cos(math.Pi/8)
	if math.Abs(got[2]-wantZ) > 1e-4 || math.Abs(got[3]-wantW) > 1e-4 {
		t.Errorf("slerp midpoint: got %v, want z=%v w=%v", got, wantZ, wantW)
	}
}
