package anim

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/rigexport/pkg/scene"
)

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.WarnLevel)
	return zap.New(core), logs
}

func TestResolveKeyframeSlopes(t *testing.T) {
	tests := []struct {
		name    string
		key     scene.Keyframe
		wantIn  float64
		wantOut float64
	}{
		{
			name:    "no tangent control",
			key:     scene.Keyframe{Slope: 48, InSlope: 96, SlopeTied: false, Expression: "linear()"},
			wantIn:  0,
			wantOut: 0,
		},
		{
			name:    "tied",
			key:     scene.Keyframe{Slope: 48, InSlope: 96, SlopeUsed: true, SlopeTied: true, Expression: "cubic()"},
			wantIn:  2,
			wantOut: 2,
		},
		{
			name:    "split",
			key:     scene.Keyframe{Slope: 48, InSlope: -24, SlopeUsed: true, Expression: "cubic()"},
			wantIn:  -1,
			wantOut: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := ResolveKeyframe(tt.key, 24, nil)
			if k.InSlope != tt.wantIn || k.OutSlope != tt.wantOut {
				t.Errorf("slopes: got (%v, %v), want (%v, %v)", k.InSlope, k.OutSlope, tt.wantIn, tt.wantOut)
			}
		})
	}
}

func TestResolveKeyframeCopiesSample(t *testing.T) {
	k := ResolveKeyframe(scene.Keyframe{Frame: 12.5, Value: -3, Expression: "qlinear()"}, 30, nil)
	if k.Frame != 12.5 || k.Value != -3 || k.Interp != QLinear {
		t.Errorf("got %+v", k)
	}
}

func TestParseInterpolation(t *testing.T) {
	tests := []struct {
		expr   string
		want   Interpolation
		wantOK bool
	}{
		{"constant()", Constant, true},
		{"linear()", Linear, true},
		{"cubic()", Cubic, true},
		{"qlinear()", QLinear, true},
		{"bezier()", Constant, false},
		{"", Constant, false},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, ok := ParseInterpolation(tt.expr)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseInterpolation(%q) = %v, %v; want %v, %v", tt.expr, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestResolveKeyframeUnknownExpressionWarns(t *testing.T) {
	log, logs := observedLogger()
	k := ResolveKeyframe(scene.Keyframe{Frame: 3, Expression: "ease()"}, 24, log)

	if k.Interp != Constant {
		t.Errorf("expected constant fallback, got %v", k.Interp)
	}
	entries := logs.FilterMessageSnippet("unknown keyframe expression").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["expr"]; got != "ease()" {
		t.Errorf("warning expr field: got %v", got)
	}
}

func TestInterpolationString(t *testing.T) {
	if QLinear.String() != "qlinear" || Interpolation(7).String() != "Interpolation(7)" {
		t.Errorf("unexpected names: %s, %s", QLinear, Interpolation(7))
	}
}
