package rig

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/rigexport/pkg/scene"
)

// SkinSlots is the number of (joint, weight) pairs written per point.
const SkinSlots = 4

// RemapStats counts what RemapSkin did.
type RemapStats struct {
	Points    int // points processed
	Remapped  int // pairs bound to a skin index
	Zeroed    int // pairs replaced by (0, 0.0)
	Truncated int // pairs dropped past SkinSlots
}

// RemapSkin replaces the capture attribute of geo with fixed-width skin
// index and weight attributes addressed by r's skin indices. Pairs that
// reference an uncaptured or invalid capture index become (0, 0.0). The
// capture attribute is destroyed afterwards. On error geo keeps its capture
// attribute and gains no skin attributes.
func RemapSkin(geo scene.Geometry, r *Rig, log *zap.Logger) (RemapStats, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var stats RemapStats

	capture, ok := geo.PointAttrib(CaptureAttrib)
	if !ok {
		return stats, ErrNoCapture
	}

	jidx, err := geo.AddPointAttrib(JointIndexAttrib, make([]float64, SkinSlots), true)
	if err != nil {
		return stats, fmt.Errorf("add %s: %w", JointIndexAttrib, err)
	}
	jwgt, err := geo.AddPointAttrib(JointWeightAttrib, make([]float64, SkinSlots), false)
	if err != nil {
		_ = geo.DestroyPointAttrib(JointIndexAttrib)
		return stats, fmt.Errorf("add %s: %w", JointWeightAttrib, err)
	}

	for pt := 0; pt < geo.NumPoints(); pt++ {
		idx, wgt := remapPoint(geo.PointValues(pt, capture), r, &stats)
		if err := geo.SetPointValues(pt, jidx, idx); err != nil {
			discardSkin(geo)
			return RemapStats{}, fmt.Errorf("point %d: %w", pt, err)
		}
		if err := geo.SetPointValues(pt, jwgt, wgt); err != nil {
			discardSkin(geo)
			return RemapStats{}, fmt.Errorf("point %d: %w", pt, err)
		}
		stats.Points++
	}

	if err := geo.DestroyPointAttrib(CaptureAttrib); err != nil {
		discardSkin(geo)
		return RemapStats{}, fmt.Errorf("destroy %s: %w", CaptureAttrib, err)
	}

	if stats.Truncated > 0 {
		log.Warn("capture pairs exceed skin slots, extra pairs dropped",
			zap.Int("slots", SkinSlots),
			zap.Int("dropped", stats.Truncated))
	}
	log.Debug("skin remapped",
		zap.Int("points", stats.Points),
		zap.Int("remapped", stats.Remapped),
		zap.Int("zeroed", stats.Zeroed))
	return stats, nil
}

// discardSkin removes the skin attributes of a failed remap, leaving the
// capture attribute as the only binding.
func discardSkin(geo scene.Geometry) {
	for _, name := range []string{JointIndexAttrib, JointWeightAttrib} {
		if _, ok := geo.PointAttrib(name); ok {
			_ = geo.DestroyPointAttrib(name)
		}
	}
}

// remapPoint converts interleaved (capture index, weight) values into
// SkinSlots skin indices and weights. A trailing unpaired value is ignored.
func remapPoint(capture []float64, r *Rig, stats *RemapStats) (idx, wgt []float64) {
	idx = make([]float64, SkinSlots)
	wgt = make([]float64, SkinSlots)

	pairs := len(capture) / 2
	if pairs > SkinSlots {
		stats.Truncated += pairs - SkinSlots
		pairs = SkinSlots
	}
	for i := 0; i < pairs; i++ {
		skin := r.SkinIndexForGeo(int(capture[2*i]))
		if skin == None {
			stats.Zeroed++
			continue
		}
		idx[i] = float64(skin)
		wgt[i] = capture[2*i+1]
		stats.Remapped++
	}
	return idx, wgt
}
