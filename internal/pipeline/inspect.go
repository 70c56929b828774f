package pipeline

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"

	"github.com/Faultbox/rigexport/pkg/anim"
)

var spewConfig *spew.ConfigState

func init() {
	spewConfig = spew.NewDefaultConfig()
	spewConfig.DisableCapacities = true
	spewConfig.DisablePointerAddresses = true
	spewConfig.SortKeys = true
}

// Inspect dumps the rig of geoPath, when given, and the animations of
// nodePaths to w.
func (e *Exporter) Inspect(w io.Writer, geoPath string, nodePaths []string) error {
	fmt.Fprintf(w, "Scene: %g fps (sampling at %g)\n", e.scene.FPS(), e.FPS())

	if geoPath != "" {
		r, _, err := e.Rig(geoPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\nRig %s: %d joints, %d skinned\n", geoPath, r.Len(), r.SkinCount())
		for _, j := range r.Joints() {
			p := j.BindPosition()
			fmt.Fprintf(w, "  [%3d] %-24s parent=%-4d skin=%-4d bind=(%.4g %.4g %.4g)\n",
				j.ExportIndex, j.Name, j.Parent, j.SkinIndex, p.X, p.Y, p.Z)
		}
		fmt.Fprint(w, spewConfig.Sdump(r.Joints()))
	}

	for _, p := range nodePaths {
		a, err := e.Animation(p)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\nAnimation %s: %d channels, last frame %g\n", p, len(a.Channels), a.LastFrame)
		for _, ch := range a.Channels {
			fmt.Fprintf(w, "  %-24s %-2s %-10s size=%d interp=%s keys=%d\n",
				ch.Name, ch.SubName, ch.Kind, ch.Size, ch.Interp, keyCount(&ch))
		}
		fmt.Fprint(w, spewConfig.Sdump(a))
	}
	return nil
}

func keyCount(ch *anim.Channel) int {
	n := 0
	for _, c := range ch.Components {
		n += c.Len()
	}
	return n
}
