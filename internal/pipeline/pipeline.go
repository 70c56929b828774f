// Package pipeline runs the export operations of the command line tool
// against a loaded scene: animations, rigs, cooked skins, glTF and inspect
// dumps.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/rigexport/internal/config"
	"github.com/Faultbox/rigexport/internal/logger"
	"github.com/Faultbox/rigexport/pkg/anim"
	"github.com/Faultbox/rigexport/pkg/export"
	"github.com/Faultbox/rigexport/pkg/rig"
	"github.com/Faultbox/rigexport/pkg/scene"
)

// Pipeline errors.
var (
	ErrNoGeometry = errors.New("node has no geometry")
	ErrNoOutput   = errors.New("no output path")
)

// Exporter binds a scene to the export settings.
type Exporter struct {
	scene scene.Scene
	cfg   *config.Config
	log   *zap.Logger
}

// New creates an Exporter. A nil cfg uses config.Default and a nil log
// uses logger.Log.
func New(sc scene.Scene, cfg *config.Config, log *zap.Logger) *Exporter {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logger.Log
	}
	return &Exporter{scene: sc, cfg: cfg, log: log}
}

// Open loads the scene description named by cfg.Scene.Path.
func Open(cfg *config.Config, log *zap.Logger) (*Exporter, error) {
	if cfg.Scene.Path == "" {
		return nil, errors.New("no scene given")
	}
	sc, err := scene.Load(cfg.Scene.Path)
	if err != nil {
		return nil, fmt.Errorf("loading scene: %w", err)
	}
	return New(sc, cfg, log), nil
}

// FPS returns the effective sampling rate.
func (e *Exporter) FPS() float64 {
	return e.cfg.SampleRate(e.scene.FPS())
}

// Animation builds the animation stored on the node at nodePath.
func (e *Exporter) Animation(nodePath string) (*anim.Animation, error) {
	node, err := e.scene.Node(nodePath)
	if err != nil {
		return nil, err
	}
	b := anim.Builder{FPS: e.FPS(), Log: e.log}
	return b.Build(node)
}

// Rig builds the rig of the captured geometry at geoPath and returns the
// geometry with it.
func (e *Exporter) Rig(geoPath string) (*rig.Rig, scene.Geometry, error) {
	node, err := e.scene.Node(geoPath)
	if err != nil {
		return nil, nil, err
	}
	geo, ok := node.Geometry()
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoGeometry, geoPath)
	}
	r, err := rig.FromGeometry(node, geo)
	if err != nil {
		return nil, nil, err
	}
	return r, geo, nil
}

// ExportAnimation writes the node's animation as an .anim document.
func (e *Exporter) ExportAnimation(nodePath, out string) error {
	a, err := e.Animation(nodePath)
	if err != nil {
		return err
	}
	if err := writeFile(out, func(w io.Writer) error {
		return export.WriteAnimation(w, a, e.cfg.Export.AnimIndent)
	}); err != nil {
		return err
	}
	e.log.Info("animation exported",
		zap.String("node", nodePath),
		zap.String("output", out),
		zap.Int("channels", len(a.Channels)),
		zap.Float64("lastFrame", a.LastFrame))
	return nil
}

// ExportRig writes the rig of the captured geometry as a .rig document.
func (e *Exporter) ExportRig(geoPath, out string) error {
	r, _, err := e.Rig(geoPath)
	if err != nil {
		return err
	}
	if err := writeFile(out, func(w io.Writer) error {
		return export.WriteRig(w, r, e.cfg.Export.RigIndent)
	}); err != nil {
		return err
	}
	e.log.Info("rig exported",
		zap.String("geometry", geoPath),
		zap.String("output", out),
		zap.Int("joints", r.Len()),
		zap.Int("skinned", r.SkinCount()))
	return nil
}

// CookSkin remaps the geometry's capture weights to skin slots and saves
// the cooked geometry to out. Geometry without capture returns
// rig.ErrNoCapture and writes nothing.
func (e *Exporter) CookSkin(geoPath, out string) (rig.RemapStats, error) {
	r, geo, err := e.Rig(geoPath)
	if err != nil {
		return rig.RemapStats{}, err
	}
	stats, err := rig.RemapSkin(geo, r, e.log.With(zap.String("geometry", geoPath)))
	if err != nil {
		return stats, err
	}
	if err := writeFile(out, geo.Save); err != nil {
		return stats, err
	}
	e.log.Info("skin cooked",
		zap.String("geometry", geoPath),
		zap.String("output", out),
		zap.Int("points", stats.Points),
		zap.Int("zeroed", stats.Zeroed),
		zap.Int("truncated", stats.Truncated))
	return stats, nil
}

// ExportGLTF writes the rig of geoPath with the animations of nodePaths as
// glTF. A .glb output is binary and a .gltf output is JSON; other names
// follow the gltf_binary setting.
func (e *Exporter) ExportGLTF(geoPath string, nodePaths []string, out string) error {
	r, _, err := e.Rig(geoPath)
	if err != nil {
		return err
	}
	anims := make([]*anim.Animation, 0, len(nodePaths))
	for _, p := range nodePaths {
		a, err := e.Animation(p)
		if err != nil {
			return err
		}
		anims = append(anims, a)
	}

	opts := export.GLTFOptions{
		FPS:    e.FPS(),
		Binary: e.binaryOutput(out),
		Log:    e.log,
	}
	if err := writeFile(out, func(w io.Writer) error {
		return export.WriteGLTF(w, r, anims, opts)
	}); err != nil {
		return err
	}
	e.log.Info("gltf exported",
		zap.String("geometry", geoPath),
		zap.String("output", out),
		zap.Bool("binary", opts.Binary),
		zap.Int("animations", len(anims)))
	return nil
}

func (e *Exporter) binaryOutput(out string) bool {
	switch strings.ToLower(filepath.Ext(out)) {
	case ".glb":
		return true
	case ".gltf":
		return false
	default:
		return e.cfg.Export.GLTFBinary
	}
}

// writeFile creates path, and its directory if needed, and fills it with
// write.
func writeFile(path string, write func(io.Writer) error) error {
	if path == "" {
		return ErrNoOutput
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
