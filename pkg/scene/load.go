package scene

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/rigexport/pkg/math"
)

// Scene description errors.
var (
	ErrInvalidScene = errors.New("invalid scene description")
)

// DefaultFPS is used when a scene description does not set fps.
const DefaultFPS = 24

// File is the YAML scene description.
type File struct {
	FPS   float64    `yaml:"fps"`
	Frame float64    `yaml:"frame"`
	Nodes []NodeSpec `yaml:"nodes"`
}

// NodeSpec describes one node and its subtree.
type NodeSpec struct {
	Name      string              `yaml:"name"`
	Transform *TransformSpec      `yaml:"transform,omitempty"`
	Parms     map[string]ParmSpec `yaml:"parms,omitempty"`
	Geometry  *GeometrySpec       `yaml:"geometry,omitempty"`
	Children  []NodeSpec          `yaml:"children,omitempty"`
}

// TransformSpec is either a TRS triple with Euler rotation in degrees, or a
// full 16-element matrix in exported tuple order.
type TransformSpec struct {
	T      [3]float32  `yaml:"t"`
	R      [3]float32  `yaml:"r"`
	S      *[3]float32 `yaml:"s,omitempty"`
	ROrd   string      `yaml:"rOrd,omitempty"`
	Matrix []float64   `yaml:"matrix,omitempty"`
}

// ParmSpec is a scalar, a string, or a tuple of curves.
type ParmSpec struct {
	Value  float64
	String string
	Curves []CurveSpec
}

// CurveSpec is one component of a parameter tuple.
type CurveSpec struct {
	Value float64   `yaml:"value"`
	Keys  []KeySpec `yaml:"keys"`
}

// KeySpec is one host keyframe. Slope is in value per second. A key without
// slope has no active tangent; a key without inSlope is tied unless Tied
// says otherwise.
type KeySpec struct {
	Frame   float64  `yaml:"frame"`
	Value   float64  `yaml:"value"`
	Slope   *float64 `yaml:"slope,omitempty"`
	InSlope *float64 `yaml:"inSlope,omitempty"`
	Tied    *bool    `yaml:"tied,omitempty"`
	Expr    string   `yaml:"expr,omitempty"`
}

// GeometrySpec describes a node's point geometry.
type GeometrySpec struct {
	Points  int               `yaml:"points"`
	Detail  map[string]string `yaml:"detail,omitempty"`
	Attribs []AttribSpec      `yaml:"attribs,omitempty"`
}

// AttribSpec describes a point attribute. IndexPairs holds the string
// property columns of the attribute's index pair table.
type AttribSpec struct {
	Name       string              `yaml:"name"`
	Size       int                 `yaml:"size,omitempty"`
	Integer    bool                `yaml:"int,omitempty"`
	Defaults   []float64           `yaml:"defaults,omitempty"`
	IndexPairs map[string][]string `yaml:"indexPairs,omitempty"`
	Values     [][]float64         `yaml:"values,omitempty"`
}

// UnmarshalYAML accepts a number, a string, a single curve mapping or a
// sequence of curves.
func (p *ParmSpec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var f float64
		if err := value.Decode(&f); err == nil {
			p.Value = f
			return nil
		}
		return value.Decode(&p.String)
	case yaml.MappingNode:
		var c CurveSpec
		if err := value.Decode(&c); err != nil {
			return err
		}
		p.Curves = []CurveSpec{c}
		return nil
	case yaml.SequenceNode:
		return value.Decode(&p.Curves)
	default:
		return fmt.Errorf("line %d: unsupported parm value", value.Line)
	}
}

// UnmarshalYAML accepts a bare number for a static component.
func (c *CurveSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return value.Decode(&c.Value)
	}
	type plain CurveSpec
	return value.Decode((*plain)(c))
}

// Load reads a scene description from a YAML file.
func Load(path string) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse builds an in-memory scene from YAML data.
func Parse(data []byte) (*Memory, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	return New(f)
}

// New builds an in-memory scene from a parsed description.
func New(f File) (*Memory, error) {
	if f.FPS == 0 {
		f.FPS = DefaultFPS
	}
	if f.FPS < 0 {
		return nil, fmt.Errorf("%w: fps %v", ErrInvalidScene, f.FPS)
	}

	m := &Memory{fps: f.FPS, frame: f.Frame}
	m.root = &memNode{scene: m, local: math.Identity(), world: math.Identity()}
	for _, spec := range f.Nodes {
		if err := m.addNode(m.root, spec); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Memory) addNode(parent *memNode, spec NodeSpec) error {
	if spec.Name == "" || strings.ContainsAny(spec.Name, "/") {
		return fmt.Errorf("%w: bad node name %q under %s", ErrInvalidScene, spec.Name, parent.Path())
	}
	if parent.child(spec.Name) != nil {
		return fmt.Errorf("%w: duplicate node %q under %s", ErrInvalidScene, spec.Name, parent.Path())
	}

	n := &memNode{
		scene:  m,
		name:   spec.Name,
		parent: parent,
		parms:  make(map[string][]*memParm, len(spec.Parms)),
	}

	local, err := spec.Transform.matrix()
	if err != nil {
		return fmt.Errorf("%w: node %s: %v", ErrInvalidScene, spec.Name, err)
	}
	n.local = local
	n.world = parent.world.Mul(local)

	for name, ps := range spec.Parms {
		n.parms[name] = m.buildParm(name, ps)
	}

	if spec.Geometry != nil {
		geo, err := buildGeometry(*spec.Geometry)
		if err != nil {
			return fmt.Errorf("%w: node %s: %v", ErrInvalidScene, spec.Name, err)
		}
		n.geo = geo
	}

	parent.children = append(parent.children, n)
	for _, c := range spec.Children {
		if err := m.addNode(n, c); err != nil {
			return err
		}
	}
	return nil
}

func (t *TransformSpec) matrix() (math.Mat4, error) {
	if t == nil {
		return math.Identity(), nil
	}
	if len(t.Matrix) > 0 {
		if len(t.Matrix) != 16 {
			return math.Mat4{}, fmt.Errorf("matrix has %d values, want 16", len(t.Matrix))
		}
		return math.Mat4FromSlice(t.Matrix), nil
	}

	order := math.RotXYZ
	if t.ROrd != "" {
		o, ok := math.ParseRotationOrder(t.ROrd)
		if !ok {
			return math.Mat4{}, fmt.Errorf("unknown rotation order %q", t.ROrd)
		}
		order = o
	}
	s := math.Vec3{X: 1, Y: 1, Z: 1}
	if t.S != nil {
		s = math.Vec3{X: t.S[0], Y: t.S[1], Z: t.S[2]}
	}
	r := math.QuatFromEuler(math.Radians(math.Vec3{X: t.R[0], Y: t.R[1], Z: t.R[2]}), order)
	return math.ComposeTRS(math.Vec3{X: t.T[0], Y: t.T[1], Z: t.T[2]}, r, s), nil
}

func (m *Memory) buildParm(name string, spec ParmSpec) []*memParm {
	if len(spec.Curves) == 0 {
		return []*memParm{{scene: m, name: name, value: spec.Value, str: spec.String}}
	}

	tuple := make([]*memParm, len(spec.Curves))
	for i, c := range spec.Curves {
		p := &memParm{scene: m, name: fmt.Sprintf("%s%d", name, i), value: c.Value}
		for _, k := range c.Keys {
			p.keys = append(p.keys, k.keyframe())
		}
		sort.SliceStable(p.keys, func(a, b int) bool { return p.keys[a].Frame < p.keys[b].Frame })
		tuple[i] = p
	}
	return tuple
}

func (k KeySpec) keyframe() Keyframe {
	kf := Keyframe{
		Frame:      k.Frame,
		Value:      k.Value,
		Expression: k.Expr,
		SlopeTied:  true,
	}
	if kf.Expression == "" {
		kf.Expression = "linear()"
	}
	if k.Slope != nil {
		kf.SlopeUsed = true
		kf.Slope = *k.Slope
	}
	if k.InSlope != nil {
		kf.SlopeUsed = true
		kf.SlopeTied = false
		kf.InSlope = *k.InSlope
	}
	if k.Tied != nil {
		kf.SlopeTied = *k.Tied
	}
	return kf
}

func buildGeometry(spec GeometrySpec) (*memGeometry, error) {
	points := spec.Points
	for _, a := range spec.Attribs {
		if len(a.Values) > points {
			points = len(a.Values)
		}
	}

	g := &memGeometry{points: points, detail: spec.Detail}
	for _, as := range spec.Attribs {
		if as.Name == "" {
			return nil, errors.New("attribute without name")
		}
		if _, dup := g.find(as.Name); dup != nil {
			return nil, fmt.Errorf("duplicate attribute %q", as.Name)
		}
		a := &memAttrib{
			name:     as.Name,
			size:     as.Size,
			integer:  as.Integer,
			defaults: as.Defaults,
			values:   make([][]float64, points),
			tables:   as.IndexPairs,
		}
		copy(a.values, as.Values)
		g.attribs = append(g.attribs, a)
	}
	return g, nil
}
