// Package scene defines the scene-query interface the exporters consume and
// an in-memory host that implements it from a YAML scene description.
package scene

import (
	"errors"
	"io"

	"github.com/Faultbox/rigexport/pkg/math"
)

// Scene query errors.
var (
	ErrNodeNotFound     = errors.New("node not found")
	ErrAttribNotFound   = errors.New("attribute not found")
	ErrAttribExists     = errors.New("attribute already exists")
	ErrNoIndexPairTable = errors.New("attribute has no index pair table")
	ErrPointOutOfRange  = errors.New("point index out of range")
)

// Keyframe is one curve key as reported by the host. Slopes are in value per
// second; InSlope is only meaningful when the slope is used and not tied.
type Keyframe struct {
	Frame      float64
	Value      float64
	Slope      float64
	InSlope    float64
	SlopeUsed  bool
	SlopeTied  bool
	Expression string
}

// Scene is the root of a host scene.
type Scene interface {
	// FPS returns the sampling rate in frames per second.
	FPS() float64
	// Node looks up a node by absolute path, e.g. "/obj/geo/capture1".
	Node(path string) (Node, error)
}

// Node is a transform node in the host scene.
type Node interface {
	Name() string
	Path() string
	// Children returns the nodes downstream of this one in the transform
	// hierarchy, in host order.
	Children() []Node
	// Node resolves a path relative to this node. Absolute paths are
	// resolved from the scene root.
	Node(path string) (Node, error)
	Parm(name string) (Parm, bool)
	ParmTuple(name string) ([]Parm, bool)
	// LocalTransform is the node-to-parent transform.
	LocalTransform() math.Mat4
	// WorldTransform is the node-to-world transform.
	WorldTransform() math.Mat4
	Geometry() (Geometry, bool)
}

// Parm is one scalar parameter, possibly animated.
type Parm interface {
	Name() string
	Eval() float64
	EvalString() string
	Keyframes() []Keyframe
	EvalAtFrame(frame float64) float64
}

// Geometry is a point cloud with named per-point attributes.
type Geometry interface {
	NumPoints() int
	DetailString(name string) (string, bool)
	PointAttrib(name string) (Attrib, bool)
	AddPointAttrib(name string, defaults []float64, integer bool) (Attrib, error)
	DestroyPointAttrib(name string) error
	PointValues(pt int, a Attrib) []float64
	SetPointValues(pt int, a Attrib, values []float64) error
	// Save writes the geometry in the host's native format.
	Save(w io.Writer) error
}

// Attrib is a handle to a point attribute.
type Attrib interface {
	Name() string
	Size() int
	Integer() bool
	// IndexPairStrings returns the string property column of the attribute's
	// first index pair table, in table index order.
	IndexPairStrings(property string) ([]string, error)
}
