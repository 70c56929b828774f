package scene

import (
	"fmt"
	"strings"

	"github.com/Faultbox/rigexport/pkg/math"
)

// Memory is an in-memory scene host.
type Memory struct {
	fps   float64
	frame float64
	root  *memNode
}

// FPS returns the scene sampling rate.
func (m *Memory) FPS() float64 {
	return m.fps
}

// Node looks up a node by absolute path.
func (m *Memory) Node(path string) (Node, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("%w: %q is not an absolute path", ErrNodeNotFound, path)
	}
	return m.root.Node(path)
}

type memNode struct {
	scene    *Memory
	name     string
	parent   *memNode
	children []*memNode
	parms    map[string][]*memParm
	local    math.Mat4
	world    math.Mat4
	geo      *memGeometry
}

func (n *memNode) Name() string {
	return n.name
}

func (n *memNode) Path() string {
	if n.parent == nil {
		return "/"
	}
	if n.parent.parent == nil {
		return "/" + n.name
	}
	return n.parent.Path() + "/" + n.name
}

func (n *memNode) Children() []Node {
	out := make([]Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *memNode) child(name string) *memNode {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// Node resolves "a/b", "../a", "." and absolute paths.
func (n *memNode) Node(path string) (Node, error) {
	cur := n
	if strings.HasPrefix(path, "/") {
		cur = n.scene.root
	}
	for _, part := range strings.Split(path, "/") {
		switch part {
		case "", ".":
			continue
		case "..":
			if cur.parent == nil {
				return nil, fmt.Errorf("%w: %q escapes the scene root", ErrNodeNotFound, path)
			}
			cur = cur.parent
		default:
			next := cur.child(part)
			if next == nil {
				return nil, fmt.Errorf("%w: %q (no %q under %s)", ErrNodeNotFound, path, part, cur.Path())
			}
			cur = next
		}
	}
	return cur, nil
}

func (n *memNode) Parm(name string) (Parm, bool) {
	tuple, ok := n.parms[name]
	if !ok || len(tuple) == 0 {
		return nil, false
	}
	return tuple[0], true
}

func (n *memNode) ParmTuple(name string) ([]Parm, bool) {
	tuple, ok := n.parms[name]
	if !ok {
		return nil, false
	}
	out := make([]Parm, len(tuple))
	for i, p := range tuple {
		out[i] = p
	}
	return out, true
}

func (n *memNode) LocalTransform() math.Mat4 {
	return n.local
}

func (n *memNode) WorldTransform() math.Mat4 {
	return n.world
}

func (n *memNode) Geometry() (Geometry, bool) {
	if n.geo == nil {
		return nil, false
	}
	return n.geo, true
}

type memParm struct {
	scene *Memory
	name  string
	value float64
	str   string
	keys  []Keyframe
}

func (p *memParm) Name() string {
	return p.name
}

// Eval evaluates the parameter at the scene's current frame.
func (p *memParm) Eval() float64 {
	return p.EvalAtFrame(p.scene.frame)
}

func (p *memParm) EvalString() string {
	if p.str != "" {
		return p.str
	}
	return fmt.Sprint(p.Eval())
}

func (p *memParm) Keyframes() []Keyframe {
	out := make([]Keyframe, len(p.keys))
	copy(out, p.keys)
	return out
}

func (p *memParm) EvalAtFrame(frame float64) float64 {
	return evalCurve(p.keys, p.value, frame, p.scene.fps)
}
