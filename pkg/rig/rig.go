// Package rig indexes a joint hierarchy for export and remaps skin weights
// from geometry capture indices to rig skin indices.
package rig

import (
	"github.com/Faultbox/rigexport/pkg/math"
)

// None marks an unset index.
const None = -1

// Host attribute and parameter names.
const (
	CaptureAttrib       = "boneCapture"
	CapturePathProperty = "pCaptPath"
	SkelRootDetail      = "pCaptSkelRoot"
	SkelRootNode        = "root"
	JointIndexAttrib    = "jidx"
	JointWeightAttrib   = "jwgt"
)

// Joint is one node of the exported hierarchy.
type Joint struct {
	Name string
	// ExportIndex is the pre-order rank in the hierarchy.
	ExportIndex int
	// GeoCaptureIndex is the capture table index, or None.
	GeoCaptureIndex int
	// SkinIndex is the rank among captured joints, or None.
	SkinIndex int
	// Parent is the parent's ExportIndex, or None for the root.
	Parent int

	Local        math.Mat4 // node-to-parent
	InverseWorld math.Mat4 // world-to-node
}

// Captured reports whether the joint influences skin.
func (j *Joint) Captured() bool {
	return j.SkinIndex != None
}

// BindPosition returns the joint origin in world space at rest.
func (j *Joint) BindPosition() math.Vec3 {
	p := j.InverseWorld.Inverse().TransformPoint([3]float32{})
	return math.Vec3{X: p[0], Y: p[1], Z: p[2]}
}

// Rig is a joint hierarchy in export order with lookups by capture index
// and skin index.
type Rig struct {
	joints []Joint
	geo    []int // capture index -> export index
	skin   []int // skin index -> export index
}

// New assembles a rig from joints already in export order. Export indices
// must match positions, parents must precede children and skin indices
// must be dense.
func New(joints []Joint) (*Rig, error) {
	r := &Rig{joints: joints}
	skinned := 0
	geoLen := 0
	for i, j := range joints {
		if j.ExportIndex != i || j.Parent >= i || j.Parent < None {
			return nil, &HierarchyError{Joint: j.Name, Err: ErrJointOrder}
		}
		if j.SkinIndex != None {
			skinned++
		}
		if j.GeoCaptureIndex >= geoLen {
			geoLen = j.GeoCaptureIndex + 1
		}
	}

	r.skin = make([]int, skinned)
	for i := range r.skin {
		r.skin[i] = None
	}
	r.geo = make([]int, geoLen)
	for i := range r.geo {
		r.geo[i] = None
	}
	for i, j := range joints {
		if j.SkinIndex != None {
			if j.SkinIndex < 0 || j.SkinIndex >= skinned || r.skin[j.SkinIndex] != None {
				return nil, &HierarchyError{Joint: j.Name, Err: ErrJointOrder}
			}
			r.skin[j.SkinIndex] = i
		}
		if j.GeoCaptureIndex >= 0 {
			if r.geo[j.GeoCaptureIndex] != None {
				return nil, &HierarchyError{Joint: j.Name, Err: ErrDuplicateCapture}
			}
			r.geo[j.GeoCaptureIndex] = i
		}
	}
	return r, nil
}

// Len returns the number of joints.
func (r *Rig) Len() int {
	return len(r.joints)
}

// Joints returns the joints in export order. Parents precede children.
func (r *Rig) Joints() []Joint {
	return r.joints
}

// Joint returns the joint with the given export index.
func (r *Rig) Joint(exportIdx int) (Joint, bool) {
	if exportIdx < 0 || exportIdx >= len(r.joints) {
		return Joint{}, false
	}
	return r.joints[exportIdx], true
}

// SkinCount returns the number of captured joints.
func (r *Rig) SkinCount() int {
	return len(r.skin)
}

// SkinJoints returns the captured joints in skin order.
func (r *Rig) SkinJoints() []Joint {
	out := make([]Joint, len(r.skin))
	for i, e := range r.skin {
		out[i] = r.joints[e]
	}
	return out
}

// GeoJoint returns the joint bound to a capture table index.
func (r *Rig) GeoJoint(geoIdx int) (Joint, bool) {
	if geoIdx < 0 || geoIdx >= len(r.geo) || r.geo[geoIdx] == None {
		return Joint{}, false
	}
	return r.joints[r.geo[geoIdx]], true
}

// SkinIndexForGeo maps a capture table index to a skin index. Negative or
// unknown indices map to None.
func (r *Rig) SkinIndexForGeo(geoIdx int) int {
	j, ok := r.GeoJoint(geoIdx)
	if !ok {
		return None
	}
	return j.SkinIndex
}

// Find returns the export index of the named joint, or None.
func (r *Rig) Find(name string) int {
	for i := range r.joints {
		if r.joints[i].Name == name {
			return i
		}
	}
	return None
}

// Children returns the export indices of a joint's direct children.
func (r *Rig) Children(exportIdx int) []int {
	var children []int
	for i := exportIdx + 1; i < len(r.joints); i++ {
		if r.joints[i].Parent == exportIdx {
			children = append(children, i)
		}
	}
	return children
}
