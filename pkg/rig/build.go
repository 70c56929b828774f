package rig

import (
	"fmt"

	"github.com/Faultbox/rigexport/pkg/scene"
)

// Build indexes the hierarchy under root in a single pre-order traversal.
// Every node becomes a joint; nodes named in the capture table also get the
// next skin index. A parent is always indexed before its children.
func Build(table *CaptureTable, root scene.Node) (*Rig, error) {
	r := &Rig{geo: make([]int, table.Len())}
	for i := range r.geo {
		r.geo[i] = None
	}

	if err := r.visit(table, root, None); err != nil {
		return nil, err
	}

	for i, e := range r.geo {
		if e == None {
			return nil, &HierarchyError{Joint: table.Name(i), Err: ErrDanglingCapture}
		}
	}
	return r, nil
}

func (r *Rig) visit(table *CaptureTable, node scene.Node, parent int) error {
	j := Joint{
		Name:            node.Name(),
		ExportIndex:     len(r.joints),
		GeoCaptureIndex: None,
		SkinIndex:       None,
		Parent:          parent,
		Local:           node.LocalTransform(),
		InverseWorld:    node.WorldTransform().Inverse(),
	}

	if geoIdx, ok := table.Index(j.Name); ok {
		if r.geo[geoIdx] != None {
			return &HierarchyError{Joint: j.Name, Err: ErrDuplicateJoint}
		}
		j.GeoCaptureIndex = geoIdx
		j.SkinIndex = len(r.skin)
		r.geo[geoIdx] = j.ExportIndex
		r.skin = append(r.skin, j.ExportIndex)
	}
	r.joints = append(r.joints, j)

	for _, c := range node.Children() {
		if err := r.visit(table, c, j.ExportIndex); err != nil {
			return err
		}
	}
	return nil
}

// FromGeometry builds the rig bound to a captured geometry. The skeleton is
// found through the geometry's skeleton root detail string, resolved
// relative to geoNode, and its "root" child.
func FromGeometry(geoNode scene.Node, geo scene.Geometry) (*Rig, error) {
	capture, ok := geo.PointAttrib(CaptureAttrib)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoCapture, geoNode.Path())
	}
	table, err := ReadCaptureTable(capture)
	if err != nil {
		return nil, err
	}

	root, err := SkeletonRoot(geoNode, geo)
	if err != nil {
		return nil, err
	}
	return Build(table, root)
}

// SkeletonRoot resolves the root joint of the skeleton a geometry is
// captured to.
func SkeletonRoot(geoNode scene.Node, geo scene.Geometry) (scene.Node, error) {
	path, ok := geo.DetailString(SkelRootDetail)
	if !ok || path == "" {
		return nil, &HierarchyError{Err: fmt.Errorf("%w: %s has no %s", ErrNoSkeletonRoot, geoNode.Path(), SkelRootDetail)}
	}
	rest, err := geoNode.Node(path)
	if err != nil {
		return nil, &HierarchyError{Err: fmt.Errorf("%w: %v", ErrNoSkeletonRoot, err)}
	}
	root, err := rest.Node(SkelRootNode)
	if err != nil {
		return nil, &HierarchyError{Err: fmt.Errorf("%w: %v", ErrNoSkeletonRoot, err)}
	}
	return root, nil
}
