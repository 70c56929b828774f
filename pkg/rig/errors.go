package rig

import (
	"errors"
	"fmt"
)

// Hierarchy errors abort the rig build. They are wrapped in a
// *HierarchyError naming the joint involved.
var (
	ErrDanglingCapture  = errors.New("captured joint not found in hierarchy")
	ErrDuplicateCapture = errors.New("joint captured more than once")
	ErrDuplicateJoint   = errors.New("captured joint appears twice in hierarchy")
	ErrNoSkeletonRoot   = errors.New("skeleton root not found")
	ErrJointOrder       = errors.New("joint indices out of order")
)

// ErrNoCapture is returned when the geometry carries no capture attribute.
var ErrNoCapture = errors.New("geometry has no capture attribute")

// HierarchyError reports a fatal rig build problem.
type HierarchyError struct {
	Joint string
	Err   error
}

func (e *HierarchyError) Error() string {
	if e.Joint == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("joint %q: %v", e.Joint, e.Err)
}

func (e *HierarchyError) Unwrap() error {
	return e.Err
}
