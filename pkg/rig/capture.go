package rig

import (
	"fmt"
	"strings"

	"github.com/Faultbox/rigexport/pkg/scene"
)

// CaptureTable maps captured joint names to capture table indices.
type CaptureTable struct {
	names []string
	index map[string]int
}

// NewCaptureTable builds a table from capture paths such as
// "j_220/cregion 0". The joint name is the part before the first "/".
func NewCaptureTable(paths []string) (*CaptureTable, error) {
	t := &CaptureTable{
		names: make([]string, len(paths)),
		index: make(map[string]int, len(paths)),
	}
	for i, p := range paths {
		name := JointNameFromCapturePath(p)
		if _, dup := t.index[name]; dup {
			return nil, &HierarchyError{Joint: name, Err: ErrDuplicateCapture}
		}
		t.names[i] = name
		t.index[name] = i
	}
	return t, nil
}

// ReadCaptureTable scans the capture path column of a capture attribute.
func ReadCaptureTable(capture scene.Attrib) (*CaptureTable, error) {
	paths, err := capture.IndexPairStrings(CapturePathProperty)
	if err != nil {
		return nil, fmt.Errorf("read capture table: %w", err)
	}
	return NewCaptureTable(paths)
}

// JointNameFromCapturePath returns the joint part of a capture path.
func JointNameFromCapturePath(path string) string {
	name, _, _ := strings.Cut(path, "/")
	return name
}

// Len returns the number of table entries.
func (t *CaptureTable) Len() int {
	return len(t.names)
}

// Index returns the capture index of a joint name.
func (t *CaptureTable) Index(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Name returns the joint name at a capture index.
func (t *CaptureTable) Name(i int) string {
	if i < 0 || i >= len(t.names) {
		return ""
	}
	return t.names[i]
}
