package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/rigexport/pkg/math"
	"github.com/Faultbox/rigexport/pkg/rig"
)

type rigDoc struct {
	Joints []jointDoc     `json:"joints"`
	Mtx    [][16]float32 `json:"mtx"`
	IMtx   [][16]float32 `json:"imtx"`
}

type jointDoc struct {
	Name    string `json:"name"`
	Idx     int    `json:"idx"`
	ParIdx  int    `json:"parIdx"`
	SkinIdx int    `json:"skinIdx"`
}

// WriteRig writes r as a .rig document: joints and local matrices in export
// order, inverse bind matrices in skin order.
func WriteRig(w io.Writer, r *rig.Rig, indent int) error {
	joints := r.Joints()
	doc := rigDoc{
		Joints: make([]jointDoc, len(joints)),
		Mtx:    make([][16]float32, len(joints)),
		IMtx:   make([][16]float32, 0, r.SkinCount()),
	}
	for i, j := range joints {
		doc.Joints[i] = jointDoc{Name: j.Name, Idx: j.ExportIndex, ParIdx: j.Parent, SkinIdx: j.SkinIndex}
		doc.Mtx[i] = j.Local
	}
	for _, j := range r.SkinJoints() {
		doc.IMtx = append(doc.IMtx, j.InverseWorld)
	}
	return writeJSON(w, doc, indent)
}

type rigWire struct {
	Joints *[]jointWire `json:"joints"`
	Mtx    *[][]float64 `json:"mtx"`
	IMtx   *[][]float64 `json:"imtx"`
}

type jointWire struct {
	Name    *string `json:"name"`
	Idx     *int    `json:"idx"`
	ParIdx  *int    `json:"parIdx"`
	SkinIdx *int    `json:"skinIdx"`
}

// ParseRig reads a .rig document. Joints are placed by their idx field.
// Capture indices are not stored in the document and read as rig.None;
// joints without a skin index get an identity inverse bind matrix.
func ParseRig(data []byte) (*rig.Rig, error) {
	var doc rigWire
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	switch {
	case doc.Joints == nil:
		return nil, fmt.Errorf("%w: no joints", ErrMalformed)
	case doc.Mtx == nil:
		return nil, fmt.Errorf("%w: no mtx", ErrMalformed)
	case doc.IMtx == nil:
		return nil, fmt.Errorf("%w: no imtx", ErrMalformed)
	}

	wires, mtx, imtx := *doc.Joints, *doc.Mtx, *doc.IMtx
	if len(mtx) != len(wires) {
		return nil, fmt.Errorf("%w: %d joints but %d matrices", ErrMalformed, len(wires), len(mtx))
	}

	joints := make([]rig.Joint, len(wires))
	placed := make([]bool, len(wires))
	for i, jw := range wires {
		if jw.Name == nil || jw.Idx == nil || jw.ParIdx == nil || jw.SkinIdx == nil {
			return nil, fmt.Errorf("%w: joint %d is incomplete", ErrMalformed, i)
		}
		idx := *jw.Idx
		if idx < 0 || idx >= len(joints) || placed[idx] {
			return nil, fmt.Errorf("%w: joint %q has idx %d", ErrMalformed, *jw.Name, idx)
		}
		placed[idx] = true
		joints[idx] = rig.Joint{
			Name:            *jw.Name,
			ExportIndex:     idx,
			GeoCaptureIndex: rig.None,
			SkinIndex:       *jw.SkinIdx,
			Parent:          *jw.ParIdx,
			InverseWorld:    math.Identity(),
		}
	}

	for i := range joints {
		m, err := parseMatrix(mtx[i])
		if err != nil {
			return nil, fmt.Errorf("mtx %d: %w", i, err)
		}
		joints[i].Local = m
	}

	for i := range joints {
		s := joints[i].SkinIndex
		if s == rig.None {
			continue
		}
		if s < 0 || s >= len(imtx) {
			return nil, fmt.Errorf("%w: joint %q has skinIdx %d of %d", ErrMalformed, joints[i].Name, s, len(imtx))
		}
		m, err := parseMatrix(imtx[s])
		if err != nil {
			return nil, fmt.Errorf("imtx %d: %w", s, err)
		}
		joints[i].InverseWorld = m
	}

	r, err := rig.New(joints)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if r.SkinCount() != len(imtx) {
		return nil, fmt.Errorf("%w: %d skinned joints but %d inverse matrices", ErrMalformed, r.SkinCount(), len(imtx))
	}
	return r, nil
}

func parseMatrix(v []float64) (math.Mat4, error) {
	if len(v) != 16 {
		return math.Mat4{}, fmt.Errorf("%w: matrix has %d values", ErrMalformed, len(v))
	}
	return math.Mat4FromSlice(v), nil
}

// ParseRigFile reads a .rig document from disk.
func ParseRigFile(path string) (*rig.Rig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rig file: %w", err)
	}
	return ParseRig(data)
}
