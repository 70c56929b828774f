package scene

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type memAttrib struct {
	name     string
	size     int
	integer  bool
	defaults []float64
	values   [][]float64
	tables   map[string][]string
}

func (a *memAttrib) Name() string {
	return a.name
}

func (a *memAttrib) Size() int {
	return a.size
}

func (a *memAttrib) Integer() bool {
	return a.integer
}

func (a *memAttrib) IndexPairStrings(property string) ([]string, error) {
	if len(a.tables) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoIndexPairTable, a.name)
	}
	col, ok := a.tables[property]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no property %q", ErrNoIndexPairTable, a.name, property)
	}
	out := make([]string, len(col))
	copy(out, col)
	return out, nil
}

type memGeometry struct {
	points  int
	detail  map[string]string
	attribs []*memAttrib
}

func (g *memGeometry) NumPoints() int {
	return g.points
}

func (g *memGeometry) DetailString(name string) (string, bool) {
	v, ok := g.detail[name]
	return v, ok
}

func (g *memGeometry) find(name string) (int, *memAttrib) {
	for i, a := range g.attribs {
		if a.name == name {
			return i, a
		}
	}
	return -1, nil
}

func (g *memGeometry) PointAttrib(name string) (Attrib, bool) {
	_, a := g.find(name)
	if a == nil {
		return nil, false
	}
	return a, true
}

func (g *memGeometry) AddPointAttrib(name string, defaults []float64, integer bool) (Attrib, error) {
	if _, a := g.find(name); a != nil {
		return nil, fmt.Errorf("%w: %s", ErrAttribExists, name)
	}
	a := &memAttrib{
		name:     name,
		size:     len(defaults),
		integer:  integer,
		defaults: append([]float64(nil), defaults...),
		values:   make([][]float64, g.points),
	}
	g.attribs = append(g.attribs, a)
	return a, nil
}

func (g *memGeometry) DestroyPointAttrib(name string) error {
	i, a := g.find(name)
	if a == nil {
		return fmt.Errorf("%w: %s", ErrAttribNotFound, name)
	}
	g.attribs = append(g.attribs[:i], g.attribs[i+1:]...)
	return nil
}

// PointValues returns a copy of the point's values, falling back to the
// attribute defaults for points that were never written.
func (g *memGeometry) PointValues(pt int, a Attrib) []float64 {
	ma, ok := a.(*memAttrib)
	if !ok || pt < 0 || pt >= len(ma.values) {
		return nil
	}
	v := ma.values[pt]
	if v == nil {
		v = ma.defaults
	}
	return append([]float64(nil), v...)
}

func (g *memGeometry) SetPointValues(pt int, a Attrib, values []float64) error {
	ma, ok := a.(*memAttrib)
	if !ok {
		return fmt.Errorf("%w: %s", ErrAttribNotFound, a.Name())
	}
	if pt < 0 || pt >= len(ma.values) {
		return fmt.Errorf("%w: %d of %d", ErrPointOutOfRange, pt, len(ma.values))
	}
	v := append([]float64(nil), values...)
	if ma.integer {
		for i := range v {
			v[i] = float64(int64(v[i]))
		}
	}
	ma.values[pt] = v
	return nil
}

// Save writes the geometry as a YAML geometry block.
func (g *memGeometry) Save(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(g.spec()); err != nil {
		return err
	}
	return enc.Close()
}

func (g *memGeometry) spec() GeometrySpec {
	spec := GeometrySpec{
		Points: g.points,
		Detail: g.detail,
	}
	for _, a := range g.attribs {
		as := AttribSpec{
			Name:       a.name,
			Size:       a.size,
			Integer:    a.integer,
			Defaults:   a.defaults,
			IndexPairs: a.tables,
		}
		for pt := range a.values {
			as.Values = append(as.Values, g.PointValues(pt, a))
		}
		spec.Attribs = append(spec.Attribs, as)
	}
	return spec
}
