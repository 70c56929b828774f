package math

import "math"

// Mat4 is a 4x4 matrix in column-major order. Translation lives in elements
// 12, 13 and 14, which is also where the exported matrix tuples carry it.
// Layout: [m0 m4 m8  m12]
//
//	[m1 m5 m9  m13]
//	[m2 m6 m10 m14]
//	[m3 m7 m11 m15]
type Mat4 [16]float32

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate returns a translation matrix.
func Translate(x, y, z float32) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

// Scale returns a scale matrix.
func Scale(x, y, z float32) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// ComposeTRS builds translate * rotate * scale, so scale applies first.
func ComposeTRS(t Vec3, r Quat, s Vec3) Mat4 {
	return Translate(t.X, t.Y, t.Z).Mul(r.ToMat4()).Mul(Scale(s.X, s.Y, s.Z))
}

// Columns returns the matrix as four columns of four rows.
func (m Mat4) Columns() [4][4]float32 {
	var c [4][4]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			c[col][row] = m[col*4+row]
		}
	}
	return c
}

// Decompose splits an affine matrix without shear into translation,
// rotation and scale. A mirrored basis is reported as a negative X scale.
func (m Mat4) Decompose() (t Vec3, r Quat, s Vec3) {
	t = Vec3{X: m[12], Y: m[13], Z: m[14]}
	c0, c1, c2 := Vec3{X: m[0], Y: m[1], Z: m[2]}, Vec3{X: m[4], Y: m[5], Z: m[6]}, Vec3{X: m[8], Y: m[9], Z: m[10]}
	s = Vec3{X: c0.Length(), Y: c1.Length(), Z: c2.Length()}
	if c0.Cross(c1).Dot(c2) < 0 {
		s.X = -s.X
	}

	div := func(v, d float32) float32 {
		if d == 0 {
			return 0
		}
		return v / d
	}
	// rotation part, rRC is row R column C
	r00, r10, r20 := div(m[0], s.X), div(m[1], s.X), div(m[2], s.X)
	r01, r11, r21 := div(m[4], s.Y), div(m[5], s.Y), div(m[6], s.Y)
	r02, r12, r22 := div(m[8], s.Z), div(m[9], s.Z), div(m[10], s.Z)

	trace := r00 + r11 + r22
	switch {
	case trace > 0:
		k := float32(math.Sqrt(float64(trace+1))) * 2
		r = Quat{W: 0.25 * k, X: (r21 - r12) / k, Y: (r02 - r20) / k, Z: (r10 - r01) / k}
	case r00 > r11 && r00 > r22:
		k := float32(math.Sqrt(float64(1+r00-r11-r22))) * 2
		r = Quat{W: (r21 - r12) / k, X: 0.25 * k, Y: (r01 + r10) / k, Z: (r02 + r20) / k}
	case r11 > r22:
		k := float32(math.Sqrt(float64(1+r11-r00-r22))) * 2
		r = Quat{W: (r02 - r20) / k, X: (r01 + r10) / k, Y: 0.25 * k, Z: (r12 + r21) / k}
	default:
		k := float32(math.Sqrt(float64(1+r22-r00-r11))) * 2
		r = Quat{W: (r10 - r01) / k, X: (r02 + r20) / k, Y: (r12 + r21) / k, Z: 0.25 * k}
	}
	return t, r.Normalize(), s
}

// Mat4FromSlice copies up to 16 values into a matrix.
func Mat4FromSlice(v []float64) Mat4 {
	var m Mat4
	for i := 0; i < 16 && i < len(v); i++ {
		m[i] = float32(v[i])
	}
	return m
}

// Mul multiplies this matrix by another (m * other).
func (m Mat4) Mul(other Mat4) Mat4 {
	var result Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			result[col*4+row] =
				m[0*4+row]*other[col*4+0] +
					m[1*4+row]*other[col*4+1] +
					m[2*4+row]*other[col*4+2] +
					m[3*4+row]*other[col*4+3]
		}
	}
	return result
}

// TransformPoint transforms a 3D point by this matrix (assumes w=1).
func (m Mat4) TransformPoint(p [3]float32) [3]float32 {
	x := m[0]*p[0] + m[4]*p[1] + m[8]*p[2] + m[12]
	y := m[1]*p[0] + m[5]*p[1] + m[9]*p[2] + m[13]
	z := m[2]*p[0] + m[6]*p[1] + m[10]*p[2] + m[14]
	w := m[3]*p[0] + m[7]*p[1] + m[11]*p[2] + m[15]
	if w != 0 && w != 1 {
		return [3]float32{x / w, y / w, z / w}
	}
	return [3]float32{x, y, z}
}

// Inverse returns the inverse of the matrix.
// Returns identity if the matrix is singular.
func (m Mat4) Inverse() Mat4 {
	// Calculate cofactors
	c00 := m[5]*m[10]*m[15] - m[5]*m[11]*m[14] - m[9]*m[6]*m[15] + m[9]*m[7]*m[14] + m[13]*m[6]*m[11] - m[13]*m[7]*m[10]
	c01 := -m[1]*m[10]*m[15] + m[1]*m[11]*m[14] + m[9]*m[2]*m[15] - m[9]*m[3]*m[14] - m[13]*m[2]*m[11] + m[13]*m[3]*m[10]
	c02 := m[1]*m[6]*m[15] - m[1]*m[7]*m[14] - m[5]*m[2]*m[15] + m[5]*m[3]*m[14] + m[13]*m[2]*m[7] - m[13]*m[3]*m[6]
	c03 := -m[1]*m[6]*m[11] + m[1]*m[7]*m[10] + m[5]*m[2]*m[11] - m[5]*m[3]*m[10] - m[9]*m[2]*m[7] + m[9]*m[3]*m[6]

	c10 := -m[4]*m[10]*m[15] + m[4]*m[11]*m[14] + m[8]*m[6]*m[15] - m[8]*m[7]*m[14] - m[12]*m[6]*m[11] + m[12]*m[7]*m[10]
	c11 := m[0]*m[10]*m[15] - m[0]*m[11]*m[14] - m[8]*m[2]*m[15] + m[8]*m[3]*m[14] + m[12]*m[2]*m[11] - m[12]*m[3]*m[10]
	c12 := -m[0]*m[6]*m[15] + m[0]*m[7]*m[14] + m[4]*m[2]*m[15] - m[4]*m[3]*m[14] - m[12]*m[2]*m[7] + m[12]*m[3]*m[6]
	c13 := m[0]*m[6]*m[11] - m[0]*m[7]*m[10] - m[4]*m[2]*m[11] + m[4]*m[3]*m[10] + m[8]*m[2]*m[7] - m[8]*m[3]*m[6]

	c20 := m[4]*m[9]*m[15] - m[4]*m[11]*m[13] - m[8]*m[5]*m[15] + m[8]*m[7]*m[13] + m[12]*m[5]*m[11] - m[12]*m[7]*m[9]
	c21 := -m[0]*m[9]*m[15] + m[0]*m[11]*m[13] + m[8]*m[1]*m[15] - m[8]*m[3]*m[13] - m[12]*m[1]*m[11] + m[12]*m[3]*m[9]
	c22 := m[0]*m[5]*m[15] - m[0]*m[7]*m[13] - m[4]*m[1]*m[15] + m[4]*m[3]*m[13] + m[12]*m[1]*m[7] - m[12]*m[3]*m[5]
	c23 := -m[0]*m[5]*m[11] + m[0]*m[7]*m[9] + m[4]*m[1]*m[11] - m[4]*m[3]*m[9] - m[8]*m[1]*m[7] + m[8]*m[3]*m[5]

	c30 := -m[4]*m[9]*m[14] + m[4]*m[10]*m[13] + m[8]*m[5]*m[14] - m[8]*m[6]*m[13] - m[12]*m[5]*m[10] + m[12]*m[6]*m[9]
	c31 := m[0]*m[9]*m[14] - m[0]*m[10]*m[13] - m[8]*m[1]*m[14] + m[8]*m[2]*m[13] + m[12]*m[1]*m[10] - m[12]*m[2]*m[9]
	c32 := -m[0]*m[5]*m[14] + m[0]*m[6]*m[13] + m[4]*m[1]*m[14] - m[4]*m[2]*m[13] - m[12]*m[1]*m[6] + m[12]*m[2]*m[5]
	c33 := m[0]*m[5]*m[10] - m[0]*m[6]*m[9] - m[4]*m[1]*m[10] + m[4]*m[2]*m[9] + m[8]*m[1]*m[6] - m[8]*m[2]*m[5]

	// Calculate determinant
	det := m[0]*c00 + m[4]*c01 + m[8]*c02 + m[12]*c03

	if det == 0 {
		return Identity()
	}

	invDet := 1.0 / det

	return Mat4{
		c00 * invDet, c01 * invDet, c02 * invDet, c03 * invDet,
		c10 * invDet, c11 * invDet, c12 * invDet, c13 * invDet,
		c20 * invDet, c21 * invDet, c22 * invDet, c23 * invDet,
		c30 * invDet, c31 * invDet, c32 * invDet, c33 * invDet,
	}
}
