package math

// Hermite evaluates the cubic Hermite segment from p0 to p1 at t in [0, 1].
// m0 and m1 are the tangents already scaled to the segment length.
func Hermite(p0, m0, p1, m1, t float64) float64 {
	t2 := t * t
	t3 := t2 * t
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2
	return h00*p0 + h10*m0 + h01*p1 + h11*m1
}
