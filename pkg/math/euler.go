package math

import (
	"fmt"
	"strings"
)

// RotationOrder names the order in which Euler rotations are applied.
type RotationOrder uint8

// Supported rotation orders. The numeric value is the exported wire value.
const (
	RotXYZ RotationOrder = 0 // X first, then Y, then Z
)

var rotationOrderNames = map[RotationOrder]string{
	RotXYZ: "xyz",
}

// String returns the lowercase order name, e.g. "xyz".
func (o RotationOrder) String() string {
	if name, ok := rotationOrderNames[o]; ok {
		return name
	}
	return fmt.Sprintf("RotationOrder(%d)", uint8(o))
}

// ParseRotationOrder parses a rotation order name case-insensitively.
func ParseRotationOrder(name string) (RotationOrder, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	for o, s := range rotationOrderNames {
		if s == n {
			return o, true
		}
	}
	return 0, false
}

// axes returns the axis indices in application order.
func (o RotationOrder) axes() [3]int {
	name, ok := rotationOrderNames[o]
	if !ok {
		name = rotationOrderNames[RotXYZ]
	}
	var a [3]int
	for i := 0; i < 3 && i < len(name); i++ {
		a[i] = int(name[i] - 'x')
	}
	return a
}

var unitAxes = [3]Vec3{{X: 1}, {Y: 1}, {Z: 1}}

// QuatFromEuler builds a rotation from Euler angles in radians. The first
// axis of the order is applied first, so for XYZ the result is qz * qy * qx.
func QuatFromEuler(angles Vec3, order RotationOrder) Quat {
	q := QuatIdentity()
	for _, axis := range order.axes() {
		q = QuatFromAxisAngle(unitAxes[axis], angles.At(axis)).Mul(q)
	}
	return q.Normalize()
}
