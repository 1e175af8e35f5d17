package spatial

import "math"

// Quat is a scalar-first unit quaternion (w, x, y, z) representing an
// orientation. The zero value is not a valid orientation; use Identity.
type Quat [4]float64

// Identity returns the identity rotation.
func Identity() Quat {
	return Quat{1, 0, 0, 0}
}

// AxisAngle builds the quaternion representing a right-handed rotation of
// angle radians about axis, which must be unit length. Mirrors
// vec4_to_qtn4 from the original C++ array.cpp.
func AxisAngle(axis Vec3, angle float64) Quat {
	h := angle * 0.5
	s := math.Sin(h)
	c := math.Cos(h)
	return Quat{c, s * axis[0], s * axis[1], s * axis[2]}
}

// AxisAngleFromVec3 builds the quaternion representing a rotation whose
// axis is v's direction and whose angle is v's norm, returning Identity for
// a near-zero v. Mirrors vec3_to_qtn4 from the original C++ search code,
// the form BFGS and mutation steps use to turn a 3-component gradient or
// random displacement into an orientation delta.
func AxisAngleFromVec3(v Vec3) Quat {
	angle := v.Norm()
	if angle < 1e-10 {
		return Identity()
	}
	return AxisAngle(v.Scale(1/angle), angle)
}

// NormSqr returns the squared norm of q.
func (q Quat) NormSqr() float64 {
	return q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3]
}

// Norm returns the norm of q.
func (q Quat) Norm() float64 {
	return math.Sqrt(q.NormSqr())
}

// Normalized reports whether q is unit length within the tolerance spec.md
// requires (1e-2), matching array.cpp's normalized().
func (q Quat) Normalized() bool {
	return math.Abs(q.NormSqr()-1) < 1e-2
}

// Normalize rescales q to unit length.
func (q Quat) Normalize() Quat {
	inv := 1 / q.Norm()
	return Quat{q[0] * inv, q[1] * inv, q[2] * inv, q[3] * inv}
}

// Mul returns the Hamilton product a*b (a applied after b, i.e. a rotates
// the frame already rotated by b). Composition throughout this module is on
// the left: q_new = delta.Mul(q_old).
func (a Quat) Mul(b Quat) Quat {
	return Quat{
		a[0]*b[0] - a[1]*b[1] - a[2]*b[2] - a[3]*b[3],
		a[0]*b[1] + a[1]*b[0] + a[2]*b[3] - a[3]*b[2],
		a[0]*b[2] - a[1]*b[3] + a[2]*b[0] + a[3]*b[1],
		a[0]*b[3] + a[1]*b[2] - a[2]*b[1] + a[3]*b[0],
	}
}

// ToMat3 converts a unit quaternion to its equivalent rotation matrix.
// Ported from qtn4_to_mat3 in the original C++ array.cpp.
func (q Quat) ToMat3() Mat3 {
	ww := q[0] * q[0]
	wx := q[0] * q[1]
	wy := q[0] * q[2]
	wz := q[0] * q[3]
	xx := q[1] * q[1]
	xy := q[1] * q[2]
	xz := q[1] * q[3]
	yy := q[2] * q[2]
	yz := q[2] * q[3]
	zz := q[3] * q[3]
	return Mat3{
		ww + xx - yy - zz, 2 * (-wz + xy), 2 * (wy + xz),
		2 * (wz + xy), ww - xx + yy - zz, 2 * (-wx + yz),
		2 * (-wy + xz), 2 * (wx + yz), ww - xx - yy + zz,
	}
}
