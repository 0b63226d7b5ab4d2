// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ndiproto

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// DecodeQuaternion builds a unit quaternion from the device's scaled
// integer components (scalar-first w,x,y,z, each the wire value divided
// by 10000 per §4.7) and renormalizes it, since the fixed-point encoding
// only guarantees unit length to within device precision.
func DecodeQuaternion(w, x, y, z int64) quat.Number {
	q := quat.Number{
		Real: float64(w) / 10000,
		Imag: float64(x) / 10000,
		Jmag: float64(y) / 10000,
		Kmag: float64(z) / 10000,
	}
	return NormalizeQuaternion(q)
}

// NormalizeQuaternion rescales q to unit length. A zero quaternion is
// returned unchanged since it carries no orientation information.
func NormalizeQuaternion(q quat.Number) quat.Number {
	n := math.Sqrt(q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	if n == 0 {
		return q
	}
	return quat.Scale(1/n, q)
}

// RotationMatrix builds the 3x3 rotation matrix corresponding to unit
// quaternion q.
func RotationMatrix(q quat.Number) *mat.Dense {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	m := mat.NewDense(3, 3, []float64{
		1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w),
		2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w),
		2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y),
	})
	return m
}

// RotateVector applies q's rotation to v via its rotation matrix.
func RotateVector(q quat.Number, v r3.Vector) r3.Vector {
	m := RotationMatrix(q)
	in := mat.NewVecDense(3, []float64{v.X, v.Y, v.Z})
	var out mat.VecDense
	out.MulVec(m, in)
	return r3.Vector{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}
}
