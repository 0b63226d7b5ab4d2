package ndiproto

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

func quatNorm(q quat.Number) float64 {
	return math.Sqrt(q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
}

func TestNormalizeQuaternionIsIdempotent(t *testing.T) {
	q := DecodeQuaternion(9998, 123, -45, 67)
	if !approxEqual(quatNorm(q), 1, 1e-9) {
		t.Fatalf("norm = %v, want 1", quatNorm(q))
	}
	again := NormalizeQuaternion(q)
	if !approxEqual(again.Real, q.Real, 1e-9) || !approxEqual(again.Imag, q.Imag, 1e-9) {
		t.Fatalf("normalize should be idempotent: %+v vs %+v", q, again)
	}
}

func TestRotateVectorIdentity(t *testing.T) {
	identity := quat.Number{Real: 1}
	v := r3.Vector{X: 1, Y: 2, Z: 3}
	got := RotateVector(identity, v)
	if !approxEqual(got.X, v.X, 1e-9) || !approxEqual(got.Y, v.Y, 1e-9) || !approxEqual(got.Z, v.Z, 1e-9) {
		t.Fatalf("RotateVector(identity, v) = %+v, want %+v", got, v)
	}
}

func TestRotateVector90DegreesAboutZ(t *testing.T) {
	// w,x,y,z for a 90-degree rotation about Z.
	half := math.Sqrt2 / 2
	q := quat.Number{Real: half, Kmag: half}
	v := r3.Vector{X: 1, Y: 0, Z: 0}
	got := RotateVector(q, v)
	if !approxEqual(got.X, 0, 1e-9) || !approxEqual(got.Y, 1, 1e-9) {
		t.Fatalf("rotated vector = %+v, want (0,1,0)", got)
	}
}
