package spatial

import (
	"math"
	"testing"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestVec3CrossOrthogonal(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	z := x.Cross(y)
	if !approxEqual(z[2], 1, 1e-12) || !approxEqual(z[0], 0, 1e-12) || !approxEqual(z[1], 0, 1e-12) {
		t.Fatalf("x cross y = %v, want (0,0,1)", z)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 0, 4}.Normalize()
	if !approxEqual(v.Norm(), 1, 1e-9) {
		t.Fatalf("normalized norm = %v, want 1", v.Norm())
	}
}

func TestQuatIdentityIsNormalized(t *testing.T) {
	if !Identity().Normalized() {
		t.Fatal("identity quaternion should be normalized")
	}
}

func TestAxisAngleRotatesRightAngle(t *testing.T) {
	// A pi/2 rotation about the x axis must send (0,1,0) to (0,0,1),
	// matching scenario S2 of the docking search spec.
	q := AxisAngle(Vec3{1, 0, 0}, math.Pi/2)
	m := q.ToMat3()
	out := m.MulVec3(Vec3{0, 1, 0})
	want := Vec3{0, 0, 1}
	for i := range out {
		if !approxEqual(out[i], want[i], 1e-6) {
			t.Fatalf("rotated vector = %v, want %v", out, want)
		}
	}
}

func TestQuatToMat3PreservesNorm(t *testing.T) {
	q := AxisAngle(Vec3{0, 1, 0}, 1.234).Mul(Identity())
	m := q.ToMat3()
	v := Vec3{0.5, -1.2, 3.4}
	out := m.MulVec3(v)
	if !approxEqual(out.Norm(), v.Norm(), 1e-9) {
		t.Fatalf("rotation changed vector norm: %v vs %v", out.Norm(), v.Norm())
	}
}

func TestTriRestrictivePanicsOnBadOrder(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for x > y")
		}
	}()
	TriRestrictive(3, 1)
}

func TestTrianglePackingIsDense(t *testing.T) {
	// For n types, indices for all x<=y<n must cover [0, n(n+1)/2) exactly once.
	const n = 5
	seen := make(map[int]bool)
	for y := 0; y < n; y++ {
		for x := 0; x <= y; x++ {
			idx := TriRestrictive(x, y)
			if seen[idx] {
				t.Fatalf("duplicate triangle index %d for (%d,%d)", idx, x, y)
			}
			seen[idx] = true
		}
	}
	want := n * (n + 1) / 2
	if len(seen) != want {
		t.Fatalf("got %d packed indices, want %d", len(seen), want)
	}
}

func TestTriPermissiveSymmetric(t *testing.T) {
	if TriPermissive(2, 5) != TriPermissive(5, 2) {
		t.Fatal("TriPermissive should be symmetric in its arguments")
	}
}
