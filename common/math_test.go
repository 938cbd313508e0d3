package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-4

func approx(a, b float32) bool {
	return float32(math.Abs(float64(a-b))) < eps
}

func TestMul4Identity(t *testing.T) {
	var out [16]float32
	id := [16]float32(mgl32.Ident4())
	m := [16]float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}

	Mul4(out[:], id[:], m[:])
	if out != m {
		t.Errorf("I*M: expected %v, got %v", m, out)
	}
	Mul4(out[:], m[:], id[:])
	if out != m {
		t.Errorf("M*I: expected %v, got %v", m, out)
	}
}

func TestPerspectiveLHDepthRange(t *testing.T) {
	var p [16]float32
	near, far := float32(0.1), float32(100)
	PerspectiveLH(p[:], mgl32.DegToRad(50), 4.0/3.0, near, far)

	project := func(z float32) float32 {
		clip := mgl32.Mat4(p).Mul4x1(mgl32.Vec4{0, 0, z, 1})
		return clip.Z() / clip.W()
	}

	if d := project(near); !approx(d, 0) {
		t.Errorf("near depth: expected 0, got %v", d)
	}
	if d := project(far); !approx(d, 1) {
		t.Errorf("far depth: expected 1, got %v", d)
	}
}

func TestLookToLH(t *testing.T) {
	var v [16]float32
	eye := mgl32.Vec3{0, 0, -1.5}
	LookToLH(v[:], eye, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0})

	if p := TransformPoint(v, eye); p.Len() > eps {
		t.Errorf("eye in view space: expected origin, got %v", p)
	}
	if p := TransformPoint(v, mgl32.Vec3{0, 0, 1}); !approx(p.Z(), 2.5) || !approx(p.X(), 0) {
		t.Errorf("point ahead: expected (0, 0, 2.5), got %v", p)
	}
	// left-handed: +X world stays +X in view when looking down +Z
	if p := TransformPoint(v, mgl32.Vec3{1, 0, -1.5}); !approx(p.X(), 1) {
		t.Errorf("point right: expected x=1, got %v", p)
	}
}

func TestNormalMatrix(t *testing.T) {
	rot := mgl32.HomogRotate3DY(mgl32.DegToRad(30))
	n := NormalMatrix([16]float32(rot))
	want := rot.Mat3()
	for i := range n {
		if !approx(n[i], want[i]) {
			t.Fatalf("rotation normal matrix: expected %v, got %v", want, n)
		}
	}

	scaled := mgl32.Scale3D(2, 1, 1)
	n = NormalMatrix([16]float32(scaled))
	if !approx(n[0], 0.5) || !approx(n[4], 1) || !approx(n[8], 1) {
		t.Errorf("scale normal matrix: expected diag(0.5, 1, 1), got %v", n)
	}
}

func TestNormalizeOrZero(t *testing.T) {
	if v := NormalizeOrZero(mgl32.Vec3{}); v != (mgl32.Vec3{}) {
		t.Errorf("zero vector: expected zero, got %v", v)
	}
	if v := NormalizeOrZero(mgl32.Vec3{3, 0, 4}); !approx(v.Len(), 1) {
		t.Errorf("length: expected 1, got %v", v.Len())
	}
}

func TestMaxScale(t *testing.T) {
	m := mgl32.Translate3D(4, 0, 0).Mul4(mgl32.Scale3D(1, 3, 2))
	if s := MaxScale([16]float32(m)); !approx(s, 3) {
		t.Errorf("max scale: expected 3, got %v", s)
	}
}
