package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mul4 multiplies two 4x4 matrices and stores the result in out.
// All matrices are stored in column-major order (WebGPU convention).
// Result: out = a * b
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			sum := float32(0)
			for k := 0; k < 4; k++ {
				sum += a[k*4+j] * b[i*4+k]
			}
			buf[i*4+j] = sum
		}
	}
	copy(out, buf[:])
}

// PerspectiveLH creates a left-handed perspective projection matrix that maps view space
// depth [near, far] onto WebGPU clip space depth [0, 1]. +Z points into the screen.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
func PerspectiveLH(out []float32, fovY, aspect, near, far float32) {
	h := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	w := h / aspect
	r := far / (far - near)

	for i := range out[:16] {
		out[i] = 0
	}
	out[0] = w
	out[5] = h
	out[10] = r
	out[11] = 1
	out[14] = -r * near
}

// LookToLH creates a left-handed view matrix for an eye at eye facing along dir.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - eye: camera position in world space
//   - dir: viewing direction (need not be normalized, must not be zero or parallel to up)
//   - up: world up vector
func LookToLH(out []float32, eye, dir, up mgl32.Vec3) {
	f := dir.Normalize()
	s := up.Cross(f).Normalize()
	u := f.Cross(s)

	out[0], out[4], out[8], out[12] = s[0], s[1], s[2], -s.Dot(eye)
	out[1], out[5], out[9], out[13] = u[0], u[1], u[2], -u.Dot(eye)
	out[2], out[6], out[10], out[14] = f[0], f[1], f[2], -f.Dot(eye)
	out[3], out[7], out[11], out[15] = 0, 0, 0, 1
}

// NormalMatrix computes the inverse-transpose of the upper-left 3x3 of a model matrix, the
// transform that keeps normals perpendicular to surfaces under non-uniform scale.
// A singular model matrix yields its plain upper-left 3x3.
//
// Parameters:
//   - model: column-major 4x4 model matrix
//
// Returns:
//   - [9]float32: column-major 3x3 normal matrix
func NormalMatrix(model [16]float32) [9]float32 {
	m3 := mgl32.Mat4(model).Mat3()
	if m3.Det() == 0 {
		return m3
	}
	return m3.Inv().Transpose()
}

// TransformPoint multiplies a column-major 4x4 matrix with the point (p, 1) and returns
// the resulting xyz without a perspective divide.
func TransformPoint(m [16]float32, p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Mat4(m).Mul4x1(p.Vec4(1)).Vec3()
}

// MaxScale returns the largest axis scale factor of a column-major affine matrix.
func MaxScale(m [16]float32) float32 {
	sx := mgl32.Vec3{m[0], m[1], m[2]}.Len()
	sy := mgl32.Vec3{m[4], m[5], m[6]}.Len()
	sz := mgl32.Vec3{m[8], m[9], m[10]}.Len()
	return max(sx, sy, sz)
}

// NormalizeOrZero returns v scaled to unit length, or the zero vector when v has
// no usable length.
func NormalizeOrZero(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l <= 1e-12 || math.IsNaN(float64(l)) || math.IsInf(float64(l), 0) {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}
