// Package picking provides ray casting against meshes and annotation markers.
package picking

import (
	gomath "math"

	"github.com/Faultbox/meshmark/pkg/formats"
	"github.com/Faultbox/meshmark/pkg/math"
)

// Ray is a ray in world space with a normalized direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// ScreenRay builds a picking ray from a pixel position and the camera frame.
// fovY is the vertical field of view in radians; x, y are pixel coordinates
// with the origin at the top-left of a width x height viewport.
func ScreenRay(eye, forward, up math.Vec3, fovY, x, y, width, height float32) Ray {
	ndcX := 2*x/width - 1
	ndcY := 1 - 2*y/height // flip Y

	forward = forward.Normalize()
	right := forward.Cross(up).Normalize()
	trueUp := right.Cross(forward)

	halfH := float32(gomath.Tan(float64(fovY) / 2))
	halfW := halfH * width / height

	dir := forward.
		Add(right.Scale(ndcX * halfW)).
		Add(trueUp.Scale(ndcY * halfH)).
		Normalize()

	return Ray{Origin: eye, Direction: dir}
}

// IntersectSphere tests the ray against a sphere. Returns the nearest positive
// hit distance.
func (r Ray) IntersectSphere(center math.Vec3, radius float32) (float32, bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius

	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := float32(gomath.Sqrt(float64(disc)))

	t := -b - sq
	if t < 0 {
		t = -b + sq // ray starts inside the sphere
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// IntersectTriangle tests the ray against a triangle using Möller-Trumbore.
// The test is double-sided: uploaded meshes have no reliable winding order.
func (r Ray) IntersectTriangle(a, b, c math.Vec3) (float32, bool) {
	const epsilon = 1e-7

	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	pvec := r.Direction.Cross(edge2)
	det := edge1.Dot(pvec)
	if det > -epsilon && det < epsilon {
		return 0, false // parallel to the triangle plane
	}
	invDet := 1 / det

	tvec := r.Origin.Sub(a)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}

	qvec := tvec.Cross(edge1)
	v := r.Direction.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := edge2.Dot(qvec) * invDet
	if t < epsilon {
		return 0, false
	}
	return t, true
}

// IntersectAABB tests the ray against an axis-aligned bounding box using the
// slab method. Used as a cheap reject before per-triangle tests.
func (r Ray) IntersectAABB(b formats.Bounds) bool {
	tmin := float32(gomath.Inf(-1))
	tmax := float32(gomath.Inf(1))

	origin := [3]float32{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float32{r.Direction.X, r.Direction.Y, r.Direction.Z}

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < b.Min[axis] || origin[axis] > b.Max[axis] {
				return false
			}
			continue
		}
		t1 := (b.Min[axis] - origin[axis]) / dir[axis]
		t2 := (b.Max[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	return tmax >= tmin && tmax >= 0
}

// IntersectMesh finds the closest triangle hit on an indexed mesh. Returns the
// hit point in the mesh's own coordinate space.
func (r Ray) IntersectMesh(verts []formats.Vertex, indices []uint32, bounds formats.Bounds) (math.Vec3, bool) {
	if !r.IntersectAABB(bounds) {
		return math.Vec3{}, false
	}

	best := float32(gomath.Inf(1))
	hit := false
	for i := 0; i+2 < len(indices); i += 3 {
		a := vec3(verts[indices[i]].Position)
		b := vec3(verts[indices[i+1]].Position)
		c := vec3(verts[indices[i+2]].Position)
		if t, ok := r.IntersectTriangle(a, b, c); ok && t < best {
			best = t
			hit = true
		}
	}
	if !hit {
		return math.Vec3{}, false
	}
	return r.At(best), true
}

// Project maps a world-space point to pixel coordinates through a combined
// view-projection matrix. ok is false when the point is behind the camera.
func Project(viewProj math.Mat4, p math.Vec3, width, height float32) (x, y float32, ok bool) {
	clip := viewProj.MulVec4(math.Vec4{p.X, p.Y, p.Z, 1})
	if clip[3] <= 0 {
		return 0, 0, false
	}
	ndcX := clip[0] / clip[3]
	ndcY := clip[1] / clip[3]
	return (ndcX + 1) / 2 * width, (1 - ndcY) / 2 * height, true
}

func vec3(p [3]float32) math.Vec3 {
	return math.Vec3{X: p[0], Y: p[1], Z: p[2]}
}
