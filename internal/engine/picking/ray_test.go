package picking

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/meshmark/pkg/formats"
	"github.com/Faultbox/meshmark/pkg/math"
)

func TestIntersectTriangle(t *testing.T) {
	a := math.Vec3{X: -1, Y: -1}
	b := math.Vec3{X: 1, Y: -1}
	c := math.Vec3{X: 0, Y: 1}
	ray := Ray{Origin: math.Vec3{Z: 5}, Direction: math.Vec3{Z: -1}}

	dist, ok := ray.IntersectTriangle(a, b, c)
	if !ok {
		t.Fatal("expected hit through triangle center")
	}
	if gomath.Abs(float64(dist-5)) > 1e-5 {
		t.Errorf("hit distance = %v, want 5", dist)
	}

	// Same triangle approached from behind: double-sided, still hits.
	back := Ray{Origin: math.Vec3{Z: -5}, Direction: math.Vec3{Z: 1}}
	if _, ok := back.IntersectTriangle(a, b, c); !ok {
		t.Error("expected double-sided hit from behind")
	}

	// Ray passing outside the triangle.
	miss := Ray{Origin: math.Vec3{X: 3, Z: 5}, Direction: math.Vec3{Z: -1}}
	if _, ok := miss.IntersectTriangle(a, b, c); ok {
		t.Error("expected miss outside triangle bounds")
	}
}

func TestIntersectSphere(t *testing.T) {
	center := math.Vec3{X: 0, Y: 0, Z: -3}
	ray := Ray{Origin: math.Vec3{}, Direction: math.Vec3{Z: -1}}

	dist, ok := ray.IntersectSphere(center, 1)
	if !ok || gomath.Abs(float64(dist-2)) > 1e-5 {
		t.Errorf("sphere hit = (%v, %v), want (2, true)", dist, ok)
	}

	if _, ok := ray.IntersectSphere(math.Vec3{X: 5, Z: -3}, 1); ok {
		t.Error("expected miss on offset sphere")
	}

	// Sphere behind the ray origin.
	if _, ok := ray.IntersectSphere(math.Vec3{Z: 3}, 1); ok {
		t.Error("expected miss on sphere behind origin")
	}
}

func TestIntersectAABB(t *testing.T) {
	box := formats.Bounds{Min: [3]float32{-1, -1, -1}, Max: [3]float32{1, 1, 1}}

	hit := Ray{Origin: math.Vec3{Z: 5}, Direction: math.Vec3{Z: -1}}
	if !hit.IntersectAABB(box) {
		t.Error("expected AABB hit")
	}

	miss := Ray{Origin: math.Vec3{X: 5, Z: 5}, Direction: math.Vec3{Z: -1}}
	if miss.IntersectAABB(box) {
		t.Error("expected AABB miss")
	}

	inside := Ray{Origin: math.Vec3{}, Direction: math.Vec3{X: 1}}
	if !inside.IntersectAABB(box) {
		t.Error("ray starting inside the box should hit")
	}
}

func quadMesh() ([]formats.Vertex, []uint32, formats.Bounds) {
	verts := []formats.Vertex{
		{Position: [3]float32{-1, -1, 0}},
		{Position: [3]float32{1, -1, 0}},
		{Position: [3]float32{1, 1, 0}},
		{Position: [3]float32{-1, 1, 0}},
	}
	indices := []uint32{0, 1, 2, 0, 2, 3}
	bounds := formats.Bounds{Min: [3]float32{-1, -1, 0}, Max: [3]float32{1, 1, 0}}
	return verts, indices, bounds
}

func TestIntersectMesh(t *testing.T) {
	verts, indices, bounds := quadMesh()
	ray := Ray{Origin: math.Vec3{X: 0.5, Y: 0.5, Z: 4}, Direction: math.Vec3{Z: -1}}

	p, ok := ray.IntersectMesh(verts, indices, bounds)
	if !ok {
		t.Fatal("expected mesh hit")
	}
	want := math.Vec3{X: 0.5, Y: 0.5, Z: 0}
	if p.Distance(want) > 1e-5 {
		t.Errorf("hit point = %v, want %v", p, want)
	}

	miss := Ray{Origin: math.Vec3{X: 4, Y: 4, Z: 4}, Direction: math.Vec3{Z: -1}}
	if _, ok := miss.IntersectMesh(verts, indices, bounds); ok {
		t.Error("expected mesh miss")
	}
}

func TestScreenRayCenter(t *testing.T) {
	eye := math.Vec3{Z: 5}
	forward := math.Vec3{Z: -1}
	up := math.Vec3{Y: 1}

	ray := ScreenRay(eye, forward, up, 0.8, 400, 300, 800, 600)
	if ray.Origin != eye {
		t.Errorf("ray origin = %v, want eye", ray.Origin)
	}
	if ray.Direction.Distance(forward) > 1e-5 {
		t.Errorf("center ray direction = %v, want %v", ray.Direction, forward)
	}

	// A pixel right of center bends the ray towards +X.
	right := ScreenRay(eye, forward, up, 0.8, 700, 300, 800, 600)
	if right.Direction.X <= 0 {
		t.Errorf("right-of-center ray X = %v, want positive", right.Direction.X)
	}
}

func TestProjectRoundTrip(t *testing.T) {
	eye := math.Vec3{Z: 5}
	view := math.LookAt(eye, math.Vec3{}, math.Vec3{Y: 1})
	proj := math.Perspective(0.8, 800.0/600.0, 0.1, 100)
	viewProj := proj.Mul(view)

	x, y, ok := Project(viewProj, math.Vec3{}, 800, 600)
	if !ok {
		t.Fatal("origin should be visible")
	}
	if gomath.Abs(float64(x-400)) > 0.5 || gomath.Abs(float64(y-300)) > 0.5 {
		t.Errorf("projected origin = (%v, %v), want viewport center", x, y)
	}

	// Point behind the camera is rejected.
	if _, _, ok := Project(viewProj, math.Vec3{Z: 10}, 800, 600); ok {
		t.Error("point behind camera should not project")
	}
}
