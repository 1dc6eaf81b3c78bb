package math

import (
	"testing"
)

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 0, 4}
	n := v.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}

	zero := Vec3{}.Normalize()
	if zero != (Vec3{}) {
		t.Errorf("zero vector should normalize to itself, got %v", zero)
	}
}

func TestVec2Distance(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{4, 6}
	if got := a.Distance(b); got != 5 {
		t.Errorf("Vec2.Distance() = %v, want 5", got)
	}
}

func TestMat4MulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	got := m.Mul(Identity())
	if got != m {
		t.Errorf("M * I = %v, want %v", got, m)
	}
}

func TestTranslatePoint(t *testing.T) {
	m := Translate(1, 2, 3)
	got := m.TransformPoint(Vec3{1, 1, 1})
	want := Vec3{2, 3, 4}
	if got != want {
		t.Errorf("TransformPoint() = %v, want %v", got, want)
	}
}

func TestLookAtEyeMapsToOrigin(t *testing.T) {
	eye := Vec3{0, 0, 5}
	view := LookAt(eye, Vec3{}, Vec3{0, 1, 0})
	got := view.TransformPoint(eye)
	if got.Length() > 1e-5 {
		t.Errorf("view transform of eye = %v, want origin", got)
	}

	// A point in front of the camera ends up on the negative Z axis.
	front := view.TransformPoint(Vec3{0, 0, 0})
	if front.Z >= 0 {
		t.Errorf("look target Z = %v, want negative", front.Z)
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	proj := Perspective(1.0, 16.0/9.0, 0.1, 100)

	near := proj.TransformPoint(Vec3{0, 0, -0.1})
	far := proj.TransformPoint(Vec3{0, 0, -100})

	if near.Z > -0.999 || near.Z < -1.001 {
		t.Errorf("near plane maps to Z=%v, want -1", near.Z)
	}
	if far.Z < 0.999 || far.Z > 1.001 {
		t.Errorf("far plane maps to Z=%v, want 1", far.Z)
	}
}
