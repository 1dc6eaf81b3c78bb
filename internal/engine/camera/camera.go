// Package camera provides the orbit camera for the model view.
package camera

import (
	gomath "math"

	"github.com/Faultbox/meshmark/pkg/formats"
	"github.com/Faultbox/meshmark/pkg/math"
)

// FovY is the vertical field of view in radians, tuned so a normalized
// two-unit model fills most of the frame from the default distance.
const FovY = float32(50 * gomath.Pi / 180)

// OrbitCamera orbits a center point with damped rotate/zoom/pan. Distances are
// in normalized scene units (the model spans two units after normalization).
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates around Center.
	Distance  float32
	RotationX float32 // pitch, radians
	RotationY float32 // yaw, radians

	// Damping targets; Update eases the live values towards these.
	targetDistance  float32
	targetRotationX float32
	targetRotationY float32
	targetCenter    math.Vec3

	MinDistance float32
	MaxDistance float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32
	PanSensitivity  float32
	Damping         float32
}

// New creates an orbit camera at the default framing for a normalized model.
func New() *OrbitCamera {
	c := &OrbitCamera{
		Distance:        3.2,
		RotationX:       0.35,
		MinDistance:     0.6,
		MaxDistance:     12,
		MaxPitch:        1.45,
		DragSensitivity: 0.008,
		ZoomSensitivity: 0.12,
		PanSensitivity:  0.0022,
		Damping:         14,
	}
	c.targetDistance = c.Distance
	c.targetRotationX = c.RotationX
	return c
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	cosP := float32(gomath.Cos(float64(c.RotationX)))
	return c.Center.Add(math.Vec3{
		X: c.Distance * cosP * float32(gomath.Sin(float64(c.RotationY))),
		Y: c.Distance * float32(gomath.Sin(float64(c.RotationX))),
		Z: c.Distance * cosP * float32(gomath.Cos(float64(c.RotationY))),
	})
}

// ViewMatrix returns the view matrix for the current pose.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Y: 1})
}

// Frame returns the eye position, forward direction, and up vector, the
// inputs screen-ray picking needs.
func (c *OrbitCamera) Frame() (eye, forward, up math.Vec3) {
	eye = c.Position()
	forward = c.Center.Sub(eye).Normalize()
	right := forward.Cross(math.Vec3{Y: 1}).Normalize()
	up = right.Cross(forward)
	return eye, forward, up
}

// Update eases the live pose towards the damping targets.
func (c *OrbitCamera) Update(dt float32) {
	k := c.Damping * dt
	if k > 1 {
		k = 1
	}
	c.Distance += (c.targetDistance - c.Distance) * k
	c.RotationX += (c.targetRotationX - c.RotationX) * k
	c.RotationY += (c.targetRotationY - c.RotationY) * k
	c.Center = c.Center.Add(c.targetCenter.Sub(c.Center).Scale(k))
}

// HandleDrag rotates the camera from a pointer drag delta in pixels.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.targetRotationY -= deltaX * c.DragSensitivity
	c.targetRotationX += deltaY * c.DragSensitivity

	if c.targetRotationX > c.MaxPitch {
		c.targetRotationX = c.MaxPitch
	}
	if c.targetRotationX < -c.MaxPitch {
		c.targetRotationX = -c.MaxPitch
	}
}

// HandleZoom moves towards or away from the center on scroll.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.targetDistance -= delta * c.targetDistance * c.ZoomSensitivity
	if c.targetDistance < c.MinDistance {
		c.targetDistance = c.MinDistance
	}
	if c.targetDistance > c.MaxDistance {
		c.targetDistance = c.MaxDistance
	}
}

// HandlePan shifts the orbit center in the view plane.
func (c *OrbitCamera) HandlePan(deltaX, deltaY float32) {
	_, forward, up := c.Frame()
	right := forward.Cross(up)

	scale := c.Distance * c.PanSensitivity
	c.targetCenter = c.targetCenter.
		Add(right.Scale(-deltaX * scale)).
		Add(up.Scale(deltaY * scale))
}

// FitToBounds frames the given (normalized) bounding box.
func (c *OrbitCamera) FitToBounds(b formats.Bounds) {
	center := b.Center()
	c.targetCenter = math.Vec3{X: center[0], Y: center[1], Z: center[2]}
	c.Center = c.targetCenter

	d := b.MaxDimension() * 1.6
	if d < c.MinDistance {
		d = c.MinDistance
	}
	c.targetDistance = d
	c.Distance = d
	c.targetRotationX = 0.35
	c.targetRotationY = 0
	c.RotationX = 0.35
	c.RotationY = 0
}
