// Package lighting implements the viewer's two shading presets: flat (no
// lights, raw texture/color) and boost (ambient + directional + point rig
// driven by an intensity slider).
package lighting

import "github.com/Faultbox/meshmark/pkg/math"

// Slider bounds, in percent.
const (
	MinIntensity = 10
	MaxIntensity = 100
)

// Intensity bands: the slider maps linearly into these ranges.
const (
	ambientLo, ambientHi         = 0.3, 1.0
	directionalLo, directionalHi = 0.1, 0.5
	pointLo, pointHi             = 0.05, 0.3
)

// Values are the per-frame lighting uniforms. With Lit false the rig
// contributes nothing beyond full ambient, which renders materials unshaded.
type Values struct {
	Lit         bool
	Ambient     float32
	Directional float32
	Point       float32
	LightDir    math.Vec3
	PointPos    math.Vec3
}

// Rig holds the shading toggle and slider state. The zero value is the flat
// preset at default intensity.
type Rig struct {
	boost     bool
	intensity float32 // percent, clamped to [MinIntensity, MaxIntensity]
}

// NewRig returns a rig in the flat preset with the slider at fullIntensity.
func NewRig(intensityPct float32) *Rig {
	r := &Rig{}
	r.SetIntensity(intensityPct)
	return r
}

// SetBoost toggles the boost preset. Toggling never touches mesh data, so
// flat -> boost -> flat reproduces the identical visual state.
func (r *Rig) SetBoost(on bool) { r.boost = on }

// Boost reports whether the boost preset is active.
func (r *Rig) Boost() bool { return r.boost }

// SetIntensity sets the slider percentage, clamped to the legal range.
func (r *Rig) SetIntensity(pct float32) {
	if pct < MinIntensity {
		pct = MinIntensity
	}
	if pct > MaxIntensity {
		pct = MaxIntensity
	}
	r.intensity = pct
}

// Intensity returns the slider percentage.
func (r *Rig) Intensity() float32 { return r.intensity }

// Values computes the lighting uniforms for the current preset.
func (r *Rig) Values() Values {
	if !r.boost {
		return Values{Ambient: 1}
	}
	t := (r.intensity - MinIntensity) / (MaxIntensity - MinIntensity)
	return Values{
		Lit:         true,
		Ambient:     ambientLo + (ambientHi-ambientLo)*t,
		Directional: directionalLo + (directionalHi-directionalLo)*t,
		Point:       pointLo + (pointHi-pointLo)*t,
		LightDir:    math.Vec3{X: 0.4, Y: 0.8, Z: 0.45}.Normalize(),
		PointPos:    math.Vec3{X: 2, Y: 2.5, Z: 2},
	}
}
