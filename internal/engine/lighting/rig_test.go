package lighting

import (
	"math"
	"testing"
)

func TestFlatPreset(t *testing.T) {
	r := NewRig(60)
	v := r.Values()
	if v.Lit {
		t.Error("flat preset should not be lit")
	}
	if v.Ambient != 1 || v.Directional != 0 || v.Point != 0 {
		t.Errorf("flat values = %+v, want full ambient only", v)
	}
}

func TestBoostBands(t *testing.T) {
	r := NewRig(MinIntensity)
	r.SetBoost(true)

	lo := r.Values()
	if !lo.Lit {
		t.Fatal("boost preset should be lit")
	}
	if lo.Ambient != 0.3 || lo.Directional != 0.1 || lo.Point != 0.05 {
		t.Errorf("band floor = %+v", lo)
	}

	r.SetIntensity(MaxIntensity)
	hi := r.Values()
	if hi.Ambient != 1.0 || hi.Directional != 0.5 || hi.Point != 0.3 {
		t.Errorf("band ceiling = %+v", hi)
	}

	// Midpoint interpolates linearly.
	r.SetIntensity(55)
	mid := r.Values()
	if math.Abs(float64(mid.Ambient-0.65)) > 1e-5 {
		t.Errorf("midpoint ambient = %v, want 0.65", mid.Ambient)
	}
}

func TestIntensityClamped(t *testing.T) {
	r := NewRig(0)
	if r.Intensity() != MinIntensity {
		t.Errorf("intensity = %v, want clamped to %v", r.Intensity(), MinIntensity)
	}
	r.SetIntensity(250)
	if r.Intensity() != MaxIntensity {
		t.Errorf("intensity = %v, want clamped to %v", r.Intensity(), MaxIntensity)
	}
}

func TestToggleIdempotent(t *testing.T) {
	r := NewRig(42)
	before := r.Values()

	r.SetBoost(true)
	boosted := r.Values()
	r.SetBoost(false)
	r.SetBoost(true)
	if r.Values() != boosted {
		t.Error("repeated boost toggle changed the lit values")
	}
	r.SetBoost(false)
	if r.Values() != before {
		t.Error("toggling off did not restore the flat values")
	}
}
