package geometry

import (
	"math"
	"testing"

	"github.com/Faultbox/meshmark/pkg/formats"
	mkmath "github.com/Faultbox/meshmark/pkg/math"
)

func boundsOf(verts []formats.Vertex) formats.Bounds {
	b := formats.Bounds{Min: verts[0].Position, Max: verts[0].Position}
	for _, v := range verts[1:] {
		for i := 0; i < 3; i++ {
			b.Min[i] = min(b.Min[i], v.Position[i])
			b.Max[i] = max(b.Max[i], v.Position[i])
		}
	}
	return b
}

func TestNormalizationCentersAndScales(t *testing.T) {
	b := formats.Bounds{Min: [3]float32{2, 2, 2}, Max: [3]float32{6, 4, 3}}
	n := ComputeNormalization(b)

	nb := n.NormalizedBounds(b)
	// Largest dimension (X, extent 4) maps to the target span.
	if got := nb.Max[0] - nb.Min[0]; math.Abs(float64(got-TargetSpan)) > 1e-5 {
		t.Errorf("normalized X extent = %v, want %v", got, TargetSpan)
	}
	// Recentered at the origin.
	c := nb.Center()
	for i, v := range c {
		if math.Abs(float64(v)) > 1e-5 {
			t.Errorf("normalized center[%d] = %v, want 0", i, v)
		}
	}
}

func TestNormalizationScaleInvariant(t *testing.T) {
	verts := []formats.Vertex{
		{Position: [3]float32{1, 2, 3}},
		{Position: [3]float32{5, 7, 4}},
		{Position: [3]float32{-2, 0, 9}},
	}

	const k = 37.5
	scaled := make([]formats.Vertex, len(verts))
	for i, v := range verts {
		for j := 0; j < 3; j++ {
			scaled[i].Position[j] = v.Position[j] * k
		}
	}

	a := ComputeNormalization(boundsOf(verts))
	b := ComputeNormalization(boundsOf(scaled))
	a.ApplyToVertices(verts)
	b.ApplyToVertices(scaled)

	for i := range verts {
		for j := 0; j < 3; j++ {
			diff := math.Abs(float64(verts[i].Position[j] - scaled[i].Position[j]))
			if diff > 1e-4 {
				t.Errorf("vertex %d axis %d differs by %v after normalization", i, j, diff)
			}
		}
	}
}

func TestNormalizationDegenerateBox(t *testing.T) {
	b := formats.Bounds{Min: [3]float32{1, 1, 1}, Max: [3]float32{1, 1, 1}}
	n := ComputeNormalization(b)
	if n.Scale != 1 {
		t.Errorf("degenerate box scale = %v, want 1", n.Scale)
	}
	if got := n.Apply(mkmath.Vec3{X: 1, Y: 1, Z: 1}); got != (mkmath.Vec3{}) {
		t.Errorf("degenerate box center maps to %v, want origin", got)
	}
}

func TestComputeRealDimensions(t *testing.T) {
	b := formats.Bounds{Min: [3]float32{0, 0, 0}, Max: [3]float32{75, 150, 30}}

	d, ok := ComputeRealDimensions(b, 0.3)
	if !ok {
		t.Fatal("expected dimensions for positive reference height")
	}
	if d.Height != 0.3 {
		t.Errorf("Height = %v, want exactly 0.3", d.Height)
	}
	// width/height must preserve the box's aspect ratio.
	ratio := d.Width / d.Height
	if math.Abs(ratio-0.5) > 1e-9 {
		t.Errorf("Width/Height = %v, want 0.5", ratio)
	}
	if got := FormatDimension(d.Height); got != "30cm" {
		t.Errorf("FormatDimension(0.3) = %q, want 30cm", got)
	}

	// Idempotent: recomputation yields identical values.
	again, _ := ComputeRealDimensions(b, 0.3)
	if again != d {
		t.Errorf("recomputed dimensions differ: %+v vs %+v", again, d)
	}
}

func TestComputeRealDimensionsAbsent(t *testing.T) {
	b := formats.Bounds{Max: [3]float32{1, 2, 3}}
	for _, h := range []float64{0, -1.5} {
		if _, ok := ComputeRealDimensions(b, h); ok {
			t.Errorf("ComputeRealDimensions(h=%v) ok = true, want false", h)
		}
	}
	// Flat box has no height to anchor against.
	if _, ok := ComputeRealDimensions(formats.Bounds{Max: [3]float32{1, 0, 1}}, 2); ok {
		t.Error("flat box should not produce dimensions")
	}
}

func TestFormatDimension(t *testing.T) {
	cases := []struct {
		meters float64
		want   string
	}{
		{2.34, "2.3m"},
		{1.0, "1.0m"},
		{0.994, "99cm"},
		{0.3, "30cm"},
		{0.05, "5cm"},
	}
	for _, c := range cases {
		if got := FormatDimension(c.meters); got != c.want {
			t.Errorf("FormatDimension(%v) = %q, want %q", c.meters, got, c.want)
		}
	}
}
