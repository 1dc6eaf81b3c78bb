// Package geometry computes the viewer's mesh normalization and real-world
// dimension figures.
package geometry

import (
	"github.com/Faultbox/meshmark/pkg/formats"
	"github.com/Faultbox/meshmark/pkg/math"
)

// TargetSpan is the scene-unit extent the largest model dimension is scaled
// to. Annotation positions are stored in this normalized object space, so the
// value must stay fixed across releases or saved annotations drift.
const TargetSpan = 2.0

// Normalization recenters a mesh at the origin and scales its largest
// dimension to TargetSpan. Apply order: translate by Offset, then scale.
type Normalization struct {
	Scale  float32
	Offset math.Vec3
}

// ComputeNormalization derives the normalization for a bounding box.
// A degenerate box (zero extent) keeps scale 1 so the mesh still centers.
func ComputeNormalization(b formats.Bounds) Normalization {
	c := b.Center()
	n := Normalization{
		Scale:  1,
		Offset: math.Vec3{X: -c[0], Y: -c[1], Z: -c[2]},
	}
	if d := b.MaxDimension(); d > 0 {
		n.Scale = TargetSpan / d
	}
	return n
}

// Apply maps a raw mesh position into normalized object space.
func (n Normalization) Apply(p math.Vec3) math.Vec3 {
	return p.Add(n.Offset).Scale(n.Scale)
}

// ApplyToVertices normalizes vertex positions in place. Normals and texture
// coordinates are untouched.
func (n Normalization) ApplyToVertices(verts []formats.Vertex) {
	for i := range verts {
		p := n.Apply(math.Vec3{X: verts[i].Position[0], Y: verts[i].Position[1], Z: verts[i].Position[2]})
		verts[i].Position = [3]float32{p.X, p.Y, p.Z}
	}
}

// NormalizedBounds returns the bounding box after normalization.
func (n Normalization) NormalizedBounds(b formats.Bounds) formats.Bounds {
	lo := n.Apply(math.Vec3{X: b.Min[0], Y: b.Min[1], Z: b.Min[2]})
	hi := n.Apply(math.Vec3{X: b.Max[0], Y: b.Max[1], Z: b.Max[2]})
	return formats.Bounds{
		Min: [3]float32{lo.X, lo.Y, lo.Z},
		Max: [3]float32{hi.X, hi.Y, hi.Z},
	}
}
