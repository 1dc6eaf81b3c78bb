package geometry

import (
	"fmt"

	"github.com/Faultbox/meshmark/pkg/formats"
)

// RealDimensions are model extents in meters, anchored to a user-supplied
// reference height. Recomputed identically on every load, never persisted.
type RealDimensions struct {
	Width  float64
	Height float64
	Depth  float64
}

// ComputeRealDimensions scales the bounding box so its height equals
// heightMeters and derives width/depth by the same factor. Returns false when
// heightMeters is absent (<= 0) or the box has no height; callers must then
// omit the dimension overlay entirely rather than show zeros.
func ComputeRealDimensions(b formats.Bounds, heightMeters float64) (RealDimensions, bool) {
	size := b.Size()
	if heightMeters <= 0 || size[1] <= 0 {
		return RealDimensions{}, false
	}
	factor := heightMeters / float64(size[1])
	return RealDimensions{
		Width:  float64(size[0]) * factor,
		Height: heightMeters,
		Depth:  float64(size[2]) * factor,
	}, true
}

// FormatDimension renders a length for the overlay: meters with one decimal
// at or above 1 m, otherwise whole centimeters.
func FormatDimension(meters float64) string {
	if meters >= 1 {
		return fmt.Sprintf("%.1fm", meters)
	}
	return fmt.Sprintf("%.0fcm", meters*100)
}

// String renders the overlay line, e.g. "1.2m × 30cm × 45cm" (W × H × D).
func (d RealDimensions) String() string {
	return fmt.Sprintf("%s × %s × %s",
		FormatDimension(d.Width),
		FormatDimension(d.Height),
		FormatDimension(d.Depth),
	)
}
