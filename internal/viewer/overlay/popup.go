// Package overlay places 2D chrome over the rendered scene: the marker popup
// anchor and transient notice messages.
package overlay

import "github.com/Faultbox/meshmark/pkg/math"

// popup offset from the projected anchor, in pixels.
const anchorGap = 12

// PlacePopup positions a popup of the given size next to an anchor point
// inside the viewport. It prefers below-right of the anchor, mirrors to the
// other side per axis when that would overflow, and centers on an axis where
// neither side fits.
func PlacePopup(anchor math.Vec2, popupW, popupH, viewW, viewH float32) math.Vec2 {
	return math.Vec2{
		X: placeAxis(anchor.X, popupW, viewW),
		Y: placeAxis(anchor.Y, popupH, viewH),
	}
}

func placeAxis(anchor, size, view float32) float32 {
	after := anchor + anchorGap
	if after+size <= view {
		return after
	}
	before := anchor - anchorGap - size
	if before >= 0 {
		return before
	}
	return (view - size) / 2
}
