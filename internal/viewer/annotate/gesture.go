package annotate

import (
	"time"

	"github.com/Faultbox/meshmark/pkg/math"
)

// Tap thresholds: presses that run longer or travel farther are camera
// manipulation, not activation.
const (
	TapMaxDuration = 500 * time.Millisecond
	TapMaxTravel   = 10.0 // pixels
)

// Gesture disambiguates taps from drags for one pointer. Mouse clicks and
// single-finger touches feed the same recognizer.
type Gesture struct {
	active  bool
	start   math.Vec2
	pressed time.Time
}

// Begin records a pointer press at pixel coordinates.
func (g *Gesture) Begin(x, y float32, now time.Time) {
	g.active = true
	g.start = math.Vec2{X: x, Y: y}
	g.pressed = now
}

// Active reports whether a press is in flight.
func (g *Gesture) Active() bool { return g.active }

// End records the release. It reports a tap only when the press stayed under
// both the duration and travel thresholds; anything else was a drag or pan.
func (g *Gesture) End(x, y float32, now time.Time) (math.Vec2, bool) {
	if !g.active {
		return math.Vec2{}, false
	}
	g.active = false

	if now.Sub(g.pressed) >= TapMaxDuration {
		return math.Vec2{}, false
	}
	end := math.Vec2{X: x, Y: y}
	if g.start.Distance(end) >= TapMaxTravel {
		return math.Vec2{}, false
	}
	return end, true
}

// Cancel abandons the press without producing a tap.
func (g *Gesture) Cancel() { g.active = false }
