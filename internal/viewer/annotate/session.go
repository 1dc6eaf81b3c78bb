package annotate

import (
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/meshmark/internal/engine/picking"
	"github.com/Faultbox/meshmark/internal/logger"
	"github.com/Faultbox/meshmark/internal/viewer/bundle"
	"github.com/Faultbox/meshmark/pkg/math"
)

// Interaction errors, recovered locally with a transient message.
var (
	ErrEmptyText         = errors.New("annotate: annotation text is empty")
	ErrUnknownAnnotation = errors.New("annotate: no such annotation")
)

// Mode is the interaction state.
type Mode int

const (
	// ModeNavigate is the default: pointer gestures drive the camera.
	ModeNavigate Mode = iota
	// ModeAnnotateArm places one annotation on the next mesh tap.
	ModeAnnotateArm
)

// Session owns the mutable annotation state for one loaded model. It is only
// ever touched from the UI loop, so it needs no locking.
type Session struct {
	mode      Mode
	nextLocal uint64

	annotations []*Annotation

	// changes accumulates status edits to existing annotations, keyed by
	// server id. Re-applying an action overwrites: last action wins.
	changes map[uint64]ChangeAction
}

// NewSession builds a working set from the store's annotation list. The set
// is rebuilt wholesale on every reload; nothing is merged.
func NewSession(existing []bundle.StoredAnnotation) *Session {
	s := &Session{changes: map[uint64]ChangeAction{}}
	for _, a := range existing {
		s.annotations = append(s.annotations, &Annotation{
			ID:        ServerID(a.ID),
			Position:  math.Vec3{X: a.Position[0], Y: a.Position[1], Z: a.Position[2]},
			Text:      a.Text,
			Completed: a.Completed,
			Origin:    OriginExisting,
		})
	}
	return s
}

// Mode returns the current interaction mode.
func (s *Session) Mode() Mode { return s.mode }

// ToggleArm flips between Navigate and AnnotateArm.
func (s *Session) ToggleArm() {
	if s.mode == ModeAnnotateArm {
		s.mode = ModeNavigate
	} else {
		s.mode = ModeAnnotateArm
	}
}

// Disarm returns to Navigate without placing.
func (s *Session) Disarm() { s.mode = ModeNavigate }

// Annotations returns the working set in insertion order.
func (s *Session) Annotations() []*Annotation { return s.annotations }

// Get looks up an annotation by id.
func (s *Session) Get(id ID) (*Annotation, bool) {
	for _, a := range s.annotations {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// ActivationKind classifies the outcome of a pointer activation.
type ActivationKind int

const (
	// ActivateNone means the gesture belongs to the camera.
	ActivateNone ActivationKind = iota
	// ActivateMarker opens the popup for an existing marker.
	ActivateMarker
	// ActivatePlacement opens the text modal anchored at Point.
	ActivatePlacement
)

// Activation is the result of Activate.
type Activation struct {
	Kind   ActivationKind
	Marker ID        // valid for ActivateMarker
	Point  math.Vec3 // valid for ActivatePlacement
}

// Activate runs the pointer activation pipeline for a unified click/tap:
// markers are raycast first in either mode; the mesh is only consulted while
// armed. meshHit resolves the closest mesh intersection for the ray.
func (s *Session) Activate(ray picking.Ray, markerRadius float32, meshHit func(picking.Ray) (math.Vec3, bool)) Activation {
	if id, ok := s.hitMarker(ray, markerRadius); ok {
		return Activation{Kind: ActivateMarker, Marker: id}
	}

	if s.mode != ModeAnnotateArm {
		return Activation{}
	}
	point, ok := meshHit(ray)
	if !ok {
		return Activation{}
	}
	return Activation{Kind: ActivatePlacement, Point: point}
}

func (s *Session) hitMarker(ray picking.Ray, radius float32) (ID, bool) {
	var (
		bestID ID
		bestT  float32
		found  bool
	)
	for _, a := range s.annotations {
		t, ok := ray.IntersectSphere(a.Position, radius)
		if ok && (!found || t < bestT) {
			bestID = a.ID
			bestT = t
			found = true
		}
	}
	return bestID, found
}

// Place confirms the text modal: it creates a pending annotation at the
// anchor point and returns to Navigate (one-shot arming). Empty or
// whitespace-only text is rejected with no state change.
func (s *Session) Place(pos math.Vec3, text string) (*Annotation, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	s.nextLocal++
	a := &Annotation{
		ID:       LocalID(s.nextLocal),
		Position: pos,
		Text:     text,
		Origin:   OriginPending,
	}
	s.annotations = append(s.annotations, a)
	s.mode = ModeNavigate

	logger.Debug("annotation placed", zap.Stringer("id", a.ID))
	return a, nil
}

// Complete marks an annotation completed. For existing annotations the change
// is recorded for the next batch; the marker recolors immediately either way.
func (s *Session) Complete(id ID) error {
	a, ok := s.Get(id)
	if !ok {
		return ErrUnknownAnnotation
	}
	a.Completed = true
	if !id.IsLocal() {
		s.changes[id.N] = ActionComplete
	}
	return nil
}

// Delete removes an annotation from the working set. For existing annotations
// a delete directive is recorded, overwriting any earlier change for the same
// id (last action wins).
func (s *Session) Delete(id ID) error {
	idx := -1
	for i, a := range s.annotations {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrUnknownAnnotation
	}
	s.annotations = append(s.annotations[:idx], s.annotations[idx+1:]...)

	if !id.IsLocal() {
		s.changes[id.N] = ActionDelete
	}
	return nil
}

// PendingNew returns locally placed annotations not yet dispatched.
func (s *Session) PendingNew() []*Annotation {
	var out []*Annotation
	for _, a := range s.annotations {
		if a.Origin == OriginPending && !a.flushed {
			out = append(out, a)
		}
	}
	return out
}

// PendingChanges returns the accumulated status changes, ordered by id for
// deterministic batches.
func (s *Session) PendingChanges() []Change {
	out := make([]Change, 0, len(s.changes))
	for id, action := range s.changes {
		out = append(out, Change{ID: id, Action: action})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// HasPending reports whether a submit would carry anything.
func (s *Session) HasPending() bool {
	return len(s.changes) > 0 || len(s.PendingNew()) > 0
}

// ClearPending drops the pending lists after a batch is dispatched. Dispatched
// local markers stay visible; the reload replaces the whole working set with
// store truth shortly after.
func (s *Session) ClearPending() {
	s.changes = map[uint64]ChangeAction{}
	for _, a := range s.annotations {
		if a.Origin == OriginPending {
			a.flushed = true
		}
	}
}
