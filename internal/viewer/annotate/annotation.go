// Package annotate owns the viewer's annotation working set and the
// interaction state machine that edits it. All state lives in a Session value
// so the machine is testable without a live renderer.
package annotate

import (
	"fmt"

	"github.com/Faultbox/meshmark/pkg/math"
)

// IDKind distinguishes server-issued ids from session-local temporary ids.
// The two are structurally distinct so they can never collide by accident.
type IDKind uint8

const (
	KindServer IDKind = iota + 1
	KindLocal
)

// ID identifies an annotation in the working set.
type ID struct {
	Kind IDKind
	N    uint64
}

// ServerID wraps a server-issued annotation id.
func ServerID(n uint64) ID { return ID{Kind: KindServer, N: n} }

// LocalID wraps a session-local temporary id.
func LocalID(n uint64) ID { return ID{Kind: KindLocal, N: n} }

// IsLocal reports whether the id is session-local.
func (id ID) IsLocal() bool { return id.Kind == KindLocal }

func (id ID) String() string {
	if id.IsLocal() {
		return fmt.Sprintf("tmp-%d", id.N)
	}
	return fmt.Sprintf("srv-%d", id.N)
}

// Origin records where an annotation came from.
type Origin int

const (
	// OriginExisting annotations were loaded from the store at bootstrap.
	OriginExisting Origin = iota
	// OriginPending annotations were placed locally and not yet persisted.
	OriginPending
)

// Annotation is a positioned change request on the model surface. Positions
// are in normalized object space, so an identical mesh reproduces identical
// placement across loads.
type Annotation struct {
	ID        ID
	Position  math.Vec3
	Text      string
	Completed bool
	Origin    Origin

	// flushed marks a pending annotation whose batch was already dispatched;
	// it stays visible until the reload replaces the working set.
	flushed bool
}

// ChangeAction is the status change recorded against an existing annotation.
type ChangeAction int

const (
	ActionComplete ChangeAction = iota + 1
	ActionDelete
)

func (a ChangeAction) String() string {
	if a == ActionDelete {
		return "delete"
	}
	return "complete"
}

// Change is one pending status change, keyed by server id.
type Change struct {
	ID     uint64
	Action ChangeAction
}
