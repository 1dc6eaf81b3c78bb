// Package store dispatches accumulated annotation edits back to the model
// store in a single batch and schedules the reload that follows.
package store

import (
	"context"
	"errors"

	"github.com/Faultbox/meshmark/internal/viewer/annotate"
)

// ErrEmptyBatch rejects a submit with nothing to carry.
var ErrEmptyBatch = errors.New("store: batch has no edits")

// BatchAnnotation is one locally placed annotation in a batch.
type BatchAnnotation struct {
	Position  [3]float32 `json:"position"`
	Text      string     `json:"text"`
	Completed bool       `json:"completed"`
}

// BatchChange is one status change to an existing annotation.
type BatchChange struct {
	ID     uint64 `json:"id"`
	Action string `json:"action"`
}

// PendingEditBatch is the wire payload for one submit. A batch is at-most-once:
// it is never retried, and the reload afterwards resynchronizes regardless of
// outcome.
type PendingEditBatch struct {
	Token   string            `json:"token"`
	New     []BatchAnnotation `json:"new_annotations"`
	Changes []BatchChange     `json:"changes"`
}

// BuildBatch snapshots a session's pending edits into a batch payload.
func BuildBatch(token string, s *annotate.Session) (PendingEditBatch, error) {
	b := PendingEditBatch{Token: token}
	for _, a := range s.PendingNew() {
		b.New = append(b.New, BatchAnnotation{
			Position:  [3]float32{a.Position.X, a.Position.Y, a.Position.Z},
			Text:      a.Text,
			Completed: a.Completed,
		})
	}
	for _, c := range s.PendingChanges() {
		b.Changes = append(b.Changes, BatchChange{ID: c.ID, Action: c.Action.String()})
	}
	if len(b.New) == 0 && len(b.Changes) == 0 {
		return PendingEditBatch{}, ErrEmptyBatch
	}
	return b, nil
}

// Store persists annotation batches.
type Store interface {
	SubmitBatch(ctx context.Context, batch PendingEditBatch) error
}
