package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/meshmark/internal/logger"
)

// ReloadDelay is how long after dispatch the working set reloads. The delay is
// fixed: the reload fires whether or not the submit succeeded, so the viewer
// always converges on store truth.
const ReloadDelay = 1200 * time.Millisecond

// Submitter runs batch submits off the UI loop. Start dispatches, Poll is
// called once per frame and reports what the UI should do. At most one submit
// is in flight; the reload resynchronizes before the next one can start.
type Submitter struct {
	store   Store
	timeout time.Duration

	inflight chan error
	reloadAt time.Time
}

// NewSubmitter wraps a store with a per-submit timeout.
func NewSubmitter(s Store, timeout time.Duration) *Submitter {
	return &Submitter{store: s, timeout: timeout}
}

// Busy reports whether a submit is in flight or a reload is still scheduled.
func (s *Submitter) Busy() bool {
	return s.inflight != nil || !s.reloadAt.IsZero()
}

// Start dispatches a batch on its own goroutine. The caller clears the
// session's pending state immediately after; the batch is never retried.
func (s *Submitter) Start(batch PendingEditBatch, now time.Time) {
	if s.inflight != nil {
		return
	}
	s.reloadAt = now.Add(ReloadDelay)

	ch := make(chan error, 1)
	s.inflight = ch
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		ch <- s.store.SubmitBatch(ctx, batch)
	}()
}

// Poll drains the submit result and the reload timer. warn carries a message
// for a failed submit; reload is true on the one frame where the working set
// should be refetched.
func (s *Submitter) Poll(now time.Time) (warn string, reload bool) {
	if s.inflight != nil {
		select {
		case err := <-s.inflight:
			s.inflight = nil
			if err != nil {
				logger.Warn("batch submit failed", zap.Error(err))
				warn = "Submit failed; reloading annotations"
			}
		default:
		}
	}

	if !s.reloadAt.IsZero() && !now.Before(s.reloadAt) {
		s.reloadAt = time.Time{}
		reload = true
	}
	return warn, reload
}
