package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Faultbox/meshmark/internal/viewer/annotate"
	"github.com/Faultbox/meshmark/internal/viewer/bundle"
	"github.com/Faultbox/meshmark/pkg/math"
)

type fakeStore struct {
	mu      sync.Mutex
	batches []PendingEditBatch
	err     error
	gate    chan struct{} // when set, SubmitBatch blocks until closed
}

func (f *fakeStore) SubmitBatch(_ context.Context, b PendingEditBatch) error {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, b)
	return f.err
}

func (f *fakeStore) seen() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

func sessionWithEdits(t *testing.T) *annotate.Session {
	t.Helper()
	s := annotate.NewSession([]bundle.StoredAnnotation{
		{ID: 4, Position: [3]float32{1, 0, 0}, Text: "old"},
	})
	s.ToggleArm()
	if _, err := s.Place(math.Vec3{X: 0.5}, "new note"); err != nil {
		t.Fatal(err)
	}
	if err := s.Complete(annotate.ServerID(4)); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestBuildBatch(t *testing.T) {
	b, err := BuildBatch("tok", sessionWithEdits(t))
	if err != nil {
		t.Fatalf("BuildBatch() error = %v", err)
	}
	if b.Token != "tok" {
		t.Errorf("token = %q", b.Token)
	}
	if len(b.New) != 1 || b.New[0].Text != "new note" {
		t.Errorf("new = %+v, want one placement", b.New)
	}
	if len(b.Changes) != 1 || b.Changes[0].ID != 4 || b.Changes[0].Action != "complete" {
		t.Errorf("changes = %+v, want complete for id 4", b.Changes)
	}
}

func TestBuildBatchEmpty(t *testing.T) {
	s := annotate.NewSession(nil)
	if _, err := BuildBatch("tok", s); !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("BuildBatch() error = %v, want ErrEmptyBatch", err)
	}
}

func waitResult(t *testing.T, sub *Submitter, now time.Time) (string, bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		warn, reload := sub.Poll(now)
		if warn != "" || reload {
			return warn, reload
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("submitter never produced a result")
	return "", false
}

func TestSubmitterDispatchAndReload(t *testing.T) {
	fake := &fakeStore{}
	sub := NewSubmitter(fake, time.Second)
	now := time.Now()

	sub.Start(PendingEditBatch{Token: "tok", Changes: []BatchChange{{ID: 1, Action: "delete"}}}, now)
	if !sub.Busy() {
		t.Fatal("submitter should be busy after Start")
	}

	// The reload fires at the fixed deadline, not on the submit result.
	if _, reload := sub.Poll(now.Add(ReloadDelay - time.Millisecond)); reload {
		t.Error("reload fired before its deadline")
	}
	_, reload := waitResult(t, sub, now.Add(ReloadDelay))
	if !reload {
		t.Error("expected reload at the deadline")
	}
	if fake.seen() != 1 {
		t.Fatalf("store saw %d batches, want 1", fake.seen())
	}
	if sub.Busy() {
		t.Error("submitter should be idle after the reload")
	}
}

func TestSubmitterFailureWarnsAndStillReloads(t *testing.T) {
	fake := &fakeStore{err: errors.New("boom")}
	sub := NewSubmitter(fake, time.Second)
	now := time.Now()

	sub.Start(PendingEditBatch{Token: "tok", Changes: []BatchChange{{ID: 2, Action: "complete"}}}, now)

	var sawWarn, sawReload bool
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && !(sawWarn && sawReload) {
		warn, reload := sub.Poll(now.Add(ReloadDelay))
		sawWarn = sawWarn || warn != ""
		sawReload = sawReload || reload
		time.Sleep(time.Millisecond)
	}
	if !sawWarn {
		t.Error("failed submit should surface a warning")
	}
	if !sawReload {
		t.Error("reload must fire even when the submit fails")
	}
	// At most once: the failed batch is never retried.
	if fake.seen() != 1 {
		t.Errorf("store saw %d batches, want exactly 1", fake.seen())
	}
}

func TestSubmitterIgnoresStartWhileInflight(t *testing.T) {
	gate := make(chan struct{})
	fake := &fakeStore{gate: gate}
	sub := NewSubmitter(fake, time.Second)
	now := time.Now()

	sub.Start(PendingEditBatch{Token: "a"}, now)
	sub.Start(PendingEditBatch{Token: "b"}, now)
	close(gate)

	_, reload := waitResult(t, sub, now.Add(ReloadDelay))
	if !reload {
		t.Fatal("expected reload")
	}
	if fake.seen() != 1 {
		t.Errorf("store saw %d batches, want 1", fake.seen())
	}
}
