package scheduler

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cadence/internal/model"
)

func waitEvent(t *testing.T, ch <-chan DueEvent, timeout time.Duration) DueEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(timeout):
		t.Fatal("timed out waiting for due event")
		return DueEvent{}
	}
}

func TestWatcherEmitsInDueOrder(t *testing.T) {
	watcher := NewWatcher(8)
	watcher.Start()
	defer watcher.Stop()

	now := time.Now()
	if err := watcher.Track(DueEvent{TaskID: "later", DueAt: now.Add(80 * time.Millisecond)}); err != nil {
		t.Fatalf("track later: %v", err)
	}
	if err := watcher.Track(DueEvent{TaskID: "sooner", DueAt: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("track sooner: %v", err)
	}

	first := waitEvent(t, watcher.C(), time.Second)
	second := waitEvent(t, watcher.C(), time.Second)
	if first.TaskID != "sooner" || second.TaskID != "later" {
		t.Fatalf("unexpected order: first=%s second=%s", first.TaskID, second.TaskID)
	}
}

func TestWatcherNonBlockingDropsWhenConsumerIsSlow(t *testing.T) {
	watcher := NewWatcher(1)
	watcher.Start()
	defer watcher.Stop()

	due := time.Now().Add(20 * time.Millisecond)
	for i := 0; i < 25; i++ {
		if err := watcher.Track(DueEvent{TaskID: "evt", DueAt: due}); err != nil {
			t.Fatalf("track event: %v", err)
		}
	}

	time.Sleep(120 * time.Millisecond)
	if watcher.Dropped() == 0 {
		t.Fatalf("expected dropped events > 0, got %d", watcher.Dropped())
	}
}

func TestTrackValidatesDueTime(t *testing.T) {
	watcher := NewWatcher(1)
	if err := watcher.Track(DueEvent{TaskID: "bad"}); err != ErrInvalidDueTime {
		t.Fatalf("expected ErrInvalidDueTime, got %v", err)
	}
}

func TestTrackTasksReplacesQueue(t *testing.T) {
	watcher := NewWatcher(8)
	watcher.Start()
	defer watcher.Stop()

	now := time.Now()
	stale := now.Add(30 * time.Millisecond)
	if err := watcher.Track(DueEvent{TaskID: "stale", DueAt: stale}); err != nil {
		t.Fatalf("track stale: %v", err)
	}

	fresh := now.Add(40 * time.Millisecond)
	past := now.Add(-time.Minute)
	done := now.Add(50 * time.Millisecond)
	watcher.TrackTasks([]model.Task{
		{ID: "fresh", Name: "fresh", ScheduledDate: &fresh, Repeat: model.Once{}, Lifecycle: model.LifecyclePending},
		{ID: "overdue", Name: "overdue", ScheduledDate: &past, Repeat: model.Once{}, Lifecycle: model.LifecyclePending},
		{ID: "unscheduled", Name: "unscheduled", Repeat: model.Manual{}, Lifecycle: model.LifecyclePending},
		{ID: "done", Name: "done", ScheduledDate: &done, Repeat: model.Once{}, Lifecycle: model.LifecycleCompleted, StartTime: &now, EndTime: &now},
	}, now)

	got := waitEvent(t, watcher.C(), time.Second)
	if got.TaskID != "fresh" {
		t.Fatalf("expected only the fresh task to fire, got %s", got.TaskID)
	}
	select {
	case extra := <-watcher.C():
		t.Fatalf("unexpected extra event: %+v", extra)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcherStressConcurrentTrack(t *testing.T) {
	watcher := NewWatcher(4096)
	watcher.Start()
	defer watcher.Stop()

	const workers = 8
	const perWorker = 200
	total := workers * perWorker

	now := time.Now()
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		w := w
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				delay := time.Duration((w+i)%50+10) * time.Millisecond
				ev := DueEvent{
					TaskID: fmt.Sprintf("w%d-%d", w, i),
					Name:   "stress",
					DueAt:  now.Add(delay),
				}
				if err := watcher.Track(ev); err != nil {
					t.Errorf("track failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	deadline := time.After(5 * time.Second)
	var received int64
	for atomic.LoadInt64(&received) < int64(total) {
		select {
		case <-deadline:
			t.Fatalf("timeout waiting events: received=%d total=%d dropped=%d", received, total, watcher.Dropped())
		case <-watcher.C():
			atomic.AddInt64(&received, 1)
		}
	}

	if watcher.Dropped() != 0 {
		t.Fatalf("expected zero drops with active consumer, got=%d", watcher.Dropped())
	}
}
