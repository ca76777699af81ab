package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"cadence/internal/model"
)

var ErrInvalidDueTime = errors.New("scheduler: invalid due time")

// DueEvent fires when a task's scheduled instant arrives.
type DueEvent struct {
	TaskID string
	Name   string
	DueAt  time.Time
}

type queueItem struct {
	event DueEvent
}

type dueQueue []queueItem

func (q dueQueue) Len() int { return len(q) }

func (q dueQueue) Less(i, j int) bool {
	return q[i].event.DueAt.Before(q[j].event.DueAt)
}

func (q dueQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *dueQueue) Push(x any) {
	*q = append(*q, x.(queueItem))
}

func (q *dueQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[0 : n-1]
	return item
}

// Watcher turns scheduled dates into timed DueEvents on a channel. The
// emitting side never blocks: when the consumer lags, events are dropped
// and counted instead of stalling the timer loop.
type Watcher struct {
	mu      sync.Mutex
	queue   dueQueue
	out     chan DueEvent
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewWatcher(bufferSize int) *Watcher {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Watcher{
		queue:  make(dueQueue, 0),
		out:    make(chan DueEvent, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (w *Watcher) C() <-chan DueEvent {
	return w.out
}

func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true
	heap.Init(&w.queue)
	go w.loop()
}

func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started || w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	close(w.stopCh)
	w.mu.Unlock()
	<-w.doneCh
}

func (w *Watcher) Track(ev DueEvent) error {
	if ev.DueAt.IsZero() {
		return ErrInvalidDueTime
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return errors.New("scheduler: watcher stopped")
	}

	heap.Push(&w.queue, queueItem{event: ev})
	w.signalWakeup()
	return nil
}

// TrackTasks replaces everything being watched with the scheduled,
// not-yet-completed tasks of the given list. Tasks whose instant already
// passed are skipped; the list view shows those as overdue instead.
func (w *Watcher) TrackTasks(tasks []model.Task, now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}

	w.queue = w.queue[:0]
	for _, task := range tasks {
		if task.ScheduledDate == nil || task.Lifecycle == model.LifecycleCompleted {
			continue
		}
		if !task.ScheduledDate.After(now) {
			continue
		}
		w.queue = append(w.queue, queueItem{event: DueEvent{
			TaskID: task.ID,
			Name:   task.Name,
			DueAt:  *task.ScheduledDate,
		}})
	}
	heap.Init(&w.queue)
	w.signalWakeup()
}

func (w *Watcher) Dropped() uint64 {
	return atomic.LoadUint64(&w.dropped)
}

func (w *Watcher) loop() {
	defer close(w.doneCh)
	defer close(w.out)

	var timer *time.Timer
	for {
		next, hasNext := w.peek()
		if !hasNext {
			select {
			case <-w.wakeup:
				continue
			case <-w.stopCh:
				return
			}
		}

		wait := time.Until(next.DueAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := w.popDue(time.Now())
			for _, ev := range due {
				select {
				case w.out <- ev:
				default:
					atomic.AddUint64(&w.dropped, 1)
				}
			}
		case <-w.wakeup:
			continue
		case <-w.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (w *Watcher) signalWakeup() {
	select {
	case w.wakeup <- struct{}{}:
	default:
	}
}

func (w *Watcher) peek() (DueEvent, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.queue) == 0 {
		return DueEvent{}, false
	}
	return w.queue[0].event, true
}

func (w *Watcher) popDue(now time.Time) []DueEvent {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]DueEvent, 0)
	for len(w.queue) > 0 {
		next := w.queue[0].event
		if next.DueAt.After(now) {
			break
		}
		item := heap.Pop(&w.queue).(queueItem)
		out = append(out, item.event)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
