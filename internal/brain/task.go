package brain

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"chatbrain/internal/logging"
)

// ErrNotCancellable is returned when Cancel is called on a task that was
// not constructed with cancellation support.
var ErrNotCancellable = errors.New("task was not created with cancellation support")

// TaskAction is the body of a background task. Long-running actions are
// expected to observe ctx at their own suspension points; cancellation is
// cooperative, never preemptive.
type TaskAction func(ctx context.Context)

// Task is a schedulable unit of background work: an action with an optional
// delay, an optional (category, name) identity for de-duplication, and an
// optional cancellation capability. Cleanup - removal from the Brain's task
// registry - always runs when the action returns, whatever the outcome.
type Task struct {
	id       string
	category string
	name     string
	delay    time.Duration
	action   TaskAction

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	named     bool
	completed bool
	err       error
	done      chan struct{}

	brain *Brain
}

func (b *Brain) newTask(action TaskAction, cancellable bool) *Task {
	t := &Task{
		id:     uuid.NewString(),
		action: action,
		done:   make(chan struct{}),
		brain:  b,
	}
	if cancellable {
		t.ctx, t.cancel = context.WithCancel(b.rootCtx())
	} else {
		t.ctx = b.rootCtx()
	}
	return t
}

// ID returns the task's unique id.
func (t *Task) ID() string { return t.id }

// Key returns the (category, name) identity, empty strings when unnamed.
func (t *Task) Key() (string, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.named {
		return "", ""
	}
	return t.category, t.name
}

// Done closes when the task has finished (success, error, or cancellation).
func (t *Task) Done() <-chan struct{} { return t.done }

// Err returns the terminal error state, nil on clean completion.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Cancel requests cooperative cancellation. It fails loudly when the task
// was not constructed with cancellation support; otherwise it is a
// one-shot, idempotent request.
func (t *Task) Cancel() error {
	if t.cancel == nil {
		return ErrNotCancellable
	}
	t.cancel()
	return nil
}

// clearName detaches the task from its registry key. Used when a newer task
// steals the (category, name) identity.
func (t *Task) clearName() {
	t.mu.Lock()
	t.named = false
	t.mu.Unlock()
}

// run waits out the delay, observing cancellation, then executes the
// action. Deregistration is guaranteed via defer.
func (t *Task) run() {
	defer func() {
		if rec := recover(); rec != nil {
			t.mu.Lock()
			t.err = errRecovered(rec)
			t.mu.Unlock()
			logging.Get(logging.CategoryTask).Error("task %s panicked: %v", t.id, rec)
		}
		t.mu.Lock()
		t.completed = true
		t.mu.Unlock()
		t.brain.removeTask(t)
		close(t.done)
	}()

	if !t.checkDelay() {
		t.mu.Lock()
		t.err = t.ctx.Err()
		t.mu.Unlock()
		return
	}

	t.action(t.ctx)
}

// checkDelay waits out the configured delay. Returns false when cancelled
// during the wait.
func (t *Task) checkDelay() bool {
	if t.delay <= 0 {
		return t.ctx.Err() == nil
	}
	timer := time.NewTimer(t.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-t.ctx.Done():
		return false
	}
}

func errRecovered(rec any) error {
	if err, ok := rec.(error); ok {
		return err
	}
	return errors.New("task panicked")
}

// StartTask runs action on its own goroutine, optionally after a delay.
// The returned task supports cancellation.
func (b *Brain) StartTask(action TaskAction, delay time.Duration) *Task {
	t := b.newTask(action, true)
	t.delay = delay

	b.tasksMu.Lock()
	b.tasks = append(b.tasks, t)
	b.tasksMu.Unlock()

	logging.TaskDebug("task %s started (delay=%v)", t.id, delay)
	go t.run()
	return t
}

// StartPlainTask runs a short fire-and-forget action without cancellation
// support. Cancel on the returned task fails with ErrNotCancellable.
func (b *Brain) StartPlainTask(action TaskAction) *Task {
	t := b.newTask(action, false)

	b.tasksMu.Lock()
	b.tasks = append(b.tasks, t)
	b.tasksMu.Unlock()

	logging.TaskDebug("plain task %s started", t.id)
	go t.run()
	return t
}

// StartNamed runs action under a (category, name) identity after a delay.
// At most one task per identity is ever live: a newer registration steals
// the key from the old task and requests its cancellation before
// registering the new one.
func (b *Brain) StartNamed(category, name string, delay time.Duration, action func(context.Context)) error {
	t := b.newTask(action, true)
	t.delay = delay
	t.category = category
	t.name = name
	t.named = true

	key := lockKey{category, name}

	b.tasksMu.Lock()
	if old, ok := b.namedTasks[key]; ok && old != nil {
		old.clearName()
		old.Cancel()
		logging.TaskDebug("task %s/%s replaced (old=%s, new=%s)", category, name, old.id, t.id)
	}
	b.namedTasks[key] = t
	b.tasks = append(b.tasks, t)
	b.tasksMu.Unlock()

	go t.run()
	return nil
}

// NamedTask returns the live task registered under (category, name).
func (b *Brain) NamedTask(category, name string) (*Task, bool) {
	b.tasksMu.RLock()
	defer b.tasksMu.RUnlock()
	t, ok := b.namedTasks[lockKey{category, name}]
	return t, ok && t != nil
}

// TaskCount returns the number of live tasks.
func (b *Brain) TaskCount() int {
	b.tasksMu.RLock()
	defer b.tasksMu.RUnlock()
	return len(b.tasks)
}

// removeTask deregisters a finished task: swap-and-truncate removal from
// the arena, plus clearing the named registry entry when the task still
// owns its key.
func (b *Brain) removeTask(t *Task) {
	b.tasksMu.Lock()
	defer b.tasksMu.Unlock()

	for i, cand := range b.tasks {
		if cand == t {
			last := len(b.tasks) - 1
			b.tasks[i] = b.tasks[last]
			b.tasks[last] = nil
			b.tasks = b.tasks[:last]
			break
		}
	}

	t.mu.Lock()
	named := t.named
	key := lockKey{t.category, t.name}
	t.mu.Unlock()

	if named && b.namedTasks[key] == t {
		delete(b.namedTasks, key)
	}
	logging.TaskDebug("task %s removed (live=%d)", t.id, len(b.tasks))
}
