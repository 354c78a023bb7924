package brain

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"chatbrain/internal/lang"
)

// ErrNotReady is returned by an operation body to request re-invocation on
// a later tick when required input is still pending. It is not recorded as
// an error.
var ErrNotReady = errors.New("operation input not ready")

// OperationFunc is the body of an operation, invoked once per tick until the
// operation completes.
type OperationFunc func(ctx context.Context, op *Operation) error

// Operation is a unit of scheduled work owned by a Brain. Operations form a
// singly linked chain through Next; the Brain enqueues a completed
// operation's successor on the same tick it removes the predecessor. An
// operation whose body fails is still finished - completed with errors -
// and is surfaced through the apology response, never retried.
type Operation struct {
	id  string
	tag string

	mu        sync.Mutex
	parent    *Operation
	next      *Operation
	concern   string
	intentCtx *lang.IntentContext
	completed bool
	errs      []error
	run       OperationFunc
}

// NewOperation creates a pending operation with the given intent tag.
func NewOperation(tag string, run OperationFunc) *Operation {
	return &Operation{
		id:  uuid.NewString(),
		tag: tag,
		run: run,
	}
}

// ID returns the operation's unique id.
func (o *Operation) ID() string { return o.id }

// Tag returns the intent tag.
func (o *Operation) Tag() string { return o.tag }

// SetConcern records the concept or context the operation concerns.
func (o *Operation) SetConcern(concern string) {
	o.mu.Lock()
	o.concern = concern
	o.mu.Unlock()
}

// Concern returns the recorded concern.
func (o *Operation) Concern() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.concern
}

// SetIntentContext attaches the intent context the operation is building.
func (o *Operation) SetIntentContext(ic *lang.IntentContext) {
	o.mu.Lock()
	o.intentCtx = ic
	o.mu.Unlock()
}

// IntentContext returns the attached intent context, if any.
func (o *Operation) IntentContext() *lang.IntentContext {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.intentCtx
}

// SetNext chains a successor and returns it, so chains read left to right.
func (o *Operation) SetNext(next *Operation) *Operation {
	o.mu.Lock()
	o.next = next
	o.mu.Unlock()
	if next != nil {
		next.mu.Lock()
		next.parent = o
		next.mu.Unlock()
	}
	return next
}

// Next returns the chained successor, if any.
func (o *Operation) Next() *Operation {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.next
}

// Parent returns the predecessor in the chain, if any.
func (o *Operation) Parent() *Operation {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.parent
}

// Last walks the chain to its tail.
func (o *Operation) Last() *Operation {
	last := o
	for {
		next := last.Next()
		if next == nil {
			return last
		}
		last = next
	}
}

// AddError appends to the operation's error list.
func (o *Operation) AddError(err error) {
	if err == nil {
		return
	}
	o.mu.Lock()
	o.errs = append(o.errs, err)
	o.mu.Unlock()
}

// Errors returns a snapshot of the error list.
func (o *Operation) Errors() []error {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]error, len(o.errs))
	copy(out, o.errs)
	return out
}

// Completed reports whether the operation finished (with or without
// errors).
func (o *Operation) Completed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.completed
}

// CompletedWithErrors reports whether the operation finished carrying
// errors.
func (o *Operation) CompletedWithErrors() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.completed && len(o.errs) > 0
}

// Execute runs the operation body once. A panic or error is captured into
// the error list and the operation still completes; only ErrNotReady leaves
// it pending for the next tick.
func (o *Operation) Execute(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			o.AddError(fmt.Errorf("operation %q panicked: %v", o.tag, rec))
			o.setCompleted(true)
		}
	}()

	if o.run == nil {
		o.setCompleted(true)
		return
	}

	err := o.run(ctx, o)
	switch {
	case errors.Is(err, ErrNotReady):
		o.setCompleted(false)
	case err != nil:
		o.AddError(err)
		o.setCompleted(true)
	default:
		o.setCompleted(true)
	}
}

func (o *Operation) setCompleted(v bool) {
	o.mu.Lock()
	o.completed = v
	o.mu.Unlock()
}
