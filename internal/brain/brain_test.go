package brain

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"chatbrain/internal/lang"
)

// recordingResponder collects every delivered response.
type recordingResponder struct {
	mu       sync.Mutex
	messages []string
}

func (r *recordingResponder) DoResponse(message, preText, postText string) {
	r.mu.Lock()
	r.messages = append(r.messages, preText+message+postText)
	r.mu.Unlock()
}

func (r *recordingResponder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.messages))
	copy(out, r.messages)
	return out
}

// registerGreeting gives the pipeline one deterministic intent.
func registerGreeting(t *testing.T, b *Brain) {
	t.Helper()
	err := b.Registry().AddConceptTriggerWords("hello,hi", func(ctx *lang.ConceptHandlerContext) error {
		ctx.AddIntentHandler(func(ctx *lang.ConceptHandlerContext) error {
			ctx.Context.AddResponse("Hello to you too!")
			return nil
		}, ctx.CurrentMatch().Score)
		return nil
	})
	if err != nil {
		t.Fatalf("registration: %v", err)
	}
}

func drain(b *Brain) {
	// the input pipeline is a three-operation chain; a few extra passes
	// cover promoted successors and not-ready retries
	for i := 0; i < 8; i++ {
		b.Tick()
	}
}

func TestAddInputProducesResponse(t *testing.T) {
	rec := &recordingResponder{}
	b := newTestBrain(t, rec)
	registerGreeting(t, b)

	b.AddInput("hello")
	drain(b)

	got := rec.all()
	if len(got) != 1 {
		t.Fatalf("responses = %q, want exactly one", got)
	}
	if got[0] != "Hello to you too!" {
		t.Errorf("response = %q", got[0])
	}
	if b.OperationCount() != 0 {
		t.Errorf("queue not drained: %d operations left", b.OperationCount())
	}
}

func TestAddInputUnknownFallsBack(t *testing.T) {
	rec := &recordingResponder{}
	b := newTestBrain(t, rec)
	registerGreeting(t, b)

	b.AddInput("xyzzy plugh")
	drain(b)

	got := rec.all()
	if len(got) != 1 {
		t.Fatalf("responses = %q, want exactly one", got)
	}
	if strings.Contains(got[0], "Hello") {
		t.Errorf("unknown input matched the greeting: %q", got[0])
	}
}

func TestAddInputLearnsWords(t *testing.T) {
	b := newTestBrain(t, &recordingResponder{})

	before := b.Dictionary().EntryCount()
	b.AddInput("completely novel words")
	drain(b)

	if b.Dictionary().EntryCount() <= before {
		t.Error("input tokens were not added to the dictionary")
	}
}

func TestFailingOperationApologizesOnce(t *testing.T) {
	rec := &recordingResponder{}
	b := newTestBrain(t, rec)

	b.Enqueue(NewOperation("Doomed", func(context.Context, *Operation) error {
		return errors.New("wires crossed")
	}))
	drain(b)

	got := rec.all()
	if len(got) != 1 {
		t.Fatalf("responses = %q, want exactly one apology", got)
	}
	if !strings.Contains(got[0], "Sorry") {
		t.Errorf("apology missing: %q", got[0])
	}
	if !strings.Contains(got[0], "wires crossed") {
		t.Errorf("apology does not carry the error: %q", got[0])
	}
}

func TestChainStopsDeliveringAfterFailure(t *testing.T) {
	rec := &recordingResponder{}
	b := newTestBrain(t, rec)

	var successorRan bool
	head := NewOperation("Doomed", func(context.Context, *Operation) error {
		return errors.New("head failed")
	})
	head.SetNext(NewOperation("After", func(context.Context, *Operation) error {
		successorRan = true
		b.deliver("successor response")
		return nil
	}))
	b.Enqueue(head)
	drain(b)

	// a failure ends the chain: the apology is the only response, and the
	// successor is never promoted
	if successorRan {
		t.Error("successor ran after a failed predecessor")
	}
	got := rec.all()
	if len(got) != 1 {
		t.Fatalf("responses = %q, want just the apology", got)
	}
	if !strings.Contains(got[0], "Sorry") {
		t.Errorf("apology missing: %q", got[0])
	}
	if b.OperationCount() != 0 {
		t.Errorf("queue = %d, want empty", b.OperationCount())
	}
}

func TestNotReadyOperationRetriesNextTick(t *testing.T) {
	b := newTestBrain(t, &recordingResponder{})

	calls := 0
	b.Enqueue(NewOperation("Waiting", func(context.Context, *Operation) error {
		calls++
		if calls < 3 {
			return ErrNotReady
		}
		return nil
	}))

	b.Tick()
	if calls != 1 || b.OperationCount() != 1 {
		t.Fatalf("after tick 1: calls=%d queue=%d", calls, b.OperationCount())
	}
	b.Tick()
	b.Tick()
	if calls != 3 || b.OperationCount() != 0 {
		t.Errorf("after tick 3: calls=%d queue=%d", calls, b.OperationCount())
	}
}

func TestOperationsEnqueuedMidTickWaitForNextTick(t *testing.T) {
	b := newTestBrain(t, &recordingResponder{})

	var lateRan bool
	b.Enqueue(NewOperation("First", func(context.Context, *Operation) error {
		b.Enqueue(NewOperation("Late", func(context.Context, *Operation) error {
			lateRan = true
			return nil
		}))
		return nil
	}))

	b.Tick()
	if lateRan {
		t.Fatal("mid-tick enqueue must not run in the same pass")
	}
	b.Tick()
	if !lateRan {
		t.Error("late operation never ran on the next tick")
	}
}

func TestStartedBrainProcessesInput(t *testing.T) {
	rec := &recordingResponder{}
	b := newTestBrain(t, rec)
	registerGreeting(t, b)

	if err := b.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	b.AddInput("hi")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := b.WaitIdle(ctx); err != nil {
		t.Fatalf("WaitIdle: %v", err)
	}

	waitForResponder(t, rec)
	if got := rec.all(); got[0] != "Hello to you too!" {
		t.Errorf("response = %q", got)
	}
}

func waitForResponder(t *testing.T, rec *recordingResponder) {
	t.Helper()
	waitFor(t, func() bool { return len(rec.all()) > 0 })
}
