package brain

// =============================================================================
// BRAIN - COOPERATIVE OPERATION SCHEDULER
// =============================================================================
// The Brain owns the dictionary, the concept registry and the resolver, and
// drives queued operations from a single self-re-arming named task. One pass
// snapshots the queue, executes each operation in FIFO order outside the
// locks, then prunes completed operations and promotes their successors.

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"chatbrain/internal/config"
	"chatbrain/internal/lang"
	"chatbrain/internal/logging"
)

const (
	operationsTaskCategory = "Brain"
	operationsTaskName     = "Operations"
)

// ApologyMessage opens every completed-with-errors response. The joined
// operation errors follow on subsequent lines.
const ApologyMessage = "Hmmm. Sorry, it looks like I had an internal error with one of my operations. My sincerest apologies. Here is what went wrong:"

// fallbackResponse is sent when no intent handler claimed the input.
const fallbackResponse = "I'm not sure what you meant by that yet."

// Brain ties the language layers together and schedules work.
type Brain struct {
	cfg      *config.Config
	dict     *lang.Dictionary
	registry *lang.Registry
	resolver *lang.Resolver

	responder Responder

	speakerMu sync.RWMutex
	speaker   Speaker

	opsMu sync.RWMutex
	ops   []*Operation

	tasksMu    sync.RWMutex
	tasks      []*Task
	namedTasks map[lockKey]*Task

	lockers *lockerRegistry

	stateMu sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a stopped Brain. Start arms the operations loop.
func New(cfg *config.Config, responder Responder) *Brain {
	if cfg == nil {
		cfg = config.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	b := &Brain{
		cfg:        cfg,
		dict:       lang.NewDictionary(),
		responder:  responder,
		namedTasks: make(map[lockKey]*Task),
		lockers:    newLockerRegistry(),
		ctx:        ctx,
		cancel:     cancel,
	}
	b.registry = lang.NewRegistry(b.dict)
	b.resolver = lang.NewResolver(b.dict, lang.ResolverConfig{
		Threshold:           cfg.Matching.Threshold,
		QuickSearch:         cfg.Matching.QuickSearch,
		MaxCombinations:     cfg.Matching.MaxCombinations,
		ConfidenceThreshold: cfg.Matching.ConfidenceThreshold,
	})
	b.dict.SetScheduler(b, cfg.UsageFactorDelay())
	b.dict.SetScoreWorkers(cfg.Matching.ScoreWorkers)
	return b
}

// Dictionary returns the shared lexical dictionary.
func (b *Brain) Dictionary() *lang.Dictionary { return b.dict }

// Registry returns the concept registry.
func (b *Brain) Registry() *lang.Registry { return b.registry }

// SetSpeaker wires the optional speech boundary.
func (b *Brain) SetSpeaker(s Speaker) {
	b.speakerMu.Lock()
	b.speaker = s
	b.speakerMu.Unlock()
}

// Say forwards text to the configured speaker, if any.
func (b *Brain) Say(text string) error {
	b.speakerMu.RLock()
	s := b.speaker
	b.speakerMu.RUnlock()
	if s == nil || !b.cfg.Speech.Enabled {
		return nil
	}
	return s.Say(text, b.cfg.Speech.VoiceCode)
}

func (b *Brain) rootCtx() context.Context {
	b.stateMu.Lock()
	defer b.stateMu.Unlock()
	return b.ctx
}

// Start arms the operations loop. Starting a running Brain is a no-op.
func (b *Brain) Start() error {
	b.stateMu.Lock()
	if b.running {
		b.stateMu.Unlock()
		return nil
	}
	if b.ctx.Err() != nil {
		b.ctx, b.cancel = context.WithCancel(context.Background())
	}
	b.running = true
	b.stateMu.Unlock()

	logging.Brain("brain starting (tick=%s)", b.cfg.TickInterval())
	return b.StartNamed(operationsTaskCategory, operationsTaskName, b.cfg.TickInterval(), b.processOperations)
}

// Stop cancels all tasks and waits for them to drain, bounded by ctx. Safe
// to call on a Brain that was never started; background tasks are drained
// either way.
func (b *Brain) Stop(ctx context.Context) error {
	b.stateMu.Lock()
	cancel := b.cancel
	b.stateMu.Unlock()

	cancel()

	b.tasksMu.RLock()
	tasks := make([]*Task, len(b.tasks))
	copy(tasks, b.tasks)
	b.tasksMu.RUnlock()

	for _, t := range tasks {
		select {
		case <-t.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	b.stateMu.Lock()
	b.running = false
	b.stateMu.Unlock()
	logging.Brain("brain stopped")
	return nil
}

// Enqueue appends an operation chain for execution on the next pass. Only
// the head is queued; successors are promoted as their predecessors
// complete.
func (b *Brain) Enqueue(op *Operation) {
	if op == nil {
		return
	}
	b.opsMu.Lock()
	b.ops = append(b.ops, op)
	b.opsMu.Unlock()
	logging.BrainDebug("queued operation %s (%s)", op.Tag(), op.ID())
}

// OperationCount reports queued operations, useful for draining in tests.
func (b *Brain) OperationCount() int {
	b.opsMu.RLock()
	defer b.opsMu.RUnlock()
	return len(b.ops)
}

// AddInput queues the standard input pipeline for one utterance: tokenize
// and learn the words, resolve an intent, respond. The head operation is
// returned so callers can chain their own follow-up.
func (b *Brain) AddInput(text string) *Operation {
	logging.Brain("input received (%d chars)", len(text))
	logging.RecordTranscript(logging.TranscriptEvent{
		Type: logging.TranscriptInput,
		Text: text,
	})

	var (
		tokens  []string
		matches []*lang.MatchedConcepts
		res     *lang.Resolution
	)

	split := NewOperation("SplitText", func(ctx context.Context, op *Operation) error {
		tokens = lang.Parse(text)
		for _, tok := range tokens {
			if tok == " " {
				continue
			}
			item, err := b.dict.AddText(tok)
			if err != nil {
				continue
			}
			item.MarkUsed()
		}
		b.dict.UpdateUsageFactor(false)

		matches = b.resolver.MatchTokens(ctx, tokens)
		logging.RecordTranscript(logging.TranscriptEvent{
			Type:    logging.TranscriptTokensMatched,
			Tokens:  len(tokens),
			Matches: len(matches),
		})
		return nil
	})

	resolve := NewOperation("ResolveIntent", func(ctx context.Context, op *Operation) error {
		if !split.Completed() {
			return ErrNotReady
		}
		res = b.resolver.Resolve(ctx, op, tokens, matches)
		if res.Best != nil {
			op.SetIntentContext(res.Best.Context)
		}
		logging.RecordTranscript(logging.TranscriptEvent{
			Type:    logging.TranscriptIntentResolved,
			Score:   res.Confidence,
			Matches: res.Explored,
		})
		return nil
	})

	respond := NewOperation("Respond", func(ctx context.Context, op *Operation) error {
		if res == nil {
			return ErrNotReady
		}
		if res.Best == nil {
			b.deliver(fallbackResponse)
			return nil
		}
		msg, err := res.Execute()
		if err != nil {
			return fmt.Errorf("intent execution: %w", err)
		}
		if msg == "" {
			msg = fallbackResponse
		}
		b.deliver(msg)
		return nil
	})

	split.SetNext(resolve)
	resolve.SetNext(respond)
	b.Enqueue(split)
	return split
}

func (b *Brain) deliver(msg string) {
	logging.RecordTranscript(logging.TranscriptEvent{
		Type: logging.TranscriptResponse,
		Text: msg,
	})
	if b.responder != nil {
		b.responder.DoResponse(msg, "", "")
	}
}

// processOperations is one scheduler pass. It always re-arms itself under
// the same task key unless shutdown has been requested.
func (b *Brain) processOperations(taskCtx context.Context) {
	root := b.rootCtx()
	if root.Err() != nil {
		return
	}

	b.Tick()

	if root.Err() != nil {
		return
	}
	if err := b.StartNamed(operationsTaskCategory, operationsTaskName, b.cfg.TickInterval(), b.processOperations); err != nil {
		logging.Get(logging.CategoryBrain).Error("failed to re-arm operations loop: %v", err)
	}
}

// apologize reports a failed operation back through the responder.
func (b *Brain) apologize(op *Operation) {
	var lines []string
	for _, err := range op.Errors() {
		lines = append(lines, err.Error())
	}
	joined := strings.Join(lines, "\n")

	logging.Get(logging.CategoryBrain).Error("operation %s failed: %s", op.Tag(), joined)
	logging.RecordTranscript(logging.TranscriptEvent{
		Type:   logging.TranscriptOperationError,
		Detail: fmt.Sprintf("%s: %s", op.Tag(), joined),
	})
	b.deliver(ApologyMessage + "\n" + joined)
}

// Tick runs a single scheduler pass synchronously: execute the current
// queue in order, prune completed operations, promote successors, and
// apologize for failures. The timer-driven loop calls this; tests can call
// it directly to drive the queue deterministically.
func (b *Brain) Tick() {
	b.opsMu.RLock()
	pass := make([]*Operation, len(b.ops))
	copy(pass, b.ops)
	b.opsMu.RUnlock()

	root := b.rootCtx()
	for _, op := range pass {
		if root.Err() != nil {
			break
		}
		op.Execute(root)
	}

	var apologies []*Operation
	b.opsMu.Lock()
	kept := b.ops[:0]
	for _, op := range b.ops {
		if !op.Completed() {
			kept = append(kept, op)
			continue
		}
		if op.CompletedWithErrors() {
			// A failure ends the chain; the apology is the response.
			apologies = append(apologies, op)
			continue
		}
		if next := op.Next(); next != nil {
			kept = append(kept, next)
		}
	}
	for i := len(kept); i < len(b.ops); i++ {
		b.ops[i] = nil
	}
	b.ops = kept
	b.opsMu.Unlock()

	for _, op := range apologies {
		b.apologize(op)
	}
}

// WaitIdle blocks until the operation queue drains or ctx expires. It is a
// convenience for hosts that want request/response behavior on top of the
// asynchronous queue.
func (b *Brain) WaitIdle(ctx context.Context) error {
	for {
		if b.OperationCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
	}
}
