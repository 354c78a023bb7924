package lang

import "sync"

// IntentHandler is a candidate callback registered to carry out a resolved
// intent, selected by confidence once a path wins.
type IntentHandler func(ctx *ConceptHandlerContext) error

// IntentCandidate pairs an intent handler with the confidence it was
// registered at.
type IntentCandidate struct {
	Handler    IntentHandler
	Confidence float64
}

// Driver is the narrow view of the scheduling operation a handler context
// carries. brain.Operation satisfies this.
type Driver interface {
	Tag() string
	AddError(err error)
}

// IntentContext accumulates shared state across the chained handler calls of
// one interpretation path.
type IntentContext struct {
	mu        sync.Mutex
	values    map[string]any
	responses []string
}

// NewIntentContext creates an empty context.
func NewIntentContext() *IntentContext {
	return &IntentContext{values: make(map[string]any)}
}

// Set stores a value under key.
func (ic *IntentContext) Set(key string, value any) {
	ic.mu.Lock()
	ic.values[key] = value
	ic.mu.Unlock()
}

// Get returns the value stored under key.
func (ic *IntentContext) Get(key string) (any, bool) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	v, ok := ic.values[key]
	return v, ok
}

// AddResponse appends a sentence to the outgoing response.
func (ic *IntentContext) AddResponse(text string) {
	if text == "" {
		return
	}
	ic.mu.Lock()
	ic.responses = append(ic.responses, text)
	ic.mu.Unlock()
}

// Responses returns the accumulated response sentences.
func (ic *IntentContext) Responses() []string {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	out := make([]string, len(ic.responses))
	copy(out, ic.responses)
	return out
}

// Response joins the accumulated sentences with single spaces.
func (ic *IntentContext) Response() string {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	switch len(ic.responses) {
	case 0:
		return ""
	case 1:
		return ic.responses[0]
	}
	out := ic.responses[0]
	for _, s := range ic.responses[1:] {
		out += " " + s
	}
	return out
}

// ConceptHandlerContext is the unit of work passed between chained concept
// handlers along one interpretation path. Confidence is per-call and never
// inherited: Clone always resets it to zero so each handler re-earns its
// own.
type ConceptHandlerContext struct {
	// Operation is the driving scheduler operation.
	Operation Driver

	// Context is the accumulating intent state, shared along the path.
	Context *IntentContext

	// Confidence is the maximum confidence of any intent handler registered
	// at the current position.
	Confidence float64

	// ConfidenceSum accumulates the per-position confidences along the path.
	ConfidenceSum float64

	// Matched is the ordered list of matched concepts along this path.
	Matched []*MatchedConcept

	// Index is the current position inside Matched.
	Index int

	candidates [][]IntentCandidate
	right      *MatchedConcept
}

// NewConceptHandlerContext creates the root context for one interpretation
// path.
func NewConceptHandlerContext(op Driver) *ConceptHandlerContext {
	return &ConceptHandlerContext{
		Operation: op,
		Context:   NewIntentContext(),
		Index:     -1,
	}
}

// Clone produces the context for the next position: it shares the growing
// IntentContext, copies the matched list and confidence sum, appends the
// newly chosen matched concept, and starts Confidence at zero.
func (c *ConceptHandlerContext) Clone(index int, matched *MatchedConcept) *ConceptHandlerContext {
	next := &ConceptHandlerContext{
		Operation:     c.Operation,
		Context:       c.Context,
		Confidence:    0,
		ConfidenceSum: c.ConfidenceSum,
		Index:         index,
	}
	next.Matched = make([]*MatchedConcept, len(c.Matched), len(c.Matched)+1)
	copy(next.Matched, c.Matched)
	next.Matched = append(next.Matched, matched)

	next.candidates = make([][]IntentCandidate, len(c.candidates), index+1)
	copy(next.candidates, c.candidates)
	for len(next.candidates) <= index {
		next.candidates = append(next.candidates, nil)
	}
	return next
}

// SetRight gives the context lookahead to the upcoming matched neighbor.
// The resolver calls this before invoking the position's handler.
func (c *ConceptHandlerContext) SetRight(m *MatchedConcept) { c.right = m }

// CurrentMatch returns the matched concept at the current position.
func (c *ConceptHandlerContext) CurrentMatch() *MatchedConcept {
	if c.Index < 0 || c.Index >= len(c.Matched) {
		return nil
	}
	return c.Matched[c.Index]
}

// LeftHandlerMatch returns the matched concept immediately left of the
// current position, or nil at the start.
func (c *ConceptHandlerContext) LeftHandlerMatch() *MatchedConcept {
	if c.Index <= 0 || c.Index-1 >= len(c.Matched) {
		return nil
	}
	return c.Matched[c.Index-1]
}

// RightHandlerMatch returns the matched concept immediately right of the
// current position, or nil at the end.
func (c *ConceptHandlerContext) RightHandlerMatch() *MatchedConcept {
	return c.right
}

// IsNext reports whether the right neighbor matches text by group key;
// pass exact to require the exact identity key instead.
func (c *ConceptHandlerContext) IsNext(text string, exact ...bool) bool {
	return matchesText(c.RightHandlerMatch(), text, exact...)
}

// WasPrevious reports whether the left neighbor matches text by group key;
// pass exact to require the exact identity key instead.
func (c *ConceptHandlerContext) WasPrevious(text string, exact ...bool) bool {
	return matchesText(c.LeftHandlerMatch(), text, exact...)
}

func matchesText(m *MatchedConcept, text string, exact ...bool) bool {
	if m == nil || m.Context == nil || m.Context.Item() == nil {
		return false
	}
	item := m.Context.Item()
	if len(exact) > 0 && exact[0] {
		return item.Fragment().Key() == text
	}
	return item.GroupKey() == ToGroupKey(text)
}

// AddIntentHandler registers a candidate intent handler at the current
// position. The position's Confidence is the maximum over its candidates.
func (c *ConceptHandlerContext) AddIntentHandler(h IntentHandler, confidence float64) {
	if h == nil || c.Index < 0 {
		return
	}
	for len(c.candidates) <= c.Index {
		c.candidates = append(c.candidates, nil)
	}
	c.candidates[c.Index] = append(c.candidates[c.Index], IntentCandidate{Handler: h, Confidence: confidence})
	if confidence > c.Confidence {
		c.Confidence = confidence
	}
}

// CandidatesAt returns the intent candidates registered at a position.
func (c *ConceptHandlerContext) CandidatesAt(index int) []IntentCandidate {
	if index < 0 || index >= len(c.candidates) {
		return nil
	}
	return c.candidates[index]
}

// BestIntentHandlers picks the highest-confidence candidate per position,
// earliest registration winning ties.
func (c *ConceptHandlerContext) BestIntentHandlers() []IntentCandidate {
	var out []IntentCandidate
	for _, cands := range c.candidates {
		if len(cands) == 0 {
			continue
		}
		best := cands[0]
		for _, cand := range cands[1:] {
			if cand.Confidence > best.Confidence {
				best = cand
			}
		}
		out = append(out, best)
	}
	return out
}

// AverageConfidence returns the confidence sum divided by the number of
// positions visited so far.
func (c *ConceptHandlerContext) AverageConfidence() float64 {
	if c.Index < 0 {
		return 0
	}
	return c.ConfidenceSum / float64(c.Index+1)
}
