package lang

import (
	"context"
	"errors"
	"fmt"

	"chatbrain/internal/logging"
)

// ErrNoIntent is returned when no interpretation path produced an intent.
var ErrNoIntent = errors.New("no intent resolved")

// IntentContext keys populated by the resolver for handler use.
const (
	ContextKeyTokens = "input_tokens"
	ContextKeyText   = "input_text"
)

// ResolverConfig bounds the exploration of candidate interpretations.
type ResolverConfig struct {
	Threshold           float64 // minimum CompareText score for a candidate
	QuickSearch         bool    // exact group-key lookup before fuzzy scan
	MaxCombinations     int     // cap on explored selection vectors, 0 = unlimited
	ConfidenceThreshold float64 // stop exploring once the best path reaches this
}

// DefaultResolverConfig returns sensible defaults.
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		Threshold:           0.5,
		QuickSearch:         true,
		MaxCombinations:     256,
		ConfidenceThreshold: 0.9,
	}
}

// Resolver enumerates best-first combinations of per-token candidate
// matches and drives concept handlers over a growing handler context chain.
type Resolver struct {
	dict *Dictionary
	cfg  ResolverConfig
}

// NewResolver creates a resolver over the dictionary.
func NewResolver(dict *Dictionary, cfg ResolverConfig) *Resolver {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultResolverConfig().Threshold
	}
	return &Resolver{dict: dict, cfg: cfg}
}

// MatchTokens builds the scored candidate list for every non-whitespace
// token. Position indexes refer to the original token slice. Wildcard
// handlers participate at every position, floored at the match threshold so
// they never outrank a specific trigger.
func (r *Resolver) MatchTokens(ctx context.Context, tokens []string) []*MatchedConcepts {
	wildcard := r.dict.Global().ConceptContexts()

	var out []*MatchedConcepts
	for pos, token := range tokens {
		if token == " " || token == "" {
			continue
		}
		mc := &MatchedConcepts{Token: token, Position: pos}

		for _, entry := range r.dict.FindMatchingEntries(ctx, token, r.cfg.Threshold, r.cfg.QuickSearch) {
			for _, cc := range entry.Item.ConceptContexts() {
				mc.Matches = append(mc.Matches, &MatchedConcept{Context: cc, Score: entry.Score})
			}
		}
		for _, cc := range wildcard {
			mc.Matches = append(mc.Matches, &MatchedConcept{Context: cc, Score: r.cfg.Threshold})
		}

		out = append(out, mc)
		logging.IntentDebug("token %q at %d: %d candidates", token, pos, len(mc.Matches))
	}
	return out
}

// Resolution is the outcome of exploring one token sequence.
type Resolution struct {
	Best              *ConceptHandlerContext
	Confidence        float64
	Explored          int
	TotalCombinations int
}

// Resolve explores selection vectors in best-first order, invoking the
// chosen concept handler at each position left to right. The path with the
// highest average confidence wins; at equal confidence the earliest-yielded
// combination is kept. Exploration stops early once the confidence
// threshold or the combination budget is reached.
func (r *Resolver) Resolve(ctx context.Context, op Driver, tokens []string, matches []*MatchedConcepts) *Resolution {
	timer := logging.StartTimer(logging.CategoryIntent, "Resolve")
	defer timer.Stop()

	res := &Resolution{TotalCombinations: GetCombinationCount(matches)}
	if res.TotalCombinations == 0 {
		return res
	}

	gen := NewCombinationsFor(matches)
	for {
		if ctx.Err() != nil {
			break
		}
		vec, ok := gen.Next()
		if !ok {
			break
		}
		res.Explored++

		path := r.walkPath(op, tokens, matches, vec)
		avg := path.AverageConfidence()
		if res.Best == nil || avg > res.Confidence {
			res.Best = path
			res.Confidence = avg
		}

		if r.cfg.ConfidenceThreshold > 0 && res.Confidence >= r.cfg.ConfidenceThreshold {
			break
		}
		if r.cfg.MaxCombinations > 0 && res.Explored >= r.cfg.MaxCombinations {
			break
		}
	}

	logging.IntentDebug("resolved after %d/%d combinations (confidence=%.2f)",
		res.Explored, res.TotalCombinations, res.Confidence)
	return res
}

// walkPath drives one selection vector through its handler chain.
func (r *Resolver) walkPath(op Driver, tokens []string, matches []*MatchedConcepts, vec []int) *ConceptHandlerContext {
	cur := NewConceptHandlerContext(op)
	cur.Context.Set(ContextKeyTokens, tokens)

	pathIdx := 0
	for pos, mc := range matches {
		if len(mc.Matches) == 0 {
			continue
		}
		sel := mc.Matches[vec[pos]]
		cur = cur.Clone(pathIdx, sel)
		cur.SetRight(nextSelection(matches, vec, pos))

		r.invokeHandler(cur, sel)
		cur.ConfidenceSum += cur.Confidence
		pathIdx++
	}
	return cur
}

// nextSelection finds the chosen match at the next position that has
// candidates, giving handlers right-neighbor lookahead.
func nextSelection(matches []*MatchedConcepts, vec []int, pos int) *MatchedConcept {
	for next := pos + 1; next < len(matches); next++ {
		if len(matches[next].Matches) > 0 {
			return matches[next].Matches[vec[next]]
		}
	}
	return nil
}

// invokeHandler runs one concept handler with error isolation: a panic or
// error leaves the position at zero confidence and the walk continues.
func (r *Resolver) invokeHandler(ctx *ConceptHandlerContext, sel *MatchedConcept) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.Get(logging.CategoryIntent).Error("handler for %q panicked: %v", sel.Context.Item().Key(), rec)
		}
	}()
	if err := sel.Context.Handler()(ctx); err != nil {
		logging.IntentDebug("handler for %q declined: %v", sel.Context.Item().Key(), err)
	}
}

// Execute runs the winning path's best intent handler per position and
// returns the accumulated response.
func (res *Resolution) Execute() (string, error) {
	if res.Best == nil {
		return "", ErrNoIntent
	}

	var errs []error
	for _, cand := range res.Best.BestIntentHandlers() {
		if err := runIntentHandler(cand, res.Best); err != nil {
			errs = append(errs, err)
		}
	}
	return res.Best.Context.Response(), errors.Join(errs...)
}

func runIntentHandler(cand IntentCandidate, ctx *ConceptHandlerContext) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("intent handler panicked: %v", rec)
		}
	}()
	return cand.Handler(ctx)
}
