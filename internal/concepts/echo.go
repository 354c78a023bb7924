package concepts

import (
	"strings"

	"chatbrain/internal/lang"
)

// echoConfidence keeps the fallback below any real trigger match.
const echoConfidence = 0.05

// Echo is the wildcard fallback: when nothing more specific claims the
// input it repeats it back, so the pipeline always has a winning path.
type Echo struct{}

// NewEcho creates the echo concept.
func NewEcho() *Echo { return &Echo{} }

func (e *Echo) Name() string { return "Echo" }

// RegisterHandlers binds the wildcard entry.
func (e *Echo) RegisterHandlers(reg *lang.Registry) error {
	return reg.AddConceptTriggerWordsFor(e.Name(), "*", e.onAnything)
}

func (e *Echo) onAnything(ctx *lang.ConceptHandlerContext) error {
	// one echo per utterance is enough
	if ctx.Index == 0 {
		ctx.AddIntentHandler(e.reply, echoConfidence)
	}
	return nil
}

func (e *Echo) reply(ctx *lang.ConceptHandlerContext) error {
	v, ok := ctx.Context.Get(lang.ContextKeyTokens)
	if !ok {
		return nil
	}
	tokens, ok := v.([]string)
	if !ok || len(tokens) == 0 {
		return nil
	}
	ctx.Context.AddResponse("You said: " + strings.TrimSpace(strings.Join(tokens, "")))
	return nil
}
