package lang

// ConceptHandler is invoked during resolution when its trigger word is the
// chosen match for a token position. Handlers inspect the context's
// neighbors and register intent handler candidates with a confidence.
type ConceptHandler func(ctx *ConceptHandlerContext) error

// Concept is a singleton strategy object owning one or more trigger-word to
// handler registrations. Implementations self-register explicitly; there is
// no runtime discovery.
type Concept interface {
	Name() string
	RegisterHandlers(reg *Registry) error
}

// ConceptContext is the immutable pair created when a handler is registered
// for a dictionary entry.
type ConceptContext struct {
	item      *DictionaryItem
	handler   ConceptHandler
	handlerID uintptr
	concept   string
}

// NewConceptContext pairs an item with a handler. concept is the owning
// concept's name, carried for diagnostics.
func NewConceptContext(item *DictionaryItem, handler ConceptHandler, concept string) *ConceptContext {
	return &ConceptContext{
		item:      item,
		handler:   handler,
		handlerID: handlerIdentity(handler),
		concept:   concept,
	}
}

// Item returns the dictionary entry the handler fires on.
func (cc *ConceptContext) Item() *DictionaryItem { return cc.item }

// Handler returns the registered handler.
func (cc *ConceptContext) Handler() ConceptHandler { return cc.handler }

// Concept returns the owning concept's name.
func (cc *ConceptContext) Concept() string { return cc.concept }

// MatchedConcept wraps one ConceptContext with its match score for one
// token position.
type MatchedConcept struct {
	Context *ConceptContext
	Score   float64
}

// MatchedConcepts holds the scored candidates for one original input token
// at one input-position index. Owned transiently by a single matching pass.
type MatchedConcepts struct {
	Token    string
	Position int
	Matches  []*MatchedConcept
}
