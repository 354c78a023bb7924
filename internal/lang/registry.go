package lang

import (
	"fmt"
	"strings"
	"sync"

	"chatbrain/internal/logging"
)

// Registry translates human-authored trigger-word specifications into
// dictionary registrations. Registration failures are collected into a
// shared append-only error list so one bad handler cannot block the others;
// the list is never cleared automatically and is meant for host-side
// display after startup.
type Registry struct {
	dict *Dictionary

	mu         sync.Mutex
	loadErrors []error
	concepts   map[string]Concept
}

// NewRegistry creates a registry backed by the given dictionary.
func NewRegistry(dict *Dictionary) *Registry {
	return &Registry{
		dict:     dict,
		concepts: make(map[string]Concept),
	}
}

// Dictionary returns the backing dictionary.
func (r *Registry) Dictionary() *Dictionary { return r.dict }

// RegisterConcept runs a concept's self-registration. A panic or error from
// RegisterHandlers is captured into the load-error list; registrations made
// before the failure stay in place.
func (r *Registry) RegisterConcept(c Concept) {
	r.mu.Lock()
	if _, ok := r.concepts[c.Name()]; ok {
		r.mu.Unlock()
		return
	}
	r.concepts[c.Name()] = c
	r.mu.Unlock()

	defer func() {
		if rec := recover(); rec != nil {
			r.appendError(fmt.Errorf("concept %q panicked during registration: %v", c.Name(), rec))
		}
	}()

	if err := c.RegisterHandlers(r); err != nil {
		r.appendError(fmt.Errorf("concept %q failed to register: %w", c.Name(), err))
		return
	}
	logging.Concept("registered concept %q", c.Name())
}

// AddConceptTriggerWords splits words on spaces and commas and registers
// handler for each resulting (word, POS) pair. A token may carry a
// `^POS-CODE` suffix from the closed code set; a bare `*` maps to the
// wildcard entry. Unknown POS codes fail immediately, naming the bad code
// and the offending word list. Failures are also appended to the shared
// load-error list. An optional dictionary overrides the registry's own.
func (r *Registry) AddConceptTriggerWords(words string, handler ConceptHandler, dicts ...*Dictionary) error {
	err := r.addTriggerWords(words, handler, "", dicts...)
	if err != nil {
		r.appendError(err)
	}
	return err
}

// AddConceptTriggerWordsFor is AddConceptTriggerWords with an explicit
// owning concept name carried into the created ConceptContexts.
func (r *Registry) AddConceptTriggerWordsFor(concept, words string, handler ConceptHandler, dicts ...*Dictionary) error {
	err := r.addTriggerWords(words, handler, concept, dicts...)
	if err != nil {
		r.appendError(err)
	}
	return err
}

func (r *Registry) addTriggerWords(words string, handler ConceptHandler, concept string, dicts ...*Dictionary) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("trigger-word registration panicked for %q: %v", words, rec)
		}
	}()

	if handler == nil {
		return fmt.Errorf("nil handler for trigger words %q", words)
	}

	dict := r.dict
	if len(dicts) > 0 && dicts[0] != nil {
		dict = dicts[0]
	}

	tokens := strings.FieldsFunc(words, func(r rune) bool {
		return r == ' ' || r == ','
	})
	if len(tokens) == 0 {
		return fmt.Errorf("no trigger words in %q", words)
	}

	for _, token := range tokens {
		var item *DictionaryItem
		if token == "*" {
			item = dict.Global()
		} else {
			word := token
			pos := POSUnknown
			if idx := strings.Index(token, "^"); idx >= 0 {
				word = token[:idx]
				code := token[idx+1:]
				parsed, perr := ParsePOSCode(code)
				if perr != nil {
					return fmt.Errorf("unknown part-of-speech code %q in trigger words %q", code, words)
				}
				pos = parsed
			}
			if word == "" {
				return fmt.Errorf("empty trigger word in %q", words)
			}
			var aerr error
			item, aerr = dict.AddEntry(word, pos, TenseUnknown, PluralityUnknown)
			if aerr != nil {
				return fmt.Errorf("failed to register trigger word %q: %w", token, aerr)
			}
		}
		item.AddConceptContext(NewConceptContext(item, handler, concept))
		logging.ConceptDebug("trigger %q bound to concept %q", token, concept)
	}
	return nil
}

func (r *Registry) appendError(err error) {
	if err == nil {
		return
	}
	r.mu.Lock()
	r.loadErrors = append(r.loadErrors, err)
	r.mu.Unlock()
	logging.Get(logging.CategoryConcept).Error("%v", err)
}

// LoadErrors returns a snapshot of every registration failure so far.
func (r *Registry) LoadErrors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]error, len(r.loadErrors))
	copy(out, r.loadErrors)
	return out
}
