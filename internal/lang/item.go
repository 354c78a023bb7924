package lang

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// DictionaryItem is a contextualized sense of a TextFragment: the fragment
// plus part-of-speech, tense and plurality. Items are created on first
// registration of a trigger word or user input token and never deleted; the
// dictionary only grows.
type DictionaryItem struct {
	fragment  *TextFragment
	pos       PartOfSpeech
	tense     Tense
	plurality Plurality

	usage atomic.Int64

	mu          sync.Mutex
	key         string
	keyDone     bool
	contexts    []*ConceptContext
	synonyms    map[string]*DictionaryItem
	usageFactor float64
}

// NewDictionaryItem creates an item for the fragment with the given markers.
func NewDictionaryItem(fragment *TextFragment, pos PartOfSpeech, tense Tense, plurality Plurality) *DictionaryItem {
	return &DictionaryItem{
		fragment:  fragment,
		pos:       pos,
		tense:     tense,
		plurality: plurality,
	}
}

// ItemKey builds the identity key an item with these markers would have:
// the group key concatenated with POS, tense and plurality markers when
// present.
func ItemKey(groupKey string, pos PartOfSpeech, tense Tense, plurality Plurality) string {
	key := groupKey
	if code := pos.Code(); code != "" {
		key += "^" + code
	}
	if code := tense.Code(); code != "" {
		key += "~" + code
	}
	if code := plurality.Code(); code != "" {
		key += "#" + code
	}
	return key
}

// Fragment returns the underlying text fragment.
func (it *DictionaryItem) Fragment() *TextFragment { return it.fragment }

// PartOfSpeech returns the item's POS marker.
func (it *DictionaryItem) PartOfSpeech() PartOfSpeech { return it.pos }

// Tense returns the item's tense marker.
func (it *DictionaryItem) Tense() Tense { return it.tense }

// Plurality returns the item's plurality marker.
func (it *DictionaryItem) Plurality() Plurality { return it.plurality }

// GroupKey returns the fragment's group key.
func (it *DictionaryItem) GroupKey() string { return it.fragment.GroupKey() }

// Key returns the item's identity key, unique within a Dictionary.
func (it *DictionaryItem) Key() string {
	it.mu.Lock()
	defer it.mu.Unlock()
	if !it.keyDone {
		it.key = ItemKey(it.fragment.GroupKey(), it.pos, it.tense, it.plurality)
		it.keyDone = true
	}
	return it.key
}

// AddConceptContext appends a handler back-reference, de-duplicated by
// handler identity. Returns the context actually stored.
func (it *DictionaryItem) AddConceptContext(cc *ConceptContext) *ConceptContext {
	it.mu.Lock()
	defer it.mu.Unlock()
	for _, existing := range it.contexts {
		if existing.handlerID == cc.handlerID {
			return existing
		}
	}
	it.contexts = append(it.contexts, cc)
	return cc
}

// ConceptContexts returns a snapshot of the handler back-references.
func (it *DictionaryItem) ConceptContexts() []*ConceptContext {
	it.mu.Lock()
	defer it.mu.Unlock()
	out := make([]*ConceptContext, len(it.contexts))
	copy(out, it.contexts)
	return out
}

// AddSynonym links two items mutually, keyed by their own keys.
func (it *DictionaryItem) AddSynonym(other *DictionaryItem) {
	if other == nil || other == it {
		return
	}
	it.addSynonymOneWay(other)
	other.addSynonymOneWay(it)
}

func (it *DictionaryItem) addSynonymOneWay(other *DictionaryItem) {
	// Resolve the key before locking; Key takes other's mutex and holding
	// both at once would order them differently on each side of a mutual
	// link.
	key := other.Key()
	it.mu.Lock()
	defer it.mu.Unlock()
	if it.synonyms == nil {
		it.synonyms = make(map[string]*DictionaryItem)
	}
	it.synonyms[key] = other
}

// Synonyms returns a snapshot of the synonym set.
func (it *DictionaryItem) Synonyms() []*DictionaryItem {
	it.mu.Lock()
	defer it.mu.Unlock()
	out := make([]*DictionaryItem, 0, len(it.synonyms))
	for _, s := range it.synonyms {
		out = append(out, s)
	}
	return out
}

// MarkUsed increments the usage counter.
func (it *DictionaryItem) MarkUsed() { it.usage.Add(1) }

// Usage returns the raw usage count.
func (it *DictionaryItem) Usage() int64 { return it.usage.Load() }

// SetUsage overwrites the usage count (used when restoring persisted words).
func (it *DictionaryItem) SetUsage(n int64) { it.usage.Store(n) }

// UsageFactor returns the last computed relative usage share.
func (it *DictionaryItem) UsageFactor() float64 {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.usageFactor
}

func (it *DictionaryItem) setUsageFactor(f float64) {
	it.mu.Lock()
	it.usageFactor = f
	it.mu.Unlock()
}

// handlerIdentity gives a comparable identity for a handler func value.
func handlerIdentity(h ConceptHandler) uintptr {
	if h == nil {
		return 0
	}
	return reflect.ValueOf(h).Pointer()
}
