package lang

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"chatbrain/internal/logging"
)

// Scheduler is the narrow scheduling surface the dictionary needs for
// coalesced background work. Tasks started under the same (category, name)
// replace any pending one. The Brain satisfies this.
type Scheduler interface {
	StartNamed(category, name string, delay time.Duration, action func(context.Context)) error
}

// Fixed identity for the coalesced usage-factor recompute.
const (
	usageTaskCategory = "Dictionary"
	usageTaskName     = "UpdateUsageFactor"
)

// ScoredEntry is one fuzzy-lookup result.
type ScoredEntry struct {
	Item  *DictionaryItem
	Score float64
}

// Dictionary owns the lexicon: deduplicated text fragments, dictionary items
// and the cross-reference indexes used for exact and fuzzy lookup. One
// RWMutex guards all maps; readers run concurrently, writers exclusively.
// Locks are never held while executing caller code.
type Dictionary struct {
	mu sync.RWMutex

	fragments map[string]*TextFragment   // by fragment Key
	items     map[string]*DictionaryItem // by item Key

	fragmentsByFirst map[rune][]*TextFragment
	itemsByFirst     map[rune][]*DictionaryItem
	fragmentsByGroup map[string][]*TextFragment
	itemsByGroup     map[string][]*DictionaryItem
	itemsByLength    map[int][]*DictionaryItem

	global *DictionaryItem

	scheduler    Scheduler
	usageDelay   time.Duration
	scoreWorkers int
}

// NewDictionary creates an empty dictionary holding only the reserved
// empty-key wildcard entry.
func NewDictionary() *Dictionary {
	d := &Dictionary{
		fragments:        make(map[string]*TextFragment),
		items:            make(map[string]*DictionaryItem),
		fragmentsByFirst: make(map[rune][]*TextFragment),
		itemsByFirst:     make(map[rune][]*DictionaryItem),
		fragmentsByGroup: make(map[string][]*TextFragment),
		itemsByGroup:     make(map[string][]*DictionaryItem),
		itemsByLength:    make(map[int][]*DictionaryItem),
		usageDelay:       time.Second,
		scoreWorkers:     4,
	}
	d.global = NewDictionaryItem(NewTextFragment("", false), POSUnknown, TenseUnknown, PluralityUnknown)
	d.items[""] = d.global
	return d
}

// SetScheduler wires the coalesced usage-factor recompute. delay is the
// coalescing window; zero keeps the default of one second.
func (d *Dictionary) SetScheduler(s Scheduler, delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scheduler = s
	if delay > 0 {
		d.usageDelay = delay
	}
}

// SetScoreWorkers bounds the fuzzy-match scoring fan-out.
func (d *Dictionary) SetScoreWorkers(n int) {
	if n < 1 {
		n = 1
	}
	d.mu.Lock()
	d.scoreWorkers = n
	d.mu.Unlock()
}

// Global returns the reserved wildcard entry.
func (d *Dictionary) Global() *DictionaryItem { return d.global }

// AddTextPart inserts (or finds) the fragment for a run of text.
func (d *Dictionary) AddTextPart(text string, hadLeadingSpace bool) (*TextFragment, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	candidate := NewTextFragment(text, hadLeadingSpace)
	key := candidate.Key()
	if key == "" {
		return nil, ErrEmptyText
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if existing, ok := d.fragments[key]; ok {
		return existing, nil
	}
	d.addFragmentLocked(key, candidate)
	return candidate, nil
}

// AddText inserts plain text as an entry with no POS markers.
func (d *Dictionary) AddText(text string) (*DictionaryItem, error) {
	return d.AddEntry(text, POSUnknown, TenseUnknown, PluralityUnknown)
}

// AddEntry inserts (or finds) the item for (text, pos, tense, plurality).
// Idempotent: re-adding an equal item returns the existing instance.
func (d *Dictionary) AddEntry(text string, pos PartOfSpeech, tense Tense, plurality Plurality) (*DictionaryItem, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	candidate := NewTextFragment(text, false)
	fragKey := candidate.Key()
	if fragKey == "" {
		return nil, ErrEmptyText
	}
	itemKey := ItemKey(candidate.GroupKey(), pos, tense, plurality)

	d.mu.Lock()
	defer d.mu.Unlock()

	if existing, ok := d.items[itemKey]; ok {
		return existing, nil
	}

	fragment, ok := d.fragments[fragKey]
	if !ok {
		fragment = candidate
		d.addFragmentLocked(fragKey, fragment)
	}

	item := NewDictionaryItem(fragment, pos, tense, plurality)
	d.addItemLocked(itemKey, item)
	logging.DictionaryDebug("added entry %q (pos=%s)", itemKey, pos)
	return item, nil
}

func (d *Dictionary) addFragmentLocked(key string, f *TextFragment) {
	d.fragments[key] = f
	groupKey := f.GroupKey()
	if first, ok := firstRune(groupKey); ok {
		d.fragmentsByFirst[first] = append(d.fragmentsByFirst[first], f)
	}
	d.fragmentsByGroup[groupKey] = append(d.fragmentsByGroup[groupKey], f)
}

func (d *Dictionary) addItemLocked(key string, item *DictionaryItem) {
	d.items[key] = item
	groupKey := item.GroupKey()
	if first, ok := firstRune(groupKey); ok {
		d.itemsByFirst[first] = append(d.itemsByFirst[first], item)
	}
	d.itemsByGroup[groupKey] = append(d.itemsByGroup[groupKey], item)
	d.itemsByLength[len([]rune(groupKey))] = append(d.itemsByLength[len([]rune(groupKey))], item)
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}

// GetEntry returns the item stored under the exact item key.
func (d *Dictionary) GetEntry(key string) (*DictionaryItem, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	item, ok := d.items[key]
	return item, ok
}

// FindSimilarEntries returns the items sharing the exact group key.
func (d *Dictionary) FindSimilarEntries(groupKey string) []*DictionaryItem {
	d.mu.RLock()
	defer d.mu.RUnlock()
	bucket := d.itemsByGroup[groupKey]
	out := make([]*DictionaryItem, len(bucket))
	copy(out, bucket)
	return out
}

// FindSimilarFragments returns the fragments sharing the exact group key.
func (d *Dictionary) FindSimilarFragments(groupKey string) []*TextFragment {
	d.mu.RLock()
	defer d.mu.RUnlock()
	bucket := d.fragmentsByGroup[groupKey]
	out := make([]*TextFragment, len(bucket))
	copy(out, bucket)
	return out
}

// EntriesByLength returns the items whose group key has the given rune count.
func (d *Dictionary) EntriesByLength(n int) []*DictionaryItem {
	d.mu.RLock()
	defer d.mu.RUnlock()
	bucket := d.itemsByLength[n]
	out := make([]*DictionaryItem, len(bucket))
	copy(out, bucket)
	return out
}

// FindMatchingEntries performs a scored lookup for text. With quickSearch an
// exact group-key hit short-circuits at score 1.0. Otherwise only the items
// indexed under the first rune of the group key are scored with CompareText;
// results at or above threshold are returned sorted descending by score,
// ties keeping insertion order.
func (d *Dictionary) FindMatchingEntries(ctx context.Context, text string, threshold float64, quickSearch bool) []ScoredEntry {
	timer := logging.StartTimer(logging.CategoryDictionary, "FindMatchingEntries")
	defer timer.Stop()

	groupKey := ToGroupKey(text)
	if groupKey == "" {
		return nil
	}

	if quickSearch {
		if exact := d.FindSimilarEntries(groupKey); len(exact) > 0 {
			out := make([]ScoredEntry, len(exact))
			for i, item := range exact {
				out[i] = ScoredEntry{Item: item, Score: 1.0}
			}
			return out
		}
	}

	first, ok := firstRune(groupKey)
	if !ok {
		return nil
	}

	d.mu.RLock()
	bucket := make([]*DictionaryItem, len(d.itemsByFirst[first]))
	copy(bucket, d.itemsByFirst[first])
	workers := d.scoreWorkers
	d.mu.RUnlock()

	if len(bucket) == 0 {
		return nil
	}

	// Scores land in a preallocated slice so the fan-out does not disturb
	// insertion order; filtering and sorting happen after the fan-in.
	scores := make([]float64, len(bucket))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range bucket {
		g.Go(func() error {
			scores[i] = CompareText(groupKey, bucket[i].GroupKey())
			return nil
		})
	}
	// Scoring closures never return an error.
	_ = g.Wait()

	var out []ScoredEntry
	for i, item := range bucket {
		if scores[i] >= threshold {
			out = append(out, ScoredEntry{Item: item, Score: scores[i]})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	logging.DictionaryDebug("matched %d/%d entries for %q (threshold=%.2f)", len(out), len(bucket), text, threshold)
	return out
}

// EntryCount returns the number of dictionary items, including the wildcard.
func (d *Dictionary) EntryCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.items)
}

// FragmentCount returns the number of deduplicated fragments.
func (d *Dictionary) FragmentCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.fragments)
}

// Entries returns a snapshot of every item, wildcard included.
func (d *Dictionary) Entries() []*DictionaryItem {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*DictionaryItem, 0, len(d.items))
	for _, item := range d.items {
		out = append(out, item)
	}
	return out
}

// UpdateUsageFactor recomputes every item's relative usage share. Forced, it
// runs the two-pass scan immediately under the write lock. Unforced, it
// schedules a single coalesced recompute after the configured delay under
// the fixed (Dictionary, UpdateUsageFactor) task identity; re-scheduling
// replaces any pending one. Without a scheduler the unforced path degrades
// to an immediate recompute.
func (d *Dictionary) UpdateUsageFactor(force bool) {
	if !force {
		d.mu.RLock()
		scheduler := d.scheduler
		delay := d.usageDelay
		d.mu.RUnlock()

		if scheduler != nil {
			scheduler.StartNamed(usageTaskCategory, usageTaskName, delay, func(context.Context) {
				d.UpdateUsageFactor(true)
			})
			return
		}
	}

	d.mu.Lock()
	items := make([]*DictionaryItem, 0, len(d.items))
	for _, item := range d.items {
		items = append(items, item)
	}
	d.mu.Unlock()

	// Two-pass scan: sum first, then divide.
	var sum int64
	for _, item := range items {
		sum += item.Usage()
	}
	for _, item := range items {
		if sum == 0 {
			item.setUsageFactor(0)
			continue
		}
		item.setUsageFactor(float64(item.Usage()) / float64(sum))
	}
	logging.DictionaryDebug("usage factors recomputed over %d entries (total usage %d)", len(items), sum)
}
