package lang

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func newTestItem(text string) *DictionaryItem {
	return NewDictionaryItem(NewTextFragment(text, false), POSUnknown, TenseUnknown, PluralityUnknown)
}

func TestAddSynonymLinksBothWays(t *testing.T) {
	big := newTestItem("big")
	large := newTestItem("large")

	big.AddSynonym(large)

	if got := big.Synonyms(); len(got) != 1 || got[0] != large {
		t.Fatalf("big.Synonyms() = %v, want [large]", got)
	}
	if got := large.Synonyms(); len(got) != 1 || got[0] != big {
		t.Fatalf("large.Synonyms() = %v, want [big]", got)
	}

	// Self and nil links are ignored.
	big.AddSynonym(big)
	big.AddSynonym(nil)
	if got := big.Synonyms(); len(got) != 1 {
		t.Fatalf("after self/nil links: %d synonyms, want 1", len(got))
	}
}

func TestAddSynonymConcurrentMutualLinking(t *testing.T) {
	items := make([]*DictionaryItem, 8)
	for i := range items {
		items[i] = newTestItem(fmt.Sprintf("word%d", i))
	}

	// Link every pair from both ends at once. Both directions of a mutual
	// link must be safe to run concurrently without wedging on each
	// other's item locks.
	done := make(chan struct{})
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		for i := range items {
			for j := range items {
				if i == j {
					continue
				}
				wg.Add(1)
				go func(a, b *DictionaryItem) {
					defer wg.Done()
					a.AddSynonym(b)
				}(items[i], items[j])
			}
		}
		wg.Wait()
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("concurrent mutual linking did not finish")
	}

	for i, it := range items {
		if got := len(it.Synonyms()); got != len(items)-1 {
			t.Errorf("items[%d]: %d synonyms, want %d", i, got, len(items)-1)
		}
	}
}
