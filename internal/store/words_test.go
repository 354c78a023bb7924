package store

import (
	"path/filepath"
	"testing"

	"chatbrain/internal/lang"
)

func newTestWordStore(t *testing.T) *WordStore {
	t.Helper()
	s, err := NewWordStore(filepath.Join(t.TempDir(), "words.db"))
	if err != nil {
		t.Fatalf("NewWordStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestWordStoreRoundTrip(t *testing.T) {
	s := newTestWordStore(t)

	src := lang.NewDictionary()
	hello, _ := src.AddEntry("hello", lang.POSInterjection, lang.TenseUnknown, lang.PluralityUnknown)
	hello.MarkUsed()
	hello.MarkUsed()
	run, _ := src.AddEntry("ran", lang.POSVerb, lang.TensePast, lang.PluralityUnknown)
	run.MarkUsed()

	saved, err := s.SaveUsage(src)
	if err != nil {
		t.Fatalf("SaveUsage: %v", err)
	}
	if saved != 2 {
		t.Errorf("saved = %d, want 2 (wildcard excluded)", saved)
	}

	dst := lang.NewDictionary()
	loaded, err := s.LoadIntoDictionary(dst)
	if err != nil {
		t.Fatalf("LoadIntoDictionary: %v", err)
	}
	if loaded != 2 {
		t.Errorf("loaded = %d, want 2", loaded)
	}

	entries := dst.FindSimilarEntries("hello")
	if len(entries) != 1 {
		t.Fatalf("hello entries = %d, want 1", len(entries))
	}
	if entries[0].PartOfSpeech() != lang.POSInterjection {
		t.Errorf("POS = %v, want INTJ", entries[0].PartOfSpeech())
	}
	if entries[0].Usage() != 2 {
		t.Errorf("usage = %d, want 2", entries[0].Usage())
	}

	verbs := dst.FindSimilarEntries("ran")
	if len(verbs) != 1 || verbs[0].Tense() != lang.TensePast {
		t.Error("tense marker lost in the round trip")
	}
}

func TestWordStoreSaveIsUpsert(t *testing.T) {
	s := newTestWordStore(t)

	dict := lang.NewDictionary()
	item, _ := dict.AddText("word")
	item.MarkUsed()

	if _, err := s.SaveUsage(dict); err != nil {
		t.Fatal(err)
	}
	item.MarkUsed()
	if _, err := s.SaveUsage(dict); err != nil {
		t.Fatal(err)
	}

	n, err := s.WordCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("word count = %d, want 1 after double save", n)
	}

	dst := lang.NewDictionary()
	if _, err := s.LoadIntoDictionary(dst); err != nil {
		t.Fatal(err)
	}
	got := dst.FindSimilarEntries("word")
	if len(got) != 1 || got[0].Usage() != 2 {
		t.Errorf("usage after upsert = %v", got)
	}
}

func TestWordStoreEmptyLoad(t *testing.T) {
	s := newTestWordStore(t)

	dict := lang.NewDictionary()
	loaded, err := s.LoadIntoDictionary(dict)
	if err != nil {
		t.Fatalf("LoadIntoDictionary: %v", err)
	}
	if loaded != 0 {
		t.Errorf("loaded = %d, want 0", loaded)
	}
}
