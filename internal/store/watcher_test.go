package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"chatbrain/internal/lang"
)

// immediateScheduler runs scheduled actions right away and signals each run.
type immediateScheduler struct {
	ran chan string
}

func (s *immediateScheduler) StartNamed(category, name string, delay time.Duration, action func(context.Context)) error {
	go func() {
		action(context.Background())
		s.ran <- category + "/" + name
	}()
	return nil
}

func TestSeedWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.json")
	if err := os.WriteFile(path, []byte(`["first"]`), 0644); err != nil {
		t.Fatal(err)
	}

	dict := lang.NewDictionary()
	if _, err := LoadDefaultWords(dict, path); err != nil {
		t.Fatal(err)
	}

	sched := &immediateScheduler{ran: make(chan string, 4)}
	sw, err := NewSeedWatcher(dict, sched, path)
	if err != nil {
		t.Fatalf("NewSeedWatcher: %v", err)
	}
	if err := sw.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer sw.Stop()

	if err := os.WriteFile(path, []byte(`["first", "second"]`), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case key := <-sched.ran:
		if key != "Store/SeedReload" {
			t.Errorf("task identity = %q", key)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no reload scheduled after a write")
	}

	if len(dict.FindSimilarEntries("second")) != 1 {
		t.Error("new seed word was not imported")
	}
}

func TestSeedWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.json")
	if err := os.WriteFile(path, []byte(`[]`), 0644); err != nil {
		t.Fatal(err)
	}

	sched := &immediateScheduler{ran: make(chan string, 4)}
	sw, err := NewSeedWatcher(lang.NewDictionary(), sched, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := sw.Start(); err != nil {
		t.Fatal(err)
	}
	defer sw.Stop()

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-sched.ran:
		t.Error("a sibling file triggered a reload")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestSeedWatcherStopIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.json")
	sched := &immediateScheduler{ran: make(chan string, 1)}
	sw, err := NewSeedWatcher(lang.NewDictionary(), sched, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := sw.Start(); err != nil {
		t.Fatal(err)
	}
	sw.Stop()
	sw.Stop()
}
