package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"chatbrain/internal/lang"
	"chatbrain/internal/logging"
)

// WordStore persists dictionary entries and their usage counts in SQLite.
// Persistence is optional; the dictionary is fully functional in memory.
type WordStore struct {
	db     *sql.DB
	mu     sync.Mutex
	dbPath string
}

// NewWordStore opens (creating if needed) the word database at path.
func NewWordStore(path string) (*WordStore, error) {
	timer := logging.StartTimer(logging.CategoryStore, "NewWordStore")
	defer timer.Stop()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word database %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}

	s := &WordStore{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	logging.Store("word store ready at %s", path)
	return s, nil
}

func (s *WordStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS words (
		key        TEXT PRIMARY KEY,
		text       TEXT NOT NULL,
		pos        TEXT NOT NULL DEFAULT '',
		tense      TEXT NOT NULL DEFAULT '',
		plurality  TEXT NOT NULL DEFAULT '',
		usage      INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_words_usage ON words(usage DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create words schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *WordStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// LoadIntoDictionary restores every stored word into the dictionary,
// including its usage count. Rows that no longer parse are skipped.
func (s *WordStore) LoadIntoDictionary(dict *lang.Dictionary) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT text, pos, tense, plurality, usage FROM words")
	if err != nil {
		return 0, fmt.Errorf("failed to load words: %w", err)
	}
	defer rows.Close()

	loaded := 0
	for rows.Next() {
		var text, posCode, tenseCode, pluralityCode string
		var usage int64
		if err := rows.Scan(&text, &posCode, &tenseCode, &pluralityCode, &usage); err != nil {
			return loaded, fmt.Errorf("failed to scan word row: %w", err)
		}

		pos := lang.POSUnknown
		if posCode != "" {
			p, err := lang.ParsePOSCode(posCode)
			if err != nil {
				logging.StoreDebug("skipping stored word %q: %v", text, err)
				continue
			}
			pos = p
		}
		tense, err := lang.ParseTenseCode(tenseCode)
		if err != nil {
			logging.StoreDebug("skipping stored word %q: %v", text, err)
			continue
		}
		plurality, err := lang.ParsePluralityCode(pluralityCode)
		if err != nil {
			logging.StoreDebug("skipping stored word %q: %v", text, err)
			continue
		}

		item, err := dict.AddEntry(text, pos, tense, plurality)
		if err != nil {
			logging.StoreDebug("skipping stored word %q: %v", text, err)
			continue
		}
		if usage > item.Usage() {
			item.SetUsage(usage)
		}
		loaded++
	}
	if err := rows.Err(); err != nil {
		return loaded, fmt.Errorf("word row iteration failed: %w", err)
	}

	dict.UpdateUsageFactor(true)
	logging.Store("restored %d words from %s", loaded, s.dbPath)
	return loaded, nil
}

// SaveUsage upserts every dictionary entry with its current usage count.
// The wildcard entry is not persisted.
func (s *WordStore) SaveUsage(dict *lang.Dictionary) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin save: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO words (key, text, pos, tense, plurality, usage, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET usage = excluded.usage, updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	saved := 0
	for _, item := range dict.Entries() {
		frag := item.Fragment()
		if frag == nil || frag.Key() == "" {
			continue
		}
		_, err := stmt.Exec(
			item.Key(),
			frag.Key(),
			item.PartOfSpeech().Code(),
			item.Tense().Code(),
			item.Plurality().Code(),
			item.Usage(),
		)
		if err != nil {
			return saved, fmt.Errorf("failed to save word %q: %w", item.Key(), err)
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return saved, fmt.Errorf("failed to commit save: %w", err)
	}
	logging.StoreDebug("saved %d words to %s", saved, s.dbPath)
	return saved, nil
}

// WordCount returns the number of persisted words.
func (s *WordStore) WordCount() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM words").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count words: %w", err)
	}
	return n, nil
}
