// Package store handles lexicon import and persistence: a JSON seed-word
// file loaded at startup (and optionally watched for changes) plus an
// optional SQLite word store that carries usage counts across runs.
package store

import (
	"encoding/json"
	"fmt"
	"os"

	"chatbrain/internal/lang"
	"chatbrain/internal/logging"
)

// LoadDefaultWords imports a flat JSON array of strings into the
// dictionary. A missing file is not an error; the engine runs fine on an
// empty lexicon. Individual bad words are skipped, not fatal.
func LoadDefaultWords(dict *lang.Dictionary, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Store("no seed-word file at %s, starting empty", path)
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read seed words %s: %w", path, err)
	}

	var words []string
	if err := json.Unmarshal(data, &words); err != nil {
		return 0, fmt.Errorf("seed words %s is not a JSON string array: %w", path, err)
	}

	added := 0
	for _, w := range words {
		if _, err := dict.AddText(w); err != nil {
			logging.StoreDebug("skipping seed word %q: %v", w, err)
			continue
		}
		added++
	}
	logging.Store("imported %d seed words from %s", added, path)
	return added, nil
}
