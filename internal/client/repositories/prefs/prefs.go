// Package prefs persists free-text user preferences in a second named
// entry next to the record store: the display name used as the default
// publisher, the report-service API key, and the locale string for map
// previews. Read at startup, rewritten wholesale on every change.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const prefsFileName = "prefs.json"

// Preferences are the stored values. Zero values mean "not set".
type Preferences struct {
	DisplayName  string `json:"displayName"`
	ReportAPIKey string `json:"reportApiKey"`
	Locale       string `json:"locale"`
}

// FileRepository stores Preferences as a JSON document.
type FileRepository struct {
	path string

	mu     sync.Mutex
	loaded bool
	prefs  Preferences
}

func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{path: filepath.Join(dir, prefsFileName)}
}

// Get returns the stored preferences. A missing or unparseable file
// yields zero preferences; preferences are convenience data and their
// loss is not an error.
func (r *FileRepository) Get() Preferences {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.loaded {
		r.loaded = true
		data, err := os.ReadFile(r.path)
		if err == nil {
			var p Preferences
			if json.Unmarshal(data, &p) == nil {
				r.prefs = p
			}
		}
	}
	return r.prefs
}

// Set persists the given preferences, replacing the stored document.
func (r *FileRepository) Set(p Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.loaded = true
	r.prefs = p

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o660); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("rename prefs: %w", err)
	}
	return nil
}
