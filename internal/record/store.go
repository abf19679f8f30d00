package record

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/deckpilot/deckpilot/internal/fingerprint"
)

// Store is the persisted table of all generation attempts. It is the dedup
// gate: lookups here decide whether a file goes back to the remote service.
//
// On disk it is one human-readable JSON document, read fully at startup and
// rewritten atomically (write-to-temp-then-rename) on every update. Single
// writer: the one active orchestrator run.
type Store struct {
	path    string
	records []*Record // insertion order, never reordered
	logger  *slog.Logger

	// set when the on-disk document could not be parsed; the broken file is
	// moved aside before the first write so valid history is never clobbered
	unreadable bool
}

type document struct {
	Version int       `json:"version"`
	Records []*Record `json:"records"`
}

// Open loads the store at path. A missing file yields an empty store. An
// unreadable file also yields an empty store (dedup degrades to "always
// resubmit"), but the broken file is preserved, not overwritten.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{path: path, logger: logger}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read records file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		logger.Warn("records.store.unreadable", "path", path, "err", err)
		s.unreadable = true
		return s, nil
	}
	s.records = doc.Records
	return s, nil
}

// Lookup returns the most recent non-superseded record for the fingerprint,
// or nil. Path and content hash must both match; identical bytes at a
// different path are a different entry.
func (s *Store) Lookup(key fingerprint.Key) *Record {
	for i := len(s.records) - 1; i >= 0; i-- {
		r := s.records[i]
		if r.Superseded {
			continue
		}
		if r.SourcePath == key.Path && r.ContentHash == key.Hash {
			return r
		}
	}
	return nil
}

// Get returns the record with the given ID, or nil.
func (s *Store) Get(id uuid.UUID) *Record {
	for _, r := range s.records {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// Append adds a new record and persists.
func (s *Store) Append(r *Record) error {
	s.records = append(s.records, r)
	return s.Save()
}

// Supersede marks every live record for the key as superseded (history is
// kept) and persists. Used by forced re-runs before appending the fresh
// record, so at most one live record exists per fingerprint.
func (s *Store) Supersede(key fingerprint.Key) error {
	changed := false
	for _, r := range s.records {
		if !r.Superseded && r.SourcePath == key.Path && r.ContentHash == key.Hash {
			r.Superseded = true
			r.UpdatedAt = time.Now().UTC()
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.Save()
}

// List returns all records in insertion order.
func (s *Store) List() []*Record {
	out := make([]*Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records, superseded included.
func (s *Store) Len() int {
	return len(s.records)
}

// Save rewrites the document atomically: marshal, write a temp file in the
// same directory, fsync, rename over the old file. A concurrent reader never
// observes a partially written document.
func (s *Store) Save() error {
	if s.unreadable {
		// preserve the broken document before the first overwrite
		aside := fmt.Sprintf("%s.corrupt-%d", s.path, time.Now().Unix())
		if err := os.Rename(s.path, aside); err != nil {
			return fmt.Errorf("preserve unreadable records file: %w", err)
		}
		s.logger.Warn("records.store.preserved_corrupt", "path", s.path, "moved_to", aside)
		s.unreadable = false
	}

	doc := document{Version: 1, Records: s.records}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create records dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp records file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp records file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp records file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp records file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace records file: %w", err)
	}
	return nil
}
