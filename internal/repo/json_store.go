// Package repo implements the persistence layer of the feedback service.
// This file provides JSONFileStore, the default Record Store: the whole
// collection lives in a single pretty-printed JSON array.
//
// Semantics:
//   - Load re-reads and parses the file on every call.
//   - A missing file is recreated as an empty array (self-heal); a file that
//     cannot be parsed yields ErrStorageUnavailable and is never overwritten.
//   - Append is a full read-modify-write. Writes go to a temporary file in the
//     same directory which is then renamed over the target, so readers never
//     observe a half-written document.
//   - Appends within one process are serialized by a mutex. Separate processes
//     sharing the file are not coordinated: the last writer wins.
package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/tbourn/go-feedback-backend/internal/domain"
)

// JSONFileStore is a RecordStore backed by one JSON file.
type JSONFileStore struct {
	path string
	mu   sync.Mutex
}

// NewJSONFileStore returns a store for the JSON document at path.
func NewJSONFileStore(path string) *JSONFileStore {
	return &JSONFileStore{path: path}
}

// Initialize writes an empty array when the file does not exist yet.
func (s *JSONFileStore) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initLocked()
}

func (s *JSONFileStore) initLocked() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: stat %s: %v", ErrStorageUnavailable, s.path, err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create directory: %v", ErrStorageUnavailable, err)
		}
	}
	return s.writeLocked([]domain.FeedbackRecord{})
}

// Load reads the full collection.
func (s *JSONFileStore) Load(ctx context.Context) ([]domain.FeedbackRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *JSONFileStore) loadLocked() ([]domain.FeedbackRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.initLocked(); err != nil {
			return nil, err
		}
		return []domain.FeedbackRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorageUnavailable, s.path, err)
	}

	var records []domain.FeedbackRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrStorageUnavailable, s.path, err)
	}
	if records == nil {
		// a literal "null" document
		records = []domain.FeedbackRecord{}
	}
	return records, nil
}

// Append adds rec at the end and rewrites the whole document.
func (s *JSONFileStore) Append(ctx context.Context, rec domain.FeedbackRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadLocked()
	if err != nil {
		return err
	}
	if _, dup := FindRecord(records, rec.ID); dup {
		return ErrDuplicateRecord
	}
	return s.writeLocked(append(records, rec))
}

// writeLocked replaces the document with records, indented by two spaces.
func (s *JSONFileStore) writeLocked(records []domain.FeedbackRecord) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("%w: encode: %v", ErrStorageUnavailable, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", ErrStorageUnavailable, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write: %v", ErrStorageUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close: %v", ErrStorageUnavailable, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("%w: rename: %v", ErrStorageUnavailable, err)
	}
	return nil
}
