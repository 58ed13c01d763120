// Package repo implements the persistence layer of the feedback service.
// This file declares the Record Store contract shared by the JSON file and
// SQLite implementations.
//
// The contract is append-only: a collection can be initialized, loaded in full
// (insertion order) and appended to. There is no update or delete.
package repo

import (
	"context"
	"errors"

	"github.com/tbourn/go-feedback-backend/internal/domain"
)

var (
	// ErrStorageUnavailable indicates that the backing collection could not be
	// read or written (unreadable file, corrupt JSON, database failure).
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrDuplicateRecord is returned when a record with the same id already
	// exists in the collection.
	ErrDuplicateRecord = errors.New("duplicate record id")
)

// RecordStore persists FeedbackRecords.
//
// Every Load re-reads the backing storage in full; implementations keep no
// in-memory cache of the collection.
type RecordStore interface {
	// Initialize creates an empty collection when none exists. Safe to call
	// on every start.
	Initialize(ctx context.Context) error
	// Load returns all records in insertion order.
	Load(ctx context.Context) ([]domain.FeedbackRecord, error)
	// Append adds rec at the end of the collection.
	Append(ctx context.Context, rec domain.FeedbackRecord) error
}

// FindRecord returns the record with the given id from a loaded collection.
func FindRecord(records []domain.FeedbackRecord, id string) (domain.FeedbackRecord, bool) {
	for _, r := range records {
		if r.ID == id {
			return r, true
		}
	}
	return domain.FeedbackRecord{}, false
}
