// Package repo implements the persistence layer of the feedback service.
// This file provides SQLiteStore, a RecordStore backed by GORM.
//
// The store is transactional: each Append is a single INSERT, so concurrent
// writers never lose each other's records. Insertion order is kept by the
// autoincrement seq column.
//
// Error semantics:
//   - A second record with an existing id violates the unique index and is
//     returned as ErrDuplicateRecord.
//   - Any other database failure is wrapped in ErrStorageUnavailable.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-feedback-backend/internal/domain"
)

// SQLiteStore is a RecordStore over the feedback_records table.
type SQLiteStore struct {
	DB *gorm.DB
}

// NewSQLiteStore returns a store using db.
func NewSQLiteStore(db *gorm.DB) *SQLiteStore {
	return &SQLiteStore{DB: db}
}

// Initialize creates the feedback_records table if needed.
func (s *SQLiteStore) Initialize(ctx context.Context) error {
	if err := s.DB.WithContext(ctx).AutoMigrate(&domain.FeedbackRecord{}); err != nil {
		return fmt.Errorf("%w: migrate: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// Load returns every record ordered by insertion.
func (s *SQLiteStore) Load(ctx context.Context) ([]domain.FeedbackRecord, error) {
	records := []domain.FeedbackRecord{}
	if err := s.DB.WithContext(ctx).Order("seq ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return records, nil
}

// Append inserts rec. The seq column is assigned by the database.
func (s *SQLiteStore) Append(ctx context.Context, rec domain.FeedbackRecord) error {
	rec.Seq = 0
	if err := s.DB.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateRecord
		}
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// isUniqueViolation detects unique-constraint errors across drivers that do
// not map them to gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key")
}
