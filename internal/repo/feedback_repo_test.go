package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dsn := fmt.Sprintf("file:records_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	s := NewSQLiteStore(db)
	if err := s.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return s
}

func TestSQLiteStore_AppendLoad_InsertionOrder(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	// ids deliberately not in lexical order
	ids := []int{30, 10, 20}
	for _, i := range ids {
		if err := s.Append(ctx, mkRecord(i, 3)); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}
	recs, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(recs) != len(ids) {
		t.Fatalf("len = %d; want %d", len(recs), len(ids))
	}
	for k, i := range ids {
		if recs[k].ID != mkRecord(i, 3).ID {
			t.Fatalf("position %d = %s; want %s", k, recs[k].ID, mkRecord(i, 3).ID)
		}
	}
}

func TestSQLiteStore_Load_EmptyIsNonNil(t *testing.T) {
	s := newSQLiteStore(t)
	recs, err := s.Load(context.Background())
	if err != nil || recs == nil || len(recs) != 0 {
		t.Fatalf("Load = %#v, %v", recs, err)
	}
}

func TestSQLiteStore_Append_Duplicate(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	if err := s.Append(ctx, mkRecord(1, 5)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Append(ctx, mkRecord(1, 5)); !errors.Is(err, ErrDuplicateRecord) {
		t.Fatalf("expected ErrDuplicateRecord, got %v", err)
	}
}

func TestSQLiteStore_Errors_WrapStorageUnavailable(t *testing.T) {
	s := newSQLiteStore(t)
	if err := s.DB.Migrator().DropTable("feedback_records"); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if _, err := s.Load(context.Background()); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("Load: expected ErrStorageUnavailable, got %v", err)
	}
	if err := s.Append(context.Background(), mkRecord(1, 1)); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("Append: expected ErrStorageUnavailable, got %v", err)
	}
}
