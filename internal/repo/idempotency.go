package repo

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-feedback-backend/internal/domain"
)

// ErrDuplicateKey is returned by Create when (client_id, scope, key) is
// already taken.
var ErrDuplicateKey = errors.New("idempotency key already used")

// IdempotencyKeys remembers which record a submission's Idempotency-Key
// produced. A nil DB turns every call into a no-op miss.
type IdempotencyKeys struct {
	DB  *gorm.DB
	TTL time.Duration
	Now func() time.Time
}

// NewIdempotencyKeys returns keys stored in db that live for ttl.
func NewIdempotencyKeys(db *gorm.DB, ttl time.Duration) *IdempotencyKeys {
	return &IdempotencyKeys{DB: db, TTL: ttl, Now: time.Now}
}

func (k *IdempotencyKeys) now() time.Time {
	if k.Now == nil {
		return time.Now().UTC()
	}
	return k.Now().UTC()
}

// Find returns the live row for the tuple, or gorm.ErrRecordNotFound.
func (k *IdempotencyKeys) Find(ctx context.Context, clientID, scope, key string, at time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(key) == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var row domain.Idempotency
	err := k.DB.WithContext(ctx).
		Where("client_id = ? AND scope = ? AND key = ? AND expires_at > ?", clientID, scope, key, at.UTC()).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Create stores a new row expiring TTL from now.
func (k *IdempotencyKeys) Create(ctx context.Context, clientID, scope, key, recordID string) (*domain.Idempotency, error) {
	now := k.now()
	row := &domain.Idempotency{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		Scope:     scope,
		Key:       key,
		RecordID:  recordID,
		Status:    http.StatusCreated,
		CreatedAt: now,
		ExpiresAt: now.Add(k.TTL),
	}
	if err := k.DB.WithContext(ctx).Create(row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateKey
		}
		return nil, err
	}
	return row, nil
}

// Remember records recordID under the key. Losing a race to a concurrent
// duplicate is not an error: the first writer's record stays.
func (k *IdempotencyKeys) Remember(ctx context.Context, clientID, scope, key, recordID string) error {
	if k == nil || k.DB == nil {
		return nil
	}
	_, err := k.Create(ctx, clientID, scope, key, recordID)
	if errors.Is(err, ErrDuplicateKey) {
		return nil
	}
	return err
}

// Lookup returns the record id stored under a live key. Only database
// failures are errors; a missing or expired key is a miss.
func (k *IdempotencyKeys) Lookup(ctx context.Context, clientID, scope, key string, at time.Time) (string, bool, error) {
	if k == nil || k.DB == nil {
		return "", false, nil
	}
	row, err := k.Find(ctx, clientID, scope, key, at)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "", false, nil
	case err != nil:
		return "", false, err
	}
	return row.RecordID, true, nil
}

// Purge deletes rows that expired at or before now and reports how many.
func (k *IdempotencyKeys) Purge(ctx context.Context) (int64, error) {
	if k == nil || k.DB == nil {
		return 0, nil
	}
	res := k.DB.WithContext(ctx).Where("expires_at <= ?", k.now()).Delete(&domain.Idempotency{})
	return res.RowsAffected, res.Error
}
