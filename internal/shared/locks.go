package shared

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrRecordLocked indicates another commit is already in flight for a record.
var ErrRecordLocked = errors.New("record locked")

// InvoiceLockKey builds redis keys for invoice conciliation critical sections.
func InvoiceLockKey(invoiceID string) string {
	return fmt.Sprintf("conciliation:invoice:%s:lock", invoiceID)
}

// RecordLocker serializes conciliation commits per record. The state machine
// itself does not guard against overlapping requests; the HTTP layer takes a
// lock before confirming.
type RecordLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRecordLocker constructs a RecordLocker.
func NewRecordLocker(client *redis.Client, ttl time.Duration) *RecordLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RecordLocker{client: client, ttl: ttl}
}

// Acquire takes the lock for key, returning a release function. It fails with
// ErrRecordLocked when the key is already held.
func (l *RecordLocker) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	if l == nil || l.client == nil {
		return nil, errors.New("record locker not initialised")
	}
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRecordLocked
	}
	release := func(ctx context.Context) error {
		current, err := l.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		if current != token {
			return nil
		}
		return l.client.Del(ctx, key).Err()
	}
	return release, nil
}
