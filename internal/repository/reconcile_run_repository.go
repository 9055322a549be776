package repository

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	reconcileLockKey   = "course_market:reconcile:lock"
	reconcileReportKey = "course_market:reconcile:last_report"
)

// ReconcileRunRepository coordinates batch reconciliation runs through redis.
// With a nil client the lock always succeeds and no report is kept.
type ReconcileRunRepository struct {
	RDB *redis.Client
}

func NewReconcileRunRepository(rdb *redis.Client) *ReconcileRunRepository {
	return &ReconcileRunRepository{RDB: rdb}
}

func (r *ReconcileRunRepository) TryLock(ctx context.Context, owner string, ttl time.Duration) (bool, error) {
	if r.RDB == nil {
		return true, nil
	}
	return r.RDB.SetNX(ctx, reconcileLockKey, owner, ttl).Result()
}

// Unlock releases the lock only if owner still holds it.
func (r *ReconcileRunRepository) Unlock(ctx context.Context, owner string) error {
	if r.RDB == nil {
		return nil
	}
	current, err := r.RDB.Get(ctx, reconcileLockKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	if current != owner {
		return nil
	}
	return r.RDB.Del(ctx, reconcileLockKey).Err()
}

func (r *ReconcileRunRepository) SaveLastReport(ctx context.Context, data []byte) error {
	if r.RDB == nil {
		return nil
	}
	return r.RDB.Set(ctx, reconcileReportKey, data, 0).Err()
}

// LoadLastReport returns nil data when no run has been recorded.
func (r *ReconcileRunRepository) LoadLastReport(ctx context.Context) ([]byte, error) {
	if r.RDB == nil {
		return nil, nil
	}
	data, err := r.RDB.Get(ctx, reconcileReportKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return data, err
}
