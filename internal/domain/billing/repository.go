package billing

import (
	"context"
	"time"
)

// PlanRepository defines persistence operations for user plans.
type PlanRepository interface {
	Create(ctx context.Context, plan *UserPlan) error
	Update(ctx context.Context, plan *UserPlan) error
	GetByUserID(ctx context.Context, userID string) (*UserPlan, error)
	// GetByUserIDForUpdate locks the plan row for the duration of the
	// surrounding transaction. Used to serialize concurrent quota
	// checks for the same user.
	GetByUserIDForUpdate(ctx context.Context, userID string) (*UserPlan, error)
}

// UsageRepository defines persistence operations for the usage ledger.
type UsageRepository interface {
	Create(ctx context.Context, entry *UsageEntry) error
	FindByIdempotencyKey(ctx context.Context, userID string, action ActionType, key string) (*UsageEntry, error)
	// CountInPeriod counts ledger rows for a user and action with
	// occurred_at in [start, end). Nil bounds mean unbounded.
	CountInPeriod(ctx context.Context, userID string, action ActionType, start, end *time.Time) (int, error)
}
