package billing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngoinfo/grantpilot/internal/domain/billing"
	"github.com/ngoinfo/grantpilot/internal/shared/errors"
	"github.com/ngoinfo/grantpilot/internal/shared/logger"
)

type fakePlanRepo struct {
	plans       map[string]*billing.UserPlan
	updateCalls int
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: map[string]*billing.UserPlan{}}
}

func (r *fakePlanRepo) Create(_ context.Context, plan *billing.UserPlan) error {
	if _, exists := r.plans[plan.UserID()]; exists {
		return errors.NewConflictError("Duplicate entry")
	}
	r.plans[plan.UserID()] = plan
	return nil
}

func (r *fakePlanRepo) Update(_ context.Context, plan *billing.UserPlan) error {
	r.updateCalls++
	r.plans[plan.UserID()] = plan
	return nil
}

func (r *fakePlanRepo) GetByUserID(_ context.Context, userID string) (*billing.UserPlan, error) {
	plan, ok := r.plans[userID]
	if !ok {
		return nil, errors.NewNotFoundError("plan not found")
	}
	return plan, nil
}

func (r *fakePlanRepo) GetByUserIDForUpdate(ctx context.Context, userID string) (*billing.UserPlan, error) {
	return r.GetByUserID(ctx, userID)
}

type fakeUsageRepo struct {
	entries []*billing.UsageEntry
}

func (r *fakeUsageRepo) Create(_ context.Context, entry *billing.UsageEntry) error {
	for _, existing := range r.entries {
		if existing.UserID() == entry.UserID() &&
			existing.Action() == entry.Action() &&
			existing.IdempotencyKey() == entry.IdempotencyKey() {
			return errors.NewConflictError("Duplicate entry")
		}
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeUsageRepo) FindByIdempotencyKey(_ context.Context, userID string, action billing.ActionType, key string) (*billing.UsageEntry, error) {
	for _, entry := range r.entries {
		if entry.UserID() == userID && entry.Action() == action && entry.IdempotencyKey() == key {
			return entry, nil
		}
	}
	return nil, errors.NewNotFoundError("usage entry not found")
}

func (r *fakeUsageRepo) CountInPeriod(_ context.Context, userID string, action billing.ActionType, start, end *time.Time) (int, error) {
	count := 0
	for _, entry := range r.entries {
		if entry.UserID() != userID || entry.Action() != action {
			continue
		}
		if start != nil && entry.OccurredAt().Before(*start) {
			continue
		}
		if end != nil && !entry.OccurredAt().Before(*end) {
			continue
		}
		count++
	}
	return count, nil
}

func newTestService() (*QuotaService, *fakePlanRepo, *fakeUsageRepo) {
	plans := newFakePlanRepo()
	usage := &fakeUsageRepo{}
	return NewQuotaService(plans, usage, logger.NewLogger()), plans, usage
}

func growthPlan(t *testing.T, repo *fakePlanRepo, userID string) *billing.UserPlan {
	t.Helper()
	activated := time.Now().UTC().Add(-time.Hour)
	plan, err := billing.ReconstructUserPlan(
		"plan-"+userID, userID, string(billing.PlanGrowth),
		activated, nil, nil, activated, activated,
	)
	require.NoError(t, err)
	repo.plans[userID] = plan
	return plan
}

func TestGetOrCreatePlan_CreatesFree(t *testing.T) {
	service, plans, _ := newTestService()

	plan, err := service.GetOrCreatePlan(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, billing.PlanFree, plan.Tier())
	assert.Len(t, plans.plans, 1)

	// Second call returns the same plan.
	again, err := service.GetOrCreatePlan(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, plan.ID(), again.ID())
}

func TestGetEntitlements_FreshFreeUser(t *testing.T) {
	service, _, _ := newTestService()

	ent, err := service.GetEntitlements(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, "FREE", ent.Plan)
	assert.Equal(t, "LIFETIME", ent.Period.Type)
	assert.Nil(t, ent.Period.ResetsAt)
	assert.Equal(t, QuotaStatus{Allowed: 1, Used: 0, Remaining: 1}, ent.Quotas["fit_scans"])
	assert.Equal(t, QuotaStatus{Allowed: 1, Used: 0, Remaining: 1}, ent.Quotas["proposals"])
}

func TestGetEntitlements_PaidPeriodMaterializedOnce(t *testing.T) {
	service, plans, _ := newTestService()
	growthPlan(t, plans, "user-1")

	ent, err := service.GetEntitlements(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, "GROWTH", ent.Plan)
	assert.Equal(t, "BILLING_CYCLE", ent.Period.Type)
	require.NotNil(t, ent.Period.StartAt)
	require.NotNil(t, ent.Period.EndAt)
	assert.Equal(t, *ent.Period.EndAt, *ent.Period.ResetsAt)
	assert.Equal(t, 1, plans.updateCalls)

	// The period is persisted once, not on every read.
	_, err = service.GetEntitlements(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, plans.updateCalls)
}

func TestEnforceQuota_FreeLifetimeExhaustion(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, service.EnforceQuota(ctx, "user-1", billing.ActionFitScan))

	_, err := service.RecordUsage(ctx, "user-1", billing.ActionFitScan, "key-1")
	require.NoError(t, err)

	err = service.EnforceQuota(ctx, "user-1", billing.ActionFitScan)
	require.Error(t, err)
	assert.True(t, errors.IsQuotaExceededError(err))

	appErr := errors.GetAppError(err)
	assert.Equal(t, "FIT_SCAN", appErr.Meta["resource"])
	assert.Equal(t, 0, appErr.Meta["remaining"])
	assert.Nil(t, appErr.Meta["resets_at"])
}

func TestEnforceQuota_PaidCarriesResetsAt(t *testing.T) {
	service, plans, usage := newTestService()
	plan := growthPlan(t, plans, "user-1")
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		entry, err := billing.NewUsageEntry("user-1", billing.ActionFitScan, time.Now().Add(time.Duration(i)).String(), nil, nil)
		require.NoError(t, err)
		require.NoError(t, usage.Create(ctx, entry))
	}

	err := service.EnforceQuota(ctx, "user-1", billing.ActionFitScan)
	require.Error(t, err)
	require.True(t, errors.IsQuotaExceededError(err))

	appErr := errors.GetAppError(err)
	assert.NotNil(t, appErr.Meta["resets_at"])

	plan.EnsurePeriod()
	_, end := plan.PeriodBounds()
	assert.Equal(t, end.UTC().Format(time.RFC3339), appErr.Meta["resets_at"])
}

func TestEnforceQuota_ProposalsIndependentOfFitScans(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	_, err := service.RecordUsage(ctx, "user-1", billing.ActionFitScan, "key-1")
	require.NoError(t, err)

	// Fit scan quota is spent, proposal quota is untouched.
	assert.Error(t, service.EnforceQuota(ctx, "user-1", billing.ActionFitScan))
	assert.NoError(t, service.EnforceQuota(ctx, "user-1", billing.ActionProposal))
}

func TestRecordUsage_Idempotent(t *testing.T) {
	service, _, usage := newTestService()
	ctx := context.Background()

	first, err := service.RecordUsage(ctx, "user-1", billing.ActionFitScan, "key-1")
	require.NoError(t, err)

	second, err := service.RecordUsage(ctx, "user-1", billing.ActionFitScan, "key-1")
	require.NoError(t, err)

	assert.Equal(t, first.ID(), second.ID())
	assert.Len(t, usage.entries, 1)
}

func TestRecordUsage_DistinctKeysAppend(t *testing.T) {
	service, _, usage := newTestService()
	ctx := context.Background()

	_, err := service.RecordUsage(ctx, "user-1", billing.ActionProposal, "key-1")
	require.NoError(t, err)
	_, err = service.RecordUsage(ctx, "user-1", billing.ActionProposal, "key-2")
	require.NoError(t, err)

	assert.Len(t, usage.entries, 2)
}

func TestRecordUsageGuarded_RejectsWhenExhausted(t *testing.T) {
	service, _, usage := newTestService()
	ctx := context.Background()

	_, err := service.RecordUsageGuarded(ctx, "user-1", billing.ActionFitScan, "key-1")
	require.NoError(t, err)

	_, err = service.RecordUsageGuarded(ctx, "user-1", billing.ActionFitScan, "key-2")
	require.Error(t, err)
	assert.True(t, errors.IsQuotaExceededError(err))
	assert.Len(t, usage.entries, 1)
}

func TestRecordUsageGuarded_PaidPeriodBoundsStamped(t *testing.T) {
	service, plans, usage := newTestService()
	growthPlan(t, plans, "user-1")
	ctx := context.Background()

	_, err := service.RecordUsageGuarded(ctx, "user-1", billing.ActionFitScan, "key-1")
	require.NoError(t, err)

	require.Len(t, usage.entries, 1)
	assert.NotNil(t, usage.entries[0].PeriodStart())
	assert.NotNil(t, usage.entries[0].PeriodEnd())
}
