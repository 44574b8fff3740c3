package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserPlan_StartsFree(t *testing.T) {
	plan, err := NewUserPlan("user-1")
	require.NoError(t, err)

	assert.Equal(t, PlanFree, plan.Tier())
	assert.Nil(t, plan.CurrentPeriodStart())
	assert.Nil(t, plan.CurrentPeriodEnd())
	assert.Equal(t, PeriodLifetime, plan.PeriodType())
}

func TestEnsurePeriod_FreeNeverMaterializes(t *testing.T) {
	plan, err := NewUserPlan("user-1")
	require.NoError(t, err)

	changed := plan.EnsurePeriod()
	assert.False(t, changed)
	assert.Nil(t, plan.CurrentPeriodStart())

	start, end := plan.PeriodBounds()
	assert.Nil(t, start)
	assert.Nil(t, end)
}

func TestEnsurePeriod_PaidMaterializesOnce(t *testing.T) {
	activated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	plan, err := ReconstructUserPlan(
		"plan-1", "user-1", string(PlanGrowth),
		activated, nil, nil, activated, activated,
	)
	require.NoError(t, err)

	changed := plan.EnsurePeriod()
	assert.True(t, changed)

	start, end := plan.PeriodBounds()
	require.NotNil(t, start)
	require.NotNil(t, end)
	assert.Equal(t, activated, *start)
	assert.Equal(t, activated.Add(30*24*time.Hour), *end)
	assert.Equal(t, PeriodBillingCycle, plan.PeriodType())

	// A second call is a no-op.
	assert.False(t, plan.EnsurePeriod())
}

func TestReconstructUserPlan_InvalidTier(t *testing.T) {
	now := time.Now().UTC()
	_, err := ReconstructUserPlan("plan-1", "user-1", "PLATINUM", now, nil, nil, now, now)
	assert.Error(t, err)
}

func TestQuotaForTier(t *testing.T) {
	tests := []struct {
		tier       PlanTier
		fitScans   int
		proposals  int
		periodType PeriodType
	}{
		{PlanFree, 1, 1, PeriodLifetime},
		{PlanGrowth, 10, 3, PeriodBillingCycle},
		{PlanImpact, 20, 5, PeriodBillingCycle},
	}
	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			quota := QuotaForTier(tt.tier)
			assert.Equal(t, tt.fitScans, quota.FitScans)
			assert.Equal(t, tt.proposals, quota.Proposals)
			assert.Equal(t, tt.periodType, quota.PeriodType)
		})
	}
}

func TestQuotaForTier_UnknownFallsBackToFree(t *testing.T) {
	quota := QuotaForTier("PLATINUM")
	assert.Equal(t, QuotaForTier(PlanFree), quota)
}

func TestAllowance(t *testing.T) {
	quota := QuotaForTier(PlanGrowth)
	assert.Equal(t, 10, quota.Allowance(ActionFitScan))
	assert.Equal(t, 3, quota.Allowance(ActionProposal))
}

func TestNewUsageEntry(t *testing.T) {
	entry, err := NewUsageEntry("user-1", ActionFitScan, "key-1", nil, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, entry.ID())
	assert.Equal(t, ActionFitScan, entry.Action())
	assert.Equal(t, "key-1", entry.IdempotencyKey())
	assert.Nil(t, entry.PeriodStart())

	_, err = NewUsageEntry("", ActionFitScan, "key-1", nil, nil)
	assert.ErrorIs(t, err, ErrInvalidUserID)

	_, err = NewUsageEntry("user-1", "", "key-1", nil, nil)
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, err = NewUsageEntry("user-1", ActionFitScan, "", nil, nil)
	assert.ErrorIs(t, err, ErrInvalidIdempotencyKey)
}
