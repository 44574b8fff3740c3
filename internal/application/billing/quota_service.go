// Package billing implements plan entitlements and quota enforcement
// over the append-only usage ledger.
package billing

import (
	"context"

	"github.com/ngoinfo/grantpilot/internal/domain/billing"
	"github.com/ngoinfo/grantpilot/internal/shared/biztime"
	"github.com/ngoinfo/grantpilot/internal/shared/errors"
	"github.com/ngoinfo/grantpilot/internal/shared/logger"
)

// QuotaService answers what a user may still do on their plan and
// records what they did.
type QuotaService struct {
	plans  billing.PlanRepository
	usage  billing.UsageRepository
	logger logger.Interface
}

func NewQuotaService(
	plans billing.PlanRepository,
	usage billing.UsageRepository,
	log logger.Interface,
) *QuotaService {
	return &QuotaService{plans: plans, usage: usage, logger: log}
}

// GetOrCreatePlan returns the user's plan, creating a FREE plan on
// first contact. A concurrent first contact may lose the insert race;
// the duplicate is resolved by re-reading.
func (s *QuotaService) GetOrCreatePlan(ctx context.Context, userID string) (*billing.UserPlan, error) {
	plan, err := s.plans.GetByUserID(ctx, userID)
	if err == nil {
		return plan, nil
	}
	if !errors.IsNotFoundError(err) {
		return nil, err
	}

	plan, err = billing.NewUserPlan(userID)
	if err != nil {
		return nil, errors.NewInternalError("failed to create plan").WithCause(err)
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		if errors.IsDuplicateError(err) {
			return s.plans.GetByUserID(ctx, userID)
		}
		return nil, err
	}
	s.logger.Infow("created free plan", "user_id", userID)
	return plan, nil
}

// preparePlan loads the plan and materializes the billing period for
// paid tiers, persisting it the first time it is established.
func (s *QuotaService) preparePlan(ctx context.Context, userID string) (*billing.UserPlan, error) {
	plan, err := s.GetOrCreatePlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	if plan.EnsurePeriod() {
		if err := s.plans.Update(ctx, plan); err != nil {
			return nil, err
		}
		s.logger.Infow("materialized billing period",
			"user_id", userID,
			"plan", plan.Tier(),
			"period_end", plan.CurrentPeriodEnd(),
		)
	}
	return plan, nil
}

// GetEntitlements returns the plan, period and per-resource usage
// snapshot for a user.
func (s *QuotaService) GetEntitlements(ctx context.Context, userID string) (*Entitlements, error) {
	plan, err := s.preparePlan(ctx, userID)
	if err != nil {
		return nil, err
	}

	quota := billing.QuotaForTier(plan.Tier())
	periodStart, periodEnd := plan.PeriodBounds()

	fitUsed, err := s.usage.CountInPeriod(ctx, userID, billing.ActionFitScan, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	proposalUsed, err := s.usage.CountInPeriod(ctx, userID, billing.ActionProposal, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	return &Entitlements{
		Plan:   string(plan.Tier()),
		Period: periodInfo(plan),
		Quotas: map[string]QuotaStatus{
			"fit_scans": quotaStatus(quota.FitScans, fitUsed),
			"proposals": quotaStatus(quota.Proposals, proposalUsed),
		},
	}, nil
}

// EnforceQuota rejects the action when the remaining allowance is
// zero or below. It is an advisory pre-check; RecordUsageGuarded
// re-checks under a row lock before committing.
func (s *QuotaService) EnforceQuota(ctx context.Context, userID string, action billing.ActionType) error {
	plan, err := s.preparePlan(ctx, userID)
	if err != nil {
		return err
	}
	return s.checkAllowance(ctx, plan, userID, action)
}

// RecordUsage appends one ledger entry, idempotent on (user, action,
// key): replaying a key returns the original entry unchanged.
func (s *QuotaService) RecordUsage(ctx context.Context, userID string, action billing.ActionType, idempotencyKey string) (*billing.UsageEntry, error) {
	existing, err := s.usage.FindByIdempotencyKey(ctx, userID, action, idempotencyKey)
	if err != nil && !errors.IsNotFoundError(err) {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	plan, err := s.preparePlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.insertEntry(ctx, plan, userID, action, idempotencyKey)
}

// RecordUsageGuarded locks the user's plan row, re-checks the
// allowance against a fresh ledger count, and then records usage.
// Run inside the transaction that persists the guarded work so two
// concurrent requests for the last quota slot cannot both pass.
func (s *QuotaService) RecordUsageGuarded(ctx context.Context, userID string, action billing.ActionType, idempotencyKey string) (*billing.UsageEntry, error) {
	plan, err := s.plans.GetByUserIDForUpdate(ctx, userID)
	if errors.IsNotFoundError(err) {
		// First contact inside the transaction; the freshly inserted
		// row is already owned by it.
		plan, err = s.GetOrCreatePlan(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	if plan.EnsurePeriod() {
		if err := s.plans.Update(ctx, plan); err != nil {
			return nil, err
		}
	}

	if err := s.checkAllowance(ctx, plan, userID, action); err != nil {
		return nil, err
	}

	existing, err := s.usage.FindByIdempotencyKey(ctx, userID, action, idempotencyKey)
	if err != nil && !errors.IsNotFoundError(err) {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	return s.insertEntry(ctx, plan, userID, action, idempotencyKey)
}

func (s *QuotaService) checkAllowance(ctx context.Context, plan *billing.UserPlan, userID string, action billing.ActionType) error {
	quota := billing.QuotaForTier(plan.Tier())
	periodStart, periodEnd := plan.PeriodBounds()

	used, err := s.usage.CountInPeriod(ctx, userID, action, periodStart, periodEnd)
	if err != nil {
		return err
	}

	allowed := quota.Allowance(action)
	remaining := allowed - used
	if remaining <= 0 {
		s.logger.Infow("quota exhausted",
			"user_id", userID,
			"action", action,
			"allowed", allowed,
			"used", used,
		)
		if remaining < 0 {
			remaining = 0
		}
		return errors.NewQuotaExceededError(string(action), remaining, periodEnd)
	}
	return nil
}

func (s *QuotaService) insertEntry(ctx context.Context, plan *billing.UserPlan, userID string, action billing.ActionType, idempotencyKey string) (*billing.UsageEntry, error) {
	periodStart, periodEnd := plan.PeriodBounds()
	entry, err := billing.NewUsageEntry(userID, action, idempotencyKey, periodStart, periodEnd)
	if err != nil {
		return nil, errors.NewInternalError("failed to build usage entry").WithCause(err)
	}

	if err := s.usage.Create(ctx, entry); err != nil {
		// The unique index backstops a racing replay of the same key.
		if errors.IsDuplicateError(err) {
			return s.usage.FindByIdempotencyKey(ctx, userID, action, idempotencyKey)
		}
		return nil, err
	}
	return entry, nil
}

func quotaStatus(allowed, used int) QuotaStatus {
	remaining := allowed - used
	if remaining < 0 {
		remaining = 0
	}
	return QuotaStatus{Allowed: allowed, Used: used, Remaining: remaining}
}

func periodInfo(plan *billing.UserPlan) PeriodInfo {
	info := PeriodInfo{Type: string(plan.PeriodType())}
	if plan.Tier() == billing.PlanFree {
		return info
	}
	if start := plan.CurrentPeriodStart(); start != nil {
		s := biztime.FormatRFC3339(*start)
		info.StartAt = &s
	}
	if end := plan.CurrentPeriodEnd(); end != nil {
		e := biztime.FormatRFC3339(*end)
		info.EndAt = &e
		info.ResetsAt = &e
	}
	return info
}
