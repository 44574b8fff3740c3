package billing

// PlanQuota is the per-cycle allowance of a plan tier.
type PlanQuota struct {
	FitScans   int
	Proposals  int
	PeriodType PeriodType
}

// planQuotas is the fixed quota table. There is no per-user override.
var planQuotas = map[PlanTier]PlanQuota{
	PlanFree:   {FitScans: 1, Proposals: 1, PeriodType: PeriodLifetime},
	PlanGrowth: {FitScans: 10, Proposals: 3, PeriodType: PeriodBillingCycle},
	PlanImpact: {FitScans: 20, Proposals: 5, PeriodType: PeriodBillingCycle},
}

// QuotaForTier returns the allowance table entry for a tier. Unknown
// tiers fall back to FREE, the most restrictive allowance.
func QuotaForTier(tier PlanTier) PlanQuota {
	if quota, ok := planQuotas[tier]; ok {
		return quota
	}
	return planQuotas[PlanFree]
}

// Allowance returns the allowed count for a single action type.
func (q PlanQuota) Allowance(action ActionType) int {
	switch action {
	case ActionFitScan:
		return q.FitScans
	default:
		return q.Proposals
	}
}
