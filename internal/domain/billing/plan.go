package billing

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PlanTier is one of the three product plans.
type PlanTier string

const (
	PlanFree   PlanTier = "FREE"
	PlanGrowth PlanTier = "GROWTH"
	PlanImpact PlanTier = "IMPACT"
)

func (p PlanTier) IsValid() bool {
	switch p {
	case PlanFree, PlanGrowth, PlanImpact:
		return true
	}
	return false
}

// PeriodType describes how quota usage is windowed.
type PeriodType string

const (
	PeriodLifetime     PeriodType = "LIFETIME"
	PeriodBillingCycle PeriodType = "BILLING_CYCLE"
)

// billingCycleDays is the fixed paid-plan cycle length.
const billingCycleDays = 30

var (
	ErrInvalidID     = errors.New("plan ID cannot be empty")
	ErrInvalidUserID = errors.New("user ID cannot be empty")
)

// UserPlan binds a user to a plan tier. Paid tiers get a billing
// period materialized lazily from the activation time, so a plan row
// created before the first quota check carries no period yet.
type UserPlan struct {
	id                 string
	userID             string
	tier               PlanTier
	activatedAt        time.Time
	currentPeriodStart *time.Time
	currentPeriodEnd   *time.Time
	createdAt          time.Time
	updatedAt          time.Time
}

// NewUserPlan creates a fresh FREE plan for a user.
func NewUserPlan(userID string) (*UserPlan, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	now := time.Now().UTC()
	return &UserPlan{
		id:          uuid.NewString(),
		userID:      userID,
		tier:        PlanFree,
		activatedAt: now,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructUserPlan(
	id string,
	userID string,
	tier string,
	activatedAt time.Time,
	currentPeriodStart *time.Time,
	currentPeriodEnd *time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) (*UserPlan, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	planTier := PlanTier(tier)
	if !planTier.IsValid() {
		return nil, fmt.Errorf("invalid plan tier: %s", tier)
	}

	return &UserPlan{
		id:                 id,
		userID:             userID,
		tier:               planTier,
		activatedAt:        activatedAt,
		currentPeriodStart: currentPeriodStart,
		currentPeriodEnd:   currentPeriodEnd,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}, nil
}

// EnsurePeriod materializes the billing period for paid tiers. It
// reports whether anything changed so callers know to persist the
// plan. FREE plans have a lifetime window and are never touched.
func (p *UserPlan) EnsurePeriod() bool {
	if p.tier == PlanFree {
		return false
	}
	if p.currentPeriodStart != nil && p.currentPeriodEnd != nil {
		return false
	}
	start := p.activatedAt.UTC()
	end := start.Add(billingCycleDays * 24 * time.Hour)
	p.currentPeriodStart = &start
	p.currentPeriodEnd = &end
	p.updatedAt = time.Now().UTC()
	return true
}

// PeriodBounds returns the usage-counting window. FREE plans count
// lifetime usage, so both bounds are nil.
func (p *UserPlan) PeriodBounds() (start, end *time.Time) {
	if p.tier == PlanFree {
		return nil, nil
	}
	return p.currentPeriodStart, p.currentPeriodEnd
}

// PeriodType returns LIFETIME for FREE and BILLING_CYCLE otherwise.
func (p *UserPlan) PeriodType() PeriodType {
	if p.tier == PlanFree {
		return PeriodLifetime
	}
	return PeriodBillingCycle
}

func (p *UserPlan) ID() string                     { return p.id }
func (p *UserPlan) UserID() string                 { return p.userID }
func (p *UserPlan) Tier() PlanTier                 { return p.tier }
func (p *UserPlan) ActivatedAt() time.Time         { return p.activatedAt }
func (p *UserPlan) CurrentPeriodStart() *time.Time { return p.currentPeriodStart }
func (p *UserPlan) CurrentPeriodEnd() *time.Time   { return p.currentPeriodEnd }
func (p *UserPlan) CreatedAt() time.Time           { return p.createdAt }
func (p *UserPlan) UpdatedAt() time.Time           { return p.updatedAt }
