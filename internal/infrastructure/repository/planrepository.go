package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ngoinfo/grantpilot/internal/domain/billing"
	"github.com/ngoinfo/grantpilot/internal/infrastructure/persistence/models"
	"github.com/ngoinfo/grantpilot/internal/shared/db"
	"github.com/ngoinfo/grantpilot/internal/shared/errors"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(gdb *gorm.DB) billing.PlanRepository {
	return &PlanRepository{db: gdb}
}

func (r *PlanRepository) conn(ctx context.Context) *gorm.DB {
	return db.GetTxFromContext(ctx, r.db)
}

func (r *PlanRepository) Create(ctx context.Context, plan *billing.UserPlan) error {
	if err := r.conn(ctx).Create(planToModel(plan)).Error; err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return nil
}

func (r *PlanRepository) Update(ctx context.Context, plan *billing.UserPlan) error {
	result := r.conn(ctx).Save(planToModel(plan))
	if result.Error != nil {
		return fmt.Errorf("failed to update plan: %w", result.Error)
	}
	return nil
}

func (r *PlanRepository) GetByUserID(ctx context.Context, userID string) (*billing.UserPlan, error) {
	var model models.UserPlanModel
	if err := r.conn(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("plan not found")
		}
		return nil, fmt.Errorf("failed to get plan by user ID: %w", err)
	}
	return planToEntity(&model)
}

// GetByUserIDForUpdate takes a row lock, so concurrent quota checks
// for the same user serialize on the plan row. Must run inside a
// transaction to have any effect.
func (r *PlanRepository) GetByUserIDForUpdate(ctx context.Context, userID string) (*billing.UserPlan, error) {
	var model models.UserPlanModel
	err := r.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("plan not found")
		}
		return nil, fmt.Errorf("failed to lock plan row: %w", err)
	}
	return planToEntity(&model)
}

func planToModel(plan *billing.UserPlan) *models.UserPlanModel {
	return &models.UserPlanModel{
		ID:                 plan.ID(),
		UserID:             plan.UserID(),
		Tier:               string(plan.Tier()),
		ActivatedAt:        plan.ActivatedAt(),
		CurrentPeriodStart: plan.CurrentPeriodStart(),
		CurrentPeriodEnd:   plan.CurrentPeriodEnd(),
		CreatedAt:          plan.CreatedAt(),
		UpdatedAt:          plan.UpdatedAt(),
	}
}

func planToEntity(m *models.UserPlanModel) (*billing.UserPlan, error) {
	return billing.ReconstructUserPlan(
		m.ID,
		m.UserID,
		m.Tier,
		m.ActivatedAt,
		m.CurrentPeriodStart,
		m.CurrentPeriodEnd,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
