package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/ngoinfo/grantpilot/internal/domain/fitscan"
	"github.com/ngoinfo/grantpilot/internal/infrastructure/persistence/models"
	"github.com/ngoinfo/grantpilot/internal/shared/db"
	"github.com/ngoinfo/grantpilot/internal/shared/errors"
)

type FitScanRepository struct {
	db *gorm.DB
}

func NewFitScanRepository(gdb *gorm.DB) fitscan.Repository {
	return &FitScanRepository{db: gdb}
}

func (r *FitScanRepository) conn(ctx context.Context) *gorm.DB {
	return db.GetTxFromContext(ctx, r.db)
}

func (r *FitScanRepository) Create(ctx context.Context, scan *fitscan.FitScan) error {
	model, err := fitScanToModel(scan)
	if err != nil {
		return err
	}
	if err := r.conn(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create fit scan: %w", err)
	}
	return nil
}

func (r *FitScanRepository) GetByID(ctx context.Context, id string) (*fitscan.FitScan, error) {
	var model models.FitScanModel
	if err := r.conn(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("fit scan not found")
		}
		return nil, fmt.Errorf("failed to get fit scan by ID: %w", err)
	}
	return fitScanToEntity(&model)
}

func (r *FitScanRepository) ListByUserID(ctx context.Context, userID string) ([]*fitscan.FitScan, error) {
	var scanModels []models.FitScanModel
	err := r.conn(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&scanModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list fit scans: %w", err)
	}

	out := make([]*fitscan.FitScan, 0, len(scanModels))
	for i := range scanModels {
		scan, err := fitScanToEntity(&scanModels[i])
		if err != nil {
			return nil, err
		}
		out = append(out, scan)
	}
	return out, nil
}

func fitScanToModel(scan *fitscan.FitScan) (*models.FitScanModel, error) {
	result, err := toJSON(scan.Result())
	if err != nil {
		return nil, err
	}

	subscores := scan.Subscores()
	return &models.FitScanModel{
		ID:                    scan.ID(),
		UserID:                scan.UserID(),
		FundingOpportunityID:  scan.FundingOpportunityID(),
		PlanAtTimeOfScan:      scan.PlanAtTimeOfScan(),
		PromptVersion:         scan.PromptVersion(),
		ModelRating:           string(scan.ModelRating()),
		OverallRecommendation: string(scan.Recommendation()),
		EligibilityScore:      subscores.Eligibility,
		AlignmentScore:        subscores.Alignment,
		ReadinessScore:        subscores.Readiness,
		Result:                result,
		CreatedAt:             scan.CreatedAt(),
	}, nil
}

func fitScanToEntity(m *models.FitScanModel) (*fitscan.FitScan, error) {
	result, err := fromJSON[map[string]any](m.Result)
	if err != nil {
		return nil, err
	}

	return fitscan.ReconstructFitScan(
		m.ID,
		m.UserID,
		m.FundingOpportunityID,
		m.PlanAtTimeOfScan,
		m.PromptVersion,
		m.ModelRating,
		m.OverallRecommendation,
		fitscan.Subscores{
			Eligibility: m.EligibilityScore,
			Alignment:   m.AlignmentScore,
			Readiness:   m.ReadinessScore,
		},
		result,
		m.CreatedAt,
	)
}
