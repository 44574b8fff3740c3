// Package usecases orchestrates the fit scan pipeline: gating, fact
// assembly, the rubric call, and atomic persistence of result plus
// usage charge.
package usecases

import (
	"context"

	"github.com/google/uuid"

	appbilling "github.com/ngoinfo/grantpilot/internal/application/billing"
	"github.com/ngoinfo/grantpilot/internal/application/fitscan/dto"
	"github.com/ngoinfo/grantpilot/internal/application/fitscan/promptinputs"
	"github.com/ngoinfo/grantpilot/internal/domain/billing"
	"github.com/ngoinfo/grantpilot/internal/domain/fitscan"
	"github.com/ngoinfo/grantpilot/internal/domain/opportunity"
	"github.com/ngoinfo/grantpilot/internal/domain/profile"
	"github.com/ngoinfo/grantpilot/internal/infrastructure/ai"
	"github.com/ngoinfo/grantpilot/internal/shared/errors"
	"github.com/ngoinfo/grantpilot/internal/shared/logger"
)

// rubricExecutor abstracts the model-facing executor.
type rubricExecutor interface {
	Execute(ctx context.Context, promptInputs map[string]any) (map[string]any, error)
}

// transactionManager runs a function within one database transaction.
type transactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// RunFitScanUseCase runs one assessment end to end. A scan that fails
// at any stage charges no quota and stores nothing.
type RunFitScanUseCase struct {
	opportunities opportunity.Repository
	profiles      profile.Repository
	scans         fitscan.Repository
	quota         *appbilling.QuotaService
	assembler     *promptinputs.Assembler
	executor      rubricExecutor
	txManager     transactionManager
	logger        logger.Interface
}

func NewRunFitScanUseCase(
	opportunities opportunity.Repository,
	profiles profile.Repository,
	scans fitscan.Repository,
	quota *appbilling.QuotaService,
	assembler *promptinputs.Assembler,
	executor rubricExecutor,
	txManager transactionManager,
	log logger.Interface,
) *RunFitScanUseCase {
	return &RunFitScanUseCase{
		opportunities: opportunities,
		profiles:      profiles,
		scans:         scans,
		quota:         quota,
		assembler:     assembler,
		executor:      executor,
		txManager:     txManager,
		logger:        log,
	}
}

func (uc *RunFitScanUseCase) Execute(
	ctx context.Context,
	userID string,
	fundingOpportunityID string,
	userInputs *promptinputs.UserInputs,
) (*dto.FitScanDTO, error) {
	opp, err := uc.loadAssessableOpportunity(ctx, fundingOpportunityID)
	if err != nil {
		return nil, err
	}

	ngoProfile, err := uc.loadCompleteProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := uc.quota.EnforceQuota(ctx, userID, billing.ActionFitScan); err != nil {
		return nil, err
	}

	promptDoc := uc.assembler.Build(ngoProfile, opp, userInputs)
	result, err := uc.executor.Execute(ctx, promptDoc)
	if err != nil {
		return nil, err
	}

	scan, err := uc.buildScan(ctx, userID, opp.ID(), result)
	if err != nil {
		return nil, err
	}

	// Charge and persist atomically. The guarded recording locks the
	// plan row and recounts usage, so the last quota slot cannot be
	// spent twice by concurrent scans.
	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if _, err := uc.quota.RecordUsageGuarded(txCtx, userID, billing.ActionFitScan, uuid.NewString()); err != nil {
			return err
		}
		return uc.scans.Create(txCtx, scan)
	})
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to persist fit scan", "user_id", userID, "error", err)
		return nil, errors.NewAssessmentFailedError("Failed to persist Fit Scan").WithCause(err)
	}

	uc.logger.Infow("fit scan completed",
		"user_id", userID,
		"opportunity_id", opp.ID(),
		"rating", scan.ModelRating(),
		"recommendation", scan.Recommendation(),
	)
	return dto.FromEntity(scan), nil
}

func (uc *RunFitScanUseCase) loadAssessableOpportunity(ctx context.Context, id string) (*opportunity.FundingOpportunity, error) {
	opp, err := uc.opportunities.GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewNotFoundError("Funding opportunity not found")
		}
		return nil, err
	}
	// Inactive and archived opportunities are indistinguishable from
	// absent ones to callers.
	if !opp.IsAssessable() {
		return nil, errors.NewNotFoundError("Funding opportunity not found")
	}
	return opp, nil
}

func (uc *RunFitScanUseCase) loadCompleteProfile(ctx context.Context, userID string) (*profile.NGOProfile, error) {
	ngoProfile, err := uc.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewProfileIncompleteError(profile.MissingProfileFields)
		}
		return nil, err
	}
	if !ngoProfile.IsComplete() {
		return nil, errors.NewProfileIncompleteError(ngoProfile.MissingFields())
	}
	return ngoProfile, nil
}

func (uc *RunFitScanUseCase) buildScan(ctx context.Context, userID, opportunityID string, result map[string]any) (*fitscan.FitScan, error) {
	fitSummary, _ := result["fit_summary"].(map[string]any)
	rating, _ := fitSummary["overall_fit_rating"].(string)
	rawSubscores, _ := fitSummary["subscores"].(map[string]any)

	subscores := fitscan.Subscores{
		Eligibility: intSubscore(rawSubscores["eligibility"]),
		Alignment:   intSubscore(rawSubscores["alignment"]),
		Readiness:   intSubscore(rawSubscores["readiness"]),
	}

	plan, err := uc.quota.GetOrCreatePlan(ctx, userID)
	if err != nil {
		return nil, err
	}

	scan, err := fitscan.NewFitScan(
		userID,
		opportunityID,
		string(plan.Tier()),
		ai.PromptLibraryVersion,
		fitscan.Rating(rating),
		subscores,
		result,
	)
	if err != nil {
		uc.logger.Errorw("model output could not be mapped", "error", err)
		return nil, errors.NewAssessmentFailedError("Invalid model rating in Fit Scan output").WithCause(err)
	}
	return scan, nil
}

func intSubscore(v any) int {
	f, _ := v.(float64)
	return int(f)
}
