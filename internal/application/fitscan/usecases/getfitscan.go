package usecases

import (
	"context"

	"github.com/ngoinfo/grantpilot/internal/application/fitscan/dto"
	"github.com/ngoinfo/grantpilot/internal/domain/fitscan"
	"github.com/ngoinfo/grantpilot/internal/shared/errors"
)

// GetFitScanUseCase fetches a single scan for its owner.
type GetFitScanUseCase struct {
	scans fitscan.Repository
}

func NewGetFitScanUseCase(scans fitscan.Repository) *GetFitScanUseCase {
	return &GetFitScanUseCase{scans: scans}
}

func (uc *GetFitScanUseCase) Execute(ctx context.Context, userID, fitScanID string) (*dto.FitScanDTO, error) {
	scan, err := uc.scans.GetByID(ctx, fitScanID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewNotFoundError("Fit Scan not found")
		}
		return nil, err
	}
	if !scan.IsOwnedBy(userID) {
		return nil, errors.NewForbiddenError("Forbidden")
	}
	return dto.FromEntity(scan), nil
}
