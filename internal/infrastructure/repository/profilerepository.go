package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/ngoinfo/grantpilot/internal/domain/profile"
	"github.com/ngoinfo/grantpilot/internal/infrastructure/persistence/models"
	"github.com/ngoinfo/grantpilot/internal/shared/db"
	"github.com/ngoinfo/grantpilot/internal/shared/errors"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(gdb *gorm.DB) profile.Repository {
	return &ProfileRepository{db: gdb}
}

func (r *ProfileRepository) conn(ctx context.Context) *gorm.DB {
	return db.GetTxFromContext(ctx, r.db)
}

func (r *ProfileRepository) Create(ctx context.Context, p *profile.NGOProfile) error {
	model, err := profileToModel(p)
	if err != nil {
		return err
	}
	if err := r.conn(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) Update(ctx context.Context, p *profile.NGOProfile) error {
	model, err := profileToModel(p)
	if err != nil {
		return err
	}
	result := r.conn(ctx).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("profile not found")
	}
	return nil
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*profile.NGOProfile, error) {
	var model models.NGOProfileModel
	if err := r.conn(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("profile not found")
		}
		return nil, fmt.Errorf("failed to get profile by user ID: %w", err)
	}
	return profileToEntity(&model)
}

func (r *ProfileRepository) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&models.NGOProfileModel{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check profile existence: %w", err)
	}
	return count > 0, nil
}

func profileToModel(p *profile.NGOProfile) (*models.NGOProfileModel, error) {
	focusSectors, err := toJSON(p.FocusSectors())
	if err != nil {
		return nil, err
	}
	geographicAreas, err := toJSON(p.GeographicAreasOfWork())
	if err != nil {
		return nil, err
	}
	targetGroups, err := toJSON(p.TargetGroups())
	if err != nil {
		return nil, err
	}
	pastProjects, err := toJSON(p.PastProjects())
	if err != nil {
		return nil, err
	}
	funders, err := toJSON(p.FundersWorkedWithBefore())
	if err != nil {
		return nil, err
	}
	missingFields, err := toJSON(p.MissingFields())
	if err != nil {
		return nil, err
	}

	return &models.NGOProfileModel{
		ID:                      p.ID(),
		UserID:                  p.UserID(),
		OrganizationName:        p.OrganizationName(),
		CountryOfRegistration:   p.CountryOfRegistration(),
		MissionStatement:        p.MissionStatement(),
		FocusSectors:            focusSectors,
		GeographicAreasOfWork:   geographicAreas,
		TargetGroups:            targetGroups,
		PastProjects:            pastProjects,
		YearOfEstablishment:     p.YearOfEstablishment(),
		ContactPersonName:       p.ContactPersonName(),
		ContactEmail:            p.ContactEmail(),
		Website:                 p.Website(),
		FullTimeStaff:           p.FullTimeStaff(),
		AnnualBudgetAmount:      p.AnnualBudgetAmount(),
		AnnualBudgetCurrency:    p.AnnualBudgetCurrency(),
		MonitoringAndEvaluation: p.MonitoringAndEvaluation(),
		FundersWorkedWithBefore: funders,
		ProfileStatus:           string(p.Status()),
		CompletenessScore:       p.CompletenessScore(),
		MissingFields:           missingFields,
		LastCompletedAt:         p.LastCompletedAt(),
		CreatedAt:               p.CreatedAt(),
		UpdatedAt:               p.UpdatedAt(),
	}, nil
}

func profileToEntity(m *models.NGOProfileModel) (*profile.NGOProfile, error) {
	focusSectors, err := fromJSON[[]string](m.FocusSectors)
	if err != nil {
		return nil, err
	}
	geographicAreas, err := fromJSON[[]string](m.GeographicAreasOfWork)
	if err != nil {
		return nil, err
	}
	targetGroups, err := fromJSON[[]string](m.TargetGroups)
	if err != nil {
		return nil, err
	}
	pastProjects, err := fromJSON[[]profile.PastProject](m.PastProjects)
	if err != nil {
		return nil, err
	}
	funders, err := fromJSON[[]string](m.FundersWorkedWithBefore)
	if err != nil {
		return nil, err
	}
	missingFields, err := fromJSON[[]string](m.MissingFields)
	if err != nil {
		return nil, err
	}

	attrs := profile.Attributes{
		OrganizationName:        m.OrganizationName,
		CountryOfRegistration:   m.CountryOfRegistration,
		MissionStatement:        m.MissionStatement,
		FocusSectors:            focusSectors,
		GeographicAreasOfWork:   geographicAreas,
		TargetGroups:            targetGroups,
		PastProjects:            pastProjects,
		YearOfEstablishment:     m.YearOfEstablishment,
		ContactPersonName:       m.ContactPersonName,
		ContactEmail:            m.ContactEmail,
		Website:                 m.Website,
		FullTimeStaff:           m.FullTimeStaff,
		AnnualBudgetAmount:      m.AnnualBudgetAmount,
		AnnualBudgetCurrency:    m.AnnualBudgetCurrency,
		MonitoringAndEvaluation: m.MonitoringAndEvaluation,
		FundersWorkedWithBefore: funders,
	}

	return profile.ReconstructNGOProfile(
		m.ID,
		m.UserID,
		attrs,
		m.ProfileStatus,
		m.CompletenessScore,
		missingFields,
		m.CreatedAt,
		m.UpdatedAt,
		m.LastCompletedAt,
	)
}
