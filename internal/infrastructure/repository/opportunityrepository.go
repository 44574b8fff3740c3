package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/ngoinfo/grantpilot/internal/domain/opportunity"
	"github.com/ngoinfo/grantpilot/internal/infrastructure/persistence/models"
	"github.com/ngoinfo/grantpilot/internal/shared/db"
	"github.com/ngoinfo/grantpilot/internal/shared/errors"
)

type OpportunityRepository struct {
	db *gorm.DB
}

func NewOpportunityRepository(gdb *gorm.DB) opportunity.Repository {
	return &OpportunityRepository{db: gdb}
}

func (r *OpportunityRepository) conn(ctx context.Context) *gorm.DB {
	return db.GetTxFromContext(ctx, r.db)
}

func (r *OpportunityRepository) Create(ctx context.Context, o *opportunity.FundingOpportunity) error {
	model, err := opportunityToModel(o)
	if err != nil {
		return err
	}
	if err := r.conn(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create opportunity: %w", err)
	}
	return nil
}

func (r *OpportunityRepository) Update(ctx context.Context, o *opportunity.FundingOpportunity) error {
	model, err := opportunityToModel(o)
	if err != nil {
		return err
	}
	result := r.conn(ctx).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update opportunity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("opportunity not found")
	}
	return nil
}

func (r *OpportunityRepository) GetByID(ctx context.Context, id string) (*opportunity.FundingOpportunity, error) {
	var model models.FundingOpportunityModel
	if err := r.conn(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("opportunity not found")
		}
		return nil, fmt.Errorf("failed to get opportunity by ID: %w", err)
	}
	return opportunityToEntity(&model)
}

func (r *OpportunityRepository) List(ctx context.Context, filter opportunity.ListFilter) ([]*opportunity.FundingOpportunity, error) {
	query := r.conn(ctx).Model(&models.FundingOpportunityModel{})

	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ? AND is_archived = ?", true, false)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var opportunityModels []models.FundingOpportunityModel
	if err := query.Order("created_at DESC").Find(&opportunityModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list opportunities: %w", err)
	}

	out := make([]*opportunity.FundingOpportunity, 0, len(opportunityModels))
	for i := range opportunityModels {
		o, err := opportunityToEntity(&opportunityModels[i])
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func opportunityToModel(o *opportunity.FundingOpportunity) (*models.FundingOpportunityModel, error) {
	requirements, err := toJSON(o.Requirements())
	if err != nil {
		return nil, err
	}

	return &models.FundingOpportunityModel{
		ID:                    o.ID(),
		SourceURL:             o.SourceURL(),
		ApplicationURL:        o.ApplicationURL(),
		Title:                 o.Title(),
		DonorOrganization:     o.DonorOrganization(),
		FundingType:           o.FundingType(),
		ApplicantType:         string(o.ApplicantType()),
		LocationText:          o.LocationText(),
		FocusAreas:            o.FocusAreas(),
		DeadlineType:          string(o.DeadlineType()),
		ApplicationDeadline:   o.ApplicationDeadline(),
		Currency:              o.Currency(),
		AmountMin:             o.AmountMin(),
		AmountMax:             o.AmountMax(),
		TotalFundingAvailable: o.TotalFundingAvailable(),
		ShortSummary:          o.ShortSummary(),
		OverviewText:          o.OverviewText(),
		EligibilityCriteria:   o.EligibilityCriteria(),
		ApplicationProcess:    o.ApplicationProcess(),
		ContactInformation:    o.ContactInformation(),
		OrganizationTypes:     o.OrganizationTypes(),
		GeographicFocus:       o.GeographicFocus(),
		InternalNotes:         o.InternalNotes(),
		RequirementsJSON:      requirements,
		Status:                string(o.Status()),
		IsActive:              o.IsActive(),
		IsArchived:            o.IsArchived(),
		LastVerified:          o.LastVerified(),
		CreatedAt:             o.CreatedAt(),
		UpdatedAt:             o.UpdatedAt(),
	}, nil
}

func opportunityToEntity(m *models.FundingOpportunityModel) (*opportunity.FundingOpportunity, error) {
	requirements, err := fromJSON[*opportunity.Requirements](m.RequirementsJSON)
	if err != nil {
		return nil, err
	}

	attrs := opportunity.Attributes{
		SourceURL:             m.SourceURL,
		ApplicationURL:        m.ApplicationURL,
		Title:                 m.Title,
		DonorOrganization:     m.DonorOrganization,
		FundingType:           m.FundingType,
		ApplicantType:         opportunity.ApplicantType(m.ApplicantType),
		LocationText:          m.LocationText,
		FocusAreas:            m.FocusAreas,
		DeadlineType:          opportunity.DeadlineType(m.DeadlineType),
		ApplicationDeadline:   m.ApplicationDeadline,
		Currency:              m.Currency,
		AmountMin:             m.AmountMin,
		AmountMax:             m.AmountMax,
		TotalFundingAvailable: m.TotalFundingAvailable,
		ShortSummary:          m.ShortSummary,
		OverviewText:          m.OverviewText,
		EligibilityCriteria:   m.EligibilityCriteria,
		ApplicationProcess:    m.ApplicationProcess,
		ContactInformation:    m.ContactInformation,
		OrganizationTypes:     m.OrganizationTypes,
		GeographicFocus:       m.GeographicFocus,
		InternalNotes:         m.InternalNotes,
		Requirements:          requirements,
	}

	return opportunity.ReconstructFundingOpportunity(
		m.ID,
		attrs,
		m.Status,
		m.IsActive,
		m.IsArchived,
		m.LastVerified,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
