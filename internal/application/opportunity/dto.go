package opportunity

import (
	"time"

	"github.com/ngoinfo/grantpilot/internal/domain/opportunity"
	"github.com/ngoinfo/grantpilot/internal/shared/biztime"
)

// UpsertOpportunityRequest carries the editor-facing fields. Dates are
// YYYY-MM-DD strings on the wire.
type UpsertOpportunityRequest struct {
	SourceURL             string                    `json:"source_url" validate:"omitempty,url"`
	ApplicationURL        string                    `json:"application_url" validate:"omitempty,url"`
	Title                 string                    `json:"title" validate:"required"`
	DonorOrganization     string                    `json:"donor_organization" validate:"required"`
	FundingType           string                    `json:"funding_type"`
	ApplicantType         string                    `json:"applicant_type" validate:"required,oneof=NGO INDIVIDUAL ACADEMIC_INSTITUTION CONSORTIUM MIXED"`
	LocationText          string                    `json:"location_text"`
	FocusAreas            string                    `json:"focus_areas"`
	DeadlineType          string                    `json:"deadline_type" validate:"required,oneof=FIXED ROLLING VARIES"`
	ApplicationDeadline   string                    `json:"application_deadline"`
	Currency              string                    `json:"currency"`
	AmountMin             *float64                  `json:"amount_min" validate:"omitempty,gte=0"`
	AmountMax             *float64                  `json:"amount_max" validate:"omitempty,gte=0"`
	TotalFundingAvailable *float64                  `json:"total_funding_available" validate:"omitempty,gte=0"`
	ShortSummary          string                    `json:"short_summary" validate:"required"`
	OverviewText          string                    `json:"overview_text"`
	EligibilityCriteria   string                    `json:"eligibility_criteria"`
	ApplicationProcess    string                    `json:"application_process"`
	ContactInformation    string                    `json:"contact_information"`
	OrganizationTypes     string                    `json:"organization_types"`
	GeographicFocus       string                    `json:"geographic_focus"`
	InternalNotes         string                    `json:"internal_notes"`
	Requirements          *opportunity.Requirements `json:"requirements_json"`
}

// OpportunityDTO is the API representation. OverviewHTML is the
// sanitized rendering of OverviewText.
type OpportunityDTO struct {
	ID                    string                    `json:"id"`
	SourceURL             string                    `json:"source_url,omitempty"`
	ApplicationURL        string                    `json:"application_url,omitempty"`
	Title                 string                    `json:"title"`
	DonorOrganization     string                    `json:"donor_organization"`
	FundingType           string                    `json:"funding_type,omitempty"`
	ApplicantType         string                    `json:"applicant_type"`
	LocationText          string                    `json:"location_text,omitempty"`
	FocusAreas            string                    `json:"focus_areas,omitempty"`
	DeadlineType          string                    `json:"deadline_type"`
	ApplicationDeadline   *string                   `json:"application_deadline"`
	Currency              string                    `json:"currency,omitempty"`
	AmountMin             *float64                  `json:"amount_min"`
	AmountMax             *float64                  `json:"amount_max"`
	TotalFundingAvailable *float64                  `json:"total_funding_available"`
	ShortSummary          string                    `json:"short_summary"`
	OverviewText          string                    `json:"overview_text,omitempty"`
	OverviewHTML          string                    `json:"overview_html,omitempty"`
	EligibilityCriteria   string                    `json:"eligibility_criteria,omitempty"`
	ApplicationProcess    string                    `json:"application_process,omitempty"`
	ContactInformation    string                    `json:"contact_information,omitempty"`
	OrganizationTypes     string                    `json:"organization_types,omitempty"`
	GeographicFocus       string                    `json:"geographic_focus,omitempty"`
	InternalNotes         string                    `json:"internal_notes,omitempty"`
	Requirements          *opportunity.Requirements `json:"requirements_json,omitempty"`
	Status                string                    `json:"status"`
	IsActive              bool                      `json:"is_active"`
	IsArchived            bool                      `json:"is_archived"`
	LastVerified          *string                   `json:"last_verified"`
	CreatedAt             time.Time                 `json:"created_at"`
	UpdatedAt             time.Time                 `json:"updated_at"`
}

func toDTO(o *opportunity.FundingOpportunity, overviewHTML string) *OpportunityDTO {
	var deadline *string
	if d := o.ApplicationDeadline(); d != nil {
		s := biztime.FormatDate(*d)
		deadline = &s
	}
	var lastVerified *string
	if v := o.LastVerified(); v != nil {
		s := biztime.FormatDate(*v)
		lastVerified = &s
	}

	return &OpportunityDTO{
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
		ApplicationDeadline:   deadline,
		Currency:              o.Currency(),
		AmountMin:             o.AmountMin(),
		AmountMax:             o.AmountMax(),
		TotalFundingAvailable: o.TotalFundingAvailable(),
		ShortSummary:          o.ShortSummary(),
		OverviewText:          o.OverviewText(),
		OverviewHTML:          overviewHTML,
		EligibilityCriteria:   o.EligibilityCriteria(),
		ApplicationProcess:    o.ApplicationProcess(),
		ContactInformation:    o.ContactInformation(),
		OrganizationTypes:     o.OrganizationTypes(),
		GeographicFocus:       o.GeographicFocus(),
		InternalNotes:         o.InternalNotes(),
		Requirements:          o.Requirements(),
		Status:                string(o.Status()),
		IsActive:              o.IsActive(),
		IsArchived:            o.IsArchived(),
		LastVerified:          lastVerified,
		CreatedAt:             o.CreatedAt(),
		UpdatedAt:             o.UpdatedAt(),
	}
}
