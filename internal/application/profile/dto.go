package profile

import (
	"time"

	"github.com/ngoinfo/grantpilot/internal/domain/profile"
)

// PastProjectInput mirrors domain PastProject for requests.
type PastProjectInput struct {
	Title       string `json:"title" validate:"required"`
	Donor       string `json:"donor"`
	Year        int    `json:"year"`
	Description string `json:"description"`
}

// UpsertProfileRequest carries the full editable field set. Create and
// update share it.
type UpsertProfileRequest struct {
	OrganizationName        string             `json:"organization_name" validate:"required"`
	CountryOfRegistration   string             `json:"country_of_registration" validate:"required"`
	MissionStatement        string             `json:"mission_statement" validate:"required"`
	FocusSectors            []string           `json:"focus_sectors"`
	GeographicAreasOfWork   []string           `json:"geographic_areas_of_work"`
	TargetGroups            []string           `json:"target_groups"`
	PastProjects            []PastProjectInput `json:"past_projects"`
	YearOfEstablishment     *int               `json:"year_of_establishment"`
	ContactPersonName       string             `json:"contact_person_name"`
	ContactEmail            string             `json:"contact_email" validate:"omitempty,email"`
	Website                 string             `json:"website" validate:"omitempty,url"`
	FullTimeStaff           *int               `json:"full_time_staff" validate:"omitempty,gte=0"`
	AnnualBudgetAmount      *float64           `json:"annual_budget_amount"`
	AnnualBudgetCurrency    string             `json:"annual_budget_currency"`
	MonitoringAndEvaluation string             `json:"monitoring_and_evaluation_practices"`
	FundersWorkedWithBefore []string           `json:"funders_worked_with_before"`
}

// ProfileDTO is the API representation of an NGO profile.
type ProfileDTO struct {
	ID                      string                `json:"id"`
	OrganizationName        string                `json:"organization_name"`
	CountryOfRegistration   string                `json:"country_of_registration"`
	MissionStatement        string                `json:"mission_statement"`
	FocusSectors            []string              `json:"focus_sectors"`
	GeographicAreasOfWork   []string              `json:"geographic_areas_of_work"`
	TargetGroups            []string              `json:"target_groups"`
	PastProjects            []profile.PastProject `json:"past_projects"`
	YearOfEstablishment     *int                  `json:"year_of_establishment"`
	ContactPersonName       string                `json:"contact_person_name,omitempty"`
	ContactEmail            string                `json:"contact_email,omitempty"`
	Website                 string                `json:"website,omitempty"`
	FullTimeStaff           *int                  `json:"full_time_staff"`
	AnnualBudgetAmount      *float64              `json:"annual_budget_amount"`
	AnnualBudgetCurrency    string                `json:"annual_budget_currency"`
	MonitoringAndEvaluation string                `json:"monitoring_and_evaluation_practices,omitempty"`
	FundersWorkedWithBefore []string              `json:"funders_worked_with_before"`
	ProfileStatus           string                `json:"profile_status"`
	CompletenessScore       int                   `json:"completeness_score"`
	MissingFields           []string              `json:"missing_fields"`
	CreatedAt               time.Time             `json:"created_at"`
	UpdatedAt               time.Time             `json:"updated_at"`
	LastCompletedAt         *time.Time            `json:"last_completed_at"`
}

// CompletenessDTO is the slim completeness snapshot.
type CompletenessDTO struct {
	ProfileStatus     string   `json:"profile_status"`
	CompletenessScore int      `json:"completeness_score"`
	MissingFields     []string `json:"missing_fields"`
}

func toAttributes(req *UpsertProfileRequest) profile.Attributes {
	projects := make([]profile.PastProject, 0, len(req.PastProjects))
	for _, p := range req.PastProjects {
		projects = append(projects, profile.PastProject{
			Title:       p.Title,
			Donor:       p.Donor,
			Year:        p.Year,
			Description: p.Description,
		})
	}
	return profile.Attributes{
		OrganizationName:        req.OrganizationName,
		CountryOfRegistration:   req.CountryOfRegistration,
		MissionStatement:        req.MissionStatement,
		FocusSectors:            req.FocusSectors,
		GeographicAreasOfWork:   req.GeographicAreasOfWork,
		TargetGroups:            req.TargetGroups,
		PastProjects:            projects,
		YearOfEstablishment:     req.YearOfEstablishment,
		ContactPersonName:       req.ContactPersonName,
		ContactEmail:            req.ContactEmail,
		Website:                 req.Website,
		FullTimeStaff:           req.FullTimeStaff,
		AnnualBudgetAmount:      req.AnnualBudgetAmount,
		AnnualBudgetCurrency:    req.AnnualBudgetCurrency,
		MonitoringAndEvaluation: req.MonitoringAndEvaluation,
		FundersWorkedWithBefore: req.FundersWorkedWithBefore,
	}
}

func toDTO(p *profile.NGOProfile) *ProfileDTO {
	return &ProfileDTO{
		ID:                      p.ID(),
		OrganizationName:        p.OrganizationName(),
		CountryOfRegistration:   p.CountryOfRegistration(),
		MissionStatement:        p.MissionStatement(),
		FocusSectors:            p.FocusSectors(),
		GeographicAreasOfWork:   p.GeographicAreasOfWork(),
		TargetGroups:            p.TargetGroups(),
		PastProjects:            p.PastProjects(),
		YearOfEstablishment:     p.YearOfEstablishment(),
		ContactPersonName:       p.ContactPersonName(),
		ContactEmail:            p.ContactEmail(),
		Website:                 p.Website(),
		FullTimeStaff:           p.FullTimeStaff(),
		AnnualBudgetAmount:      p.AnnualBudgetAmount(),
		AnnualBudgetCurrency:    p.AnnualBudgetCurrency(),
		MonitoringAndEvaluation: p.MonitoringAndEvaluation(),
		FundersWorkedWithBefore: p.FundersWorkedWithBefore(),
		ProfileStatus:           string(p.Status()),
		CompletenessScore:       p.CompletenessScore(),
		MissingFields:           p.MissingFields(),
		CreatedAt:               p.CreatedAt(),
		UpdatedAt:               p.UpdatedAt(),
		LastCompletedAt:         p.LastCompletedAt(),
	}
}
