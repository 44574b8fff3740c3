package profile

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status reflects whether the profile has all fields a fit scan needs.
type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusComplete Status = "COMPLETE"
)

var (
	ErrInvalidID     = errors.New("profile ID cannot be empty")
	ErrInvalidUserID = errors.New("user ID cannot be empty")
	ErrInvalidYear   = errors.New("invalid year of establishment")
	ErrInvalidBudget = errors.New("annual budget amount cannot be negative")
)

// PastProject is a free-form record of prior work. Only a non-blank
// title makes a project count toward completeness.
type PastProject struct {
	Title       string `json:"title"`
	Donor       string `json:"donor,omitempty"`
	Year        int    `json:"year,omitempty"`
	Description string `json:"description,omitempty"`
}

// Attributes holds the caller-editable profile fields. Create and
// update both take the full set.
type Attributes struct {
	OrganizationName        string
	CountryOfRegistration   string
	MissionStatement        string
	FocusSectors            []string
	GeographicAreasOfWork   []string
	TargetGroups            []string
	PastProjects            []PastProject
	YearOfEstablishment     *int
	ContactPersonName       string
	ContactEmail            string
	Website                 string
	FullTimeStaff           *int
	AnnualBudgetAmount      *float64
	AnnualBudgetCurrency    string
	MonitoringAndEvaluation string
	FundersWorkedWithBefore []string
}

// NGOProfile is the organization profile, one per user.
type NGOProfile struct {
	id                      string
	userID                  string
	organizationName        string
	countryOfRegistration   string
	missionStatement        string
	focusSectors            []string
	geographicAreasOfWork   []string
	targetGroups            []string
	pastProjects            []PastProject
	yearOfEstablishment     *int
	contactPersonName       string
	contactEmail            string
	website                 string
	fullTimeStaff           *int
	annualBudgetAmount      *float64
	annualBudgetCurrency    string
	monitoringAndEvaluation string
	fundersWorkedWithBefore []string
	status                  Status
	completenessScore       int
	missingFields           []string
	createdAt               time.Time
	updatedAt               time.Time
	lastCompletedAt         *time.Time
}

func NewNGOProfile(userID string, attrs Attributes) (*NGOProfile, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	if err := validateAttributes(attrs); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &NGOProfile{
		id:        uuid.NewString(),
		userID:    userID,
		createdAt: now,
		updatedAt: now,
	}
	p.apply(attrs, now)
	return p, nil
}

func ReconstructNGOProfile(
	id string,
	userID string,
	attrs Attributes,
	status string,
	completenessScore int,
	missingFields []string,
	createdAt time.Time,
	updatedAt time.Time,
	lastCompletedAt *time.Time,
) (*NGOProfile, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	return &NGOProfile{
		id:                      id,
		userID:                  userID,
		organizationName:        attrs.OrganizationName,
		countryOfRegistration:   attrs.CountryOfRegistration,
		missionStatement:        attrs.MissionStatement,
		focusSectors:            attrs.FocusSectors,
		geographicAreasOfWork:   attrs.GeographicAreasOfWork,
		targetGroups:            attrs.TargetGroups,
		pastProjects:            attrs.PastProjects,
		yearOfEstablishment:     attrs.YearOfEstablishment,
		contactPersonName:       attrs.ContactPersonName,
		contactEmail:            attrs.ContactEmail,
		website:                 attrs.Website,
		fullTimeStaff:           attrs.FullTimeStaff,
		annualBudgetAmount:      attrs.AnnualBudgetAmount,
		annualBudgetCurrency:    attrs.AnnualBudgetCurrency,
		monitoringAndEvaluation: attrs.MonitoringAndEvaluation,
		fundersWorkedWithBefore: attrs.FundersWorkedWithBefore,
		status:                  Status(status),
		completenessScore:       completenessScore,
		missingFields:           missingFields,
		createdAt:               createdAt,
		updatedAt:               updatedAt,
		lastCompletedAt:         lastCompletedAt,
	}, nil
}

// Update replaces the editable fields and recomputes completeness.
func (p *NGOProfile) Update(attrs Attributes) error {
	if err := validateAttributes(attrs); err != nil {
		return err
	}
	p.apply(attrs, time.Now().UTC())
	return nil
}

func (p *NGOProfile) apply(attrs Attributes, now time.Time) {
	currency := attrs.AnnualBudgetCurrency
	if currency == "" {
		currency = "USD"
	}

	p.organizationName = strings.TrimSpace(attrs.OrganizationName)
	p.countryOfRegistration = strings.TrimSpace(attrs.CountryOfRegistration)
	p.missionStatement = strings.TrimSpace(attrs.MissionStatement)
	p.focusSectors = normalizeList(attrs.FocusSectors)
	p.geographicAreasOfWork = normalizeList(attrs.GeographicAreasOfWork)
	p.targetGroups = normalizeList(attrs.TargetGroups)
	p.pastProjects = attrs.PastProjects
	p.yearOfEstablishment = attrs.YearOfEstablishment
	p.contactPersonName = attrs.ContactPersonName
	p.contactEmail = attrs.ContactEmail
	p.website = attrs.Website
	p.fullTimeStaff = attrs.FullTimeStaff
	p.annualBudgetAmount = attrs.AnnualBudgetAmount
	p.annualBudgetCurrency = currency
	p.monitoringAndEvaluation = attrs.MonitoringAndEvaluation
	p.fundersWorkedWithBefore = normalizeList(attrs.FundersWorkedWithBefore)
	p.updatedAt = now

	p.recomputeCompleteness(now)
}

func (p *NGOProfile) recomputeCompleteness(now time.Time) {
	result := ComputeCompleteness(
		p.organizationName,
		p.countryOfRegistration,
		p.missionStatement,
		p.focusSectors,
		p.geographicAreasOfWork,
		p.targetGroups,
		p.pastProjects,
	)
	p.completenessScore = result.Score
	p.missingFields = result.MissingFields
	p.status = result.Status

	if result.Status == StatusComplete {
		if p.lastCompletedAt == nil {
			p.lastCompletedAt = &now
		}
	} else {
		p.lastCompletedAt = nil
	}
}

func validateAttributes(attrs Attributes) error {
	if attrs.YearOfEstablishment != nil {
		year := *attrs.YearOfEstablishment
		if year < 1800 || year > time.Now().UTC().Year() {
			return ErrInvalidYear
		}
	}
	if attrs.AnnualBudgetAmount != nil && *attrs.AnnualBudgetAmount < 0 {
		return ErrInvalidBudget
	}
	return nil
}

func normalizeList(values []string) []string {
	normalized := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			normalized = append(normalized, v)
		}
	}
	return normalized
}

func (p *NGOProfile) ID() string                      { return p.id }
func (p *NGOProfile) UserID() string                  { return p.userID }
func (p *NGOProfile) OrganizationName() string        { return p.organizationName }
func (p *NGOProfile) CountryOfRegistration() string   { return p.countryOfRegistration }
func (p *NGOProfile) MissionStatement() string        { return p.missionStatement }
func (p *NGOProfile) FocusSectors() []string          { return p.focusSectors }
func (p *NGOProfile) GeographicAreasOfWork() []string { return p.geographicAreasOfWork }
func (p *NGOProfile) TargetGroups() []string          { return p.targetGroups }
func (p *NGOProfile) PastProjects() []PastProject     { return p.pastProjects }
func (p *NGOProfile) YearOfEstablishment() *int       { return p.yearOfEstablishment }
func (p *NGOProfile) ContactPersonName() string       { return p.contactPersonName }
func (p *NGOProfile) ContactEmail() string            { return p.contactEmail }
func (p *NGOProfile) Website() string                 { return p.website }
func (p *NGOProfile) FullTimeStaff() *int             { return p.fullTimeStaff }
func (p *NGOProfile) AnnualBudgetAmount() *float64    { return p.annualBudgetAmount }
func (p *NGOProfile) AnnualBudgetCurrency() string    { return p.annualBudgetCurrency }
func (p *NGOProfile) MonitoringAndEvaluation() string { return p.monitoringAndEvaluation }
func (p *NGOProfile) FundersWorkedWithBefore() []string {
	return p.fundersWorkedWithBefore
}
func (p *NGOProfile) Status() Status             { return p.status }
func (p *NGOProfile) CompletenessScore() int     { return p.completenessScore }
func (p *NGOProfile) MissingFields() []string    { return p.missingFields }
func (p *NGOProfile) CreatedAt() time.Time       { return p.createdAt }
func (p *NGOProfile) UpdatedAt() time.Time       { return p.updatedAt }
func (p *NGOProfile) LastCompletedAt() *time.Time { return p.lastCompletedAt }

// IsComplete reports whether the profile is ready for a fit scan.
func (p *NGOProfile) IsComplete() bool {
	return p.status == StatusComplete
}
