package opportunity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ApplicantType classifies who an opportunity accepts applications from.
type ApplicantType string

const (
	ApplicantTypeNGO                 ApplicantType = "NGO"
	ApplicantTypeIndividual          ApplicantType = "INDIVIDUAL"
	ApplicantTypeAcademicInstitution ApplicantType = "ACADEMIC_INSTITUTION"
	ApplicantTypeConsortium          ApplicantType = "CONSORTIUM"
	ApplicantTypeMixed               ApplicantType = "MIXED"
)

func (a ApplicantType) IsValid() bool {
	switch a {
	case ApplicantTypeNGO, ApplicantTypeIndividual, ApplicantTypeAcademicInstitution,
		ApplicantTypeConsortium, ApplicantTypeMixed:
		return true
	}
	return false
}

// DeadlineType describes how the application deadline behaves.
type DeadlineType string

const (
	DeadlineTypeFixed   DeadlineType = "FIXED"
	DeadlineTypeRolling DeadlineType = "ROLLING"
	DeadlineTypeVaries  DeadlineType = "VARIES"
)

func (d DeadlineType) IsValid() bool {
	switch d {
	case DeadlineTypeFixed, DeadlineTypeRolling, DeadlineTypeVaries:
		return true
	}
	return false
}

// Status is the editorial lifecycle of an opportunity.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusReady     Status = "READY"
	StatusPublished Status = "PUBLISHED"
	StatusArchived  Status = "ARCHIVED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusReady, StatusPublished, StatusArchived:
		return true
	}
	return false
}

var (
	ErrInvalidID            = errors.New("opportunity ID cannot be empty")
	ErrTitleRequired        = errors.New("title is required")
	ErrDeadlineDateRequired = errors.New("a fixed deadline requires a deadline date")
	ErrInvalidTransition    = errors.New("invalid status transition")
)

// Attributes holds the editor-facing fields of a funding opportunity.
type Attributes struct {
	SourceURL             string
	ApplicationURL        string
	Title                 string
	DonorOrganization     string
	FundingType           string
	ApplicantType         ApplicantType
	LocationText          string
	FocusAreas            string
	DeadlineType          DeadlineType
	ApplicationDeadline   *time.Time
	Currency              string
	AmountMin             *float64
	AmountMax             *float64
	TotalFundingAvailable *float64
	ShortSummary          string
	OverviewText          string
	EligibilityCriteria   string
	ApplicationProcess    string
	ContactInformation    string
	OrganizationTypes     string
	GeographicFocus       string
	ProcessingStatus      string
	ParsingConfidence     *float64
	InternalNotes         string
	Requirements          *Requirements
}

// FundingOpportunity is a grant or funding call curated by admins.
type FundingOpportunity struct {
	id           string
	attrs        Attributes
	status       Status
	isActive     bool
	isArchived   bool
	lastVerified *time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

func NewFundingOpportunity(attrs Attributes) (*FundingOpportunity, error) {
	if err := validateAttributes(attrs); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &FundingOpportunity{
		id:        uuid.NewString(),
		attrs:     attrs,
		status:    StatusDraft,
		isActive:  true,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructFundingOpportunity(
	id string,
	attrs Attributes,
	status string,
	isActive bool,
	isArchived bool,
	lastVerified *time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) (*FundingOpportunity, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	opportunityStatus := Status(status)
	if !opportunityStatus.IsValid() {
		return nil, fmt.Errorf("invalid opportunity status: %s", status)
	}

	return &FundingOpportunity{
		id:           id,
		attrs:        attrs,
		status:       opportunityStatus,
		isActive:     isActive,
		isArchived:   isArchived,
		lastVerified: lastVerified,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func validateAttributes(attrs Attributes) error {
	if attrs.Title == "" {
		return ErrTitleRequired
	}
	if !attrs.ApplicantType.IsValid() {
		return fmt.Errorf("invalid applicant type: %s", attrs.ApplicantType)
	}
	if !attrs.DeadlineType.IsValid() {
		return fmt.Errorf("invalid deadline type: %s", attrs.DeadlineType)
	}
	if attrs.DeadlineType == DeadlineTypeFixed && attrs.ApplicationDeadline == nil {
		return ErrDeadlineDateRequired
	}
	if attrs.Requirements != nil {
		if err := attrs.Requirements.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Update replaces the editable fields. The lifecycle status is not
// touched here; use Publish/Archive for transitions.
func (o *FundingOpportunity) Update(attrs Attributes) error {
	if err := validateAttributes(attrs); err != nil {
		return err
	}
	o.attrs = attrs
	o.updatedAt = time.Now().UTC()
	return nil
}

// Publish moves a draft or ready opportunity into the published state.
func (o *FundingOpportunity) Publish() error {
	if o.status != StatusDraft && o.status != StatusReady {
		return ErrInvalidTransition
	}
	o.status = StatusPublished
	o.isActive = true
	o.isArchived = false
	o.updatedAt = time.Now().UTC()
	return nil
}

// MarkReady moves a draft opportunity to the ready state.
func (o *FundingOpportunity) MarkReady() error {
	if o.status != StatusDraft {
		return ErrInvalidTransition
	}
	o.status = StatusReady
	o.updatedAt = time.Now().UTC()
	return nil
}

// Archive retires the opportunity. Archived opportunities are never
// assessable again.
func (o *FundingOpportunity) Archive() {
	o.status = StatusArchived
	o.isActive = false
	o.isArchived = true
	o.updatedAt = time.Now().UTC()
}

func (o *FundingOpportunity) MarkVerified(at time.Time) {
	at = at.UTC()
	o.lastVerified = &at
	o.updatedAt = time.Now().UTC()
}

// IsAssessable reports whether a fit scan may run against this
// opportunity.
func (o *FundingOpportunity) IsAssessable() bool {
	return o.isActive && !o.isArchived
}

func (o *FundingOpportunity) ID() string                   { return o.id }
func (o *FundingOpportunity) Attributes() Attributes       { return o.attrs }
func (o *FundingOpportunity) SourceURL() string            { return o.attrs.SourceURL }
func (o *FundingOpportunity) ApplicationURL() string       { return o.attrs.ApplicationURL }
func (o *FundingOpportunity) Title() string                { return o.attrs.Title }
func (o *FundingOpportunity) DonorOrganization() string    { return o.attrs.DonorOrganization }
func (o *FundingOpportunity) FundingType() string          { return o.attrs.FundingType }
func (o *FundingOpportunity) ApplicantType() ApplicantType { return o.attrs.ApplicantType }
func (o *FundingOpportunity) LocationText() string         { return o.attrs.LocationText }
func (o *FundingOpportunity) FocusAreas() string           { return o.attrs.FocusAreas }
func (o *FundingOpportunity) DeadlineType() DeadlineType   { return o.attrs.DeadlineType }
func (o *FundingOpportunity) ApplicationDeadline() *time.Time {
	return o.attrs.ApplicationDeadline
}
func (o *FundingOpportunity) Currency() string        { return o.attrs.Currency }
func (o *FundingOpportunity) AmountMin() *float64     { return o.attrs.AmountMin }
func (o *FundingOpportunity) AmountMax() *float64     { return o.attrs.AmountMax }
func (o *FundingOpportunity) TotalFundingAvailable() *float64 {
	return o.attrs.TotalFundingAvailable
}
func (o *FundingOpportunity) ShortSummary() string        { return o.attrs.ShortSummary }
func (o *FundingOpportunity) OverviewText() string        { return o.attrs.OverviewText }
func (o *FundingOpportunity) EligibilityCriteria() string { return o.attrs.EligibilityCriteria }
func (o *FundingOpportunity) ApplicationProcess() string  { return o.attrs.ApplicationProcess }
func (o *FundingOpportunity) ContactInformation() string  { return o.attrs.ContactInformation }
func (o *FundingOpportunity) OrganizationTypes() string   { return o.attrs.OrganizationTypes }
func (o *FundingOpportunity) GeographicFocus() string     { return o.attrs.GeographicFocus }
func (o *FundingOpportunity) ProcessingStatus() string    { return o.attrs.ProcessingStatus }
func (o *FundingOpportunity) ParsingConfidence() *float64 { return o.attrs.ParsingConfidence }
func (o *FundingOpportunity) InternalNotes() string       { return o.attrs.InternalNotes }
func (o *FundingOpportunity) Requirements() *Requirements { return o.attrs.Requirements }
func (o *FundingOpportunity) Status() Status              { return o.status }
func (o *FundingOpportunity) IsActive() bool              { return o.isActive }
func (o *FundingOpportunity) IsArchived() bool            { return o.isArchived }
func (o *FundingOpportunity) LastVerified() *time.Time    { return o.lastVerified }
func (o *FundingOpportunity) CreatedAt() time.Time        { return o.createdAt }
func (o *FundingOpportunity) UpdatedAt() time.Time        { return o.updatedAt }
