package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/ngoinfo/grantpilot/internal/shared/constants"
)

type FundingOpportunityModel struct {
	ID                    string `gorm:"primarykey;size:36"`
	SourceURL             string `gorm:"size:2048"`
	ApplicationURL        string `gorm:"size:2048"`
	Title                 string `gorm:"not null;size:500"`
	DonorOrganization     string `gorm:"size:255;index"`
	FundingType           string `gorm:"size:100"`
	ApplicantType         string `gorm:"not null;size:30"`
	LocationText          string `gorm:"size:500"`
	FocusAreas            string `gorm:"type:text"`
	DeadlineType          string `gorm:"not null;size:20"`
	ApplicationDeadline   *time.Time
	Currency              string `gorm:"size:10"`
	AmountMin             *float64
	AmountMax             *float64
	TotalFundingAvailable *float64
	ShortSummary          string `gorm:"type:text"`
	OverviewText          string `gorm:"type:text"`
	EligibilityCriteria   string `gorm:"type:text"`
	ApplicationProcess    string `gorm:"type:text"`
	ContactInformation    string `gorm:"type:text"`
	OrganizationTypes     string `gorm:"size:500"`
	GeographicFocus       string `gorm:"size:500"`
	InternalNotes         string `gorm:"type:text"`
	RequirementsJSON      datatypes.JSON
	Status                string `gorm:"not null;size:20;default:DRAFT;index"`
	IsActive              bool   `gorm:"not null;default:true;index"`
	IsArchived            bool   `gorm:"not null;default:false"`
	LastVerified          *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (FundingOpportunityModel) TableName() string {
	return constants.TableFundingOpportunities
}
