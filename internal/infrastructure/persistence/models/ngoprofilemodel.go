package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/ngoinfo/grantpilot/internal/shared/constants"
)

type NGOProfileModel struct {
	ID                      string `gorm:"primarykey;size:36"`
	UserID                  string `gorm:"uniqueIndex;not null;size:36"`
	OrganizationName        string `gorm:"size:255"`
	CountryOfRegistration   string `gorm:"size:100"`
	MissionStatement        string `gorm:"type:text"`
	FocusSectors            datatypes.JSON
	GeographicAreasOfWork   datatypes.JSON
	TargetGroups            datatypes.JSON
	PastProjects            datatypes.JSON
	YearOfEstablishment     *int
	ContactPersonName       string `gorm:"size:255"`
	ContactEmail            string `gorm:"size:320"`
	Website                 string `gorm:"size:2048"`
	FullTimeStaff           *int
	AnnualBudgetAmount      *float64
	AnnualBudgetCurrency    string `gorm:"size:10"`
	MonitoringAndEvaluation string `gorm:"type:text"`
	FundersWorkedWithBefore datatypes.JSON
	ProfileStatus           string `gorm:"not null;size:20;default:DRAFT;index"`
	CompletenessScore       int    `gorm:"not null;default:0"`
	MissingFields           datatypes.JSON
	LastCompletedAt         *time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

func (NGOProfileModel) TableName() string {
	return constants.TableNGOProfiles
}
