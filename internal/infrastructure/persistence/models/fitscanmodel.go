package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/ngoinfo/grantpilot/internal/shared/constants"
)

type FitScanModel struct {
	ID                    string `gorm:"primarykey;size:36"`
	UserID                string `gorm:"not null;size:36;index:idx_fit_scans_user_created,priority:1"`
	FundingOpportunityID  string `gorm:"not null;size:36;index"`
	PlanAtTimeOfScan      string `gorm:"not null;size:20"`
	PromptVersion         string `gorm:"not null;size:20"`
	ModelRating           string `gorm:"not null;size:20"`
	OverallRecommendation string `gorm:"not null;size:30"`
	EligibilityScore      int    `gorm:"not null"`
	AlignmentScore        int    `gorm:"not null"`
	ReadinessScore        int    `gorm:"not null"`
	Result                datatypes.JSON
	CreatedAt             time.Time `gorm:"index:idx_fit_scans_user_created,priority:2"`
}

func (FitScanModel) TableName() string {
	return constants.TableFitScans
}
