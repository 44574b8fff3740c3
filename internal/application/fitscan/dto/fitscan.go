// Package dto defines the transport representations of fit scans.
package dto

import (
	"time"

	"github.com/ngoinfo/grantpilot/internal/domain/fitscan"
)

// SubscoresDTO mirrors the three rubric dimensions.
type SubscoresDTO struct {
	Eligibility int `json:"eligibility"`
	Alignment   int `json:"alignment"`
	Readiness   int `json:"readiness"`
}

// FitScanDTO is the API representation of a completed scan.
type FitScanDTO struct {
	ID                    string         `json:"id"`
	FundingOpportunityID  string         `json:"funding_opportunity_id"`
	PlanAtTimeOfScan      string         `json:"plan_at_time_of_scan"`
	PromptVersion         string         `json:"prompt_version"`
	ModelRating           string         `json:"model_rating"`
	OverallRecommendation string         `json:"overall_recommendation"`
	Subscores             SubscoresDTO   `json:"subscores"`
	Result                map[string]any `json:"result"`
	CreatedAt             time.Time      `json:"created_at"`
}

// FromEntity converts a domain fit scan to its DTO.
func FromEntity(scan *fitscan.FitScan) *FitScanDTO {
	subscores := scan.Subscores()
	return &FitScanDTO{
		ID:                    scan.ID(),
		FundingOpportunityID:  scan.FundingOpportunityID(),
		PlanAtTimeOfScan:      scan.PlanAtTimeOfScan(),
		PromptVersion:         scan.PromptVersion(),
		ModelRating:           string(scan.ModelRating()),
		OverallRecommendation: string(scan.Recommendation()),
		Subscores: SubscoresDTO{
			Eligibility: subscores.Eligibility,
			Alignment:   subscores.Alignment,
			Readiness:   subscores.Readiness,
		},
		Result:    scan.Result(),
		CreatedAt: scan.CreatedAt(),
	}
}
