package fitscan

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidID            = errors.New("fit scan ID cannot be empty")
	ErrInvalidUserID        = errors.New("user ID cannot be empty")
	ErrInvalidOpportunityID = errors.New("funding opportunity ID cannot be empty")
)

// Subscores are the three rubric dimensions, each 0 to 100.
type Subscores struct {
	Eligibility int `json:"eligibility"`
	Alignment   int `json:"alignment"`
	Readiness   int `json:"readiness"`
}

func (s Subscores) Validate() error {
	for name, value := range map[string]int{
		"eligibility": s.Eligibility,
		"alignment":   s.Alignment,
		"readiness":   s.Readiness,
	} {
		if value < 0 || value > 100 {
			return fmt.Errorf("subscore %s out of range: %d", name, value)
		}
	}
	return nil
}

// FitScan is one completed assessment. Scans are immutable once
// created; reruns produce new scans.
type FitScan struct {
	id                   string
	userID               string
	fundingOpportunityID string
	planAtTimeOfScan     string
	promptVersion        string
	modelRating          Rating
	recommendation       Recommendation
	subscores            Subscores
	result               map[string]any
	createdAt            time.Time
}

func NewFitScan(
	userID string,
	fundingOpportunityID string,
	planAtTimeOfScan string,
	promptVersion string,
	modelRating Rating,
	subscores Subscores,
	result map[string]any,
) (*FitScan, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	if fundingOpportunityID == "" {
		return nil, ErrInvalidOpportunityID
	}
	if !modelRating.IsValid() {
		return nil, fmt.Errorf("invalid model rating: %q", modelRating)
	}
	if err := subscores.Validate(); err != nil {
		return nil, err
	}
	recommendation, err := RecommendationForRating(modelRating)
	if err != nil {
		return nil, err
	}

	return &FitScan{
		id:                   uuid.NewString(),
		userID:               userID,
		fundingOpportunityID: fundingOpportunityID,
		planAtTimeOfScan:     planAtTimeOfScan,
		promptVersion:        promptVersion,
		modelRating:          modelRating,
		recommendation:       recommendation,
		subscores:            subscores,
		result:               result,
		createdAt:            time.Now().UTC(),
	}, nil
}

func ReconstructFitScan(
	id string,
	userID string,
	fundingOpportunityID string,
	planAtTimeOfScan string,
	promptVersion string,
	modelRating string,
	recommendation string,
	subscores Subscores,
	result map[string]any,
	createdAt time.Time,
) (*FitScan, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	if fundingOpportunityID == "" {
		return nil, ErrInvalidOpportunityID
	}

	return &FitScan{
		id:                   id,
		userID:               userID,
		fundingOpportunityID: fundingOpportunityID,
		planAtTimeOfScan:     planAtTimeOfScan,
		promptVersion:        promptVersion,
		modelRating:          Rating(modelRating),
		recommendation:       Recommendation(recommendation),
		subscores:            subscores,
		result:               result,
		createdAt:            createdAt,
	}, nil
}

// IsOwnedBy reports whether the scan belongs to the given user.
func (f *FitScan) IsOwnedBy(userID string) bool {
	return f.userID == userID
}

func (f *FitScan) ID() string                     { return f.id }
func (f *FitScan) UserID() string                 { return f.userID }
func (f *FitScan) FundingOpportunityID() string   { return f.fundingOpportunityID }
func (f *FitScan) PlanAtTimeOfScan() string       { return f.planAtTimeOfScan }
func (f *FitScan) PromptVersion() string          { return f.promptVersion }
func (f *FitScan) ModelRating() Rating            { return f.modelRating }
func (f *FitScan) Recommendation() Recommendation { return f.recommendation }
func (f *FitScan) Subscores() Subscores           { return f.subscores }
func (f *FitScan) Result() map[string]any         { return f.result }
func (f *FitScan) CreatedAt() time.Time           { return f.createdAt }
