package fitscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendationForRating(t *testing.T) {
	tests := []struct {
		rating   Rating
		expected Recommendation
	}{
		{RatingStrong, RecommendationRecommended},
		{RatingModerate, RecommendationApplyWithCaveats},
		{RatingWeak, RecommendationNotRecommended},
	}
	for _, tt := range tests {
		rec, err := RecommendationForRating(tt.rating)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, rec)
	}
}

func TestRecommendationForRating_Unmapped(t *testing.T) {
	_, err := RecommendationForRating("EXCELLENT")
	assert.Error(t, err)

	_, err = RecommendationForRating("")
	assert.Error(t, err)
}

func TestSubscoresValidate(t *testing.T) {
	assert.NoError(t, Subscores{Eligibility: 0, Alignment: 50, Readiness: 100}.Validate())
	assert.Error(t, Subscores{Eligibility: -1}.Validate())
	assert.Error(t, Subscores{Alignment: 101}.Validate())
}

func TestNewFitScan(t *testing.T) {
	scan, err := NewFitScan(
		"user-1",
		"opp-1",
		"FREE",
		"1.0.1",
		RatingModerate,
		Subscores{Eligibility: 100, Alignment: 60, Readiness: 55},
		map[string]any{"fit_summary": map[string]any{}},
	)
	require.NoError(t, err)

	assert.NotEmpty(t, scan.ID())
	assert.Equal(t, RecommendationApplyWithCaveats, scan.Recommendation())
	assert.True(t, scan.IsOwnedBy("user-1"))
	assert.False(t, scan.IsOwnedBy("user-2"))
}

func TestNewFitScan_Invalid(t *testing.T) {
	valid := Subscores{Eligibility: 100, Alignment: 60, Readiness: 55}

	_, err := NewFitScan("", "opp-1", "FREE", "1.0.1", RatingWeak, valid, nil)
	assert.ErrorIs(t, err, ErrInvalidUserID)

	_, err = NewFitScan("user-1", "", "FREE", "1.0.1", RatingWeak, valid, nil)
	assert.ErrorIs(t, err, ErrInvalidOpportunityID)

	_, err = NewFitScan("user-1", "opp-1", "FREE", "1.0.1", "GOOD", valid, nil)
	assert.Error(t, err)

	_, err = NewFitScan("user-1", "opp-1", "FREE", "1.0.1", RatingWeak, Subscores{Readiness: 200}, nil)
	assert.Error(t, err)
}
