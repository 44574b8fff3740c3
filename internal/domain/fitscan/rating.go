package fitscan

import "fmt"

// Rating is the model-produced overall fit rating.
type Rating string

const (
	RatingStrong   Rating = "STRONG"
	RatingModerate Rating = "MODERATE"
	RatingWeak     Rating = "WEAK"
)

func (r Rating) IsValid() bool {
	switch r {
	case RatingStrong, RatingModerate, RatingWeak:
		return true
	}
	return false
}

// Recommendation is the product-facing advice derived from a rating.
type Recommendation string

const (
	RecommendationRecommended      Recommendation = "RECOMMENDED"
	RecommendationApplyWithCaveats Recommendation = "APPLY_WITH_CAVEATS"
	RecommendationNotRecommended   Recommendation = "NOT_RECOMMENDED"
)

// RecommendationForRating maps a rating to its recommendation. The
// mapping is total over valid ratings; anything else is an error so an
// unexpected model output can never silently become advice.
func RecommendationForRating(rating Rating) (Recommendation, error) {
	switch rating {
	case RatingStrong:
		return RecommendationRecommended, nil
	case RatingModerate:
		return RecommendationApplyWithCaveats, nil
	case RatingWeak:
		return RecommendationNotRecommended, nil
	default:
		return "", fmt.Errorf("unmapped fit rating: %q", rating)
	}
}
