package promptinputs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngoinfo/grantpilot/internal/domain/opportunity"
	"github.com/ngoinfo/grantpilot/internal/domain/profile"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testProfile(t *testing.T) *profile.NGOProfile {
	t.Helper()
	budget := 80000.0
	p, err := profile.NewNGOProfile("user-1", profile.Attributes{
		OrganizationName:      "Hope Foundation",
		CountryOfRegistration: "Kenya",
		MissionStatement:      "Improve rural education",
		FocusSectors:          []string{"Education", "Health"},
		GeographicAreasOfWork: []string{"East Africa"},
		TargetGroups:          []string{"Children"},
		PastProjects:          []profile.PastProject{{Title: "School rebuild", Year: 2022}},
		AnnualBudgetAmount:    &budget,
		AnnualBudgetCurrency:  "USD",
	})
	require.NoError(t, err)
	return p
}

func testOpportunity(t *testing.T, mutate func(*opportunity.Attributes)) *opportunity.FundingOpportunity {
	t.Helper()
	deadline := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	minAmount, maxAmount := 10000.0, 50000.0
	attrs := opportunity.Attributes{
		Title:               "Community Education Fund",
		DonorOrganization:   "Bright Trust",
		FundingType:         "Grant",
		ApplicantType:       opportunity.ApplicantTypeNGO,
		FocusAreas:          "Education, Literacy",
		DeadlineType:        opportunity.DeadlineTypeFixed,
		ApplicationDeadline: &deadline,
		Currency:            "USD",
		AmountMin:           &minAmount,
		AmountMax:           &maxAmount,
		ShortSummary:        "Grants for community education projects.",
		Requirements: &opportunity.Requirements{
			Variants: []opportunity.Variant{
				{
					VariantID: "v-individual",
					EligibilityRules: opportunity.EligibilityRules{
						ApplicantType: "INDIVIDUAL",
						Geographies:   []string{"Kenya"},
					},
				},
				{
					VariantID: "v-ngo-tz",
					EligibilityRules: opportunity.EligibilityRules{
						ApplicantType:  "NGO",
						Geographies:    []string{"Tanzania"},
						ThemesRequired: []string{"Education"},
					},
				},
				{
					VariantID: "v-ngo-ke",
					EligibilityRules: opportunity.EligibilityRules{
						ApplicantType:  "MIXED",
						Geographies:    []string{"Kenya", "Uganda"},
						ThemesRequired: []string{"Literacy"},
					},
				},
			},
			GlobalNotes: &opportunity.GlobalNotes{
				ReviewCriteria: []string{"Impact evidence", "Education"},
			},
		},
	}
	if mutate != nil {
		mutate(&attrs)
	}
	o, err := opportunity.NewFundingOpportunity(attrs)
	require.NoError(t, err)
	return o
}

func promptInputsOf(t *testing.T, doc map[string]any) map[string]any {
	t.Helper()
	inner, ok := doc["prompt_inputs"].(map[string]any)
	require.True(t, ok)
	return inner
}

func derivedOf(t *testing.T, doc map[string]any) map[string]any {
	t.Helper()
	derived, ok := promptInputsOf(t, doc)["derived"].(map[string]any)
	require.True(t, ok)
	return derived
}

func TestBuild_Namespaces(t *testing.T) {
	assembler := NewAssembler()
	doc := assembler.Build(testProfile(t), testOpportunity(t, nil), nil)

	inner := promptInputsOf(t, doc)
	for _, key := range []string{"ngo", "opportunity", "requirements", "user", "derived"} {
		assert.Contains(t, inner, key)
	}
}

func TestBuild_NGOLegacyAliases(t *testing.T) {
	assembler := NewAssembler()
	doc := assembler.Build(testProfile(t), testOpportunity(t, nil), nil)

	ngo := promptInputsOf(t, doc)["ngo"].(map[string]any)
	assert.Equal(t, "Kenya", ngo["country"])
	assert.Equal(t, ngo["focus_sectors"], ngo["focus_areas"])
	assert.Equal(t, ngo["focus_sectors"], ngo["sectors"])
	assert.Equal(t, ngo["geographic_areas_of_work"], ngo["geographic_areas"])
	assert.Equal(t, ngo["target_groups"], ngo["beneficiaries"])
	assert.Equal(t, "NGO", ngo["organization_type"])
	assert.Equal(t, ngo["annual_budget_amount"], ngo["annual_budget_range"])
}

func TestBuild_VariantSelection_UserChoiceWins(t *testing.T) {
	assembler := NewAssembler()
	doc := assembler.Build(testProfile(t), testOpportunity(t, nil), &UserInputs{
		SelectedVariantID: "v-ngo-tz",
	})

	assert.Equal(t, "v-ngo-tz", derivedOf(t, doc)["selected_variant_id"])
}

func TestBuild_VariantSelection_UnknownUserChoiceIgnored(t *testing.T) {
	assembler := NewAssembler()
	doc := assembler.Build(testProfile(t), testOpportunity(t, nil), &UserInputs{
		SelectedVariantID: "v-missing",
	})

	// Falls through to the geography match among NGO/MIXED variants.
	assert.Equal(t, "v-ngo-ke", derivedOf(t, doc)["selected_variant_id"])
}

func TestBuild_VariantSelection_GeographyMatch(t *testing.T) {
	assembler := NewAssembler()
	doc := assembler.Build(testProfile(t), testOpportunity(t, nil), nil)

	derived := derivedOf(t, doc)
	assert.Equal(t, "v-ngo-ke", derived["selected_variant_id"])

	selected := derived["selected_variant"].(map[string]any)
	assert.Equal(t, "v-ngo-ke", selected["variant_id"])
}

func TestBuild_VariantSelection_FirstCandidateFallback(t *testing.T) {
	assembler := NewAssembler()
	opp := testOpportunity(t, func(attrs *opportunity.Attributes) {
		attrs.Requirements = &opportunity.Requirements{
			Variants: []opportunity.Variant{
				{VariantID: "v-a", EligibilityRules: opportunity.EligibilityRules{
					ApplicantType: "NGO", Geographies: []string{"Brazil"},
				}},
				{VariantID: "v-b", EligibilityRules: opportunity.EligibilityRules{
					ApplicantType: "NGO", Geographies: []string{"India"},
				}},
			},
		}
	})
	doc := assembler.Build(testProfile(t), opp, nil)

	assert.Equal(t, "v-a", derivedOf(t, doc)["selected_variant_id"])
}

func TestBuild_VariantSelection_AllNonNGOFallsBackToAll(t *testing.T) {
	assembler := NewAssembler()
	opp := testOpportunity(t, func(attrs *opportunity.Attributes) {
		attrs.Requirements = &opportunity.Requirements{
			Variants: []opportunity.Variant{
				{VariantID: "v-academic", EligibilityRules: opportunity.EligibilityRules{
					ApplicantType: "ACADEMIC_INSTITUTION",
				}},
			},
		}
	})
	doc := assembler.Build(testProfile(t), opp, nil)

	assert.Equal(t, "v-academic", derivedOf(t, doc)["selected_variant_id"])
}

func TestBuild_NoRequirements(t *testing.T) {
	assembler := NewAssembler()
	opp := testOpportunity(t, func(attrs *opportunity.Attributes) {
		attrs.Requirements = nil
	})
	doc := assembler.Build(testProfile(t), opp, nil)

	inner := promptInputsOf(t, doc)
	assert.Nil(t, inner["requirements"])

	derived := derivedOf(t, doc)
	assert.Nil(t, derived["selected_variant_id"])
	assert.Equal(t, map[string]any{}, derived["selected_variant"])
}

func TestBuild_DeadlineDaysRemaining(t *testing.T) {
	today := time.Date(2026, 9, 1, 23, 59, 0, 0, time.UTC)
	assembler := NewAssemblerWithClock(fixedClock(today))
	doc := assembler.Build(testProfile(t), testOpportunity(t, nil), nil)

	// Sep 15 minus Sep 1 is 14 calendar days regardless of time of day.
	assert.Equal(t, 14, derivedOf(t, doc)["deadline_days_remaining"])
}

func TestBuild_DeadlineDaysRemaining_Negative(t *testing.T) {
	today := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	assembler := NewAssemblerWithClock(fixedClock(today))
	doc := assembler.Build(testProfile(t), testOpportunity(t, nil), nil)

	assert.Equal(t, -5, derivedOf(t, doc)["deadline_days_remaining"])
}

func TestBuild_DeadlineDaysRemaining_NonFixed(t *testing.T) {
	assembler := NewAssembler()
	opp := testOpportunity(t, func(attrs *opportunity.Attributes) {
		attrs.DeadlineType = opportunity.DeadlineTypeRolling
		attrs.ApplicationDeadline = nil
	})
	doc := assembler.Build(testProfile(t), opp, nil)

	assert.Nil(t, derivedOf(t, doc)["deadline_days_remaining"])
}

func TestBuild_GrantAmountDisplay(t *testing.T) {
	minAmount, maxAmount, total := 10000.0, 50000.0, 200000.0

	tests := []struct {
		name     string
		mutate   func(*opportunity.Attributes)
		expected string
	}{
		{
			name:     "range",
			mutate:   nil,
			expected: "USD 10,000–50,000",
		},
		{
			name: "max only",
			mutate: func(attrs *opportunity.Attributes) {
				attrs.AmountMin = nil
				attrs.AmountMax = &maxAmount
			},
			expected: "Up to USD 50,000",
		},
		{
			name: "min only",
			mutate: func(attrs *opportunity.Attributes) {
				attrs.AmountMin = &minAmount
				attrs.AmountMax = nil
			},
			expected: "From USD 10,000",
		},
		{
			name: "total pool",
			mutate: func(attrs *opportunity.Attributes) {
				attrs.AmountMin = nil
				attrs.AmountMax = nil
				attrs.TotalFundingAvailable = &total
			},
			expected: "USD 200,000 total",
		},
		{
			name: "no currency",
			mutate: func(attrs *opportunity.Attributes) {
				attrs.Currency = ""
			},
			expected: "Amount not specified",
		},
		{
			name: "currency without amounts",
			mutate: func(attrs *opportunity.Attributes) {
				attrs.AmountMin = nil
				attrs.AmountMax = nil
				attrs.TotalFundingAvailable = nil
			},
			expected: "Amount not specified",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assembler := NewAssembler()
			doc := assembler.Build(testProfile(t), testOpportunity(t, tt.mutate), nil)
			assert.Equal(t, tt.expected, derivedOf(t, doc)["grant_amount_display"])
		})
	}
}

func TestBuild_AnnualBudgetDisplay(t *testing.T) {
	assembler := NewAssembler()
	doc := assembler.Build(testProfile(t), testOpportunity(t, nil), nil)
	assert.Equal(t, "USD 80,000", derivedOf(t, doc)["annual_budget_display"])
}

func TestBuild_PrioritiesPhrases(t *testing.T) {
	assembler := NewAssembler()
	doc := assembler.Build(testProfile(t), testOpportunity(t, nil), nil)

	// Variant themes in variant order, then review criteria, then
	// comma-split focus areas, deduplicated preserving first occurrence.
	assert.Equal(t,
		[]string{"Education", "Literacy", "Impact evidence"},
		derivedOf(t, doc)["opportunity_priorities_phrases"],
	)
}

func TestBuild_UserDefaults(t *testing.T) {
	assembler := NewAssembler()
	doc := assembler.Build(testProfile(t), testOpportunity(t, nil), nil)

	user := promptInputsOf(t, doc)["user"].(map[string]any)
	assert.Nil(t, user["selected_variant_id"])
	assert.Nil(t, user["user_goal"])
	assert.Equal(t, []map[string]any{}, user["uploaded_documents_index"])

	overrides := user["user_overrides"].(*UserOverrides)
	assert.Equal(t, "STANDARD", overrides.TonePreference)
	assert.Empty(t, overrides.PreferredFocus)
}

func TestBuild_DerivedConstants(t *testing.T) {
	today := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	assembler := NewAssemblerWithClock(fixedClock(today))
	doc := assembler.Build(testProfile(t), testOpportunity(t, nil), nil)

	derived := derivedOf(t, doc)
	assert.Equal(t, "2026-08-29", derived["today_utc_date"])
	assert.Equal(t, false, derived["uploads_supported"])
	assert.Equal(t, "NGO", derived["applicant_type"])
}

func TestBuild_Determinism(t *testing.T) {
	today := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	assembler := NewAssemblerWithClock(fixedClock(today))
	p := testProfile(t)
	o := testOpportunity(t, nil)

	first := assembler.Build(p, o, nil)
	second := assembler.Build(p, o, nil)
	assert.Equal(t, first, second)
}
