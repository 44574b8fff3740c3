// Package promptinputs assembles the fact payload handed to the fit
// assessment model. Everything the model may rely on is collected into
// a single document with four namespaces (ngo, opportunity,
// requirements, user) plus derived values computed server-side so the
// model never has to do arithmetic.
package promptinputs

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/ngoinfo/grantpilot/internal/domain/opportunity"
	"github.com/ngoinfo/grantpilot/internal/domain/profile"
	"github.com/ngoinfo/grantpilot/internal/shared/biztime"
	"github.com/ngoinfo/grantpilot/internal/shared/utils"
)

// UserOverrides are optional steering knobs the caller may set.
type UserOverrides struct {
	PreferredFocus    []string `json:"preferred_focus"`
	DeprioritiseFocus []string `json:"deprioritise_focus"`
	TonePreference    string   `json:"tone_preference"`
	MustIncludePoints []string `json:"must_include_points"`
	MustAvoidPoints   []string `json:"must_avoid_points"`
}

func defaultOverrides() UserOverrides {
	return UserOverrides{
		PreferredFocus:    []string{},
		DeprioritiseFocus: []string{},
		TonePreference:    "STANDARD",
		MustIncludePoints: []string{},
		MustAvoidPoints:   []string{},
	}
}

// UserInputs carries the optional per-request inputs.
type UserInputs struct {
	SelectedVariantID      string
	UserGoal               string
	UserOverrides          *UserOverrides
	UploadedDocumentsIndex []map[string]any
}

// Assembler builds prompt input documents. The clock is injectable so
// deadline arithmetic is testable.
type Assembler struct {
	now func() time.Time
}

func NewAssembler() *Assembler {
	return &Assembler{now: time.Now}
}

// NewAssemblerWithClock builds an assembler with a fixed clock.
func NewAssemblerWithClock(now func() time.Time) *Assembler {
	return &Assembler{now: now}
}

// Build assembles the full document. It never fails: missing or
// malformed data degrades to nulls and empty collections, and the
// model is instructed to surface gaps rather than invent facts.
func (a *Assembler) Build(
	ngoProfile *profile.NGOProfile,
	opp *opportunity.FundingOpportunity,
	userInputs *UserInputs,
) map[string]any {
	ngo := buildNGOPayload(ngoProfile)
	opportunityPayload := buildOpportunityPayload(opp)
	requirements := normalizeRequirements(opp.Requirements())
	user := buildUserPayload(userInputs)
	derived := a.buildDerivedPayload(ngo, opportunityPayload, opp.Requirements(), userInputs)

	return map[string]any{
		"prompt_inputs": map[string]any{
			"ngo":          ngo,
			"opportunity":  opportunityPayload,
			"requirements": requirements,
			"user":         user,
			"derived":      derived,
		},
	}
}

func buildNGOPayload(p *profile.NGOProfile) map[string]any {
	ngo := map[string]any{
		"organization_name":                   p.OrganizationName(),
		"country_of_registration":             p.CountryOfRegistration(),
		"website":                             nullableString(p.Website()),
		"mission_statement":                   p.MissionStatement(),
		"focus_sectors":                       orEmpty(p.FocusSectors()),
		"geographic_areas_of_work":            orEmpty(p.GeographicAreasOfWork()),
		"target_groups":                       orEmpty(p.TargetGroups()),
		"past_projects":                       projectsPayload(p.PastProjects()),
		"annual_budget_amount":                nullableFloat(p.AnnualBudgetAmount()),
		"annual_budget_currency":              nullableString(p.AnnualBudgetCurrency()),
		"full_time_staff":                     nullableInt(p.FullTimeStaff()),
		"year_of_establishment":               nullableInt(p.YearOfEstablishment()),
		"contact_person_name":                 nullableString(p.ContactPersonName()),
		"contact_email":                       nullableString(p.ContactEmail()),
		"monitoring_and_evaluation_practices": nullableString(p.MonitoringAndEvaluation()),
		"funders_worked_with_before":          orEmpty(p.FundersWorkedWithBefore()),
	}

	// Legacy alias support for prompt compatibility.
	ngo["country"] = ngo["country_of_registration"]
	ngo["focus_areas"] = ngo["focus_sectors"]
	ngo["sectors"] = ngo["focus_sectors"]
	ngo["geographic_areas"] = ngo["geographic_areas_of_work"]
	ngo["beneficiaries"] = ngo["target_groups"]
	ngo["organization_type"] = "NGO"
	ngo["annual_budget_range"] = ngo["annual_budget_amount"]
	return ngo
}

func buildOpportunityPayload(o *opportunity.FundingOpportunity) map[string]any {
	return map[string]any{
		"id":                      o.ID(),
		"source_url":              o.SourceURL(),
		"application_url":         o.ApplicationURL(),
		"title":                   o.Title(),
		"donor_organization":      o.DonorOrganization(),
		"funding_type":            o.FundingType(),
		"applicant_type":          string(o.ApplicantType()),
		"location_text":           o.LocationText(),
		"focus_areas":             o.FocusAreas(),
		"deadline_type":           string(o.DeadlineType()),
		"application_deadline":    nullableDate(o.ApplicationDeadline()),
		"currency":                nullableString(o.Currency()),
		"amount_min":              nullableFloat(o.AmountMin()),
		"amount_max":              nullableFloat(o.AmountMax()),
		"total_funding_available": nullableFloat(o.TotalFundingAvailable()),
		"short_summary":           o.ShortSummary(),
		"overview_text":           nullableString(o.OverviewText()),
		"eligibility_criteria":    nullableString(o.EligibilityCriteria()),
		"application_process":     nullableString(o.ApplicationProcess()),
		"contact_information":     nullableString(o.ContactInformation()),
		"status":                  string(o.Status()),
		"is_active":               o.IsActive(),
		"is_archived":             o.IsArchived(),
		"last_verified":           nullableDate(o.LastVerified()),
		"organization_types":      nullableString(o.OrganizationTypes()),
		"geographic_focus":        nullableString(o.GeographicFocus()),
		"processing_status":       nullableString(o.ProcessingStatus()),
		"parsing_confidence":      nullableFloat(o.ParsingConfidence()),
		"internal_notes":          nullableString(o.InternalNotes()),
		"created_at":              biztime.FormatRFC3339(o.CreatedAt()),
		"updated_at":              biztime.FormatRFC3339(o.UpdatedAt()),
		"requirements_json":       requirementsMap(o.Requirements()),
	}
}

func normalizeRequirements(reqs *opportunity.Requirements) any {
	if reqs == nil {
		return nil
	}
	return requirementsMap(reqs)
}

// requirementsMap round-trips the typed document through JSON so the
// payload carries plain maps matching the stored column.
func requirementsMap(reqs *opportunity.Requirements) map[string]any {
	if reqs == nil {
		return map[string]any{}
	}
	raw, err := json.Marshal(reqs)
	if err != nil {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]any{}
	}
	return out
}

func buildUserPayload(inputs *UserInputs) map[string]any {
	if inputs == nil {
		inputs = &UserInputs{}
	}
	overrides := inputs.UserOverrides
	if overrides == nil {
		defaults := defaultOverrides()
		overrides = &defaults
	}
	uploaded := inputs.UploadedDocumentsIndex
	if uploaded == nil {
		uploaded = []map[string]any{}
	}
	return map[string]any{
		"selected_variant_id":      nullableString(inputs.SelectedVariantID),
		"user_goal":                nullableString(inputs.UserGoal),
		"user_overrides":           overrides,
		"uploaded_documents_index": uploaded,
	}
}

func (a *Assembler) buildDerivedPayload(
	ngo map[string]any,
	opportunityPayload map[string]any,
	reqs *opportunity.Requirements,
	userInputs *UserInputs,
) map[string]any {
	today := biztime.DateOf(a.now().UTC())
	selectedVariantID := selectVariantID(reqs, ngo, userInputs)
	selectedVariant := extractVariant(reqs, selectedVariantID)

	return map[string]any{
		"today_utc_date":                 biztime.FormatDate(today),
		"uploads_supported":              false,
		"grant_amount_display":           grantAmountDisplay(opportunityPayload),
		"annual_budget_display":          annualBudgetDisplay(ngo),
		"opportunity_priorities_phrases": prioritiesPhrases(reqs, opportunityPayload),
		"selected_variant_id":            nullableString(selectedVariantID),
		"selected_variant":               selectedVariant,
		"deadline_days_remaining":        deadlineDaysRemaining(opportunityPayload, today),
		"applicant_type":                 "NGO",
	}
}

// selectVariantID picks the variant to assess. Precedence: an existing
// user-selected variant, then NGO/MIXED applicant matches (falling
// back to all variants when none match), then a geography match on the
// NGO's registration country, then the first candidate.
func selectVariantID(reqs *opportunity.Requirements, ngo map[string]any, userInputs *UserInputs) string {
	if reqs == nil || len(reqs.Variants) == 0 {
		return ""
	}

	if userInputs != nil && userInputs.SelectedVariantID != "" {
		if reqs.FindVariant(userInputs.SelectedVariantID) != nil {
			return userInputs.SelectedVariantID
		}
	}

	var applicantMatches []opportunity.Variant
	for _, variant := range reqs.Variants {
		applicantType := variant.EligibilityRules.ApplicantType
		if applicantType == "NGO" || applicantType == "MIXED" {
			applicantMatches = append(applicantMatches, variant)
		}
	}
	candidates := applicantMatches
	if len(candidates) == 0 {
		candidates = reqs.Variants
	}

	ngoCountry, _ := ngo["country_of_registration"].(string)
	if ngoCountry != "" {
		for _, variant := range candidates {
			for _, geography := range variant.EligibilityRules.Geographies {
				if geography == ngoCountry {
					return variant.VariantID
				}
			}
		}
	}

	return candidates[0].VariantID
}

func extractVariant(reqs *opportunity.Requirements, variantID string) map[string]any {
	variant := reqs.FindVariant(variantID)
	if variant == nil {
		return map[string]any{}
	}
	raw, err := json.Marshal(variant)
	if err != nil {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]any{}
	}
	return out
}

// deadlineDaysRemaining is a calendar-day difference, not an
// elapsed-time rounding: a deadline tomorrow is 1 regardless of the
// time of day.
func deadlineDaysRemaining(opportunityPayload map[string]any, today time.Time) any {
	if opportunityPayload["deadline_type"] != string(opportunity.DeadlineTypeFixed) {
		return nil
	}
	deadlineStr, _ := opportunityPayload["application_deadline"].(string)
	if deadlineStr == "" {
		return nil
	}
	deadline, err := biztime.ParseDateUTC(deadlineStr)
	if err != nil {
		return nil
	}
	return biztime.DaysBetween(today, deadline)
}

// prioritiesPhrases merges the required themes of every variant, the
// global review criteria, and the opportunity's comma-separated focus
// areas, deduplicated preserving first occurrence.
func prioritiesPhrases(reqs *opportunity.Requirements, opportunityPayload map[string]any) []string {
	var phrases []string
	if reqs != nil {
		for _, variant := range reqs.Variants {
			phrases = append(phrases, variant.EligibilityRules.ThemesRequired...)
		}
		if reqs.GlobalNotes != nil {
			phrases = append(phrases, reqs.GlobalNotes.ReviewCriteria...)
		}
	}
	focusAreas, _ := opportunityPayload["focus_areas"].(string)
	if focusAreas != "" {
		for _, area := range strings.Split(focusAreas, ",") {
			area = strings.TrimSpace(area)
			if area != "" {
				phrases = append(phrases, area)
			}
		}
	}

	seen := make(map[string]struct{}, len(phrases))
	deduped := make([]string, 0, len(phrases))
	for _, phrase := range phrases {
		if phrase == "" {
			continue
		}
		if _, dup := seen[phrase]; dup {
			continue
		}
		seen[phrase] = struct{}{}
		deduped = append(deduped, phrase)
	}
	return deduped
}

// grantAmountDisplay renders the award size for humans and the model.
// Precedence: min and max range, then max only, then min only, then
// total pool, then a fixed fallback.
func grantAmountDisplay(opportunityPayload map[string]any) string {
	currency, _ := opportunityPayload["currency"].(string)
	amountMin, hasMin := opportunityPayload["amount_min"].(float64)
	amountMax, hasMax := opportunityPayload["amount_max"].(float64)
	total, hasTotal := opportunityPayload["total_funding_available"].(float64)

	switch {
	case currency != "" && hasMin && hasMax:
		return currency + " " + utils.FormatAmount(amountMin) + "–" + utils.FormatAmount(amountMax)
	case currency != "" && hasMax:
		return "Up to " + currency + " " + utils.FormatAmount(amountMax)
	case currency != "" && hasMin:
		return "From " + currency + " " + utils.FormatAmount(amountMin)
	case currency != "" && hasTotal:
		return currency + " " + utils.FormatAmount(total) + " total"
	default:
		return "Amount not specified"
	}
}

func annualBudgetDisplay(ngo map[string]any) string {
	amount, hasAmount := ngo["annual_budget_amount"].(float64)
	currency, _ := ngo["annual_budget_currency"].(string)
	if hasAmount && currency != "" {
		return currency + " " + utils.FormatAmount(amount)
	}
	return ""
}

func projectsPayload(projects []profile.PastProject) []map[string]any {
	out := make([]map[string]any, 0, len(projects))
	for _, project := range projects {
		entry := map[string]any{"title": project.Title}
		if project.Donor != "" {
			entry["donor"] = project.Donor
		}
		if project.Year != 0 {
			entry["year"] = project.Year
		}
		if project.Description != "" {
			entry["description"] = project.Description
		}
		out = append(out, entry)
	}
	return out
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullableInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func nullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return biztime.FormatDate(*t)
}
