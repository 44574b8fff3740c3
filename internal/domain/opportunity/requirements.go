package opportunity

import "fmt"

// Requirements is the structured requirements document attached to an
// opportunity. Funders often run several tracks of the same call, so
// the document carries one or more variants, each with its own
// eligibility rules and submission checklist.
type Requirements struct {
	Variants    []Variant    `json:"variants"`
	GlobalNotes *GlobalNotes `json:"global_notes,omitempty"`
}

// Variant is one track of a call.
type Variant struct {
	VariantID        string           `json:"variant_id"`
	VariantLabel     string           `json:"variant_label,omitempty"`
	EligibilityRules EligibilityRules `json:"eligibility_rules"`
	SubmissionItems  []SubmissionItem `json:"submission_items,omitempty"`
}

// EligibilityRules gate who can apply to a variant.
type EligibilityRules struct {
	ApplicantType  string   `json:"applicant_type,omitempty"`
	Geographies    []string `json:"geographies,omitempty"`
	ThemesRequired []string `json:"themes_required,omitempty"`
	ThemesExcluded []string `json:"themes_excluded,omitempty"`
}

// SubmissionItem is one required document or answer in the checklist.
type SubmissionItem struct {
	ItemID         string   `json:"item_id,omitempty"`
	Label          string   `json:"label,omitempty"`
	Mandatory      bool     `json:"mandatory,omitempty"`
	InputsRequired []string `json:"inputs_required,omitempty"`
}

// GlobalNotes apply to all variants of a call.
type GlobalNotes struct {
	ReviewCriteria []string `json:"review_criteria,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

// Validate rejects documents that would make variant selection
// ambiguous: every variant needs a non-empty, unique id.
func (r *Requirements) Validate() error {
	seen := make(map[string]struct{}, len(r.Variants))
	for i, variant := range r.Variants {
		if variant.VariantID == "" {
			return fmt.Errorf("requirements variant %d has no variant_id", i)
		}
		if _, dup := seen[variant.VariantID]; dup {
			return fmt.Errorf("requirements variant_id %q is duplicated", variant.VariantID)
		}
		seen[variant.VariantID] = struct{}{}
	}
	return nil
}

// FindVariant returns the variant with the given id, or nil.
func (r *Requirements) FindVariant(variantID string) *Variant {
	if r == nil || variantID == "" {
		return nil
	}
	for i := range r.Variants {
		if r.Variants[i].VariantID == variantID {
			return &r.Variants[i]
		}
	}
	return nil
}
