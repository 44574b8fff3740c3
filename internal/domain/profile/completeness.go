package profile

import "strings"

// MissingProfileFields is the canonical field list reported when no
// profile exists at all. The per-profile missing list is always a
// subset of this, in this order.
var MissingProfileFields = []string{
	"organization_name",
	"country_of_registration",
	"mission_statement",
	"focus_sectors",
	"geographic_areas_of_work",
	"target_groups",
	"past_projects",
}

// CompletenessResult is the outcome of scoring a profile.
type CompletenessResult struct {
	Score         int
	MissingFields []string
	Status        Status
}

// ComputeCompleteness scores a profile from 0 to 100 and lists the
// fields still missing. The weights are fixed: name and country
// together are worth 20, mission, sectors, geographies and target
// groups 15 each, and any past project with a non-blank title 20. The
// profile is COMPLETE only when nothing is missing.
func ComputeCompleteness(
	organizationName string,
	countryOfRegistration string,
	missionStatement string,
	focusSectors []string,
	geographicAreasOfWork []string,
	targetGroups []string,
	pastProjects []PastProject,
) CompletenessResult {
	var missing []string

	if organizationName == "" {
		missing = append(missing, "organization_name")
	}
	if countryOfRegistration == "" {
		missing = append(missing, "country_of_registration")
	}
	if missionStatement == "" {
		missing = append(missing, "mission_statement")
	}
	if len(focusSectors) == 0 {
		missing = append(missing, "focus_sectors")
	}
	if len(geographicAreasOfWork) == 0 {
		missing = append(missing, "geographic_areas_of_work")
	}
	if len(targetGroups) == 0 {
		missing = append(missing, "target_groups")
	}

	validProject := false
	for _, project := range pastProjects {
		if strings.TrimSpace(project.Title) != "" {
			validProject = true
			break
		}
	}
	if !validProject {
		missing = append(missing, "past_projects")
	}

	score := 0
	if organizationName != "" && countryOfRegistration != "" {
		score += 20
	}
	if missionStatement != "" {
		score += 15
	}
	if len(focusSectors) > 0 {
		score += 15
	}
	if len(geographicAreasOfWork) > 0 {
		score += 15
	}
	if len(targetGroups) > 0 {
		score += 15
	}
	if validProject {
		score += 20
	}
	if score > 100 {
		score = 100
	}

	status := StatusDraft
	if len(missing) == 0 {
		status = StatusComplete
	}

	if missing == nil {
		missing = []string{}
	}
	return CompletenessResult{Score: score, MissingFields: missing, Status: status}
}
