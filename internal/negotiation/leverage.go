package negotiation

import (
	"neogiator/internal/types"
)

// Leverage point tags derived from a candidate profile.
const (
	LeverageSeniorExperience  = "senior_experience"
	LeverageAdvancedEducation = "advanced_education"
	LeverageCertifications    = "specialized_certifications"
	LeverageLeadership        = "leadership_skills"
	LeverageIndustryAwards    = "industry_recognition"
	LeverageCompetingOffer    = "competing_offer"
)

// IdentifyLeveragePoints derives leverage tags from a candidate profile. It is
// deterministic and side-effect free: each rule is evaluated independently and
// contributes at most one tag, in a fixed order. Missing fields simply
// contribute nothing. Tags are not deduplicated here; a later manual add may
// legitimately repeat one.
func IdentifyLeveragePoints(profile types.UserProfile) []string {
	points := []string{}

	if profile.YearsExperience > 5 {
		points = append(points, LeverageSeniorExperience)
	}
	if profile.EducationLevel == "Masters" || profile.EducationLevel == "PhD" {
		points = append(points, LeverageAdvancedEducation)
	}
	if len(profile.Certifications) > 0 {
		points = append(points, LeverageCertifications)
	}
	if profile.LeadershipExperience {
		points = append(points, LeverageLeadership)
	}
	if len(profile.IndustryAwards) > 0 {
		points = append(points, LeverageIndustryAwards)
	}
	if profile.HasCompetingOffer {
		points = append(points, LeverageCompetingOffer)
	}

	return points
}
