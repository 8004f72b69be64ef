package resume

import (
	"fmt"
	"strings"

	"neogiator/internal/types"
)

const maxAwards = 3

// BuildUserProfile maps an extracted resume into the profile shape the
// negotiation core consumes. Missing pieces are inferred from work history
// where possible.
func BuildUserProfile(parsed types.ExtractedProfile) types.UserProfile {
	return types.UserProfile{
		YearsExperience:      parsed.YearsExperience,
		EducationLevel:       parsed.EducationLevel,
		Industry:             parsed.Industry,
		KeyAchievement:       keyAchievement(parsed),
		PrimarySkill:         primarySkill(parsed),
		Skills:               parsed.Skills,
		Certifications:       parsed.Certifications,
		LeadershipExperience: hasLeadershipTitle(parsed.WorkExperience),
		IndustryAwards:       topAwards(parsed.Achievements),
		ContactInfo: types.ContactInfo{
			Name:  parsed.Name,
			Email: parsed.Email,
			Phone: parsed.Phone,
		},
	}
}

func keyAchievement(parsed types.ExtractedProfile) string {
	if len(parsed.Achievements) > 0 {
		return parsed.Achievements[0]
	}
	for _, exp := range parsed.WorkExperience {
		desc := strings.ToLower(exp.Description)
		if strings.Contains(desc, "increased") || strings.Contains(desc, "improved") || strings.Contains(desc, "led") {
			if len(exp.Description) > 100 {
				return exp.Description[:100] + "..."
			}
			return exp.Description
		}
	}
	return fmt.Sprintf("Experienced %s professional", parsed.Industry)
}

func primarySkill(parsed types.ExtractedProfile) string {
	if len(parsed.Skills) > 0 {
		return parsed.Skills[0]
	}
	for _, exp := range parsed.WorkExperience {
		title := strings.ToLower(exp.Title)
		switch {
		case strings.Contains(title, "manager"):
			return "Management"
		case strings.Contains(title, "developer"), strings.Contains(title, "engineer"):
			return "Software Development"
		case strings.Contains(title, "analyst"):
			return "Data Analysis"
		case strings.Contains(title, "designer"):
			return "Design"
		}
	}
	return "Professional"
}

func hasLeadershipTitle(experience []types.WorkExperience) bool {
	for _, exp := range experience {
		title := strings.ToLower(exp.Title)
		if strings.Contains(title, "manager") || strings.Contains(title, "lead") {
			return true
		}
	}
	return false
}

func topAwards(achievements []string) []string {
	if len(achievements) == 0 {
		return nil
	}
	if len(achievements) > maxAwards {
		achievements = achievements[:maxAwards]
	}
	return append([]string(nil), achievements...)
}
