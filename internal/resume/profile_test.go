package resume

import (
	"strings"
	"testing"

	"neogiator/internal/types"
)

func TestBuildUserProfile(t *testing.T) {
	t.Run("direct fields map through", func(t *testing.T) {
		parsed := types.ExtractedProfile{
			Name:            "Jane Doe",
			Email:           "jane@example.com",
			Phone:           "555-1234",
			YearsExperience: 8,
			EducationLevel:  "Masters",
			Industry:        "finance",
			Skills:          []string{"Python", "SQL"},
			Certifications:  []string{"CFA"},
			Achievements:    []string{"Cut costs 30%", "Won deal of the year", "Built team", "Fourth one"},
		}

		profile := BuildUserProfile(parsed)

		if profile.YearsExperience != 8 || profile.EducationLevel != "Masters" || profile.Industry != "finance" {
			t.Errorf("core fields not mapped: %+v", profile)
		}
		if profile.KeyAchievement != "Cut costs 30%" {
			t.Errorf("KeyAchievement = %q, want first achievement", profile.KeyAchievement)
		}
		if profile.PrimarySkill != "Python" {
			t.Errorf("PrimarySkill = %q, want first skill", profile.PrimarySkill)
		}
		if len(profile.IndustryAwards) != 3 {
			t.Errorf("IndustryAwards = %v, want top 3", profile.IndustryAwards)
		}
		if profile.ContactInfo.Name != "Jane Doe" || profile.ContactInfo.Email != "jane@example.com" {
			t.Errorf("ContactInfo = %+v", profile.ContactInfo)
		}
		if profile.HasCompetingOffer {
			t.Error("HasCompetingOffer should never come from a resume")
		}
	})

	t.Run("achievement inferred from work history", func(t *testing.T) {
		parsed := types.ExtractedProfile{
			Industry: "technology",
			WorkExperience: []types.WorkExperience{
				{Title: "Engineer", Description: "Maintained legacy systems"},
				{Title: "Engineer", Description: "Improved deploy times by 60%"},
			},
		}

		profile := BuildUserProfile(parsed)
		if profile.KeyAchievement != "Improved deploy times by 60%" {
			t.Errorf("KeyAchievement = %q", profile.KeyAchievement)
		}
	})

	t.Run("long inferred achievement truncated", func(t *testing.T) {
		long := "Led " + strings.Repeat("a very large migration ", 10)
		parsed := types.ExtractedProfile{
			WorkExperience: []types.WorkExperience{{Title: "Lead", Description: long}},
		}

		profile := BuildUserProfile(parsed)
		if len(profile.KeyAchievement) != 103 || !strings.HasSuffix(profile.KeyAchievement, "...") {
			t.Errorf("KeyAchievement len = %d, want 100 chars plus ellipsis", len(profile.KeyAchievement))
		}
	})

	t.Run("defaults when nothing inferable", func(t *testing.T) {
		profile := BuildUserProfile(types.ExtractedProfile{Industry: "technology"})

		if profile.KeyAchievement != "Experienced technology professional" {
			t.Errorf("KeyAchievement = %q", profile.KeyAchievement)
		}
		if profile.PrimarySkill != "Professional" {
			t.Errorf("PrimarySkill = %q", profile.PrimarySkill)
		}
		if profile.IndustryAwards != nil {
			t.Errorf("IndustryAwards = %v, want nil", profile.IndustryAwards)
		}
	})

	t.Run("skill inferred from job title", func(t *testing.T) {
		tests := []struct {
			title string
			want  string
		}{
			{"Engineering Manager", "Management"},
			{"Backend Developer", "Software Development"},
			{"Business Analyst", "Data Analysis"},
			{"UX Designer", "Design"},
		}
		for _, tt := range tests {
			parsed := types.ExtractedProfile{
				WorkExperience: []types.WorkExperience{{Title: tt.title}},
			}
			if got := BuildUserProfile(parsed).PrimarySkill; got != tt.want {
				t.Errorf("title %q: PrimarySkill = %q, want %q", tt.title, got, tt.want)
			}
		}
	})

	t.Run("leadership from titles", func(t *testing.T) {
		parsed := types.ExtractedProfile{
			WorkExperience: []types.WorkExperience{
				{Title: "Software Engineer"},
				{Title: "Tech Lead"},
			},
		}
		if !BuildUserProfile(parsed).LeadershipExperience {
			t.Error("expected leadership from Tech Lead title")
		}

		parsed.WorkExperience = parsed.WorkExperience[:1]
		if BuildUserProfile(parsed).LeadershipExperience {
			t.Error("unexpected leadership from plain engineer title")
		}
	})
}
