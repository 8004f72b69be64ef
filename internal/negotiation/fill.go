package negotiation

import (
	"fmt"
	"strings"

	"neogiator/internal/errors"
	"neogiator/internal/types"
)

// FillTemplate substitutes a template's named placeholders with values from
// the context. Every known placeholder has a fixed default, so a sparse
// profile never fails a turn; only a placeholder missing from the default
// table is an error, since that means the catalog references a variable the
// engine does not know how to fill. On error no partially filled text is
// returned.
func FillTemplate(template types.ResponseTemplate, ctx *types.NegotiationContext) (string, error) {
	values := make(map[string]string, len(template.Variables))
	for _, name := range template.Variables {
		value, err := resolveVariable(name, ctx)
		if err != nil {
			return "", err
		}
		values[name] = value
	}

	text := template.TemplateText
	for name, value := range values {
		text = strings.ReplaceAll(text, "{"+name+"}", value)
	}
	return text, nil
}

// resolveVariable maps a placeholder name to its value, falling back to the
// per-placeholder default when the profile field is empty.
func resolveVariable(name string, ctx *types.NegotiationContext) (string, error) {
	profile := ctx.UserProfile

	switch name {
	case "experience_years":
		if profile.YearsExperience > 0 {
			return fmt.Sprintf("%d", profile.YearsExperience), nil
		}
		return "5+", nil
	case "industry":
		return orDefault(profile.Industry, "technology"), nil
	case "achievement":
		return orDefault(profile.KeyAchievement, "delivering exceptional results"), nil
	case "benefit_type":
		return "health insurance", nil
	case "skill_area":
		return orDefault(profile.PrimarySkill, "software development"), nil
	case "specific_achievement":
		return orDefault(profile.KeyAchievement, "increasing team productivity by 40%"), nil
	case "company_name":
		return ctx.CompanyName, nil
	default:
		return "", errors.NewNegotiationError(errors.ErrCodeTemplateVariable,
			fmt.Sprintf("template references unknown placeholder %q", name), nil).
			WithContext("placeholder", name)
	}
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
