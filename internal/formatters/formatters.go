package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"neogiator/internal/negotiation"
	"neogiator/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "ExtractedProfile", &ProfileTextFormatter{})
	registry.RegisterFormatter("markdown", "ExtractedProfile", &ProfileMarkdownFormatter{})
	registry.RegisterFormatter("text", "NegotiationStatus", &StatusTextFormatter{})
	registry.RegisterFormatter("markdown", "NegotiationStatus", &StatusMarkdownFormatter{})
	registry.RegisterFormatter("text", "TurnResult", &TurnTextFormatter{})
	registry.RegisterFormatter("markdown", "TurnResult", &TurnMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.ExtractedProfile:
		return "ExtractedProfile"
	case types.NegotiationStatus:
		return "NegotiationStatus"
	case negotiation.TurnResult:
		return "TurnResult"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// ProfileTextFormatter handles text formatting for extracted resume profiles
type ProfileTextFormatter struct{}

func (ptf *ProfileTextFormatter) Format(data any) (string, error) {
	profile, ok := data.(types.ExtractedProfile)
	if !ok {
		return "", fmt.Errorf("expected ExtractedProfile, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== EXTRACTED PROFILE ===\n\n")
	output.WriteString(fmt.Sprintf("Name: %s\n", profile.Name))
	if profile.Email != "" {
		output.WriteString(fmt.Sprintf("Email: %s\n", profile.Email))
	}
	if profile.Phone != "" {
		output.WriteString(fmt.Sprintf("Phone: %s\n", profile.Phone))
	}
	output.WriteString(fmt.Sprintf("Years of experience: %d\n", profile.YearsExperience))
	output.WriteString(fmt.Sprintf("Education level: %s\n", profile.EducationLevel))
	output.WriteString(fmt.Sprintf("Industry: %s\n", profile.Industry))
	output.WriteString("\n")

	if len(profile.Skills) > 0 {
		output.WriteString("Skills:\n")
		for _, skill := range profile.Skills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}

	if len(profile.Certifications) > 0 {
		output.WriteString("Certifications:\n")
		for _, cert := range profile.Certifications {
			output.WriteString(fmt.Sprintf("- %s\n", cert))
		}
		output.WriteString("\n")
	}

	if len(profile.Achievements) > 0 {
		output.WriteString("Achievements:\n")
		for _, achievement := range profile.Achievements {
			output.WriteString(fmt.Sprintf("- %s\n", achievement))
		}
		output.WriteString("\n")
	}

	if len(profile.WorkExperience) > 0 {
		output.WriteString("=== WORK EXPERIENCE ===\n\n")
		for i, exp := range profile.WorkExperience {
			output.WriteString(fmt.Sprintf("%d. %s", i+1, exp.Title))
			if exp.Company != "" {
				output.WriteString(fmt.Sprintf(" at %s", exp.Company))
			}
			if exp.Duration != "" {
				output.WriteString(fmt.Sprintf(" (%s)", exp.Duration))
			}
			output.WriteString("\n")
			if exp.Description != "" {
				output.WriteString("   ")
				output.WriteString(exp.Description)
				output.WriteString("\n")
			}
		}
		output.WriteString("\n")
	}

	if len(profile.Education) > 0 {
		output.WriteString("=== EDUCATION ===\n\n")
		for _, edu := range profile.Education {
			output.WriteString(fmt.Sprintf("- %s", edu.Degree))
			if edu.Institution != "" {
				output.WriteString(fmt.Sprintf(", %s", edu.Institution))
			}
			if edu.Year != "" {
				output.WriteString(fmt.Sprintf(" (%s)", edu.Year))
			}
			output.WriteString("\n")
		}
	}

	return output.String(), nil
}

func (ptf *ProfileTextFormatter) SupportedType() string {
	return "ExtractedProfile"
}

// ProfileMarkdownFormatter handles markdown formatting for extracted resume profiles
type ProfileMarkdownFormatter struct{}

func (pmf *ProfileMarkdownFormatter) Format(data any) (string, error) {
	profile, ok := data.(types.ExtractedProfile)
	if !ok {
		return "", fmt.Errorf("expected ExtractedProfile, got %T", data)
	}

	var output strings.Builder

	output.WriteString(fmt.Sprintf("# %s\n\n", profile.Name))
	if profile.Email != "" {
		output.WriteString(fmt.Sprintf("**Email:** %s\n\n", profile.Email))
	}
	if profile.Phone != "" {
		output.WriteString(fmt.Sprintf("**Phone:** %s\n\n", profile.Phone))
	}
	output.WriteString(fmt.Sprintf("**Years of experience:** %d\n\n", profile.YearsExperience))
	output.WriteString(fmt.Sprintf("**Education level:** %s\n\n", profile.EducationLevel))
	output.WriteString(fmt.Sprintf("**Industry:** %s\n\n", profile.Industry))

	if len(profile.Skills) > 0 {
		output.WriteString("## Skills\n\n")
		for _, skill := range profile.Skills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}

	if len(profile.Certifications) > 0 {
		output.WriteString("## Certifications\n\n")
		for _, cert := range profile.Certifications {
			output.WriteString(fmt.Sprintf("- %s\n", cert))
		}
		output.WriteString("\n")
	}

	if len(profile.Achievements) > 0 {
		output.WriteString("## Achievements\n\n")
		for _, achievement := range profile.Achievements {
			output.WriteString(fmt.Sprintf("- %s\n", achievement))
		}
		output.WriteString("\n")
	}

	if len(profile.WorkExperience) > 0 {
		output.WriteString("## Work Experience\n\n")
		for _, exp := range profile.WorkExperience {
			output.WriteString(fmt.Sprintf("### %s", exp.Title))
			if exp.Company != "" {
				output.WriteString(fmt.Sprintf(" at %s", exp.Company))
			}
			output.WriteString("\n\n")
			if exp.Duration != "" {
				output.WriteString(fmt.Sprintf("**Duration:** %s\n\n", exp.Duration))
			}
			if exp.Description != "" {
				output.WriteString(exp.Description)
				output.WriteString("\n\n")
			}
		}
	}

	if len(profile.Education) > 0 {
		output.WriteString("## Education\n\n")
		for _, edu := range profile.Education {
			output.WriteString(fmt.Sprintf("- **%s**", edu.Degree))
			if edu.Institution != "" {
				output.WriteString(fmt.Sprintf(", %s", edu.Institution))
			}
			if edu.Year != "" {
				output.WriteString(fmt.Sprintf(" (%s)", edu.Year))
			}
			output.WriteString("\n")
		}
	}

	return output.String(), nil
}

func (pmf *ProfileMarkdownFormatter) SupportedType() string {
	return "ExtractedProfile"
}

// StatusTextFormatter handles text formatting for negotiation status snapshots
type StatusTextFormatter struct{}

func (stf *StatusTextFormatter) Format(data any) (string, error) {
	status, ok := data.(types.NegotiationStatus)
	if !ok {
		return "", fmt.Errorf("expected NegotiationStatus, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== NEGOTIATION STATUS ===\n\n")
	output.WriteString(fmt.Sprintf("Context: %s\n", status.ContextID))
	output.WriteString(fmt.Sprintf("Company: %s\n", status.Company))
	output.WriteString(fmt.Sprintf("Position: %s\n", status.Position))
	output.WriteString(fmt.Sprintf("Strategy: %s\n", status.Strategy))
	if status.TargetSalary != nil {
		output.WriteString(fmt.Sprintf("Target salary: $%d\n", *status.TargetSalary))
	}
	output.WriteString("\n")

	if status.CurrentOffer != nil {
		output.WriteString("=== CURRENT OFFER ===\n")
		output.WriteString(fmt.Sprintf("Salary: $%d\n", status.CurrentOffer.Salary))
		if len(status.CurrentOffer.Benefits) > 0 {
			output.WriteString(fmt.Sprintf("Benefits: %s\n", strings.Join(status.CurrentOffer.Benefits, ", ")))
		}
		if status.CurrentOffer.StartDate != "" {
			output.WriteString(fmt.Sprintf("Start date: %s\n", status.CurrentOffer.StartDate))
		}
		output.WriteString(fmt.Sprintf("Remote: %t\n", status.CurrentOffer.Remote))
		output.WriteString("\n")
	} else {
		output.WriteString("No offer received yet.\n\n")
	}

	if len(status.LeveragePoints) > 0 {
		output.WriteString("=== LEVERAGE POINTS ===\n")
		for _, point := range status.LeveragePoints {
			output.WriteString(fmt.Sprintf("- %s\n", point))
		}
		output.WriteString("\n")
	}

	output.WriteString(fmt.Sprintf("History: %d turn(s)\n", len(status.History)))
	for i, entry := range status.History {
		output.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, entry.Kind,
			entry.Timestamp.Format("2006-01-02 15:04:05")))
	}

	return output.String(), nil
}

func (stf *StatusTextFormatter) SupportedType() string {
	return "NegotiationStatus"
}

// StatusMarkdownFormatter handles markdown formatting for negotiation status snapshots
type StatusMarkdownFormatter struct{}

func (smf *StatusMarkdownFormatter) Format(data any) (string, error) {
	status, ok := data.(types.NegotiationStatus)
	if !ok {
		return "", fmt.Errorf("expected NegotiationStatus, got %T", data)
	}

	var output strings.Builder

	output.WriteString(fmt.Sprintf("# Negotiation: %s at %s\n\n", status.Position, status.Company))
	output.WriteString(fmt.Sprintf("**Context:** `%s`\n\n", status.ContextID))
	output.WriteString(fmt.Sprintf("**Strategy:** %s\n\n", status.Strategy))
	if status.TargetSalary != nil {
		output.WriteString(fmt.Sprintf("**Target salary:** $%d\n\n", *status.TargetSalary))
	}

	output.WriteString("## Current Offer\n\n")
	if status.CurrentOffer != nil {
		output.WriteString(fmt.Sprintf("**Salary:** $%d\n\n", status.CurrentOffer.Salary))
		if len(status.CurrentOffer.Benefits) > 0 {
			output.WriteString(fmt.Sprintf("**Benefits:** %s\n\n", strings.Join(status.CurrentOffer.Benefits, ", ")))
		}
		if status.CurrentOffer.StartDate != "" {
			output.WriteString(fmt.Sprintf("**Start date:** %s\n\n", status.CurrentOffer.StartDate))
		}
	} else {
		output.WriteString("No offer received yet.\n\n")
	}

	if len(status.LeveragePoints) > 0 {
		output.WriteString("## Leverage Points\n\n")
		for _, point := range status.LeveragePoints {
			output.WriteString(fmt.Sprintf("- %s\n", point))
		}
		output.WriteString("\n")
	}

	if len(status.History) > 0 {
		output.WriteString("## History\n\n")
		for i, entry := range status.History {
			output.WriteString(fmt.Sprintf("%d. **%s** at %s\n", i+1, entry.Kind,
				entry.Timestamp.Format("2006-01-02 15:04:05")))
		}
	}

	return output.String(), nil
}

func (smf *StatusMarkdownFormatter) SupportedType() string {
	return "NegotiationStatus"
}

// TurnTextFormatter handles text formatting for a single negotiation turn
type TurnTextFormatter struct{}

func (ttf *TurnTextFormatter) Format(data any) (string, error) {
	result, ok := data.(negotiation.TurnResult)
	if !ok {
		return "", fmt.Errorf("expected TurnResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== SUGGESTED RESPONSE ===\n\n")
	output.WriteString(result.Text)
	output.WriteString("\n\n")

	output.WriteString("=== TACTIC ANALYSIS ===\n")
	output.WriteString(fmt.Sprintf("Tactic: %s\n", result.Analysis.Tactic))
	output.WriteString(fmt.Sprintf("Response strategy: %s\n", result.Analysis.ResponseStrategy))
	if len(result.Analysis.PressurePoints) > 0 {
		output.WriteString("Pressure points:\n")
		for _, point := range result.Analysis.PressurePoints {
			output.WriteString(fmt.Sprintf("- %s\n", point))
		}
	}
	output.WriteString("\n")

	output.WriteString(fmt.Sprintf("Template: %s\n", result.TemplateID))
	if result.AnalysisFallback {
		output.WriteString("Note: tactic analysis unavailable, used neutral analysis\n")
	}
	if result.EnhancementFallback {
		output.WriteString("Note: enhancement unavailable, response is the filled template\n")
	}

	return output.String(), nil
}

func (ttf *TurnTextFormatter) SupportedType() string {
	return "TurnResult"
}

// TurnMarkdownFormatter handles markdown formatting for a single negotiation turn
type TurnMarkdownFormatter struct{}

func (tmf *TurnMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(negotiation.TurnResult)
	if !ok {
		return "", fmt.Errorf("expected TurnResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Suggested Response\n\n")
	output.WriteString(result.Text)
	output.WriteString("\n\n")

	output.WriteString("## Tactic Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Tactic:** %s\n\n", result.Analysis.Tactic))
	output.WriteString(fmt.Sprintf("**Response strategy:** %s\n\n", result.Analysis.ResponseStrategy))
	if len(result.Analysis.PressurePoints) > 0 {
		output.WriteString("**Pressure points:**\n\n")
		for _, point := range result.Analysis.PressurePoints {
			output.WriteString(fmt.Sprintf("- %s\n", point))
		}
		output.WriteString("\n")
	}

	output.WriteString(fmt.Sprintf("**Template:** `%s`\n\n", result.TemplateID))
	if result.AnalysisFallback {
		output.WriteString("*Tactic analysis unavailable, used neutral analysis.*\n\n")
	}
	if result.EnhancementFallback {
		output.WriteString("*Enhancement unavailable, response is the filled template.*\n")
	}

	return output.String(), nil
}

func (tmf *TurnMarkdownFormatter) SupportedType() string {
	return "TurnResult"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
