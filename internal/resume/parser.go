package resume

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"neogiator/internal/ai"
	"neogiator/internal/errors"
	"neogiator/internal/types"
)

// Parser converts resume files into structured profiles. When an extractor
// is configured it does the structuring; otherwise, or when the extractor
// fails, a deterministic keyword parser produces a best-effort profile.
type Parser struct {
	extractor ai.ProfileExtractor
	logger    *errors.Logger
}

// NewParser builds a resume parser. extractor may be nil; every parse then
// uses the keyword fallback.
func NewParser(extractor ai.ProfileExtractor, logger *errors.Logger) *Parser {
	return &Parser{extractor: extractor, logger: logger}
}

// ParseResult carries the structured profile plus degradation info for
// metrics and response metadata.
type ParseResult struct {
	Profile  types.ExtractedProfile
	Fallback bool
	Tokens   *ai.TokenUsage
}

// Parse extracts text from the named file and structures it into a profile.
// Extraction errors are terminal; structuring errors degrade to the keyword
// parser.
func (p *Parser) Parse(ctx context.Context, filename string, data []byte) (ParseResult, error) {
	text, err := ExtractText(filename, data)
	if err != nil {
		return ParseResult{}, err
	}
	if strings.TrimSpace(text) == "" {
		return ParseResult{}, errors.NewValidationError(errors.ErrCodeExtractionFailed,
			"resume contains no extractable text", nil).
			WithContext("filename", filename)
	}

	if p.extractor != nil {
		profile, tokens, aiErr := p.extractor.ExtractProfile(ctx, text)
		if aiErr == nil {
			profile.RawText = text
			return ParseResult{Profile: profile, Tokens: tokens}, nil
		}
		if p.logger != nil {
			p.logger.Warn("profile extraction degraded to keyword parsing",
				"filename", filename, "error", aiErr.Error())
		}
	}

	return ParseResult{Profile: FallbackParse(text), Fallback: true}, nil
}

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`(\+?1[-.\s]?)?\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})`)

	experiencePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s*years?\s*of\s*experience`),
		regexp.MustCompile(`experience:\s*(\d+)`),
		regexp.MustCompile(`(\d+)\+?\s*years?\s*in`),
	}

	mastersPattern   = regexp.MustCompile(`\b(master|mba|msc|ma)\b`)
	doctoratePattern = regexp.MustCompile(`phd|doctorate|ph\.d`)
	associatePattern = regexp.MustCompile(`associate|diploma`)
)

var skillKeywords = []string{
	"python", "java", "javascript", "go", "react", "angular", "vue", "node.js",
	"sql", "mongodb", "postgresql", "aws", "azure", "docker", "kubernetes",
	"git", "agile", "scrum", "project management", "leadership", "communication",
	"data analysis", "machine learning", "artificial intelligence", "blockchain",
	"cybersecurity", "devops", "frontend", "backend", "full stack",
}

// industryKeywords is checked in order; the first hit wins and anything
// without a hit defaults to technology.
var industryKeywords = []struct {
	industry string
	keywords []string
}{
	{"finance", []string{"finance", "banking", "investment", "financial"}},
	{"healthcare", []string{"healthcare", "medical", "pharmaceutical", "hospital"}},
	{"education", []string{"education", "teaching", "academic", "university"}},
	{"consulting", []string{"consulting", "advisory", "strategy"}},
	{"marketing", []string{"marketing", "advertising", "brand", "digital marketing"}},
	{"retail", []string{"retail", "e-commerce", "sales", "customer service"}},
}

const maxFallbackSkills = 10

// FallbackParse extracts a best-effort profile from raw resume text using
// keyword and pattern matching only. It never fails; missing fields get
// conservative defaults.
func FallbackParse(text string) types.ExtractedProfile {
	lower := strings.ToLower(text)

	profile := types.ExtractedProfile{
		Email:          emailPattern.FindString(text),
		Phone:          strings.TrimSpace(phonePattern.FindString(text)),
		EducationLevel: "Bachelor's",
		Industry:       "technology",
		Skills:         []string{},
		Certifications: []string{},
		Achievements:   []string{},
		WorkExperience: []types.WorkExperience{},
		Education:      []types.Education{},
		Languages:      []string{},
		RawText:        text,
	}

	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			profile.Name = trimmed
			break
		}
	}

	for _, skill := range skillKeywords {
		if strings.Contains(lower, skill) {
			profile.Skills = append(profile.Skills, titleCase(skill))
			if len(profile.Skills) == maxFallbackSkills {
				break
			}
		}
	}

	for _, pattern := range experiencePatterns {
		if m := pattern.FindStringSubmatch(lower); m != nil {
			if years, err := strconv.Atoi(m[1]); err == nil {
				profile.YearsExperience = years
			}
			break
		}
	}

	switch {
	case doctoratePattern.MatchString(lower):
		profile.EducationLevel = "PhD"
	case mastersPattern.MatchString(lower):
		profile.EducationLevel = "Masters"
	case associatePattern.MatchString(lower):
		profile.EducationLevel = "Associate"
	}

	for _, entry := range industryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				profile.Industry = entry.industry
				return profile
			}
		}
	}

	return profile
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
