package resume

import (
	"context"
	"fmt"
	"testing"

	"neogiator/internal/ai"
	"neogiator/internal/errors"
	"neogiator/internal/types"
)

const sampleResume = `Jane Doe
jane.doe@example.com | (555) 123-4567

Senior software engineer with 8 years of experience building backend
services in Go and Python. MSc in Computer Science.

Skills: Python, Go, Docker, Kubernetes, PostgreSQL, leadership
`

func TestExtractText(t *testing.T) {
	t.Run("plain text passes through", func(t *testing.T) {
		for _, name := range []string{"resume.txt", "resume.text", "notes.md"} {
			text, err := ExtractText(name, []byte(sampleResume))
			if err != nil {
				t.Fatalf("ExtractText(%s): %v", name, err)
			}
			if text != sampleResume {
				t.Errorf("ExtractText(%s) altered content", name)
			}
		}
	})

	t.Run("extension is case insensitive", func(t *testing.T) {
		if _, err := ExtractText("RESUME.TXT", []byte("hello")); err != nil {
			t.Fatalf("uppercase extension rejected: %v", err)
		}
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := ExtractText("resume.odt", []byte("x"))
		if !errors.HasCode(err, errors.ErrCodeUnsupportedFile) {
			t.Fatalf("expected %s, got %v", errors.ErrCodeUnsupportedFile, err)
		}
	})

	t.Run("corrupt pdf reports extraction failure", func(t *testing.T) {
		_, err := ExtractText("resume.pdf", []byte("not a pdf"))
		if !errors.HasCode(err, errors.ErrCodeExtractionFailed) {
			t.Fatalf("expected %s, got %v", errors.ErrCodeExtractionFailed, err)
		}
	})

	t.Run("corrupt docx reports extraction failure", func(t *testing.T) {
		_, err := ExtractText("resume.docx", []byte("not a docx"))
		if !errors.HasCode(err, errors.ErrCodeExtractionFailed) {
			t.Fatalf("expected %s, got %v", errors.ErrCodeExtractionFailed, err)
		}
	})
}

func TestFallbackParse(t *testing.T) {
	profile := FallbackParse(sampleResume)

	t.Run("contact fields", func(t *testing.T) {
		if profile.Name != "Jane Doe" {
			t.Errorf("Name = %q, want Jane Doe", profile.Name)
		}
		if profile.Email != "jane.doe@example.com" {
			t.Errorf("Email = %q", profile.Email)
		}
		if profile.Phone == "" {
			t.Error("expected phone to be found")
		}
	})

	t.Run("experience and education", func(t *testing.T) {
		if profile.YearsExperience != 8 {
			t.Errorf("YearsExperience = %d, want 8", profile.YearsExperience)
		}
		if profile.EducationLevel != "Masters" {
			t.Errorf("EducationLevel = %q, want Masters", profile.EducationLevel)
		}
	})

	t.Run("skills are detected", func(t *testing.T) {
		if len(profile.Skills) == 0 {
			t.Fatal("expected skills to be detected")
		}
		found := false
		for _, s := range profile.Skills {
			if s == "Python" {
				found = true
			}
		}
		if !found {
			t.Errorf("Skills = %v, want Python included", profile.Skills)
		}
		if len(profile.Skills) > 10 {
			t.Errorf("Skills capped at 10, got %d", len(profile.Skills))
		}
	})

	t.Run("empty text gets defaults", func(t *testing.T) {
		p := FallbackParse("")
		if p.YearsExperience != 0 {
			t.Errorf("YearsExperience = %d, want 0", p.YearsExperience)
		}
		if p.EducationLevel != "Bachelor's" {
			t.Errorf("EducationLevel = %q, want Bachelor's", p.EducationLevel)
		}
		if p.Industry != "technology" {
			t.Errorf("Industry = %q, want technology", p.Industry)
		}
		if p.Skills == nil || len(p.Skills) != 0 {
			t.Errorf("Skills = %v, want empty slice", p.Skills)
		}
	})

	t.Run("doctorate outranks masters keywords", func(t *testing.T) {
		p := FallbackParse("Completed a PhD after a master's degree")
		if p.EducationLevel != "PhD" {
			t.Errorf("EducationLevel = %q, want PhD", p.EducationLevel)
		}
	})

	t.Run("industry keywords", func(t *testing.T) {
		p := FallbackParse("Ten years in investment banking operations")
		if p.Industry != "finance" {
			t.Errorf("Industry = %q, want finance", p.Industry)
		}
	})
}

type stubExtractor struct {
	profile types.ExtractedProfile
	err     error
	calls   int
}

func (s *stubExtractor) ExtractProfile(_ context.Context, _ string) (types.ExtractedProfile, *ai.TokenUsage, error) {
	s.calls++
	if s.err != nil {
		return types.ExtractedProfile{}, nil, s.err
	}
	return s.profile, &ai.TokenUsage{InputTokens: 100, OutputTokens: 50, TotalTokens: 150}, nil
}

func TestParserParse(t *testing.T) {
	logger := errors.NewLogger(0)

	t.Run("structured extraction preferred", func(t *testing.T) {
		extractor := &stubExtractor{profile: types.ExtractedProfile{
			Name:            "Jane Doe",
			YearsExperience: 8,
			EducationLevel:  "Masters",
			Industry:        "technology",
		}}
		parser := NewParser(extractor, logger)

		result, err := parser.Parse(context.Background(), "resume.txt", []byte(sampleResume))
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if result.Fallback {
			t.Error("expected structured path, got fallback")
		}
		if result.Profile.RawText != sampleResume {
			t.Error("RawText not preserved on structured path")
		}
		if result.Tokens == nil || result.Tokens.TotalTokens != 150 {
			t.Errorf("Tokens = %+v, want total 150", result.Tokens)
		}
		if extractor.calls != 1 {
			t.Errorf("extractor called %d times, want 1", extractor.calls)
		}
	})

	t.Run("extractor failure degrades to keyword parsing", func(t *testing.T) {
		extractor := &stubExtractor{err: fmt.Errorf("model unavailable")}
		parser := NewParser(extractor, logger)

		result, err := parser.Parse(context.Background(), "resume.txt", []byte(sampleResume))
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if !result.Fallback {
			t.Error("expected fallback flag")
		}
		if result.Profile.Name != "Jane Doe" {
			t.Errorf("fallback Name = %q", result.Profile.Name)
		}
	})

	t.Run("nil extractor uses fallback", func(t *testing.T) {
		parser := NewParser(nil, logger)

		result, err := parser.Parse(context.Background(), "resume.txt", []byte(sampleResume))
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if !result.Fallback {
			t.Error("expected fallback flag without extractor")
		}
	})

	t.Run("extraction errors are terminal", func(t *testing.T) {
		parser := NewParser(&stubExtractor{}, logger)

		_, err := parser.Parse(context.Background(), "resume.odt", []byte("x"))
		if !errors.HasCode(err, errors.ErrCodeUnsupportedFile) {
			t.Fatalf("expected %s, got %v", errors.ErrCodeUnsupportedFile, err)
		}
	})

	t.Run("blank content rejected", func(t *testing.T) {
		parser := NewParser(nil, logger)

		_, err := parser.Parse(context.Background(), "resume.txt", []byte("   \n\t "))
		if !errors.HasCode(err, errors.ErrCodeExtractionFailed) {
			t.Fatalf("expected %s, got %v", errors.ErrCodeExtractionFailed, err)
		}
	})
}
