package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPromptsFromFiles(t *testing.T) {
	tempDir := t.TempDir()

	systemPromptContent := "Test system prompt for tactic analysis"
	userPromptContent := "Analyze this message: %s"

	systemPromptFile := filepath.Join(tempDir, "system.analyze.md")
	userPromptFile := filepath.Join(tempDir, "user.analyze.md")

	if err := os.WriteFile(systemPromptFile, []byte(systemPromptContent), 0600); err != nil {
		t.Fatalf("Failed to create test system prompt file: %v", err)
	}
	if err := os.WriteFile(userPromptFile, []byte(userPromptContent), 0600); err != nil {
		t.Fatalf("Failed to create test user prompt file: %v", err)
	}

	config := &Config{
		AI: AIConfig{
			Analyze: OperationAIConfig{
				CustomPrompts: PromptConfig{
					SystemPrompts: SystemPrompts{
						AnalyzeTacticFile: systemPromptFile,
					},
					UserPrompts: UserPrompts{
						AnalyzeTacticFile: userPromptFile,
					},
				},
			},
		},
	}

	if err := config.loadPromptsFromFiles(); err != nil {
		t.Fatalf("Failed to load prompts from files: %v", err)
	}

	loadedOps := GetPromptsForOperation("analyze")

	if loadedOps.SystemPrompts.AnalyzeTactic != systemPromptContent {
		t.Errorf("Expected loaded system prompt content '%s', got '%s'",
			systemPromptContent, loadedOps.SystemPrompts.AnalyzeTactic)
	}
	if loadedOps.UserPrompts.AnalyzeTactic != userPromptContent {
		t.Errorf("Expected loaded user prompt content '%s', got '%s'",
			userPromptContent, loadedOps.UserPrompts.AnalyzeTactic)
	}

	// File paths stay untouched after loading
	if config.AI.Analyze.CustomPrompts.SystemPrompts.AnalyzeTacticFile != systemPromptFile {
		t.Error("Expected system prompt file path to be preserved")
	}
}

func TestLoadPromptFromFileErrors(t *testing.T) {
	tempDir := t.TempDir()
	config := &Config{}

	t.Run("missing file", func(t *testing.T) {
		_, err := config.loadPromptFromFile(filepath.Join(tempDir, "missing.md"), "system", "analyzeTactic")
		if err == nil || !strings.Contains(err.Error(), "not found") {
			t.Errorf("Expected not found error, got: %v", err)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		emptyFile := filepath.Join(tempDir, "empty.md")
		if err := os.WriteFile(emptyFile, []byte("  \n\t"), 0600); err != nil {
			t.Fatalf("Failed to create empty test file: %v", err)
		}
		_, err := config.loadPromptFromFile(emptyFile, "user", "enhanceResponse")
		if err == nil || !strings.Contains(err.Error(), "is empty") {
			t.Errorf("Expected empty file error, got: %v", err)
		}
	})

	t.Run("content is trimmed", func(t *testing.T) {
		file := filepath.Join(tempDir, "padded.md")
		if err := os.WriteFile(file, []byte("\n  prompt body \n\n"), 0600); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
		content, err := config.loadPromptFromFile(file, "system", "extractProfile")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if content != "prompt body" {
			t.Errorf("Expected trimmed content 'prompt body', got '%s'", content)
		}
	})
}

func TestValidatePromptFiles(t *testing.T) {
	tempDir := t.TempDir()

	validFile := filepath.Join(tempDir, "valid.md")
	if err := os.WriteFile(validFile, []byte("Valid content"), 0600); err != nil {
		t.Fatalf("Failed to create valid test file: %v", err)
	}

	t.Run("valid file passes", func(t *testing.T) {
		config := &Config{
			AI: AIConfig{
				Extract: OperationAIConfig{
					CustomPrompts: PromptConfig{
						SystemPrompts: SystemPrompts{
							ExtractProfileFile: validFile,
						},
					},
				},
			},
		}
		if err := config.validatePromptFiles(); err != nil {
			t.Errorf("Expected validation to pass for valid file, got error: %v", err)
		}
	})

	t.Run("missing file fails", func(t *testing.T) {
		config := &Config{
			AI: AIConfig{
				CustomPrompts: PromptConfig{
					UserPrompts: UserPrompts{
						EnhanceResponseFile: filepath.Join(tempDir, "does-not-exist.md"),
					},
				},
			},
		}
		err := config.validatePromptFiles()
		if err == nil {
			t.Fatal("Expected validation to fail for missing file")
		}
		if !strings.Contains(err.Error(), "not found") {
			t.Errorf("Expected not found error, got: %v", err)
		}
	})

	t.Run("no files configured passes", func(t *testing.T) {
		config := &Config{}
		if err := config.validatePromptFiles(); err != nil {
			t.Errorf("Expected validation to pass with no files, got error: %v", err)
		}
	})
}
