package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// loadPromptsFromFiles loads custom prompts from external files if file paths are specified
func (c *Config) loadPromptsFromFiles() error {
	// Initialize loaded prompts exactly once
	loadedPromptsOnce.Do(func() {
		loadedPrompts = AllLoadedPrompts{}
	})

	// Load global prompts
	if err := c.loadSystemPromptsFromFiles(&c.AI.CustomPrompts.SystemPrompts, &loadedPrompts.Global.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load global system prompts: %w", err)
	}
	if err := c.loadUserPromptsFromFiles(&c.AI.CustomPrompts.UserPrompts, &loadedPrompts.Global.UserPrompts); err != nil {
		return fmt.Errorf("failed to load global user prompts: %w", err)
	}

	// Load operation-specific prompts
	if err := c.loadSystemPromptsFromFiles(&c.AI.Analyze.CustomPrompts.SystemPrompts, &loadedPrompts.Analyze.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load analyze system prompts: %w", err)
	}
	if err := c.loadUserPromptsFromFiles(&c.AI.Analyze.CustomPrompts.UserPrompts, &loadedPrompts.Analyze.UserPrompts); err != nil {
		return fmt.Errorf("failed to load analyze user prompts: %w", err)
	}

	if err := c.loadSystemPromptsFromFiles(&c.AI.Enhance.CustomPrompts.SystemPrompts, &loadedPrompts.Enhance.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load enhance system prompts: %w", err)
	}
	if err := c.loadUserPromptsFromFiles(&c.AI.Enhance.CustomPrompts.UserPrompts, &loadedPrompts.Enhance.UserPrompts); err != nil {
		return fmt.Errorf("failed to load enhance user prompts: %w", err)
	}

	if err := c.loadSystemPromptsFromFiles(&c.AI.Extract.CustomPrompts.SystemPrompts, &loadedPrompts.Extract.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load extract system prompts: %w", err)
	}
	if err := c.loadUserPromptsFromFiles(&c.AI.Extract.CustomPrompts.UserPrompts, &loadedPrompts.Extract.UserPrompts); err != nil {
		return fmt.Errorf("failed to load extract user prompts: %w", err)
	}

	return nil
}

// loadSystemPromptsFromFiles loads system prompts from files if file paths are specified
func (c *Config) loadSystemPromptsFromFiles(prompts *SystemPrompts, target *LoadedSystemPrompts) error {
	if prompts.AnalyzeTacticFile != "" {
		content, err := c.loadPromptFromFile(prompts.AnalyzeTacticFile, "system", "analyzeTactic")
		if err != nil {
			return err
		}
		target.AnalyzeTactic = content
	}

	if prompts.EnhanceResponseFile != "" {
		content, err := c.loadPromptFromFile(prompts.EnhanceResponseFile, "system", "enhanceResponse")
		if err != nil {
			return err
		}
		target.EnhanceResponse = content
	}

	if prompts.ExtractProfileFile != "" {
		content, err := c.loadPromptFromFile(prompts.ExtractProfileFile, "system", "extractProfile")
		if err != nil {
			return err
		}
		target.ExtractProfile = content
	}

	return nil
}

// loadUserPromptsFromFiles loads user prompts from files if file paths are specified
func (c *Config) loadUserPromptsFromFiles(prompts *UserPrompts, target *LoadedUserPrompts) error {
	if prompts.AnalyzeTacticFile != "" {
		content, err := c.loadPromptFromFile(prompts.AnalyzeTacticFile, "user", "analyzeTactic")
		if err != nil {
			return err
		}
		target.AnalyzeTactic = content
	}

	if prompts.EnhanceResponseFile != "" {
		content, err := c.loadPromptFromFile(prompts.EnhanceResponseFile, "user", "enhanceResponse")
		if err != nil {
			return err
		}
		target.EnhanceResponse = content
	}

	if prompts.ExtractProfileFile != "" {
		content, err := c.loadPromptFromFile(prompts.ExtractProfileFile, "user", "extractProfile")
		if err != nil {
			return err
		}
		target.ExtractProfile = content
	}

	return nil
}

// loadPromptFromFile loads a prompt from a file with proper error handling and logging
func (c *Config) loadPromptFromFile(filePath, promptType, operation string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", promptType, operation, filePath, err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s %s prompt file not found: %s", promptType, operation, absPath)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", promptType, operation, absPath, err)
	}

	trimmedContent := strings.TrimSpace(string(content))
	if trimmedContent == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", promptType, operation, absPath)
	}

	log.Printf("[CONFIG] Loaded %s %s prompt from file: %s (%d characters)",
		promptType, operation, absPath, len(trimmedContent))

	return trimmedContent, nil
}

// validatePromptFiles validates that prompt files exist and are readable before loading
func (c *Config) validatePromptFiles() error {
	var validationErrors []string

	validateFile := func(filePath, promptType, operation string) {
		if filePath == "" {
			return
		}

		absPath, err := filepath.Abs(filePath)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s %s prompt: %s", promptType, operation, filePath))
			return
		}

		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s %s prompt file not found: %s", promptType, operation, absPath))
		}
	}

	// Validate global prompt files
	validateFile(c.AI.CustomPrompts.SystemPrompts.AnalyzeTacticFile, "system", "analyzeTactic")
	validateFile(c.AI.CustomPrompts.SystemPrompts.EnhanceResponseFile, "system", "enhanceResponse")
	validateFile(c.AI.CustomPrompts.SystemPrompts.ExtractProfileFile, "system", "extractProfile")
	validateFile(c.AI.CustomPrompts.UserPrompts.AnalyzeTacticFile, "user", "analyzeTactic")
	validateFile(c.AI.CustomPrompts.UserPrompts.EnhanceResponseFile, "user", "enhanceResponse")
	validateFile(c.AI.CustomPrompts.UserPrompts.ExtractProfileFile, "user", "extractProfile")

	// Validate operation-specific prompt files
	validateFile(c.AI.Analyze.CustomPrompts.SystemPrompts.AnalyzeTacticFile, "analyze system", "analyzeTactic")
	validateFile(c.AI.Analyze.CustomPrompts.UserPrompts.AnalyzeTacticFile, "analyze user", "analyzeTactic")
	validateFile(c.AI.Enhance.CustomPrompts.SystemPrompts.EnhanceResponseFile, "enhance system", "enhanceResponse")
	validateFile(c.AI.Enhance.CustomPrompts.UserPrompts.EnhanceResponseFile, "enhance user", "enhanceResponse")
	validateFile(c.AI.Extract.CustomPrompts.SystemPrompts.ExtractProfileFile, "extract system", "extractProfile")
	validateFile(c.AI.Extract.CustomPrompts.UserPrompts.ExtractProfileFile, "extract user", "extractProfile")

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}

	return nil
}
