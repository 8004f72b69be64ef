package config

import (
	"testing"
	"time"
)

func TestOperationConfigFallbacks(t *testing.T) {
	opTimeout := 10 * time.Second

	cfg := &Config{
		AI: AIConfig{
			Provider:    "gemini",
			Model:       "gemini-2.5-flash",
			Timeout:     60 * time.Second,
			APIKey:      "global-key",
			MaxRetries:  3,
			Temperature: 0.2,
			Analyze: OperationAIConfig{
				Model:   "gemini-2.5-pro",
				Timeout: &opTimeout,
			},
			Enhance: OperationAIConfig{
				APIKey: "enhance-key",
			},
		},
	}

	t.Run("operation overrides win", func(t *testing.T) {
		analyze := cfg.GetAnalyzeConfig()
		if analyze.Model != "gemini-2.5-pro" {
			t.Errorf("Expected operation model override, got %s", analyze.Model)
		}
		if analyze.Timeout == nil || *analyze.Timeout != opTimeout {
			t.Errorf("Expected operation timeout override, got %v", analyze.Timeout)
		}
	})

	t.Run("globals fill the gaps", func(t *testing.T) {
		analyze := cfg.GetAnalyzeConfig()
		if analyze.Provider != "gemini" {
			t.Errorf("Expected global provider, got %s", analyze.Provider)
		}
		if analyze.APIKey != "global-key" {
			t.Errorf("Expected global API key, got %s", analyze.APIKey)
		}
		if analyze.MaxRetries == nil || *analyze.MaxRetries != 3 {
			t.Errorf("Expected global max retries, got %v", analyze.MaxRetries)
		}
	})

	t.Run("per-operation key preserved", func(t *testing.T) {
		enhance := cfg.GetEnhanceConfig()
		if enhance.APIKey != "enhance-key" {
			t.Errorf("Expected enhance-key, got %s", enhance.APIKey)
		}
	})

	t.Run("extract inherits everything", func(t *testing.T) {
		extract := cfg.GetExtractConfig()
		if extract.Model != "gemini-2.5-flash" {
			t.Errorf("Expected global model, got %s", extract.Model)
		}
		if extract.Timeout == nil || *extract.Timeout != 60*time.Second {
			t.Errorf("Expected global timeout, got %v", extract.Timeout)
		}
	})
}

func TestHasAIKey(t *testing.T) {
	tests := []struct {
		name     string
		ai       AIConfig
		expected bool
	}{
		{name: "no keys", ai: AIConfig{}, expected: false},
		{name: "global key", ai: AIConfig{APIKey: "k"}, expected: true},
		{name: "analyze key only", ai: AIConfig{Analyze: OperationAIConfig{APIKey: "k"}}, expected: true},
		{name: "extract key only", ai: AIConfig{Extract: OperationAIConfig{APIKey: "k"}}, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{AI: tt.ai}
			if got := cfg.HasAIKey(); got != tt.expected {
				t.Errorf("HasAIKey() = %t, want %t", got, tt.expected)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			AI: AIConfig{Timeout: 30 * time.Second},
			Server: ServerConfig{
				Port: "8080",
				TLS:  TLSConfig{Mode: "disabled"},
			},
			App: AppConfig{
				DefaultFormat:    "json",
				SupportedFormats: []string{"json", "text", "markdown"},
			},
		}
	}

	t.Run("valid config", func(t *testing.T) {
		if err := valid().Validate(); err != nil {
			t.Errorf("Expected valid config, got: %v", err)
		}
	})

	t.Run("missing API key is allowed", func(t *testing.T) {
		cfg := valid()
		cfg.AI.APIKey = ""
		if err := cfg.Validate(); err != nil {
			t.Errorf("Expected missing key to be allowed, got: %v", err)
		}
	})

	t.Run("non-positive timeout rejected", func(t *testing.T) {
		cfg := valid()
		cfg.AI.Timeout = 0
		if err := cfg.Validate(); err == nil {
			t.Error("Expected error for zero timeout")
		}
	})

	t.Run("missing port rejected", func(t *testing.T) {
		cfg := valid()
		cfg.Server.Port = ""
		if err := cfg.Validate(); err == nil {
			t.Error("Expected error for missing port")
		}
	})

	t.Run("unsupported default format rejected", func(t *testing.T) {
		cfg := valid()
		cfg.App.DefaultFormat = "yaml"
		if err := cfg.Validate(); err == nil {
			t.Error("Expected error for unsupported default format")
		}
	})
}
