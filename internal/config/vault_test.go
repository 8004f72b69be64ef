package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseSecretVersion(t *testing.T) {
	tests := []struct {
		name        string
		input       any
		expected    int64
		expectError bool
	}{
		{name: "int64 value", input: int64(42), expected: 42},
		{name: "float64 value", input: float64(42.0), expected: 42},
		{name: "string value", input: "42", expected: 42},
		{name: "invalid string value", input: "not-a-number", expectError: true},
		{name: "unsupported type", input: []string{"42"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseSecretVersion(tt.input, "secret/data/test")

			if tt.expectError {
				if err == nil {
					t.Fatal("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("Expected version %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestResolveVaultToken(t *testing.T) {
	t.Run("direct token", func(t *testing.T) {
		token, err := resolveVaultToken(VaultConfig{Token: "direct-token"})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if token != "direct-token" {
			t.Errorf("Expected 'direct-token', got '%s'", token)
		}
	})

	t.Run("token from file", func(t *testing.T) {
		tokenFile := filepath.Join(t.TempDir(), "token")
		if err := os.WriteFile(tokenFile, []byte("  file-token\n"), 0600); err != nil {
			t.Fatalf("Failed to create token file: %v", err)
		}
		token, err := resolveVaultToken(VaultConfig{TokenFile: tokenFile})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if token != "file-token" {
			t.Errorf("Expected trimmed 'file-token', got '%s'", token)
		}
	})

	t.Run("direct token wins over file", func(t *testing.T) {
		token, err := resolveVaultToken(VaultConfig{Token: "direct", TokenFile: "/nonexistent"})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if token != "direct" {
			t.Errorf("Expected 'direct', got '%s'", token)
		}
	})

	t.Run("missing token fails", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{})
		if err == nil || !strings.Contains(err.Error(), "token is required") {
			t.Errorf("Expected token required error, got: %v", err)
		}
	})

	t.Run("unreadable token file fails", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{TokenFile: filepath.Join(t.TempDir(), "missing")})
		if err == nil {
			t.Fatal("Expected error for missing token file")
		}
	})
}

func TestNewVaultClientDisabled(t *testing.T) {
	client, err := NewVaultClient(VaultConfig{Enabled: false}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if client != nil {
		t.Error("Expected nil client when vault is disabled")
	}
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	cfg := &Config{}
	if err := ApplyVaultSecrets(cfg, nil); err != nil {
		t.Errorf("Expected no-op when vault is disabled, got: %v", err)
	}
}

func TestLoadConfigAppliesVaultSecrets(t *testing.T) {
	// An unreachable Vault address makes the client health check fail, which
	// proves LoadConfig actually runs the Vault step when vault is enabled.
	t.Setenv("NEOGIATOR_VAULT_ENABLED", "true")
	t.Setenv("NEOGIATOR_VAULT_ADDRESS", "http://127.0.0.1:1")
	t.Setenv("NEOGIATOR_VAULT_TOKEN", "test-token")

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("Expected LoadConfig to fail when vault is enabled but unreachable")
	}
	if !strings.Contains(err.Error(), "failed to apply vault secrets") {
		t.Errorf("Expected vault application error, got: %v", err)
	}
}
