// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML loading, env var expansion, and validation

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeConfig writes content to a temp config file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taskd.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

const validConfig = `
server:
  http_addr: "0.0.0.0:8080"

database:
  path: "./test.db"

auth:
  jwt_secret: "0123456789abcdef0123456789abcdef"

logging:
  level: "debug"
  format: "json"
`

func TestLoad_ValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.HTTPAddr != "0.0.0.0:8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.Server.HTTPAddr, "0.0.0.0:8080")
	}
	if cfg.Database.Path != "./test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "./test.db")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Auth.TokenTTL != 0 {
		t.Errorf("TokenTTL = %v, want 0 (never expires)", cfg.Auth.TokenTTL)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TASKD_TEST_SECRET", "expanded-secret-0123456789abcdef")

	content := strings.Replace(validConfig,
		`jwt_secret: "0123456789abcdef0123456789abcdef"`,
		`jwt_secret: "${TASKD_TEST_SECRET}"`, 1)

	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Auth.JWTSecret != "expanded-secret-0123456789abcdef" {
		t.Errorf("JWTSecret = %q, env var not expanded", cfg.Auth.JWTSecret)
	}
}

func TestLoad_TokenTTL(t *testing.T) {
	content := validConfig + `
`
	content = strings.Replace(content,
		`jwt_secret: "0123456789abcdef0123456789abcdef"`,
		"jwt_secret: \"0123456789abcdef0123456789abcdef\"\n  token_ttl: \"720h\"", 1)

	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if want := 720 * time.Hour; cfg.Auth.TokenTTL != want {
		t.Errorf("TokenTTL = %v, want %v", cfg.Auth.TokenTTL, want)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	content := strings.Replace(validConfig,
		`jwt_secret: "0123456789abcdef0123456789abcdef"`,
		`jwt_secret: ""`, 1)

	_, err := Load(writeConfig(t, content))
	if err == nil {
		t.Fatal("Load succeeded without jwt_secret, want error")
	}
	if !strings.Contains(err.Error(), "jwt_secret") {
		t.Errorf("error %q does not mention jwt_secret", err)
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	content := strings.Replace(validConfig,
		`jwt_secret: "0123456789abcdef0123456789abcdef"`,
		`jwt_secret: "too-short"`, 1)

	_, err := Load(writeConfig(t, content))
	if err == nil {
		t.Fatal("Load succeeded with short jwt_secret, want error")
	}
}

func TestLoad_InvalidTTL(t *testing.T) {
	content := strings.Replace(validConfig,
		`jwt_secret: "0123456789abcdef0123456789abcdef"`,
		"jwt_secret: \"0123456789abcdef0123456789abcdef\"\n  token_ttl: \"not-a-duration\"", 1)

	_, err := Load(writeConfig(t, content))
	if err == nil {
		t.Fatal("Load succeeded with invalid token_ttl, want error")
	}
}

func TestLoad_MailRequiresFrom(t *testing.T) {
	content := validConfig + `
mail:
  api_key: "SG.test-key"
`
	_, err := Load(writeConfig(t, content))
	if err == nil {
		t.Fatal("Load succeeded with mail.api_key but no from_address, want error")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Load succeeded for missing file, want error")
	}
}
