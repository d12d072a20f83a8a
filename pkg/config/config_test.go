package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	Name    string        `yaml:"name" env:"APP_NAME"`
	Port    int           `yaml:"port" env:"APP_PORT"`
	Debug   bool          `yaml:"debug" env:"APP_DEBUG"`
	Ratio   float64       `yaml:"ratio" env:"APP_RATIO"`
	Timeout time.Duration `yaml:"timeout" env:"APP_TIMEOUT"`
	Remote  struct {
		URL string `yaml:"url" env:"REMOTE_URL"`
	} `yaml:"remote"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("REMOTE_HOST", "crm.example.com")
	path := writeConfig(t, `
name: test-app
port: 8080
debug: false
timeout: 45s
remote:
  url: https://${REMOTE_HOST}/api
`)

	var cfg testConfig
	if err := Load(path, &cfg); err != nil {
		t.Fatal(err)
	}

	if cfg.Name != "test-app" {
		t.Fatalf("expected 'test-app', got '%s'", cfg.Name)
	}
	if cfg.Port != 8080 {
		t.Fatalf("expected 8080, got %d", cfg.Port)
	}
	if cfg.Timeout != 45*time.Second {
		t.Fatalf("expected 45s, got %s", cfg.Timeout)
	}
	if cfg.Remote.URL != "https://crm.example.com/api" {
		t.Fatalf("expected expanded url, got '%s'", cfg.Remote.URL)
	}
}

func TestEnvOverride(t *testing.T) {
	path := writeConfig(t, `
name: default
port: 3000
`)

	t.Setenv("APP_NAME", "from-env")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_DEBUG", "true")
	t.Setenv("APP_RATIO", "0.5")
	t.Setenv("APP_TIMEOUT", "2m")
	t.Setenv("REMOTE_URL", "http://localhost")

	var cfg testConfig
	if err := Load(path, &cfg); err != nil {
		t.Fatal(err)
	}

	if cfg.Name != "from-env" || cfg.Port != 9090 || !cfg.Debug || cfg.Ratio != 0.5 {
		t.Fatalf("scalar overrides not applied: %+v", cfg)
	}
	if cfg.Timeout != 2*time.Minute {
		t.Fatalf("expected 2m, got %s", cfg.Timeout)
	}
	if cfg.Remote.URL != "http://localhost" {
		t.Fatalf("nested override not applied: '%s'", cfg.Remote.URL)
	}
}

func TestEnvOverride_Invalid(t *testing.T) {
	for name, value := range map[string]string{"APP_PORT": "eighty", "APP_TIMEOUT": "soon"} {
		t.Run(name, func(t *testing.T) {
			t.Setenv(name, value)
			var cfg testConfig
			if err := ApplyEnv(&cfg); err == nil {
				t.Fatalf("expected error for %s=%s", name, value)
			}
		})
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	t.Setenv("APP_PORT", "7070")

	cfg := testConfig{Name: "preset"}
	if err := LoadOrDefault("/nonexistent/config.yaml", &cfg); err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.Name != "preset" {
		t.Fatalf("expected defaults to survive, got '%s'", cfg.Name)
	}
	if cfg.Port != 7070 {
		t.Fatalf("expected env override without a file, got %d", cfg.Port)
	}
}

func TestApplyEnv_RejectsNonStruct(t *testing.T) {
	var n int
	if err := ApplyEnv(&n); err == nil {
		t.Fatal("expected error")
	}
}
