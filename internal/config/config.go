// Package config provides capsule-mcp configuration management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/RobinCoderZhao/capsule-mcp/pkg/capsule"
	appconfig "github.com/RobinCoderZhao/capsule-mcp/pkg/config"
)

// FileName is looked up in the working directory, then in the home directory.
const FileName = ".capsule-mcp.yaml"

// Config is the main configuration for capsule-mcp.
type Config struct {
	Capsule capsule.Config `yaml:"capsule"`
	Server  ServerConfig   `yaml:"server"`
	Log     LogConfig      `yaml:"log"`
}

// ServerConfig holds transport settings.
type ServerConfig struct {
	Transport string `yaml:"transport"` // "stdio" or "http"
	Addr      string `yaml:"addr" env:"CAPSULE_MCP_HTTP_ADDR"`
	AuthToken string `yaml:"auth_token" env:"CAPSULE_MCP_AUTH_TOKEN"`
	JWTSecret string `yaml:"jwt_secret" env:"CAPSULE_MCP_JWT_SECRET"`
}

// LogConfig holds logging settings. An empty File logs to stderr.
type LogConfig struct {
	Level      string `yaml:"level" env:"CAPSULE_MCP_LOG_LEVEL"` // debug, info, warn, error
	File       string `yaml:"file" env:"CAPSULE_MCP_LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Capsule: capsule.Config{
			BaseURL:   capsule.DefaultBaseURL,
			Timeout:   30 * time.Second,
			UserAgent: "capsule-mcp",
		},
		Server: ServerConfig{
			Transport: "stdio",
			Addr:      "127.0.0.1:8080",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Load reads path over the defaults. An empty path looks for FileName in the
// working directory and then in the home directory; a missing file is not an
// error. Environment variables override file values.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := appconfig.Load(path, &cfg); err != nil {
			return cfg, err
		}
		return cfg, cfg.validate()
	}

	if _, err := os.Stat(FileName); err == nil {
		if err := appconfig.Load(FileName, &cfg); err != nil {
			return cfg, err
		}
		return cfg, cfg.validate()
	}

	globalPath := FileName
	if home, err := os.UserHomeDir(); err == nil {
		globalPath = filepath.Join(home, FileName)
	}
	if err := appconfig.LoadOrDefault(globalPath, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Server.Transport {
	case "stdio", "http":
	default:
		return fmt.Errorf("unknown transport %q", c.Server.Transport)
	}
	return nil
}
