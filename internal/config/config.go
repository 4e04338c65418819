// Package config loads the service configuration from YAML, with env
// overrides for the values that should not live in a file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     Server     `yaml:"server" json:"server"`
	Auth       Auth       `yaml:"auth" json:"auth"`
	Storage    Storage    `yaml:"storage" json:"storage"`
	Generation Generation `yaml:"generation" json:"generation"`
	CRM        CRM        `yaml:"crm" json:"crm"`
}

type Server struct {
	Addr        string   `yaml:"addr" json:"addr"`
	CORSOrigins []string `yaml:"cors_origins" json:"cors_origins"`
}

type Auth struct {
	JWTSecret     string `yaml:"jwt_secret" json:"-"`
	TokenTTLHours int    `yaml:"token_ttl_hours" json:"token_ttl_hours"`
	// DevMode exposes POST /api/auth/token for local testing.
	DevMode bool `yaml:"dev_mode" json:"dev_mode"`
}

func (a Auth) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLHours) * time.Hour
}

type Storage struct {
	// Driver: "sqlite" or "postgres". Empty means in-memory repos, which
	// lose everything on restart; dev only.
	Driver string `yaml:"driver" json:"driver"`
	DSN    string `yaml:"dsn" json:"-"`
}

type Generation struct {
	DefaultTimezone string `yaml:"default_timezone" json:"default_timezone"`
	DefaultScore    int    `yaml:"default_score" json:"default_score"`
}

type CRM struct {
	Enabled        bool   `yaml:"enabled" json:"enabled"`
	BaseURL        string `yaml:"base_url" json:"base_url"`
	APIKey         string `yaml:"api_key" json:"-"`
	TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"`
}

func (c CRM) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *Config) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"*"}
	}
	if c.Auth.TokenTTLHours <= 0 {
		c.Auth.TokenTTLHours = 720
	}
	if c.Generation.DefaultTimezone == "" {
		c.Generation.DefaultTimezone = "America/New_York"
	}
	if c.Generation.DefaultScore <= 0 {
		c.Generation.DefaultScore = 50
	}
	if c.CRM.TimeoutSeconds <= 0 {
		c.CRM.TimeoutSeconds = 10
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("AGENTPULSE_JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("AGENTPULSE_DSN"); v != "" {
		c.Storage.DSN = v
	}
	if v := os.Getenv("AGENTPULSE_CRM_API_KEY"); v != "" {
		c.CRM.APIKey = v
	}
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret (or AGENTPULSE_JWT_SECRET) is required")
	}
	if c.Storage.Driver != "" && c.Storage.DSN == "" {
		return fmt.Errorf("storage.dsn is required when storage.driver is set")
	}
	return nil
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
