// Package config loads pgframe.yaml, the optional per-directory settings file
// for the pgframe CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vvka-141/pgframe/pkg/pgframe"
	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ConnectionConfig is the connection block of pgframe.yaml. Secrets are not
// accepted here; use $PGPASSWORD, .pgpass or the cloud credential chains.
type ConnectionConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Username       string `yaml:"username"`
	Database       string `yaml:"database"`
	SSLMode        string `yaml:"sslmode"`
	SSLCert        string `yaml:"sslcert,omitempty"`
	SSLKey         string `yaml:"sslkey,omitempty"`
	SSLRootCert    string `yaml:"sslrootcert,omitempty"`
	AuthMethod     string `yaml:"auth_method,omitempty"`
	AzureTenantID  string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string `yaml:"azure_client_id,omitempty"`
	AWSRegion      string `yaml:"aws_region,omitempty"`
	GoogleInstance string `yaml:"google_instance,omitempty"`
}

// Defaults holds fallbacks for load and dump flags.
type Defaults struct {
	Schema   string `yaml:"schema"`
	IfExists string `yaml:"if_exists"`
	Format   string `yaml:"format"`
	Timeout  string `yaml:"timeout"`
}

// ProjectConfig is the whole pgframe.yaml document.
type ProjectConfig struct {
	Connection ConnectionConfig `yaml:"connection"`
	Defaults   Defaults         `yaml:"defaults"`
}

const ConfigFileName = "pgframe.yaml"

// Load reads dir/pgframe.yaml.
func Load(dir string) (*ProjectConfig, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return &cfg, nil
}

// Validate checks the defaults block.
func (c *ProjectConfig) Validate() error {
	var errs []error
	if c.Defaults.IfExists != "" {
		if _, err := pgframe.ParseExistsPolicy(c.Defaults.IfExists); err != nil {
			errs = append(errs, fmt.Errorf("defaults.if_exists: %w", pgframe.ErrInvalidConfig))
		}
	}
	if c.Defaults.Timeout != "" {
		if _, err := time.ParseDuration(c.Defaults.Timeout); err != nil {
			errs = append(errs, fmt.Errorf("defaults.timeout %q: %w", c.Defaults.Timeout, pgframe.ErrInvalidConfig))
		}
	}
	if c.Connection.Port < 0 || c.Connection.Port > 65535 {
		errs = append(errs, fmt.Errorf("connection.port %d out of range: %w", c.Connection.Port, pgframe.ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

// TimeoutOr returns the configured default timeout, or fallback when unset.
// Load has already validated the value.
func (c *ProjectConfig) TimeoutOr(fallback time.Duration) time.Duration {
	if c == nil || c.Defaults.Timeout == "" {
		return fallback
	}
	d, err := time.ParseDuration(c.Defaults.Timeout)
	if err != nil {
		return fallback
	}
	return d
}
