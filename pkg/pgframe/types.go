package pgframe

import (
	"errors"
	"fmt"
	"time"
)

// LoadConfig contains all parameters needed for a CLI load operation.
type LoadConfig struct {
	// SourcePath is the data file to load ("-" reads stdin)
	SourcePath string

	// Format is the input format: csv, tsv or json
	Format string

	// Delimiter is the csv field separator; zero means ','
	Delimiter rune

	// NullValues are cell texts read as NULL in addition to the empty cell
	NullValues []string

	// Target is the destination table
	Target TableIdentity

	// Policy decides what happens when Target already exists
	Policy ExistsPolicy

	// Force skips the interactive approval for the replace policy
	Force bool

	// Connection holds the resolved connection parameters
	Connection *ConnectionConfig

	// Timeout is the global timeout for the entire load
	Timeout time.Duration

	// Verbose enables detailed logging
	Verbose bool
}

// Validate checks if the LoadConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *LoadConfig) Validate() error {
	var errs []error

	if c.SourcePath == "" {
		errs = append(errs, fmt.Errorf("SourcePath is required: %w", ErrInvalidConfig))
	}

	switch c.Format {
	case "csv", "tsv", "json":
	default:
		errs = append(errs, fmt.Errorf("unsupported input format %q: %w", c.Format, ErrInvalidConfig))
	}

	if c.Delimiter == '\n' || c.Delimiter == '\r' || c.Delimiter == '"' {
		errs = append(errs, fmt.Errorf("invalid delimiter %q: %w", c.Delimiter, ErrInvalidConfig))
	}
	if c.Delimiter != 0 && c.Format != "csv" {
		errs = append(errs, fmt.Errorf("delimiter applies only to csv input, not %s: %w", c.Format, ErrInvalidConfig))
	}

	if err := c.Target.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("target: %w", err))
	}

	if !c.Policy.IsValid() {
		errs = append(errs, fmt.Errorf("invalid policy %v: %w", c.Policy, ErrInvalidConfig))
	}

	if c.Force && c.Policy != PolicyReplace {
		errs = append(errs, fmt.Errorf("force flag requires --if-exists replace: %w", ErrInvalidConfig))
	}

	if c.Connection == nil {
		errs = append(errs, fmt.Errorf("Connection is required: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// DumpConfig contains all parameters needed for a CLI dump operation.
type DumpConfig struct {
	// Request selects the table or query to read
	Request ReadRequest

	// Format is the output format: table, csv, tsv or json
	Format string

	// OutputPath is the destination file; empty means stdout
	OutputPath string

	// Connection holds the resolved connection parameters
	Connection *ConnectionConfig

	// Timeout is the global timeout for the entire dump
	Timeout time.Duration

	// Verbose enables detailed logging
	Verbose bool
}

// Validate checks if the DumpConfig has all required fields and valid values.
func (c *DumpConfig) Validate() error {
	var errs []error

	if err := c.Request.Validate(); err != nil {
		errs = append(errs, err)
	}

	switch c.Format {
	case "table", "csv", "tsv", "json":
	default:
		errs = append(errs, fmt.Errorf("unsupported output format %q: %w", c.Format, ErrInvalidConfig))
	}

	if c.Connection == nil {
		errs = append(errs, fmt.Errorf("Connection is required: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// Client certificate authentication (AuthMethodCertificate)
	SSLCert     string
	SSLKey      string
	SSLRootCert string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID)
	// If all three are provided, Service Principal authentication is used.
	// If none are provided, DefaultAzureCredential chain is used (env vars, managed identity, CLI, etc.)
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// AWSRegion is required for AuthMethodAWSIAM
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance (project:region:instance) for AuthMethodGoogleIAM
	GoogleInstance string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodCertificate                    // mTLS
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodCertificate:
		return "Certificate"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}
