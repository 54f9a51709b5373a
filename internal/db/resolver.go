package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vvka-141/pgframe/internal/config"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// GranularConnFlags holds the libpq-style connection flags (-h, -p, -U, -d).
// There is no password flag: use $PGPASSWORD, .pgpass or a connection string.
type GranularConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty reports whether no server-selecting flag was given. Database is
// excluded because -d may override the database of a connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == ""
}

// AzureFlags selects Entra ID auth. The client secret is only read from
// $AZURE_CLIENT_SECRET.
type AzureFlags struct {
	Enabled  bool
	TenantID string
	ClientID string
}

// AWSFlags selects RDS IAM auth.
type AWSFlags struct {
	Enabled bool
	Region  string
}

// GoogleFlags selects Cloud SQL IAM auth.
type GoogleFlags struct {
	Enabled  bool
	Instance string
}

// CertFlags holds client certificate paths for mTLS.
type CertFlags struct {
	SSLCert     string
	SSLKey      string
	SSLRootCert string
}

// EnvVars holds the libpq and cloud SDK environment variables the resolver reads.
type EnvVars struct {
	PGHOST        string
	PGPORT        string
	PGUSER        string
	PGPASSWORD    string
	PGDATABASE    string
	PGSSLMODE     string
	PGSSLCERT     string
	PGSSLKEY      string
	PGSSLROOTCERT string

	AZURE_TENANT_ID     string
	AZURE_CLIENT_ID     string
	AZURE_CLIENT_SECRET string
	AWS_REGION          string
}

// LoadFromEnvironment reads EnvVars from the process environment.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGHOST:              os.Getenv("PGHOST"),
		PGPORT:              os.Getenv("PGPORT"),
		PGUSER:              os.Getenv("PGUSER"),
		PGPASSWORD:          os.Getenv("PGPASSWORD"),
		PGDATABASE:          os.Getenv("PGDATABASE"),
		PGSSLMODE:           os.Getenv("PGSSLMODE"),
		PGSSLCERT:           os.Getenv("PGSSLCERT"),
		PGSSLKEY:            os.Getenv("PGSSLKEY"),
		PGSSLROOTCERT:       os.Getenv("PGSSLROOTCERT"),
		AZURE_TENANT_ID:     os.Getenv("AZURE_TENANT_ID"),
		AZURE_CLIENT_ID:     os.Getenv("AZURE_CLIENT_ID"),
		AZURE_CLIENT_SECRET: os.Getenv("AZURE_CLIENT_SECRET"),
		AWS_REGION:          os.Getenv("AWS_REGION"),
	}
}

// ResolveConnectionParams resolves connection parameters. A connection
// string wins outright (with -d overriding its database); otherwise each
// field follows flag > environment > pgframe.yaml > default. Giving both a
// connection string and granular flags is an error. Cloud and certificate
// flags are applied last.
func ResolveConnectionParams(
	connString string,
	granular *GranularConnFlags,
	azure *AzureFlags,
	aws *AWSFlags,
	google *GoogleFlags,
	cert *CertFlags,
	env *EnvVars,
	projectConfig *config.ProjectConfig,
) (*pgframe.ConnectionConfig, error) {
	if granular == nil {
		granular = &GranularConnFlags{}
	}
	if azure == nil {
		azure = &AzureFlags{}
	}
	if aws == nil {
		aws = &AWSFlags{}
	}
	if google == nil {
		google = &GoogleFlags{}
	}
	if cert == nil {
		cert = &CertFlags{}
	}
	if env == nil {
		env = &EnvVars{}
	}

	if connString != "" && !granular.IsEmpty() {
		return nil, fmt.Errorf("cannot combine a connection string with -h, -p, -U or --sslmode\n"+
			"Choose one:\n"+
			"  --connection \"postgresql://user@localhost:5432/mydb\"\n"+
			"  -h localhost -p 5432 -U myuser -d mydb: %w", pgframe.ErrInvalidConfig)
	}

	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	var cfg *pgframe.ConnectionConfig
	var err error
	if connString != "" {
		cfg, err = ParseConnectionString(connString)
		if err != nil {
			return nil, err
		}
		if granular.Database != "" {
			cfg.Database = granular.Database
		}
	} else {
		cfg, err = resolveFromGranularParams(granular, env, pc)
		if err != nil {
			return nil, err
		}
	}

	applyCertAuth(cfg, cert, env, pc)
	if err := applyCloudAuth(cfg, azure, aws, google, env, pc); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveFromGranularParams(flags *GranularConnFlags, env *EnvVars, pc config.ConnectionConfig) (*pgframe.ConnectionConfig, error) {
	cfg := &pgframe.ConnectionConfig{
		AuthMethod:       pgframe.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}

	cfg.Host = firstNonEmpty(flags.Host, env.PGHOST, pc.Host, "localhost")

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case env.PGPORT != "":
		port, err := strconv.Atoi(env.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT value %q: %w", env.PGPORT, pgframe.ErrInvalidConfig)
		}
		cfg.Port = port
	case pc.Port != 0:
		cfg.Port = pc.Port
	default:
		cfg.Port = 5432
	}

	cfg.Username = firstNonEmpty(flags.Username, env.PGUSER, pc.Username, os.Getenv("USER"), os.Getenv("USERNAME"))
	cfg.Password = env.PGPASSWORD
	cfg.Database = firstNonEmpty(flags.Database, env.PGDATABASE, pc.Database, pgframe.DefaultDatabase)
	cfg.SSLMode = firstNonEmpty(flags.SSLMode, env.PGSSLMODE, pc.SSLMode, "prefer")
	return cfg, nil
}

func applyCertAuth(cfg *pgframe.ConnectionConfig, flags *CertFlags, env *EnvVars, pc config.ConnectionConfig) {
	cfg.SSLCert = firstNonEmpty(flags.SSLCert, cfg.SSLCert, env.PGSSLCERT, pc.SSLCert)
	cfg.SSLKey = firstNonEmpty(flags.SSLKey, cfg.SSLKey, env.PGSSLKEY, pc.SSLKey)
	cfg.SSLRootCert = firstNonEmpty(flags.SSLRootCert, cfg.SSLRootCert, env.PGSSLROOTCERT, pc.SSLRootCert)
	if cfg.SSLCert != "" && cfg.AuthMethod == pgframe.AuthMethodStandard {
		cfg.AuthMethod = pgframe.AuthMethodCertificate
	}
}

// applyCloudAuth enables at most one cloud auth method, chosen by flag or by
// auth_method in pgframe.yaml.
func applyCloudAuth(cfg *pgframe.ConnectionConfig, azure *AzureFlags, aws *AWSFlags, google *GoogleFlags, env *EnvVars, pc config.ConnectionConfig) error {
	enabled := 0
	for _, on := range []bool{azure.Enabled, aws.Enabled, google.Enabled} {
		if on {
			enabled++
		}
	}
	if enabled > 1 {
		return fmt.Errorf("only one of --azure, --aws, --google may be set: %w", pgframe.ErrInvalidConfig)
	}

	method := ""
	switch {
	case azure.Enabled:
		method = "azure"
	case aws.Enabled:
		method = "aws"
	case google.Enabled:
		method = "google"
	default:
		method = pc.AuthMethod
	}

	switch method {
	case "", "standard":
	case "azure":
		cfg.AuthMethod = pgframe.AuthMethodAzureEntraID
		cfg.AzureTenantID = firstNonEmpty(azure.TenantID, env.AZURE_TENANT_ID, pc.AzureTenantID)
		cfg.AzureClientID = firstNonEmpty(azure.ClientID, env.AZURE_CLIENT_ID, pc.AzureClientID)
		cfg.AzureClientSecret = env.AZURE_CLIENT_SECRET
	case "aws":
		cfg.AuthMethod = pgframe.AuthMethodAWSIAM
		cfg.AWSRegion = firstNonEmpty(aws.Region, env.AWS_REGION, pc.AWSRegion)
	case "google":
		cfg.AuthMethod = pgframe.AuthMethodGoogleIAM
		cfg.GoogleInstance = firstNonEmpty(google.Instance, pc.GoogleInstance)
	default:
		return fmt.Errorf("auth_method %q: %w", method, pgframe.ErrUnsupportedAuthMethod)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
