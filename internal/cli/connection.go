package cli

import (
	"os"

	"github.com/vvka-141/pgframe/internal/config"
	"github.com/vvka-141/pgframe/internal/db"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// connectionStringFromEnv returns the first non-empty connection string from
// PGFRAME_CONNECTION_STRING or DATABASE_URL environment variables.
func connectionStringFromEnv() string {
	if s := os.Getenv("PGFRAME_CONNECTION_STRING"); s != "" {
		return s
	}
	return os.Getenv("DATABASE_URL")
}

// resolveConnection consolidates connection resolution for the load and dump commands.
// A --connection flag wins over the environment connection string.
func resolveConnection(flags connectionFlags, projectConfig *config.ProjectConfig) (*pgframe.ConnectionConfig, error) {
	connString := flags.connection
	if connString == "" && flags.granular().IsEmpty() {
		connString = connectionStringFromEnv()
	}

	return db.ResolveConnectionParams(
		connString,
		flags.granular(),
		&db.AzureFlags{Enabled: flags.azure, TenantID: flags.azureTenantID, ClientID: flags.azureClientID},
		&db.AWSFlags{Enabled: flags.aws, Region: flags.awsRegion},
		&db.GoogleFlags{Enabled: flags.google, Instance: flags.googleInstance},
		&db.CertFlags{SSLCert: flags.sslCert, SSLKey: flags.sslKey, SSLRootCert: flags.sslRootCert},
		db.LoadFromEnvironment(),
		projectConfig,
	)
}
