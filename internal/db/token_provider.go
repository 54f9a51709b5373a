package db

import (
	"context"
	"time"
)

// TokenProvider supplies short-lived cloud tokens used as the PostgreSQL password.
type TokenProvider interface {
	// GetToken returns a token and the time it stops being accepted.
	GetToken(ctx context.Context) (token string, expiresOn time.Time, err error)

	// String describes the provider for log messages. It must not include secrets.
	String() string
}

// AzurePostgreSQLScope is the Entra ID scope for Azure Database for PostgreSQL.
const AzurePostgreSQLScope = "https://ossrdbms-aad.database.windows.net/.default"

// rdsTokenLifetime is how long AWS accepts an RDS auth token.
const rdsTokenLifetime = 15 * time.Minute
