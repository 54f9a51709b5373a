package testinfra

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// SSLPostgresImage ships the bash SSL entrypoint used by StartPostgres.
	SSLPostgresImage    = "alexeye/postgres-azure-flex:17"
	SimplePostgresImage = "postgres:17-alpine"

	PostgresUser     = "postgres"
	PostgresPassword = "postgres"
	PostgresDB       = "postgres"

	containerCertDir  = "/tmp/testcontainers-go/postgres"
	sslEntrypointPath = "/usr/local/bin/docker-entrypoint-ssl.bash"
)

// PostgresContainer is a running server plus a ready-to-use connection string.
type PostgresContainer struct {
	*postgres.PostgresContainer
	ConnString string
}

func run(ctx context.Context, image, connParams string, opts ...testcontainers.ContainerCustomizer) (*PostgresContainer, error) {
	opts = append([]testcontainers.ContainerCustomizer{
		postgres.WithUsername(PostgresUser),
		postgres.WithPassword(PostgresPassword),
		postgres.WithDatabase(PostgresDB),
	}, opts...)
	opts = append(opts, testcontainers.WithWaitStrategy(
		wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60*time.Second),
	))

	ctr, err := postgres.Run(ctx, image, opts...)
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", image, err)
	}

	connStr, err := ctr.ConnectionString(ctx, connParams)
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get connection string: %w", err)
	}
	return &PostgresContainer{PostgresContainer: ctr, ConnString: connStr}, nil
}

// sslOptions mounts the bundle and switches to the bash entrypoint;
// WithSSLCert alone uses sh, which lacks pipefail on Debian.
func sslOptions(certPaths *CertPaths) ([]testcontainers.ContainerCustomizer, error) {
	confPath, err := writeSSLConfig(filepath.Dir(certPaths.CACert))
	if err != nil {
		return nil, err
	}
	return []testcontainers.ContainerCustomizer{
		postgres.WithSSLCert(certPaths.CACert, certPaths.ServerCert, certPaths.ServerKey),
		postgres.WithConfigFile(confPath),
		testcontainers.WithEntrypoint("bash", sslEntrypointPath),
	}, nil
}

// StartPostgres starts a server that accepts both plain and SSL password logins.
func StartPostgres(ctx context.Context, certPaths *CertPaths) (*PostgresContainer, error) {
	opts, err := sslOptions(certPaths)
	if err != nil {
		return nil, err
	}
	return run(ctx, SSLPostgresImage, "sslmode=disable", opts...)
}

// StartMTLSPostgres starts a server that only accepts client certificates.
func StartMTLSPostgres(ctx context.Context, certPaths *CertPaths) (*PostgresContainer, error) {
	opts, err := sslOptions(certPaths)
	if err != nil {
		return nil, err
	}
	initScript, err := writeMTLSInitScript(filepath.Dir(certPaths.CACert))
	if err != nil {
		return nil, err
	}
	opts = append(opts, postgres.WithInitScripts(initScript))
	return run(ctx, SSLPostgresImage, "sslmode=verify-ca", opts...)
}

// StartSimplePostgres starts a plain server for table round-trip tests.
func StartSimplePostgres(ctx context.Context) (*PostgresContainer, error) {
	return run(ctx, SimplePostgresImage, "sslmode=disable")
}

func writeSSLConfig(dir string) (string, error) {
	conf := fmt.Sprintf(`listen_addresses = '*'
ssl = on
ssl_cert_file = '%[1]s/server.cert'
ssl_key_file = '%[1]s/server.key'
ssl_ca_file = '%[1]s/ca_cert.pem'
`, containerCertDir)

	path := filepath.Join(dir, "postgresql.conf")
	if err := os.WriteFile(path, []byte(conf), 0644); err != nil {
		return "", fmt.Errorf("write postgresql.conf: %w", err)
	}
	return path, nil
}

func writeMTLSInitScript(dir string) (string, error) {
	script := `#!/bin/bash
cat > "$PGDATA/pg_hba.conf" << 'PGEOF'
local   all all                trust
hostssl all all 0.0.0.0/0      cert clientcert=verify-full
hostssl all all ::/0            cert clientcert=verify-full
PGEOF
`
	path := filepath.Join(dir, "init-mtls.sh")
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		return "", fmt.Errorf("write init script: %w", err)
	}
	return path, nil
}
