package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var connectionEnvVars = []string{
	"PGFRAME_CONNECTION_STRING", "DATABASE_URL",
	"PGHOST", "PGPORT", "PGUSER", "PGPASSWORD", "PGDATABASE", "PGSSLMODE",
	"PGSSLCERT", "PGSSLKEY", "PGSSLROOTCERT",
	"AZURE_TENANT_ID", "AZURE_CLIENT_ID", "AZURE_CLIENT_SECRET", "AWS_REGION",
}

// clearConnectionEnv isolates a test from the developer's PG* environment.
func clearConnectionEnv(t *testing.T) {
	t.Helper()
	for _, name := range connectionEnvVars {
		t.Setenv(name, "")
	}
}

func writeProjectConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pgframe.yaml"), []byte(content), 0o644))
}
