package testing

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/pgframe/internal/bulk"
	"github.com/vvka-141/pgframe/internal/db"
	"github.com/vvka-141/pgframe/internal/db/manager"
	"github.com/vvka-141/pgframe/internal/logging"
	"github.com/vvka-141/pgframe/internal/services"
	"github.com/vvka-141/pgframe/internal/testinfra"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// TestConnEnvVar points integration tests at an existing server instead of a container.
const TestConnEnvVar = "PGFRAME_TEST_CONN"

var (
	testContainerOnce sync.Once
	testContainerConn string
	testContainerErr  error
)

func getOrStartTestContainer() (string, error) {
	testContainerOnce.Do(func() {
		container, err := testinfra.StartSimplePostgres(context.Background())
		if err != nil {
			testContainerErr = err
			return
		}
		testContainerConn = container.ConnString
	})
	return testContainerConn, testContainerErr
}

// GetTestConnectionString returns $PGFRAME_TEST_CONN, or starts a shared
// container, or skips the test when Docker is unavailable.
func GetTestConnectionString(t *testing.T) string {
	t.Helper()

	if connString := os.Getenv(TestConnEnvVar); connString != "" {
		return connString
	}
	connString, err := getOrStartTestContainer()
	if err != nil {
		t.Skipf("%s not set and Docker unavailable: %v", TestConnEnvVar, err)
	}
	return connString
}

// SkipIfShort skips the test in -short mode.
func SkipIfShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// RequireDatabase combines SkipIfShort and GetTestConnectionString.
func RequireDatabase(t *testing.T) string {
	t.Helper()
	SkipIfShort(t)
	return GetTestConnectionString(t)
}

// GetTestPool opens a pool for connString, closed when the test completes.
func GetTestPool(t *testing.T, connString string) *pgxpool.Pool {
	t.Helper()

	config, err := db.ParseConnectionString(connString)
	if err != nil {
		t.Fatalf("Failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.New(context.Background(), db.BuildConnectionString(config))
	if err != nil {
		t.Fatalf("Failed to create connection pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// UniqueTable returns a table identity in public that no other test uses,
// and drops the table when the test completes.
func UniqueTable(t *testing.T, pool *pgxpool.Pool, prefix string) pgframe.TableIdentity {
	t.Helper()
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	ident := pgframe.TableIdentity{Schema: pgframe.DefaultSchema, Table: fmt.Sprintf("%s_%s", prefix, suffix)}
	t.Cleanup(func() {
		if _, err := pool.Exec(context.Background(), "DROP TABLE IF EXISTS "+ident.Sanitize()); err != nil {
			t.Logf("Warning: Failed to drop %s: %v", ident, err)
		}
	})
	return ident
}

// UniqueSchema creates a throwaway schema and drops it with CASCADE when the test completes.
func UniqueSchema(t *testing.T, pool *pgxpool.Pool, prefix string) string {
	t.Helper()
	name := fmt.Sprintf("%s_%s", prefix, strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
	quoted := pgx.Identifier{name}.Sanitize()
	if _, err := pool.Exec(context.Background(), "CREATE SCHEMA "+quoted); err != nil {
		t.Fatalf("Failed to create schema %s: %v", name, err)
	}
	t.Cleanup(func() {
		if _, err := pool.Exec(context.Background(), "DROP SCHEMA IF EXISTS "+quoted+" CASCADE"); err != nil {
			t.Logf("Warning: Failed to drop schema %s: %v", name, err)
		}
	})
	return name
}

// NewTestTableService wires the production manager and loader with logger.
// A nil logger discards output.
func NewTestTableService(logger pgframe.Logger) *services.TableService {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return services.NewTableService(manager.New(), bulk.NewCopyLoader(logger), logger)
}

// ForceApprover approves every replace request.
type ForceApprover struct{}

func (ForceApprover) RequestApproval(context.Context, string) (bool, error) {
	return true, nil
}

// DenyApprover refuses every replace request.
type DenyApprover struct{}

func (DenyApprover) RequestApproval(context.Context, string) (bool, error) {
	return false, nil
}
