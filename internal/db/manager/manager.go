package manager

import (
	"context"
	"fmt"

	"github.com/vvka-141/pgframe/internal/schema"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// pg_class lists every table regardless of the caller's privileges.
const queryTableExists = `SELECT EXISTS (
	SELECT 1 FROM pg_catalog.pg_class c
	JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
	WHERE n.nspname = $1 AND c.relname = $2 AND c.relkind IN ('r', 'p')
)`

// Manager implements table lifecycle operations using the DBConnection abstraction.
// Stateless; thread safety depends on the injected DBConnection.
type Manager struct{}

// New creates a new TableManager instance.
func New() pgframe.TableManager {
	return &Manager{}
}

// Exists checks the catalog for the table. A failed lookup is an error,
// never a "not found".
func (m *Manager) Exists(ctx context.Context, conn pgframe.DBConnection, ident pgframe.TableIdentity) (bool, error) {
	var exists bool
	err := conn.QueryRow(ctx, queryTableExists, ident.Schema, ident.Table).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check existence of table %s: %w: %w", ident, pgframe.ErrBackend, err)
	}
	return exists, nil
}

// Create creates the table with one column per descriptor.
func (m *Manager) Create(ctx context.Context, conn pgframe.DBConnection, ident pgframe.TableIdentity, columns []pgframe.ColumnDescriptor) error {
	if len(columns) == 0 {
		return fmt.Errorf("table %s needs at least one column: %w", ident, pgframe.ErrDataShape)
	}
	return m.execDDL(ctx, conn, schema.CreateTableSQL(ident, columns), "create", ident)
}

// Drop drops the table.
func (m *Manager) Drop(ctx context.Context, conn pgframe.DBConnection, ident pgframe.TableIdentity) error {
	return m.execDDL(ctx, conn, schema.DropTableSQL(ident), "drop", ident)
}

func (m *Manager) execDDL(ctx context.Context, conn pgframe.DBConnection, query, verb string, ident pgframe.TableIdentity) error {
	pooledConn, err := conn.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w: %w", pgframe.ErrBackend, err)
	}
	defer pooledConn.Release()

	if _, err := pooledConn.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to %s table %s: %w: %w", verb, ident, pgframe.ErrBackend, err)
	}
	return nil
}

// Verify Manager implements the TableManager interface at compile time
var _ pgframe.TableManager = (*Manager)(nil)
