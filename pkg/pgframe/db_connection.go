package pgframe

import (
	"context"
	"io"

	"github.com/jackc/pgx/v5/pgconn"
)

// DBConnection abstracts the database operations the table writer/reader needs.
// This interface decouples the public API from pgx-specific types while providing
// statement execution, row reads and dedicated connections for COPY.
//
// Thread-Safety: the writer/reader assumes exclusive use of the connection for
// the duration of each call. Concurrent use must be serialized by the caller.
type DBConnection interface {
	// Exec executes a statement without returning any rows.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	// QueryRow executes a query that is expected to return at most one row.
	// Always returns a non-nil Row. Errors are deferred until Row's Scan method is called.
	QueryRow(ctx context.Context, sql string, args ...any) Row

	// Query executes a query and returns its result set.
	// The caller must Close the returned Rows.
	Query(ctx context.Context, sql string, args ...any) (Rows, error)

	// Acquire obtains a dedicated connection for a single unit of work
	// (one DDL statement or one COPY).
	// Caller must call Release() on the returned PooledConnection when done.
	Acquire(ctx context.Context) (PooledConnection, error)
}

// Row represents a single row returned by QueryRow.
type Row interface {
	// Scan reads the values from the row into dest values.
	Scan(dest ...any) error
}

// Rows is a forward-only result set. pgx.Rows satisfies it.
type Rows interface {
	FieldDescriptions() []pgconn.FieldDescription
	Next() bool
	Values() ([]any, error)
	Err() error
	Close()
}

// PooledConnection represents a connection acquired for one unit of work.
// The caller must call Release() when done.
type PooledConnection interface {
	// Exec executes a statement on this specific connection.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	// CopyFrom streams r to the server using the COPY FROM STDIN text protocol.
	// sql must be a COPY ... FROM STDIN statement.
	CopyFrom(ctx context.Context, r io.Reader, sql string) (pgconn.CommandTag, error)

	// Release returns the connection.
	// After calling Release, the connection should not be used.
	Release()
}
