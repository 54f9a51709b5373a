package db

import (
	"context"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// PoolAdapter adapts *pgxpool.Pool to implement the pgframe.DBConnection interface.
// This decouples the public API from pgx-specific pool types.
//
// Thread-Safety: Safe for concurrent use (pgxpool.Pool is thread-safe).
type PoolAdapter struct {
	pool *pgxpool.Pool
}

// NewPoolAdapter creates a new PoolAdapter wrapping the given pool.
func NewPoolAdapter(pool *pgxpool.Pool) pgframe.DBConnection {
	return &PoolAdapter{pool: pool}
}

// Exec executes a statement without returning any rows.
func (p *PoolAdapter) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return p.pool.Exec(ctx, sql, args...)
}

// QueryRow executes a query that is expected to return at most one row.
func (p *PoolAdapter) QueryRow(ctx context.Context, sql string, args ...any) pgframe.Row {
	return p.pool.QueryRow(ctx, sql, args...)
}

// Query executes a query and returns its rows.
func (p *PoolAdapter) Query(ctx context.Context, sql string, args ...any) (pgframe.Rows, error) {
	return p.pool.Query(ctx, sql, args...)
}

// Acquire obtains a dedicated connection from the pool.
func (p *PoolAdapter) Acquire(ctx context.Context) (pgframe.PooledConnection, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &pooledConnAdapter{conn: conn}, nil
}

// pooledConnAdapter adapts *pgxpool.Conn to implement pgframe.PooledConnection.
type pooledConnAdapter struct {
	conn *pgxpool.Conn
}

func (p *pooledConnAdapter) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return p.conn.Exec(ctx, sql, args...)
}

func (p *pooledConnAdapter) CopyFrom(ctx context.Context, r io.Reader, sql string) (pgconn.CommandTag, error) {
	return p.conn.Conn().PgConn().CopyFrom(ctx, r, sql)
}

// Release returns the connection to the pool.
func (p *pooledConnAdapter) Release() {
	p.conn.Release()
}

// ConnAdapter adapts a single *pgx.Conn to pgframe.DBConnection.
// Acquire hands out the same connection every time; Release is a no-op.
//
// Thread-Safety: NOT safe for concurrent use, like *pgx.Conn itself.
type ConnAdapter struct {
	conn *pgx.Conn
}

// NewConnAdapter creates a new ConnAdapter wrapping conn. The caller keeps
// ownership of conn and closes it.
func NewConnAdapter(conn *pgx.Conn) pgframe.DBConnection {
	return &ConnAdapter{conn: conn}
}

func (c *ConnAdapter) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return c.conn.Exec(ctx, sql, args...)
}

func (c *ConnAdapter) QueryRow(ctx context.Context, sql string, args ...any) pgframe.Row {
	return c.conn.QueryRow(ctx, sql, args...)
}

func (c *ConnAdapter) Query(ctx context.Context, sql string, args ...any) (pgframe.Rows, error) {
	return c.conn.Query(ctx, sql, args...)
}

func (c *ConnAdapter) Acquire(_ context.Context) (pgframe.PooledConnection, error) {
	return borrowedConn{conn: c.conn}, nil
}

type borrowedConn struct {
	conn *pgx.Conn
}

func (b borrowedConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return b.conn.Exec(ctx, sql, args...)
}

func (b borrowedConn) CopyFrom(ctx context.Context, r io.Reader, sql string) (pgconn.CommandTag, error) {
	return b.conn.PgConn().CopyFrom(ctx, r, sql)
}

func (borrowedConn) Release() {}

// Verify adapters implement DBConnection at compile time
var (
	_ pgframe.DBConnection = (*PoolAdapter)(nil)
	_ pgframe.DBConnection = (*ConnAdapter)(nil)
)
