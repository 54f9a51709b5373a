// Package tables is the library entry point for writing frames to PostgreSQL
// and reading tables or queries back.
//
// # Example Usage
//
//	pool, _ := pgxpool.New(ctx, "postgresql://localhost/app")
//	conn := tables.FromPool(pool)
//
//	err := tables.WriteTable(ctx, conn, f, "public", "people", pgframe.PolicyReplace)
//	if errors.Is(err, pgframe.ErrConflict) {
//	    // only with PolicyFail
//	}
//
//	people, err := tables.ReadTable(ctx, conn, pgframe.ReadRequest{Schema: "public", Table: "people"})
//
// Every call is synchronous. The connection must not be used concurrently
// by other callers while a call is in progress.
package tables

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/pgframe/internal/bulk"
	"github.com/vvka-141/pgframe/internal/db"
	"github.com/vvka-141/pgframe/internal/db/manager"
	"github.com/vvka-141/pgframe/internal/logging"
	"github.com/vvka-141/pgframe/internal/services"
	"github.com/vvka-141/pgframe/pkg/frame"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

type options struct {
	logger pgframe.Logger
}

// Option configures WriteTable and ReadTable.
type Option func(*options)

// WithLogger routes diagnostics to logger. The default discards them.
func WithLogger(logger pgframe.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newService(opts []Option) *services.TableService {
	o := options{logger: logging.NewNullLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return services.NewTableService(manager.New(), bulk.NewCopyLoader(o.logger), o.logger)
}

// WriteTable provisions schema.table according to policy and bulk-loads data.
// Errors wrap pgframe.ErrValidation, ErrConflict, ErrBackend or ErrDataShape.
func WriteTable(ctx context.Context, conn pgframe.DBConnection, data *frame.Frame, schema, table string, policy pgframe.ExistsPolicy, opts ...Option) error {
	ident := pgframe.TableIdentity{Schema: schema, Table: table}
	return newService(opts).Write(ctx, conn, data, ident, policy)
}

// ReadTable materialises req. Set either req.Query or req.Schema and req.Table.
// Errors wrap pgframe.ErrValidation or ErrBackend.
func ReadTable(ctx context.Context, conn pgframe.DBConnection, req pgframe.ReadRequest, opts ...Option) (*frame.Frame, error) {
	return newService(opts).Read(ctx, conn, req)
}

// FromPool adapts a pgx pool. Each DDL statement and each COPY runs on its
// own acquired connection.
func FromPool(pool *pgxpool.Pool) pgframe.DBConnection {
	return db.NewPoolAdapter(pool)
}

// FromConn adapts a single pgx connection.
func FromConn(conn *pgx.Conn) pgframe.DBConnection {
	return db.NewConnAdapter(conn)
}
