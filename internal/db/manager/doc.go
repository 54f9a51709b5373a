// Package manager provides table provisioning operations for PostgreSQL.
//
// The manager package offers the three operations the write path needs:
//   - Checking table existence through pg_catalog.pg_class (tables only, privilege independent)
//   - Creating a table from inferred column descriptors
//   - Dropping an existing table
//
// All identifiers are quoted with pgx.Identifier.Sanitize(), so schema, table
// and column names may contain spaces, quotes or mixed case. Values such as
// the names passed to the catalog lookup are sent as query parameters.
//
// # Example Usage
//
//	mgr := manager.New()
//
//	exists, err := mgr.Exists(ctx, conn, ident)
//	if !exists {
//	    err = mgr.Create(ctx, conn, ident, columns)
//	}
//
// Each Create and Drop runs as one autocommitted statement on an acquired
// connection, so a replace (drop then create) is not atomic.
package manager
