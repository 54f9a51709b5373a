package services

import (
	"context"
	"fmt"

	"github.com/vvka-141/pgframe/internal/schema"
	"github.com/vvka-141/pgframe/pkg/frame"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// TableService implements pgframe.TableWriter and pgframe.TableReader.
//
// Every call is synchronous and runs each step to completion on the caller's
// connection. Steps are autocommitted one by one; no transaction spans a
// drop, create and load, so a failure part way through a replace can leave
// the table dropped or empty. Such failures are logged as warnings and the
// backend error is returned.
//
// Thread-Safety: the service is stateless, but the connection must not be
// shared with concurrent callers.
type TableService struct {
	manager pgframe.TableManager
	loader  pgframe.BulkLoader
	logger  pgframe.Logger
}

// NewTableService creates a TableService. Panics on nil dependencies.
func NewTableService(manager pgframe.TableManager, loader pgframe.BulkLoader, logger pgframe.Logger) *TableService {
	if manager == nil {
		panic("manager cannot be nil")
	}
	if loader == nil {
		panic("loader cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &TableService{manager: manager, loader: loader, logger: logger}
}

// Write provisions ident according to policy and bulk-loads data into it.
//
//	policy   exists  action
//	fail     yes     ErrConflict, nothing written
//	fail     no      create, load
//	replace  yes     drop, create, load
//	replace  no      create, load
//	append   yes     load
//	append   no      create, load
func (s *TableService) Write(ctx context.Context, conn pgframe.DBConnection, data *frame.Frame, ident pgframe.TableIdentity, policy pgframe.ExistsPolicy) error {
	if err := validateWrite(conn, data, ident, policy); err != nil {
		return err
	}

	columns, err := schema.Infer(data)
	if err != nil {
		return err
	}

	exists, err := s.manager.Exists(ctx, conn, ident)
	if err != nil {
		return err
	}
	s.logger.Verbose("Table %s exists: %t, policy: %s", ident, exists, policy)

	if exists && policy == pgframe.PolicyFail {
		return fmt.Errorf("table %s: %w", ident, pgframe.ErrConflict)
	}

	dropped := false
	if exists && policy == pgframe.PolicyReplace {
		if err := s.manager.Drop(ctx, conn, ident); err != nil {
			return err
		}
		dropped = true
		s.logger.Verbose("Dropped table %s", ident)
	}

	created := false
	if !exists || dropped {
		if err := s.manager.Create(ctx, conn, ident, columns); err != nil {
			if dropped {
				s.logger.Warn("Table %s was dropped but could not be recreated", ident)
			}
			return err
		}
		created = true
		s.logger.Verbose("Created table %s with %d columns", ident, len(columns))
	}

	n, err := s.loader.Load(ctx, conn, ident, data)
	if err != nil {
		if created {
			s.logger.Warn("Table %s was created but no rows were loaded", ident)
		}
		return err
	}

	s.logger.Verbose("Wrote %d rows to %s (policy %s)", n, ident, policy)
	return nil
}

func validateWrite(conn pgframe.DBConnection, data *frame.Frame, ident pgframe.TableIdentity, policy pgframe.ExistsPolicy) error {
	if conn == nil {
		return fmt.Errorf("connection is required: %w", pgframe.ErrValidation)
	}
	if data == nil {
		return fmt.Errorf("data is required: %w", pgframe.ErrValidation)
	}
	if err := ident.Validate(); err != nil {
		return err
	}
	if !policy.IsValid() {
		return fmt.Errorf("unknown if-exists policy %v: %w", policy, pgframe.ErrValidation)
	}
	return nil
}

// Read runs req and materialises every row. Backend failures, including
// errors raised while iterating rows, are returned as ErrBackend.
func (s *TableService) Read(ctx context.Context, conn pgframe.DBConnection, req pgframe.ReadRequest) (*frame.Frame, error) {
	if conn == nil {
		return nil, fmt.Errorf("connection is required: %w", pgframe.ErrValidation)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query := req.Query
	if query == "" {
		query = "SELECT * FROM " + req.Identity().Sanitize()
	}
	s.logger.Verbose("Reading: %s", query)

	rows, err := conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w: %w", pgframe.ErrBackend, err)
	}
	defer rows.Close()

	f, err := collectFrame(rows)
	if err != nil {
		return nil, err
	}
	s.logger.Verbose("Read %d rows, %d columns", f.Len(), f.Width())
	return f, nil
}

// Verify TableService implements the writer and reader interfaces at compile time
var (
	_ pgframe.TableWriter = (*TableService)(nil)
	_ pgframe.TableReader = (*TableService)(nil)
)
