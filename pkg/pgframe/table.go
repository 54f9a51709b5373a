package pgframe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/pgframe/pkg/frame"
)

// ExistsPolicy governs how provisioning reacts to a pre-existing destination table.
type ExistsPolicy int

const (
	PolicyFail    ExistsPolicy = iota // Reject when the table exists
	PolicyReplace                     // Drop, recreate, load
	PolicyAppend                      // Load into the existing table
)

// String returns the policy name as accepted by ParseExistsPolicy.
func (p ExistsPolicy) String() string {
	switch p {
	case PolicyFail:
		return "fail"
	case PolicyReplace:
		return "replace"
	case PolicyAppend:
		return "append"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsValid returns true if the policy is one of the defined values.
func (p ExistsPolicy) IsValid() bool {
	return p >= PolicyFail && p <= PolicyAppend
}

// ParseExistsPolicy parses "fail", "replace" or "append" (case-insensitive).
// An empty string yields PolicyFail.
func ParseExistsPolicy(s string) (ExistsPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail":
		return PolicyFail, nil
	case "replace":
		return PolicyReplace, nil
	case "append":
		return PolicyAppend, nil
	default:
		return 0, fmt.Errorf("unknown if-exists policy %q (want fail, replace or append): %w", s, ErrValidation)
	}
}

// TableIdentity is a schema-qualified table reference.
type TableIdentity struct {
	Schema string
	Table  string
}

// ParseTableRef parses "schema.table" or "table". A missing schema becomes DefaultSchema.
// Only the first dot separates schema from table.
func ParseTableRef(ref string) (TableIdentity, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return TableIdentity{}, fmt.Errorf("table reference is empty: %w", ErrValidation)
	}
	schema, table, found := strings.Cut(ref, ".")
	if !found {
		schema, table = DefaultSchema, ref
	}
	ident := TableIdentity{Schema: schema, Table: table}
	if err := ident.Validate(); err != nil {
		return TableIdentity{}, err
	}
	return ident, nil
}

// Validate checks that both parts are present and contain no NUL bytes.
// Any other character is legal because names are always quoted.
func (t TableIdentity) Validate() error {
	var errs []error
	if t.Schema == "" {
		errs = append(errs, fmt.Errorf("schema is required: %w", ErrValidation))
	}
	if t.Table == "" {
		errs = append(errs, fmt.Errorf("table is required: %w", ErrValidation))
	}
	if strings.ContainsRune(t.Schema, 0) || strings.ContainsRune(t.Table, 0) {
		errs = append(errs, fmt.Errorf("identifier contains NUL byte: %w", ErrValidation))
	}
	if len(t.Schema) > MaxIdentifierLength || len(t.Table) > MaxIdentifierLength {
		errs = append(errs, fmt.Errorf("identifier longer than %d bytes: %w", MaxIdentifierLength, ErrValidation))
	}
	return errors.Join(errs...)
}

// MaxIdentifierLength is PostgreSQL's NAMEDATALEN-1. Longer names are silently
// truncated by the server, which would make the catalog lookup miss.
const MaxIdentifierLength = 63

// Sanitize returns the quoted, qualified name for use in SQL text.
func (t TableIdentity) Sanitize() string {
	return pgx.Identifier{t.Schema, t.Table}.Sanitize()
}

// String returns schema.table unquoted, for messages.
func (t TableIdentity) String() string {
	return t.Schema + "." + t.Table
}

// SQLType is the PostgreSQL type chosen for a column.
type SQLType int

const (
	SQLTypeText SQLType = iota
	SQLTypeDate
	SQLTypeTimestamp
	SQLTypeBigInt
	SQLTypeNumeric
)

// String returns the DDL spelling of the type.
func (s SQLType) String() string {
	switch s {
	case SQLTypeText:
		return "TEXT"
	case SQLTypeDate:
		return "DATE"
	case SQLTypeTimestamp:
		return "TIMESTAMP WITHOUT TIME ZONE"
	case SQLTypeBigInt:
		return "BIGINT"
	case SQLTypeNumeric:
		return "NUMERIC"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// ColumnDescriptor pairs a source column with its inferred SQL type.
type ColumnDescriptor struct {
	Name string
	Type SQLType
}

// ReadRequest selects what Read materialises: a literal query or a table.
// Exactly one of Query or (Schema, Table) must be set.
type ReadRequest struct {
	Query  string
	Schema string
	Table  string
}

// Validate enforces the mutual exclusivity of Query and the table identity.
func (r ReadRequest) Validate() error {
	hasQuery := strings.TrimSpace(r.Query) != ""
	hasTable := r.Schema != "" || r.Table != ""

	switch {
	case hasQuery && hasTable:
		return fmt.Errorf("query and table are mutually exclusive: %w", ErrValidation)
	case !hasQuery && !hasTable:
		return fmt.Errorf("either a query or a schema and table is required: %w", ErrValidation)
	case hasTable:
		return r.Identity().Validate()
	}
	return nil
}

// Identity returns the table part of the request.
func (r ReadRequest) Identity() TableIdentity {
	return TableIdentity{Schema: r.Schema, Table: r.Table}
}

// TableManager provisions destination tables.
// Every call is one autocommitted statement; no transaction spans calls.
type TableManager interface {
	// Exists reports whether the table is present in the catalog.
	Exists(ctx context.Context, conn DBConnection, ident TableIdentity) (bool, error)

	// Create creates the table with one column per descriptor, in order.
	Create(ctx context.Context, conn DBConnection, ident TableIdentity, columns []ColumnDescriptor) error

	// Drop drops the table.
	Drop(ctx context.Context, conn DBConnection, ident TableIdentity) error
}

// BulkLoader streams a frame into an existing table.
type BulkLoader interface {
	// Load copies every row of data into the table and returns the number of rows copied.
	// Either the whole COPY commits or nothing is guaranteed committed.
	Load(ctx context.Context, conn DBConnection, ident TableIdentity, data *frame.Frame) (int64, error)
}

// TableWriter writes in-memory tables to the database.
type TableWriter interface {
	Write(ctx context.Context, conn DBConnection, data *frame.Frame, ident TableIdentity, policy ExistsPolicy) error
}

// TableReader materialises tables and queries into memory.
type TableReader interface {
	Read(ctx context.Context, conn DBConnection, req ReadRequest) (*frame.Frame, error)
}
