// Package schema maps in-memory column kinds to PostgreSQL column types and
// renders the DDL for the destination table.
package schema

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/pgframe/pkg/frame"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// Infer derives one column descriptor per column of f, in column order.
//
// Declared kinds decide first: datetime -> TIMESTAMP, int and bool -> BIGINT,
// float -> NUMERIC. Object columns are typed by their first value: a time.Time
// is a TIMESTAMP, a frame.Date is a DATE, anything else (including NULL) is TEXT.
//
// A frame without rows or columns has no first value to sample and fails with
// pgframe.ErrDataShape.
func Infer(f *frame.Frame) ([]pgframe.ColumnDescriptor, error) {
	if f == nil || f.Width() == 0 {
		return nil, fmt.Errorf("frame has no columns: %w", pgframe.ErrDataShape)
	}
	if f.Len() == 0 {
		return nil, fmt.Errorf("frame has no rows: %w", pgframe.ErrDataShape)
	}

	cols := f.Columns()
	out := make([]pgframe.ColumnDescriptor, len(cols))
	for i, col := range cols {
		out[i] = pgframe.ColumnDescriptor{Name: col.Name, Type: columnType(col)}
	}
	return out, nil
}

func columnType(col *frame.Column) pgframe.SQLType {
	switch col.Kind {
	case frame.KindDateTime:
		return pgframe.SQLTypeTimestamp
	case frame.KindInt, frame.KindBool:
		return pgframe.SQLTypeBigInt
	case frame.KindFloat:
		return pgframe.SQLTypeNumeric
	}

	switch col.Values[0].(type) {
	case time.Time, *time.Time:
		return pgframe.SQLTypeTimestamp
	case frame.Date:
		return pgframe.SQLTypeDate
	default:
		return pgframe.SQLTypeText
	}
}

// CreateTableSQL renders CREATE TABLE with one quoted column per descriptor.
func CreateTableSQL(ident pgframe.TableIdentity, columns []pgframe.ColumnDescriptor) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(ident.Sanitize())
	b.WriteString(" (")
	for i, col := range columns {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString("\n  ")
		b.WriteString(pgx.Identifier{col.Name}.Sanitize())
		b.WriteByte(' ')
		b.WriteString(col.Type.String())
	}
	b.WriteString("\n)")
	return b.String()
}

// DropTableSQL renders DROP TABLE for ident.
func DropTableSQL(ident pgframe.TableIdentity) string {
	return "DROP TABLE " + ident.Sanitize()
}

// ColumnList renders names as a quoted, comma-separated column list.
func ColumnList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = pgx.Identifier{n}.Sanitize()
	}
	return strings.Join(quoted, ", ")
}
