// Package bulk streams in-memory frames into PostgreSQL tables with COPY.
package bulk

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/vvka-141/pgframe/internal/schema"
	"github.com/vvka-141/pgframe/pkg/frame"
	"github.com/vvka-141/pgframe/pkg/pgframe"
	"golang.org/x/sync/errgroup"
)

// CopyLoader loads frames with COPY ... FROM STDIN in text format.
type CopyLoader struct {
	logger pgframe.Logger
}

// NewCopyLoader creates a CopyLoader.
func NewCopyLoader(logger pgframe.Logger) *CopyLoader {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &CopyLoader{logger: logger}
}

// CopySQL renders the COPY statement for the given columns.
func CopySQL(ident pgframe.TableIdentity, columns []string) string {
	return fmt.Sprintf("COPY %s (%s) FROM STDIN", ident.Sanitize(), schema.ColumnList(columns))
}

// Load copies every row of data into the existing table ident, matching
// columns by name. Datetime values are sent as zone-less wall clock time.
// The caller's frame is not modified.
func (l *CopyLoader) Load(ctx context.Context, conn pgframe.DBConnection, ident pgframe.TableIdentity, data *frame.Frame) (int64, error) {
	if data == nil || data.Width() == 0 {
		return 0, fmt.Errorf("nothing to copy into %s: %w", ident, pgframe.ErrDataShape)
	}

	data = normalizeDateTimes(data)
	query := CopySQL(ident, data.Names())

	pooledConn, err := conn.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to acquire connection: %w: %w", pgframe.ErrBackend, err)
	}
	defer pooledConn.Release()

	l.logger.Verbose("Copying %d rows into %s", data.Len(), ident)

	pr, pw := io.Pipe()
	var g errgroup.Group
	g.Go(func() error {
		err := data.WriteCopyText(pw)
		pw.CloseWithError(err)
		return err
	})

	tag, copyErr := pooledConn.CopyFrom(ctx, pr, query)
	// unblocks the writer if the server stopped reading early
	pr.CloseWithError(io.ErrClosedPipe)
	writeErr := g.Wait()

	if copyErr != nil {
		return 0, fmt.Errorf("failed to copy into %s: %w: %w", ident, pgframe.ErrBackend, copyErr)
	}
	if writeErr != nil {
		return 0, fmt.Errorf("failed to encode rows for %s: %w", ident, writeErr)
	}

	l.logger.Verbose("Copied %d rows into %s", tag.RowsAffected(), ident)
	return tag.RowsAffected(), nil
}

// normalizeDateTimes returns a frame whose time values carry no zone: each
// keeps its local wall clock reading, relabelled UTC, so 09:30 JST is stored
// as 09:30. Only columns holding time values are copied.
func normalizeDateTimes(f *frame.Frame) *frame.Frame {
	cols := f.Columns()
	changed := false
	out := make([]*frame.Column, len(cols))
	for i, col := range cols {
		out[i] = col
		if !hasTimes(col) {
			continue
		}
		values := make([]any, len(col.Values))
		for r, v := range col.Values {
			values[r] = wallClock(v)
		}
		out[i] = &frame.Column{Name: col.Name, Kind: col.Kind, Values: values}
		changed = true
	}
	if !changed {
		return f
	}
	return frame.MustNew(out...)
}

func hasTimes(col *frame.Column) bool {
	if col.Kind == frame.KindDateTime {
		return true
	}
	if col.Kind != frame.KindObject {
		return false
	}
	for _, v := range col.Values {
		switch v.(type) {
		case time.Time, *time.Time:
			return true
		}
	}
	return false
}

func wallClock(v any) any {
	var t time.Time
	switch x := v.(type) {
	case time.Time:
		t = x
	case *time.Time:
		if x == nil {
			return nil
		}
		t = *x
	default:
		return v
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// Verify CopyLoader implements the BulkLoader interface at compile time
var _ pgframe.BulkLoader = (*CopyLoader)(nil)
