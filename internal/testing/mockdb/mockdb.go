// Package mockdb provides test doubles for pgframe.DBConnection and friends.
// Unset function fields behave as successful no-ops.
package mockdb

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// Conn is a test double for pgframe.DBConnection.
type Conn struct {
	ExecFunc     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRowFunc func(ctx context.Context, sql string, args ...any) pgframe.Row
	QueryFunc    func(ctx context.Context, sql string, args ...any) (pgframe.Rows, error)
	AcquireFunc  func(ctx context.Context) (pgframe.PooledConnection, error)
}

func (m *Conn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if m.ExecFunc != nil {
		return m.ExecFunc(ctx, sql, args...)
	}
	return pgconn.CommandTag{}, nil
}

func (m *Conn) QueryRow(ctx context.Context, sql string, args ...any) pgframe.Row {
	if m.QueryRowFunc != nil {
		return m.QueryRowFunc(ctx, sql, args...)
	}
	return &Row{}
}

func (m *Conn) Query(ctx context.Context, sql string, args ...any) (pgframe.Rows, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, sql, args...)
	}
	return &Rows{}, nil
}

func (m *Conn) Acquire(ctx context.Context) (pgframe.PooledConnection, error) {
	if m.AcquireFunc != nil {
		return m.AcquireFunc(ctx)
	}
	return &Pooled{}, nil
}

// Row is a test double for pgframe.Row.
type Row struct {
	ScanFunc func(dest ...any) error
}

func (m *Row) Scan(dest ...any) error {
	if m.ScanFunc != nil {
		return m.ScanFunc(dest...)
	}
	return nil
}

// BoolRow returns a Row that scans v into a single *bool destination.
func BoolRow(v bool) *Row {
	return &Row{ScanFunc: func(dest ...any) error {
		*dest[0].(*bool) = v
		return nil
	}}
}

// ErrRow returns a Row whose Scan fails with err.
func ErrRow(err error) *Row {
	return &Row{ScanFunc: func(...any) error { return err }}
}

// Rows is an in-memory pgframe.Rows. Data rows are returned in order; Err is
// reported once iteration ends.
type Rows struct {
	Fields []pgconn.FieldDescription
	Data   [][]any
	Error  error

	pos    int
	Closed bool
}

func (m *Rows) FieldDescriptions() []pgconn.FieldDescription { return m.Fields }

func (m *Rows) Next() bool {
	if m.Closed || m.pos >= len(m.Data) {
		return false
	}
	m.pos++
	return true
}

func (m *Rows) Values() ([]any, error) {
	return m.Data[m.pos-1], nil
}

func (m *Rows) Err() error { return m.Error }

func (m *Rows) Close() { m.Closed = true }

// Pooled is a test double for pgframe.PooledConnection.
type Pooled struct {
	ExecFunc     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFromFunc func(ctx context.Context, r io.Reader, sql string) (pgconn.CommandTag, error)

	mu       sync.Mutex
	released int
}

func (m *Pooled) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if m.ExecFunc != nil {
		return m.ExecFunc(ctx, sql, args...)
	}
	return pgconn.CommandTag{}, nil
}

func (m *Pooled) CopyFrom(ctx context.Context, r io.Reader, sql string) (pgconn.CommandTag, error) {
	if m.CopyFromFunc != nil {
		return m.CopyFromFunc(ctx, r, sql)
	}
	_, err := io.Copy(io.Discard, r)
	return pgconn.CommandTag{}, err
}

func (m *Pooled) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released++
}

// Released reports how many times Release was called.
func (m *Pooled) Released() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.released
}

// Recorder is a Conn whose acquired connections append every executed
// statement to Statements. Use it to assert the order of DDL and COPY calls.
type Recorder struct {
	Conn

	mu         sync.Mutex
	Statements []string
	Copied     []string
}

// NewRecorder returns a Recorder. exists is the answer to every catalog lookup.
func NewRecorder(exists bool) *Recorder {
	r := &Recorder{}
	r.QueryRowFunc = func(_ context.Context, _ string, _ ...any) pgframe.Row {
		r.record("EXISTS")
		return BoolRow(exists)
	}
	r.AcquireFunc = func(_ context.Context) (pgframe.PooledConnection, error) {
		return &Pooled{
			ExecFunc: func(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
				r.record(sql)
				return pgconn.NewCommandTag("OK"), nil
			},
			CopyFromFunc: func(_ context.Context, src io.Reader, sql string) (pgconn.CommandTag, error) {
				data, err := io.ReadAll(src)
				if err != nil {
					return pgconn.CommandTag{}, err
				}
				r.record(sql)
				r.mu.Lock()
				r.Copied = append(r.Copied, string(data))
				r.mu.Unlock()
				return pgconn.NewCommandTag("COPY " + strconv.Itoa(bytes.Count(data, []byte("\n")))), nil
			},
		}, nil
	}
	return r
}

func (r *Recorder) record(sql string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Statements = append(r.Statements, sql)
}

