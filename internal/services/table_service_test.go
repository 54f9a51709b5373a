package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pgframe/internal/bulk"
	"github.com/vvka-141/pgframe/internal/db/manager"
	"github.com/vvka-141/pgframe/internal/logging"
	"github.com/vvka-141/pgframe/internal/testing/mockdb"
	"github.com/vvka-141/pgframe/pkg/frame"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

var people = pgframe.TableIdentity{Schema: "public", Table: "people"}

func peopleFrame() *frame.Frame {
	return frame.MustNew(
		frame.Ints("id", 1, 2, 3),
		frame.Objects("name", "a", "b", "c"),
		frame.Objects("created",
			frame.Date{Year: 2024, Month: time.January, Day: 1},
			frame.Date{Year: 2024, Month: time.January, Day: 2},
			frame.Date{Year: 2024, Month: time.January, Day: 3},
		),
	)
}

func newService(logger pgframe.Logger) *TableService {
	return NewTableService(manager.New(), bulk.NewCopyLoader(logger), logger)
}

const (
	createPeople = "CREATE TABLE \"public\".\"people\" (\n  \"id\" BIGINT,\n  \"name\" TEXT,\n  \"created\" DATE\n)"
	dropPeople   = `DROP TABLE "public"."people"`
	copyPeople   = `COPY "public"."people" ("id", "name", "created") FROM STDIN`
)

func TestTableService_Write_PolicyMatrix(t *testing.T) {
	tests := []struct {
		policy  pgframe.ExistsPolicy
		exists  bool
		want    []string
		wantErr error
	}{
		{pgframe.PolicyFail, true, []string{"EXISTS"}, pgframe.ErrConflict},
		{pgframe.PolicyFail, false, []string{"EXISTS", createPeople, copyPeople}, nil},
		{pgframe.PolicyReplace, true, []string{"EXISTS", dropPeople, createPeople, copyPeople}, nil},
		{pgframe.PolicyReplace, false, []string{"EXISTS", createPeople, copyPeople}, nil},
		{pgframe.PolicyAppend, true, []string{"EXISTS", copyPeople}, nil},
		{pgframe.PolicyAppend, false, []string{"EXISTS", createPeople, copyPeople}, nil},
	}

	for _, tt := range tests {
		name := tt.policy.String()
		if tt.exists {
			name += "/exists"
		} else {
			name += "/missing"
		}
		t.Run(name, func(t *testing.T) {
			rec := mockdb.NewRecorder(tt.exists)
			err := newService(logging.NewNullLogger()).Write(context.Background(), rec, peopleFrame(), people, tt.policy)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, rec.Statements)
		})
	}
}

func TestTableService_Write_CopiesRows(t *testing.T) {
	rec := mockdb.NewRecorder(false)
	require.NoError(t, newService(logging.NewNullLogger()).Write(context.Background(), rec, peopleFrame(), people, pgframe.PolicyFail))
	require.Len(t, rec.Copied, 1)
	assert.Equal(t, "1\ta\t2024-01-01\n2\tb\t2024-01-02\n3\tc\t2024-01-03\n", rec.Copied[0])
}

func TestTableService_Write_ValidationBeforeIO(t *testing.T) {
	rec := mockdb.NewRecorder(false)
	svc := newService(logging.NewNullLogger())
	ctx := context.Background()

	tests := []struct {
		name    string
		conn    pgframe.DBConnection
		data    *frame.Frame
		ident   pgframe.TableIdentity
		policy  pgframe.ExistsPolicy
		wantErr error
	}{
		{"nil connection", nil, peopleFrame(), people, pgframe.PolicyFail, pgframe.ErrValidation},
		{"nil data", rec, nil, people, pgframe.PolicyFail, pgframe.ErrValidation},
		{"missing schema", rec, peopleFrame(), pgframe.TableIdentity{Table: "t"}, pgframe.PolicyFail, pgframe.ErrValidation},
		{"missing table", rec, peopleFrame(), pgframe.TableIdentity{Schema: "public"}, pgframe.PolicyFail, pgframe.ErrValidation},
		{"unknown policy", rec, peopleFrame(), people, pgframe.ExistsPolicy(7), pgframe.ErrValidation},
		{"no rows", rec, frame.MustNew(frame.Ints("id")), people, pgframe.PolicyFail, pgframe.ErrDataShape},
		{"no columns", rec, frame.MustNew(), people, pgframe.PolicyAppend, pgframe.ErrDataShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Write(ctx, tt.conn, tt.data, tt.ident, tt.policy)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
	assert.Empty(t, rec.Statements, "no statement may run before validation passes")
}

func TestTableService_Write_ReplacePartialFailure(t *testing.T) {
	logger := logging.NewMemoryLogger()
	backendErr := errors.New(`permission denied for schema public`)

	conn := &mockdb.Conn{
		QueryRowFunc: func(context.Context, string, ...any) pgframe.Row { return mockdb.BoolRow(true) },
		AcquireFunc: func(context.Context) (pgframe.PooledConnection, error) {
			return &mockdb.Pooled{
				ExecFunc: func(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
					if sql == dropPeople {
						return pgconn.NewCommandTag("DROP TABLE"), nil
					}
					return pgconn.CommandTag{}, backendErr
				},
			}, nil
		},
	}

	err := newService(logger).Write(context.Background(), conn, peopleFrame(), people, pgframe.PolicyReplace)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pgframe.ErrBackend))
	assert.True(t, errors.Is(err, backendErr), "backend error must be preserved")
	require.Len(t, logger.Warnings, 1)
	assert.Contains(t, logger.Warnings[0], "dropped but could not be recreated")
}

func TestTableService_Write_ExistsFailure(t *testing.T) {
	conn := &mockdb.Conn{
		QueryRowFunc: func(context.Context, string, ...any) pgframe.Row {
			return mockdb.ErrRow(errors.New("connection reset"))
		},
	}
	err := newService(logging.NewNullLogger()).Write(context.Background(), conn, peopleFrame(), people, pgframe.PolicyFail)
	assert.True(t, errors.Is(err, pgframe.ErrBackend))
	assert.False(t, errors.Is(err, pgframe.ErrConflict))
}

func TestNewTableService_PanicsOnNilDependencies(t *testing.T) {
	logger := logging.NewNullLogger()
	assert.Panics(t, func() { NewTableService(nil, bulk.NewCopyLoader(logger), logger) })
	assert.Panics(t, func() { NewTableService(manager.New(), nil, logger) })
	assert.Panics(t, func() { NewTableService(manager.New(), bulk.NewCopyLoader(logger), nil) })
}

func field(name string, oid uint32) pgconn.FieldDescription {
	return pgconn.FieldDescription{Name: name, DataTypeOID: oid}
}

func TestTableService_Read_Table(t *testing.T) {
	at := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	var num pgtype.Numeric
	require.NoError(t, num.Scan("12.5"))
	id := [16]byte{0x6b, 0xa7, 0xb8, 0x10, 0x9d, 0xad, 0x11, 0xd1, 0x80, 0xb4, 0x00, 0xc0, 0x4f, 0xd4, 0x30, 0xc8}

	var gotSQL string
	conn := &mockdb.Conn{
		QueryFunc: func(_ context.Context, sql string, _ ...any) (pgframe.Rows, error) {
			gotSQL = sql
			return &mockdb.Rows{
				Fields: []pgconn.FieldDescription{
					field("id", pgtype.Int4OID),
					field("amount", pgtype.NumericOID),
					field("ok", pgtype.BoolOID),
					field("at", pgtype.TimestampOID),
					field("day", pgtype.DateOID),
					field("uid", pgtype.UUIDOID),
					field("name", pgtype.TextOID),
				},
				Data: [][]any{
					{int32(1), num, true, at, at, id, "x"},
					{nil, nil, nil, nil, nil, nil, nil},
				},
			}, nil
		},
	}

	f, err := newService(logging.NewNullLogger()).Read(context.Background(), conn, pgframe.ReadRequest{Schema: "public", Table: "people"})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "public"."people"`, gotSQL)
	assert.Equal(t, []string{"id", "amount", "ok", "at", "day", "uid", "name"}, f.Names())

	kinds := make([]frame.Kind, 0, f.Width())
	for _, c := range f.Columns() {
		kinds = append(kinds, c.Kind)
	}
	assert.Equal(t, []frame.Kind{
		frame.KindInt, frame.KindFloat, frame.KindBool, frame.KindDateTime,
		frame.KindObject, frame.KindObject, frame.KindObject,
	}, kinds)

	assert.Equal(t, []any{int64(1), 12.5, true, at, frame.Date{Year: 2024, Month: time.February, Day: 3},
		"6ba7b810-9dad-11d1-80b4-00c04fd430c8", "x"}, f.Row(0))
	assert.Equal(t, []any{nil, nil, nil, nil, nil, nil, nil}, f.Row(1))
}

func TestTableService_Read_InfinityTimestampBecomesObject(t *testing.T) {
	conn := &mockdb.Conn{
		QueryFunc: func(context.Context, string, ...any) (pgframe.Rows, error) {
			return &mockdb.Rows{
				Fields: []pgconn.FieldDescription{field("at", pgtype.TimestampOID), field("x", pgtype.Float8OID)},
				Data:   [][]any{{"infinity", math.Inf(1)}},
			}, nil
		},
	}

	f, err := newService(logging.NewNullLogger()).Read(context.Background(), conn, pgframe.ReadRequest{Query: "SELECT 'infinity'::timestamp"})
	require.NoError(t, err)
	col, _ := f.Column("at")
	assert.Equal(t, frame.KindObject, col.Kind)
	assert.Equal(t, []any{"infinity"}, col.Values)
}

func TestTableService_Read_DuplicateColumnNames(t *testing.T) {
	conn := &mockdb.Conn{
		QueryFunc: func(context.Context, string, ...any) (pgframe.Rows, error) {
			return &mockdb.Rows{
				Fields: []pgconn.FieldDescription{
					field("?column?", pgtype.Int4OID),
					field("?column?", pgtype.Int4OID),
					field("?column?", pgtype.Int4OID),
				},
				Data: [][]any{{int32(1), int32(2), int32(3)}},
			}, nil
		},
	}

	f, err := newService(logging.NewNullLogger()).Read(context.Background(), conn, pgframe.ReadRequest{Query: "SELECT 1, 2, 3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"?column?", "?column?_1", "?column?_2"}, f.Names())
}

func TestTableService_Read_EmptyResultKeepsColumns(t *testing.T) {
	conn := &mockdb.Conn{
		QueryFunc: func(context.Context, string, ...any) (pgframe.Rows, error) {
			return &mockdb.Rows{Fields: []pgconn.FieldDescription{field("id", pgtype.Int8OID)}}, nil
		},
	}

	f, err := newService(logging.NewNullLogger()).Read(context.Background(), conn, pgframe.ReadRequest{Query: "SELECT id FROM t WHERE false"})
	require.NoError(t, err)
	assert.Equal(t, 0, f.Len())
	assert.Equal(t, []string{"id"}, f.Names())
}

func TestTableService_Read_Errors(t *testing.T) {
	svc := newService(logging.NewNullLogger())
	ctx := context.Background()
	queryErr := errors.New(`relation "public.nope" does not exist`)

	tests := []struct {
		name    string
		conn    pgframe.DBConnection
		req     pgframe.ReadRequest
		wantErr error
	}{
		{"both query and table", &mockdb.Conn{}, pgframe.ReadRequest{Query: "SELECT 1", Schema: "public", Table: "t"}, pgframe.ErrValidation},
		{"neither", &mockdb.Conn{}, pgframe.ReadRequest{}, pgframe.ErrValidation},
		{"nil connection", nil, pgframe.ReadRequest{Query: "SELECT 1"}, pgframe.ErrValidation},
		{
			"query fails",
			&mockdb.Conn{QueryFunc: func(context.Context, string, ...any) (pgframe.Rows, error) { return nil, queryErr }},
			pgframe.ReadRequest{Schema: "public", Table: "nope"},
			pgframe.ErrBackend,
		},
		{
			"iteration fails",
			&mockdb.Conn{QueryFunc: func(context.Context, string, ...any) (pgframe.Rows, error) {
				return &mockdb.Rows{Fields: []pgconn.FieldDescription{field("n", pgtype.Int4OID)}, Error: queryErr}, nil
			}},
			pgframe.ReadRequest{Query: "SELECT n FROM t"},
			pgframe.ErrBackend,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := svc.Read(ctx, tt.conn, tt.req)
			assert.Nil(t, f)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestTableService_Read_ClosesRows(t *testing.T) {
	rows := &mockdb.Rows{Fields: []pgconn.FieldDescription{field("n", pgtype.Int4OID)}}
	conn := &mockdb.Conn{QueryFunc: func(context.Context, string, ...any) (pgframe.Rows, error) { return rows, nil }}

	_, err := newService(logging.NewNullLogger()).Read(context.Background(), conn, pgframe.ReadRequest{Query: "SELECT 1"})
	require.NoError(t, err)
	assert.True(t, rows.Closed)
}
