package tables_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pgframe/internal/logging"
	"github.com/vvka-141/pgframe/internal/testing/mockdb"
	"github.com/vvka-141/pgframe/pkg/frame"
	"github.com/vvka-141/pgframe/pkg/pgframe"
	"github.com/vvka-141/pgframe/pkg/tables"
)

func TestWriteTable(t *testing.T) {
	rec := mockdb.NewRecorder(false)
	f := frame.MustNew(frame.Ints("id", 1, 2), frame.Floats("score", 1.5, 2))

	err := tables.WriteTable(context.Background(), rec, f, "sales", "scores", pgframe.PolicyFail)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"EXISTS",
		"CREATE TABLE \"sales\".\"scores\" (\n  \"id\" BIGINT,\n  \"score\" NUMERIC\n)",
		`COPY "sales"."scores" ("id", "score") FROM STDIN`,
	}, rec.Statements)
	assert.Equal(t, []string{"1\t1.5\n2\t2\n"}, rec.Copied)
}

func TestWriteTable_Conflict(t *testing.T) {
	rec := mockdb.NewRecorder(true)
	f := frame.MustNew(frame.Ints("id", 1))

	err := tables.WriteTable(context.Background(), rec, f, "public", "t", pgframe.PolicyFail)
	assert.True(t, errors.Is(err, pgframe.ErrConflict), "got %v", err)
	assert.Equal(t, []string{"EXISTS"}, rec.Statements)
}

func TestWriteTable_EmptySchema(t *testing.T) {
	rec := mockdb.NewRecorder(false)
	err := tables.WriteTable(context.Background(), rec, frame.MustNew(frame.Ints("id", 1)), "", "t", pgframe.PolicyFail)
	assert.True(t, errors.Is(err, pgframe.ErrValidation), "got %v", err)
	assert.Empty(t, rec.Statements)
}

func TestWriteTable_WithLogger(t *testing.T) {
	logger := logging.NewMemoryLogger()
	rec := mockdb.NewRecorder(false)

	err := tables.WriteTable(context.Background(), rec, frame.MustNew(frame.Ints("id", 1)), "public", "t", pgframe.PolicyAppend,
		tables.WithLogger(logger))
	require.NoError(t, err)
	assert.NotEmpty(t, logger.Verboses)
}

func TestReadTable(t *testing.T) {
	var gotSQL string
	conn := &mockdb.Conn{
		QueryFunc: func(_ context.Context, sql string, _ ...any) (pgframe.Rows, error) {
			gotSQL = sql
			return &mockdb.Rows{
				Fields: []pgconn.FieldDescription{{Name: "n", DataTypeOID: pgtype.Int4OID}},
				Data:   [][]any{{int32(1)}, {int32(2)}},
			}, nil
		},
	}

	f, err := tables.ReadTable(context.Background(), conn, pgframe.ReadRequest{Query: "SELECT n FROM generate_series(1, 2) n"})
	require.NoError(t, err)
	assert.Equal(t, "SELECT n FROM generate_series(1, 2) n", gotSQL)
	assert.Equal(t, []any{int64(1)}, f.Row(0))
	assert.Equal(t, []any{int64(2)}, f.Row(1))
}

func TestReadTable_BackendError(t *testing.T) {
	queryErr := errors.New("syntax error at or near \"SELEC\"")
	conn := &mockdb.Conn{
		QueryFunc: func(context.Context, string, ...any) (pgframe.Rows, error) { return nil, queryErr },
	}

	f, err := tables.ReadTable(context.Background(), conn, pgframe.ReadRequest{Query: "SELEC 1"})
	assert.Nil(t, f)
	assert.True(t, errors.Is(err, pgframe.ErrBackend))
	assert.True(t, errors.Is(err, queryErr))
}
