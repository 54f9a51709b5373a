package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pgframe/internal/logging"
	"github.com/vvka-141/pgframe/internal/testing/mockdb"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

func rowsConn(fields []pgconn.FieldDescription, data [][]any) *mockdb.Conn {
	return &mockdb.Conn{
		QueryFunc: func(context.Context, string, ...any) (pgframe.Rows, error) {
			return &mockdb.Rows{Fields: fields, Data: data}, nil
		},
	}
}

func newDumpService(conn pgframe.DBConnection) (*DumpService, *bytes.Buffer) {
	logger := logging.NewNullLogger()
	svc := NewDumpService(unusedFactory, logger, newService(logger))
	svc.connect = func(context.Context, *pgframe.ConnectionConfig) (pgframe.DBConnection, func(), error) {
		return conn, func() {}, nil
	}
	var out bytes.Buffer
	svc.stdout = &out
	return svc, &out
}

func dumpConfig(format string) pgframe.DumpConfig {
	return pgframe.DumpConfig{
		Request:    pgframe.ReadRequest{Schema: "public", Table: "people"},
		Format:     format,
		Connection: &pgframe.ConnectionConfig{Host: "localhost", Port: 5432},
	}
}

func TestDumpService_Dump_Stdout(t *testing.T) {
	conn := rowsConn(
		[]pgconn.FieldDescription{field("id", pgtype.Int8OID), field("name", pgtype.TextOID)},
		[][]any{{int64(1), "alice"}, {int64(2), nil}},
	)
	svc, out := newDumpService(conn)

	result, err := svc.Dump(context.Background(), dumpConfig("csv"))
	require.NoError(t, err)
	assert.Equal(t, &DumpResult{Rows: 2, Columns: 2}, result)
	assert.Equal(t, "id,name\n1,alice\n2,\n", out.String())
}

func TestDumpService_Dump_File(t *testing.T) {
	conn := rowsConn(
		[]pgconn.FieldDescription{field("id", pgtype.Int8OID)},
		[][]any{{int64(7)}},
	)
	svc, out := newDumpService(conn)

	config := dumpConfig("tsv")
	config.OutputPath = filepath.Join(t.TempDir(), "out.tsv")
	_, err := svc.Dump(context.Background(), config)
	require.NoError(t, err)

	got, err := os.ReadFile(config.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, "id\n7\n", string(got))
	assert.Empty(t, out.String())
}

func TestDumpService_Dump_ReadErrorWritesNothing(t *testing.T) {
	queryErr := errors.New(`relation "public.people" does not exist`)
	conn := &mockdb.Conn{
		QueryFunc: func(context.Context, string, ...any) (pgframe.Rows, error) { return nil, queryErr },
	}
	svc, out := newDumpService(conn)

	config := dumpConfig("json")
	config.OutputPath = filepath.Join(t.TempDir(), "out.json")
	_, err := svc.Dump(context.Background(), config)
	assert.True(t, errors.Is(err, pgframe.ErrBackend))
	assert.True(t, errors.Is(err, queryErr))
	assert.Empty(t, out.String())
	assert.NoFileExists(t, config.OutputPath)
}

func TestDumpService_Dump_Validation(t *testing.T) {
	svc, _ := newDumpService(&mockdb.Conn{})

	config := dumpConfig("xml")
	_, err := svc.Dump(context.Background(), config)
	assert.True(t, errors.Is(err, pgframe.ErrInvalidConfig))

	config = dumpConfig("csv")
	config.Request.Query = "SELECT 1"
	_, err = svc.Dump(context.Background(), config)
	assert.True(t, errors.Is(err, pgframe.ErrValidation))
}

func TestNewDumpService_PanicsOnNilDependencies(t *testing.T) {
	logger := logging.NewNullLogger()
	assert.Panics(t, func() { NewDumpService(nil, logger, newService(logger)) })
	assert.Panics(t, func() { NewDumpService(unusedFactory, nil, newService(logger)) })
	assert.Panics(t, func() { NewDumpService(unusedFactory, logger, nil) })
}
