package manager_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vvka-141/pgframe/internal/db/manager"
	"github.com/vvka-141/pgframe/internal/testing/mockdb"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

var people = pgframe.TableIdentity{Schema: "public", Table: "people"}

func TestManager_Exists(t *testing.T) {
	for _, want := range []bool{true, false} {
		ctx := context.Background()
		mgr := manager.New()

		var gotSQL string
		var gotArgs []any
		conn := &mockdb.Conn{
			QueryRowFunc: func(_ context.Context, sql string, args ...any) pgframe.Row {
				gotSQL, gotArgs = sql, args
				return mockdb.BoolRow(want)
			},
		}

		exists, err := mgr.Exists(ctx, conn, people)
		if err != nil {
			t.Fatalf("Exists failed: %v", err)
		}
		if exists != want {
			t.Errorf("Exists = %v, want %v", exists, want)
		}
		if !strings.Contains(gotSQL, "pg_catalog.pg_class") || !strings.Contains(gotSQL, "relkind IN ('r', 'p')") {
			t.Errorf("expected catalog lookup, got: %s", gotSQL)
		}
		if len(gotArgs) != 2 || gotArgs[0] != "public" || gotArgs[1] != "people" {
			t.Errorf("expected parameters [public people], got %v", gotArgs)
		}
	}
}

func TestManager_Exists_NamesAreParameters(t *testing.T) {
	ctx := context.Background()
	mgr := manager.New()
	hostile := pgframe.TableIdentity{Schema: "s'; DROP TABLE x; --", Table: "t"}

	var gotSQL string
	conn := &mockdb.Conn{
		QueryRowFunc: func(_ context.Context, sql string, _ ...any) pgframe.Row {
			gotSQL = sql
			return mockdb.BoolRow(false)
		},
	}

	if _, err := mgr.Exists(ctx, conn, hostile); err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if strings.Contains(gotSQL, hostile.Schema) {
		t.Errorf("schema name was interpolated into SQL: %s", gotSQL)
	}
}

func TestManager_Exists_QueryFailureIsBackendError(t *testing.T) {
	ctx := context.Background()
	mgr := manager.New()
	conn := &mockdb.Conn{
		QueryRowFunc: func(context.Context, string, ...any) pgframe.Row {
			return mockdb.ErrRow(errors.New("permission denied for schema secret"))
		},
	}

	exists, err := mgr.Exists(ctx, conn, people)
	if !errors.Is(err, pgframe.ErrBackend) {
		t.Fatalf("expected ErrBackend, got %v", err)
	}
	if exists {
		t.Error("expected exists=false on error")
	}
	if !strings.Contains(err.Error(), "permission denied") {
		t.Errorf("expected underlying message to be preserved: %v", err)
	}
}

func TestManager_Create(t *testing.T) {
	ctx := context.Background()
	mgr := manager.New()

	pooled := &mockdb.Pooled{}
	var executedSQL string
	pooled.ExecFunc = func(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
		executedSQL = sql
		return pgconn.CommandTag{}, nil
	}
	conn := &mockdb.Conn{
		AcquireFunc: func(context.Context) (pgframe.PooledConnection, error) { return pooled, nil },
	}

	err := mgr.Create(ctx, conn, people, []pgframe.ColumnDescriptor{
		{Name: "id", Type: pgframe.SQLTypeBigInt},
		{Name: "name", Type: pgframe.SQLTypeText},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	want := "CREATE TABLE \"public\".\"people\" (\n  \"id\" BIGINT,\n  \"name\" TEXT\n)"
	if executedSQL != want {
		t.Errorf("unexpected DDL:\n%s\nwant:\n%s", executedSQL, want)
	}
	if pooled.Released() != 1 {
		t.Errorf("expected connection to be released once, got %d", pooled.Released())
	}
}

func TestManager_Create_NoColumns(t *testing.T) {
	mgr := manager.New()
	err := mgr.Create(context.Background(), &mockdb.Conn{}, people, nil)
	if !errors.Is(err, pgframe.ErrDataShape) {
		t.Errorf("expected ErrDataShape, got %v", err)
	}
}

func TestManager_Create_SQLInjectionAttempt(t *testing.T) {
	testCases := []struct {
		name  string
		ident pgframe.TableIdentity
	}{
		{"Injection with DROP", pgframe.TableIdentity{Schema: "public", Table: "t; DROP TABLE users; --"}},
		{"Injection with quote", pgframe.TableIdentity{Schema: `pub"lic`, Table: "t"}},
		{"Injection with newline", pgframe.TableIdentity{Schema: "public", Table: "t\nDROP TABLE users"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var executedSQL string
			conn := &mockdb.Conn{
				AcquireFunc: func(context.Context) (pgframe.PooledConnection, error) {
					return &mockdb.Pooled{
						ExecFunc: func(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
							executedSQL = sql
							return pgconn.CommandTag{}, nil
						},
					}, nil
				},
			}

			err := manager.New().Create(context.Background(), conn, tc.ident,
				[]pgframe.ColumnDescriptor{{Name: "c", Type: pgframe.SQLTypeText}})
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			if !strings.HasPrefix(executedSQL, "CREATE TABLE "+tc.ident.Sanitize()+" (") {
				t.Errorf("expected quoted identity, got: %s", executedSQL)
			}
		})
	}
}

func TestManager_Drop(t *testing.T) {
	rec := mockdb.NewRecorder(true)
	if err := manager.New().Drop(context.Background(), rec, people); err != nil {
		t.Fatalf("Drop failed: %v", err)
	}
	if len(rec.Statements) != 1 || rec.Statements[0] != `DROP TABLE "public"."people"` {
		t.Errorf("unexpected statements: %v", rec.Statements)
	}
}

func TestManager_Drop_Failures(t *testing.T) {
	testCases := []struct {
		name string
		conn *mockdb.Conn
	}{
		{
			name: "acquire fails",
			conn: &mockdb.Conn{
				AcquireFunc: func(context.Context) (pgframe.PooledConnection, error) {
					return nil, errors.New("pool closed")
				},
			},
		},
		{
			name: "statement fails",
			conn: &mockdb.Conn{
				AcquireFunc: func(context.Context) (pgframe.PooledConnection, error) {
					return &mockdb.Pooled{
						ExecFunc: func(context.Context, string, ...any) (pgconn.CommandTag, error) {
							return pgconn.CommandTag{}, errors.New(`table "people" does not exist`)
						},
					}, nil
				},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := manager.New().Drop(context.Background(), tc.conn, people)
			if !errors.Is(err, pgframe.ErrBackend) {
				t.Errorf("expected ErrBackend, got %v", err)
			}
		})
	}
}
