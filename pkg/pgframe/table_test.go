package pgframe_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/vvka-141/pgframe/pkg/pgframe"
)

func TestParseExistsPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    pgframe.ExistsPolicy
		wantErr bool
	}{
		{"", pgframe.PolicyFail, false},
		{"fail", pgframe.PolicyFail, false},
		{"REPLACE", pgframe.PolicyReplace, false},
		{" append ", pgframe.PolicyAppend, false},
		{"upsert", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := pgframe.ParseExistsPolicy(tt.in)
			if tt.wantErr {
				if !errors.Is(err, pgframe.ErrValidation) {
					t.Fatalf("ParseExistsPolicy(%q) error = %v, want ErrValidation", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseExistsPolicy(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseExistsPolicy(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if got.String() != strings.ToLower(strings.TrimSpace(tt.in)) && tt.in != "" {
				t.Errorf("String() = %q does not round-trip %q", got.String(), tt.in)
			}
		})
	}
}

func TestParseTableRef(t *testing.T) {
	tests := []struct {
		ref     string
		want    pgframe.TableIdentity
		wantErr bool
	}{
		{"public.users", pgframe.TableIdentity{Schema: "public", Table: "users"}, false},
		{"users", pgframe.TableIdentity{Schema: "public", Table: "users"}, false},
		{"a.b.c", pgframe.TableIdentity{Schema: "a", Table: "b.c"}, false},
		{"Mixed Case.my table", pgframe.TableIdentity{Schema: "Mixed Case", Table: "my table"}, false},
		{"", pgframe.TableIdentity{}, true},
		{".users", pgframe.TableIdentity{}, true},
		{"public.", pgframe.TableIdentity{}, true},
		{"public." + strings.Repeat("x", 64), pgframe.TableIdentity{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := pgframe.ParseTableRef(tt.ref)
			if tt.wantErr {
				if !errors.Is(err, pgframe.ErrValidation) {
					t.Fatalf("ParseTableRef(%q) error = %v, want ErrValidation", tt.ref, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTableRef(%q) unexpected error: %v", tt.ref, err)
			}
			if got != tt.want {
				t.Errorf("ParseTableRef(%q) = %+v, want %+v", tt.ref, got, tt.want)
			}
		})
	}
}

func TestTableIdentity_Sanitize(t *testing.T) {
	tests := []struct {
		ident pgframe.TableIdentity
		want  string
	}{
		{pgframe.TableIdentity{Schema: "public", Table: "users"}, `"public"."users"`},
		{pgframe.TableIdentity{Schema: "s", Table: `x"; DROP TABLE y; --`}, `"s"."x""; DROP TABLE y; --"`},
		{pgframe.TableIdentity{Schema: "Sales", Table: "Q1 2024"}, `"Sales"."Q1 2024"`},
	}

	for _, tt := range tests {
		if got := tt.ident.Sanitize(); got != tt.want {
			t.Errorf("Sanitize(%+v) = %s, want %s", tt.ident, got, tt.want)
		}
	}
}

func TestTableIdentity_ValidateNul(t *testing.T) {
	err := pgframe.TableIdentity{Schema: "public", Table: "a\x00b"}.Validate()
	if !errors.Is(err, pgframe.ErrValidation) {
		t.Errorf("expected ErrValidation for NUL byte, got %v", err)
	}
}

func TestReadRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     pgframe.ReadRequest
		wantErr bool
	}{
		{"query only", pgframe.ReadRequest{Query: "SELECT 1"}, false},
		{"table only", pgframe.ReadRequest{Schema: "public", Table: "t"}, false},
		{"both", pgframe.ReadRequest{Query: "SELECT 1", Schema: "public", Table: "t"}, true},
		{"neither", pgframe.ReadRequest{}, true},
		{"blank query", pgframe.ReadRequest{Query: "   "}, true},
		{"schema without table", pgframe.ReadRequest{Schema: "public"}, true},
		{"table without schema", pgframe.ReadRequest{Table: "t"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr && !errors.Is(err, pgframe.ErrValidation) {
				t.Errorf("Validate() error = %v, want ErrValidation", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestSQLType_String(t *testing.T) {
	tests := map[pgframe.SQLType]string{
		pgframe.SQLTypeText:      "TEXT",
		pgframe.SQLTypeDate:      "DATE",
		pgframe.SQLTypeTimestamp: "TIMESTAMP WITHOUT TIME ZONE",
		pgframe.SQLTypeBigInt:    "BIGINT",
		pgframe.SQLTypeNumeric:   "NUMERIC",
	}
	for typ, want := range tests {
		if got := typ.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(typ), got, want)
		}
	}
}
