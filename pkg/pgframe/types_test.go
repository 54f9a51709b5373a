package pgframe_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vvka-141/pgframe/pkg/pgframe"
)

func TestLoadConfig_Validate(t *testing.T) {
	target := pgframe.TableIdentity{Schema: "public", Table: "t"}
	conn := &pgframe.ConnectionConfig{Host: "localhost", Port: 5432}

	tests := []struct {
		name      string
		config    pgframe.LoadConfig
		wantError bool
	}{
		{
			name:   "valid config",
			config: pgframe.LoadConfig{SourcePath: "data.csv", Format: "csv", Target: target, Connection: conn},
		},
		{
			name: "valid replace with force",
			config: pgframe.LoadConfig{
				SourcePath: "data.json", Format: "json", Target: target, Connection: conn,
				Policy: pgframe.PolicyReplace, Force: true,
			},
		},
		{
			name:      "missing source path",
			config:    pgframe.LoadConfig{Format: "csv", Target: target, Connection: conn},
			wantError: true,
		},
		{
			name:      "unknown format",
			config:    pgframe.LoadConfig{SourcePath: "x", Format: "xml", Target: target, Connection: conn},
			wantError: true,
		},
		{
			name:   "semicolon delimiter",
			config: pgframe.LoadConfig{SourcePath: "x", Format: "csv", Delimiter: ';', Target: target, Connection: conn},
		},
		{
			name:      "delimiter with tsv",
			config:    pgframe.LoadConfig{SourcePath: "x", Format: "tsv", Delimiter: ';', Target: target, Connection: conn},
			wantError: true,
		},
		{
			name:      "delimiter with json",
			config:    pgframe.LoadConfig{SourcePath: "x", Format: "json", Delimiter: ',', Target: target, Connection: conn},
			wantError: true,
		},
		{
			name:      "quote delimiter",
			config:    pgframe.LoadConfig{SourcePath: "x", Format: "csv", Delimiter: '"', Target: target, Connection: conn},
			wantError: true,
		},
		{
			name:      "missing target",
			config:    pgframe.LoadConfig{SourcePath: "x", Format: "csv", Connection: conn},
			wantError: true,
		},
		{
			name: "force without replace",
			config: pgframe.LoadConfig{
				SourcePath: "x", Format: "csv", Target: target, Connection: conn,
				Policy: pgframe.PolicyAppend, Force: true,
			},
			wantError: true,
		},
		{
			name:      "missing connection",
			config:    pgframe.LoadConfig{SourcePath: "x", Format: "csv", Target: target},
			wantError: true,
		},
		{
			name: "negative timeout",
			config: pgframe.LoadConfig{
				SourcePath: "x", Format: "tsv", Target: target, Connection: conn, Timeout: -time.Second,
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantError && err == nil {
				t.Fatal("expected error but got nil")
			}
			if !tt.wantError && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := pgframe.LoadConfig{Format: "xml", Force: true}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, pgframe.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if !errors.Is(err, pgframe.ErrValidation) {
		t.Errorf("expected joined target ErrValidation, got %v", err)
	}
}

func TestDumpConfig_Validate(t *testing.T) {
	conn := &pgframe.ConnectionConfig{Host: "localhost"}

	tests := []struct {
		name      string
		config    pgframe.DumpConfig
		wantError error
	}{
		{"table", pgframe.DumpConfig{Request: pgframe.ReadRequest{Schema: "s", Table: "t"}, Format: "table", Connection: conn}, nil},
		{"query csv", pgframe.DumpConfig{Request: pgframe.ReadRequest{Query: "SELECT 1"}, Format: "csv", Connection: conn}, nil},
		{"both sources", pgframe.DumpConfig{Request: pgframe.ReadRequest{Query: "SELECT 1", Schema: "s", Table: "t"}, Format: "json", Connection: conn}, pgframe.ErrValidation},
		{"bad format", pgframe.DumpConfig{Request: pgframe.ReadRequest{Query: "SELECT 1"}, Format: "xml", Connection: conn}, pgframe.ErrInvalidConfig},
		{"no connection", pgframe.DumpConfig{Request: pgframe.ReadRequest{Query: "SELECT 1"}, Format: "csv"}, pgframe.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantError == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantError) {
				t.Errorf("expected %v, got %v", tt.wantError, err)
			}
		})
	}
}

func TestAuthMethod(t *testing.T) {
	if pgframe.AuthMethodAWSIAM.String() != "AWS IAM" {
		t.Errorf("unexpected String(): %s", pgframe.AuthMethodAWSIAM)
	}
	if pgframe.AuthMethod(99).IsValid() {
		t.Error("AuthMethod(99) should be invalid")
	}
}
