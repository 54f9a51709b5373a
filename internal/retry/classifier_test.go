package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestConnectClassifier_IsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"connection failure 08006", &pgconn.PgError{Code: "08006"}, true},
		{"unable to connect 08001", &pgconn.PgError{Code: "08001"}, true},
		{"too many connections", &pgconn.PgError{Code: "53300"}, true},
		{"cannot connect now", &pgconn.PgError{Code: "57P03"}, true},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, true},
		{"invalid password", &pgconn.PgError{Code: "28P01"}, false},
		{"database does not exist", &pgconn.PgError{Code: "3D000"}, false},
		{"syntax error", &pgconn.PgError{Code: "42601"}, false},
		{"wrapped pg error", fmt.Errorf("connect: %w", &pgconn.PgError{Code: "08006"}), true},
		{"connection refused errno", &net.OpError{Op: "dial", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}, true},
		{"connection reset errno", fmt.Errorf("read: %w", syscall.ECONNRESET), true},
		{"dns temporary", &net.DNSError{Err: "server misbehaving", IsTemporary: true}, true},
		{"dns not found", &net.DNSError{Err: "no such host", IsNotFound: true}, false},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"message fallback", errors.New("FATAL: the database system is starting up"), true},
		{"unrelated", errors.New("permission denied"), false},
	}

	c := NewConnectClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
