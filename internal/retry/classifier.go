package retry

import (
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes worth another connection attempt.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgCodeTooManyConnections = "53300"
	pgCodeAdminShutdown      = "57P01"
	pgCodeCrashShutdown      = "57P02"
	pgCodeCannotConnectNow   = "57P03"
)

var transientMessages = []string{
	"connection refused",
	"connection reset",
	"server closed the connection",
	"network is unreachable",
	"i/o timeout",
	"broken pipe",
	"unexpected eof",
	"the database system is starting up",
}

// ConnectClassifier decides whether a failed connection attempt may succeed
// if repeated. Authentication failures and missing databases are fatal.
type ConnectClassifier struct{}

// NewConnectClassifier creates a ConnectClassifier.
func NewConnectClassifier() *ConnectClassifier {
	return &ConnectClassifier{}
}

// IsTransient reports whether err is worth retrying.
func (c *ConnectClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgCodeTooManyConnections, pgCodeAdminShutdown, pgCodeCrashShutdown, pgCodeCannotConnectNow:
			return true
		}
		return strings.HasPrefix(pgErr.Code, "08")
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	for _, errno := range []syscall.Errno{syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ENETUNREACH, syscall.EHOSTUNREACH} {
		if errors.Is(err, errno) {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range transientMessages {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
