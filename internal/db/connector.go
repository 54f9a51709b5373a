package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/pgframe/internal/logging"
	"github.com/vvka-141/pgframe/internal/retry"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// Pool configuration. A load or dump runs one statement stream at a time,
// so a single connection is enough.
const (
	DefaultMaxConns        = 1
	DefaultMaxConnIdleTime = 5 * time.Minute

	// tokenExpiryWarning triggers a warning when a cloud token is about to expire.
	tokenExpiryWarning = 5 * time.Minute
)

func configurePool(poolConfig *pgxpool.Config, appName string, logger pgframe.Logger) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	if appName == "" {
		appName = pgframe.ApplicationName
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = appName
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Verbose("%s: %s", notice.Severity, notice.Message)
	}
}

// PoolConnector opens a pgx pool with retries on transient failures.
// With a TokenProvider set, a fresh token is used as the password on each
// attempt (AWS IAM, Azure Entra ID).
type PoolConnector struct {
	config        *pgframe.ConnectionConfig
	tokenProvider TokenProvider
	logger        pgframe.Logger
	retryExecutor *retry.Executor
}

// NewStandardConnector creates a connector for password or client
// certificate authentication.
func NewStandardConnector(config *pgframe.ConnectionConfig, logger pgframe.Logger) *PoolConnector {
	return NewTokenBasedConnector(config, nil, logger)
}

// NewTokenBasedConnector creates a connector that authenticates with tokens
// from tokenProvider. A nil provider means the configured password is used.
func NewTokenBasedConnector(config *pgframe.ConnectionConfig, tokenProvider TokenProvider, logger pgframe.Logger) *PoolConnector {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	strategy := retry.NewExponentialBackoff(pgframe.DefaultRetryMaxAttempts,
		retry.WithInitialDelay(pgframe.DefaultRetryInitialDelay),
		retry.WithMaxDelay(pgframe.DefaultRetryMaxDelay),
	)

	return &PoolConnector{
		config:        config,
		tokenProvider: tokenProvider,
		logger:        logger,
		retryExecutor: retry.NewExecutor(retry.NewConnectClassifier(), strategy, retry.WithLogger(logger)),
	}
}

// Connect establishes a connection pool and pings it.
func (c *PoolConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool

	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		cfg := *c.config
		if c.tokenProvider != nil {
			token, err := c.acquireToken(ctx)
			if err != nil {
				return err
			}
			cfg.Password = token
		}

		poolConfig, err := pgxpool.ParseConfig(BuildConnectionString(&cfg))
		if err != nil {
			return fmt.Errorf("failed to parse connection config: %w: %w", pgframe.ErrInvalidConfig, err)
		}
		configurePool(poolConfig, cfg.AppName, c.logger)

		p, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return wrapConnectionError(err, cfg.Host, cfg.Port, cfg.Database)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return wrapConnectionError(err, cfg.Host, cfg.Port, cfg.Database)
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Verbose("Connected to %s:%d/%s", c.config.Host, c.config.Port, c.config.Database)
	return pool, nil
}

func (c *PoolConnector) acquireToken(ctx context.Context) (string, error) {
	token, expiresOn, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to acquire token from %s: %w: %w", c.tokenProvider, pgframe.ErrConnectionFailed, err)
	}
	if remaining := time.Until(expiresOn); remaining < tokenExpiryWarning {
		c.logger.Warn("%s token expires in %v", c.tokenProvider, remaining.Round(time.Second))
	}
	return token, nil
}

// NewConnector picks the connector for config.AuthMethod.
func NewConnector(config *pgframe.ConnectionConfig, logger pgframe.Logger) (pgframe.Connector, error) {
	switch config.AuthMethod {
	case pgframe.AuthMethodStandard, pgframe.AuthMethodCertificate:
		return NewStandardConnector(config, logger), nil
	case pgframe.AuthMethodAWSIAM:
		endpoint := fmt.Sprintf("%s:%d", config.Host, config.Port)
		provider, err := NewAWSIAMTokenProvider(endpoint, config.AWSRegion, config.Username)
		if err != nil {
			return nil, err
		}
		return NewTokenBasedConnector(config, provider, logger), nil
	case pgframe.AuthMethodGoogleIAM:
		if config.GoogleInstance == "" {
			return nil, fmt.Errorf("Google Cloud SQL IAM auth requires --google-instance (project:region:instance): %w", pgframe.ErrInvalidConfig)
		}
		if config.Username == "" {
			return nil, fmt.Errorf("Google Cloud SQL IAM auth requires a username (-U): %w", pgframe.ErrInvalidConfig)
		}
		return NewGoogleCloudSQLConnector(config, logger), nil
	case pgframe.AuthMethodAzureEntraID:
		provider, err := newAzureTokenProvider(config)
		if err != nil {
			return nil, err
		}
		return NewTokenBasedConnector(config, provider, logger), nil
	default:
		return nil, fmt.Errorf("auth method %v: %w", config.AuthMethod, pgframe.ErrUnsupportedAuthMethod)
	}
}

// newAzureTokenProvider uses a service principal when all three of tenant,
// client and secret are set, and the default credential chain otherwise.
func newAzureTokenProvider(config *pgframe.ConnectionConfig) (TokenProvider, error) {
	if config.AzureTenantID != "" && config.AzureClientID != "" && config.AzureClientSecret != "" {
		return NewAzureServicePrincipalProvider(config.AzureTenantID, config.AzureClientID, config.AzureClientSecret)
	}
	return NewAzureDefaultCredentialProvider()
}

// wrapConnectionError adds guidance to raw pgx connection errors. The result
// wraps both pgframe.ErrConnectionFailed and err.
func wrapConnectionError(err error, host string, port int, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	var msg string
	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		msg = fmt.Sprintf(`connection refused to %s

Possible causes:
  - PostgreSQL is not running (check: pg_isready -h %s -p %d)
  - Wrong host or port
  - Firewall blocking the connection`, addr, host, port)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		msg = fmt.Sprintf(`cannot resolve host "%s"

Possible causes:
  - Hostname is misspelled
  - DNS is not configured or reachable`, host)

	case strings.Contains(errStr, "password authentication failed"):
		msg = fmt.Sprintf(`password authentication failed for database "%s"

Possible causes:
  - Wrong password (check $PGPASSWORD or ~/.pgpass)
  - Wrong username`, database)

	case strings.Contains(errStr, "does not exist"):
		msg = fmt.Sprintf(`database "%s" does not exist

Create it first (createdb %s) or pass another one with -d.`, database, database)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		msg = fmt.Sprintf(`connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Firewall silently dropping packets
  - Wrong host/port (server not listening)`, addr)

	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		msg = `SSL/TLS connection error

Possible causes:
  - Server requires SSL but --sslmode is wrong
  - Certificate verification failed (try --sslmode=require)
  - Client certificates missing (check --sslcert, --sslkey)`

	case strings.Contains(errStr, "too many connections"):
		msg = fmt.Sprintf(`too many connections to database "%s"

The server's max_connections limit is reached.`, database)

	default:
		return fmt.Errorf("failed to connect to database: %w: %w", pgframe.ErrConnectionFailed, err)
	}

	return fmt.Errorf("%s\n\n%w: %w", msg, pgframe.ErrConnectionFailed, err)
}
