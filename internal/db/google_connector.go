package db

import (
	"context"
	"fmt"
	"net"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/pgframe/internal/logging"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// GoogleCloudSQLConnector connects through the Cloud SQL Go Connector with
// IAM database authentication.
//
// Close must be called after the returned pool is closed to release the dialer.
type GoogleCloudSQLConnector struct {
	config *pgframe.ConnectionConfig
	logger pgframe.Logger
	dialer *cloudsqlconn.Dialer
}

// NewGoogleCloudSQLConnector uses config.GoogleInstance (project:region:instance).
func NewGoogleCloudSQLConnector(config *pgframe.ConnectionConfig, logger pgframe.Logger) *GoogleCloudSQLConnector {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &GoogleCloudSQLConnector{config: config, logger: logger}
}

func (c *GoogleCloudSQLConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	dialer, err := cloudsqlconn.NewDialer(ctx, cloudsqlconn.WithIAMAuthN())
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloud SQL dialer: %w: %w", pgframe.ErrConnectionFailed, err)
	}

	dsn := fmt.Sprintf("host=%s user=%s dbname=%s sslmode=disable",
		c.config.GoogleInstance, c.config.Username, c.config.Database)
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		dialer.Close()
		return nil, fmt.Errorf("failed to parse connection config: %w: %w", pgframe.ErrInvalidConfig, err)
	}

	instance := c.config.GoogleInstance
	poolConfig.ConnConfig.DialFunc = func(ctx context.Context, _, _ string) (net.Conn, error) {
		return dialer.Dial(ctx, instance)
	}
	configurePool(poolConfig, c.config.AppName, c.logger)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		dialer.Close()
		return nil, wrapConnectionError(err, instance, 0, c.config.Database)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		dialer.Close()
		return nil, wrapConnectionError(err, instance, 0, c.config.Database)
	}

	c.dialer = dialer
	return pool, nil
}

// Close releases the Cloud SQL dialer.
func (c *GoogleCloudSQLConnector) Close() error {
	if c.dialer != nil {
		err := c.dialer.Close()
		c.dialer = nil
		return err
	}
	return nil
}
