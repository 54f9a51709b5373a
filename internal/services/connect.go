package services

import (
	"context"
	"fmt"

	"github.com/vvka-141/pgframe/internal/db"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// ConnectorFactory builds a connector for resolved connection parameters.
type ConnectorFactory func(*pgframe.ConnectionConfig) (pgframe.Connector, error)

type connectFunc func(ctx context.Context, connConfig *pgframe.ConnectionConfig) (pgframe.DBConnection, func(), error)

// poolConnect opens a pool through factory and adapts it. The returned
// cleanup closes the pool.
func poolConnect(factory ConnectorFactory) connectFunc {
	return func(ctx context.Context, connConfig *pgframe.ConnectionConfig) (pgframe.DBConnection, func(), error) {
		connector, err := factory(connConfig)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create connector: %w", err)
		}

		pool, err := connector.Connect(ctx)
		if err != nil {
			return nil, nil, err
		}

		return db.NewPoolAdapter(pool), pool.Close, nil
	}
}
