// Package storage opens the graph.Store backend selected by configuration.
package storage

import (
	"context"
	"fmt"

	"link-graph/backend/internal/graph"
	"link-graph/backend/internal/graph/neo4jstore"
	"link-graph/backend/internal/graph/sqlstore"
	"link-graph/backend/pkg/config"
	"link-graph/backend/pkg/logger"

	"go.uber.org/zap"
)

// Open connects to the configured backend and, when migrate is set, applies
// its schema
func Open(ctx context.Context, cfg *config.Config, migrate bool) (graph.Store, error) {
	log := logger.Named("storage")

	var (
		store graph.Store
		err   error
	)
	switch cfg.StoreBackend {
	case config.BackendNeo4j:
		store, err = neo4jstore.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword, cfg.Neo4jDatabase)
		if err == nil {
			log.Info("Connected to Neo4j", zap.String("uri", cfg.Neo4jURI), zap.String("database", cfg.Neo4jDatabase))
		}
	case config.BackendSQLite:
		store, err = sqlstore.OpenStore(cfg.SQLitePath)
		if err == nil {
			log.Info("Opened SQLite database", zap.String("path", cfg.SQLitePath))
		}
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	if err != nil {
		return nil, err
	}

	if migrate {
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to migrate %s store: %w", cfg.StoreBackend, err)
		}
	}
	return store, nil
}
