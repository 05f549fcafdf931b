package main

import (
	"context"
	"fmt"
	"os"

	"link-graph/backend/internal/graph"
	"link-graph/backend/internal/services"
	"link-graph/backend/internal/storage"
	"link-graph/backend/pkg/config"
	"link-graph/backend/pkg/logger"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "linkctl",
		Short:         "Administer the link graph store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(migrateCmd())
	root.AddCommand(seedCmd())
	root.AddCommand(tokenCmd())
	root.AddCommand(usersCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// env is what every subcommand needs
type env struct {
	cfg   *config.Config
	store graph.Store
	svc   *services.Services
}

func (e *env) close() {
	_ = e.store.Close()
	logger.Sync()
}

func openEnv(ctx context.Context, migrate bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	store, err := storage.Open(ctx, cfg, migrate)
	if err != nil {
		return nil, err
	}
	return &env{
		cfg:   cfg,
		store: store,
		svc: services.New(store, services.Options{
			SearchTimeout: cfg.SearchTimeout,
			JWTSecret:     cfg.JWTSecret,
			JWTExpiresIn:  cfg.JWTExpiresIn,
		}),
	}, nil
}
