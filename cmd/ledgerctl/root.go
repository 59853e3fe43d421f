package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/ledger-api/internal/application/usecase"
	"github.com/jhoicas/ledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ledger-api/pkg/config"
	"github.com/jhoicas/ledger-api/pkg/logger"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Administrative CLI for the ledger service",
	Long: `ledgerctl manages the ledger database: schema migrations, tenant onboarding,
balance reconciliation, numbering status and development tokens.

Configuration is read from the same environment variables as the API
(DATABASE_URL or DB_*, JWT_SECRET, LEDGER_*).`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// env is the configuration and logger shared by every subcommand.
type env struct {
	cfg *config.Config
	log *logger.Logger
}

func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	return &env{cfg: cfg, log: log}, nil
}

func (e *env) pool(ctx context.Context) (*pgxpool.Pool, error) {
	return postgres.NewPool(ctx, e.cfg.DB)
}

// resolveTenant accepts a tenant id or slug and returns the id.
func resolveTenant(ctx context.Context, tenants *usecase.TenantUseCase, ref string) (string, error) {
	if uuid.Validate(ref) == nil {
		return ref, nil
	}
	t, err := tenants.GetBySlug(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("tenant %q: %w", ref, err)
	}
	return t.ID, nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
