package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/ledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ledger-api/pkg/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// One container serves the whole package; every test onboards its own tenants,
// so tests never see each other's rows.
var (
	sharedOnce sync.Once
	sharedDSN  string
	sharedErr  error
)

type testDB struct {
	pool *pgxpool.Pool
	tx   *postgres.TxRunner
	dsn  string
}

func startContainer() {
	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("ledger_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		sharedErr = err
		return
	}
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		sharedErr = err
		return
	}
	m, err := postgres.NewMigrator(dsn, zerolog.Nop())
	if err != nil {
		sharedErr = err
		return
	}
	defer m.Close()
	if err := m.Up(); err != nil {
		sharedErr = err
		return
	}
	sharedDSN = dsn
}

// newTestDB returns a pool over the migrated shared database. It skips under
// -short or when no container runtime is available.
func newTestDB(t *testing.T) *testDB {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in -short mode")
	}
	sharedOnce.Do(startContainer)
	if sharedErr != nil {
		t.Skipf("postgres container unavailable: %v", sharedErr)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: sharedDSN, MaxConns: 16, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return &testDB{pool: pool, tx: postgres.NewTxRunner(pool), dsn: sharedDSN}
}
