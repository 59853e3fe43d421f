package main

import (
	"encoding/json"

	"github.com/jhoicas/ledger-api/internal/application/numbering"
	"github.com/jhoicas/ledger-api/internal/application/usecase"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/infrastructure/postgres"
	"github.com/spf13/cobra"
)

var sequencesCmd = &cobra.Command{
	Use:   "sequences",
	Short: "Show the document numbering series of a tenant",
	Long: `Prints, for every document type, the last number issued in the given year and
the number the next document will get. Nothing is consumed.`,
	Example: `  ledgerctl sequences --tenant acme
  ledgerctl sequences --tenant acme --year 2025`,
	RunE: runSequences,
}

func init() {
	rootCmd.AddCommand(sequencesCmd)
	sequencesCmd.Flags().String("tenant", "", "Tenant slug or id")
	sequencesCmd.Flags().Int("year", 0, "Calendar year (default: current year)")
	_ = sequencesCmd.MarkFlagRequired("tenant")
}

func runSequences(cmd *cobra.Command, args []string) error {
	tenantRef, _ := cmd.Flags().GetString("tenant")
	year, _ := cmd.Flags().GetInt("year")

	e, err := loadEnv()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	pool, err := e.pool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	tx := postgres.NewTxRunner(pool)
	tenants := usecase.NewTenantUseCase(tx, e.log.Zerolog(), entity.Currency(e.cfg.Ledger.BaseCurrency))
	id, err := resolveTenant(ctx, tenants, tenantRef)
	if err != nil {
		return err
	}
	status, err := numbering.NewSequencer(tx).Status(ctx, id, year)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"tenant_id": id, "sequences": status})
}
