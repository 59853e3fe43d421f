package main

import (
	"encoding/json"
	"fmt"

	"github.com/jhoicas/ledger-api/internal/application/ledger"
	"github.com/jhoicas/ledger-api/internal/application/usecase"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/infrastructure/postgres"
	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Compare every account balance with its movement history",
	Long: `Recomputes each active account's balance from its movements and reports the
accounts whose stored balance disagrees. Exits non-zero when any mismatch is found.`,
	Example: `  ledgerctl reconcile --tenant acme
  ledgerctl reconcile --all`,
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
	reconcileCmd.Flags().String("tenant", "", "Tenant slug or id")
	reconcileCmd.Flags().Bool("all", false, "Reconcile every tenant")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	tenantRef, _ := cmd.Flags().GetString("tenant")
	all, _ := cmd.Flags().GetBool("all")
	if (tenantRef == "") == !all {
		return fmt.Errorf("pass exactly one of --tenant or --all")
	}

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
	svc := ledger.NewService(tx, e.log.Zerolog())

	var ids []string
	switch {
	case all:
		list, err := tenants.List(ctx)
		if err != nil {
			return err
		}
		for _, t := range list {
			ids = append(ids, t.ID)
		}
	default:
		id, err := resolveTenant(ctx, tenants, tenantRef)
		if err != nil {
			return err
		}
		ids = []string{id}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	mismatches := 0
	for _, id := range ids {
		rec, err := svc.Reconcile(ctx, id)
		if err != nil {
			return fmt.Errorf("reconcile %s: %w", id, err)
		}
		mismatches += len(rec.Mismatches)
		e.log.Info().Str("tenant_id", id).Int("checked", rec.Checked).Int("mismatches", len(rec.Mismatches)).Msg("reconciled")
		if err := enc.Encode(map[string]any{"tenant_id": id, "result": rec}); err != nil {
			return err
		}
	}
	if mismatches > 0 {
		return fmt.Errorf("%d account(s) out of balance", mismatches)
	}
	return nil
}
