package main

import (
	"encoding/json"
	"fmt"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/usecase"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/infrastructure/postgres"
	"github.com/spf13/cobra"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Create a tenant with its default cash and bank accounts",
	Example: `  ledgerctl onboard --name "Acme Trading" --slug acme`,
	RunE: runOnboard,
}

func init() {
	rootCmd.AddCommand(onboardCmd)
	onboardCmd.Flags().String("name", "", "Tenant display name")
	onboardCmd.Flags().String("slug", "", "Unique tenant slug")
	_ = onboardCmd.MarkFlagRequired("name")
	_ = onboardCmd.MarkFlagRequired("slug")
}

func runOnboard(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	slug, _ := cmd.Flags().GetString("slug")

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

	uc := usecase.NewTenantUseCase(postgres.NewTxRunner(pool), e.log.Zerolog(), entity.Currency(e.cfg.Ledger.BaseCurrency))
	tenant, err := uc.Onboard(ctx, dto.OnboardTenantRequest{Name: name, Slug: slug})
	if err != nil {
		return fmt.Errorf("onboard %q: %w", slug, err)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(tenant)
}
