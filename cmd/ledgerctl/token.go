package main

import (
	"fmt"

	"github.com/jhoicas/ledger-api/pkg/jwt"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for a tenant user (development only)",
	Example: `  ledgerctl token --tenant 6f1c... --user alice --role accountant`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tenantID, _ := cmd.Flags().GetString("tenant")
		userID, _ := cmd.Flags().GetString("user")
		role, _ := cmd.Flags().GetString("role")

		e, err := loadEnv()
		if err != nil {
			return err
		}
		if e.cfg.App.Env == "production" {
			return fmt.Errorf("token minting is disabled in production")
		}
		tok, err := jwt.Generate(e.cfg.JWT.Secret, userID, tenantID, role, e.cfg.JWT.Issuer, e.cfg.JWT.Expiration)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().String("tenant", "", "Tenant id")
	tokenCmd.Flags().String("user", "", "User id")
	tokenCmd.Flags().String("role", "owner", "owner, accountant or viewer")
	_ = tokenCmd.MarkFlagRequired("tenant")
	_ = tokenCmd.MarkFlagRequired("user")
}
