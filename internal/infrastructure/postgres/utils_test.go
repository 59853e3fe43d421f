package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestWrapErr_MapsCodesWithoutLeakingSchema(t *testing.T) {
	pgErr := func(code string) error {
		return fmt.Errorf("exec: %w", &pgconn.PgError{
			Code:           code,
			Message:        `new row for relation "money_accounts" violates check constraint "money_accounts_current_balance_check"`,
			TableName:      "money_accounts",
			ConstraintName: "money_accounts_current_balance_check",
		})
	}
	cases := map[string]struct {
		err  error
		want error
	}{
		"no rows":   {err: pgx.ErrNoRows, want: domain.ErrNotFound},
		"unique":    {err: pgErr("23505"), want: domain.ErrConflict},
		"check":     {err: pgErr("23514"), want: domain.ErrValidation},
		"fk":        {err: pgErr("23503"), want: domain.ErrValidation},
		"bad uuid":  {err: pgErr("22P02"), want: domain.ErrNotFound},
		"unrelated": {err: errors.New("conn reset"), want: nil},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := wrapErr(tc.err, "update account")
			if tc.want != nil {
				assert.ErrorIs(t, got, tc.want)
				assert.NotContains(t, got.Error(), "money_accounts")
			}
			assert.Contains(t, got.Error(), "update account")
		})
	}
}
