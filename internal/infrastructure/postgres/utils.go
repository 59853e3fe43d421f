package postgres

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation reports a unique constraint violation (23505).
func isUniqueViolation(err error) bool { return pgCode(err) == "23505" }

// isCheckViolation reports a check constraint violation (23514).
func isCheckViolation(err error) bool { return pgCode(err) == "23514" }

// wrapErr maps driver errors to domain errors. what names the failed operation.
// Constraint violations get fixed messages so schema names never reach clients.
func wrapErr(err error, what string) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %s: already exists", domain.ErrConflict, what)
	case isCheckViolation(err):
		return fmt.Errorf("%w: %s: value out of range", domain.ErrValidation, what)
	case pgCode(err) == "23503":
		return fmt.Errorf("%w: %s: unknown reference", domain.ErrValidation, what)
	case pgCode(err) == "22P02":
		// a malformed id can never match a row
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// nullIfEmpty turns "" into SQL NULL, for optional uuid columns.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// dateOnly truncates t to its UTC calendar day, matching DATE columns.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// where accumulates AND-ed predicates with positional arguments.
type where struct {
	clauses []string
	args    []any
}

func newWhere(args ...any) *where {
	return &where{args: args}
}

// add appends cond, which must contain one %d for the argument position.
func (w *where) add(cond string, v any) {
	w.args = append(w.args, v)
	w.clauses = append(w.clauses, fmt.Sprintf(cond, len(w.args)))
}

// raw appends a predicate that takes no argument.
func (w *where) raw(cond string) {
	w.clauses = append(w.clauses, cond)
}

func (w *where) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " AND " + strings.Join(w.clauses, " AND ")
}

// page appends LIMIT/OFFSET placeholders and returns the clause.
func (w *where) page(p repository.Page) string {
	w.args = append(w.args, p.Limit, p.Offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(w.args)-1, len(w.args))
}
