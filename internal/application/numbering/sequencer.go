// Package numbering issues human readable document numbers (PREFIX-YEAR-00001).
package numbering

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/ports"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

// Next takes the next number of docType in the series of date's calendar year (UTC).
// It runs inside the caller's transaction; the counter row stays locked until that
// transaction ends, so concurrent documents of the same series queue up.
func Next(ctx context.Context, seqs repository.SequenceRepository, docType entity.DocumentType, date time.Time) (string, error) {
	if !docType.IsValid() {
		return "", fmt.Errorf("%w: document type %q", domain.ErrValidation, docType)
	}
	year := date.UTC().Year()
	prefix, n, err := seqs.Next(ctx, docType, year)
	if err != nil {
		return "", fmt.Errorf("next %s number: %w", docType, err)
	}
	return entity.FormatDocumentNumber(prefix, year, n), nil
}

// Sequencer hands out numbers in their own transaction, for callers that are not
// already inside a unit of work.
type Sequencer struct {
	tx  ports.TxRunner
	now func() time.Time
}

// NewSequencer builds the sequencer.
func NewSequencer(tx ports.TxRunner) *Sequencer {
	return &Sequencer{tx: tx, now: time.Now}
}

// Next returns the next number of docType for the current year.
func (s *Sequencer) Next(ctx context.Context, tenantID string, docType entity.DocumentType) (string, error) {
	var number string
	err := s.tx.Run(ctx, tenantID, func(r repository.Repos) error {
		n, err := Next(ctx, r.Sequences, docType, s.now())
		number = n
		return err
	})
	if err != nil {
		return "", err
	}
	return number, nil
}

// Status reports every series of year for the tenant without taking a number.
// Series not used yet show zero issued and the prefix they will be created with.
func (s *Sequencer) Status(ctx context.Context, tenantID string, year int) ([]dto.SequenceStatus, error) {
	if year <= 0 {
		year = s.now().UTC().Year()
	}
	seqs := s.tx.Repos(tenantID).Sequences
	out := make([]dto.SequenceStatus, 0, len(entity.DocumentTypes()))
	for _, dt := range entity.DocumentTypes() {
		st := dto.SequenceStatus{DocumentType: string(dt), Year: year, Prefix: dt.DefaultPrefix()}
		seq, err := seqs.Current(ctx, dt, year)
		switch {
		case errors.Is(err, domain.ErrNotFound):
		case err != nil:
			return nil, fmt.Errorf("%s sequence: %w", dt, err)
		default:
			st.Prefix = seq.Prefix
			st.Issued = seq.CurrentNumber
			st.LastNumber = entity.FormatDocumentNumber(seq.Prefix, year, seq.CurrentNumber)
		}
		st.NextNumber = entity.FormatDocumentNumber(st.Prefix, year, st.Issued+1)
		out = append(out, st)
	}
	return out, nil
}
