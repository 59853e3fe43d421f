package numbering_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/ledger-api/internal/application/numbering"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/jhoicas/ledger-api/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestNext_FormatsAndResetsPerYear(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seqs := store.Repos("t1").Sequences

	n, err := numbering.Next(ctx, seqs, entity.DocPurchaseInvoice, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "PUR-2025-00001", n)

	n, err = numbering.Next(ctx, seqs, entity.DocPurchaseInvoice, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "PUR-2025-00002", n)

	n, err = numbering.Next(ctx, seqs, entity.DocPurchaseInvoice, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "PUR-2026-00001", n)

	other, err := numbering.Next(ctx, store.Repos("t2").Sequences, entity.DocPurchaseInvoice, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "PUR-2026-00001", other, "tenants have independent series")
}

func TestNext_RejectsUnknownDocumentType(t *testing.T) {
	_, err := numbering.Next(context.Background(), memory.NewStore().Repos("t1").Sequences, "receipt", time.Now())
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSequencer_ConcurrentCallersGetDistinctContiguousNumbers(t *testing.T) {
	const k = 64
	ctx := context.Background()
	store := memory.NewStore()
	seq := numbering.NewSequencer(store)

	var (
		mu  sync.Mutex
		got []string
		g   errgroup.Group
	)
	for i := 0; i < k; i++ {
		g.Go(func() error {
			n, err := seq.Next(ctx, "t1", entity.DocPayment)
			if err != nil {
				return err
			}
			mu.Lock()
			got = append(got, n)
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	sort.Strings(got)
	year := time.Now().UTC().Year()
	for i, n := range got {
		assert.Equal(t, entity.FormatDocumentNumber("PAY", year, int64(i+1)), n)
	}
}

func TestSequencer_RolledBackNumberIsReissued(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	err := store.Run(ctx, "t1", func(r repository.Repos) error {
		if _, err := numbering.Next(ctx, r.Sequences, entity.DocCreditNote, date); err != nil {
			return err
		}
		return domain.ErrValidation
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	n, err := numbering.Next(ctx, store.Repos("t1").Sequences, entity.DocCreditNote, date)
	require.NoError(t, err)
	assert.Equal(t, "CN-2026-00001", n)
}

func TestSequencer_StatusDoesNotConsumeNumbers(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seqs := store.Repos("t1").Sequences
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		_, err := numbering.Next(ctx, seqs, entity.DocPayment, date)
		require.NoError(t, err)
	}

	seq := numbering.NewSequencer(store)
	status, err := seq.Status(ctx, "t1", 2025)
	require.NoError(t, err)
	require.Len(t, status, len(entity.DocumentTypes()))

	byType := map[string]int{}
	for i, s := range status {
		byType[s.DocumentType] = i
	}
	pay := status[byType["payment"]]
	assert.Equal(t, int64(2), pay.Issued)
	assert.Equal(t, "PAY-2025-00002", pay.LastNumber)
	assert.Equal(t, "PAY-2025-00003", pay.NextNumber)

	unused := status[byType["credit_note"]]
	assert.Zero(t, unused.Issued)
	assert.Empty(t, unused.LastNumber)
	assert.Equal(t, "CN-2025-00001", unused.NextNumber)

	again, err := seq.Status(ctx, "t1", 2025)
	require.NoError(t, err)
	assert.Equal(t, status, again)

	n, err := numbering.Next(ctx, seqs, entity.DocPayment, date)
	require.NoError(t, err)
	assert.Equal(t, pay.NextNumber, n)
}
