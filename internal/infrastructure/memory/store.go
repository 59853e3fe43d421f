// Package memory is an in-process implementation of every repository port and of
// ports.TxRunner. Units of work are serialised by one lock and roll back by restoring
// a snapshot, which gives the same all-or-nothing behaviour as the PostgreSQL adapter.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/ledger-api/internal/application/ports"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var _ ports.TxRunner = (*Store)(nil)

type seqKey struct {
	tenantID string
	docType  entity.DocumentType
	year     int
}

type state struct {
	tenants     map[string]entity.Tenant
	accounts    map[string]entity.MoneyAccount
	movements   []entity.AccountMovement
	contacts    map[string]entity.Contact
	products    map[string]entity.Product
	invoices    map[string]entity.Invoice
	payments    map[string]entity.Payment
	notes       map[string]entity.CreditNote
	allocations []entity.CreditNoteAllocation
	sequences   map[seqKey]entity.Sequence
}

func newState() *state {
	return &state{
		tenants:   map[string]entity.Tenant{},
		accounts:  map[string]entity.MoneyAccount{},
		contacts:  map[string]entity.Contact{},
		products:  map[string]entity.Product{},
		invoices:  map[string]entity.Invoice{},
		payments:  map[string]entity.Payment{},
		notes:     map[string]entity.CreditNote{},
		sequences: map[seqKey]entity.Sequence{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.tenants {
		c.tenants[k] = v
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	c.movements = append([]entity.AccountMovement(nil), s.movements...)
	for k, v := range s.contacts {
		c.contacts[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.invoices {
		v.Items = append([]entity.InvoiceItem(nil), v.Items...)
		c.invoices[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	for k, v := range s.notes {
		v.Items = append([]entity.CreditNoteItem(nil), v.Items...)
		c.notes[k] = v
	}
	c.allocations = append([]entity.CreditNoteAllocation(nil), s.allocations...)
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	return c
}

// Store holds the data of every tenant.
type Store struct {
	mu   sync.RWMutex
	data *state
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{data: newState()}
}

// Run executes fn while holding the store lock. If fn fails the store is restored
// to the state it had before Run.
func (s *Store) Run(ctx context.Context, tenantID string, fn func(r repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.data.clone()
	if err := fn(s.repos(tenantID, true)); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// Repos returns repositories that lock per call.
func (s *Store) Repos(tenantID string) repository.Repos {
	return s.repos(tenantID, false)
}

func (s *Store) repos(tenantID string, inTx bool) repository.Repos {
	sc := scope{store: s, tenantID: tenantID, inTx: inTx}
	return repository.Repos{
		TenantID:    tenantID,
		Tenants:     tenantRepo{sc},
		Accounts:    accountRepo{sc},
		Movements:   movementRepo{sc},
		Contacts:    contactRepo{sc},
		Products:    productRepo{sc},
		Invoices:    invoiceRepo{sc},
		Payments:    paymentRepo{sc},
		CreditNotes: creditNoteRepo{sc},
		Sequences:   sequenceRepo{sc},
	}
}

// scope binds a repository to a tenant and knows whether the store lock is already held.
type scope struct {
	store    *Store
	tenantID string
	inTx     bool
}

func (sc scope) read(fn func(d *state) error) error {
	if !sc.inTx {
		sc.store.mu.RLock()
		defer sc.store.mu.RUnlock()
	}
	return fn(sc.store.data)
}

func (sc scope) write(fn func(d *state) error) error {
	if !sc.inTx {
		sc.store.mu.Lock()
		defer sc.store.mu.Unlock()
	}
	return fn(sc.store.data)
}

func paginate[T any](list []T, p repository.Page) []T {
	p = p.Normalize()
	if p.Offset >= len(list) {
		return []T{}
	}
	end := p.Offset + p.Limit
	if end > len(list) {
		end = len(list)
	}
	return list[p.Offset:end]
}

func sortNewestFirst[T any](list []T, key func(T) (dateUnix int64, createdUnixNano int64)) {
	sort.SliceStable(list, func(i, j int) bool {
		di, ci := key(list[i])
		dj, cj := key(list[j])
		if di != dj {
			return di > dj
		}
		return ci > cj
	})
}
