// Package contact manages counterparties and their running USD/LBP balances.
package contact

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/ports"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/accounting"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// AdjustBalance applies delta to a contact's balances with a single atomic update.
// Callers are document processors running inside their own transaction.
func AdjustBalance(ctx context.Context, contacts repository.ContactRepository, contactID string, delta accounting.BalanceDelta) error {
	if contactID == "" || delta.IsZero() {
		return nil
	}
	if err := contacts.AdjustBalance(ctx, contactID, delta.USD, delta.LBP); err != nil {
		return fmt.Errorf("adjust contact balance: %w", err)
	}
	return nil
}

// RequireRole loads a contact and checks it may act in role (supplier or customer).
func RequireRole(ctx context.Context, contacts repository.ContactRepository, contactID string, role entity.ContactType) (*entity.Contact, error) {
	c, err := contacts.GetByID(ctx, contactID)
	if err != nil {
		return nil, err
	}
	if !c.Type.Accepts(role) {
		return nil, fmt.Errorf("%w: contact %s is a %s, not a %s", domain.ErrValidation, c.Name, c.Type, role)
	}
	return c, nil
}

// Service exposes contact CRUD.
type Service struct {
	tx ports.TxRunner
}

// NewService builds the contact service.
func NewService(tx ports.TxRunner) *Service {
	return &Service{tx: tx}
}

// Create registers a contact with zero balances.
func (s *Service) Create(ctx context.Context, tenantID string, in dto.CreateContactRequest) (*dto.ContactResponse, error) {
	t := entity.ContactType(in.Type)
	if !t.IsValid() {
		return nil, fmt.Errorf("%w: contact type %q", domain.ErrValidation, in.Type)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: contact name is required", domain.ErrValidation)
	}
	now := time.Now().UTC()
	c := &entity.Contact{
		ID:         uuid.New().String(),
		TenantID:   tenantID,
		Type:       t,
		Name:       name,
		NameAr:     strings.TrimSpace(in.NameAr),
		Phone:      in.Phone,
		Email:      in.Email,
		BalanceUSD: decimal.Zero,
		BalanceLBP: decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.tx.Repos(tenantID).Contacts.Create(ctx, c); err != nil {
		return nil, err
	}
	return ToResponse(c), nil
}

// Get returns one contact.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*dto.ContactResponse, error) {
	c, err := s.tx.Repos(tenantID).Contacts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToResponse(c), nil
}

// List lists contacts, optionally of one type. Contacts of type both are included
// in supplier and customer listings.
func (s *Service) List(ctx context.Context, tenantID string, in dto.ListContactsRequest) ([]dto.ContactResponse, error) {
	list, err := s.tx.Repos(tenantID).Contacts.List(ctx, entity.ContactType(in.Type),
		repository.Page{Limit: in.Limit, Offset: in.Offset}.Normalize())
	if err != nil {
		return nil, err
	}
	out := make([]dto.ContactResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *ToResponse(c))
	}
	return out, nil
}

// ToResponse maps a contact.
func ToResponse(c *entity.Contact) *dto.ContactResponse {
	return &dto.ContactResponse{
		ID:         c.ID,
		Type:       string(c.Type),
		Name:       c.Name,
		NameAr:     c.NameAr,
		Phone:      c.Phone,
		Email:      c.Email,
		BalanceUSD: c.BalanceUSD,
		BalanceLBP: c.BalanceLBP,
		CreatedAt:  c.CreatedAt,
	}
}

// ToRef maps the joined display fields of a document's contact.
func ToRef(ref *entity.ContactRef) *dto.ContactRefResponse {
	if ref == nil {
		return nil
	}
	return &dto.ContactRefResponse{ID: ref.ID, Name: ref.Name, NameAr: ref.NameAr}
}
