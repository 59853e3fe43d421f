package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ledger-api/internal/application/creditnote"
	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/rs/zerolog"
)

// CreditNoteHandler serves credit and debit notes (protected).
type CreditNoteHandler struct {
	base
	svc *creditnote.Service
}

// NewCreditNoteHandler builds the handler.
func NewCreditNoteHandler(svc *creditnote.Service, v *validator.Validate, log zerolog.Logger) *CreditNoteHandler {
	return &CreditNoteHandler{base: base{v: v, log: log}, svc: svc}
}

// Create POST /api/credit-notes
func (h *CreditNoteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCreditNoteRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return h.fail(c, err)
	}
	out, err := h.svc.Create(c.Context(), GetTenantID(c), GetUserID(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/credit-notes?type=&status=&contact_id=
func (h *CreditNoteHandler) List(c *fiber.Ctx) error {
	var in dto.ListCreditNotesRequest
	if err := bindQuery(c, h.v, &in); err != nil {
		return h.fail(c, err)
	}
	out, err := h.svc.List(c.Context(), GetTenantID(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// GetByID returns the note with lines and allocations.
// GET /api/credit-notes/:id
func (h *CreditNoteHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.svc.Get(c.Context(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Issue POST /api/credit-notes/:id/issue
func (h *CreditNoteHandler) Issue(c *fiber.Ctx) error {
	out, err := h.svc.Issue(c.Context(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Apply allocates part of a credit note to an invoice.
// POST /api/credit-notes/:id/apply
func (h *CreditNoteHandler) Apply(c *fiber.Ctx) error {
	var in dto.ApplyCreditNoteRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return h.fail(c, err)
	}
	out, err := h.svc.Apply(c.Context(), GetTenantID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Cancel POST /api/credit-notes/:id/cancel
func (h *CreditNoteHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelRequest
	if len(c.Body()) > 0 {
		if err := bindBody(c, h.v, &in); err != nil {
			return h.fail(c, err)
		}
	}
	out, err := h.svc.Cancel(c.Context(), GetTenantID(c), c.Params("id"), in.Reason)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Delete soft-deletes a draft.
// DELETE /api/credit-notes/:id
func (h *CreditNoteHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), GetTenantID(c), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
