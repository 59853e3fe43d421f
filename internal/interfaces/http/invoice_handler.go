package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ledger-api/internal/application/billing"
	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/rs/zerolog"
)

// InvoiceHandler serves purchase, expense and sale invoices (protected).
type InvoiceHandler struct {
	base
	svc *billing.Service
}

// NewInvoiceHandler builds the handler.
func NewInvoiceHandler(svc *billing.Service, v *validator.Validate, log zerolog.Logger) *InvoiceHandler {
	return &InvoiceHandler{base: base{v: v, log: log}, svc: svc}
}

// Create numbers a new invoice; status "pending" also confirms it.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return h.fail(c, err)
	}
	out, err := h.svc.Create(c.Context(), GetTenantID(c), GetUserID(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/invoices?type=&status=&contact_id=&from=&to=
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var in dto.ListInvoicesRequest
	if err := bindQuery(c, h.v, &in); err != nil {
		return h.fail(c, err)
	}
	out, err := h.svc.List(c.Context(), GetTenantID(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// GetByID returns the invoice with its lines.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.svc.Get(c.Context(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Update edits a draft.
// PUT /api/invoices/:id
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return h.fail(c, err)
	}
	out, err := h.svc.Update(c.Context(), GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Delete soft-deletes a draft.
// DELETE /api/invoices/:id
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), GetTenantID(c), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Confirm POST /api/invoices/:id/confirm
func (h *InvoiceHandler) Confirm(c *fiber.Ctx) error {
	out, err := h.svc.Confirm(c.Context(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Cancel POST /api/invoices/:id/cancel
func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.svc.Cancel(c.Context(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}
