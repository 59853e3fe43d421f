package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ledger-api/internal/application/contact"
	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/rs/zerolog"
)

// ContactHandler serves suppliers and customers.
type ContactHandler struct {
	base
	svc *contact.Service
}

// NewContactHandler builds the handler.
func NewContactHandler(svc *contact.Service, v *validator.Validate, log zerolog.Logger) *ContactHandler {
	return &ContactHandler{base: base{v: v, log: log}, svc: svc}
}

// Create POST /api/contacts
func (h *ContactHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateContactRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return h.fail(c, err)
	}
	out, err := h.svc.Create(c.Context(), GetTenantID(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/contacts?type=supplier
func (h *ContactHandler) List(c *fiber.Ctx) error {
	var in dto.ListContactsRequest
	if err := bindQuery(c, h.v, &in); err != nil {
		return h.fail(c, err)
	}
	out, err := h.svc.List(c.Context(), GetTenantID(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// GetByID returns the contact with its running balances.
// GET /api/contacts/:id
func (h *ContactHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.svc.Get(c.Context(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}
