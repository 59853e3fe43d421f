package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/payment"
	"github.com/rs/zerolog"
)

// PaymentHandler serves payments (protected).
type PaymentHandler struct {
	base
	svc *payment.Service
}

// NewPaymentHandler builds the handler.
func NewPaymentHandler(svc *payment.Service, v *validator.Validate, log zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{base: base{v: v, log: log}, svc: svc}
}

// Create records a payment and settles its invoice, account and contact.
// POST /api/payments
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePaymentRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return h.fail(c, err)
	}
	out, err := h.svc.Create(c.Context(), GetTenantID(c), GetUserID(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/payments?type=&contact_id=&invoice_id=&account_id=&include_voided=
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	var in dto.ListPaymentsRequest
	if err := bindQuery(c, h.v, &in); err != nil {
		return h.fail(c, err)
	}
	out, err := h.svc.List(c.Context(), GetTenantID(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/payments/:id
func (h *PaymentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.svc.Get(c.Context(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Void reverses every effect of the payment.
// POST /api/payments/:id/void
func (h *PaymentHandler) Void(c *fiber.Ctx) error {
	out, err := h.svc.Void(c.Context(), GetTenantID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}
