package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/ledger"
	"github.com/rs/zerolog"
)

// AccountHandler serves money accounts, their movements and transfers.
type AccountHandler struct {
	base
	svc *ledger.Service
}

// NewAccountHandler builds the handler.
func NewAccountHandler(svc *ledger.Service, v *validator.Validate, log zerolog.Logger) *AccountHandler {
	return &AccountHandler{base: base{v: v, log: log}, svc: svc}
}

// Create opens an account, booking any opening balance.
// POST /api/accounts
func (h *AccountHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAccountRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return h.fail(c, err)
	}
	out, err := h.svc.CreateAccount(c.Context(), GetTenantID(c), GetUserID(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/accounts?include_inactive=true
func (h *AccountHandler) List(c *fiber.Ctx) error {
	out, err := h.svc.ListAccounts(c.Context(), GetTenantID(c), c.QueryBool("include_inactive"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/accounts/:id
func (h *AccountHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.svc.GetAccount(c.Context(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Delete deactivates an account with zero balance.
// DELETE /api/accounts/:id
func (h *AccountHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.DeleteAccount(c.Context(), GetTenantID(c), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Adjust books a manual in/out adjustment.
// POST /api/accounts/:id/adjust
func (h *AccountHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustAccountRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return h.fail(c, err)
	}
	out, err := h.svc.Adjust(c.Context(), GetTenantID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Movements GET /api/accounts/:id/movements?from=&to=&limit=&offset=
func (h *AccountHandler) Movements(c *fiber.Ctx) error {
	var in dto.ListMovementsRequest
	if err := bindQuery(c, h.v, &in); err != nil {
		return h.fail(c, err)
	}
	out, err := h.svc.ListMovements(c.Context(), GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Reconcile compares every balance with its movement history.
// GET /api/accounts/reconcile
func (h *AccountHandler) Reconcile(c *fiber.Ctx) error {
	out, err := h.svc.Reconcile(c.Context(), GetTenantID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Transfer moves money between two accounts.
// POST /api/transfers
func (h *AccountHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return h.fail(c, err)
	}
	out, err := h.svc.Transfer(c.Context(), GetTenantID(c), GetUserID(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
