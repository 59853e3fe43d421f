package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ledger-api/internal/application/usecase"
	"github.com/rs/zerolog"
)

// TenantHandler exposes the caller's own tenant.
type TenantHandler struct {
	base
	uc *usecase.TenantUseCase
}

// NewTenantHandler builds the handler.
func NewTenantHandler(uc *usecase.TenantUseCase, v *validator.Validate, log zerolog.Logger) *TenantHandler {
	return &TenantHandler{base: base{v: v, log: log}, uc: uc}
}

// Current GET /api/tenant
func (h *TenantHandler) Current(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), GetTenantID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}
