package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ledger-api/internal/application/dto"
)

// tenantChecker is the slice of *usecase.TenantUseCase the middleware needs.
type tenantChecker interface {
	IsActive(ctx context.Context, tenantID string) (bool, error)
}

// RequireActiveTenant rejects requests whose tenant is unknown or suspended. Must
// run after AuthMiddleware.
//
//   - 403 Forbidden: tenant missing or suspended.
//   - 503 Service Unavailable: the lookup itself failed.
func RequireActiveTenant(checker tenantChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID := GetTenantID(c)
		if tenantID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "tenant_id missing from token"})
		}
		active, err := checker.IsActive(c.Context(), tenantID)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "TENANT_CHECK_FAILED",
				Message: "could not verify the tenant, try again later",
			})
		}
		if !active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "TENANT_INACTIVE",
				Message: "tenant is not active",
			})
		}
		return c.Next()
	}
}
