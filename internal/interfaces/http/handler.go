package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// base is embedded by every handler.
type base struct {
	v   *validator.Validate
	log zerolog.Logger
}

func (b base) fail(c *fiber.Ctx, err error) error {
	return writeError(c, b.log, err)
}
