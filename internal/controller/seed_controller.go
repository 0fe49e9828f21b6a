package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tutorhub/backend/internal/service"
)

// SeedController exposes the dev-only fixture endpoint. It is registered
// only outside production and additionally requires the X-Dev-Seed header.
type SeedController struct {
	seed *service.SeedService
}

func NewSeedController(seed *service.SeedService) *SeedController {
	return &SeedController{seed: seed}
}

func (ctl *SeedController) Run(c echo.Context) error {
	if c.Request().Header.Get("X-Dev-Seed") != "1" {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	result, err := ctl.seed.Run(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
