package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inferlab/predictd/pkg/api/types/predict"
)

// HealthHandler reports liveness. Keep it on the auth whitelist so
// probes can reach it bare.
func HealthHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, predict.HealthResponse{Status: "healthy"})
	}
}
