package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inferlab/predictd/pkg/api/types/predict"
	"github.com/inferlab/predictd/pkg/domain/model"
)

func ModelsHandler(store *model.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, predict.ModelsResponse{
			AvailableModels: store.Names(),
		})
	}
}
