package handler

import (
	"errors"
	"net/http"
	"strconv"

	"fruitables-shop/internal/service"

	"github.com/labstack/echo/v4"
)

type MerchandiseHandler struct {
	merchandiseService service.MerchandiseService
}

func NewMerchandiseHandler(merchandiseService service.MerchandiseService) *MerchandiseHandler {
	return &MerchandiseHandler{
		merchandiseService: merchandiseService,
	}
}

func (h *MerchandiseHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	categoryID := uint(0)
	if raw := c.QueryParam("category"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid category")
		}
		categoryID = uint(parsed)
	}

	views, err := h.merchandiseService.List(ctx, categoryID, c.QueryParam("query"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, views)
}

func (h *MerchandiseHandler) Detail(c echo.Context) error {
	ctx := c.Request().Context()

	merchandiseID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid merchandise id")
	}

	view, related, err := h.merchandiseService.GetDetail(ctx, uint(merchandiseID))
	if err != nil {
		if errors.Is(err, service.ErrMerchandiseNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "merchandise not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"merchandise": view,
		"related":     related,
	})
}

func (h *MerchandiseHandler) Categories(c echo.Context) error {
	ctx := c.Request().Context()

	categories, err := h.merchandiseService.ListCategories(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, categories)
}
