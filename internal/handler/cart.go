package handler

import (
	"net/http"

	"fruitables-shop/internal/dto"
	"fruitables-shop/internal/middleware"
	"fruitables-shop/internal/service"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	owner := middleware.CartOwner(c)

	items := h.cartService.Get(ctx, owner)

	return c.JSON(http.StatusOK, dto.CartResponse{
		Items:     items,
		Subtotal:  dto.CartTotal(items),
		CartCount: len(items),
	})
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	owner := middleware.CartOwner(c)

	var req dto.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	if !h.cartService.AddOrUpdate(ctx, owner, req.MerchandiseID, req.Quantity) {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success": false,
			"message": "Error adding to cart",
		})
	}

	cart := h.cartService.Get(ctx, owner)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":    true,
		"cart_count": len(cart),
	})
}

func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	owner := middleware.CartOwner(c)

	var req dto.UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if !h.cartService.SetQuantity(ctx, owner, req.MerchandiseID, req.Quantity) {
		return c.JSON(http.StatusOK, map[string]interface{}{"success": false})
	}

	cart := h.cartService.Get(ctx, owner)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":    true,
		"removed":    req.Quantity <= 0,
		"subtotal":   dto.CartTotal(cart),
		"cart_count": len(cart),
		"is_empty":   len(cart) == 0,
	})
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	owner := middleware.CartOwner(c)

	var req dto.UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if !h.cartService.Remove(ctx, owner, req.MerchandiseID) {
		return c.JSON(http.StatusOK, map[string]interface{}{"success": false})
	}

	cart := h.cartService.Get(ctx, owner)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":    true,
		"subtotal":   dto.CartTotal(cart),
		"cart_count": len(cart),
		"is_empty":   len(cart) == 0,
	})
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	owner := middleware.CartOwner(c)

	ok := h.cartService.Clear(ctx, owner)
	return c.JSON(http.StatusOK, map[string]interface{}{"success": ok})
}
