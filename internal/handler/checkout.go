package handler

import (
	"net/http"
	"strconv"

	"fruitables-shop/internal/dto"
	"fruitables-shop/internal/middleware"
	"fruitables-shop/internal/service"

	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// PlaceOrder handles cash-on-delivery. The PayPal flow must go through
// create + capture instead.
func (h *CheckoutHandler) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	owner := middleware.CartOwner(c)

	var req dto.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.PaymentMethod != "" && req.PaymentMethod != "COD" {
		return echo.NewHTTPError(http.StatusBadRequest, "use the payment endpoints for non-COD orders")
	}
	if req.FullName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "full name is required")
	}

	orderID, err := h.checkoutService.PlaceOrder(ctx, owner, req.ShippingInfo)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"order_id": orderID,
	})
}

func (h *CheckoutHandler) CreatePayPalOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreatePayPalOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.Amount <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid amount")
	}

	orderID, err := h.checkoutService.CreatePayPalOrder(ctx, req.Amount)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"order_id": orderID,
	})
}

func (h *CheckoutHandler) CapturePayPalOrder(c echo.Context) error {
	ctx := c.Request().Context()
	owner := middleware.CartOwner(c)

	var req dto.CapturePayPalOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.OrderID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing paypal order id")
	}

	orderID, err := h.checkoutService.CapturePayPalOrder(ctx, owner, req.OrderID, req.ShippingInfo)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"order_id": orderID,
		"message":  "Order placed successfully!",
	})
}

func (h *CheckoutHandler) CreateVnPayPayment(c echo.Context) error {
	ctx := c.Request().Context()
	owner := middleware.CartOwner(c)

	var req dto.CreateVnPayPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.FullName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payment information")
	}

	resp, err := h.checkoutService.CreateVnPayPayment(ctx, owner, req.ShippingInfo, c.RealIP())
	if err != nil {
		return respondError(c, err)
	}

	return c.Redirect(http.StatusFound, resp.PaymentURL)
}

// VnPayReturn is the provider redirect target; it carries no session.
func (h *CheckoutHandler) VnPayReturn(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := h.checkoutService.HandleVnPayReturn(ctx, c.QueryParams())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"order_id": orderID,
		"message":  "Payment successful! Your order has been confirmed.",
	})
}

func (h *CheckoutHandler) OrderConfirmation(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	viewer := ""
	if identity := middleware.CurrentUser(c); identity != nil {
		viewer = identity.Username
	}

	confirmation, err := h.checkoutService.OrderConfirmation(ctx, uint(orderID), viewer)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, confirmation)
}
