package handler

import (
	"net/http"
	"time"

	"fruitables-shop/internal/dto"
	"fruitables-shop/internal/middleware"
	"fruitables-shop/internal/service"

	"github.com/labstack/echo/v4"
)

type AccountHandler struct {
	accountService service.AccountService
	cartService    service.CartService
}

func NewAccountHandler(accountService service.AccountService, cartService service.CartService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		cartService:    cartService,
	}
}

func (h *AccountHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "full name, email and password are required")
	}

	resp, err := h.accountService.Register(ctx, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

// Login issues the access token and folds the anonymous session cart into
// the customer's cart.
func (h *AccountHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	resp, err := h.accountService.Login(ctx, &req)
	if err != nil {
		return respondError(c, err)
	}

	if sessionID := middleware.SessionID(c); sessionID != "" {
		h.cartService.Merge(ctx, sessionID, resp.Username)
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    resp.AccessToken,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
	})

	return c.JSON(http.StatusOK, resp)
}

func (h *AccountHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:   middleware.AccessTokenCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
