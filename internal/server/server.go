package server

import (
	"fruitables-shop/internal/handler"
	customMiddleware "fruitables-shop/internal/middleware"
	"fruitables-shop/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo               *echo.Echo
	accountHandler     *handler.AccountHandler
	cartHandler        *handler.CartHandler
	checkoutHandler    *handler.CheckoutHandler
	merchandiseHandler *handler.MerchandiseHandler
}

func NewServer(
	jwtSecret string,
	accountService service.AccountService,
	cartService service.CartService,
	checkoutService service.CheckoutService,
	merchandiseService service.MerchandiseService,
) *Server {
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(customMiddleware.CartSession())
	e.Use(customMiddleware.Auth(jwtSecret))

	s := &Server{
		echo:               e,
		accountHandler:     handler.NewAccountHandler(accountService, cartService),
		cartHandler:        handler.NewCartHandler(cartService),
		checkoutHandler:    handler.NewCheckoutHandler(checkoutService),
		merchandiseHandler: handler.NewMerchandiseHandler(merchandiseService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- account --------
	account := api.Group("/account")
	account.POST("/register", s.accountHandler.Register)
	account.POST("/login", s.accountHandler.Login)
	account.POST("/logout", s.accountHandler.Logout)

	// -------- merchandise --------
	api.GET("/merchandises", s.merchandiseHandler.List)
	api.GET("/merchandises/:id", s.merchandiseHandler.Detail)
	api.GET("/categories", s.merchandiseHandler.Categories)

	// -------- cart (anonymous or logged-in) --------
	cart := api.Group("/cart")
	cart.GET("", s.cartHandler.GetCart)
	cart.POST("/add", s.cartHandler.AddToCart)
	cart.POST("/update", s.cartHandler.UpdateQuantity)
	cart.POST("/remove", s.cartHandler.RemoveFromCart)
	cart.POST("/clear", s.cartHandler.ClearCart)

	// -------- checkout (login required) --------
	checkout := api.Group("/checkout", customMiddleware.RequireAuth())
	checkout.POST("/place-order", s.checkoutHandler.PlaceOrder)
	checkout.POST("/paypal/create", s.checkoutHandler.CreatePayPalOrder)
	checkout.POST("/paypal/capture", s.checkoutHandler.CapturePayPalOrder)
	checkout.POST("/vnpay/create", s.checkoutHandler.CreateVnPayPayment)

	// -------- provider callbacks / confirmation (no session) --------
	api.GET("/checkout/vnpay/return", s.checkoutHandler.VnPayReturn)
	api.GET("/orders/:id/confirmation", s.checkoutHandler.OrderConfirmation)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
