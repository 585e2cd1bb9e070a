package server

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"storefront-checkout/internal/handler"
	"storefront-checkout/internal/middleware"
	"storefront-checkout/internal/service"
)

type Server struct {
	echo            *echo.Echo
	checkoutHandler *handler.CheckoutHandler
}

func NewServer(checkoutService service.CheckoutService, baseURL string) *Server {
	e := echo.New()

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.CustomerIdentity())

	checkoutHandler := handler.NewCheckoutHandler(checkoutService, baseURL)

	s := &Server{
		echo:            e,
		checkoutHandler: checkoutHandler,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// storefront pages
	s.echo.GET("/", s.checkoutHandler.ProductList)
	s.echo.GET("/checkout/:product_id", s.checkoutHandler.Checkout)
	s.echo.POST("/checkout/:product_id", s.checkoutHandler.Checkout)
	s.echo.GET("/success", s.checkoutHandler.Success)
	s.echo.GET("/cancel", s.checkoutHandler.Cancel)

	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api.GET("/products", s.checkoutHandler.ListProductsJSON)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
