package httpserver

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"trendora/internal/domain"
	"trendora/internal/service/auth"
	"trendora/internal/service/checkout"
	"trendora/internal/session"
)

type catalogService interface {
	List(ctx context.Context, category string) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	LineItem(ctx context.Context, id int64) (domain.LineItem, error)
}

type sessionRegistry interface {
	Get(ctx context.Context, clientID string) (*session.Session, error)
}

type checkoutService interface {
	Checkout(ctx context.Context, clientID string, cart checkout.Cart, info domain.ShippingInfo) (*domain.Order, error)
}

type orderService interface {
	List(ctx context.Context, clientID, filter string) ([]domain.Order, error)
	Get(ctx context.Context, clientID, orderNumber string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, clientID, orderNumber, status string) (*domain.Order, error)
	Cancel(ctx context.Context, clientID, orderNumber string) (*domain.Order, error)
}

type authClient interface {
	Login(ctx context.Context, in auth.LoginInput) (*auth.Result, error)
	Register(ctx context.Context, in auth.RegisterInput) (*auth.Result, error)
	ForgotPassword(ctx context.Context, email string) (*auth.Result, error)
	ResetPassword(ctx context.Context, token, newPassword string) (*auth.Result, error)
	Me(ctx context.Context, token string) (*auth.Result, error)
	Profile(ctx context.Context, token, userID string) (*auth.Result, error)
	UpdateProfile(ctx context.Context, token, userID, contentType string, body io.Reader) (*auth.Result, error)
}

// Deps are the services behind the routes.
type Deps struct {
	Catalog        catalogService
	Sessions       sessionRegistry
	Checkout       checkoutService
	Orders         orderService
	Auth           authClient
	DeliveryCharge decimal.Decimal
	CORSOrigins    []string
	CookieSecure   bool
}

func (d Deps) validate() error {
	switch {
	case d.Catalog == nil:
		return errors.New("catalog service required")
	case d.Sessions == nil:
		return errors.New("session registry required")
	case d.Checkout == nil:
		return errors.New("checkout service required")
	case d.Orders == nil:
		return errors.New("order service required")
	case d.Auth == nil:
		return errors.New("auth client required")
	}
	return nil
}

type api struct {
	deps   Deps
	logger zerolog.Logger
}

// buildRouter wires routes for the API.
func buildRouter(logger zerolog.Logger, storage Pinger, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(recovery(logger), requestLogger(logger))
	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", clientHeader},
			ExposeHeaders:    []string{clientHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(storage))

	a := &api{deps: deps, logger: logger}

	apiGroup := router.Group("/api")
	apiGroup.GET("/products", a.listProducts)
	apiGroup.GET("/products/:id", a.getProduct)

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/login", a.login)
	authGroup.POST("/register", a.register)
	authGroup.POST("/logout", a.logout)
	authGroup.POST("/forgot-password", a.forgotPassword)
	authGroup.POST("/reset-password/:token", a.resetPassword)
	authGroup.GET("/me", a.me)

	apiGroup.GET("/profile/:userId", a.getProfile)
	apiGroup.PUT("/profile/:userId", a.updateProfile)

	client := apiGroup.Group("", clientMiddleware(deps.CookieSecure))
	client.GET("/cart", a.getCart)
	client.POST("/cart/items", a.addCartItem)
	client.PATCH("/cart/items/:id", a.setCartQuantity)
	client.DELETE("/cart/items/:id", a.removeCartItem)
	client.DELETE("/cart", a.clearCart)

	client.GET("/favorites", a.listFavorites)
	client.GET("/favorites/:id", a.isFavorite)
	client.POST("/favorites", a.addFavorite)
	client.DELETE("/favorites/:id", a.removeFavorite)
	client.DELETE("/favorites", a.clearFavorites)
	client.POST("/favorites/:id/cart", a.favoriteToCart)

	client.POST("/checkout", a.checkout)
	client.GET("/orders", a.listOrders)
	client.GET("/orders/:orderNumber", a.getOrder)
	client.POST("/orders/:orderNumber/cancel", a.cancelOrder)

	admin := router.Group("/admin", requireRole(deps.Auth, auth.RoleAdmin, logger))
	admin.PATCH("/orders/:client/:orderNumber", a.adminUpdateOrderStatus)

	return router, nil
}
