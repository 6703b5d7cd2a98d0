package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pedidoslab/pedidos-api/internal/application"
	"github.com/pedidoslab/pedidos-api/internal/container"
	handlers "github.com/pedidoslab/pedidos-api/internal/interface/http"
	"github.com/pedidoslab/pedidos-api/internal/interface/middleware"
)

// OrderModule wires the order CRUD, dashboard, and search routes. Everything
// here is protected: the session middleware runs first and redirects
// unauthenticated clients to the login entry point.
type OrderModule struct {
	Handler   *handlers.OrderHandler
	Sessions  *application.AuthService
	LoginPath string
}

func NewOrderModule(h *handlers.OrderHandler, sessions *application.AuthService, loginPath string) *OrderModule {
	return &OrderModule{Handler: h, Sessions: sessions, LoginPath: loginPath}
}

func (m *OrderModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Session(m.Sessions, m.LoginPath))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUser(), nil),
	)
	{
		auth.GET("/orders", m.Handler.List)
		auth.POST("/orders", m.Handler.Create)
		auth.GET("/orders/search", m.Handler.Search)
		auth.GET("/orders/:id", m.Handler.Get)
		auth.PUT("/orders/:id", m.Handler.Update)
		auth.POST("/orders/:id/status", m.Handler.UpdateStatus)
		auth.DELETE("/orders/:id", m.Handler.Delete)
		auth.GET("/dashboard", m.Handler.Dashboard)
	}
}
