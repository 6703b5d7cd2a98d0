package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pedidoslab/pedidos-api/internal/application"
	"github.com/pedidoslab/pedidos-api/internal/container"
	handlers "github.com/pedidoslab/pedidos-api/internal/interface/http"
	"github.com/pedidoslab/pedidos-api/internal/interface/middleware"
)

// AuthModule wires registration, login, password recovery, and profile routes.
// Public: POST /api/register, POST /api/login, POST /api/auth/reset/init,
// GET|POST /api/auth/reset/:token
// Protected: POST /api/logout, GET /api/profile, PUT /api/profile
type AuthModule struct {
	Handler   *handlers.AuthHandler
	Sessions  *application.AuthService
	LoginPath string
}

func NewAuthModule(h *handlers.AuthHandler, sessions *application.AuthService, loginPath string) *AuthModule {
	return &AuthModule{Handler: h, Sessions: sessions, LoginPath: loginPath}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	resetInitLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetConfirmLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/reset/init", resetInitLimiter, m.Handler.ResetInit)
	rg.GET("/auth/reset/:token", resetConfirmLimiter, m.Handler.ResetVerify)
	rg.POST("/auth/reset/:token", resetConfirmLimiter, m.Handler.ResetConfirm)

	auth := rg.Group("/")
	auth.Use(middleware.Session(m.Sessions, m.LoginPath))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUser(), nil))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
	}
}
