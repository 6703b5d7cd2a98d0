package router

import (
	"github.com/pedidoslab/pedidos-api/internal/application"
	"github.com/pedidoslab/pedidos-api/internal/container"
	pginfra "github.com/pedidoslab/pedidos-api/internal/infrastructure/postgres"
	handlers "github.com/pedidoslab/pedidos-api/internal/interface/http"
	"github.com/pedidoslab/pedidos-api/internal/router/modules"
)

// InitModules initializes all application modules and registers them with the
// router registry. Called once during startup after the container is filled.
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	userRepo := pginfra.NewUserRepository(container.GetPGPool())
	orderRepo := pginfra.NewOrderRepository(container.GetPGPool())

	authSvc := application.NewAuthService(
		userRepo,
		container.GetTokens(),
		cfg.ResetTokenMaxAge,
		cfg.ResetPasswordURL,
		container.GetRabbitPub(),
		cfg.MailSendEnabled,
		container.GetLogger(),
	)
	orderSvc := application.NewOrderService(
		orderRepo,
		container.GetRedis(),
		container.GetRabbitPub(),
		cfg.MailSendEnabled,
		container.GetLogger(),
		container.GetES(),
		cfg.ESOrdersIndex,
		cfg.DashboardCacheTTL,
	)

	authHandler := handlers.NewAuthHandler(authSvc, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure)
	orderHandler := handlers.NewOrderHandler(orderSvc, container.GetLogger())

	r.Add(modules.NewAuthModule(authHandler, authSvc, cfg.LoginPath))
	r.Add(modules.NewOrderModule(orderHandler, authSvc, cfg.LoginPath))
}
