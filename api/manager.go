package api

import (
	"opsdesk_server/api/auth"
	"opsdesk_server/api/customers"
	"opsdesk_server/api/dashboard"
	"opsdesk_server/api/health"
	"opsdesk_server/api/middleware"
	"opsdesk_server/api/orders"
	"opsdesk_server/api/products"
	"opsdesk_server/services"
	"opsdesk_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	authRoutes      *auth.AuthRoutesManager
	customerRoutes  *customers.CustomerRoutesManager
	productRoutes   *products.ProductRoutesManager
	orderRoutes     *orders.OrderRoutesManager
	dashboardRoutes *dashboard.DashboardRoutesManager
	healthRoutes    *health.HealthRoutesManager
}

func NewRouterManager(
	logger *gecho.Logger,
	cfg *structs.Config,
	sm *services.ServiceManager,
	mw *middleware.Middleware,
) *routerManager {
	return &routerManager{
		authRoutes:      auth.NewAuthRoutesManager(logger, sm.Auth, sm.Cache, cfg, mw),
		customerRoutes:  customers.NewCustomerRoutesManager(logger, sm.Customer, sm.Order, mw),
		productRoutes:   products.NewProductRoutesManager(logger, sm.Product, mw),
		orderRoutes:     orders.NewOrderRoutesManager(logger, sm.Order, mw),
		dashboardRoutes: dashboard.NewDashboardRoutesManager(logger, sm.Stats, mw),
		healthRoutes:    health.NewHealthRoutesManager(sm.Health),
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.authRoutes.RegisterRoutes(r)
	rm.customerRoutes.RegisterRoutes(r)
	rm.productRoutes.RegisterRoutes(r)
	rm.orderRoutes.RegisterRoutes(r)
	rm.dashboardRoutes.RegisterRoutes(r)
	rm.healthRoutes.RegisterRoutes(r)
}
