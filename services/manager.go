package services

import (
	"opsdesk_server/database"
	"opsdesk_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	Auth     *AuthService
	Email    *EmailService
	Cache    *CacheService
	Health   *HealthService
	Customer *CustomerService
	Product  *ProductService
	Order    *OrderService
	Stats    *StatsService
}

func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB) *ServiceManager {
	cacheService := NewCacheService(logger, cfg)
	authService := NewAuthService(cfg, logger, db, cacheService)
	emailService := NewEmailService(logger, cfg)
	healthService := NewHealthService(logger, db, cacheService)
	customerService := NewCustomerService(logger, db, cacheService)
	productService := NewProductService(logger, db, cacheService)
	orderService := NewOrderService(logger, cfg, db, customerService, productService, emailService)
	statsService := NewStatsService(logger, db)

	return &ServiceManager{
		Auth:     authService,
		Email:    emailService,
		Cache:    cacheService,
		Health:   healthService,
		Customer: customerService,
		Product:  productService,
		Order:    orderService,
		Stats:    statsService,
	}
}
