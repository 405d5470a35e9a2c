package customers

import (
	"opsdesk_server/api/middleware"
	"opsdesk_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type CustomerRoutesManager struct {
	logger          *gecho.Logger
	customerService *services.CustomerService
	orderService    *services.OrderService
	mw              *middleware.Middleware
}

func NewCustomerRoutesManager(
	logger *gecho.Logger,
	customerService *services.CustomerService,
	orderService *services.OrderService,
	mw *middleware.Middleware,
) *CustomerRoutesManager {
	return &CustomerRoutesManager{
		logger:          logger,
		customerService: customerService,
		orderService:    orderService,
		mw:              mw,
	}
}

func (crm *CustomerRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/customers", func(r chi.Router) {
		r.Use(crm.mw.UserAuthMiddleware)
		r.Use(crm.mw.CSRFMiddleware())

		r.Get("/", crm.FetchAllCustomers)
		r.Post("/", crm.CreateCustomer)
		r.Get("/{id}", crm.FetchCustomerByID)
		r.Patch("/{id}", crm.UpdateCustomer)
		r.Delete("/{id}", crm.DeleteCustomer)
		r.Get("/{id}/orders", crm.FetchCustomerOrders)
	})
}
