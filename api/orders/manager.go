package orders

import (
	"opsdesk_server/api/middleware"
	"opsdesk_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type OrderRoutesManager struct {
	logger       *gecho.Logger
	orderService *services.OrderService
	mw           *middleware.Middleware
}

func NewOrderRoutesManager(
	logger *gecho.Logger,
	orderService *services.OrderService,
	mw *middleware.Middleware,
) *OrderRoutesManager {
	return &OrderRoutesManager{
		logger:       logger,
		orderService: orderService,
		mw:           mw,
	}
}

func (orm *OrderRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Use(orm.mw.UserAuthMiddleware)
		r.Use(orm.mw.CSRFMiddleware())

		r.Get("/", orm.FetchAllOrders)
		r.Post("/", orm.CreateOrder)
		r.Get("/{id}", orm.FetchOrderByID)
		r.Patch("/{id}", orm.UpdateOrder)
		r.Delete("/{id}", orm.DeleteOrder)

		r.Route("/{id}/items", func(r chi.Router) {
			r.Put("/", orm.UpdateOrderItems)
			r.Post("/", orm.AddOrderItems)
			r.Delete("/{itemId}", orm.RemoveOrderItem)
		})
	})
}
