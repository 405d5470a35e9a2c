package products

import (
	"opsdesk_server/api/middleware"
	"opsdesk_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type ProductRoutesManager struct {
	logger         *gecho.Logger
	productService *services.ProductService
	mw             *middleware.Middleware
}

func NewProductRoutesManager(
	logger *gecho.Logger,
	productService *services.ProductService,
	mw *middleware.Middleware,
) *ProductRoutesManager {
	return &ProductRoutesManager{
		logger:         logger,
		productService: productService,
		mw:             mw,
	}
}

func (prm *ProductRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Use(prm.mw.UserAuthMiddleware)
		r.Use(prm.mw.CSRFMiddleware())

		r.Get("/", prm.FetchAllProducts)
		r.Post("/", prm.CreateProduct)
		r.Get("/{id}", prm.FetchProductByID)
		r.Patch("/{id}", prm.UpdateProduct)
		r.Delete("/{id}", prm.DeleteProduct)
	})
}
