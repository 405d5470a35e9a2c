package products

import (
	"net/http"
	"opsdesk_server/handling"
	"opsdesk_server/lib"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// FetchAllProducts handles GET /products with price range, stock, search,
// sorting, and pagination filters
func (prm *ProductRoutesManager) FetchAllProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	opts, err := handling.ParseProductListOptions(r)
	if err != nil {
		prm.logger.Warn("Invalid query parameters", gecho.Field("error", err))
		gecho.BadRequest(w,
			gecho.WithMessage("Invalid query parameters"),
			gecho.WithData(err.Error()),
			gecho.Send(),
		)
		return
	}

	result, err := prm.productService.GetAllProducts(ctx, opts)
	if err != nil {
		handling.HandleError(err, "Failed to fetch products", prm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(result),
		gecho.Send(),
	)
}

// FetchProductByID handles GET /products/{id}
func (prm *ProductRoutesManager) FetchProductByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid product ID"), gecho.Send())
		return
	}

	product, err := prm.productService.GetProductById(ctx, id)
	if err != nil {
		if lib.IsNotFound(err) {
			gecho.NotFound(w, gecho.WithMessage("Product not found"), gecho.Send())
			return
		}
		handling.HandleError(err, "Failed to fetch product", prm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(product),
		gecho.Send(),
	)
}
