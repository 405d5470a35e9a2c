package products

import (
	"net/http"
	"opsdesk_server/handling"
	"opsdesk_server/lib"
	"opsdesk_server/structs"
	"opsdesk_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CreateProduct handles POST /products. A missing SKU is generated
// from the product name.
func (prm *ProductRoutesManager) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := lib.ExtractAndValidateBody[tables.Product](r)
	if err != nil {
		handling.HandleBodyError(err, prm.logger, w)
		return
	}

	product, err := prm.productService.CreateProduct(ctx, body)
	if err != nil {
		if lib.IsConflict(err) {
			gecho.Conflict(w, gecho.WithMessage("A product with this SKU already exists"), gecho.Send())
			return
		}
		handling.HandleError(err, "Failed to create product", prm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Product created"),
		gecho.WithData(product),
		gecho.Send(),
	)
}

// UpdateProduct handles PATCH /products/{id}
func (prm *ProductRoutesManager) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid product ID"), gecho.Send())
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateProductRequest](r)
	if err != nil {
		handling.HandleBodyError(err, prm.logger, w)
		return
	}

	product, err := prm.productService.UpdateProduct(ctx, id, body)
	if err != nil {
		if lib.IsConflict(err) {
			gecho.Conflict(w, gecho.WithMessage("A product with this SKU already exists"), gecho.Send())
			return
		}
		handling.HandleError(err, "Failed to update product", prm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Product updated"),
		gecho.WithData(product),
		gecho.Send(),
	)
}

// DeleteProduct handles DELETE /products/{id}
func (prm *ProductRoutesManager) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid product ID"), gecho.Send())
		return
	}

	if err := prm.productService.DeleteProduct(ctx, id); err != nil {
		handling.HandleError(err, "Failed to delete product", prm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Product deleted"),
		gecho.Send(),
	)
}
