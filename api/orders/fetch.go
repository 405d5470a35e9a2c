package orders

import (
	"net/http"
	"opsdesk_server/handling"
	"opsdesk_server/lib"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// FetchAllOrders handles GET /orders with status, payment status, customer,
// date range, sorting, and pagination filters
func (orm *OrderRoutesManager) FetchAllOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	opts, err := handling.ParseOrderListOptions(r)
	if err != nil {
		orm.logger.Warn("Invalid query parameters", gecho.Field("error", err))
		gecho.BadRequest(w,
			gecho.WithMessage("Invalid query parameters"),
			gecho.WithData(err.Error()),
			gecho.Send(),
		)
		return
	}

	result, err := orm.orderService.GetAllOrders(ctx, opts)
	if err != nil {
		handling.HandleError(err, "Failed to fetch orders", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(result),
		gecho.Send(),
	)
}

// FetchOrderByID handles GET /orders/{id}, returning the order with its items
func (orm *OrderRoutesManager) FetchOrderByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid order ID"), gecho.Send())
		return
	}

	order, err := orm.orderService.GetOrderWithItems(ctx, id)
	if err != nil {
		if lib.IsNotFound(err) {
			gecho.NotFound(w, gecho.WithMessage("Order not found"), gecho.Send())
			return
		}
		handling.HandleError(err, "Failed to fetch order", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(order),
		gecho.Send(),
	)
}
