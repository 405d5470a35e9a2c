package orders

import (
	"net/http"
	"opsdesk_server/handling"
	"opsdesk_server/lib"
	"opsdesk_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CreateOrder handles POST /orders. The order header and its items are
// written in a single transaction.
func (orm *OrderRoutesManager) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := lib.ExtractAndValidateBody[structs.CreateOrderRequest](r)
	if err != nil {
		handling.HandleBodyError(err, orm.logger, w)
		return
	}

	order, err := orm.orderService.CreateOrder(ctx, body)
	if err != nil {
		if lib.IsConflict(err) {
			gecho.Conflict(w, gecho.WithMessage("Order references a customer that does not exist"), gecho.Send())
			return
		}
		handling.HandleError(err, "Failed to create order", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Order created"),
		gecho.WithData(order),
		gecho.Send(),
	)
}

// UpdateOrder handles PATCH /orders/{id} for header fields only; items are
// managed through the /items routes
func (orm *OrderRoutesManager) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid order ID"), gecho.Send())
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateOrderRequest](r)
	if err != nil {
		handling.HandleBodyError(err, orm.logger, w)
		return
	}

	order, err := orm.orderService.UpdateOrder(ctx, id, body)
	if err != nil {
		handling.HandleError(err, "Failed to update order", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Order updated"),
		gecho.WithData(order),
		gecho.Send(),
	)
}

// DeleteOrder handles DELETE /orders/{id}. Items are removed by the
// database cascade.
func (orm *OrderRoutesManager) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid order ID"), gecho.Send())
		return
	}

	if err := orm.orderService.DeleteOrder(ctx, id); err != nil {
		handling.HandleError(err, "Failed to delete order", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Order deleted"),
		gecho.Send(),
	)
}
