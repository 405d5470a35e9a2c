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

// UpdateOrderItems handles PUT /orders/{id}/items. All updates apply in one
// transaction; an item that does not belong to the order fails the whole batch.
func (orm *OrderRoutesManager) UpdateOrderItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid order ID"), gecho.Send())
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateOrderItemsRequest](r)
	if err != nil {
		handling.HandleBodyError(err, orm.logger, w)
		return
	}

	if err := orm.orderService.UpdateOrderItems(ctx, id, body.Items); err != nil {
		if lib.IsNotFound(err) {
			gecho.NotFound(w, gecho.WithMessage("Order item not found on this order"), gecho.Send())
			return
		}
		handling.HandleError(err, "Failed to update order items", orm.logger, w)
		return
	}

	order, err := orm.orderService.GetOrderWithItems(ctx, id)
	if err != nil {
		handling.HandleError(err, "Failed to fetch updated order", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Order items updated"),
		gecho.WithData(order),
		gecho.Send(),
	)
}

// AddOrderItems handles POST /orders/{id}/items
func (orm *OrderRoutesManager) AddOrderItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid order ID"), gecho.Send())
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.AddOrderItemsRequest](r)
	if err != nil {
		handling.HandleBodyError(err, orm.logger, w)
		return
	}

	items, err := orm.orderService.AddOrderItems(ctx, id, body.Items)
	if err != nil {
		if lib.IsNotFound(err) {
			gecho.NotFound(w, gecho.WithMessage("Order not found"), gecho.Send())
			return
		}
		handling.HandleError(err, "Failed to add order items", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Order items added"),
		gecho.WithData(map[string]any{
			"items": items,
		}),
		gecho.Send(),
	)
}

// RemoveOrderItem handles DELETE /orders/{id}/items/{itemId}
func (orm *OrderRoutesManager) RemoveOrderItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid order ID"), gecho.Send())
		return
	}

	itemId, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid order item ID"), gecho.Send())
		return
	}

	if err := orm.orderService.RemoveOrderItem(ctx, id, itemId); err != nil {
		if lib.IsNotFound(err) {
			gecho.NotFound(w, gecho.WithMessage("Order item not found on this order"), gecho.Send())
			return
		}
		handling.HandleError(err, "Failed to remove order item", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Order item removed"),
		gecho.Send(),
	)
}
