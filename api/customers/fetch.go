package customers

import (
	"net/http"
	"opsdesk_server/handling"
	"opsdesk_server/lib"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// FetchAllCustomers handles GET /customers with search, sorting, and pagination
func (crm *CustomerRoutesManager) FetchAllCustomers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	opts, err := handling.ParseCustomerListOptions(r)
	if err != nil {
		crm.logger.Warn("Invalid query parameters", gecho.Field("error", err))
		gecho.BadRequest(w,
			gecho.WithMessage("Invalid query parameters"),
			gecho.WithData(err.Error()),
			gecho.Send(),
		)
		return
	}

	result, err := crm.customerService.GetAllCustomers(ctx, opts)
	if err != nil {
		handling.HandleError(err, "Failed to fetch customers", crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(result),
		gecho.Send(),
	)
}

// FetchCustomerByID handles GET /customers/{id}
func (crm *CustomerRoutesManager) FetchCustomerByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid customer ID"), gecho.Send())
		return
	}

	customer, err := crm.customerService.GetCustomerById(ctx, id)
	if err != nil {
		if lib.IsNotFound(err) {
			gecho.NotFound(w, gecho.WithMessage("Customer not found"), gecho.Send())
			return
		}
		handling.HandleError(err, "Failed to fetch customer", crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(customer),
		gecho.Send(),
	)
}

// FetchCustomerOrders handles GET /customers/{id}/orders
func (crm *CustomerRoutesManager) FetchCustomerOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid customer ID"), gecho.Send())
		return
	}

	// Confirm the customer exists so a missing id is a 404, not an empty list
	if _, err := crm.customerService.GetCustomerById(ctx, id); err != nil {
		if lib.IsNotFound(err) {
			gecho.NotFound(w, gecho.WithMessage("Customer not found"), gecho.Send())
			return
		}
		handling.HandleError(err, "Failed to fetch customer", crm.logger, w)
		return
	}

	orders, err := crm.orderService.GetOrdersByCustomer(ctx, id)
	if err != nil {
		handling.HandleError(err, "Failed to fetch customer orders", crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"orders": orders,
		}),
		gecho.Send(),
	)
}
