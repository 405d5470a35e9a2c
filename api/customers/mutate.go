package customers

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

// CreateCustomer handles POST /customers
func (crm *CustomerRoutesManager) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := lib.ExtractAndValidateBody[tables.Customer](r)
	if err != nil {
		handling.HandleBodyError(err, crm.logger, w)
		return
	}

	customer, err := crm.customerService.CreateCustomer(ctx, body)
	if err != nil {
		handling.HandleError(err, "Failed to create customer", crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Customer created"),
		gecho.WithData(customer),
		gecho.Send(),
	)
}

// UpdateCustomer handles PATCH /customers/{id}
func (crm *CustomerRoutesManager) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid customer ID"), gecho.Send())
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateCustomerRequest](r)
	if err != nil {
		handling.HandleBodyError(err, crm.logger, w)
		return
	}

	customer, err := crm.customerService.UpdateCustomer(ctx, id, body)
	if err != nil {
		handling.HandleError(err, "Failed to update customer", crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Customer updated"),
		gecho.WithData(customer),
		gecho.Send(),
	)
}

// DeleteCustomer handles DELETE /customers/{id}. Customers with orders
// cannot be deleted and yield a conflict.
func (crm *CustomerRoutesManager) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid customer ID"), gecho.Send())
		return
	}

	if err := crm.customerService.DeleteCustomer(ctx, id); err != nil {
		if lib.IsConflict(err) {
			gecho.Conflict(w, gecho.WithMessage("Customer has existing orders and cannot be deleted"), gecho.Send())
			return
		}
		handling.HandleError(err, "Failed to delete customer", crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Customer deleted"),
		gecho.Send(),
	)
}
