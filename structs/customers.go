package structs

// UpdateCustomerRequest carries a partial customer update. Nil fields are
// left untouched.
type UpdateCustomerRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=500"`
}

// HasChanges reports whether any field is set
func (r *UpdateCustomerRequest) HasChanges() bool {
	return r.Name != nil || r.Email != nil || r.Phone != nil || r.Address != nil
}
