package structs

// UpdateProductRequest carries a partial product update. Nil fields are
// left untouched.
type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price       *int64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	SKU         *string `json:"sku,omitempty" validate:"omitempty,max=50"`
	Stock       *int    `json:"stock_quantity,omitempty" validate:"omitempty,gte=0"`
}

// HasChanges reports whether any field is set
func (r *UpdateProductRequest) HasChanges() bool {
	return r.Name != nil || r.Description != nil || r.Price != nil || r.SKU != nil || r.Stock != nil
}
