package structs

import (
	"opsdesk_server/structs/tables"
	"time"

	"github.com/google/uuid"
)

// OrderWithItems is the order aggregate as served to clients: the header
// row plus its line items. Items is never nil, an order without lines
// serializes as an empty array.
type OrderWithItems struct {
	tables.Order
	Items []tables.OrderItem `json:"items"`
}

// OrderItemInput is a line item as submitted by a client, without
// identifiers. The total price is caller-computed.
type OrderItemInput struct {
	ProductId  uuid.UUID `json:"product_id" validate:"required,uuid4"`
	Quantity   int       `json:"quantity" validate:"required,min=1"`
	UnitPrice  int64     `json:"unit_price" validate:"gte=0"`
	TotalPrice int64     `json:"total_price" validate:"gte=0"`
}

type CreateOrderRequest struct {
	CustomerId    uuid.UUID        `json:"customer_id" validate:"required,uuid4"`
	OrderDate     *time.Time       `json:"order_date,omitempty"`
	TotalAmount   int64            `json:"total_amount" validate:"gte=0"`
	Status        string           `json:"status" validate:"omitempty,oneof=pending processing completed shipped cancelled"`
	PaymentStatus string           `json:"payment_status" validate:"omitempty,oneof=unpaid paid partially_paid"`
	Notes         string           `json:"notes,omitempty" validate:"omitempty,max=2000"`
	Items         []OrderItemInput `json:"items" validate:"dive"`
}

type UpdateOrderRequest struct {
	CustomerId    *uuid.UUID `json:"customer_id,omitempty" validate:"omitempty,uuid4"`
	OrderDate     *time.Time `json:"order_date,omitempty"`
	TotalAmount   *int64     `json:"total_amount,omitempty" validate:"omitempty,gte=0"`
	Status        *string    `json:"status,omitempty" validate:"omitempty,oneof=pending processing completed shipped cancelled"`
	PaymentStatus *string    `json:"payment_status,omitempty" validate:"omitempty,oneof=unpaid paid partially_paid"`
	Notes         *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// OrderItemUpdate targets one existing line item, scoped to both the item id
// and its parent order on write.
type OrderItemUpdate struct {
	Id         uuid.UUID `json:"id" validate:"required,uuid4"`
	Quantity   int       `json:"quantity" validate:"required,min=1"`
	UnitPrice  int64     `json:"unit_price" validate:"gte=0"`
	TotalPrice int64     `json:"total_price" validate:"gte=0"`
}

type UpdateOrderItemsRequest struct {
	Items []OrderItemUpdate `json:"items" validate:"required,min=1,dive"`
}

type AddOrderItemsRequest struct {
	Items []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}
