package tables

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type Order struct {
	tableName  struct{}  `bun:"table:orders,alias:o"`
	Id         uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id" validate:"omitempty,uuid4"`
	CustomerId uuid.UUID `bun:"customer_id,notnull,type:uuid" json:"customer_id" validate:"required,uuid4"`
	OrderDate  time.Time `bun:"order_date,notnull,default:now()" json:"order_date"`

	// Caller-supplied order total in cents. Never recomputed from the line
	// items, so it may drift from their sum.
	TotalAmount int64 `bun:"total_amount,notnull" json:"total_amount" validate:"gte=0"`

	Status        OrderStatus   `bun:"status,notnull,default:'pending'" json:"status" validate:"required,oneof=pending processing completed shipped cancelled"`
	PaymentStatus PaymentStatus `bun:"payment_status,notnull,default:'unpaid'" json:"payment_status" validate:"required,oneof=unpaid paid partially_paid"`
	Notes         string        `bun:"notes" json:"notes,omitempty" validate:"omitempty,max=2000"`
	CreatedAt     time.Time     `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt     time.Time     `bun:"updated_at,notnull,default:now()" json:"updated_at"`
}

// OrderItem rows are removed by the store's ON DELETE CASCADE rule when
// their parent order is deleted.
type OrderItem struct {
	tableName struct{}  `bun:"table:order_items,alias:oi"`
	Id        uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id" validate:"omitempty,uuid4"`
	OrderId   uuid.UUID `bun:"order_id,notnull,type:uuid" json:"order_id" validate:"omitempty,uuid4"`
	ProductId uuid.UUID `bun:"product_id,notnull,type:uuid" json:"product_id" validate:"required,uuid4"`
	Quantity  int       `bun:"quantity,notnull" json:"quantity" validate:"required,min=1"`
	UnitPrice int64     `bun:"unit_price,notnull" json:"unit_price" validate:"gte=0"` // cents

	// Caller-computed; not derived or validated against quantity * unit_price.
	TotalPrice int64 `bun:"total_price,notnull" json:"total_price" validate:"gte=0"` // cents

	CreatedAt time.Time `bun:"created_at,notnull,default:now()" json:"created_at"`
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid        PaymentStatus = "unpaid"
	PaymentStatusPaid          PaymentStatus = "paid"
	PaymentStatusPartiallyPaid PaymentStatus = "partially_paid"
)

var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusCompleted,
	OrderStatusShipped,
	OrderStatusCancelled,
}

var paymentStatuses = []PaymentStatus{
	PaymentStatusUnpaid,
	PaymentStatusPaid,
	PaymentStatusPartiallyPaid,
}

// Valid reports whether s is a member of the closed status set. There is no
// transition graph: any member may be written at any time.
func (s OrderStatus) Valid() bool {
	return slices.Contains(orderStatuses, s)
}

func (s PaymentStatus) Valid() bool {
	return slices.Contains(paymentStatuses, s)
}
