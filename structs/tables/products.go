package tables

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	tableName   struct{}  `bun:"table:products,alias:p"`
	Id          uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id" validate:"omitempty,uuid4"`
	Name        string    `bun:"name,notnull" json:"name" validate:"required,min=1,max=200"`
	Description string    `bun:"description" json:"description,omitempty" validate:"omitempty,max=2000"`
	Price       int64     `bun:"price,notnull" json:"price" validate:"gte=0"` // stored in cents
	SKU         string    `bun:"sku" json:"sku,omitempty" validate:"omitempty,max=50"`
	Stock       int       `bun:"stock_quantity,notnull" json:"stock_quantity" validate:"gte=0"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:now()" json:"updated_at"`
}

// StockBadge classifies the stock level for list views: out of stock is
// "destructive", ten or fewer is "secondary", anything above is "default".
func (p *Product) StockBadge() string {
	switch {
	case p.Stock == 0:
		return "destructive"
	case p.Stock <= 10:
		return "secondary"
	default:
		return "default"
	}
}
