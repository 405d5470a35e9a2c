package tables

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	tableName struct{}  `bun:"table:customers,alias:c"`
	Id        uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id" validate:"omitempty,uuid4"`
	Name      string    `bun:"name,notnull" json:"name" validate:"required,min=1,max=200"`
	Email     string    `bun:"email" json:"email,omitempty" validate:"omitempty,email"`
	Phone     string    `bun:"phone" json:"phone,omitempty" validate:"omitempty,max=30"`
	Address   string    `bun:"address" json:"address,omitempty" validate:"omitempty,max=500"`
	CreatedAt time.Time `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:now()" json:"updated_at"`
}
