package requests

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record models the persisted swag_requests row.
type Record struct {
	bun.BaseModel `bun:"table:swag_requests"`

	ID            uuid.UUID  `bun:"id,pk,type:uuid"`
	RequesterName string     `bun:"requester_name,notnull"`
	Email         string     `bun:"email,notnull"`
	AddressLine1  string     `bun:"address_line1,notnull"`
	AddressLine2  *string    `bun:"address_line2,nullzero"`
	City          string     `bun:"city,notnull"`
	Country       string     `bun:"country,notnull"`
	PostalCode    string     `bun:"postal_code,notnull"`
	Item          string     `bun:"item,notnull"`
	Size          *string    `bun:"size,nullzero"`
	Status        string     `bun:"status,notnull"`
	ApprovedAt    *time.Time `bun:"approved_at,nullzero"`
	CreatedAt     time.Time  `bun:"created_at"`
	UpdatedAt     time.Time  `bun:"updated_at"`
}
