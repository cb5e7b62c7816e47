package sessions

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record models the persisted admin_sessions row.
type Record struct {
	bun.BaseModel `bun:"table:admin_sessions"`

	ID               uuid.UUID  `bun:"id,pk,type:uuid"`
	Email            string     `bun:"email,notnull"`
	Code             string     `bun:"code,notnull"`
	IssuedAt         time.Time  `bun:"issued_at,notnull"`
	CodeExpiresAt    time.Time  `bun:"code_expires_at,notnull"`
	SessionToken     *string    `bun:"session_token,nullzero"`
	SessionExpiresAt *time.Time `bun:"session_expires_at,nullzero"`
	CreatedAt        time.Time  `bun:"created_at"`
	UpdatedAt        time.Time  `bun:"updated_at"`
}
