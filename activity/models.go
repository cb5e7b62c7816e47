package activity

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// LogEntry models the persisted row in activity_log.
type LogEntry struct {
	bun.BaseModel `bun:"table:activity_log"`

	ID         uuid.UUID      `bun:",pk,type:uuid"`
	Verb       string         `bun:"verb"`
	ObjectType string         `bun:"object_type"`
	ObjectID   string         `bun:"object_id"`
	Channel    string         `bun:"channel"`
	Email      string         `bun:"email"`
	Data       map[string]any `bun:"data,type:jsonb"`
	OccurredAt time.Time      `bun:"occurred_at"`
}
