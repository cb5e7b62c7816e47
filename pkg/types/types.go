package types

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Pagination supports query pagination across admin panels.
type Pagination struct {
	Limit  int
	Offset int
}

// ActivityRecord describes audit entries emitted after workflow steps. It is
// shared between the sink and the read-side query layer.
type ActivityRecord struct {
	ID         uuid.UUID
	Verb       string
	ObjectType string
	ObjectID   string
	Channel    string
	Email      string
	Data       map[string]any
	OccurredAt time.Time
}

// ActivitySink is the minimal DI contract for emitting activity. Keep it
// stable and limited to Log so hosts can swap sinks without breaking changes.
type ActivitySink interface {
	Log(context.Context, ActivityRecord) error
}

// ActivityRepository exposes read-side access to the audit trail.
type ActivityRepository interface {
	ListActivity(ctx context.Context, filter ActivityFilter) (ActivityPage, error)
}

// ActivityFilter narrows audit trail queries.
type ActivityFilter struct {
	Verbs      []string
	ObjectType string
	ObjectID   string
	Email      string
	Since      *time.Time
	Until      *time.Time
	Pagination Pagination
}

// Type implements gocommand.Message for query inputs.
func (ActivityFilter) Type() string {
	return "query.activity.feed"
}

// Validate implements gocommand.Message.
func (ActivityFilter) Validate() error {
	return nil
}

// ActivityPage is a paginated slice of audit entries.
type ActivityPage struct {
	Records    []ActivityRecord
	Total      int
	NextOffset int
	HasMore    bool
}

// SessionEvent is emitted after a session is minted or revoked.
type SessionEvent struct {
	Email      string
	Token      string
	ExpiresAt  time.Time
	OccurredAt time.Time
}

// RequestEvent is emitted after a swag request changes state.
type RequestEvent struct {
	RequestID  uuid.UUID
	Email      string
	Status     RequestStatus
	OccurredAt time.Time
}

// Hooks groups optional callbacks invoked after key workflows complete.
type Hooks struct {
	AfterOTPIssued     func(context.Context, string)
	AfterSessionMinted func(context.Context, SessionEvent)
	AfterSessionEnded  func(context.Context, SessionEvent)
	AfterRequestChange func(context.Context, RequestEvent)
	AfterActivity      func(context.Context, ActivityRecord)
}

// Clock abstracts time retrieval for deterministic testing.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID creation.
type IDGenerator interface {
	UUID() uuid.UUID
}

// CodeGenerator mints one-time login codes from a secure randomness source.
type CodeGenerator interface {
	Code() (string, error)
}

// TokenGenerator mints opaque session tokens from a secure randomness source.
type TokenGenerator interface {
	Token() (string, error)
}

// Logger captures basic logging hooks used by the module.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Error(msg string, err error, fields ...any)
}

// SystemClock defers to time.Now for production usage.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator produces UUIDv7 identifiers so records sort by creation time.
type UUIDGenerator struct{}

// UUID implements IDGenerator. It falls back to UUIDv4 when the monotonic
// source fails, which only happens if crypto/rand is unavailable.
func (UUIDGenerator) UUID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// NopLogger discards all log lines.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(string, ...any) {}

// Info implements Logger.
func (NopLogger) Info(string, ...any) {}

// Error implements Logger.
func (NopLogger) Error(string, error, ...any) {}
