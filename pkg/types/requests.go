package types

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RequestStatus tracks the swag_requests lifecycle.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
)

// SwagRequest captures a submitted swag shipment request.
type SwagRequest struct {
	ID            uuid.UUID
	RequesterName string
	Email         string
	AddressLine1  string
	AddressLine2  string
	City          string
	Country       string
	PostalCode    string
	Item          string
	Size          string
	Status        RequestStatus
	CreatedAt     time.Time
	ApprovedAt    time.Time
	UpdatedAt     time.Time
}

// RequestFilter narrows swag request listings.
type RequestFilter struct {
	Status     RequestStatus
	Email      string
	Since      *time.Time
	Pagination Pagination
}

// Type implements gocommand.Message for query inputs.
func (RequestFilter) Type() string {
	return "query.request.list"
}

// Validate implements gocommand.Message.
func (RequestFilter) Validate() error {
	return nil
}

// RequestPage represents a paginated list of swag requests.
type RequestPage struct {
	Requests   []SwagRequest
	Total      int
	NextOffset int
	HasMore    bool
}

// SwagRequestRepository persists swag shipment requests.
type SwagRequestRepository interface {
	CreateRequest(ctx context.Context, request SwagRequest) (*SwagRequest, error)
	GetRequestByID(ctx context.Context, id uuid.UUID) (*SwagRequest, error)
	ListRequests(ctx context.Context, filter RequestFilter) (RequestPage, error)
	// ApproveRequest flips a pending row to approved, guarded so an already
	// approved row is not touched. The guard failure surfaces as an
	// expected-count violation.
	ApproveRequest(ctx context.Context, id uuid.UUID, approvedAt time.Time) error
	DeleteRequest(ctx context.Context, id uuid.UUID) error
	// DeleteRequestsBefore removes rows created before the cutoff, whatever
	// their status. Used by the retention sweep.
	DeleteRequestsBefore(ctx context.Context, cutoff time.Time) (int, error)
}
