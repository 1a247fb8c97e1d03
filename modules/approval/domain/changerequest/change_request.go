package changerequest

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a change request. Both reviewed states
// are terminal; a request is never reopened and never deleted.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ActionType is the kind of mutation a request defers.
type ActionType string

const (
	ActionCreate ActionType = "create"
	ActionEdit   ActionType = "edit"
	ActionDelete ActionType = "delete"
)

func (a ActionType) Valid() bool {
	switch a {
	case ActionCreate, ActionEdit, ActionDelete:
		return true
	}
	return false
}

// ResourceType tags the affected resource. The workflow treats it as an
// opaque routing key and never inspects resource-specific fields.
type ResourceType string

const (
	ResourceCustomer    ResourceType = "customer"
	ResourceProduct     ResourceType = "product"
	ResourceReservation ResourceType = "reservation"
	ResourcePayment     ResourceType = "payment"
	ResourceCost        ResourceType = "cost"
)

// Requester identifies the acting user on a request.
type Requester struct {
	ID   uuid.UUID
	Name string
	Role string
}

// ChangeRequest is the persisted record of a deferred mutation awaiting
// human review.
type ChangeRequest struct {
	ID               uuid.UUID
	Requester        Requester
	ActionType       ActionType
	ResourceType     ResourceType
	ResourceID       *string
	OriginalSnapshot map[string]any
	ProposedChanges  map[string]any
	Reason           string
	Status           Status
	ReviewedBy       *uuid.UUID
	ReviewedAt       *time.Time
	ReviewComment    *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

var (
	ErrNotFound        = errors.New("change request not found")
	ErrAlreadyReviewed = errors.New("change request already reviewed")
	ErrSelfReview      = errors.New("requester may not review own change request")
)

// Terminal reports whether the request has left the pending state.
func (c *ChangeRequest) Terminal() bool {
	return c.Status != StatusPending
}
