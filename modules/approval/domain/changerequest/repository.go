package changerequest

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FindParams defines filters for listing requests.
type FindParams struct {
	Statuses      []Status
	ResourceTypes []ResourceType
	RequesterID   *uuid.UUID
	Limit         int
	Offset        int
	SortAsc       bool
}

// ReviewParams describes the pending → terminal transition. The repository
// applies it as a compare-and-set on the pending status so that exactly one
// of two concurrent reviewers wins.
type ReviewParams struct {
	Status     Status
	ReviewedBy uuid.UUID
	ReviewedAt time.Time
	Comment    *string
}

type Repository interface {
	Create(ctx context.Context, req *ChangeRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*ChangeRequest, error)
	List(ctx context.Context, params FindParams) ([]ChangeRequest, int64, error)
	// Review transitions the request out of pending. Returns
	// ErrAlreadyReviewed when the request exists but is terminal, and
	// ErrNotFound when it does not exist.
	Review(ctx context.Context, id uuid.UUID, params ReviewParams) error
}
