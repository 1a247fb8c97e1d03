package cost

import (
	"context"

	"github.com/google/uuid"
)

type FindParams struct {
	Category string
	Limit    int
	Offset   int
}

type Repository interface {
	Create(ctx context.Context, entity Cost) (Cost, error)
	GetByID(ctx context.Context, id uuid.UUID) (Cost, error)
	GetPaginated(ctx context.Context, params FindParams) ([]Cost, int64, error)
	Update(ctx context.Context, entity Cost) (Cost, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
