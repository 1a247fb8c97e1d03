package customer

import (
	"context"

	"github.com/google/uuid"
)

type FindParams struct {
	Query  string
	Limit  int
	Offset int
}

type Repository interface {
	Create(ctx context.Context, entity Customer) (Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (Customer, error)
	GetPaginated(ctx context.Context, params FindParams) ([]Customer, int64, error)
	Update(ctx context.Context, entity Customer) (Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
