package product

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
	Create(ctx context.Context, entity Product) (Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (Product, error)
	GetPaginated(ctx context.Context, params FindParams) ([]Product, int64, error)
	Update(ctx context.Context, entity Product) (Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
