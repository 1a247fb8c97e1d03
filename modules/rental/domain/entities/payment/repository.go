package payment

import (
	"context"

	"github.com/google/uuid"
)

type FindParams struct {
	CustomerID    *uuid.UUID
	ReservationID *uuid.UUID
	Limit         int
	Offset        int
}

type Repository interface {
	Create(ctx context.Context, entity Payment) (Payment, error)
	GetByID(ctx context.Context, id uuid.UUID) (Payment, error)
	GetPaginated(ctx context.Context, params FindParams) ([]Payment, int64, error)
	Update(ctx context.Context, entity Payment) (Payment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
