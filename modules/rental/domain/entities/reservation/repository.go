package reservation

import (
	"context"

	"github.com/google/uuid"
)

type FindParams struct {
	CustomerID *uuid.UUID
	Statuses   []Status
	Limit      int
	Offset     int
}

type Repository interface {
	Create(ctx context.Context, entity Reservation) (Reservation, error)
	GetByID(ctx context.Context, id uuid.UUID) (Reservation, error)
	GetPaginated(ctx context.Context, params FindParams) ([]Reservation, int64, error)
	Update(ctx context.Context, entity Reservation) (Reservation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
