package reservation

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/renterra/backoffice/modules/rental/domain/snapshot"
	"github.com/renterra/backoffice/pkg/serrors"
)

type Status string

const (
	StatusBooked    Status = "booked"
	StatusActive    Status = "active"
	StatusReturned  Status = "returned"
	StatusCancelled Status = "cancelled"
)

var (
	ErrNotFound      = serrors.NewError("RESERVATION_NOT_FOUND", "reservation not found", "Reservations.Errors.NotFound")
	ErrInvalidPeriod = serrors.NewError("RESERVATION_INVALID_PERIOD", "reservation must end after it starts", "Reservations.Errors.InvalidPeriod")
	ErrNoProducts    = serrors.NewError("RESERVATION_NO_PRODUCTS", "reservation needs at least one product", "Reservations.Errors.NoProducts")
)

type Reservation struct {
	id         uuid.UUID
	customerID uuid.UUID
	productIDs []uuid.UUID
	startsAt   time.Time
	endsAt     time.Time
	status     Status
	notes      string
	createdAt  time.Time
	updatedAt  time.Time
}

func New(customerID uuid.UUID, productIDs []uuid.UUID, startsAt, endsAt time.Time, notes string) Reservation {
	return Reservation{
		customerID: customerID,
		productIDs: productIDs,
		startsAt:   startsAt,
		endsAt:     endsAt,
		status:     StatusBooked,
		notes:      strings.TrimSpace(notes),
	}
}

func Hydrate(
	id uuid.UUID,
	customerID uuid.UUID,
	productIDs []uuid.UUID,
	startsAt time.Time,
	endsAt time.Time,
	status Status,
	notes string,
	createdAt time.Time,
	updatedAt time.Time,
) Reservation {
	return Reservation{
		id:         id,
		customerID: customerID,
		productIDs: productIDs,
		startsAt:   startsAt,
		endsAt:     endsAt,
		status:     status,
		notes:      notes,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (r Reservation) ID() uuid.UUID { return r.id }
func (r Reservation) CustomerID() uuid.UUID { return r.customerID }
func (r Reservation) ProductIDs() []uuid.UUID { return r.productIDs }
func (r Reservation) StartsAt() time.Time { return r.startsAt }
func (r Reservation) EndsAt() time.Time { return r.endsAt }
func (r Reservation) Status() Status { return r.status }
func (r Reservation) Notes() string { return r.notes }
func (r Reservation) CreatedAt() time.Time { return r.createdAt }
func (r Reservation) UpdatedAt() time.Time { return r.updatedAt }

func (r Reservation) WithID(id uuid.UUID) Reservation {
	r.id = id
	return r
}

// Validate checks period and product constraints before persistence.
func (r Reservation) Validate() error {
	if len(r.productIDs) == 0 {
		return ErrNoProducts
	}
	if !r.endsAt.After(r.startsAt) {
		return ErrInvalidPeriod
	}
	return nil
}

func (r Reservation) Snapshot() map[string]any {
	return map[string]any{
		"id":          r.id.String(),
		"customer_id": r.customerID.String(),
		"product_ids": snapshot.UUIDStrings(r.productIDs),
		"starts_at":   r.startsAt.UTC().Format(time.RFC3339),
		"ends_at":     r.endsAt.UTC().Format(time.RFC3339),
		"status":      string(r.status),
		"notes":       r.notes,
	}
}

func FromSnapshot(m map[string]any) (Reservation, error) {
	id, err := snapshot.UUID(m, "id")
	if err != nil {
		return Reservation{}, err
	}
	customerID, err := snapshot.UUID(m, "customer_id")
	if err != nil {
		return Reservation{}, err
	}
	productIDs, err := snapshot.UUIDSlice(m, "product_ids")
	if err != nil {
		return Reservation{}, err
	}
	startsAt, err := snapshot.Time(m, "starts_at")
	if err != nil {
		return Reservation{}, err
	}
	endsAt, err := snapshot.Time(m, "ends_at")
	if err != nil {
		return Reservation{}, err
	}

	entity := New(customerID, productIDs, startsAt, endsAt, snapshot.String(m, "notes"))
	entity.id = id
	if status := snapshot.String(m, "status"); status != "" {
		entity.status = Status(status)
	}
	return entity, nil
}
