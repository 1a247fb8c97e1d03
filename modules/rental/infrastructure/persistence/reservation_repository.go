package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/renterra/backoffice/modules/rental/domain/entities/reservation"
	"github.com/renterra/backoffice/modules/rental/infrastructure/persistence/models"
	"github.com/renterra/backoffice/pkg/composables"
	"github.com/renterra/backoffice/pkg/repo"
)

const reservationColumns = `id, customer_id, product_ids, starts_at, ends_at, status, notes, created_at, updated_at`

type ReservationRepository struct{}

func NewReservationRepository() reservation.Repository {
	return &ReservationRepository{}
}

func (r *ReservationRepository) Create(ctx context.Context, entity reservation.Reservation) (reservation.Reservation, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return reservation.Reservation{}, err
	}

	var row models.Reservation
	if err := tx.QueryRow(
		ctx,
		repo.Insert(
			"reservations",
			[]string{"customer_id", "product_ids", "starts_at", "ends_at", "status", "notes"},
			reservationColumns,
		),
		entity.CustomerID(),
		entity.ProductIDs(),
		entity.StartsAt(),
		entity.EndsAt(),
		string(entity.Status()),
		entity.Notes(),
	).Scan(scanReservationTargets(&row)...); err != nil {
		return reservation.Reservation{}, err
	}
	return toDomainReservation(&row)
}

func (r *ReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (reservation.Reservation, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return reservation.Reservation{}, err
	}

	var row models.Reservation
	if err := tx.QueryRow(
		ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = $1`,
		id,
	).Scan(scanReservationTargets(&row)...); err != nil {
		if err == pgx.ErrNoRows {
			return reservation.Reservation{}, reservation.ErrNotFound
		}
		return reservation.Reservation{}, err
	}
	return toDomainReservation(&row)
}

func (r *ReservationRepository) GetPaginated(ctx context.Context, params reservation.FindParams) ([]reservation.Reservation, int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	var where []string
	var args []interface{}
	argPos := 1
	if params.CustomerID != nil {
		where = append(where, fmt.Sprintf("customer_id = $%d", argPos))
		args = append(args, *params.CustomerID)
		argPos++
	}
	if len(params.Statuses) > 0 {
		statuses := make([]string, 0, len(params.Statuses))
		for _, s := range params.Statuses {
			statuses = append(statuses, string(s))
		}
		where = append(where, fmt.Sprintf("status = ANY($%d)", argPos))
		args = append(args, statuses)
	}
	base := "FROM reservations"
	if len(where) > 0 {
		base += " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) `+base, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + reservationColumns + ` ` + base + ` ORDER BY starts_at DESC ` +
		repo.FormatLimitOffset(params.Limit, params.Offset)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var results []reservation.Reservation
	for rows.Next() {
		var row models.Reservation
		if err := rows.Scan(scanReservationTargets(&row)...); err != nil {
			return nil, 0, err
		}
		entity, err := toDomainReservation(&row)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r *ReservationRepository) Update(ctx context.Context, entity reservation.Reservation) (reservation.Reservation, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return reservation.Reservation{}, err
	}

	var row models.Reservation
	if err := tx.QueryRow(
		ctx,
		repo.Update(
			"reservations",
			[]string{"customer_id", "product_ids", "starts_at", "ends_at", "status", "notes"},
			"id = $7",
		)+` RETURNING `+reservationColumns,
		entity.CustomerID(),
		entity.ProductIDs(),
		entity.StartsAt(),
		entity.EndsAt(),
		string(entity.Status()),
		entity.Notes(),
		entity.ID(),
	).Scan(scanReservationTargets(&row)...); err != nil {
		if err == pgx.ErrNoRows {
			return reservation.Reservation{}, reservation.ErrNotFound
		}
		return reservation.Reservation{}, err
	}
	return toDomainReservation(&row)
}

func (r *ReservationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return reservation.ErrNotFound
	}
	return nil
}

func scanReservationTargets(row *models.Reservation) []any {
	return []any{
		&row.ID,
		&row.CustomerID,
		&row.ProductIDs,
		&row.StartsAt,
		&row.EndsAt,
		&row.Status,
		&row.Notes,
		&row.CreatedAt,
		&row.UpdatedAt,
	}
}
