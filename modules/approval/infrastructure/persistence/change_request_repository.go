package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/renterra/backoffice/modules/approval/domain/changerequest"
	"github.com/renterra/backoffice/modules/approval/infrastructure/persistence/models"
	"github.com/renterra/backoffice/pkg/composables"
	"github.com/renterra/backoffice/pkg/repo"
)

const changeRequestColumns = `
	id, requester_id, requester_name, requester_role, action_type,
	resource_type, resource_id, original_snapshot, proposed_changes,
	reason, status, reviewed_by, reviewed_at, review_comment,
	created_at, updated_at`

type ChangeRequestRepository struct{}

func NewChangeRequestRepository() changerequest.Repository {
	return &ChangeRequestRepository{}
}

func (r *ChangeRequestRepository) Create(ctx context.Context, req *changerequest.ChangeRequest) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	row, err := toDBChangeRequest(req)
	if err != nil {
		return err
	}

	return tx.QueryRow(
		ctx,
		repo.Insert(
			"change_requests",
			[]string{
				"requester_id", "requester_name", "requester_role",
				"action_type", "resource_type", "resource_id",
				"original_snapshot", "proposed_changes", "reason", "status",
			},
			"id", "created_at", "updated_at",
		),
		row.RequesterID,
		row.RequesterName,
		row.RequesterRole,
		row.ActionType,
		row.ResourceType,
		row.ResourceID,
		row.OriginalSnapshot,
		row.ProposedChanges,
		row.Reason,
		row.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
}

func (r *ChangeRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*changerequest.ChangeRequest, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + changeRequestColumns + ` FROM change_requests WHERE id = $1`
	var row models.ChangeRequest
	if err := tx.QueryRow(ctx, query, id).Scan(
		&row.ID,
		&row.RequesterID,
		&row.RequesterName,
		&row.RequesterRole,
		&row.ActionType,
		&row.ResourceType,
		&row.ResourceID,
		&row.OriginalSnapshot,
		&row.ProposedChanges,
		&row.Reason,
		&row.Status,
		&row.ReviewedBy,
		&row.ReviewedAt,
		&row.ReviewComment,
		&row.CreatedAt,
		&row.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, changerequest.ErrNotFound
		}
		return nil, err
	}
	return toDomainChangeRequest(&row)
}

func (r *ChangeRequestRepository) List(ctx context.Context, params changerequest.FindParams) ([]changerequest.ChangeRequest, int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	where, args := buildChangeRequestFilters(params)
	base := `FROM change_requests`
	if len(where) > 0 {
		base += ` WHERE ` + strings.Join(where, " AND ")
	}

	var total int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) `+base, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := " ORDER BY created_at DESC, id DESC"
	if params.SortAsc {
		order = " ORDER BY created_at ASC, id ASC"
	}
	query := `SELECT ` + changeRequestColumns + ` ` + base + order
	query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var results []changerequest.ChangeRequest
	for rows.Next() {
		var row models.ChangeRequest
		if err := rows.Scan(
			&row.ID,
			&row.RequesterID,
			&row.RequesterName,
			&row.RequesterRole,
			&row.ActionType,
			&row.ResourceType,
			&row.ResourceID,
			&row.OriginalSnapshot,
			&row.ProposedChanges,
			&row.Reason,
			&row.Status,
			&row.ReviewedBy,
			&row.ReviewedAt,
			&row.ReviewComment,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		req, err := toDomainChangeRequest(&row)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// Review is the single writer of review fields. The pending-status guard in
// the WHERE clause makes the transition a compare-and-set, so of two
// concurrent reviewers exactly one sees a row affected.
func (r *ChangeRequestRepository) Review(ctx context.Context, id uuid.UUID, params changerequest.ReviewParams) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(
		ctx,
		`UPDATE change_requests
		 SET status = $2, reviewed_by = $3, reviewed_at = $4, review_comment = $5, updated_at = now()
		 WHERE id = $1 AND status = 'pending'`,
		id,
		string(params.Status),
		params.ReviewedBy,
		params.ReviewedAt,
		params.Comment,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM change_requests WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return changerequest.ErrNotFound
		}
		return changerequest.ErrAlreadyReviewed
	}
	return nil
}

func buildChangeRequestFilters(params changerequest.FindParams) ([]string, []interface{}) {
	var where []string
	var args []interface{}
	argPos := 1

	if len(params.Statuses) > 0 {
		statuses := make([]string, 0, len(params.Statuses))
		for _, s := range params.Statuses {
			statuses = append(statuses, string(s))
		}
		where = append(where, fmt.Sprintf("status = ANY($%d)", argPos))
		args = append(args, statuses)
		argPos++
	}
	if len(params.ResourceTypes) > 0 {
		resources := make([]string, 0, len(params.ResourceTypes))
		for _, rt := range params.ResourceTypes {
			resources = append(resources, string(rt))
		}
		where = append(where, fmt.Sprintf("resource_type = ANY($%d)", argPos))
		args = append(args, resources)
		argPos++
	}
	if params.RequesterID != nil {
		where = append(where, fmt.Sprintf("requester_id = $%d", argPos))
		args = append(args, *params.RequesterID)
	}
	return where, args
}
