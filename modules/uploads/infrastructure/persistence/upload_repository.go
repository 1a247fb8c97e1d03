package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/renterra/backoffice/modules/uploads/domain/upload"
	"github.com/renterra/backoffice/modules/uploads/infrastructure/persistence/models"
	"github.com/renterra/backoffice/pkg/composables"
	"github.com/renterra/backoffice/pkg/repo"
)

const uploadColumns = `id, hash, name, path, size_bytes, mime_type, created_at`

type UploadRepository struct{}

func NewUploadRepository() upload.Repository {
	return &UploadRepository{}
}

func (r *UploadRepository) Create(ctx context.Context, entity *upload.Upload) (*upload.Upload, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	var id uuid.UUID
	var createdAt = entity.CreatedAt()
	if err := tx.QueryRow(
		ctx,
		repo.Insert(
			"uploads",
			[]string{"hash", "name", "path", "size_bytes", "mime_type"},
			"id", "created_at",
		),
		entity.Hash(),
		entity.Name(),
		entity.Path(),
		entity.SizeBytes(),
		entity.MimeType(),
	).Scan(&id, &createdAt); err != nil {
		return nil, err
	}
	entity.SetID(id)
	entity.SetCreatedAt(createdAt)
	return entity, nil
}

func (r *UploadRepository) GetByID(ctx context.Context, id uuid.UUID) (*upload.Upload, error) {
	return r.getOne(ctx, `SELECT `+uploadColumns+` FROM uploads WHERE id = $1`, id)
}

func (r *UploadRepository) GetByHash(ctx context.Context, hash string) (*upload.Upload, error) {
	return r.getOne(ctx, `SELECT `+uploadColumns+` FROM uploads WHERE hash = $1`, hash)
}

func (r *UploadRepository) GetAll(ctx context.Context) ([]*upload.Upload, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `SELECT `+uploadColumns+` FROM uploads ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*upload.Upload
	for rows.Next() {
		entity, err := scanUpload(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *UploadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM uploads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return upload.ErrNotFound
	}
	return nil
}

func (r *UploadRepository) getOne(ctx context.Context, query string, arg any) (*upload.Upload, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	entity, err := scanUpload(tx.QueryRow(ctx, query, arg).Scan)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, upload.ErrNotFound
		}
		return nil, err
	}
	return entity, nil
}

func scanUpload(scan func(dest ...any) error) (*upload.Upload, error) {
	var row models.Upload
	if err := scan(
		&row.ID,
		&row.Hash,
		&row.Name,
		&row.Path,
		&row.SizeBytes,
		&row.MimeType,
		&row.CreatedAt,
	); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, err
	}
	return upload.Hydrate(id, row.Hash, row.Name, row.Path, row.SizeBytes, row.MimeType, row.CreatedAt), nil
}
