package upload

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, entity *Upload) (*Upload, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Upload, error)
	GetByHash(ctx context.Context, hash string) (*Upload, error)
	GetAll(ctx context.Context) ([]*Upload, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Storage persists file bytes under a relative path. Implementations decide
// where the bytes actually live.
type Storage interface {
	Save(ctx context.Context, path string, data []byte) error
	Open(ctx context.Context, path string) ([]byte, error)
	Remove(ctx context.Context, path string) error
}
