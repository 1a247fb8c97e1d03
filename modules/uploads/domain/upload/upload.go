package upload

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/renterra/backoffice/pkg/serrors"
)

var (
	ErrNotFound  = serrors.NewError("UPLOAD_NOT_FOUND", "upload not found", "Uploads.Errors.NotFound")
	ErrEmptyFile = serrors.NewError("UPLOAD_EMPTY", "uploaded file is empty", "Uploads.Errors.Empty")
)

// Upload is a stored file. The hash doubles as the storage key, so two
// uploads with identical bytes share one row and one file on disk.
type Upload struct {
	id        uuid.UUID
	hash      string
	name      string
	path      string
	sizeBytes int64
	mimeType  string
	createdAt time.Time
}

// New inspects the raw bytes and derives hash, mime type and storage path.
func New(name string, data []byte) (*Upload, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])
	mtype := mimetype.Detect(data)

	ext := filepath.Ext(name)
	if ext == "" {
		ext = mtype.Extension()
	}

	return &Upload{
		hash:      hash,
		name:      name,
		path:      hash + ext,
		sizeBytes: int64(len(data)),
		mimeType:  mtype.String(),
	}, nil
}

// Hydrate rebuilds an Upload from its persisted state.
func Hydrate(
	id uuid.UUID,
	hash string,
	name string,
	path string,
	sizeBytes int64,
	mimeType string,
	createdAt time.Time,
) *Upload {
	return &Upload{
		id:        id,
		hash:      hash,
		name:      name,
		path:      path,
		sizeBytes: sizeBytes,
		mimeType:  mimeType,
		createdAt: createdAt,
	}
}

func (u *Upload) ID() uuid.UUID { return u.id }
func (u *Upload) Hash() string { return u.hash }
func (u *Upload) Name() string { return u.name }
func (u *Upload) Path() string { return u.path }
func (u *Upload) SizeBytes() int64 { return u.sizeBytes }
func (u *Upload) MimeType() string { return u.mimeType }
func (u *Upload) CreatedAt() time.Time { return u.createdAt }

func (u *Upload) SetID(id uuid.UUID) { u.id = id }
func (u *Upload) SetCreatedAt(t time.Time) { u.createdAt = t }
