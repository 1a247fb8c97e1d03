package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/renterra/backoffice/modules/approval/domain/attachment"
	"github.com/renterra/backoffice/modules/uploads/domain/upload"
	"github.com/renterra/backoffice/modules/uploads/services"
	"github.com/renterra/backoffice/pkg/eventbus"
)

type memoryUploadRepository struct {
	byID   map[uuid.UUID]*upload.Upload
	byHash map[string]*upload.Upload
}

func newMemoryUploadRepository() *memoryUploadRepository {
	return &memoryUploadRepository{
		byID:   map[uuid.UUID]*upload.Upload{},
		byHash: map[string]*upload.Upload{},
	}
}

func (r *memoryUploadRepository) Create(ctx context.Context, entity *upload.Upload) (*upload.Upload, error) {
	entity.SetID(uuid.New())
	r.byID[entity.ID()] = entity
	r.byHash[entity.Hash()] = entity
	return entity, nil
}

func (r *memoryUploadRepository) GetByID(ctx context.Context, id uuid.UUID) (*upload.Upload, error) {
	entity, ok := r.byID[id]
	if !ok {
		return nil, upload.ErrNotFound
	}
	return entity, nil
}

func (r *memoryUploadRepository) GetByHash(ctx context.Context, hash string) (*upload.Upload, error) {
	entity, ok := r.byHash[hash]
	if !ok {
		return nil, upload.ErrNotFound
	}
	return entity, nil
}

func (r *memoryUploadRepository) GetAll(ctx context.Context) ([]*upload.Upload, error) {
	out := make([]*upload.Upload, 0, len(r.byID))
	for _, entity := range r.byID {
		out = append(out, entity)
	}
	return out, nil
}

func (r *memoryUploadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	entity, ok := r.byID[id]
	if !ok {
		return upload.ErrNotFound
	}
	delete(r.byHash, entity.Hash())
	delete(r.byID, id)
	return nil
}

type memoryStorage struct {
	files map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{files: map[string][]byte{}}
}

func (s *memoryStorage) Save(ctx context.Context, path string, data []byte) error {
	s.files[path] = data
	return nil
}

func (s *memoryStorage) Open(ctx context.Context, path string) ([]byte, error) {
	data, ok := s.files[path]
	if !ok {
		return nil, upload.ErrNotFound
	}
	return data, nil
}

func (s *memoryStorage) Remove(ctx context.Context, path string) error {
	delete(s.files, path)
	return nil
}

func newService() (*services.UploadService, *memoryUploadRepository, *memoryStorage) {
	repo := newMemoryUploadRepository()
	storage := newMemoryStorage()
	svc := services.NewUploadService(repo, storage, eventbus.NewEventPublisher(logrus.New()))
	return svc, repo, storage
}

func TestCreate_StoresBytesAndRow(t *testing.T) {
	svc, repo, storage := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "photo.jpg", []byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID())
	require.Contains(t, storage.files, created.Path())
	require.Len(t, repo.byID, 1)
}

func TestCreate_DeduplicatesByHash(t *testing.T) {
	svc, repo, _ := newService()
	ctx := context.Background()

	first, err := svc.Create(ctx, "a.bin", []byte("same-bytes"))
	require.NoError(t, err)
	second, err := svc.Create(ctx, "b.bin", []byte("same-bytes"))
	require.NoError(t, err)

	require.Equal(t, first.ID(), second.ID())
	require.Len(t, repo.byID, 1)
}

func TestPersistAttachment_ReturnsRef(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	ref, err := svc.PersistAttachment(ctx, attachment.RawFile{Name: "contract.pdf", Data: []byte("%PDF-1.4 body")})
	require.NoError(t, err)
	require.Equal(t, "contract.pdf", ref.Name)
	require.Equal(t, int64(len("%PDF-1.4 body")), ref.SizeBytes)
	require.Contains(t, ref.Locator, services.FileBasePath)
}

func TestDelete_RemovesBytes(t *testing.T) {
	svc, _, storage := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "tmp.txt", []byte("scratch"))
	require.NoError(t, err)

	_, err = svc.Delete(ctx, created.ID())
	require.NoError(t, err)
	require.NotContains(t, storage.files, created.Path())

	_, err = svc.GetByID(ctx, created.ID())
	require.ErrorIs(t, err, upload.ErrNotFound)
}
