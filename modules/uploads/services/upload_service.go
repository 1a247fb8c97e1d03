package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/renterra/backoffice/modules/approval/domain/attachment"
	"github.com/renterra/backoffice/modules/uploads/domain/upload"
	"github.com/renterra/backoffice/pkg/eventbus"
)

// FileBasePath is the URL prefix attachments resolve against when served.
const FileBasePath = "/files/"

type UploadCreatedEvent struct {
	Upload upload.Upload
}

type UploadService struct {
	repo      upload.Repository
	storage   upload.Storage
	publisher eventbus.EventBus
}

func NewUploadService(
	repo upload.Repository,
	storage upload.Storage,
	publisher eventbus.EventBus,
) *UploadService {
	return &UploadService{
		repo:      repo,
		storage:   storage,
		publisher: publisher,
	}
}

func (s *UploadService) GetByID(ctx context.Context, id uuid.UUID) (*upload.Upload, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UploadService) GetAll(ctx context.Context) ([]*upload.Upload, error) {
	return s.repo.GetAll(ctx)
}

// Open returns the stored bytes for a locator or relative path.
func (s *UploadService) Open(ctx context.Context, locator string) (*upload.Upload, []byte, error) {
	path := strings.TrimPrefix(locator, FileBasePath)
	entity, err := s.repo.GetByHash(ctx, strings.SplitN(path, ".", 2)[0])
	if err != nil {
		return nil, nil, err
	}
	data, err := s.storage.Open(ctx, entity.Path())
	if err != nil {
		return nil, nil, err
	}
	return entity, data, nil
}

// Create stores the bytes and the metadata row. Identical content is
// deduplicated on the hash, so re-uploading a file returns the existing row.
func (s *UploadService) Create(ctx context.Context, name string, data []byte) (*upload.Upload, error) {
	entity, err := upload.New(name, data)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByHash(ctx, entity.Hash())
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, upload.ErrNotFound) {
		return nil, err
	}

	if err := s.storage.Save(ctx, entity.Path(), data); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, entity)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(UploadCreatedEvent{Upload: *created})
	return created, nil
}

func (s *UploadService) Delete(ctx context.Context, id uuid.UUID) (*upload.Upload, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	if err := s.storage.Remove(ctx, entity.Path()); err != nil {
		return nil, err
	}
	return entity, nil
}

// PersistAttachment adapts Create to the attachment persistence contract
// used by the approval workflow.
func (s *UploadService) PersistAttachment(ctx context.Context, file attachment.RawFile) (attachment.Ref, error) {
	created, err := s.Create(ctx, file.Name, file.Data)
	if err != nil {
		return attachment.Ref{}, err
	}
	return attachment.Ref{
		Name:      created.Name(),
		SizeBytes: created.SizeBytes(),
		Locator:   FileBasePath + created.Path(),
	}, nil
}
