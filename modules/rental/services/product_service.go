package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/renterra/backoffice/modules/rental/domain/entities/product"
	"github.com/renterra/backoffice/pkg/eventbus"
)

type ProductCreatedEvent struct {
	Product product.Product
}

type ProductUpdatedEvent struct {
	Product product.Product
}

type ProductDeletedEvent struct {
	Product product.Product
}

type ProductService struct {
	repo      product.Repository
	publisher eventbus.EventBus
}

func NewProductService(repo product.Repository, publisher eventbus.EventBus) *ProductService {
	return &ProductService{repo: repo, publisher: publisher}
}

func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (product.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProductService) GetPaginated(ctx context.Context, params product.FindParams) ([]product.Product, int64, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *ProductService) Create(ctx context.Context, entity product.Product) (product.Product, error) {
	created, err := s.repo.Create(ctx, entity)
	if err != nil {
		return product.Product{}, err
	}
	s.publisher.Publish(ProductCreatedEvent{Product: created})
	return created, nil
}

func (s *ProductService) Update(ctx context.Context, entity product.Product) (product.Product, error) {
	updated, err := s.repo.Update(ctx, entity)
	if err != nil {
		return product.Product{}, err
	}
	s.publisher.Publish(ProductUpdatedEvent{Product: updated})
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish(ProductDeletedEvent{Product: entity})
	return nil
}
