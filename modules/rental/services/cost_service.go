package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/renterra/backoffice/modules/rental/domain/entities/cost"
	"github.com/renterra/backoffice/pkg/eventbus"
)

type CostCreatedEvent struct {
	Cost cost.Cost
}

type CostUpdatedEvent struct {
	Cost cost.Cost
}

type CostDeletedEvent struct {
	Cost cost.Cost
}

type CostService struct {
	repo      cost.Repository
	publisher eventbus.EventBus
}

func NewCostService(repo cost.Repository, publisher eventbus.EventBus) *CostService {
	return &CostService{repo: repo, publisher: publisher}
}

func (s *CostService) GetByID(ctx context.Context, id uuid.UUID) (cost.Cost, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CostService) GetPaginated(ctx context.Context, params cost.FindParams) ([]cost.Cost, int64, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *CostService) Create(ctx context.Context, entity cost.Cost) (cost.Cost, error) {
	if err := entity.Validate(); err != nil {
		return cost.Cost{}, err
	}
	created, err := s.repo.Create(ctx, entity)
	if err != nil {
		return cost.Cost{}, err
	}
	s.publisher.Publish(CostCreatedEvent{Cost: created})
	return created, nil
}

func (s *CostService) Update(ctx context.Context, entity cost.Cost) (cost.Cost, error) {
	if err := entity.Validate(); err != nil {
		return cost.Cost{}, err
	}
	updated, err := s.repo.Update(ctx, entity)
	if err != nil {
		return cost.Cost{}, err
	}
	s.publisher.Publish(CostUpdatedEvent{Cost: updated})
	return updated, nil
}

func (s *CostService) Delete(ctx context.Context, id uuid.UUID) error {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish(CostDeletedEvent{Cost: entity})
	return nil
}
