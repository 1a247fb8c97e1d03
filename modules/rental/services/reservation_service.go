package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/renterra/backoffice/modules/rental/domain/entities/reservation"
	"github.com/renterra/backoffice/pkg/eventbus"
)

type ReservationCreatedEvent struct {
	Reservation reservation.Reservation
}

type ReservationUpdatedEvent struct {
	Reservation reservation.Reservation
}

type ReservationDeletedEvent struct {
	Reservation reservation.Reservation
}

type ReservationService struct {
	repo      reservation.Repository
	publisher eventbus.EventBus
}

func NewReservationService(repo reservation.Repository, publisher eventbus.EventBus) *ReservationService {
	return &ReservationService{repo: repo, publisher: publisher}
}

func (s *ReservationService) GetByID(ctx context.Context, id uuid.UUID) (reservation.Reservation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ReservationService) GetPaginated(ctx context.Context, params reservation.FindParams) ([]reservation.Reservation, int64, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *ReservationService) Create(ctx context.Context, entity reservation.Reservation) (reservation.Reservation, error) {
	if err := entity.Validate(); err != nil {
		return reservation.Reservation{}, err
	}
	created, err := s.repo.Create(ctx, entity)
	if err != nil {
		return reservation.Reservation{}, err
	}
	s.publisher.Publish(ReservationCreatedEvent{Reservation: created})
	return created, nil
}

func (s *ReservationService) Update(ctx context.Context, entity reservation.Reservation) (reservation.Reservation, error) {
	if err := entity.Validate(); err != nil {
		return reservation.Reservation{}, err
	}
	updated, err := s.repo.Update(ctx, entity)
	if err != nil {
		return reservation.Reservation{}, err
	}
	s.publisher.Publish(ReservationUpdatedEvent{Reservation: updated})
	return updated, nil
}

func (s *ReservationService) Delete(ctx context.Context, id uuid.UUID) error {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish(ReservationDeletedEvent{Reservation: entity})
	return nil
}
