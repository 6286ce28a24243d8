package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "travelshare/internal/errors"
	"travelshare/internal/model"
	"travelshare/internal/repository"
)

// TripService appends catalog trips to a user's trip list.
type TripService interface {
	AddTrip(ctx context.Context, userID uuid.UUID, selector model.TripSelector) (*model.Trip, error)
}

type tripService struct {
	repo  repository.UserRepository
	cache Cache
}

// NewTripService creates a new trip service.
func NewTripService(repo repository.UserRepository, cache Cache) TripService {
	return &tripService{repo: repo, cache: cache}
}

// AddTrip copies the selected catalog trip onto the end of the user's trips.
func (s *tripService) AddTrip(ctx context.Context, userID uuid.UUID, selector model.TripSelector) (*model.Trip, error) {
	trip, err := selector.Template()
	if err != nil {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidTripSelector, selector)
	}

	err = s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.UserRepository) error {
		// Lock the owner so concurrent appends get distinct positions.
		if _, err := txRepo.FindByIDForUpdate(ctx, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrUserNotFound
			}
			return fmt.Errorf("find user: %w", err)
		}
		if err := txRepo.AppendTrip(ctx, userID, &trip); err != nil {
			return fmt.Errorf("append trip: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateUser(ctx, s.cache, userID)
	return &trip, nil
}
