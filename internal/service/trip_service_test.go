package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "travelshare/internal/errors"
	"travelshare/internal/model"
)

func TestTripService_AddTrip(t *testing.T) {
	id := uuid.New()

	t.Run("appends a copy of the catalog template", func(t *testing.T) {
		repo := new(MockUserRepository)
		cache := newMemoryCache()
		repo.On("WithTransaction", mock.Anything).Return(nil)
		repo.On("FindByIDForUpdate", mock.Anything, id).Return(&model.User{ID: id}, nil)
		repo.On("AppendTrip", mock.Anything, id, mock.AnythingOfType("*model.Trip")).Return(nil)

		trip, err := NewTripService(repo, cache).AddTrip(context.Background(), id, model.TripUrubici)

		require.NoError(t, err)
		want, err := model.TripUrubici.Template()
		require.NoError(t, err)
		assert.Equal(t, want.Location, trip.Location)
		assert.Equal(t, want.DepartureDate, trip.DepartureDate)
		assert.Equal(t, []string{"user:" + id.String()}, cache.deleted)

		// The catalog is not mutated through the returned trip.
		trip.People = append(trip.People, "x@example.com")
		again, _ := model.TripUrubici.Template()
		assert.Equal(t, want.People, again.People)
	})

	t.Run("unknown selector", func(t *testing.T) {
		repo := new(MockUserRepository)

		_, err := NewTripService(repo, newMemoryCache()).AddTrip(context.Background(), id, model.TripSelector("paris"))

		assert.ErrorIs(t, err, apperrors.ErrInvalidTripSelector)
		repo.AssertNotCalled(t, "WithTransaction", mock.Anything)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("WithTransaction", mock.Anything).Return(nil)
		repo.On("FindByIDForUpdate", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := NewTripService(repo, newMemoryCache()).AddTrip(context.Background(), id, model.TripCascataDoAvencal)

		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		repo.AssertNotCalled(t, "AppendTrip", mock.Anything, mock.Anything, mock.Anything)
	})
}
