package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "travelshare/internal/errors"
	"travelshare/internal/model"
)

const urubiciSelection = `{"location":"Urubici","departure_date":"10/02/2023","return_date":"15/02/2023","guided_tour":true,"lodging":true,"breakfast":false,"people":[]}`

func TestShareService_ShareTrip(t *testing.T) {
	requesterID := uuid.New()
	target := &model.User{ID: uuid.New(), Email: "bia@example.com"}

	t.Run("appends trip to target and records target on requester", func(t *testing.T) {
		repo := new(MockUserRepository)
		cache := newMemoryCache()
		var appended *model.Trip
		repo.On("WithTransaction", mock.Anything).Return(nil)
		repo.On("FindByEmailForUpdate", mock.Anything, "bia@example.com").Return(target, nil)
		repo.On("AppendTrip", mock.Anything, target.ID, mock.AnythingOfType("*model.Trip")).
			Run(func(args mock.Arguments) { appended = args.Get(2).(*model.Trip) }).
			Return(nil)
		repo.On("FindByIDForUpdate", mock.Anything, requesterID).
			Return(&model.User{ID: requesterID, SharedWith: []string{"caio@example.com"}}, nil)
		repo.On("UpdateSharedWith", mock.Anything, requesterID, []string{"caio@example.com", "bia@example.com"}).Return(nil)

		trip, err := NewShareService(repo, cache).ShareTrip(context.Background(), requesterID, "bia@example.com", urubiciSelection)

		require.NoError(t, err)
		require.NotNil(t, appended)
		assert.Equal(t, "Urubici", appended.Location)
		assert.Equal(t, []string{"bia@example.com"}, appended.People)
		assert.Equal(t, appended.People, trip.People)
		assert.ElementsMatch(t, []string{"user:" + target.ID.String(), "user:" + requesterID.String()}, cache.deleted)
		repo.AssertExpectations(t)
	})

	t.Run("repeated share does not duplicate emails", func(t *testing.T) {
		repo := new(MockUserRepository)
		selection := `{"location":"Urubici","departure_date":"10/02/2023","return_date":"15/02/2023","people":["bia@example.com"]}`
		repo.On("WithTransaction", mock.Anything).Return(nil)
		repo.On("FindByEmailForUpdate", mock.Anything, "bia@example.com").Return(target, nil)
		repo.On("AppendTrip", mock.Anything, target.ID, mock.MatchedBy(func(tr *model.Trip) bool {
			return len(tr.People) == 1 && tr.People[0] == "bia@example.com"
		})).Return(nil)
		repo.On("FindByIDForUpdate", mock.Anything, requesterID).
			Return(&model.User{ID: requesterID, SharedWith: []string{"bia@example.com"}}, nil)
		repo.On("UpdateSharedWith", mock.Anything, requesterID, []string{"bia@example.com"}).Return(nil)

		_, err := NewShareService(repo, newMemoryCache()).ShareTrip(context.Background(), requesterID, "bia@example.com", selection)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("unknown target writes nothing", func(t *testing.T) {
		repo := new(MockUserRepository)
		cache := newMemoryCache()
		repo.On("WithTransaction", mock.Anything).Return(nil)
		repo.On("FindByEmailForUpdate", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, err := NewShareService(repo, cache).ShareTrip(context.Background(), requesterID, "ghost@example.com", urubiciSelection)

		assert.ErrorIs(t, err, apperrors.ErrTargetNotFound)
		repo.AssertNotCalled(t, "AppendTrip", mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "UpdateSharedWith", mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, cache.deleted)
	})

	t.Run("missing requester aborts the transaction", func(t *testing.T) {
		repo := new(MockUserRepository)
		cache := newMemoryCache()
		repo.On("WithTransaction", mock.Anything).Return(nil)
		repo.On("FindByEmailForUpdate", mock.Anything, "bia@example.com").Return(target, nil)
		repo.On("AppendTrip", mock.Anything, target.ID, mock.AnythingOfType("*model.Trip")).Return(nil)
		repo.On("FindByIDForUpdate", mock.Anything, requesterID).Return(nil, gorm.ErrRecordNotFound)

		_, err := NewShareService(repo, cache).ShareTrip(context.Background(), requesterID, "bia@example.com", urubiciSelection)

		assert.ErrorIs(t, err, apperrors.ErrRequesterNotFound)
		repo.AssertNotCalled(t, "UpdateSharedWith", mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, cache.deleted)
	})

	t.Run("storage failure on second write", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("WithTransaction", mock.Anything).Return(nil)
		repo.On("FindByEmailForUpdate", mock.Anything, "bia@example.com").Return(target, nil)
		repo.On("AppendTrip", mock.Anything, target.ID, mock.AnythingOfType("*model.Trip")).Return(nil)
		repo.On("FindByIDForUpdate", mock.Anything, requesterID).Return(&model.User{ID: requesterID}, nil)
		repo.On("UpdateSharedWith", mock.Anything, requesterID, []string{"bia@example.com"}).Return(errors.New("lock wait timeout"))

		_, err := NewShareService(repo, newMemoryCache()).ShareTrip(context.Background(), requesterID, "bia@example.com", urubiciSelection)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "lock wait timeout")
	})

	t.Run("malformed selection", func(t *testing.T) {
		repo := new(MockUserRepository)

		_, err := NewShareService(repo, newMemoryCache()).ShareTrip(context.Background(), requesterID, "bia@example.com", "{not json")

		assert.ErrorIs(t, err, apperrors.ErrMalformedSelection)
		repo.AssertNotCalled(t, "WithTransaction", mock.Anything)
	})

	t.Run("blank target", func(t *testing.T) {
		_, err := NewShareService(new(MockUserRepository), newMemoryCache()).ShareTrip(context.Background(), requesterID, " ", urubiciSelection)
		assert.ErrorIs(t, err, apperrors.ErrMalformedSelection)
	})
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name      string
		selection string
		wantErr   bool
	}{
		{"full trip", urubiciSelection, false},
		{"people omitted", `{"location":"Urubici"}`, false},
		{"empty", "", true},
		{"not an object", `"Urubici"`, true},
		{"unknown field", `{"location":"Urubici","price":10}`, true},
		{"missing location", `{"departure_date":"10/02/2023"}`, true},
		{"trailing data", `{"location":"Urubici"} {}`, true},
		{"legacy keys", `{"_id":"64f1c2","local":"Urubici","data_ida":"05/10/2023","data_volta":"09/10/2023","guia_turistico":false,"hospedagem":true,"cafe_da_manha":true,"pessoas":["caio@example.com"]}`, false},
		{"legacy without location", `{"data_ida":"05/10/2023","pessoas":[]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip, err := ParseSelection(tt.selection)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrMalformedSelection)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Urubici", trip.Location)
			assert.NotNil(t, trip.People)
		})
	}
}

func TestParseSelection_LegacyShapeMatchesCurrent(t *testing.T) {
	legacy, err := ParseSelection(`{"local":"Urubici","data_ida":"05/10/2023","data_volta":"09/10/2023","guia_turistico":false,"hospedagem":true,"cafe_da_manha":true,"pessoas":["caio@example.com"]}`)
	require.NoError(t, err)

	current, err := ParseSelection(`{"location":"Urubici","departure_date":"05/10/2023","return_date":"09/10/2023","guided_tour":false,"lodging":true,"breakfast":true,"people":["caio@example.com"]}`)
	require.NoError(t, err)

	assert.Equal(t, current, legacy)
	assert.True(t, legacy.Lodging)
	assert.Equal(t, []string{"caio@example.com"}, legacy.People)
}
