package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"travelshare/internal/auth"
	"travelshare/internal/model"
	"travelshare/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
// WithTransaction runs fn against the mock itself and then returns the
// configured commit error.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmailForUpdate(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, fields repository.ProfileFields) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateSharedWith(ctx context.Context, id uuid.UUID, sharedWith []string) error {
	args := m.Called(ctx, id, sharedWith)
	return args.Error(0)
}

func (m *MockUserRepository) AppendTrip(ctx context.Context, userID uuid.UUID, trip *model.Trip) error {
	args := m.Called(ctx, userID, trip)
	return args.Error(0)
}

func (m *MockUserRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.UserRepository) error) error {
	args := m.Called(ctx)
	if err := fn(ctx, m); err != nil {
		return err
	}
	return args.Error(0)
}

// MockProver is a mock implementation of auth.Prover.
type MockProver struct {
	mock.Mock
}

func (m *MockProver) Kind() auth.Kind {
	args := m.Called()
	return args.Get(0).(auth.Kind)
}

func (m *MockProver) Issue(ctx context.Context, userID uuid.UUID) (*auth.Proof, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Proof), args.Error(1)
}

func (m *MockProver) Verify(ctx context.Context, value string) (uuid.UUID, error) {
	args := m.Called(ctx, value)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockProver) Revoke(ctx context.Context, value string) error {
	args := m.Called(ctx, value)
	return args.Error(0)
}

// memoryCache is an in-process Cache recording deletions. removeErr makes
// every Remove fail.
type memoryCache struct {
	data      map[string][]byte
	deleted   []string
	removeErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	return c.data[key], nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *memoryCache) Remove(_ context.Context, key string) error {
	if c.removeErr != nil {
		return c.removeErr
	}
	delete(c.data, key)
	c.deleted = append(c.deleted, key)
	return nil
}
