package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"

	"travelshare/internal/auth"
	"travelshare/internal/model"
)

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	return e
}

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password, confirmPassword string) (*model.User, error) {
	args := m.Called(ctx, name, email, password, confirmPassword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*auth.Proof, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Proof), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, proof string) (uuid.UUID, error) {
	args := m.Called(ctx, proof)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, proof string) error {
	args := m.Called(ctx, proof)
	return args.Error(0)
}

func (m *MockAuthService) ProofKind() auth.Kind {
	args := m.Called()
	return args.Get(0).(auth.Kind)
}

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) error {
	args := m.Called(ctx, id, name, email)
	return args.Error(0)
}

// MockTripService is a mock implementation of service.TripService.
type MockTripService struct {
	mock.Mock
}

func (m *MockTripService) AddTrip(ctx context.Context, userID uuid.UUID, selector model.TripSelector) (*model.Trip, error) {
	args := m.Called(ctx, userID, selector)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Trip), args.Error(1)
}

// MockShareService is a mock implementation of service.ShareService.
type MockShareService struct {
	mock.Mock
}

func (m *MockShareService) ShareTrip(ctx context.Context, requesterID uuid.UUID, targetEmail, selection string) (*model.Trip, error) {
	args := m.Called(ctx, requesterID, targetEmail, selection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Trip), args.Error(1)
}
