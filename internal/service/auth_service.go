package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"travelshare/internal/auth"
	apperrors "travelshare/internal/errors"
	"travelshare/internal/model"
	"travelshare/internal/repository"
)

const (
	bcryptCost = 10
	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 4
)

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, name, email, password, confirmPassword string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*auth.Proof, error)
	Authenticate(ctx context.Context, proof string) (uuid.UUID, error)
	Logout(ctx context.Context, proof string) error
	ProofKind() auth.Kind
}

type authService struct {
	userRepo repository.UserRepository
	prover   auth.Prover
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, prover auth.Prover) AuthService {
	return &authService{
		userRepo: userRepo,
		prover:   prover,
	}
}

func (s *authService) ProofKind() auth.Kind {
	return s.prover.Kind()
}

// Register creates a new user with a hashed password. Every validation
// failure is reported in the returned (joined) error.
func (s *authService) Register(ctx context.Context, name, email, password, confirmPassword string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if err := validateRegistration(name, email, password, confirmPassword); err != nil {
		return nil, err
	}

	// Check if user already exists
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		SharedWith:   []string{},
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration; the unique index caught it.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func validateRegistration(name, email, password, confirmPassword string) error {
	var errs []error
	if name == "" {
		errs = append(errs, fmt.Errorf("%w: name", apperrors.ErrMissingField))
	}
	if email == "" {
		errs = append(errs, fmt.Errorf("%w: email", apperrors.ErrMissingField))
	}
	if password == "" {
		errs = append(errs, fmt.Errorf("%w: password", apperrors.ErrMissingField))
	}
	if password != confirmPassword {
		errs = append(errs, apperrors.ErrPasswordMismatch)
	}
	if len([]rune(password)) < MinPasswordLength {
		errs = append(errs, apperrors.ErrPasswordTooShort)
	}
	return errors.Join(errs...)
}

// Login verifies credentials and issues a proof.
func (s *authService) Login(ctx context.Context, email, password string) (*auth.Proof, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidPassword
	}

	proof, err := s.prover.Issue(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue proof: %w", err)
	}
	return proof, nil
}

// Authenticate resolves a presented proof to the user it was issued for.
func (s *authService) Authenticate(ctx context.Context, proof string) (uuid.UUID, error) {
	if strings.TrimSpace(proof) == "" {
		return uuid.Nil, apperrors.ErrMissingProof
	}
	return s.prover.Verify(ctx, proof)
}

// Logout revokes a proof.
func (s *authService) Logout(ctx context.Context, proof string) error {
	if strings.TrimSpace(proof) == "" {
		return apperrors.ErrMissingProof
	}
	if err := s.prover.Revoke(ctx, proof); err != nil {
		return fmt.Errorf("revoke proof: %w", err)
	}
	return nil
}
