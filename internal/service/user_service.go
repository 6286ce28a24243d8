package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "travelshare/internal/errors"
	"travelshare/internal/model"
	"travelshare/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// Cache is the read-through cache used for user profiles. Get and Set treat
// failures as misses; Remove reports them.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Remove(ctx context.Context, key string) error
}

func userCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id.String())
}

// invalidateUser drops the cached profile. A failure leaves a stale entry
// until its TTL runs out, so it is logged.
func invalidateUser(ctx context.Context, c Cache, id uuid.UUID) {
	if err := c.Remove(ctx, userCacheKey(id)); err != nil {
		log.Printf("Warning: cache invalidation for user %s failed, profile may be stale for up to %s: %v", id, userCacheTTL, err)
	}
}

// UserService exposes profile operations.
type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) error
}

type userService struct {
	repo  repository.UserRepository
	cache Cache
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache Cache) UserService {
	return &userService{repo: repo, cache: cache}
}

// GetUser returns a user with its trips, served from cache when possible.
func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, userCacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, userCacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

// UpdateProfile overwrites the user's name and email. Blank values keep the
// stored ones; an email owned by another user is rejected.
func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" && email == "" {
		return fmt.Errorf("%w: name or email", apperrors.ErrMissingField)
	}

	err := s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.UserRepository) error {
		current, err := txRepo.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrUserNotFound
			}
			return fmt.Errorf("find user: %w", err)
		}

		if email != "" && email != current.Email {
			owner, err := txRepo.FindByEmail(ctx, email)
			if err == nil && owner != nil && owner.ID != current.ID {
				return apperrors.ErrEmailTaken
			}
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("check email owner: %w", err)
			}
		}

		if err := txRepo.UpdateProfile(ctx, id, repository.ProfileFields{Name: name, Email: email}); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrEmailTaken
			}
			return fmt.Errorf("update profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	invalidateUser(ctx, s.cache, id)
	return nil
}
