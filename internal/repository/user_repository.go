package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"travelshare/internal/model"
)

// UserRepository defines user and trip persistence operations.
// Lookups return gorm.ErrRecordNotFound when nothing matches.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmailForUpdate(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, fields ProfileFields) error
	UpdateSharedWith(ctx context.Context, id uuid.UUID, sharedWith []string) error
	AppendTrip(ctx context.Context, userID uuid.UUID, trip *model.Trip) error
	// WithTransaction runs fn against a repository bound to one database transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo UserRepository) error) error
}

// ProfileFields carries the profile columns to overwrite. Blank values are left untouched.
type ProfileFields struct {
	Name  string
	Email string
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user. A duplicate email surfaces as gorm.ErrDuplicatedKey.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error
}

// FindByID finds a user by ID with its trips in insertion order.
func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Preload("Trips", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email without loading trips.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDForUpdate finds a user by ID with a row-level lock.
func (r *userRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmailForUpdate finds a user by email with a row-level lock.
func (r *userRepository) FindByEmailForUpdate(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile overwrites the non-blank profile fields of a user.
func (r *userRepository) UpdateProfile(ctx context.Context, id uuid.UUID, fields ProfileFields) error {
	updates := map[string]interface{}{}
	if fields.Name != "" {
		updates["name"] = fields.Name
	}
	if fields.Email != "" {
		updates["email"] = fields.Email
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// UpdateSharedWith replaces the list of emails a user has shared trips with.
func (r *userRepository) UpdateSharedWith(ctx context.Context, id uuid.UUID, sharedWith []string) error {
	return r.db.WithContext(ctx).Model(&model.User{ID: id}).
		Select("shared_with").
		Updates(&model.User{SharedWith: sharedWith}).Error
}

// AppendTrip adds a trip at the end of the user's trip list.
// Callers appending concurrently for the same user should hold the user row lock.
func (r *userRepository) AppendTrip(ctx context.Context, userID uuid.UUID, trip *model.Trip) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Trip{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return err
	}
	trip.UserID = userID
	trip.Position = int(count)
	if trip.People == nil {
		trip.People = []string{}
	}
	return r.db.WithContext(ctx).Create(trip).Error
}

// WithTransaction executes a function within a database transaction.
func (r *userRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo UserRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &userRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
