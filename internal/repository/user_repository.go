package repository

import (
	"context"
	"errors"

	"github.com/seifhassan89/full-stack-user-curd/internal/domain"
	"github.com/seifhassan89/full-stack-user-curd/internal/dto"
)

var (
	// ErrNotFound is returned when no matching row exists.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when a write collides with the unique
	// index on live emails.
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *domain.User) error
	// GetByID retrieves a user by ID, including soft-deleted rows
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByEmail retrieves a non-deleted user by email (case-insensitive)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// ExistsByEmail checks if a non-deleted user exists with the given email
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Update updates a user's profile fields
	Update(ctx context.Context, user *domain.User) error
	// UpdateRefreshTokenHash stores the refresh token digest for a user.
	// A nil digest clears the stored value.
	UpdateRefreshTokenHash(ctx context.Context, userID string, digest *string) error
	// SoftDelete marks a user as deleted without removing the row
	SoftDelete(ctx context.Context, id string) error
	// List returns a page of users matching the query filters
	List(ctx context.Context, query *dto.UserQuery) ([]*domain.User, int64, error)
}
