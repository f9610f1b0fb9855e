package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/seifhassan89/full-stack-user-curd/internal/domain"
	"github.com/seifhassan89/full-stack-user-curd/internal/dto"
	"github.com/seifhassan89/full-stack-user-curd/internal/repository"
	"github.com/seifhassan89/full-stack-user-curd/internal/security"
	"github.com/seifhassan89/full-stack-user-curd/pkg/telemetry"
)

// UserService defines the interface for user management operations
type UserService interface {
	// Create creates a new user on behalf of an administrator
	Create(ctx context.Context, req *dto.CreateUserRequest) (*domain.User, error)
	// GetByID retrieves a non-deleted user by ID
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// Update applies the non-empty fields of req to the user
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest) (*domain.User, error)
	// Delete soft-deletes a user and revokes their refresh token
	Delete(ctx context.Context, id string) error
	// List returns a page of users matching the query
	List(ctx context.Context, query *dto.UserQuery) (*dto.Page[dto.UserResponse], error)
}

// userService implements UserService
type userService struct {
	userRepo repository.UserRepository
	hasher   security.PasswordHasher
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, hasher security.PasswordHasher) UserService {
	return &userService{
		userRepo: userRepo,
		hasher:   hasher,
	}
}

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.Create")
	defer span.End()

	email := strings.ToLower(req.Email)
	span.SetAttributes(attribute.String("user.email", email))

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	role := domain.RoleUser
	if req.Role != "" {
		role = domain.Role(req.Role)
	}
	status := domain.StatusActive
	if req.Status != "" {
		status = domain.Status(req.Status)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		FullName:     req.FullName,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailExists
		}
		span.RecordError(err)
		return nil, err
	}

	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.GetByID")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", id))

	// The id column is a uuid; a malformed id can never match a row and
	// would otherwise fail at parameter encoding.
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrUserNotFound
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		span.RecordError(err)
		return nil, err
	}
	if user.Deleted() {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.Update")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", id))

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != "" && strings.ToLower(req.Email) != user.Email {
		email := strings.ToLower(req.Email)
		exists, err := s.userRepo.ExistsByEmail(ctx, email)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		if exists {
			return nil, ErrEmailExists
		}
		user.Email = email
	}
	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Password != "" {
		passwordHash, err := s.hasher.Hash(req.Password)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		user.PasswordHash = passwordHash
	}
	if req.Role != "" {
		user.Role = domain.Role(req.Role)
	}
	if req.Status != "" {
		user.Status = domain.Status(req.Status)
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailExists
		}
		span.RecordError(err)
		return nil, err
	}

	return user, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.user.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", id))

	if _, err := uuid.Parse(id); err != nil {
		return ErrUserNotFound
	}

	if err := s.userRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		span.RecordError(err)
		return err
	}
	return nil
}

func (s *userService) List(ctx context.Context, query *dto.UserQuery) (*dto.Page[dto.UserResponse], error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.List")
	defer span.End()

	query.Normalize()
	span.SetAttributes(
		attribute.Int("page.number", query.PageNumber),
		attribute.Int("page.size", query.PageSize),
	)

	users, total, err := s.userRepo.List(ctx, query)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.NewUserResponse(user))
	}

	return dto.NewPage(responses, total, query.PageNumber, query.PageSize), nil
}
