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

var (
	ErrEmailExists         = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserInactive        = errors.New("user is inactive")
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	// Register creates a new account and issues an initial token pair
	Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, *domain.TokenPair, error)
	// Login authenticates by email and password and issues a token pair
	Login(ctx context.Context, req *dto.LoginRequest) (*domain.User, *domain.TokenPair, error)
	// Refresh rotates the refresh token and issues a new token pair.
	// presentedToken must match the digest stored for the user.
	Refresh(ctx context.Context, userID, presentedToken string) (*domain.TokenPair, error)
	// Logout clears the stored refresh token digest for the user
	Logout(ctx context.Context, userID string) error
	// GetUser retrieves a non-deleted user by ID
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// authService implements AuthService
type authService struct {
	userRepo repository.UserRepository
	signer   *security.TokenSigner
	hasher   security.PasswordHasher
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	signer *security.TokenSigner,
	hasher security.PasswordHasher,
) AuthService {
	return &authService{
		userRepo: userRepo,
		signer:   signer,
		hasher:   hasher,
	}
}

// Register creates a new account and issues an initial token pair
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, *domain.TokenPair, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.Register")
	defer span.End()

	email := strings.ToLower(req.Email)
	span.SetAttributes(attribute.String("user.email", email))

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		return nil, nil, err
	}
	if exists {
		return nil, nil, ErrEmailExists
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		span.RecordError(err)
		return nil, nil, err
	}

	role := domain.RoleUser
	if req.Role != "" {
		role = domain.Role(req.Role)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		FullName:     req.FullName,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent registration can slip past the existence check and
		// lose the race at the unique index.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, nil, ErrEmailExists
		}
		span.RecordError(err)
		return nil, nil, err
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		span.RecordError(err)
		return nil, nil, err
	}

	return user, tokens, nil
}

// Login authenticates by email and password and issues a token pair
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*domain.User, *domain.TokenPair, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.Login")
	defer span.End()

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		span.RecordError(err)
		return nil, nil, err
	}

	if user.Status != domain.StatusActive {
		return nil, nil, ErrUserInactive
	}

	if !s.hasher.Compare(req.Password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		span.RecordError(err)
		return nil, nil, err
	}

	return user, tokens, nil
}

// Refresh rotates the refresh token and issues a new token pair
func (s *authService) Refresh(ctx context.Context, userID, presentedToken string) (*domain.TokenPair, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.Refresh")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		span.RecordError(err)
		return nil, err
	}
	if user.Deleted() {
		return nil, ErrInvalidRefreshToken
	}

	// A logged-out user has no stored digest; a presented token that does
	// not match the stored digest is a replay of a rotated-out token.
	if user.RefreshTokenHash == nil || !security.DigestEqual(presentedToken, *user.RefreshTokenHash) {
		return nil, ErrInvalidRefreshToken
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return tokens, nil
}

// Logout clears the stored refresh token digest. Logging out twice is a no-op.
func (s *authService) Logout(ctx context.Context, userID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.Logout")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	err := s.userRepo.UpdateRefreshTokenHash(ctx, userID, nil)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		span.RecordError(err)
		return err
	}
	return nil
}

// GetUser retrieves a non-deleted user by ID
func (s *authService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.GetUser")
	defer span.End()

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

// issueTokens signs a new token pair and persists the refresh token digest,
// replacing whatever digest was stored before.
func (s *authService) issueTokens(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	accessToken, err := s.signer.SignAccess(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.signer.SignRefresh(user.ID)
	if err != nil {
		return nil, err
	}

	digest := security.DigestToken(refreshToken)
	if err := s.userRepo.UpdateRefreshTokenHash(ctx, user.ID, &digest); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.signer.AccessTTL().Seconds()),
	}, nil
}
