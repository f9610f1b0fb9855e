package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/seifhassan89/full-stack-user-curd/internal/domain"
	"github.com/seifhassan89/full-stack-user-curd/internal/dto"
	"github.com/seifhassan89/full-stack-user-curd/internal/repository"
	"github.com/seifhassan89/full-stack-user-curd/internal/security"
)

// mockUserRepository is an in-memory implementation of UserRepository
type mockUserRepository struct {
	users       map[string]*domain.User
	createError error
	updateError error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (r *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if r.createError != nil {
		return r.createError
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == strings.ToLower(email) && !user.Deleted() {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if r.updateError != nil {
		return r.updateError
	}
	existing, ok := r.users[user.ID]
	if !ok || existing.Deleted() {
		return repository.ErrNotFound
	}
	copied := *user
	copied.RefreshTokenHash = existing.RefreshTokenHash
	r.users[user.ID] = &copied
	return nil
}

func (r *mockUserRepository) UpdateRefreshTokenHash(ctx context.Context, userID string, digest *string) error {
	user, ok := r.users[userID]
	if !ok || user.Deleted() {
		return repository.ErrNotFound
	}
	user.RefreshTokenHash = digest
	return nil
}

func (r *mockUserRepository) SoftDelete(ctx context.Context, id string) error {
	user, ok := r.users[id]
	if !ok || user.Deleted() {
		return repository.ErrNotFound
	}
	now := time.Now().UTC()
	user.DeletedAt = &now
	user.RefreshTokenHash = nil
	return nil
}

func (r *mockUserRepository) List(ctx context.Context, query *dto.UserQuery) ([]*domain.User, int64, error) {
	var matched []*domain.User
	for _, user := range r.users {
		if user.Deleted() && !query.IncludeDeleted {
			continue
		}
		if query.Role != "" && string(user.Role) != query.Role {
			continue
		}
		if query.Status != "" && string(user.Status) != query.Status {
			continue
		}
		if query.Search != "" {
			needle := strings.ToLower(query.Search)
			if !strings.Contains(strings.ToLower(user.FullName), needle) &&
				!strings.Contains(user.Email, needle) {
				continue
			}
		}
		copied := *user
		matched = append(matched, &copied)
	}

	total := int64(len(matched))
	offset := query.Offset()
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + query.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func newTestAuthService(repo repository.UserRepository) AuthService {
	signer := security.NewTokenSigner(&security.TokenSignerConfig{
		AccessSecret:  "access-test-secret",
		RefreshSecret: "refresh-test-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	return NewAuthService(repo, signer, security.NewBcryptHasher(4))
}

func TestAuthService_Register(t *testing.T) {
	repo := newMockUserRepository()
	svc := newTestAuthService(repo)

	t.Run("successful registration", func(t *testing.T) {
		req := &dto.RegisterRequest{
			FullName: "Test User",
			Email:    "Test@Example.com",
			Password: "Password1!",
		}

		user, tokens, err := svc.Register(context.Background(), req)
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}

		if user.Email != "test@example.com" {
			t.Errorf("Register() Email = %v, want lowercased test@example.com", user.Email)
		}
		if user.Role != domain.RoleUser {
			t.Errorf("Register() Role = %v, want user", user.Role)
		}
		if user.Status != domain.StatusActive {
			t.Errorf("Register() Status = %v, want active", user.Status)
		}
		if user.PasswordHash == req.Password {
			t.Error("Register() stored the plaintext password")
		}
		if tokens.AccessToken == "" || tokens.RefreshToken == "" {
			t.Error("Register() returned an empty token")
		}

		stored := repo.users[user.ID]
		if stored.RefreshTokenHash == nil {
			t.Fatal("Register() did not persist a refresh token digest")
		}
		if *stored.RefreshTokenHash == tokens.RefreshToken {
			t.Error("Register() stored the raw refresh token instead of its digest")
		}
		if !security.DigestEqual(tokens.RefreshToken, *stored.RefreshTokenHash) {
			t.Error("stored digest does not match the issued refresh token")
		}
	})

	t.Run("duplicate email is rejected case-insensitively", func(t *testing.T) {
		req := &dto.RegisterRequest{
			FullName: "Another User",
			Email:    "TEST@EXAMPLE.COM",
			Password: "Password2!",
		}

		_, _, err := svc.Register(context.Background(), req)
		if !errors.Is(err, ErrEmailExists) {
			t.Errorf("Register() error = %v, want %v", err, ErrEmailExists)
		}
	})

	t.Run("racing duplicate at the unique index", func(t *testing.T) {
		repo.createError = repository.ErrDuplicateEmail
		defer func() { repo.createError = nil }()

		_, _, err := svc.Register(context.Background(), &dto.RegisterRequest{
			FullName: "Racer",
			Email:    "racer@example.com",
			Password: "Password1!",
		})
		if !errors.Is(err, ErrEmailExists) {
			t.Errorf("Register() error = %v, want %v", err, ErrEmailExists)
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	repo := newMockUserRepository()
	svc := newTestAuthService(repo)

	_, _, err := svc.Register(context.Background(), &dto.RegisterRequest{
		FullName: "Login Test",
		Email:    "login@example.com",
		Password: "Password1!",
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	t.Run("successful login", func(t *testing.T) {
		user, tokens, err := svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "login@example.com",
			Password: "Password1!",
		})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if user.Email != "login@example.com" {
			t.Errorf("Login() Email = %v", user.Email)
		}
		if tokens.AccessToken == "" || tokens.RefreshToken == "" {
			t.Error("Login() returned an empty token")
		}
	})

	t.Run("login replaces the stored refresh digest", func(t *testing.T) {
		_, first, err := svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "login@example.com",
			Password: "Password1!",
		})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		user, second, err := svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "login@example.com",
			Password: "Password1!",
		})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}

		stored := repo.users[user.ID]
		if security.DigestEqual(first.RefreshToken, *stored.RefreshTokenHash) {
			t.Error("old refresh token still matches after a second login")
		}
		if !security.DigestEqual(second.RefreshToken, *stored.RefreshTokenHash) {
			t.Error("latest refresh token does not match the stored digest")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "login@example.com",
			Password: "WrongPassword1!",
		})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login() error = %v, want %v", err, ErrInvalidCredentials)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "nobody@example.com",
			Password: "Password1!",
		})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login() error = %v, want %v", err, ErrInvalidCredentials)
		}
	})

	t.Run("inactive user", func(t *testing.T) {
		user, _, err := svc.Register(context.Background(), &dto.RegisterRequest{
			FullName: "Inactive User",
			Email:    "inactive@example.com",
			Password: "Password1!",
		})
		if err != nil {
			t.Fatalf("setup: %v", err)
		}
		repo.users[user.ID].Status = domain.StatusInactive

		_, _, err = svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "inactive@example.com",
			Password: "Password1!",
		})
		if !errors.Is(err, ErrUserInactive) {
			t.Errorf("Login() error = %v, want %v", err, ErrUserInactive)
		}
	})

	t.Run("soft-deleted user cannot login", func(t *testing.T) {
		user, _, err := svc.Register(context.Background(), &dto.RegisterRequest{
			FullName: "Deleted User",
			Email:    "deleted@example.com",
			Password: "Password1!",
		})
		if err != nil {
			t.Fatalf("setup: %v", err)
		}
		if err := repo.SoftDelete(context.Background(), user.ID); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, _, err = svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "deleted@example.com",
			Password: "Password1!",
		})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login() error = %v, want %v", err, ErrInvalidCredentials)
		}
	})
}

func TestAuthService_Refresh(t *testing.T) {
	repo := newMockUserRepository()
	svc := newTestAuthService(repo)

	user, tokens, err := svc.Register(context.Background(), &dto.RegisterRequest{
		FullName: "Refresh Test",
		Email:    "refresh@example.com",
		Password: "Password1!",
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	t.Run("rotation issues a new pair and invalidates the old token", func(t *testing.T) {
		rotated, err := svc.Refresh(context.Background(), user.ID, tokens.RefreshToken)
		if err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}
		if rotated.RefreshToken == tokens.RefreshToken {
			t.Error("Refresh() returned the same refresh token")
		}

		// Presenting the rotated-out token again is a replay.
		_, err = svc.Refresh(context.Background(), user.ID, tokens.RefreshToken)
		if !errors.Is(err, ErrInvalidRefreshToken) {
			t.Errorf("replayed Refresh() error = %v, want %v", err, ErrInvalidRefreshToken)
		}

		// The rotated token is the one that works now.
		if _, err := svc.Refresh(context.Background(), user.ID, rotated.RefreshToken); err != nil {
			t.Errorf("Refresh() with rotated token error = %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Refresh(context.Background(), "no-such-user", "whatever")
		if !errors.Is(err, ErrInvalidRefreshToken) {
			t.Errorf("Refresh() error = %v, want %v", err, ErrInvalidRefreshToken)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Refresh(context.Background(), user.ID, "not-the-stored-token")
		if !errors.Is(err, ErrInvalidRefreshToken) {
			t.Errorf("Refresh() error = %v, want %v", err, ErrInvalidRefreshToken)
		}
	})
}

func TestAuthService_Logout(t *testing.T) {
	repo := newMockUserRepository()
	svc := newTestAuthService(repo)

	user, tokens, err := svc.Register(context.Background(), &dto.RegisterRequest{
		FullName: "Logout Test",
		Email:    "logout@example.com",
		Password: "Password1!",
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	if err := svc.Logout(context.Background(), user.ID); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if repo.users[user.ID].RefreshTokenHash != nil {
		t.Error("Logout() did not clear the refresh token digest")
	}

	// The pre-logout refresh token no longer works.
	if _, err := svc.Refresh(context.Background(), user.ID, tokens.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("Refresh() after logout error = %v, want %v", err, ErrInvalidRefreshToken)
	}

	// Logging out again is a no-op, not an error.
	if err := svc.Logout(context.Background(), user.ID); err != nil {
		t.Errorf("second Logout() error = %v", err)
	}
}

func TestAuthService_GetUser(t *testing.T) {
	repo := newMockUserRepository()
	svc := newTestAuthService(repo)

	user, _, err := svc.Register(context.Background(), &dto.RegisterRequest{
		FullName: "Me Test",
		Email:    "me@example.com",
		Password: "Password1!",
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	got, err := svc.GetUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if got.Email != "me@example.com" {
		t.Errorf("GetUser() Email = %v", got.Email)
	}

	if _, err := svc.GetUser(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetUser() error = %v, want %v", err, ErrUserNotFound)
	}

	if err := repo.SoftDelete(context.Background(), user.ID); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := svc.GetUser(context.Background(), user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetUser() on deleted user error = %v, want %v", err, ErrUserNotFound)
	}
}
