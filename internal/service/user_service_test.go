package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/seifhassan89/full-stack-user-curd/internal/domain"
	"github.com/seifhassan89/full-stack-user-curd/internal/dto"
	"github.com/seifhassan89/full-stack-user-curd/internal/repository"
	"github.com/seifhassan89/full-stack-user-curd/internal/security"
)

func newTestUserService(repo *mockUserRepository) UserService {
	return NewUserService(repo, security.NewBcryptHasher(4))
}

func seedUser(t *testing.T, svc UserService, fullName, email, role string) *domain.User {
	t.Helper()
	user, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		FullName: fullName,
		Email:    email,
		Password: "Password1!",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return user
}

func TestUserService_Create(t *testing.T) {
	repo := newMockUserRepository()
	svc := newTestUserService(repo)

	user, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		FullName: "Admin Made",
		Email:    "Admin.Made@Example.com",
		Password: "Password1!",
		Role:     "admin",
		Status:   "inactive",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if user.Email != "admin.made@example.com" {
		t.Errorf("Create() Email = %v, want lowercased", user.Email)
	}
	if user.Role != domain.RoleAdmin {
		t.Errorf("Create() Role = %v, want admin", user.Role)
	}
	if user.Status != domain.StatusInactive {
		t.Errorf("Create() Status = %v, want inactive", user.Status)
	}
	if _, err := uuid.Parse(user.ID); err != nil {
		t.Errorf("Create() ID %q is not a UUID", user.ID)
	}

	_, err = svc.Create(context.Background(), &dto.CreateUserRequest{
		FullName: "Dup",
		Email:    "admin.made@example.com",
		Password: "Password1!",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("Create() duplicate error = %v, want %v", err, ErrEmailExists)
	}

	// A concurrent create can lose the race at the unique index after the
	// existence check passed; that still surfaces as a duplicate, not an
	// internal error.
	repo.createError = repository.ErrDuplicateEmail
	_, err = svc.Create(context.Background(), &dto.CreateUserRequest{
		FullName: "Racer",
		Email:    "racer@example.com",
		Password: "Password1!",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("Create() racing duplicate error = %v, want %v", err, ErrEmailExists)
	}
	repo.createError = nil
}

func TestUserService_GetByID(t *testing.T) {
	repo := newMockUserRepository()
	svc := newTestUserService(repo)

	user := seedUser(t, svc, "Read Me", "read@example.com", "")

	got, err := svc.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Email != "read@example.com" {
		t.Errorf("GetByID() Email = %v", got.Email)
	}

	// The id column is a uuid, so a malformed id is just not found.
	if _, err := svc.GetByID(context.Background(), "not-a-uuid"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByID() with malformed id error = %v, want %v", err, ErrUserNotFound)
	}
	if _, err := svc.GetByID(context.Background(), uuid.New().String()); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByID() with unknown id error = %v, want %v", err, ErrUserNotFound)
	}
}

func TestUserService_Update(t *testing.T) {
	repo := newMockUserRepository()
	svc := newTestUserService(repo)

	user := seedUser(t, svc, "Original Name", "update@example.com", "")
	other := seedUser(t, svc, "Other", "taken@example.com", "")

	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		updated, err := svc.Update(context.Background(), user.ID, &dto.UpdateUserRequest{
			FullName: "New Name",
		})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.FullName != "New Name" {
			t.Errorf("Update() FullName = %v", updated.FullName)
		}
		if updated.Email != "update@example.com" {
			t.Errorf("Update() changed email to %v", updated.Email)
		}
		if updated.Role != domain.RoleUser {
			t.Errorf("Update() changed role to %v", updated.Role)
		}
	})

	t.Run("password update re-hashes", func(t *testing.T) {
		before := repo.users[user.ID].PasswordHash
		updated, err := svc.Update(context.Background(), user.ID, &dto.UpdateUserRequest{
			Password: "NewPassword1!",
		})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.PasswordHash == before {
			t.Error("Update() did not re-hash the password")
		}
		if updated.PasswordHash == "NewPassword1!" {
			t.Error("Update() stored the plaintext password")
		}
	})

	t.Run("email collision is rejected", func(t *testing.T) {
		_, err := svc.Update(context.Background(), user.ID, &dto.UpdateUserRequest{
			Email: other.Email,
		})
		if !errors.Is(err, ErrEmailExists) {
			t.Errorf("Update() error = %v, want %v", err, ErrEmailExists)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Update(context.Background(), uuid.New().String(), &dto.UpdateUserRequest{
			FullName: "Ghost",
		})
		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("Update() error = %v, want %v", err, ErrUserNotFound)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := svc.Update(context.Background(), "not-a-uuid", &dto.UpdateUserRequest{
			FullName: "Ghost",
		})
		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("Update() error = %v, want %v", err, ErrUserNotFound)
		}
	})

	t.Run("racing email collision", func(t *testing.T) {
		repo.updateError = repository.ErrDuplicateEmail
		defer func() { repo.updateError = nil }()

		_, err := svc.Update(context.Background(), user.ID, &dto.UpdateUserRequest{
			FullName: "Racer",
		})
		if !errors.Is(err, ErrEmailExists) {
			t.Errorf("Update() error = %v, want %v", err, ErrEmailExists)
		}
	})
}

func TestUserService_Delete(t *testing.T) {
	repo := newMockUserRepository()
	svc := newTestUserService(repo)

	user := seedUser(t, svc, "To Delete", "delete@example.com", "")

	if err := svc.Delete(context.Background(), user.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !repo.users[user.ID].Deleted() {
		t.Error("Delete() did not mark the user deleted")
	}
	if repo.users[user.ID].RefreshTokenHash != nil {
		t.Error("Delete() left a refresh token digest behind")
	}

	// Deleting again reports not found, and a deleted user is invisible to reads.
	if err := svc.Delete(context.Background(), user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("second Delete() error = %v, want %v", err, ErrUserNotFound)
	}
	if _, err := svc.GetByID(context.Background(), user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByID() on deleted user error = %v, want %v", err, ErrUserNotFound)
	}

	// The freed email can be registered again.
	if _, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		FullName: "Reborn",
		Email:    "delete@example.com",
		Password: "Password1!",
	}); err != nil {
		t.Errorf("Create() with freed email error = %v", err)
	}

	if err := svc.Delete(context.Background(), "not-a-uuid"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Delete() with malformed id error = %v, want %v", err, ErrUserNotFound)
	}
}

func TestUserService_List(t *testing.T) {
	repo := newMockUserRepository()
	svc := newTestUserService(repo)

	seedUser(t, svc, "Alice Admin", "alice@example.com", "admin")
	seedUser(t, svc, "Bob User", "bob@example.com", "")
	deleted := seedUser(t, svc, "Carol Gone", "carol@example.com", "")
	if err := svc.Delete(context.Background(), deleted.ID); err != nil {
		t.Fatalf("setup: %v", err)
	}

	t.Run("excludes deleted by default", func(t *testing.T) {
		page, err := svc.List(context.Background(), &dto.UserQuery{})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if page.TotalCount != 2 {
			t.Errorf("List() TotalCount = %d, want 2", page.TotalCount)
		}
		if page.CurrentPage != 1 || page.PageSize != 10 {
			t.Errorf("List() defaults not applied: page=%d size=%d", page.CurrentPage, page.PageSize)
		}
	})

	t.Run("includeDeleted", func(t *testing.T) {
		page, err := svc.List(context.Background(), &dto.UserQuery{IncludeDeleted: true})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if page.TotalCount != 3 {
			t.Errorf("List() TotalCount = %d, want 3", page.TotalCount)
		}
	})

	t.Run("role filter", func(t *testing.T) {
		page, err := svc.List(context.Background(), &dto.UserQuery{Role: "admin"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if page.TotalCount != 1 {
			t.Errorf("List() TotalCount = %d, want 1", page.TotalCount)
		}
		if len(page.Data) != 1 || page.Data[0].Email != "alice@example.com" {
			t.Errorf("List() Data = %+v", page.Data)
		}
	})

	t.Run("search", func(t *testing.T) {
		page, err := svc.List(context.Background(), &dto.UserQuery{Search: "bob"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if page.TotalCount != 1 {
			t.Errorf("List() TotalCount = %d, want 1", page.TotalCount)
		}
	})

	t.Run("pagination math", func(t *testing.T) {
		query := &dto.UserQuery{}
		query.PageNumber = 2
		query.PageSize = 1
		page, err := svc.List(context.Background(), query)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if page.TotalPages != 2 {
			t.Errorf("List() TotalPages = %d, want 2", page.TotalPages)
		}
		if len(page.Data) != 1 {
			t.Errorf("List() len(Data) = %d, want 1", len(page.Data))
		}
	})
}
