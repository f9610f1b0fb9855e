package domain

import (
	"time"
)

// Role represents user role
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Status represents account status
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Valid reports whether the status is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// User represents a user entity
type User struct {
	ID           string `json:"id"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Never serialize password
	Role         Role   `json:"role"`
	Status       Status `json:"status"`
	// RefreshTokenHash is the digest of the currently valid refresh token.
	// Nil means the user has no active session.
	RefreshTokenHash *string    `json:"-"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	DeletedAt        *time.Time `json:"deletedAt,omitempty"`
}

// Deleted reports whether the user is soft-deleted. A deleted account is
// unusable for login and refresh regardless of its other fields.
func (u *User) Deleted() bool {
	return u.DeletedAt != nil
}

// TokenPair represents access and refresh tokens. The pair is returned to
// the caller once; only the digest of the refresh half is persisted.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"` // seconds until access token expires
}
