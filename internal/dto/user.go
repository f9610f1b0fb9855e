package dto

import (
	"time"

	"github.com/seifhassan89/full-stack-user-curd/internal/domain"
)

// CreateUserRequest represents admin user creation request
type CreateUserRequest struct {
	FullName string `json:"fullName" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin"`
	Status   string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// UpdateUserRequest represents admin user update request. All fields are
// optional; zero values mean "leave unchanged".
type UpdateUserRequest struct {
	FullName string `json:"fullName" binding:"omitempty,min=2"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=8,max=72"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin"`
	Status   string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// UserQuery represents list filters bound from query parameters
type UserQuery struct {
	PageQuery
	Search         string `form:"search"`
	Role           string `form:"role" binding:"omitempty,oneof=user admin"`
	Status         string `form:"status" binding:"omitempty,oneof=active inactive"`
	IncludeDeleted bool   `form:"includeDeleted"`
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID        string     `json:"id"`
	FullName  string     `json:"fullName"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	CreatedAt string     `json:"createdAt"`
	UpdatedAt string     `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// NewUserResponse converts a domain user to its response shape
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		FullName:  user.FullName,
		Email:     user.Email,
		Role:      string(user.Role),
		Status:    string(user.Status),
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
		DeletedAt: user.DeletedAt,
	}
}
