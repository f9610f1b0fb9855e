package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/seifhassan89/full-stack-user-curd/internal/dto"
	"github.com/seifhassan89/full-stack-user-curd/internal/middleware"
	"github.com/seifhassan89/full-stack-user-curd/internal/service"
	"github.com/seifhassan89/full-stack-user-curd/pkg/response"
)

// UserHandler handles user management HTTP requests
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create creates a new user
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if ok, msg := dto.ValidatePassword(req.Password); !ok {
		response.ValidationError(c, "Validation failed", map[string]string{"password": msg})
		return
	}

	user, err := h.userService.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			response.BadRequest(c, "Email already registered")
			return
		}
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	response.Created(c, dto.NewUserResponse(user))
}

// List returns a page of users
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	var query dto.UserQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	page, err := h.userService.List(c.Request.Context(), &query)
	if err != nil {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	response.Paged(c, page)
}

// GetByID returns a single user
// GET /api/v1/users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	user, err := h.userService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	response.Success(c, dto.NewUserResponse(user))
}

// Update modifies a user
// PUT /api/v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if req.Password != "" {
		if ok, msg := dto.ValidatePassword(req.Password); !ok {
			response.ValidationError(c, "Validation failed", map[string]string{"password": msg})
			return
		}
	}

	user, err := h.userService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "User not found")
		case errors.Is(err, service.ErrEmailExists):
			response.BadRequest(c, "Email already registered")
		default:
			_ = c.Error(err)
			response.InternalError(c)
		}
		return
	}

	response.Success(c, dto.NewUserResponse(user))
}

// Delete soft-deletes a user
// DELETE /api/v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	response.Success(c, gin.H{"message": "User deleted"})
}

// Profile returns the caller's own profile
// GET /api/v1/users/profile/me
func (h *UserHandler) Profile(c *gin.Context) {
	user, err := h.userService.GetByID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Unauthorized(c, "Account no longer exists")
			return
		}
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	response.Success(c, dto.NewUserResponse(user))
}
