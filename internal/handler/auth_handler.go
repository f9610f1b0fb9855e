package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/seifhassan89/full-stack-user-curd/internal/domain"
	"github.com/seifhassan89/full-stack-user-curd/internal/dto"
	"github.com/seifhassan89/full-stack-user-curd/internal/middleware"
	"github.com/seifhassan89/full-stack-user-curd/internal/service"
	"github.com/seifhassan89/full-stack-user-curd/pkg/response"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func authResponse(user *domain.User, tokens *domain.TokenPair) *dto.AuthResponse {
	return &dto.AuthResponse{
		User: dto.NewUserResponse(user),
		TokenPairResponse: dto.TokenPairResponse{
			AccessToken:  tokens.AccessToken,
			RefreshToken: tokens.RefreshToken,
			ExpiresIn:    tokens.ExpiresIn,
		},
	}
}

// Register creates a new account
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if ok, msg := req.ValidateEmail(); !ok {
		response.ValidationError(c, "Validation failed", map[string]string{"email": msg})
		return
	}
	if ok, msg := req.ValidatePassword(); !ok {
		response.ValidationError(c, "Validation failed", map[string]string{"password": msg})
		return
	}

	user, tokens, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			response.BadRequest(c, "Email already registered")
			return
		}
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	response.Created(c, authResponse(user, tokens))
}

// Login authenticates by email and password
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	user, tokens, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		// Wrong email, wrong password and inactive account all get the
		// same answer so the endpoint leaks nothing about which it was.
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrUserInactive) {
			response.Unauthorized(c, "Invalid credentials")
			return
		}
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	response.Success(c, authResponse(user, tokens))
}

// Refresh rotates the refresh token
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	userID := middleware.GetUserID(c)
	presented := middleware.GetRefreshToken(c)

	tokens, err := h.authService.Refresh(c.Request.Context(), userID, presented)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			response.Unauthorized(c, "Invalid refresh token")
			return
		}
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	response.Success(c, dto.TokenPairResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
	})
}

// Logout revokes the caller's refresh token
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	response.Success(c, gin.H{"message": "Logged out"})
}

// Me returns the authenticated user's profile
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.GetUser(c.Request.Context(), middleware.GetUserID(c))
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
