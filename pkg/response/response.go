package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seifhassan89/full-stack-user-curd/internal/dto"
)

// Envelope is the uniform response body. Every endpoint answers with
// isSuccess plus either data or a message and field errors.
type Envelope struct {
	IsSuccess bool              `json:"isSuccess"`
	Data      interface{}       `json:"data,omitempty"`
	Message   string            `json:"message,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// PagedEnvelope carries one page of results with pagination metadata
// flattened alongside the data.
type PagedEnvelope[T any] struct {
	IsSuccess   bool  `json:"isSuccess"`
	Data        []T   `json:"data"`
	TotalCount  int64 `json:"totalCount"`
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalPages  int   `json:"totalPages"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{
		IsSuccess: true,
		Data:      data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{
		IsSuccess: true,
		Data:      data,
	})
}

// Paged writes a 200 response with pagination metadata
func Paged[T any](c *gin.Context, page *dto.Page[T]) {
	c.JSON(http.StatusOK, PagedEnvelope[T]{
		IsSuccess:   true,
		Data:        page.Data,
		TotalCount:  page.TotalCount,
		CurrentPage: page.CurrentPage,
		PageSize:    page.PageSize,
		TotalPages:  page.TotalPages,
	})
}

func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{
		IsSuccess: false,
		Message:   message,
	})
}

// ValidationError writes a 400 with per-field error details
func ValidationError(c *gin.Context, message string, errors map[string]string) {
	c.JSON(http.StatusBadRequest, Envelope{
		IsSuccess: false,
		Message:   message,
		Errors:    errors,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

func TooManyRequests(c *gin.Context, message string) {
	Error(c, http.StatusTooManyRequests, message)
}

func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}
