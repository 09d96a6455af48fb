// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// APIResponse is the envelope every endpoint speaks: a human-readable
// message plus a data payload (null on failure). Validation failures add a
// per-field errors map.
type APIResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Data    interface{}         `json:"data"`
}

func SuccessResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Message: message,
		Data:    data,
	})
}

func CreatedResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{
		Message: message,
		Data:    nil,
	})
}

func UnauthorizedResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Autentikasi diperlukan."
	}
	ErrorResponse(c, http.StatusUnauthorized, message)
}

func ForbiddenResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Anda tidak memiliki akses."
	}
	ErrorResponse(c, http.StatusForbidden, message)
}

func NotFoundResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Data tidak ditemukan."
	}
	ErrorResponse(c, http.StatusNotFound, message)
}

func UnprocessableResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnprocessableEntity, message)
}

func BadGatewayResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadGateway, message)
}

func InternalErrorResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Terjadi kesalahan pada server."
	}
	ErrorResponse(c, http.StatusInternalServerError, message)
}

// ValidationErrorResponse renders a 422 with field-level error lists,
// mirroring the shape validation failures have always had on this API.
func ValidationErrorResponse(c *gin.Context, errors map[string][]string) {
	c.JSON(http.StatusUnprocessableEntity, APIResponse{
		Message: "Validasi gagal.",
		Errors:  errors,
		Data:    nil,
	})
}

func GetUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}

	str, ok := value.(string)
	if !ok {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
