// internal/handlers/common.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tokita/tokita-backend/internal/region"
	"github.com/tokita/tokita-backend/internal/services"
	"github.com/tokita/tokita-backend/internal/utils"
)

// bindAndValidate binds the JSON body and runs struct validation,
// rendering the failure response itself. Returns false when the request
// is already answered.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Permintaan tidak valid.")
		return false
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}
	return true
}

// handleServiceError maps the service error taxonomy onto HTTP responses.
// Anything unrecognized is logged and hidden behind a generic 500.
func handleServiceError(c *gin.Context, err error) {
	if ve, ok := services.AsValidationError(err); ok {
		utils.ValidationErrorResponse(c, map[string][]string{ve.Field: {ve.Message}})
		return
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, "")
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, "")
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.UnauthorizedResponse(c, "Email atau kata sandi salah.")
	case errors.Is(err, region.ErrUpstream):
		utils.BadGatewayResponse(c, "Layanan data wilayah sedang tidak tersedia.")
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("Unhandled service error")
		utils.InternalErrorResponse(c, "")
	}
}

// pathUUID parses a :param path segment as a UUID, answering 404 itself
// on malformed input.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.NotFoundResponse(c, "")
		return uuid.Nil, false
	}
	return id, true
}

// authUserID pulls the authenticated user id set by the auth middleware.
func authUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}
	return userID, true
}
