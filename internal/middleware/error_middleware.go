package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkaya/vaxtrack/internal/app/models/dto"
	"github.com/mkaya/vaxtrack/internal/pkg/apperrors"
)

// HandleAPIError translates application errors into API error responses.
// Controllers call it for any service error so the sentinel-to-status
// mapping lives in exactly one place.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	// Not-found family
	case errors.Is(err, apperrors.ErrStudentNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Student not found")
	case errors.Is(err, apperrors.ErrDriveNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Vaccination drive not found")
	case errors.Is(err, apperrors.ErrUserNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found")
	case errors.Is(err, apperrors.ErrResourceNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found")

	// Ledger and lifecycle conflicts
	case errors.Is(err, apperrors.ErrAlreadyVaccinated):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceConflict, "Student has already been vaccinated in this drive")
	case errors.Is(err, apperrors.ErrNoDosesAvailable):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceConflict, "No doses available in this drive")
	case errors.Is(err, apperrors.ErrDriveCompleted):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceConflict, "Vaccination drive is already completed")
	case errors.Is(err, apperrors.ErrDriveHasVaccinations):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceConflict, "Drive has recorded vaccinations and cannot be deleted")
	case errors.Is(err, apperrors.ErrStudentIDAlreadyExists):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Student ID already exists")
	case errors.Is(err, apperrors.ErrUsernameAlreadyExists):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Username already exists")
	case errors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceConflict, err.Error())

	// Validation
	case errors.Is(err, apperrors.ErrVaccineNameMissing):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Vaccine name is required")
	case errors.Is(err, apperrors.ErrValidationFailed):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, err.Error())
	case errors.Is(err, apperrors.ErrBadRequest):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, err.Error())

	// Authentication and authorization
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrTokenExpired):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrTokenNotFound):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respondError(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied")

	default:
		respondError(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

func respondError(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}
