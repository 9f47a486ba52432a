package api

import (
	"bunker/gym-admin/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	badRequestErrors = []error{
		service.ErrValidationFailed,
		service.ErrInvalidDate,
		service.ErrForeignUpload,
		service.ErrInvalidContent,
		service.ErrNotATrainer,
	}
	notFoundErrors = []error{
		service.ErrStaffNotFound,
		service.ErrMemberNotFound,
		service.ErrPlanNotFound,
		service.ErrMembershipNotFound,
		service.ErrNoCurrentMembership,
		service.ErrExerciseNotFound,
		service.ErrRoutineNotFound,
		service.ErrSessionNotFound,
		service.ErrSessionExerciseNotFound,
		service.ErrTrainerNotFound,
		service.ErrNoTrainerAssigned,
		service.ErrPhotoNotFound,
		service.ErrVideoNotFound,
	}
	conflictErrors = []error{
		service.ErrStaffAlreadyExists,
		service.ErrPlanInactive,
		service.ErrPlanInUse,
	}
)

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// statusFor maps a service error onto an HTTP status code.
func statusFor(err error) int {
	switch {
	case isAny(err, badRequestErrors):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAuthenticationFailed):
		return http.StatusUnauthorized
	case isAny(err, notFoundErrors):
		return http.StatusNotFound
	case isAny(err, conflictErrors):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes err as a JSON error. Unexpected errors are logged and
// replaced by a generic message.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		abortWithError(c, code, "An unexpected error occurred")
		return
	}

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		c.AbortWithStatusJSON(code, gin.H{"error": "Validation error", "fields": verr.Fields})
		return
	}
	abortWithError(c, code, err.Error())
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// idParam parses the ObjectID path parameter name, answering 400 when it is malformed.
func idParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return primitive.NilObjectID, false
	}
	return id, true
}

// bindJSON decodes the request body, answering 400 on malformed input.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return false
	}
	return true
}
