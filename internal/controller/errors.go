package controller

import (
	"course_market_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto the response envelope.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrEnrollmentNotFound),
		errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrNoteNotFound):
		util.NotFound(ctx, util.ErrNoteNotFound.Error())
	case errors.Is(err, util.ErrInvalidCourse),
		errors.Is(err, util.ErrInvalidNote),
		errors.Is(err, util.ErrInvalidStatus),
		errors.Is(err, util.ErrUnitNotInCourse):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrNotEnrolled),
		errors.Is(err, util.ErrPermissionDenied):
		util.Error(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, util.ErrEmailRegistered),
		errors.Is(err, util.ErrReconcileInProgress):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Error(ctx, http.StatusUnauthorized, err.Error())
	case errors.Is(err, util.ErrStoreUnavailable):
		util.Error(ctx, http.StatusServiceUnavailable, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

func parseID(ctx *gin.Context, param string) (uint, bool) {
	id := util.MustParseUint(ctx.Param(param))
	if id == 0 {
		util.BadRequest(ctx, "invalid "+param)
		return 0, false
	}
	return id, true
}
