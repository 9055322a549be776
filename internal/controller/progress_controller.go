package controller

import (
	"course_market_backend/internal/service"
	"course_market_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// @Summary Record progress on a learnable unit
// @Description Upserts the unit's progress and refreshes the enrollment's completion percentage.
// @Tags Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "course id"
// @Param unitId path string true "lesson or content item id"
// @Param body body service.ProgressUpdate true "progress"
// @Success 200 {object} util.Response{data=service.ProgressSummary}
// @Router /api/progress/{courseId}/units/{unitId} [post]
func (c *ProgressController) RecordProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID, ok := parseID(ctx, "courseId")
	if !ok {
		return
	}

	var req service.ProgressUpdate
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	summary, err := c.ProgressService.RecordProgress(ctx.Request.Context(), user.UserID, courseID, ctx.Param("unitId"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// @Summary My progress in a course
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "course id"
// @Success 200 {object} util.Response{data=service.ProgressSummary}
// @Router /api/progress/{courseId} [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID, ok := parseID(ctx, "courseId")
	if !ok {
		return
	}

	summary, err := c.ProgressService.GetProgress(ctx.Request.Context(), user.UserID, courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}
