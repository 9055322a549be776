package controller

import (
	"course_market_backend/internal/model"
	"course_market_backend/internal/service"
	"course_market_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

type UpdateEnrollmentStatusRequest struct {
	Status model.EnrollmentStatus `json:"status" binding:"required"`
}

// @Summary Enroll in a course
// @Description Free courses are paid immediately, others stay pending until payment.
// @Tags Enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 201 {object} util.Response{data=model.Enrollment}
// @Success 200 {object} util.Response{data=model.Enrollment} "already enrolled"
// @Router /api/courses/{id}/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	enrollment, created, err := c.EnrollmentService.Enroll(ctx.Request.Context(), user.UserID, courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if created {
		util.Created(ctx, enrollment)
		return
	}
	util.Success(ctx, enrollment)
}

// @Summary List my enrollments
// @Tags Enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=util.ListResponse}
// @Router /api/enrollments [get]
func (c *EnrollmentController) ListMine(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	list, err := c.EnrollmentService.ListForUser(ctx.Request.Context(), user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.ListResponse{List: list, Count: len(list)})
}

// @Summary Set enrollment status
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "enrollment id"
// @Param body body UpdateEnrollmentStatusRequest true "status"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Router /api/admin/enrollments/{id}/status [patch]
func (c *EnrollmentController) UpdateStatus(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req UpdateEnrollmentStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.EnrollmentService.UpdateStatus(ctx.Request.Context(), id, req.Status)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, enrollment)
}
