package controller

import (
	"course_market_backend/internal/service"
	"course_market_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReconcileController struct {
	ReconcileService *service.ReconcileService
}

func NewReconcileController(reconcileService *service.ReconcileService) *ReconcileController {
	return &ReconcileController{ReconcileService: reconcileService}
}

// @Summary Recalculate completion of every paid enrollment
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.ReconcileReport}
// @Failure 409 {object} util.Response "a run is already in progress"
// @Failure 503 {object} util.Response
// @Router /api/admin/progress/reconcile [post]
func (c *ReconcileController) Run(ctx *gin.Context) {
	report, err := c.ReconcileService.RunAll(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// @Summary Report of the last reconciliation run
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.ReconcileReport}
// @Failure 404 {object} util.Response
// @Router /api/admin/progress/reconcile/last [get]
func (c *ReconcileController) Last(ctx *gin.Context) {
	report, err := c.ReconcileService.LastReport(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	if report == nil {
		util.NotFound(ctx, "No reconciliation run recorded")
		return
	}
	util.Success(ctx, report)
}
