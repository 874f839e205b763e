package controller

import (
	"errors"
	"studyplan_backend/internal/service"
	"studyplan_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PlanController struct {
	PlanService *service.PlanService
}

func NewPlanController(planService *service.PlanService) *PlanController {
	return &PlanController{PlanService: planService}
}

func (c *PlanController) respondPlanError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrInvalidArgument):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrPersonaNotFound),
		errors.Is(err, util.ErrNoChapters),
		errors.Is(err, util.ErrExamConfigNotFound),
		errors.Is(err, util.ErrPlanNotFound):
		util.NotFound(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// CreatePlan godoc
// @Summary Generate a time-boxed study plan
// @Tags plans
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.BuildPlanRequest true "plan request"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/plans [post]
func (c *PlanController) CreatePlan(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.BuildPlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	plan, err := c.PlanService.BuildPlan(ctx.Request.Context(), claims.UserID, req)
	if err != nil {
		c.respondPlanError(ctx, err)
		return
	}

	util.Created(ctx, plan)
}

// CreateBookPlan godoc
// @Summary Generate a one-session-per-book plan
// @Tags plans
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.BuildPlanRequest true "plan request"
// @Success 201 {object} util.Response
// @Router /api/plans/book [post]
func (c *PlanController) CreateBookPlan(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.BuildPlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	plan, err := c.PlanService.BuildBookPlan(ctx.Request.Context(), claims.UserID, req)
	if err != nil {
		c.respondPlanError(ctx, err)
		return
	}

	util.Created(ctx, plan)
}

// CreateAdaptivePlan godoc
// @Summary Regenerate a plan from aggregated progress
// @Description Schedules only outstanding reading and quiz stages, using the
// attempt logs recorded under the source plan.
// @Tags plans
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.AdaptivePlanRequest true "adaptive plan request"
// @Success 201 {object} util.Response
// @Router /api/plans/adaptive [post]
func (c *PlanController) CreateAdaptivePlan(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.AdaptivePlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	plan, err := c.PlanService.BuildAdaptivePlan(ctx.Request.Context(), claims.UserID, req)
	if err != nil {
		c.respondPlanError(ctx, err)
		return
	}

	util.Created(ctx, plan)
}

// GetPlan godoc
// @Summary Fetch one plan
// @Tags plans
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "plan id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/plans/{id} [get]
func (c *PlanController) GetPlan(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	plan, err := c.PlanService.GetPlan(ctx.Request.Context(), claims.UserID, ctx.Param("id"))
	if err != nil {
		c.respondPlanError(ctx, err)
		return
	}

	util.Success(ctx, plan)
}

// ListPlans godoc
// @Summary List the user's plans
// @Tags plans
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/plans [get]
func (c *PlanController) ListPlans(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	plans, err := c.PlanService.ListPlans(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, plans)
}

// GetPlanStats godoc
// @Summary Derived summary of one plan
// @Tags plans
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "plan id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/plans/{id}/stats [get]
func (c *PlanController) GetPlanStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.PlanService.GetPlanStats(ctx.Request.Context(), claims.UserID, ctx.Param("id"))
	if err != nil {
		c.respondPlanError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}
