package controller

import (
	"errors"
	"studyplan_backend/internal/service"
	"studyplan_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// GetBookProgress godoc
// @Summary Per-subchapter progress snapshot for a book
// @Description Recomputes the snapshot from raw attempt logs on every call.
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Param bookId path string true "book id"
// @Param planId query string true "plan id scoping the attempt logs"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/progress/books/{bookId} [get]
func (c *ProgressController) GetBookProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	bookID := ctx.Param("bookId")
	planID := ctx.Query("planId")

	snapshots, err := c.ProgressService.Aggregate(ctx.Request.Context(), claims.UserID, planID, bookID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidArgument):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrNoChapters):
			util.NotFound(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, snapshots)
}
