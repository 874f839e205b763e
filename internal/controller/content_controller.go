package controller

import (
	"studyplan_backend/internal/service"
	"studyplan_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

// ListBooks godoc
// @Summary List all books in display order
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/books [get]
func (c *ContentController) ListBooks(ctx *gin.Context) {
	books, err := c.ContentService.ListBooks(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, books)
}

// GetBookTree godoc
// @Summary Sorted chapter/subchapter tree of one book
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Param bookId path string true "book id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/books/{bookId}/tree [get]
func (c *ContentController) GetBookTree(ctx *gin.Context) {
	bookID := ctx.Param("bookId")
	if bookID == "" {
		util.BadRequest(ctx, "bookId is required")
		return
	}

	tree, err := c.ContentService.FetchTree(ctx.Request.Context(), []string{bookID}, nil, nil)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if len(tree) == 0 {
		util.NotFound(ctx, "book not found")
		return
	}

	util.Success(ctx, tree[0])
}
