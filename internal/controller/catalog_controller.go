package controller

import (
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/service"
	"skillpath_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// CatalogController 公开的课程与实习目录
type CatalogController struct {
	Content *service.ContentService
}

func NewCatalogController(content *service.ContentService) *CatalogController {
	return &CatalogController{Content: content}
}

// ListCourses godoc
// @Summary 课程列表
// @Tags 目录
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/courses [get]
func (c *CatalogController) ListCourses(ctx *gin.Context) {
	courses, err := c.Content.ListCourses(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// ListInternships godoc
// @Summary 实习列表
// @Tags 目录
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Internship}
// @Router /api/internships [get]
func (c *CatalogController) ListInternships(ctx *gin.Context) {
	internships, err := c.Content.ListInternships(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, internships)
}

// Outline 返回已发布内容的目录，只含标题不含正文，不需要登录
func (c *CatalogController) Outline(kind model.ScopeKind) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, ok := paramID(ctx, "id")
		if !ok {
			return
		}
		outline, err := c.Content.PublishedOutline(ctx.Request.Context(), kind, id)
		if err != nil {
			respondError(ctx, err)
			return
		}
		util.Success(ctx, gin.H{
			"kind":        outline.Kind,
			"id":          outline.ID,
			"slug":        outline.Slug,
			"title":       outline.Title,
			"description": outline.Description,
			"price":       outline.Price,
			"sections":    outline.Sections,
		})
	}
}
