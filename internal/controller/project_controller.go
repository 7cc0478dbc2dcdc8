package controller

import (
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/service"
	"skillpath_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// SubmitProjectRequest 项目提交请求
// swagger:model SubmitProjectRequest
type SubmitProjectRequest struct {
	Links []string `json:"links" binding:"required"`
}

type ProjectController struct {
	Project *service.ProjectService
}

func NewProjectController(project *service.ProjectService) *ProjectController {
	return &ProjectController{Project: project}
}

// Submit godoc
// @Summary 提交实习项目
// @Description 全部标签页完成后开放；被驳回或要求重交时可再次提交
// @Tags 项目
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "实习ID"
// @Param request body SubmitProjectRequest true "项目链接"
// @Success 200 {object} util.Response{data=model.ProjectSubmission}
// @Failure 403 {object} util.Response "未开放"
// @Failure 409 {object} util.Response "等待审核或已通过"
// @Router /api/internships/{id}/project [post]
func (c *ProjectController) Submit(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	var req SubmitProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sub, err := c.Project.Submit(ctx.Request.Context(), userID, id, req.Links)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, sub)
}

// Mine godoc
// @Summary 我的项目提交
// @Tags 项目
// @Produce json
// @Security BearerAuth
// @Param id path int true "实习ID"
// @Success 200 {object} util.Response{data=model.ProjectSubmission}
// @Failure 404 {object} util.Response "尚未提交"
// @Router /api/internships/{id}/project [get]
func (c *ProjectController) Mine(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	sub, err := c.Project.Mine(ctx.Request.Context(), userID, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, sub)
}

// List godoc
// @Summary 实习项目提交列表
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "实习ID"
// @Param status query string false "submitted|approved|rejected|resubmit_required"
// @Success 200 {object} util.Response{data=[]model.ProjectSubmission}
// @Router /api/admin/internships/{id}/submissions [get]
func (c *ProjectController) List(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	subs, err := c.Project.List(ctx.Request.Context(), id, model.ProjectStatus(ctx.Query("status")))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, subs)
}

// Review godoc
// @Summary 审核项目
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "提交ID"
// @Param request body service.ReviewRequest true "审核结果"
// @Success 200 {object} util.Response{data=model.ProjectSubmission}
// @Failure 400 {object} util.Response "状态或分数无效"
// @Failure 409 {object} util.Response "已审核"
// @Router /api/admin/submissions/{id}/review [post]
func (c *ProjectController) Review(ctx *gin.Context) {
	reviewerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	var req service.ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sub, err := c.Project.Review(ctx.Request.Context(), reviewerID, id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, sub)
}
