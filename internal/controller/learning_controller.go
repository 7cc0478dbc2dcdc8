package controller

import (
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/service"
	"skillpath_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// LearningController 课程与实习共用的学习接口，Kind 决定单元类型和解锁策略
type LearningController struct {
	Kind       model.ScopeKind
	Learning   *service.LearningService
	Enrollment *service.EnrollmentService
}

func NewLearningController(kind model.ScopeKind, learning *service.LearningService, enrollment *service.EnrollmentService) *LearningController {
	return &LearningController{Kind: kind, Learning: learning, Enrollment: enrollment}
}

// Enroll godoc
// @Summary 报名免费内容
// @Description 价格为 0 的课程或实习可直接报名，付费内容返回 403
// @Tags 学习
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程或实习ID"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Failure 403 {object} util.Response "付费内容"
// @Failure 404 {object} util.Response "内容不存在"
// @Router /api/courses/{id}/enroll [post]
// @Router /api/internships/{id}/enroll [post]
func (c *LearningController) Enroll(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	enrollment, err := c.Enrollment.EnrollFree(ctx.Request.Context(), userID, c.Kind, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, enrollment)
}

// View godoc
// @Summary 学习进度
// @Description 返回每个单元的解锁与完成状态、当前单元、下一单元以及考试和证书的开放状态
// @Tags 学习
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程或实习ID"
// @Success 200 {object} util.Response{data=service.LearnView}
// @Failure 403 {object} util.Response "未报名"
// @Router /api/courses/{id}/learn [get]
// @Router /api/internships/{id}/learn [get]
func (c *LearningController) View(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	view, err := c.Learning.View(ctx.Request.Context(), userID, c.Kind, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Unit godoc
// @Summary 单元内容
// @Description 课程返回课时，实习返回标签页；未解锁返回 403
// @Tags 学习
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程或实习ID"
// @Param unitId path int true "单元ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "单元未解锁"
// @Failure 404 {object} util.Response "单元不存在"
// @Router /api/courses/{id}/lessons/{unitId} [get]
// @Router /api/internships/{id}/tabs/{unitId} [get]
func (c *LearningController) Unit(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	unitID, ok := paramID(ctx, "unitId")
	if !ok {
		return
	}

	var (
		unit interface{}
		err  error
	)
	if c.Kind == model.ScopeInternship {
		unit, err = c.Learning.Tab(ctx.Request.Context(), userID, id, unitID)
	} else {
		unit, err = c.Learning.Lesson(ctx.Request.Context(), userID, id, unitID)
	}
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, unit)
}

// Complete godoc
// @Summary 标记单元完成
// @Description 重复提交是幂等的；实习会返回小节、章节切换信息
// @Tags 学习
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程或实习ID"
// @Param unitId path int true "单元ID"
// @Success 200 {object} util.Response{data=service.CompletionResult}
// @Failure 403 {object} util.Response "单元未解锁"
// @Router /api/courses/{id}/lessons/{unitId}/complete [post]
// @Router /api/internships/{id}/tabs/{unitId}/complete [post]
func (c *LearningController) Complete(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	unitID, ok := paramID(ctx, "unitId")
	if !ok {
		return
	}

	res, err := c.Learning.Complete(ctx.Request.Context(), userID, c.Kind, id, unitID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}
