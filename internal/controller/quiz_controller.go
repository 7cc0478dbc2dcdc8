package controller

import (
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/repository"
	"skillpath_backend/internal/service"
	"skillpath_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// SubmitQuizRequest answers 的键为题目ID，值为选项下标或文本
// swagger:model SubmitQuizRequest
type SubmitQuizRequest struct {
	Answers map[string]interface{} `json:"answers" binding:"required"`
}

type QuizController struct {
	Quiz *service.QuizService
}

func NewQuizController(quiz *service.QuizService) *QuizController {
	return &QuizController{Quiz: quiz}
}

// key 从路由解析测验标识；章节测验额外读取 sectionId
func (c *QuizController) key(ctx *gin.Context, scope model.ScopeKind, kind model.AttemptKind) (repository.QuizKey, bool) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return repository.QuizKey{}, false
	}
	key := repository.QuizKey{ScopeKind: scope, ScopeID: id, Kind: kind}
	if kind == model.KindSectionQuiz {
		sectionID, ok := paramID(ctx, "sectionId")
		if !ok {
			return key, false
		}
		key.SectionID = sectionID
	}
	return key, true
}

// Questions godoc
// @Summary 获取测验题目
// @Description 不含答案；结业测验在全部单元完成后开放，章节测验在该章节完成后开放
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程或实习ID"
// @Param sectionId path int false "章节ID"
// @Success 200 {object} util.Response{data=[]service.QuestionView}
// @Failure 403 {object} util.Response "未开放"
// @Router /api/courses/{id}/quiz [get]
// @Router /api/internships/{id}/final-exam [get]
// @Router /api/internships/{id}/sections/{sectionId}/quiz [get]
func (c *QuizController) Questions(scope model.ScopeKind, kind model.AttemptKind) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, ok := currentUserID(ctx)
		if !ok {
			return
		}
		key, ok := c.key(ctx, scope, kind)
		if !ok {
			return
		}

		questions, err := c.Quiz.Questions(ctx.Request.Context(), userID, key)
		if err != nil {
			respondError(ctx, err)
			return
		}
		util.Success(ctx, questions)
	}
}

// Submit godoc
// @Summary 提交测验
// @Description 得分率不低于 70% 为通过；结业考试只保存通过的作答
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程或实习ID"
// @Param sectionId path int false "章节ID"
// @Param request body SubmitQuizRequest true "作答"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Failure 400 {object} util.Response "作答格式错误"
// @Failure 403 {object} util.Response "未开放"
// @Router /api/courses/{id}/quiz [post]
// @Router /api/internships/{id}/final-exam [post]
// @Router /api/internships/{id}/sections/{sectionId}/quiz [post]
func (c *QuizController) Submit(scope model.ScopeKind, kind model.AttemptKind) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, ok := currentUserID(ctx)
		if !ok {
			return
		}
		key, ok := c.key(ctx, scope, kind)
		if !ok {
			return
		}

		var req SubmitQuizRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
		answers, err := service.ParseAnswers(req.Answers)
		if err != nil {
			respondError(ctx, err)
			return
		}

		res, err := c.Quiz.Submit(ctx.Request.Context(), userID, key, answers)
		if err != nil {
			respondError(ctx, err)
			return
		}
		util.Success(ctx, res)
	}
}

// Attempt godoc
// @Summary 最近一次保存的作答
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程或实习ID"
// @Param sectionId path int false "章节ID"
// @Success 200 {object} util.Response{data=model.QuizAttempt}
// @Router /api/courses/{id}/quiz/attempt [get]
// @Router /api/internships/{id}/final-exam/attempt [get]
// @Router /api/internships/{id}/sections/{sectionId}/quiz/attempt [get]
func (c *QuizController) Attempt(scope model.ScopeKind, kind model.AttemptKind) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, ok := currentUserID(ctx)
		if !ok {
			return
		}
		key, ok := c.key(ctx, scope, kind)
		if !ok {
			return
		}

		attempt, err := c.Quiz.Attempt(ctx.Request.Context(), userID, key)
		if err != nil {
			respondError(ctx, err)
			return
		}
		util.Success(ctx, gin.H{"attempt": attempt})
	}
}
