package controller

import (
	"io"
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/service"
	"skillpath_backend/internal/util"
	"skillpath_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GrantEnrollmentRequest 管理员授予报名
// swagger:model GrantEnrollmentRequest
type GrantEnrollmentRequest struct {
	UserID    string          `json:"userId" binding:"required"`
	ScopeKind model.ScopeKind `json:"scopeKind" binding:"required"`
	ScopeID   uint            `json:"scopeId" binding:"required"`
}

type AdminController struct {
	Import     *service.ImportService
	Enrollment *service.EnrollmentService
	Learning   *service.LearningService
}

func NewAdminController(imp *service.ImportService, enrollment *service.EnrollmentService, learning *service.LearningService) *AdminController {
	return &AdminController{Import: imp, Enrollment: enrollment, Learning: learning}
}

// ImportContent godoc
// @Summary 导入课程或实习
// @Description 请求体或 file 表单字段为 YAML，可包含多份文档；按 slug 更新已有内容
// @Tags 管理
// @Accept application/x-yaml
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file false "YAML 文件"
// @Success 200 {object} util.Response{data=[]service.ImportResult}
// @Failure 400 {object} util.Response "文档格式错误"
// @Router /api/admin/import [post]
func (c *AdminController) ImportContent(ctx *gin.Context) {
	var body io.Reader = ctx.Request.Body
	if fileHeader, err := ctx.FormFile("file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			util.BadRequest(ctx, "无法读取上传文件")
			return
		}
		defer file.Close()
		body = file
	}

	results, err := c.Import.Import(ctx.Request.Context(), body)
	if err != nil {
		respondError(ctx, err)
		return
	}
	logger.Log.Info("content imported via api",
		zap.String("user", ctx.GetString(util.CtxUserID)),
		zap.Int("documents", len(results)),
	)
	util.Success(ctx, results)
}

// GrantEnrollment godoc
// @Summary 授予报名
// @Description 用于付费内容或未发布内容
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GrantEnrollmentRequest true "授予对象"
// @Success 201 {object} util.Response{data=model.Enrollment}
// @Router /api/admin/enrollments [post]
func (c *AdminController) GrantEnrollment(ctx *gin.Context) {
	var req GrantEnrollmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !req.ScopeKind.Valid() {
		util.BadRequest(ctx, "scopeKind must be course or internship")
		return
	}

	enrollment, err := c.Enrollment.Grant(ctx.Request.Context(), req.UserID, req.ScopeKind, req.ScopeID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, enrollment)
}

// Progress godoc
// @Summary 学员完成情况
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程或实习ID"
// @Success 200 {object} util.Response{data=[]service.LearnerProgress}
// @Router /api/admin/courses/{id}/progress [get]
// @Router /api/admin/internships/{id}/progress [get]
func (c *AdminController) Progress(kind model.ScopeKind) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, ok := paramID(ctx, "id")
		if !ok {
			return
		}
		progress, err := c.Learning.Overview(ctx.Request.Context(), kind, id)
		if err != nil {
			respondError(ctx, err)
			return
		}
		util.Success(ctx, progress)
	}
}
