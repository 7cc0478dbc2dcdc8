package controller

import (
	"errors"
	"net/http"
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/service"
	"skillpath_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	Kind        model.ScopeKind
	Certificate *service.CertificateService
}

func NewCertificateController(kind model.ScopeKind, certificate *service.CertificateService) *CertificateController {
	return &CertificateController{Kind: kind, Certificate: certificate}
}

// Issue godoc
// @Summary 生成证书
// @Description 满足结业条件后生成证书，每人每个课程或实习只能生成一次，之后不可修改
// @Tags 证书
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程或实习ID"
// @Param displayName formData string true "证书上显示的姓名"
// @Param confirm formData bool true "确认姓名无误"
// @Param image formData file false "证书图片 (png/jpeg, 不超过 5MB)"
// @Success 201 {object} util.Response{data=model.Certificate}
// @Failure 400 {object} util.Response "参数错误"
// @Failure 403 {object} util.Response "未满足条件"
// @Failure 409 {object} util.Response "证书已存在"
// @Router /api/courses/{id}/certificate [post]
// @Router /api/internships/{id}/certificate [post]
func (c *CertificateController) Issue(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	confirm, _ := strconv.ParseBool(ctx.PostForm("confirm"))
	req := service.IssueRequest{
		DisplayName: ctx.PostForm("displayName"),
		Confirm:     confirm,
	}

	fileHeader, err := ctx.FormFile("image")
	switch {
	case err == nil:
		file, err := fileHeader.Open()
		if err != nil {
			util.BadRequest(ctx, "无法读取证书图片")
			return
		}
		defer file.Close()
		req.Image = file
		req.ImageSize = fileHeader.Size
	case !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart):
		util.BadRequest(ctx, err.Error())
		return
	}

	cert, err := c.Certificate.Issue(ctx.Request.Context(), userID, c.Kind, id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, cert)
}

// Mine godoc
// @Summary 我的证书
// @Tags 证书
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程或实习ID"
// @Success 200 {object} util.Response{data=model.Certificate}
// @Failure 404 {object} util.Response "尚未生成"
// @Router /api/courses/{id}/certificate [get]
// @Router /api/internships/{id}/certificate [get]
func (c *CertificateController) Mine(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	cert, err := c.Certificate.Mine(ctx.Request.Context(), userID, c.Kind, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, cert)
}

// Verify godoc
// @Summary 校验证书
// @Description 公开接口，按证书编号查询
// @Tags 证书
// @Produce json
// @Param code path string true "证书编号"
// @Success 200 {object} util.Response{data=service.CertificateVerification}
// @Failure 404 {object} util.Response "证书不存在"
// @Router /api/certificates/verify/{code} [get]
func (c *CertificateController) Verify(ctx *gin.Context) {
	v, err := c.Certificate.Verify(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, v)
}
