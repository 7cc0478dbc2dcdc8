package controller

import (
	"errors"
	"net/http"
	"skillpath_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

var (
	notFoundErrors = []error{
		util.ErrCourseNotFound,
		util.ErrInternshipNotFound,
		util.ErrUnitNotFound,
		util.ErrSectionNotFound,
		util.ErrCertificateNotFound,
		util.ErrSubmissionNotFound,
		util.ErrNoQuestions,
	}
	forbiddenErrors = []error{
		util.ErrPermissionDenied,
		util.ErrNotEnrolled,
		util.ErrNotFree,
		util.ErrUnitLocked,
		util.ErrExamLocked,
		util.ErrQuizLocked,
		util.ErrProjectLocked,
		util.ErrCertificateNotEligible,
	}
	conflictErrors = []error{
		util.ErrCertificateExists,
		util.ErrSubmissionPending,
		util.ErrProjectAlreadyApproved,
		util.ErrAlreadyReviewed,
	}
	badRequestErrors = []error{
		util.ErrUnsupportedQuiz,
		util.ErrEmptyAnswers,
		util.ErrInvalidAnswer,
		util.ErrDisplayNameRequired,
		util.ErrConfirmationRequired,
		util.ErrInvalidCertificateImage,
		util.ErrLinksRequired,
		util.ErrInvalidReviewStatus,
		util.ErrInvalidImport,
	}
)

func matches(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// StatusFor 业务错误对应的 HTTP 状态码，未知错误为 500
func StatusFor(err error) int {
	switch {
	case matches(err, notFoundErrors):
		return http.StatusNotFound
	case matches(err, forbiddenErrors):
		return http.StatusForbidden
	case matches(err, conflictErrors):
		return http.StatusConflict
	case matches(err, badRequestErrors):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError 业务错误原样返回给客户端，其他错误记录日志后返回 500
func respondError(ctx *gin.Context, err error) {
	code := StatusFor(err)
	if code == http.StatusInternalServerError {
		util.LogInternalError(ctx, err)
		return
	}
	util.Error(ctx, code, err.Error())
}

func paramID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func currentUserID(ctx *gin.Context) (string, bool) {
	userID := ctx.GetString(util.CtxUserID)
	if userID == "" {
		util.Unauthorized(ctx)
		return "", false
	}
	return userID, true
}
