package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"skillpath_backend/internal/model"
	"skillpath_backend/internal/util"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

// readyCourse 学员 u 完成课程 1 全部课时并通过结业测验
func readyCourse(t *testing.T) *env {
	t.Helper()
	e := newEnv()
	e.seedCourse(0)
	e.enroll("u", model.ScopeCourse, 1)
	e.completeAll(t, "u", model.ScopeCourse, 1, 1, 2, 3)
	ctx := context.Background()
	e.quizzes.ReplaceQuestions(ctx, courseQuizKey(), []model.QuizQuestion{{Prompt: "q", Answer: "a"}})
	if _, err := e.quiz.Submit(ctx, "u", courseQuizKey(), map[uint]string{1: "a"}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	e.certificate.NewCode = func() string { return "ABCDEF0123456789ABCDEF0123456789" }
	e.certificate.Now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return e
}

func TestCertificateService_IssueCourse(t *testing.T) {
	e := readyCourse(t)
	ctx := context.Background()

	cert, err := e.certificate.Issue(ctx, "u", model.ScopeCourse, 1, IssueRequest{
		DisplayName: "  Ada Lovelace ",
		Confirm:     true,
		Image:       bytes.NewReader(pngHeader),
		ImageSize:   int64(len(pngHeader)),
	})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if cert.DisplayName != "Ada Lovelace" {
		t.Errorf("DisplayName = %q", cert.DisplayName)
	}
	wantKey := "certificates/course/1/abcdef0123456789abcdef0123456789.png"
	if cert.ImageKey != wantKey {
		t.Errorf("ImageKey = %q, want %q", cert.ImageKey, wantKey)
	}
	if !bytes.Equal(e.storage.uploaded[wantKey], pngHeader) {
		t.Errorf("uploaded image mismatch")
	}

	// 已签发的证书不会被覆盖
	_, err = e.certificate.Issue(ctx, "u", model.ScopeCourse, 1, IssueRequest{DisplayName: "Someone Else", Confirm: true})
	if !errors.Is(err, util.ErrCertificateExists) {
		t.Fatalf("second Issue() error = %v, want ErrCertificateExists", err)
	}
	mine, err := e.certificate.Mine(ctx, "u", model.ScopeCourse, 1)
	if err != nil || mine.DisplayName != "Ada Lovelace" {
		t.Errorf("Mine() = %+v, %v", mine, err)
	}
	if len(e.certificates.rows) != 1 {
		t.Errorf("certificates = %d, want 1", len(e.certificates.rows))
	}
}

func TestCertificateService_CertifiedUnlocksEverything(t *testing.T) {
	e := readyCourse(t)
	ctx := context.Background()
	if _, err := e.certificate.Issue(ctx, "u", model.ScopeCourse, 1, IssueRequest{DisplayName: "Ada", Confirm: true}); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// 课程新增课时后，已获证书的学员仍可访问全部内容
	c := e.courses.byID[1]
	c.Lessons = append(c.Lessons,
		model.Lesson{BaseModel: model.BaseModel{ID: 4}, CourseID: 1, Title: "d", Section: "Core", SectionOrder: 2, Order: 2},
		model.Lesson{BaseModel: model.BaseModel{ID: 5}, CourseID: 1, Title: "e", Section: "Core", SectionOrder: 2, Order: 3},
	)
	if _, err := e.learning.Lesson(ctx, "u", 1, 5); err != nil {
		t.Errorf("Lesson(5) error = %v, want unlocked", err)
	}
}

func TestCertificateService_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  IssueRequest
		want error
	}{
		{"blank-name", IssueRequest{DisplayName: "  ", Confirm: true}, util.ErrDisplayNameRequired},
		{"not-confirmed", IssueRequest{DisplayName: "Ada"}, util.ErrConfirmationRequired},
		{"not-an-image", IssueRequest{DisplayName: "Ada", Confirm: true, Image: strings.NewReader("plain text"), ImageSize: 10}, util.ErrInvalidCertificateImage},
		{"too-large", IssueRequest{DisplayName: "Ada", Confirm: true, Image: bytes.NewReader(pngHeader), ImageSize: util.MaxCertificateImageSize + 1}, util.ErrInvalidCertificateImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := readyCourse(t)
			_, err := e.certificate.Issue(context.Background(), "u", model.ScopeCourse, 1, tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("Issue() error = %v, want %v", err, tt.want)
			}
			if len(e.certificates.rows) != 0 {
				t.Errorf("certificate stored on invalid request")
			}
		})
	}
}

func TestCertificateService_NotEligible(t *testing.T) {
	e := newEnv()
	e.seedCourse(0)
	e.enroll("u", model.ScopeCourse, 1)
	e.completeAll(t, "u", model.ScopeCourse, 1, 1, 2)
	ctx := context.Background()

	_, err := e.certificate.Issue(ctx, "u", model.ScopeCourse, 1, IssueRequest{DisplayName: "Ada", Confirm: true})
	if !errors.Is(err, util.ErrCertificateNotEligible) {
		t.Fatalf("Issue() error = %v, want ErrCertificateNotEligible", err)
	}

	// 全部完成但测验未通过
	e.completeAll(t, "u", model.ScopeCourse, 1, 3)
	e.quizzes.ReplaceQuestions(ctx, courseQuizKey(), []model.QuizQuestion{{Prompt: "q", Answer: "a"}})
	e.quiz.Submit(ctx, "u", courseQuizKey(), map[uint]string{1: "b"})
	_, err = e.certificate.Issue(ctx, "u", model.ScopeCourse, 1, IssueRequest{DisplayName: "Ada", Confirm: true})
	if !errors.Is(err, util.ErrCertificateNotEligible) {
		t.Fatalf("Issue() after failed quiz error = %v, want ErrCertificateNotEligible", err)
	}
}

// 通过后重考不及格会覆盖成绩，领证资格随之失效
func TestCertificateService_RetakeFailureRevokesEligibility(t *testing.T) {
	e := newEnv()
	e.seedCourse(0)
	e.enroll("u", model.ScopeCourse, 1)
	e.completeAll(t, "u", model.ScopeCourse, 1, 1, 2, 3)
	ctx := context.Background()
	e.quizzes.ReplaceQuestions(ctx, courseQuizKey(), []model.QuizQuestion{{Prompt: "q", Answer: "a"}})

	if res, err := e.quiz.Submit(ctx, "u", courseQuizKey(), map[uint]string{1: "a"}); err != nil || !res.Passed {
		t.Fatalf("Submit(pass) = %+v, %v", res, err)
	}
	view, err := e.learning.View(ctx, "u", model.ScopeCourse, 1)
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
	if !view.Gate.ExamPassed || !view.Gate.CertificateEligible {
		t.Fatalf("gate after pass = %+v, want eligible", view.Gate)
	}

	if res, err := e.quiz.Submit(ctx, "u", courseQuizKey(), map[uint]string{1: "b"}); err != nil || res.Passed {
		t.Fatalf("Submit(fail) = %+v, %v", res, err)
	}
	view, err = e.learning.View(ctx, "u", model.ScopeCourse, 1)
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
	if view.Gate.ExamPassed || view.Gate.CertificateEligible {
		t.Errorf("gate after failed retake = %+v, want not eligible", view.Gate)
	}
	_, err = e.certificate.Issue(ctx, "u", model.ScopeCourse, 1, IssueRequest{DisplayName: "Ada", Confirm: true})
	if !errors.Is(err, util.ErrCertificateNotEligible) {
		t.Errorf("Issue() error = %v, want ErrCertificateNotEligible", err)
	}
}

func TestCertificateService_InternshipNeedsApprovedProject(t *testing.T) {
	e := newEnv()
	e.seedInternship()
	e.enroll("u", model.ScopeInternship, 1)
	e.completeAll(t, "u", model.ScopeInternship, 1, 1, 2, 3, 4)
	ctx := context.Background()
	e.quizzes.ReplaceQuestions(ctx, finalExamKey(), []model.QuizQuestion{{Prompt: "q", Answer: "a"}})
	if _, err := e.quiz.Submit(ctx, "u", finalExamKey(), map[uint]string{1: "a"}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	req := IssueRequest{DisplayName: "Ada", Confirm: true}
	if _, err := e.certificate.Issue(ctx, "u", model.ScopeInternship, 1, req); !errors.Is(err, util.ErrCertificateNotEligible) {
		t.Fatalf("Issue() without project error = %v", err)
	}

	sub, err := e.project.Submit(ctx, "u", 1, []string{"https://github.com/ada/project"})
	if err != nil {
		t.Fatalf("project Submit() error = %v", err)
	}
	if _, err := e.certificate.Issue(ctx, "u", model.ScopeInternship, 1, req); !errors.Is(err, util.ErrCertificateNotEligible) {
		t.Fatalf("Issue() with pending project error = %v", err)
	}

	if _, err := e.project.Review(ctx, "mentor", sub.ID, ReviewRequest{Status: model.ProjectApproved}); err != nil {
		t.Fatalf("Review() error = %v", err)
	}
	if _, err := e.certificate.Issue(ctx, "u", model.ScopeInternship, 1, req); err != nil {
		t.Fatalf("Issue() after approval error = %v", err)
	}
}

func TestCertificateService_RemovesImageWhenInsertFails(t *testing.T) {
	e := readyCourse(t)
	e.certificates.createErr = errors.New("db down")

	_, err := e.certificate.Issue(context.Background(), "u", model.ScopeCourse, 1, IssueRequest{
		DisplayName: "Ada",
		Confirm:     true,
		Image:       bytes.NewReader(pngHeader),
		ImageSize:   int64(len(pngHeader)),
	})
	if err == nil {
		t.Fatal("Issue() error = nil, want insert failure")
	}
	if len(e.storage.deleted) != 1 || len(e.storage.uploaded) != 0 {
		t.Errorf("deleted = %v, uploaded = %d; want image removed", e.storage.deleted, len(e.storage.uploaded))
	}
}

func TestCertificateService_Verify(t *testing.T) {
	e := readyCourse(t)
	ctx := context.Background()
	if _, err := e.certificate.Issue(ctx, "u", model.ScopeCourse, 1, IssueRequest{DisplayName: "Ada", Confirm: true}); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	v, err := e.certificate.Verify(ctx, " abcdef0123456789abcdef0123456789 ")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if v.DisplayName != "Ada" || v.ScopeTitle != "Go" || !v.IssuedAt.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Errorf("Verify() = %+v", v)
	}

	if _, err := e.certificate.Verify(ctx, "nope"); !errors.Is(err, util.ErrCertificateNotFound) {
		t.Errorf("Verify(unknown) error = %v", err)
	}
	if _, err := e.certificate.Mine(ctx, "other", model.ScopeCourse, 1); !errors.Is(err, util.ErrCertificateNotFound) {
		t.Errorf("Mine(other) error = %v", err)
	}
}

