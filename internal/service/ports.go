package service

import (
	"context"
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/repository"
)

// 服务依赖的数据访问接口，生产环境由 repository 包实现，测试中替换为内存实现

type CourseStore interface {
	FindByID(ctx context.Context, id uint) (*model.Course, error)
	FindBySlug(ctx context.Context, slug string) (*model.Course, error)
	List(ctx context.Context, publishedOnly bool) ([]model.Course, error)
	Save(ctx context.Context, course *model.Course) error
}

type InternshipStore interface {
	FindByID(ctx context.Context, id uint) (*model.Internship, error)
	FindBySlug(ctx context.Context, slug string) (*model.Internship, error)
	List(ctx context.Context, publishedOnly bool) ([]model.Internship, error)
	Save(ctx context.Context, internship *model.Internship) error
}

type ProgressStore interface {
	CompletedUnits(ctx context.Context, userID string, kind model.UnitKind, scopeID uint) (map[uint]bool, error)
	MarkComplete(ctx context.Context, p *model.UnitProgress) error
	CompletionCounts(ctx context.Context, kind model.UnitKind, scopeID uint) ([]repository.UserCompletion, error)
}

type EnrollmentStore interface {
	Exists(ctx context.Context, userID string, kind model.ScopeKind, scopeID uint) (bool, error)
	Create(ctx context.Context, e *model.Enrollment) error
	ListByScope(ctx context.Context, kind model.ScopeKind, scopeID uint) ([]model.Enrollment, error)
}

type QuizStore interface {
	ListQuestions(ctx context.Context, key repository.QuizKey) ([]model.QuizQuestion, error)
	ReplaceQuestions(ctx context.Context, key repository.QuizKey, questions []model.QuizQuestion) error
	UpsertAttempt(ctx context.Context, a *model.QuizAttempt) error
	FindAttempt(ctx context.Context, userID string, key repository.QuizKey) (*model.QuizAttempt, error)
	ListAttempts(ctx context.Context, userID string, kind model.ScopeKind, scopeID uint) ([]model.QuizAttempt, error)
}

type CertificateStore interface {
	FindByOwner(ctx context.Context, userID string, kind model.ScopeKind, scopeID uint) (*model.Certificate, error)
	FindByCode(ctx context.Context, code string) (*model.Certificate, error)
	Create(ctx context.Context, cert *model.Certificate) error
}

type ProjectStore interface {
	FindByOwner(ctx context.Context, userID string, internshipID uint) (*model.ProjectSubmission, error)
	FindByID(ctx context.Context, id uint) (*model.ProjectSubmission, error)
	Create(ctx context.Context, sub *model.ProjectSubmission) error
	Save(ctx context.Context, sub *model.ProjectSubmission) error
	ListByInternship(ctx context.Context, internshipID uint, status model.ProjectStatus) ([]model.ProjectSubmission, error)
}

var (
	_ CourseStore      = (*repository.CourseRepository)(nil)
	_ InternshipStore  = (*repository.InternshipRepository)(nil)
	_ ProgressStore    = (*repository.ProgressRepository)(nil)
	_ EnrollmentStore  = (*repository.EnrollmentRepository)(nil)
	_ QuizStore        = (*repository.QuizRepository)(nil)
	_ CertificateStore = (*repository.CertificateRepository)(nil)
	_ ProjectStore     = (*repository.ProjectRepository)(nil)
)
