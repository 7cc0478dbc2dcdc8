package service

import (
	"context"
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/progression"
	"skillpath_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// Snapshot 某用户在某容器下的内容树、完成记录与求值结果
type Snapshot struct {
	UserID      string
	Outline     *Outline
	Completed   map[uint]bool
	Certificate *model.Certificate
	State       progression.State
}

// PolicyFor 课程允许领先一个单元，实习必须顺序完成
func PolicyFor(kind model.ScopeKind) progression.Policy {
	if kind == model.ScopeInternship {
		return progression.StrictSequential
	}
	return progression.LookaheadOne
}

// Tracker 读取数据并调用纯求值函数，供各学习相关服务共用
type Tracker struct {
	Content      *ContentService
	Enrollment   *EnrollmentService
	Progress     ProgressStore
	Certificates CertificateStore
}

func NewTracker(content *ContentService, enrollment *EnrollmentService, progress ProgressStore, certificates CertificateStore) *Tracker {
	return &Tracker{
		Content:      content,
		Enrollment:   enrollment,
		Progress:     progress,
		Certificates: certificates,
	}
}

// Load 校验报名后读取快照。
// 先解析已发布的内容：不存在或未发布的课程/实习统一返回未找到，
// 只有内容可见时才以未报名拒绝。
func (t *Tracker) Load(ctx context.Context, userID string, kind model.ScopeKind, scopeID uint) (*Snapshot, error) {
	ctx, span := tracing.Tracer.Start(ctx, "tracker.load")
	defer span.End()
	span.SetAttributes(
		attribute.String("scope.kind", string(kind)),
		attribute.Int64("scope.id", int64(scopeID)),
	)

	outline, err := t.Content.PublishedOutline(ctx, kind, scopeID)
	if err != nil {
		return nil, err
	}
	if err := t.Enrollment.Require(ctx, userID, kind, scopeID); err != nil {
		return nil, err
	}

	completed, err := t.Progress.CompletedUnits(ctx, userID, model.UnitKindOf(kind), scopeID)
	if err != nil {
		return nil, err
	}
	cert, err := t.Certificates.FindByOwner(ctx, userID, kind, scopeID)
	if err != nil {
		return nil, err
	}

	state := Evaluate(outline, completed, cert != nil)
	span.SetAttributes(
		attribute.Int("units.total", len(state.Units)),
		attribute.Int("units.completed", state.CompletedCount),
	)
	return &Snapshot{
		UserID:      userID,
		Outline:     outline,
		Completed:   completed,
		Certificate: cert,
		State:       state,
	}, nil
}

func Evaluate(outline *Outline, completed map[uint]bool, certified bool) progression.State {
	return progression.Evaluate(outline.Units, completed, progression.Options{
		Policy:    PolicyFor(outline.Kind),
		Certified: certified,
	})
}
