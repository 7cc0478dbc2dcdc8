package service

import (
	"context"
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/progression"
	"skillpath_backend/internal/repository"
	"skillpath_backend/internal/util"
	"skillpath_backend/pkg/logger"
	"skillpath_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
)

// GateStatus 结业考试、项目与证书的开放状态
type GateStatus struct {
	ExamUnlocked        bool                `json:"examUnlocked"`
	ExamPassed          bool                `json:"examPassed"`
	ProjectRequired     bool                `json:"projectRequired"`
	ProjectStatus       model.ProjectStatus `json:"projectStatus,omitempty"`
	CertificateEligible bool                `json:"certificateEligible"`
	CertificateIssued   bool                `json:"certificateIssued"`
}

// ExamKind 课程为结业测验，实习为结业考试
func ExamKind(kind model.ScopeKind) model.AttemptKind {
	if kind == model.ScopeInternship {
		return model.KindFinalExam
	}
	return model.KindQuiz
}

func examKey(kind model.ScopeKind, scopeID uint) repository.QuizKey {
	return repository.QuizKey{ScopeKind: kind, ScopeID: scopeID, Kind: ExamKind(kind)}
}

func gateStatus(ctx context.Context, snap *Snapshot, quizzes QuizStore, projects ProjectStore) (GateStatus, error) {
	kind := snap.Outline.Kind
	gs := GateStatus{
		ExamUnlocked:      progression.ExamUnlocked(snap.State),
		ProjectRequired:   kind == model.ScopeInternship,
		CertificateIssued: snap.Certificate != nil,
	}

	attempt, err := quizzes.FindAttempt(ctx, snap.UserID, examKey(kind, snap.Outline.ID))
	if err != nil {
		return gs, err
	}
	// 以最近一次保存的成绩为准
	gs.ExamPassed = attempt != nil && attempt.Passed

	approved := false
	if gs.ProjectRequired {
		sub, err := projects.FindByOwner(ctx, snap.UserID, snap.Outline.ID)
		if err != nil {
			return gs, err
		}
		if sub != nil {
			gs.ProjectStatus = sub.Status
			approved = sub.Status == model.ProjectApproved
		}
	}

	gs.CertificateEligible = progression.CertificateEligible(snap.State.AllComplete, gs.ExamPassed, gs.ProjectRequired, approved)
	return gs, nil
}

type SectionView struct {
	SectionID uint                    `json:"sectionId,omitempty"`
	Title     string                  `json:"title"`
	Order     int                     `json:"order"`
	Completed bool                    `json:"completed"`
	Units     []progression.UnitState `json:"units"`
}

type LearnView struct {
	Kind           model.ScopeKind     `json:"kind"`
	ID             uint                `json:"id"`
	Title          string              `json:"title"`
	Sections       []SectionView       `json:"sections"`
	Current        *progression.Unit   `json:"current"`
	Next           *progression.Unit   `json:"next"`
	CompletedCount int                 `json:"completedCount"`
	Total          int                 `json:"total"`
	AllComplete    bool                `json:"allComplete"`
	Gate           GateStatus          `json:"gate"`
	Attempts       []model.QuizAttempt `json:"attempts"`
	Certificate    *model.Certificate  `json:"certificate,omitempty"`
}

// BuildSections 把求值结果按章节分组
func BuildSections(state progression.State) []SectionView {
	var sections []SectionView
	for _, us := range state.Units {
		n := len(sections)
		if n == 0 || sections[n-1].Units[0].Section() != us.Section() {
			sections = append(sections, SectionView{
				SectionID: us.SectionID,
				Title:     us.SectionTitle,
				Order:     us.SectionOrder,
				Completed: true,
			})
			n++
		}
		sections[n-1].Units = append(sections[n-1].Units, us)
		if !us.Completed {
			sections[n-1].Completed = false
		}
	}
	return sections
}

type CompletionResult struct {
	UnitID         uint              `json:"unitId"`
	Current        *progression.Unit `json:"current"`
	Next           *progression.Unit `json:"next"`
	CompletedCount int               `json:"completedCount"`
	AllComplete    bool              `json:"allComplete"`
	Step           *progression.Step `json:"step,omitempty"`
}

type LearnerProgress struct {
	UserID    string    `json:"userId"`
	Completed int       `json:"completed"`
	Total     int       `json:"total"`
	Percent   int       `json:"percent"`
	Enrolled  time.Time `json:"enrolledAt"`
}

type LearningService struct {
	Tracker  *Tracker
	Quizzes  QuizStore
	Projects ProjectStore
	Enrolls  EnrollmentStore
	Now      func() time.Time
}

func NewLearningService(tracker *Tracker, quizzes QuizStore, projects ProjectStore, enrolls EnrollmentStore) *LearningService {
	return &LearningService{
		Tracker:  tracker,
		Quizzes:  quizzes,
		Projects: projects,
		Enrolls:  enrolls,
		Now:      time.Now,
	}
}

// View 学习页：单元解锁状态、当前/下一单元、考试与证书开放状态
func (s *LearningService) View(ctx context.Context, userID string, kind model.ScopeKind, scopeID uint) (*LearnView, error) {
	snap, err := s.Tracker.Load(ctx, userID, kind, scopeID)
	if err != nil {
		return nil, err
	}
	gate, err := gateStatus(ctx, snap, s.Quizzes, s.Projects)
	if err != nil {
		return nil, err
	}
	attempts, err := s.Quizzes.ListAttempts(ctx, userID, kind, scopeID)
	if err != nil {
		return nil, err
	}

	return &LearnView{
		Kind:           kind,
		ID:             scopeID,
		Title:          snap.Outline.Title,
		Sections:       BuildSections(snap.State),
		Current:        snap.State.Current,
		Next:           snap.State.Next,
		CompletedCount: snap.State.CompletedCount,
		Total:          len(snap.State.Units),
		AllComplete:    snap.State.AllComplete,
		Gate:           gate,
		Attempts:       attempts,
		Certificate:    snap.Certificate,
	}, nil
}

// Lesson 返回已解锁的课时内容
func (s *LearningService) Lesson(ctx context.Context, userID string, courseID, lessonID uint) (*model.Lesson, error) {
	snap, err := s.unlockedUnit(ctx, userID, model.ScopeCourse, courseID, lessonID)
	if err != nil {
		return nil, err
	}
	lesson, _ := snap.Outline.Lesson(lessonID)
	return lesson, nil
}

// Tab 返回已解锁的标签页内容
func (s *LearningService) Tab(ctx context.Context, userID string, internshipID, tabID uint) (*model.Tab, error) {
	snap, err := s.unlockedUnit(ctx, userID, model.ScopeInternship, internshipID, tabID)
	if err != nil {
		return nil, err
	}
	tab, _ := snap.Outline.Tab(tabID)
	return tab, nil
}

func (s *LearningService) unlockedUnit(ctx context.Context, userID string, kind model.ScopeKind, scopeID, unitID uint) (*Snapshot, error) {
	snap, err := s.Tracker.Load(ctx, userID, kind, scopeID)
	if err != nil {
		return nil, err
	}
	us, ok := snap.State.Lookup(unitID)
	if !ok {
		return nil, util.ErrUnitNotFound
	}
	if !us.Unlocked {
		return nil, util.ErrUnitLocked
	}
	return snap, nil
}

// Complete 标记单元完成；锁定的单元不可完成，重复完成是幂等的
func (s *LearningService) Complete(ctx context.Context, userID string, kind model.ScopeKind, scopeID, unitID uint) (*CompletionResult, error) {
	snap, err := s.unlockedUnit(ctx, userID, kind, scopeID, unitID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	if !snap.Completed[unitID] {
		err := s.Tracker.Progress.MarkComplete(ctx, &model.UnitProgress{
			UserID:      userID,
			UnitKind:    model.UnitKindOf(kind),
			UnitID:      unitID,
			ScopeID:     scopeID,
			Completed:   true,
			CompletedAt: &now,
		})
		if err != nil {
			return nil, err
		}
		monitoring.UnitCompletions.WithLabelValues(string(kind)).Inc()
		logger.Log.Debug("unit completed",
			zap.String("user", userID),
			zap.String("scope", string(kind)),
			zap.Uint("scopeID", scopeID),
			zap.Uint("unitID", unitID),
		)
	}

	completed := make(map[uint]bool, len(snap.Completed)+1)
	for id, done := range snap.Completed {
		completed[id] = done
	}
	completed[unitID] = true
	state := Evaluate(snap.Outline, completed, snap.Certificate != nil)

	res := &CompletionResult{
		UnitID:         unitID,
		Current:        state.Current,
		Next:           state.Next,
		CompletedCount: state.CompletedCount,
		AllComplete:    state.AllComplete,
	}
	if kind == model.ScopeInternship {
		if step, ok := progression.Advance(snap.Outline.Units, unitID); ok {
			res.Step = &step
		}
	}
	return res, nil
}

// Overview 教师查看报名学员的完成情况
func (s *LearningService) Overview(ctx context.Context, kind model.ScopeKind, scopeID uint) ([]LearnerProgress, error) {
	outline, err := s.Tracker.Content.Outline(ctx, kind, scopeID)
	if err != nil {
		return nil, err
	}
	enrollments, err := s.Enrolls.ListByScope(ctx, kind, scopeID)
	if err != nil {
		return nil, err
	}
	counts, err := s.Tracker.Progress.CompletionCounts(ctx, model.UnitKindOf(kind), scopeID)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string]int, len(counts))
	for _, c := range counts {
		byUser[c.UserID] = int(c.Completed)
	}

	total := len(outline.Units)
	out := make([]LearnerProgress, 0, len(enrollments))
	for _, e := range enrollments {
		done := byUser[e.UserID]
		if done > total {
			done = total
		}
		lp := LearnerProgress{
			UserID:    e.UserID,
			Completed: done,
			Total:     total,
			Enrolled:  e.CreatedAt,
		}
		if total > 0 {
			lp.Percent = done * 100 / total
		}
		out = append(out, lp)
	}
	return out, nil
}
