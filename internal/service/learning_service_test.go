package service

import (
	"context"
	"errors"
	"testing"

	"skillpath_backend/internal/model"
	"skillpath_backend/internal/util"
)

func TestLearningService_ViewNoProgress(t *testing.T) {
	e := newEnv()
	e.seedCourse(0)
	e.enroll("u", model.ScopeCourse, 1)

	view, err := e.learning.View(context.Background(), "u", model.ScopeCourse, 1)
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
	if len(view.Sections) != 2 || view.Total != 3 {
		t.Fatalf("sections = %d total = %d", len(view.Sections), view.Total)
	}
	intro := view.Sections[0].Units
	if !intro[0].Unlocked || intro[1].Unlocked || view.Sections[1].Units[0].Unlocked {
		t.Errorf("only lesson 1 should be unlocked: %+v", view.Sections)
	}
	if view.Current == nil || view.Current.ID != 1 || view.Next == nil || view.Next.ID != 2 {
		t.Errorf("current/next = %v/%v, want 1/2", view.Current, view.Next)
	}
	if view.Gate.ExamUnlocked || view.Gate.CertificateEligible {
		t.Errorf("gate = %+v, want closed", view.Gate)
	}
}

func TestLearningService_CompleteOneAhead(t *testing.T) {
	e := newEnv()
	e.seedCourse(0)
	e.enroll("u", model.ScopeCourse, 1)
	ctx := context.Background()

	res, err := e.learning.Complete(ctx, "u", model.ScopeCourse, 1, 1)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if res.Current == nil || res.Current.ID != 2 {
		t.Errorf("current = %v, want 2", res.Current)
	}

	view, _ := e.learning.View(ctx, "u", model.ScopeCourse, 1)
	if !view.Sections[0].Units[1].Unlocked {
		t.Error("lesson 2 should be unlocked")
	}
	if view.Sections[1].Units[0].Unlocked {
		t.Error("lesson 3 should stay locked")
	}

	if _, err := e.learning.Complete(ctx, "u", model.ScopeCourse, 1, 3); !errors.Is(err, util.ErrUnitLocked) {
		t.Errorf("Complete(locked) error = %v, want ErrUnitLocked", err)
	}
	if _, err := e.learning.Lesson(ctx, "u", 1, 3); !errors.Is(err, util.ErrUnitLocked) {
		t.Errorf("Lesson(locked) error = %v, want ErrUnitLocked", err)
	}
	lesson, err := e.learning.Lesson(ctx, "u", 1, 2)
	if err != nil || lesson.Title != "b" {
		t.Errorf("Lesson(2) = %+v, %v", lesson, err)
	}
}

func TestLearningService_CompleteIsIdempotent(t *testing.T) {
	e := newEnv()
	e.seedCourse(0)
	e.enroll("u", model.ScopeCourse, 1)

	e.completeAll(t, "u", model.ScopeCourse, 1, 1, 1)
	if len(e.progress.rows) != 1 {
		t.Fatalf("progress rows = %d, want 1", len(e.progress.rows))
	}
}

func TestLearningService_RequiresEnrollment(t *testing.T) {
	e := newEnv()
	e.seedCourse(0)
	ctx := context.Background()

	if _, err := e.learning.View(ctx, "u", model.ScopeCourse, 1); !errors.Is(err, util.ErrNotEnrolled) {
		t.Errorf("View() error = %v, want ErrNotEnrolled", err)
	}
	if _, err := e.learning.Complete(ctx, "u", model.ScopeCourse, 1, 1); !errors.Is(err, util.ErrNotEnrolled) {
		t.Errorf("Complete() error = %v, want ErrNotEnrolled", err)
	}
	if _, err := e.learning.View(ctx, "u", model.ScopeCourse, 42); !errors.Is(err, util.ErrCourseNotFound) {
		t.Errorf("View(missing) error = %v, want ErrCourseNotFound", err)
	}

	draft := &model.Course{BaseModel: model.BaseModel{ID: 2}, Slug: "draft", Title: "Draft"}
	e.courses.byID[draft.ID] = draft
	if _, err := e.learning.View(ctx, "u", model.ScopeCourse, 2); !errors.Is(err, util.ErrCourseNotFound) {
		t.Errorf("View(unpublished) error = %v, want ErrCourseNotFound", err)
	}
}

func TestLearningService_UnknownUnit(t *testing.T) {
	e := newEnv()
	e.seedCourse(0)
	e.enroll("u", model.ScopeCourse, 1)

	if _, err := e.learning.Complete(context.Background(), "u", model.ScopeCourse, 1, 99); !errors.Is(err, util.ErrUnitNotFound) {
		t.Errorf("Complete() error = %v, want ErrUnitNotFound", err)
	}
}

func TestLearningService_InternshipStrictTraversal(t *testing.T) {
	e := newEnv()
	e.seedInternship()
	e.enroll("u", model.ScopeInternship, 1)
	ctx := context.Background()

	if _, err := e.learning.Complete(ctx, "u", model.ScopeInternship, 1, 2); !errors.Is(err, util.ErrUnitLocked) {
		t.Fatalf("Complete(tab 2 first) error = %v, want ErrUnitLocked", err)
	}

	steps := []struct {
		tab               uint
		next              uint
		subsectionChanged bool
		sectionCompleted  bool
		finished          bool
	}{
		{1, 2, false, false, false},
		{2, 3, true, false, false},
		{3, 4, true, true, false},
		{4, 0, true, true, true},
	}
	for _, st := range steps {
		res, err := e.learning.Complete(ctx, "u", model.ScopeInternship, 1, st.tab)
		if err != nil {
			t.Fatalf("Complete(%d) error = %v", st.tab, err)
		}
		if res.Step == nil {
			t.Fatalf("Complete(%d) step = nil", st.tab)
		}
		s := res.Step
		if s.SubsectionChanged != st.subsectionChanged || s.SectionCompleted != st.sectionCompleted || s.Finished != st.finished {
			t.Errorf("Complete(%d) step = %+v", st.tab, s)
		}
		if st.next != 0 && (s.Next == nil || s.Next.ID != st.next) {
			t.Errorf("Complete(%d) next = %v, want %d", st.tab, s.Next, st.next)
		}
	}

	view, err := e.learning.View(ctx, "u", model.ScopeInternship, 1)
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
	if !view.AllComplete || !view.Gate.ExamUnlocked || !view.Gate.ProjectRequired {
		t.Errorf("view = %+v", view)
	}
}

// 重新导入插入新标签页后，其后已完成的标签页重新锁定
func TestLearningService_InternshipGapLocksLaterTabs(t *testing.T) {
	e := newEnv()
	e.seedInternship()
	e.enroll("u", model.ScopeInternship, 1)
	ctx := context.Background()

	for _, id := range []uint{1, 3} {
		if err := e.progress.MarkComplete(ctx, &model.UnitProgress{
			UserID: "u", UnitKind: model.UnitKindOf(model.ScopeInternship), UnitID: id, ScopeID: 1, Completed: true,
		}); err != nil {
			t.Fatalf("MarkComplete(%d) error = %v", id, err)
		}
	}

	if _, err := e.learning.Tab(ctx, "u", 1, 3); !errors.Is(err, util.ErrUnitLocked) {
		t.Errorf("Tab(3) error = %v, want ErrUnitLocked", err)
	}
	if _, err := e.learning.Tab(ctx, "u", 1, 4); !errors.Is(err, util.ErrUnitLocked) {
		t.Errorf("Tab(4) error = %v, want ErrUnitLocked", err)
	}
	if tab, err := e.learning.Tab(ctx, "u", 1, 2); err != nil || tab.Title != "Editor" {
		t.Errorf("Tab(2) = %+v, %v", tab, err)
	}

	view, err := e.learning.View(ctx, "u", model.ScopeInternship, 1)
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
	if view.Current == nil || view.Current.ID != 2 {
		t.Errorf("current = %v, want 2", view.Current)
	}
}

func TestLearningService_Overview(t *testing.T) {
	e := newEnv()
	e.seedCourse(0)
	e.enroll("a", model.ScopeCourse, 1)
	e.enroll("b", model.ScopeCourse, 1)
	e.completeAll(t, "a", model.ScopeCourse, 1, 1, 2)

	rows, err := e.learning.Overview(context.Background(), model.ScopeCourse, 1)
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].UserID != "a" || rows[0].Completed != 2 || rows[0].Percent != 66 {
		t.Errorf("a = %+v", rows[0])
	}
	if rows[1].Completed != 0 || rows[1].Total != 3 {
		t.Errorf("b = %+v", rows[1])
	}
}

func TestEnrollmentService(t *testing.T) {
	e := newEnv()
	e.seedCourse(4900)
	ctx := context.Background()

	if _, err := e.enrollment.EnrollFree(ctx, "u", model.ScopeCourse, 1); !errors.Is(err, util.ErrNotFree) {
		t.Fatalf("EnrollFree(paid) error = %v, want ErrNotFree", err)
	}
	if _, err := e.enrollment.Grant(ctx, "u", model.ScopeCourse, 1); err != nil {
		t.Fatalf("Grant() error = %v", err)
	}
	if err := e.enrollment.Require(ctx, "u", model.ScopeCourse, 1); err != nil {
		t.Fatalf("Require() after grant error = %v", err)
	}

	e.courses.byID[1].Price = 0
	if _, err := e.enrollment.EnrollFree(ctx, "v", model.ScopeCourse, 1); err != nil {
		t.Fatalf("EnrollFree(free) error = %v", err)
	}
	if _, err := e.enrollment.Grant(ctx, "v", model.ScopeInternship, 9); !errors.Is(err, util.ErrInternshipNotFound) {
		t.Errorf("Grant(missing) error = %v", err)
	}
}
