package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"testing"

	"skillpath_backend/internal/model"
	"skillpath_backend/internal/repository"
	"skillpath_backend/internal/util"
)

type fakeCourses struct {
	byID map[uint]*model.Course
}

func (f *fakeCourses) FindByID(_ context.Context, id uint) (*model.Course, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, util.ErrCourseNotFound
}

func (f *fakeCourses) FindBySlug(_ context.Context, slug string) (*model.Course, error) {
	for _, c := range f.byID {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, util.ErrCourseNotFound
}

func (f *fakeCourses) List(context.Context, bool) ([]model.Course, error) {
	var out []model.Course
	for _, c := range f.byID {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCourses) Save(_ context.Context, c *model.Course) error {
	if c.ID == 0 {
		c.ID = uint(len(f.byID) + 1)
	}
	f.byID[c.ID] = c
	return nil
}

type fakeInternships struct {
	byID map[uint]*model.Internship
}

func (f *fakeInternships) FindByID(_ context.Context, id uint) (*model.Internship, error) {
	if in, ok := f.byID[id]; ok {
		return in, nil
	}
	return nil, util.ErrInternshipNotFound
}

func (f *fakeInternships) FindBySlug(_ context.Context, slug string) (*model.Internship, error) {
	for _, in := range f.byID {
		if in.Slug == slug {
			return in, nil
		}
	}
	return nil, util.ErrInternshipNotFound
}

func (f *fakeInternships) List(context.Context, bool) ([]model.Internship, error) {
	var out []model.Internship
	for _, in := range f.byID {
		out = append(out, *in)
	}
	return out, nil
}

func (f *fakeInternships) Save(_ context.Context, in *model.Internship) error {
	if in.ID == 0 {
		in.ID = uint(len(f.byID) + 1)
	}
	f.byID[in.ID] = in
	return nil
}

type progressKey struct {
	user string
	kind model.UnitKind
	unit uint
}

type fakeProgress struct {
	mu   sync.Mutex
	rows map[progressKey]model.UnitProgress
}

func newFakeProgress() *fakeProgress {
	return &fakeProgress{rows: map[progressKey]model.UnitProgress{}}
}

func (f *fakeProgress) CompletedUnits(_ context.Context, userID string, kind model.UnitKind, scopeID uint) (map[uint]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[uint]bool{}
	for k, row := range f.rows {
		if k.user == userID && k.kind == kind && row.ScopeID == scopeID && row.Completed {
			out[k.unit] = true
		}
	}
	return out, nil
}

func (f *fakeProgress) MarkComplete(_ context.Context, p *model.UnitProgress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := progressKey{p.UserID, p.UnitKind, p.UnitID}
	if old, ok := f.rows[k]; ok {
		old.Completed = true
		f.rows[k] = old
		return nil
	}
	f.rows[k] = *p
	return nil
}

func (f *fakeProgress) CompletionCounts(_ context.Context, kind model.UnitKind, scopeID uint) ([]repository.UserCompletion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int64{}
	for k, row := range f.rows {
		if k.kind == kind && row.ScopeID == scopeID && row.Completed {
			counts[k.user]++
		}
	}
	var out []repository.UserCompletion
	for u, n := range counts {
		out = append(out, repository.UserCompletion{UserID: u, Completed: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

type fakeEnrollments struct {
	rows []model.Enrollment
}

func (f *fakeEnrollments) Exists(_ context.Context, userID string, kind model.ScopeKind, scopeID uint) (bool, error) {
	for _, e := range f.rows {
		if e.UserID == userID && e.ScopeKind == kind && e.ScopeID == scopeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEnrollments) Create(ctx context.Context, e *model.Enrollment) error {
	if ok, _ := f.Exists(ctx, e.UserID, e.ScopeKind, e.ScopeID); ok {
		return nil
	}
	f.rows = append(f.rows, *e)
	return nil
}

func (f *fakeEnrollments) ListByScope(_ context.Context, kind model.ScopeKind, scopeID uint) ([]model.Enrollment, error) {
	var out []model.Enrollment
	for _, e := range f.rows {
		if e.ScopeKind == kind && e.ScopeID == scopeID {
			out = append(out, e)
		}
	}
	return out, nil
}

type attemptKey struct {
	user string
	key  repository.QuizKey
}

type fakeQuizzes struct {
	questions map[repository.QuizKey][]model.QuizQuestion
	attempts  map[attemptKey]model.QuizAttempt
	upserts   int
}

func newFakeQuizzes() *fakeQuizzes {
	return &fakeQuizzes{
		questions: map[repository.QuizKey][]model.QuizQuestion{},
		attempts:  map[attemptKey]model.QuizAttempt{},
	}
}

func (f *fakeQuizzes) ListQuestions(_ context.Context, key repository.QuizKey) ([]model.QuizQuestion, error) {
	return f.questions[key], nil
}

func (f *fakeQuizzes) ReplaceQuestions(_ context.Context, key repository.QuizKey, qs []model.QuizQuestion) error {
	for i := range qs {
		qs[i].ID = uint(i + 1)
	}
	f.questions[key] = qs
	return nil
}

func (f *fakeQuizzes) UpsertAttempt(_ context.Context, a *model.QuizAttempt) error {
	f.upserts++
	key := repository.QuizKey{ScopeKind: a.ScopeKind, ScopeID: a.ScopeID, Kind: a.Kind, SectionID: a.SectionID}
	f.attempts[attemptKey{a.UserID, key}] = *a
	return nil
}

func (f *fakeQuizzes) FindAttempt(_ context.Context, userID string, key repository.QuizKey) (*model.QuizAttempt, error) {
	a, ok := f.attempts[attemptKey{userID, key}]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (f *fakeQuizzes) ListAttempts(_ context.Context, userID string, kind model.ScopeKind, scopeID uint) ([]model.QuizAttempt, error) {
	var out []model.QuizAttempt
	for k, a := range f.attempts {
		if k.user == userID && k.key.ScopeKind == kind && k.key.ScopeID == scopeID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeCertificates struct {
	rows      []model.Certificate
	createErr error
}

func (f *fakeCertificates) FindByOwner(_ context.Context, userID string, kind model.ScopeKind, scopeID uint) (*model.Certificate, error) {
	for i := range f.rows {
		c := f.rows[i]
		if c.UserID == userID && c.ScopeKind == kind && c.ScopeID == scopeID {
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCertificates) FindByCode(_ context.Context, code string) (*model.Certificate, error) {
	for i := range f.rows {
		if f.rows[i].VerificationCode == code {
			c := f.rows[i]
			return &c, nil
		}
	}
	return nil, util.ErrCertificateNotFound
}

func (f *fakeCertificates) Create(ctx context.Context, c *model.Certificate) error {
	if f.createErr != nil {
		return f.createErr
	}
	if existing, _ := f.FindByOwner(ctx, c.UserID, c.ScopeKind, c.ScopeID); existing != nil {
		return util.ErrCertificateExists
	}
	c.ID = uint(len(f.rows) + 1)
	f.rows = append(f.rows, *c)
	return nil
}

type fakeProjects struct {
	rows []*model.ProjectSubmission
}

func (f *fakeProjects) FindByOwner(_ context.Context, userID string, internshipID uint) (*model.ProjectSubmission, error) {
	for _, s := range f.rows {
		if s.UserID == userID && s.InternshipID == internshipID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProjects) FindByID(_ context.Context, id uint) (*model.ProjectSubmission, error) {
	for _, s := range f.rows {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, util.ErrSubmissionNotFound
}

func (f *fakeProjects) Create(_ context.Context, s *model.ProjectSubmission) error {
	s.ID = uint(len(f.rows) + 1)
	cp := *s
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeProjects) Save(_ context.Context, s *model.ProjectSubmission) error {
	for i, row := range f.rows {
		if row.ID == s.ID {
			cp := *s
			f.rows[i] = &cp
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeProjects) ListByInternship(_ context.Context, internshipID uint, status model.ProjectStatus) ([]model.ProjectSubmission, error) {
	var out []model.ProjectSubmission
	for _, s := range f.rows {
		if s.InternshipID == internshipID && (status == "" || s.Status == status) {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeStorage struct {
	uploaded map[string][]byte
	deleted  []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploaded: map[string][]byte{}}
}

func (f *fakeStorage) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.uploaded[key] = data
	return "https://cdn.example.com/" + key, nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	delete(f.uploaded, key)
	return nil
}

func (f *fakeStorage) GetURL(key string) string {
	return "https://cdn.example.com/" + key
}

// env 组装全部服务，数据全部在内存中
type env struct {
	courses      *fakeCourses
	internships  *fakeInternships
	progress     *fakeProgress
	enrollments  *fakeEnrollments
	quizzes      *fakeQuizzes
	certificates *fakeCertificates
	projects     *fakeProjects
	storage      *fakeStorage

	content     *ContentService
	enrollment  *EnrollmentService
	tracker     *Tracker
	learning    *LearningService
	quiz        *QuizService
	certificate *CertificateService
	project     *ProjectService
}

func newEnv() *env {
	e := &env{
		courses:      &fakeCourses{byID: map[uint]*model.Course{}},
		internships:  &fakeInternships{byID: map[uint]*model.Internship{}},
		progress:     newFakeProgress(),
		enrollments:  &fakeEnrollments{},
		quizzes:      newFakeQuizzes(),
		certificates: &fakeCertificates{},
		projects:     &fakeProjects{},
		storage:      newFakeStorage(),
	}
	e.content = NewContentService(e.courses, e.internships, nil, 0)
	e.enrollment = NewEnrollmentService(e.enrollments, e.content)
	e.tracker = NewTracker(e.content, e.enrollment, e.progress, e.certificates)
	e.learning = NewLearningService(e.tracker, e.quizzes, e.projects, e.enrollments)
	e.quiz = NewQuizService(e.tracker, e.quizzes)
	e.certificate = NewCertificateService(e.tracker, e.certificates, e.quizzes, e.projects, e.storage)
	e.project = NewProjectService(e.tracker, e.projects)
	return e
}

// seedCourse 课程 1：课时 1、2 在第一章，课时 3 在第二章
func (e *env) seedCourse(price int64) *model.Course {
	c := &model.Course{
		BaseModel:   model.BaseModel{ID: 1},
		Slug:        "go",
		Title:       "Go",
		Price:       price,
		IsPublished: true,
		Lessons: []model.Lesson{
			{BaseModel: model.BaseModel{ID: 3}, CourseID: 1, Title: "c", Section: "Core", SectionOrder: 2, Order: 1},
			{BaseModel: model.BaseModel{ID: 1}, CourseID: 1, Title: "a", Section: "Intro", SectionOrder: 1, Order: 1},
			{BaseModel: model.BaseModel{ID: 2}, CourseID: 1, Title: "b", Section: "Intro", SectionOrder: 1, Order: 2},
		},
	}
	e.courses.byID[c.ID] = c
	return c
}

// seedInternship 实习 1：章节 10 (小节 100: tab 1,2；小节 101: tab 3)，章节 11 (小节 110: tab 4)
func (e *env) seedInternship() *model.Internship {
	in := &model.Internship{
		BaseModel:   model.BaseModel{ID: 1},
		Slug:        "backend",
		Title:       "Backend",
		IsPublished: true,
		Sections: []model.Section{
			{BaseModel: model.BaseModel{ID: 10}, Title: "Onboarding", Order: 1, Subsections: []model.Subsection{
				{BaseModel: model.BaseModel{ID: 100}, Title: "Tools", Order: 1, Tabs: []model.Tab{
					{BaseModel: model.BaseModel{ID: 1}, Title: "Git", Order: 1},
					{BaseModel: model.BaseModel{ID: 2}, Title: "Editor", Order: 2},
				}},
				{BaseModel: model.BaseModel{ID: 101}, Title: "Process", Order: 2, Tabs: []model.Tab{
					{BaseModel: model.BaseModel{ID: 3}, Title: "Reviews", Order: 1},
				}},
			}},
			{BaseModel: model.BaseModel{ID: 11}, Title: "Delivery", Order: 2, Subsections: []model.Subsection{
				{BaseModel: model.BaseModel{ID: 110}, Title: "Ship", Order: 1, Tabs: []model.Tab{
					{BaseModel: model.BaseModel{ID: 4}, Title: "Deploy", Order: 1},
				}},
			}},
		},
	}
	e.internships.byID[in.ID] = in
	return in
}

func (e *env) enroll(userID string, kind model.ScopeKind, scopeID uint) {
	e.enrollments.rows = append(e.enrollments.rows, model.Enrollment{UserID: userID, ScopeKind: kind, ScopeID: scopeID})
}

func (e *env) completeAll(t testing.TB, userID string, kind model.ScopeKind, scopeID uint, ids ...uint) {
	t.Helper()
	for _, id := range ids {
		if _, err := e.learning.Complete(context.Background(), userID, kind, scopeID, id); err != nil {
			t.Fatalf("Complete(%d) error = %v", id, err)
		}
	}
}
