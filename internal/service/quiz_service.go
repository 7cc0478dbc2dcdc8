package service

import (
	"context"
	"fmt"
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/progression"
	"skillpath_backend/internal/repository"
	"skillpath_backend/internal/util"
	"skillpath_backend/pkg/logger"
	"skillpath_backend/pkg/monitoring"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// QuestionView 下发给学员的题目，不含答案
type QuestionView struct {
	ID      uint     `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Weight  int      `json:"weight"`
}

type SubmitResult struct {
	progression.Result
	Kind     model.AttemptKind  `json:"kind"`
	Recorded bool               `json:"recorded"`
	Attempt  *model.QuizAttempt `json:"attempt,omitempty"`
}

type QuizService struct {
	Tracker *Tracker
	Quizzes QuizStore
	Now     func() time.Time
}

func NewQuizService(tracker *Tracker, quizzes QuizStore) *QuizService {
	return &QuizService{Tracker: tracker, Quizzes: quizzes, Now: time.Now}
}

// validKey 课程只有结业测验；实习有章节测验与结业考试
func validKey(key repository.QuizKey) error {
	switch {
	case key.ScopeKind == model.ScopeCourse && key.Kind == model.KindQuiz && key.SectionID == 0:
	case key.ScopeKind == model.ScopeInternship && key.Kind == model.KindFinalExam && key.SectionID == 0:
	case key.ScopeKind == model.ScopeInternship && key.Kind == model.KindSectionQuiz && key.SectionID != 0:
	default:
		return fmt.Errorf("%w: %s/%s", util.ErrUnsupportedQuiz, key.ScopeKind, key.Kind)
	}
	return nil
}

// open 校验报名与开放条件
func (s *QuizService) open(ctx context.Context, userID string, key repository.QuizKey) error {
	if err := validKey(key); err != nil {
		return err
	}
	snap, err := s.Tracker.Load(ctx, userID, key.ScopeKind, key.ScopeID)
	if err != nil {
		return err
	}
	if key.Kind == model.KindSectionQuiz {
		if !snap.Outline.HasSection(key.SectionID) {
			return util.ErrSectionNotFound
		}
		if !snap.State.SectionComplete(key.SectionID) {
			return util.ErrQuizLocked
		}
		return nil
	}
	if !progression.ExamUnlocked(snap.State) {
		return util.ErrExamLocked
	}
	return nil
}

func (s *QuizService) Questions(ctx context.Context, userID string, key repository.QuizKey) ([]QuestionView, error) {
	if err := s.open(ctx, userID, key); err != nil {
		return nil, err
	}
	questions, err := s.Quizzes.ListQuestions(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrNoQuestions
	}

	views := make([]QuestionView, len(questions))
	for i, q := range questions {
		views[i] = QuestionView{ID: q.ID, Prompt: q.Prompt, Options: q.Options, Weight: q.Weight}
	}
	return views, nil
}

// ParseAnswers 把 {"题目ID": 选项下标或字符串} 转为评分输入
func ParseAnswers(raw map[string]interface{}) (map[uint]string, error) {
	if len(raw) == 0 {
		return nil, util.ErrEmptyAnswers
	}
	answers := make(map[uint]string, len(raw))
	for k, v := range raw {
		id, err := strconv.ParseUint(k, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: question %q", util.ErrInvalidAnswer, k)
		}
		a, ok := progression.NormalizeAnswer(v)
		if !ok {
			return nil, fmt.Errorf("%w: question %d", util.ErrInvalidAnswer, id)
		}
		answers[uint(id)] = a
	}
	return answers, nil
}

// Submit 评分并按类型保存：测验每次覆盖保存，结业考试只保存及格的作答
func (s *QuizService) Submit(ctx context.Context, userID string, key repository.QuizKey, answers map[uint]string) (*SubmitResult, error) {
	if len(answers) == 0 {
		return nil, util.ErrEmptyAnswers
	}
	if err := s.open(ctx, userID, key); err != nil {
		return nil, err
	}

	questions, err := s.Quizzes.ListQuestions(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrNoQuestions
	}

	qs := make([]progression.Question, len(questions))
	for i, q := range questions {
		qs[i] = progression.Question{ID: q.ID, Answer: q.Answer, Weight: q.Weight}
	}
	res := progression.Score(qs, answers)
	monitoring.QuizSubmissions.WithLabelValues(string(key.ScopeKind), string(key.Kind), strconv.FormatBool(res.Passed)).Inc()

	out := &SubmitResult{Result: res, Kind: key.Kind}
	if key.Kind == model.KindFinalExam && !res.Passed {
		return out, nil
	}

	attempt := &model.QuizAttempt{
		UserID:      userID,
		ScopeKind:   key.ScopeKind,
		ScopeID:     key.ScopeID,
		Kind:        key.Kind,
		SectionID:   key.SectionID,
		Obtained:    res.Obtained,
		Total:       res.Total,
		Percent:     res.Percent,
		Passed:      res.Passed,
		AttemptedAt: s.Now(),
	}
	if err := s.Quizzes.UpsertAttempt(ctx, attempt); err != nil {
		return nil, err
	}
	logger.Log.Info("quiz attempt recorded",
		zap.String("user", userID),
		zap.String("kind", string(key.Kind)),
		zap.Uint("scopeID", key.ScopeID),
		zap.Int("percent", res.Percent),
		zap.Bool("passed", res.Passed),
	)

	out.Recorded = true
	out.Attempt = attempt
	return out, nil
}

// Attempt 最近一次保存的作答，无记录时返回 nil
func (s *QuizService) Attempt(ctx context.Context, userID string, key repository.QuizKey) (*model.QuizAttempt, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	if err := s.Tracker.Enrollment.Require(ctx, userID, key.ScopeKind, key.ScopeID); err != nil {
		return nil, err
	}
	return s.Quizzes.FindAttempt(ctx, userID, key)
}
