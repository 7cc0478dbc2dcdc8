package repository

import (
	"context"
	"errors"
	"skillpath_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// QuizKey 定位一套题目或一条作答记录；课程测验与结业考试的 SectionID 为 0
type QuizKey struct {
	ScopeKind model.ScopeKind
	ScopeID   uint
	Kind      model.AttemptKind
	SectionID uint
}

func (r *QuizRepository) ListQuestions(ctx context.Context, key QuizKey) ([]model.QuizQuestion, error) {
	var questions []model.QuizQuestion
	err := r.DB.WithContext(ctx).
		Where("scope_kind = ? AND scope_id = ? AND kind = ? AND section_id = ?",
			key.ScopeKind, key.ScopeID, key.Kind, key.SectionID).
		Order("sort_order ASC, id ASC").
		Find(&questions).Error
	return questions, err
}

// ReplaceQuestions 用新题目整体替换一套题；作答记录只保存分数，不引用题目
func (r *QuizRepository) ReplaceQuestions(ctx context.Context, key QuizKey, questions []model.QuizQuestion) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("scope_kind = ? AND scope_id = ? AND kind = ? AND section_id = ?",
				key.ScopeKind, key.ScopeID, key.Kind, key.SectionID).
			Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}
		if len(questions) == 0 {
			return nil
		}
		for i := range questions {
			questions[i].ScopeKind = key.ScopeKind
			questions[i].ScopeID = key.ScopeID
			questions[i].Kind = key.Kind
			questions[i].SectionID = key.SectionID
		}
		return tx.Create(&questions).Error
	})
}

// UpsertAttempt 每个键只保留最近一次作答
func (r *QuizRepository) UpsertAttempt(ctx context.Context, a *model.QuizAttempt) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "scope_kind"},
			{Name: "scope_id"},
			{Name: "kind"},
			{Name: "section_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"obtained",
			"total",
			"percent",
			"passed",
			"attempted_at",
			"updated_at",
		}),
	}).Create(a).Error
}

// FindAttempt 无记录时返回 nil, nil
func (r *QuizRepository) FindAttempt(ctx context.Context, userID string, key QuizKey) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND scope_kind = ? AND scope_id = ? AND kind = ? AND section_id = ?",
			userID, key.ScopeKind, key.ScopeID, key.Kind, key.SectionID).
		First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// ListAttempts 用户在某容器下的全部作答记录
func (r *QuizRepository) ListAttempts(ctx context.Context, userID string, kind model.ScopeKind, scopeID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND scope_kind = ? AND scope_id = ?", userID, kind, scopeID).
		Order("kind ASC, section_id ASC").
		Find(&attempts).Error
	return attempts, err
}
