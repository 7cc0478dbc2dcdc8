package model

import (
	"time"
)

type AttemptKind string

const (
	KindQuiz        AttemptKind = "quiz"         // 课程结业测验
	KindSectionQuiz AttemptKind = "section_quiz" // 实习章节测验
	KindFinalExam   AttemptKind = "final_exam"   // 实习结业考试
)

// QuizQuestion 题目，Answer 为正确答案（选项下标或字符串）
// swagger:model QuizQuestion
type QuizQuestion struct {
	BaseModel
	ScopeKind ScopeKind   `gorm:"size:16;not null;index:idx_question_scope" json:"scopeKind"`
	ScopeID   uint        `gorm:"not null;index:idx_question_scope" json:"scopeId"`
	Kind      AttemptKind `gorm:"size:16;not null;index:idx_question_scope" json:"kind"`
	SectionID uint        `gorm:"not null;index:idx_question_scope" json:"sectionId"`
	Prompt    string      `gorm:"type:text;not null" json:"prompt"`
	Options   []string    `gorm:"serializer:json;type:text" json:"options"`
	Answer    string      `gorm:"size:255;not null" json:"-"`
	Weight    int         `gorm:"default:1" json:"weight"`
	Order     int         `gorm:"column:sort_order;default:0" json:"order"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// QuizAttempt 每个 (用户, 容器, 类型, 章节) 仅保留一条记录
// swagger:model QuizAttempt
type QuizAttempt struct {
	BaseModel
	UserID      string      `gorm:"size:64;not null;uniqueIndex:idx_attempt_key" json:"userId"`
	ScopeKind   ScopeKind   `gorm:"size:16;not null;uniqueIndex:idx_attempt_key" json:"scopeKind"`
	ScopeID     uint        `gorm:"not null;uniqueIndex:idx_attempt_key" json:"scopeId"`
	Kind        AttemptKind `gorm:"size:16;not null;uniqueIndex:idx_attempt_key" json:"kind"`
	SectionID   uint        `gorm:"not null;uniqueIndex:idx_attempt_key" json:"sectionId"`
	Obtained    int         `gorm:"not null" json:"obtained"`
	Total       int         `gorm:"not null" json:"total"`
	Percent     int         `gorm:"not null" json:"percent"`
	Passed      bool        `gorm:"not null" json:"passed"`
	AttemptedAt time.Time   `json:"attemptedAt"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
