package model

import (
	"time"

	"gorm.io/gorm"
)

// swagger:model
type BaseModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ScopeKind 学习单元所属的容器类型
type ScopeKind string

const (
	ScopeCourse     ScopeKind = "course"
	ScopeInternship ScopeKind = "internship"
)

func (k ScopeKind) Valid() bool {
	return k == ScopeCourse || k == ScopeInternship
}

// UnitKind 最小可完成单元：课程为课时，实习为标签页
type UnitKind string

const (
	UnitLesson UnitKind = "lesson"
	UnitTab    UnitKind = "tab"
)

// UnitKindOf 返回容器对应的单元类型
func UnitKindOf(scope ScopeKind) UnitKind {
	if scope == ScopeInternship {
		return UnitTab
	}
	return UnitLesson
}
