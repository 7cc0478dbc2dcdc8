package model

import (
	"time"
)

// UnitProgress 记录用户对单元的完成状态，(user_id, unit_kind, unit_id) 唯一
// swagger:model UnitProgress
type UnitProgress struct {
	BaseModel
	UserID      string     `gorm:"size:64;not null;uniqueIndex:idx_user_unit" json:"userId"`
	UnitKind    UnitKind   `gorm:"size:16;not null;uniqueIndex:idx_user_unit" json:"unitKind"`
	UnitID      uint       `gorm:"not null;uniqueIndex:idx_user_unit" json:"unitId"`
	ScopeID     uint       `gorm:"index" json:"scopeId"`
	Completed   bool       `gorm:"not null" json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
}

func (UnitProgress) TableName() string {
	return "unit_progress"
}
