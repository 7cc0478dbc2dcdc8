package repository

import (
	"context"
	"skillpath_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// CompletedUnits 一次读取用户在某容器下的全部完成记录；没有记录的单元视为未完成
func (r *ProgressRepository) CompletedUnits(ctx context.Context, userID string, kind model.UnitKind, scopeID uint) (map[uint]bool, error) {
	var rows []model.UnitProgress
	err := r.DB.WithContext(ctx).
		Select("unit_id", "completed").
		Where("user_id = ? AND unit_kind = ? AND scope_id = ?", userID, kind, scopeID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	completed := make(map[uint]bool, len(rows))
	for _, row := range rows {
		if row.Completed {
			completed[row.UnitID] = true
		}
	}
	return completed, nil
}

// MarkComplete 以 (user_id, unit_kind, unit_id) 为键写入，重复调用只保留一行且保留首次完成时间
func (r *ProgressRepository) MarkComplete(ctx context.Context, p *model.UnitProgress) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "unit_kind"},
			{Name: "unit_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"completed", "updated_at"}),
	}).Create(p).Error
}

type UserCompletion struct {
	UserID    string `json:"userId"`
	Completed int64  `json:"completed"`
}

// CompletionCounts 按用户统计某容器下已完成的单元数
func (r *ProgressRepository) CompletionCounts(ctx context.Context, kind model.UnitKind, scopeID uint) ([]UserCompletion, error) {
	var counts []UserCompletion
	err := r.DB.WithContext(ctx).Model(&model.UnitProgress{}).
		Select("user_id, COUNT(*) AS completed").
		Where("unit_kind = ? AND scope_id = ? AND completed = ?", kind, scopeID, true).
		Group("user_id").
		Order("user_id ASC").
		Scan(&counts).Error
	return counts, err
}
