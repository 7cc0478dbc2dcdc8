package repository

import (
	"context"
	"skillpath_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Exists(ctx context.Context, userID string, kind model.ScopeKind, scopeID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Enrollment{}).
		Where("user_id = ? AND scope_kind = ? AND scope_id = ?", userID, kind, scopeID).
		Count(&count).Error
	return count > 0, err
}

// Create 已报名时不做任何修改
func (r *EnrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "scope_kind"},
			{Name: "scope_id"},
		},
		DoNothing: true,
	}).Create(e).Error
}

func (r *EnrollmentRepository) ListByScope(ctx context.Context, kind model.ScopeKind, scopeID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.WithContext(ctx).
		Where("scope_kind = ? AND scope_id = ?", kind, scopeID).
		Order("created_at ASC").
		Find(&enrollments).Error
	return enrollments, err
}
