package repository

import (
	"context"
	"errors"
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/util"

	"gorm.io/gorm"
)

type ProjectRepository struct {
	DB *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{DB: db}
}

// FindByOwner 未提交时返回 nil, nil
func (r *ProjectRepository) FindByOwner(ctx context.Context, userID string, internshipID uint) (*model.ProjectSubmission, error) {
	var sub model.ProjectSubmission
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND internship_id = ?", userID, internshipID).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id uint) (*model.ProjectSubmission, error) {
	var sub model.ProjectSubmission
	err := r.DB.WithContext(ctx).First(&sub, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Create 并发首次提交时后到者命中唯一索引
func (r *ProjectRepository) Create(ctx context.Context, sub *model.ProjectSubmission) error {
	err := r.DB.WithContext(ctx).Create(sub).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrSubmissionPending
	}
	return err
}

func (r *ProjectRepository) Save(ctx context.Context, sub *model.ProjectSubmission) error {
	return r.DB.WithContext(ctx).Save(sub).Error
}

// ListByInternship status 为空时返回全部
func (r *ProjectRepository) ListByInternship(ctx context.Context, internshipID uint, status model.ProjectStatus) ([]model.ProjectSubmission, error) {
	var subs []model.ProjectSubmission
	query := r.DB.WithContext(ctx).Where("internship_id = ?", internshipID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("submitted_at ASC").Find(&subs).Error
	return subs, err
}
