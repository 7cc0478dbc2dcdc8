package repository

import (
	"context"
	"errors"
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/util"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func orderLessons(db *gorm.DB) *gorm.DB {
	return db.Order("section_order ASC, sort_order ASC, id ASC")
}

// FindByID 一次查询带出全部课时
func (r *CourseRepository) FindByID(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).
		Preload("Lessons", orderLessons).
		First(&course, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) FindBySlug(ctx context.Context, slug string) (*model.Course, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).
		Preload("Lessons", orderLessons).
		Where("slug = ?", slug).
		First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) List(ctx context.Context, publishedOnly bool) ([]model.Course, error) {
	var courses []model.Course
	query := r.DB.WithContext(ctx).Order("id ASC")
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	err := query.Find(&courses).Error
	return courses, err
}

// Save 按 slug 创建或更新课程；课时按 (section_order, order) 匹配原地更新，
// 已存在但未出现在新内容中的课时保留，避免学习记录失去对应单元
func (r *CourseRepository) Save(ctx context.Context, course *model.Course) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Course
		err := tx.Preload("Lessons").Where("slug = ?", course.Slug).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(course).Error
		case err != nil:
			return err
		}

		course.ID = existing.ID
		if err := tx.Model(&existing).Updates(map[string]interface{}{
			"title":        course.Title,
			"description":  course.Description,
			"price":        course.Price,
			"is_published": course.IsPublished,
		}).Error; err != nil {
			return err
		}

		type key struct{ section, order int }
		byKey := make(map[key]model.Lesson, len(existing.Lessons))
		for _, l := range existing.Lessons {
			byKey[key{l.SectionOrder, l.Order}] = l
		}

		for i := range course.Lessons {
			lesson := &course.Lessons[i]
			lesson.CourseID = existing.ID
			if old, ok := byKey[key{lesson.SectionOrder, lesson.Order}]; ok {
				lesson.ID = old.ID
				lesson.CreatedAt = old.CreatedAt
				if err := tx.Save(lesson).Error; err != nil {
					return err
				}
				continue
			}
			if err := tx.Create(lesson).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
