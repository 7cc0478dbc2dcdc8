package repository

import (
	"context"
	"errors"
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/util"

	"gorm.io/gorm"
)

type InternshipRepository struct {
	DB *gorm.DB
}

func NewInternshipRepository(db *gorm.DB) *InternshipRepository {
	return &InternshipRepository{DB: db}
}

func bySortOrder(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC, id ASC")
}

func (r *InternshipRepository) preloadTree(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Sections", bySortOrder).
		Preload("Sections.Subsections", bySortOrder).
		Preload("Sections.Subsections.Tabs", bySortOrder)
}

// FindByID 一次带出 章节 → 小节 → 标签页
func (r *InternshipRepository) FindByID(ctx context.Context, id uint) (*model.Internship, error) {
	var internship model.Internship
	err := r.preloadTree(r.DB.WithContext(ctx)).First(&internship, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrInternshipNotFound
	}
	if err != nil {
		return nil, err
	}
	return &internship, nil
}

func (r *InternshipRepository) FindBySlug(ctx context.Context, slug string) (*model.Internship, error) {
	var internship model.Internship
	err := r.preloadTree(r.DB.WithContext(ctx)).Where("slug = ?", slug).First(&internship).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrInternshipNotFound
	}
	if err != nil {
		return nil, err
	}
	return &internship, nil
}

func (r *InternshipRepository) List(ctx context.Context, publishedOnly bool) ([]model.Internship, error) {
	var internships []model.Internship
	query := r.DB.WithContext(ctx).Order("id ASC")
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	err := query.Find(&internships).Error
	return internships, err
}

// Save 按 slug 创建或更新实习；各层节点按 order 匹配原地更新，不删除已有节点
func (r *InternshipRepository) Save(ctx context.Context, internship *model.Internship) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Internship
		err := r.preloadTree(tx).Where("slug = ?", internship.Slug).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(internship).Error
		case err != nil:
			return err
		}

		internship.ID = existing.ID
		if err := tx.Model(&existing).Updates(map[string]interface{}{
			"title":        internship.Title,
			"description":  internship.Description,
			"price":        internship.Price,
			"is_published": internship.IsPublished,
		}).Error; err != nil {
			return err
		}

		oldSections := make(map[int]model.Section, len(existing.Sections))
		for _, s := range existing.Sections {
			oldSections[s.Order] = s
		}
		for i := range internship.Sections {
			sec := &internship.Sections[i]
			sec.InternshipID = existing.ID
			old, ok := oldSections[sec.Order]
			if !ok {
				if err := tx.Create(sec).Error; err != nil {
					return err
				}
				continue
			}
			sec.ID = old.ID
			if err := tx.Model(&old).Update("title", sec.Title).Error; err != nil {
				return err
			}
			if err := saveSubsections(tx, sec, old.Subsections); err != nil {
				return err
			}
		}
		return nil
	})
}

func saveSubsections(tx *gorm.DB, sec *model.Section, existing []model.Subsection) error {
	oldSubs := make(map[int]model.Subsection, len(existing))
	for _, s := range existing {
		oldSubs[s.Order] = s
	}
	for i := range sec.Subsections {
		sub := &sec.Subsections[i]
		sub.SectionID = sec.ID
		old, ok := oldSubs[sub.Order]
		if !ok {
			if err := tx.Create(sub).Error; err != nil {
				return err
			}
			continue
		}
		sub.ID = old.ID
		if err := tx.Model(&old).Update("title", sub.Title).Error; err != nil {
			return err
		}

		oldTabs := make(map[int]model.Tab, len(old.Tabs))
		for _, t := range old.Tabs {
			oldTabs[t.Order] = t
		}
		for j := range sub.Tabs {
			tab := &sub.Tabs[j]
			tab.SubsectionID = sub.ID
			if prev, ok := oldTabs[tab.Order]; ok {
				tab.ID = prev.ID
				tab.CreatedAt = prev.CreatedAt
				if err := tx.Save(tab).Error; err != nil {
					return err
				}
				continue
			}
			if err := tx.Create(tab).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
