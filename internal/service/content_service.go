package service

import (
	"context"
	"fmt"
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/progression"
	"skillpath_backend/internal/util"
	"skillpath_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
)

// Outline 课程或实习的内容树，Units 为扁平化后的学习单元
type Outline struct {
	Kind        model.ScopeKind            `json:"kind"`
	ID          uint                       `json:"id"`
	Slug        string                     `json:"slug"`
	Title       string                     `json:"title"`
	Description string                     `json:"description"`
	Price       int64                      `json:"price"`
	IsPublished bool                       `json:"isPublished"`
	Units       []progression.Unit         `json:"units"`
	Sections    []progression.SectionGroup `json:"sections"`
	Lessons     []model.Lesson             `json:"lessons,omitempty"`
	Tree        []model.Section            `json:"tree,omitempty"`
}

// HasUnit 判断单元是否属于该容器
func (o *Outline) HasUnit(id uint) bool {
	for _, u := range o.Units {
		if u.ID == id {
			return true
		}
	}
	return false
}

// HasSection 仅对实习有意义
func (o *Outline) HasSection(id uint) bool {
	for _, s := range o.Tree {
		if s.ID == id {
			return true
		}
	}
	return false
}

// Lesson 返回课时详情
func (o *Outline) Lesson(id uint) (*model.Lesson, bool) {
	for i := range o.Lessons {
		if o.Lessons[i].ID == id {
			return &o.Lessons[i], true
		}
	}
	return nil, false
}

// Tab 返回标签页详情
func (o *Outline) Tab(id uint) (*model.Tab, bool) {
	for _, s := range o.Tree {
		for _, sub := range s.Subsections {
			for i := range sub.Tabs {
				if sub.Tabs[i].ID == id {
					return &sub.Tabs[i], true
				}
			}
		}
	}
	return nil, false
}

func CourseOutline(c *model.Course) *Outline {
	units := make([]progression.Unit, 0, len(c.Lessons))
	for _, l := range c.Lessons {
		units = append(units, progression.Unit{
			ID:           l.ID,
			Title:        l.Title,
			SectionTitle: l.Section,
			SectionOrder: l.SectionOrder,
			Order:        l.Order,
		})
	}
	return &Outline{
		Kind:        model.ScopeCourse,
		ID:          c.ID,
		Slug:        c.Slug,
		Title:       c.Title,
		Description: c.Description,
		Price:       c.Price,
		IsPublished: c.IsPublished,
		Units:       progression.Sort(units),
		Sections:    progression.GroupBySection(units),
		Lessons:     c.Lessons,
	}
}

func InternshipOutline(in *model.Internship) *Outline {
	var units []progression.Unit
	for _, s := range in.Sections {
		for _, sub := range s.Subsections {
			for _, t := range sub.Tabs {
				units = append(units, progression.Unit{
					ID:              t.ID,
					Title:           t.Title,
					SectionID:       s.ID,
					SectionTitle:    s.Title,
					SectionOrder:    s.Order,
					SubsectionID:    sub.ID,
					SubsectionOrder: sub.Order,
					Order:           t.Order,
				})
			}
		}
	}
	return &Outline{
		Kind:        model.ScopeInternship,
		ID:          in.ID,
		Slug:        in.Slug,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		IsPublished: in.IsPublished,
		Units:       progression.Sort(units),
		Sections:    progression.GroupBySection(units),
		Tree:        in.Sections,
	}
}

type ContentService struct {
	Courses     CourseStore
	Internships InternshipStore
	Cache       ContentCache
	TTL         time.Duration
}

func NewContentService(courses CourseStore, internships InternshipStore, cache ContentCache, ttl time.Duration) *ContentService {
	if cache == nil {
		cache = NopCache{}
	}
	return &ContentService{
		Courses:     courses,
		Internships: internships,
		Cache:       cache,
		TTL:         ttl,
	}
}

func outlineKey(kind model.ScopeKind, id uint) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

// Outline 读取内容树，缓存异常只记录日志不影响读取
func (s *ContentService) Outline(ctx context.Context, kind model.ScopeKind, id uint) (*Outline, error) {
	key := outlineKey(kind, id)

	var cached Outline
	hit, err := s.Cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Log.Warn("outline cache read failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		return &cached, nil
	}

	var outline *Outline
	switch kind {
	case model.ScopeCourse:
		course, err := s.Courses.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		outline = CourseOutline(course)
	case model.ScopeInternship:
		internship, err := s.Internships.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		outline = InternshipOutline(internship)
	default:
		return nil, fmt.Errorf("unknown scope kind %q", kind)
	}

	if err := s.Cache.Set(ctx, key, outline, s.TTL); err != nil {
		logger.Log.Warn("outline cache write failed", zap.String("key", key), zap.Error(err))
	}
	return outline, nil
}

// PublishedOutline 未发布的内容对学员不可见
func (s *ContentService) PublishedOutline(ctx context.Context, kind model.ScopeKind, id uint) (*Outline, error) {
	outline, err := s.Outline(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if !outline.IsPublished {
		return nil, notFoundFor(kind)
	}
	return outline, nil
}

func (s *ContentService) Invalidate(ctx context.Context, kind model.ScopeKind, id uint) {
	if err := s.Cache.Delete(ctx, outlineKey(kind, id)); err != nil {
		logger.Log.Warn("outline cache invalidate failed", zap.Error(err))
	}
}

func (s *ContentService) ListCourses(ctx context.Context) ([]model.Course, error) {
	return s.Courses.List(ctx, true)
}

func (s *ContentService) ListInternships(ctx context.Context) ([]model.Internship, error) {
	return s.Internships.List(ctx, true)
}

func notFoundFor(kind model.ScopeKind) error {
	if kind == model.ScopeInternship {
		return util.ErrInternshipNotFound
	}
	return util.ErrCourseNotFound
}
