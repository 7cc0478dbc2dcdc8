package service

import (
	"context"
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/util"
)

type EnrollmentService struct {
	Enrollments EnrollmentStore
	Content     *ContentService
}

func NewEnrollmentService(enrollments EnrollmentStore, content *ContentService) *EnrollmentService {
	return &EnrollmentService{Enrollments: enrollments, Content: content}
}

// Require 未报名返回 ErrNotEnrolled
func (s *EnrollmentService) Require(ctx context.Context, userID string, kind model.ScopeKind, scopeID uint) error {
	ok, err := s.Enrollments.Exists(ctx, userID, kind, scopeID)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrNotEnrolled
	}
	return nil
}

// EnrollFree 免费内容直接报名，付费内容需由管理员授予
func (s *EnrollmentService) EnrollFree(ctx context.Context, userID string, kind model.ScopeKind, scopeID uint) (*model.Enrollment, error) {
	outline, err := s.Content.PublishedOutline(ctx, kind, scopeID)
	if err != nil {
		return nil, err
	}
	if outline.Price > 0 {
		return nil, util.ErrNotFree
	}
	return s.create(ctx, userID, kind, scopeID, model.EnrollFree)
}

// Grant 管理员授予报名资格，内容可以未发布
func (s *EnrollmentService) Grant(ctx context.Context, userID string, kind model.ScopeKind, scopeID uint) (*model.Enrollment, error) {
	if _, err := s.Content.Outline(ctx, kind, scopeID); err != nil {
		return nil, err
	}
	return s.create(ctx, userID, kind, scopeID, model.EnrollGrant)
}

func (s *EnrollmentService) create(ctx context.Context, userID string, kind model.ScopeKind, scopeID uint, source model.EnrollmentSource) (*model.Enrollment, error) {
	e := &model.Enrollment{
		UserID:    userID,
		ScopeKind: kind,
		ScopeID:   scopeID,
		Source:    source,
	}
	if err := s.Enrollments.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}
