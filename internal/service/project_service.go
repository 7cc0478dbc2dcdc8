package service

import (
	"context"
	"fmt"
	"net/url"
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/progression"
	"skillpath_backend/internal/util"
	"skillpath_backend/pkg/logger"
	"skillpath_backend/pkg/monitoring"
	"strings"
	"time"

	"go.uber.org/zap"
)

type ReviewRequest struct {
	Status   model.ProjectStatus `json:"status" binding:"required"`
	Grade    *int                `json:"grade"`
	Feedback string              `json:"feedback"`
}

type ProjectService struct {
	Tracker  *Tracker
	Projects ProjectStore
	Now      func() time.Time
}

func NewProjectService(tracker *Tracker, projects ProjectStore) *ProjectService {
	return &ProjectService{Tracker: tracker, Projects: projects, Now: time.Now}
}

func normalizeLinks(links []string) ([]string, error) {
	out := make([]string, 0, len(links))
	for _, l := range links {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		u, err := url.Parse(l)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("%w: %q is not an http(s) url", util.ErrLinksRequired, l)
		}
		out = append(out, l)
	}
	if len(out) == 0 {
		return nil, util.ErrLinksRequired
	}
	return out, nil
}

// Submit 首次提交创建第 1 次尝试；被驳回或要求重交后在原记录上递增尝试次数
func (s *ProjectService) Submit(ctx context.Context, userID string, internshipID uint, links []string) (*model.ProjectSubmission, error) {
	links, err := normalizeLinks(links)
	if err != nil {
		return nil, err
	}

	snap, err := s.Tracker.Load(ctx, userID, model.ScopeInternship, internshipID)
	if err != nil {
		return nil, err
	}
	if !progression.ProjectUnlocked(snap.State) {
		return nil, util.ErrProjectLocked
	}

	now := s.Now()
	existing, err := s.Projects.FindByOwner(ctx, userID, internshipID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		sub := &model.ProjectSubmission{
			UserID:       userID,
			InternshipID: internshipID,
			Attempt:      1,
			Links:        links,
			Status:       model.ProjectSubmitted,
			SubmittedAt:  now,
		}
		if err := s.Projects.Create(ctx, sub); err != nil {
			return nil, err
		}
		monitoring.ProjectSubmissions.WithLabelValues(string(model.ProjectSubmitted)).Inc()
		return sub, nil
	}

	switch {
	case existing.Status == model.ProjectApproved:
		return nil, util.ErrProjectAlreadyApproved
	case !existing.Status.CanResubmit():
		return nil, util.ErrSubmissionPending
	}

	existing.Attempt++
	existing.Links = links
	existing.Status = model.ProjectSubmitted
	existing.SubmittedAt = now
	if err := s.Projects.Save(ctx, existing); err != nil {
		return nil, err
	}
	monitoring.ProjectSubmissions.WithLabelValues(string(model.ProjectSubmitted)).Inc()
	logger.Log.Info("project resubmitted",
		zap.String("user", userID),
		zap.Uint("internshipID", internshipID),
		zap.Int("attempt", existing.Attempt),
	)
	return existing, nil
}

func (s *ProjectService) Mine(ctx context.Context, userID string, internshipID uint) (*model.ProjectSubmission, error) {
	if err := s.Tracker.Enrollment.Require(ctx, userID, model.ScopeInternship, internshipID); err != nil {
		return nil, err
	}
	sub, err := s.Projects.FindByOwner(ctx, userID, internshipID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, util.ErrSubmissionNotFound
	}
	return sub, nil
}

func (s *ProjectService) List(ctx context.Context, internshipID uint, status model.ProjectStatus) ([]model.ProjectSubmission, error) {
	return s.Projects.ListByInternship(ctx, internshipID, status)
}

// Review 只能审核待审核的提交
func (s *ProjectService) Review(ctx context.Context, reviewerID string, submissionID uint, req ReviewRequest) (*model.ProjectSubmission, error) {
	switch req.Status {
	case model.ProjectApproved, model.ProjectRejected, model.ProjectResubmitRequired:
	default:
		return nil, util.ErrInvalidReviewStatus
	}
	if req.Grade != nil && (*req.Grade < 0 || *req.Grade > 100) {
		return nil, fmt.Errorf("%w: grade must be between 0 and 100", util.ErrInvalidReviewStatus)
	}

	sub, err := s.Projects.FindByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if sub.Status != model.ProjectSubmitted {
		return nil, util.ErrAlreadyReviewed
	}

	now := s.Now()
	sub.Status = req.Status
	sub.Grade = req.Grade
	sub.Feedback = strings.TrimSpace(req.Feedback)
	sub.ReviewedBy = reviewerID
	sub.ReviewedAt = &now
	if err := s.Projects.Save(ctx, sub); err != nil {
		return nil, err
	}

	monitoring.ProjectSubmissions.WithLabelValues(string(req.Status)).Inc()
	logger.Log.Info("project reviewed",
		zap.Uint("submissionID", sub.ID),
		zap.String("reviewer", reviewerID),
		zap.String("status", string(req.Status)),
	)
	return sub, nil
}
