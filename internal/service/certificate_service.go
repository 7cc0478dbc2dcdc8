package service

import (
	"context"
	"fmt"
	"io"
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/util"
	"skillpath_backend/pkg/logger"
	"skillpath_backend/pkg/monitoring"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IssueRequest Image 为前端渲染好的证书图片，可为空
type IssueRequest struct {
	DisplayName string
	Confirm     bool
	Image       io.ReadSeeker
	ImageSize   int64
}

type CertificateVerification struct {
	VerificationCode string          `json:"verificationCode"`
	DisplayName      string          `json:"displayName"`
	ScopeKind        model.ScopeKind `json:"scopeKind"`
	ScopeID          uint            `json:"scopeId"`
	ScopeTitle       string          `json:"scopeTitle"`
	ImageURL         string          `json:"imageUrl"`
	IssuedAt         time.Time       `json:"issuedAt"`
}

type CertificateService struct {
	Tracker      *Tracker
	Certificates CertificateStore
	Quizzes      QuizStore
	Projects     ProjectStore
	Storage      StorageProvider
	Now          func() time.Time
	NewCode      func() string
}

func NewCertificateService(tracker *Tracker, certificates CertificateStore, quizzes QuizStore, projects ProjectStore, storage StorageProvider) *CertificateService {
	return &CertificateService{
		Tracker:      tracker,
		Certificates: certificates,
		Quizzes:      quizzes,
		Projects:     projects,
		Storage:      storage,
		Now:          time.Now,
		NewCode:      newVerificationCode,
	}
}

func newVerificationCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// Issue 每个 (用户, 容器) 只签发一次；已签发时拒绝且不修改原记录
func (s *CertificateService) Issue(ctx context.Context, userID string, kind model.ScopeKind, scopeID uint, req IssueRequest) (*model.Certificate, error) {
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		return nil, util.ErrDisplayNameRequired
	}
	if !req.Confirm {
		return nil, util.ErrConfirmationRequired
	}

	var contentType string
	if req.Image != nil {
		if req.ImageSize > util.MaxCertificateImageSize {
			return nil, util.ErrInvalidCertificateImage
		}
		mimeType, err := util.ValidateMimeType(req.Image, []string{util.MimePNG, util.MimeJPEG})
		if err != nil {
			return nil, util.ErrInvalidCertificateImage
		}
		if _, err := req.Image.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		contentType = mimeType
	}

	snap, err := s.Tracker.Load(ctx, userID, kind, scopeID)
	if err != nil {
		return nil, err
	}
	if snap.Certificate != nil {
		return nil, util.ErrCertificateExists
	}
	gate, err := gateStatus(ctx, snap, s.Quizzes, s.Projects)
	if err != nil {
		return nil, err
	}
	if !gate.CertificateEligible {
		return nil, util.ErrCertificateNotEligible
	}

	code := s.NewCode()
	cert := &model.Certificate{
		UserID:           userID,
		ScopeKind:        kind,
		ScopeID:          scopeID,
		DisplayName:      name,
		VerificationCode: code,
		IssuedAt:         s.Now(),
	}

	if req.Image != nil {
		key := fmt.Sprintf("certificates/%s/%d/%s%s", kind, scopeID, strings.ToLower(code), util.ExtensionFor(contentType))
		url, err := s.Storage.Upload(ctx, key, req.Image, req.ImageSize, contentType)
		if err != nil {
			return nil, fmt.Errorf("upload certificate image: %w", err)
		}
		cert.ImageURL = url
		cert.ImageKey = key
	}

	if err := s.Certificates.Create(ctx, cert); err != nil {
		// 写库失败时删除已上传的图片，避免孤立文件
		if cert.ImageKey != "" {
			if delErr := s.Storage.Delete(ctx, cert.ImageKey); delErr != nil {
				logger.Log.Error("failed to remove orphaned certificate image",
					zap.String("key", cert.ImageKey),
					zap.Error(delErr),
				)
			}
		}
		return nil, err
	}

	monitoring.CertificatesIssued.WithLabelValues(string(kind)).Inc()
	logger.Log.Info("certificate issued",
		zap.String("user", userID),
		zap.String("scope", string(kind)),
		zap.Uint("scopeID", scopeID),
		zap.String("code", code),
	)
	return cert, nil
}

func (s *CertificateService) Mine(ctx context.Context, userID string, kind model.ScopeKind, scopeID uint) (*model.Certificate, error) {
	cert, err := s.Certificates.FindByOwner(ctx, userID, kind, scopeID)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, util.ErrCertificateNotFound
	}
	return cert, nil
}

// Verify 公开校验证书编号
func (s *CertificateService) Verify(ctx context.Context, code string) (*CertificateVerification, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, util.ErrCertificateNotFound
	}
	cert, err := s.Certificates.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	v := &CertificateVerification{
		VerificationCode: cert.VerificationCode,
		DisplayName:      cert.DisplayName,
		ScopeKind:        cert.ScopeKind,
		ScopeID:          cert.ScopeID,
		ImageURL:         cert.ImageURL,
		IssuedAt:         cert.IssuedAt,
	}
	if outline, err := s.Tracker.Content.Outline(ctx, cert.ScopeKind, cert.ScopeID); err == nil {
		v.ScopeTitle = outline.Title
	}
	return v, nil
}
