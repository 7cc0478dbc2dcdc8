package repository

import (
	"context"
	"errors"
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/util"

	"gorm.io/gorm"
)

type CertificateRepository struct {
	DB *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: db}
}

// FindByOwner 无证书时返回 nil, nil
func (r *CertificateRepository) FindByOwner(ctx context.Context, userID string, kind model.ScopeKind, scopeID uint) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND scope_kind = ? AND scope_id = ?", userID, kind, scopeID).
		First(&cert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *CertificateRepository) FindByCode(ctx context.Context, code string) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.WithContext(ctx).Where("verification_code = ?", code).First(&cert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCertificateNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

// Create 唯一索引冲突说明证书已存在
func (r *CertificateRepository) Create(ctx context.Context, cert *model.Certificate) error {
	err := r.DB.WithContext(ctx).Create(cert).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrCertificateExists
	}
	return err
}
