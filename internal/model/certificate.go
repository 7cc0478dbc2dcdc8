package model

import (
	"time"
)

// Certificate 每个 (用户, 容器) 至多一张，签发后不可覆盖
// swagger:model Certificate
type Certificate struct {
	BaseModel
	UserID           string    `gorm:"size:64;not null;uniqueIndex:idx_cert_owner" json:"userId"`
	ScopeKind        ScopeKind `gorm:"size:16;not null;uniqueIndex:idx_cert_owner" json:"scopeKind"`
	ScopeID          uint      `gorm:"not null;uniqueIndex:idx_cert_owner" json:"scopeId"`
	DisplayName      string    `gorm:"size:255;not null" json:"displayName"`
	ImageURL         string    `gorm:"size:512" json:"imageUrl"`
	ImageKey         string    `gorm:"size:255" json:"-"`
	VerificationCode string    `gorm:"size:32;uniqueIndex;not null" json:"verificationCode"`
	IssuedAt         time.Time `json:"issuedAt"`
}

func (Certificate) TableName() string {
	return "certificates"
}
