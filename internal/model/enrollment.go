package model

type EnrollmentSource string

const (
	EnrollFree  EnrollmentSource = "free"
	EnrollGrant EnrollmentSource = "grant"
)

// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	UserID    string           `gorm:"size:64;not null;uniqueIndex:idx_enrollment" json:"userId"`
	ScopeKind ScopeKind        `gorm:"size:16;not null;uniqueIndex:idx_enrollment" json:"scopeKind"`
	ScopeID   uint             `gorm:"not null;uniqueIndex:idx_enrollment" json:"scopeId"`
	Source    EnrollmentSource `gorm:"size:16" json:"source"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
