package model

import (
	"time"
)

type ProjectStatus string

const (
	ProjectSubmitted        ProjectStatus = "submitted"
	ProjectApproved         ProjectStatus = "approved"
	ProjectRejected         ProjectStatus = "rejected"
	ProjectResubmitRequired ProjectStatus = "resubmit_required"
)

// CanResubmit 被驳回或要求重交时允许再次提交
func (s ProjectStatus) CanResubmit() bool {
	return s == ProjectRejected || s == ProjectResubmitRequired
}

// ProjectSubmission 实习项目提交，重交时在原记录上递增 Attempt
// swagger:model ProjectSubmission
type ProjectSubmission struct {
	BaseModel
	UserID       string        `gorm:"size:64;not null;uniqueIndex:idx_project_owner" json:"userId"`
	InternshipID uint          `gorm:"not null;uniqueIndex:idx_project_owner" json:"internshipId"`
	Attempt      int           `gorm:"default:1" json:"attempt"`
	Links        []string      `gorm:"serializer:json;type:text" json:"links"`
	Status       ProjectStatus `gorm:"size:24;not null;index" json:"status"`
	Grade        *int          `json:"grade,omitempty"`
	Feedback     string        `gorm:"type:text" json:"feedback,omitempty"`
	ReviewedBy   string        `gorm:"size:64" json:"reviewedBy,omitempty"`
	ReviewedAt   *time.Time    `json:"reviewedAt,omitempty"`
	SubmittedAt  time.Time     `json:"submittedAt"`
}

func (ProjectSubmission) TableName() string {
	return "project_submissions"
}
