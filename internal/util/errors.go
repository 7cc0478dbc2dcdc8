package util

import "errors"

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotEnrolled      = errors.New("not enrolled")
	ErrNotFree          = errors.New("course is not free, enrollment requires purchase")

	ErrCourseNotFound     = errors.New("course not found")
	ErrInternshipNotFound = errors.New("internship not found")
	ErrUnitNotFound       = errors.New("unit not found")
	ErrSectionNotFound    = errors.New("section not found")
	ErrUnitLocked         = errors.New("unit is locked")

	ErrNoQuestions     = errors.New("no questions configured")
	ErrUnsupportedQuiz = errors.New("unsupported quiz type for this scope")
	ErrExamLocked      = errors.New("exam is locked until all units are complete")
	ErrQuizLocked      = errors.New("section quiz is locked until the section is complete")
	ErrEmptyAnswers    = errors.New("answers are required")
	ErrInvalidAnswer   = errors.New("invalid answer value")

	ErrCertificateExists       = errors.New("certificate already generated, cannot overwrite")
	ErrCertificateNotEligible  = errors.New("certificate requirements not met")
	ErrCertificateNotFound     = errors.New("certificate not found")
	ErrDisplayNameRequired     = errors.New("display name is required")
	ErrConfirmationRequired    = errors.New("explicit confirmation is required")
	ErrInvalidCertificateImage = errors.New("certificate image must be png or jpeg")

	ErrProjectLocked          = errors.New("project submission is locked until all tabs are complete")
	ErrSubmissionPending      = errors.New("submission is awaiting review")
	ErrProjectAlreadyApproved = errors.New("project already approved")
	ErrSubmissionNotFound     = errors.New("submission not found")
	ErrLinksRequired          = errors.New("at least one link is required")
	ErrInvalidReviewStatus    = errors.New("invalid review status")
	ErrAlreadyReviewed        = errors.New("submission already reviewed")

	ErrInvalidImport = errors.New("invalid import document")
)
