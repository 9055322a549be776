package model

import "time"

type EnrollmentStatus string

const (
	EnrollmentPending   EnrollmentStatus = "pending"
	EnrollmentPaid      EnrollmentStatus = "paid"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
	EnrollmentRefunded  EnrollmentStatus = "refunded"
)

func ValidEnrollmentStatus(s EnrollmentStatus) bool {
	switch s {
	case EnrollmentPending, EnrollmentPaid, EnrollmentCancelled, EnrollmentRefunded:
		return true
	}
	return false
}

// Enrollment is a learner's purchase of a course. CompletionPercentage is a
// cached value derived from the course content and the learner's progress.
type Enrollment struct {
	BaseModel
	UserID               uint             `gorm:"index:idx_enrollment_user_course;not null" json:"userId"`
	CourseID             uint             `gorm:"index:idx_enrollment_user_course;not null" json:"courseId"`
	Status               EnrollmentStatus `gorm:"size:20;index;default:'pending'" json:"status"`
	CompletionPercentage int              `gorm:"default:0" json:"completionPercentage"`
	AmountPaid           int              `gorm:"default:0" json:"amountPaid"`
	PaidAt               *time.Time       `json:"paidAt,omitempty"`
	Course               *Course          `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
