package model

import "time"

// VideoProgress records whether a learner finished one learnable unit of a
// course. Rows are unique per (user, course, unit).
type VideoProgress struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint       `gorm:"uniqueIndex:idx_progress_user_course_unit;not null" json:"userId"`
	CourseID       uint       `gorm:"uniqueIndex:idx_progress_user_course_unit;not null" json:"courseId"`
	UnitID         string     `gorm:"uniqueIndex:idx_progress_user_course_unit;type:varchar(36);not null" json:"unitId"`
	Completed      bool       `gorm:"default:false" json:"completed"`
	WatchedSeconds int        `gorm:"default:0" json:"watchedSeconds"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (VideoProgress) TableName() string {
	return "video_progress"
}
