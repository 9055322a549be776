package repository

import (
	"context"
	"course_market_backend/internal/model"
	"errors"
	"time"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// Upsert records progress for (user, course, unit). WatchedSeconds never goes
// down. CompletedAt keeps the first completion time and is cleared on reset.
func (r *ProgressRepository) Upsert(ctx context.Context, row *model.VideoProgress) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.VideoProgress
		err := tx.Where("user_id = ? AND course_id = ? AND unit_id = ?", row.UserID, row.CourseID, row.UnitID).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if row.Completed {
				now := time.Now()
				row.CompletedAt = &now
			}
			return tx.Create(row).Error
		}
		if err != nil {
			return err
		}

		if existing.WatchedSeconds > row.WatchedSeconds {
			row.WatchedSeconds = existing.WatchedSeconds
		}
		switch {
		case !row.Completed:
			row.CompletedAt = nil
		case existing.CompletedAt != nil:
			row.CompletedAt = existing.CompletedAt
		default:
			now := time.Now()
			row.CompletedAt = &now
		}
		row.ID = existing.ID
		row.CreatedAt = existing.CreatedAt

		return tx.Model(&existing).Updates(map[string]interface{}{
			"completed":       row.Completed,
			"watched_seconds": row.WatchedSeconds,
			"completed_at":    row.CompletedAt,
		}).Error
	})
}

// FindProgress returns every progress row of the learner for exactly this course.
func (r *ProgressRepository) FindProgress(ctx context.Context, userID, courseID uint) ([]model.VideoProgress, error) {
	var rows []model.VideoProgress
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("id").
		Find(&rows).Error
	return rows, err
}

func (r *ProgressRepository) CountCompleted(ctx context.Context, userID, courseID uint) (int, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.VideoProgress{}).
		Where("user_id = ? AND course_id = ? AND completed = ?", userID, courseID, true).
		Count(&count).Error
	return int(count), err
}
