package repository

import (
	"context"
	"course_market_backend/internal/model"
	"course_market_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	return r.DB.WithContext(ctx).Create(e).Error
}

func (r *EnrollmentRepository) FindByID(ctx context.Context, id uint) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.WithContext(ctx).First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrEnrollmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// FindByUserAndCourse prefers a paid enrollment when several exist.
func (r *EnrollmentRepository) FindByUserAndCourse(ctx context.Context, userID, courseID uint) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                "CASE WHEN status = ? THEN 0 ELSE 1 END",
			Vars:               []interface{}{model.EnrollmentPaid},
			WithoutParentheses: true,
		}}).
		Order("id").
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrEnrollmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EnrollmentRepository) FindByUser(ctx context.Context, userID uint) ([]model.Enrollment, error) {
	var list []model.Enrollment
	err := r.DB.WithContext(ctx).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// FindEnrollments returns all enrollments in status, oldest first.
func (r *EnrollmentRepository) FindEnrollments(ctx context.Context, status model.EnrollmentStatus) ([]model.Enrollment, error) {
	var list []model.Enrollment
	err := r.DB.WithContext(ctx).
		Where("status = ?", status).
		Order("id").
		Find(&list).Error
	return list, err
}

// UpdateCompletionPercentage writes only the completion_percentage column.
func (r *EnrollmentRepository) UpdateCompletionPercentage(ctx context.Context, id uint, value int) error {
	res := r.DB.WithContext(ctx).Model(&model.Enrollment{}).
		Where("id = ?", id).
		UpdateColumn("completion_percentage", value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	// Some drivers count changed rows only; an unchanged value is not a miss.
	var count int64
	if err := r.DB.WithContext(ctx).Model(&model.Enrollment{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return util.ErrEnrollmentNotFound
	}
	return nil
}

func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id uint, status model.EnrollmentStatus) error {
	updates := map[string]interface{}{"status": status}
	if status == model.EnrollmentPaid {
		updates["paid_at"] = time.Now()
	}
	res := r.DB.WithContext(ctx).Model(&model.Enrollment{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrEnrollmentNotFound
	}
	return nil
}
