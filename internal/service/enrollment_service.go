package service

import (
	"context"
	"course_market_backend/internal/model"
	"course_market_backend/internal/repository"
	"course_market_backend/internal/util"
	"course_market_backend/pkg/logger"
	"errors"
	"time"

	"go.uber.org/zap"
)

type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	Reconciler     *ReconcileService
}

func NewEnrollmentService(enrollmentRepo *repository.EnrollmentRepository, courseRepo *repository.CourseRepository, reconciler *ReconcileService) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		Reconciler:     reconciler,
	}
}

// Enroll creates an enrollment for the learner. Free courses are paid
// immediately. An existing pending or paid enrollment is returned unchanged
// with created false.
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID uint) (*model.Enrollment, bool, error) {
	course, err := s.CourseRepo.FindCourseByID(ctx, courseID)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.EnrollmentRepo.FindByUserAndCourse(ctx, userID, courseID)
	if err == nil && (existing.Status == model.EnrollmentPaid || existing.Status == model.EnrollmentPending) {
		return existing, false, nil
	}
	if err != nil && !errors.Is(err, util.ErrEnrollmentNotFound) {
		return nil, false, err
	}

	enrollment := &model.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Status:   model.EnrollmentPending,
	}
	if course.Price == 0 {
		now := time.Now()
		enrollment.Status = model.EnrollmentPaid
		enrollment.PaidAt = &now
	}
	if err := s.EnrollmentRepo.Create(ctx, enrollment); err != nil {
		return nil, false, err
	}
	if enrollment.Status == model.EnrollmentPaid {
		s.onPaid(ctx, enrollment)
	}
	return enrollment, true, nil
}

func (s *EnrollmentService) ListForUser(ctx context.Context, userID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.FindByUser(ctx, userID)
}

// UpdateStatus is used by the payment flow. Becoming paid counts the learner
// as a student and brings the cached percentage up to date.
func (s *EnrollmentService) UpdateStatus(ctx context.Context, id uint, status model.EnrollmentStatus) (*model.Enrollment, error) {
	if !model.ValidEnrollmentStatus(status) {
		return nil, util.ErrInvalidStatus
	}
	current, err := s.EnrollmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == status {
		return current, nil
	}
	if err := s.EnrollmentRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	updated, err := s.EnrollmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if status == model.EnrollmentPaid {
		s.onPaid(ctx, updated)
	}
	return updated, nil
}

func (s *EnrollmentService) onPaid(ctx context.Context, e *model.Enrollment) {
	if err := s.CourseRepo.IncrementStudents(ctx, e.CourseID); err != nil {
		logger.Log.Warn("Failed to update student count", zap.Uint("course_id", e.CourseID), zap.Error(err))
	}
	if s.Reconciler == nil {
		return
	}
	res, err := s.Reconciler.Reconcile(ctx, *e)
	if err != nil {
		logger.Log.Warn("Reconcile after payment failed", zap.Uint("enrollment_id", e.ID), zap.Error(err))
		return
	}
	e.CompletionPercentage = res.Percentage
}
