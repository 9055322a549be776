package service

import (
	"context"
	"course_market_backend/internal/model"
	"course_market_backend/internal/repository"
	"course_market_backend/internal/util"
	"errors"
)

type ProgressService struct {
	ProgressRepo   *repository.ProgressRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Reconciler     *ReconcileService
}

func NewProgressService(progressRepo *repository.ProgressRepository, courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository, reconciler *ReconcileService) *ProgressService {
	return &ProgressService{
		ProgressRepo:   progressRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		Reconciler:     reconciler,
	}
}

type ProgressUpdate struct {
	Completed      bool `json:"completed"`
	WatchedSeconds int  `json:"watchedSeconds" binding:"min=0"`
}

type ProgressSummary struct {
	CourseID             uint                  `json:"courseId"`
	Completed            int                   `json:"completed"`
	Total                int                   `json:"total"`
	CompletionPercentage int                   `json:"completionPercentage"`
	Units                []model.VideoProgress `json:"units"`
}

// paidEnrollment returns the learner's paid enrollment in the course.
func (s *ProgressService) paidEnrollment(ctx context.Context, userID, courseID uint) (*model.Enrollment, error) {
	e, err := s.EnrollmentRepo.FindByUserAndCourse(ctx, userID, courseID)
	if errors.Is(err, util.ErrEnrollmentNotFound) {
		return nil, util.ErrNotEnrolled
	}
	if err != nil {
		return nil, err
	}
	if e.Status != model.EnrollmentPaid {
		return nil, util.ErrNotEnrolled
	}
	return e, nil
}

// RecordProgress stores the learner's progress on one unit and reconciles the
// enrollment right away.
func (s *ProgressService) RecordProgress(ctx context.Context, userID, courseID uint, unitID string, update ProgressUpdate) (*ProgressSummary, error) {
	course, err := s.CourseRepo.FindCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !model.HasUnit(course.Content(), unitID) {
		return nil, util.ErrUnitNotInCourse
	}
	enrollment, err := s.paidEnrollment(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	if err := s.ProgressRepo.Upsert(ctx, &model.VideoProgress{
		UserID:         userID,
		CourseID:       courseID,
		UnitID:         unitID,
		Completed:      update.Completed,
		WatchedSeconds: update.WatchedSeconds,
	}); err != nil {
		return nil, err
	}

	res, err := s.Reconciler.Reconcile(ctx, *enrollment)
	if err != nil {
		return nil, err
	}

	rows, err := s.ProgressRepo.FindProgress(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	return &ProgressSummary{
		CourseID:             courseID,
		Completed:            res.Completed,
		Total:                res.Total,
		CompletionPercentage: res.Percentage,
		Units:                rows,
	}, nil
}

func (s *ProgressService) GetProgress(ctx context.Context, userID, courseID uint) (*ProgressSummary, error) {
	course, err := s.CourseRepo.FindCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	enrollment, err := s.paidEnrollment(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	rows, err := s.ProgressRepo.FindProgress(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	return &ProgressSummary{
		CourseID:             courseID,
		Completed:            CompletedCount(rows),
		Total:                model.CountLearnableUnits(course.Content()),
		CompletionPercentage: enrollment.CompletionPercentage,
		Units:                rows,
	}, nil
}
