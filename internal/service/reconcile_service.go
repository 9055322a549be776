package service

import (
	"context"
	"course_market_backend/internal/model"
	"course_market_backend/internal/util"
	"course_market_backend/pkg/logger"
	"course_market_backend/pkg/monitoring"
	"course_market_backend/pkg/tracing"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type CourseFinder interface {
	FindCourseByID(ctx context.Context, id uint) (*model.Course, error)
}

type ProgressFinder interface {
	FindProgress(ctx context.Context, userID, courseID uint) ([]model.VideoProgress, error)
}

type EnrollmentStore interface {
	FindEnrollments(ctx context.Context, status model.EnrollmentStatus) ([]model.Enrollment, error)
	UpdateCompletionPercentage(ctx context.Context, id uint, value int) error
}

// RunCoordinator serializes batch runs and keeps the last report.
type RunCoordinator interface {
	TryLock(ctx context.Context, owner string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, owner string) error
	SaveLastReport(ctx context.Context, data []byte) error
	LoadLastReport(ctx context.Context) ([]byte, error)
}

type ReconcileOutcome string

const (
	OutcomeUpdated   ReconcileOutcome = "updated"
	OutcomeUnchanged ReconcileOutcome = "unchanged"
	OutcomeSkipped   ReconcileOutcome = "skipped"
)

// ReconcileResult describes what happened to one enrollment. Anomalous is set
// when the learner has more completed units than the course has, which yields
// a percentage above 100.
type ReconcileResult struct {
	EnrollmentID uint             `json:"enrollmentId" yaml:"enrollmentId"`
	UserID       uint             `json:"userId" yaml:"userId"`
	CourseID     uint             `json:"courseId" yaml:"courseId"`
	Outcome      ReconcileOutcome `json:"outcome" yaml:"outcome"`
	Anomalous    bool             `json:"anomalous,omitempty" yaml:"anomalous,omitempty"`
	Completed    int              `json:"completed" yaml:"completed"`
	Total        int              `json:"total" yaml:"total"`
	Previous     int              `json:"previousPercentage" yaml:"previousPercentage"`
	Percentage   int              `json:"percentage" yaml:"percentage"`
	Reason       string           `json:"reason,omitempty" yaml:"reason,omitempty"`
}

func (r ReconcileResult) Updated() bool {
	return r.Outcome == OutcomeUpdated
}

type ReconcileReport struct {
	StartedAt  time.Time         `json:"startedAt" yaml:"startedAt"`
	FinishedAt time.Time         `json:"finishedAt" yaml:"finishedAt"`
	Examined   int               `json:"examined" yaml:"examined"`
	Updated    int               `json:"updated" yaml:"updated"`
	Unchanged  int               `json:"unchanged" yaml:"unchanged"`
	Skipped    int               `json:"skipped" yaml:"skipped"`
	Anomalous  int               `json:"anomalous" yaml:"anomalous"`
	Updates    []ReconcileResult `json:"updates" yaml:"updates"`
	Skips      []ReconcileResult `json:"skips" yaml:"skips"`
}

// CompletionPercentage rounds completed/total*100 half up. A course without
// units is 0% complete. The result is not clamped.
func CompletionPercentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*completed + total) / (2 * total)
}

// CompletedCount counts the completed rows of one learner's course progress.
func CompletedCount(rows []model.VideoProgress) int {
	n := 0
	for _, row := range rows {
		if row.Completed {
			n++
		}
	}
	return n
}

type ReconcileService struct {
	Courses     CourseFinder
	Progress    ProgressFinder
	Enrollments EnrollmentStore
	Runs        RunCoordinator
	LockTTL     time.Duration

	workers atomic.Int32
}

func NewReconcileService(courses CourseFinder, progress ProgressFinder, enrollments EnrollmentStore, runs RunCoordinator, workers int, lockTTL time.Duration) *ReconcileService {
	s := &ReconcileService{
		Courses:     courses,
		Progress:    progress,
		Enrollments: enrollments,
		Runs:        runs,
		LockTTL:     lockTTL,
	}
	s.SetWorkers(workers)
	return s
}

// SetWorkers changes the parallelism of subsequent batch runs.
func (s *ReconcileService) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	s.workers.Store(int32(n))
}

func (s *ReconcileService) Workers() int {
	return int(s.workers.Load())
}

// Reconcile recomputes the completion percentage of e and writes it only when
// it differs from the stored value. A missing course yields a skipped result
// and an error wrapping util.ErrMissingDependency.
func (s *ReconcileService) Reconcile(ctx context.Context, e model.Enrollment) (ReconcileResult, error) {
	ctx, span := tracing.Tracer().Start(ctx, "reconcile.enrollment")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("enrollment.id", int64(e.ID)),
		attribute.Int64("course.id", int64(e.CourseID)),
	)

	result := ReconcileResult{
		EnrollmentID: e.ID,
		UserID:       e.UserID,
		CourseID:     e.CourseID,
		Previous:     e.CompletionPercentage,
		Percentage:   e.CompletionPercentage,
	}

	skip := func(err error) (ReconcileResult, error) {
		result.Outcome = OutcomeSkipped
		result.Reason = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}

	course, err := s.Courses.FindCourseByID(ctx, e.CourseID)
	if errors.Is(err, util.ErrCourseNotFound) || (err == nil && course == nil) {
		return skip(fmt.Errorf("%w: course %d", util.ErrMissingDependency, e.CourseID))
	}
	if err != nil {
		return skip(fmt.Errorf("load course %d: %w", e.CourseID, err))
	}

	rows, err := s.Progress.FindProgress(ctx, e.UserID, e.CourseID)
	if err != nil {
		return skip(fmt.Errorf("load progress: %w", err))
	}

	result.Total = model.CountLearnableUnits(course.Content())
	result.Completed = CompletedCount(rows)
	result.Percentage = CompletionPercentage(result.Completed, result.Total)
	result.Anomalous = result.Completed > result.Total

	if result.Anomalous {
		logger.Log.Warn("Completed units exceed course total",
			zap.Uint("enrollment_id", e.ID),
			zap.Uint("course_id", e.CourseID),
			zap.Int("completed", result.Completed),
			zap.Int("total", result.Total),
		)
	}

	if result.Percentage == e.CompletionPercentage {
		result.Outcome = OutcomeUnchanged
		return result, nil
	}

	if err := s.Enrollments.UpdateCompletionPercentage(ctx, e.ID, result.Percentage); err != nil {
		result.Percentage = e.CompletionPercentage
		return skip(fmt.Errorf("write completion percentage: %w", err))
	}
	result.Outcome = OutcomeUpdated
	span.SetAttributes(attribute.Int("completion.percentage", result.Percentage))
	return result, nil
}

// RunAll reconciles every paid enrollment. Per-enrollment failures become
// skips; only a failure to list enrollments aborts the run.
func (s *ReconcileService) RunAll(ctx context.Context) (*ReconcileReport, error) {
	ctx, span := tracing.Tracer().Start(ctx, "reconcile.run")
	defer span.End()

	owner := uuid.NewString()
	if s.Runs != nil {
		ok, err := s.Runs.TryLock(ctx, owner, s.LockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire reconcile lock: %w", err)
		}
		if !ok {
			return nil, util.ErrReconcileInProgress
		}
		defer func() {
			if err := s.Runs.Unlock(context.WithoutCancel(ctx), owner); err != nil {
				logger.Log.Warn("Failed to release reconcile lock", zap.Error(err))
			}
		}()
	}

	report := &ReconcileReport{StartedAt: time.Now()}

	enrollments, err := s.Enrollments.FindEnrollments(ctx, model.EnrollmentPaid)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list enrollments")
		return nil, fmt.Errorf("%w: list paid enrollments: %v", util.ErrStoreUnavailable, err)
	}

	results := make([]ReconcileResult, len(enrollments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Workers())
	for i := range enrollments {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.Reconcile(gctx, enrollments[i])
			if err != nil {
				logger.Log.Warn("Skipping enrollment",
					zap.Uint("enrollment_id", enrollments[i].ID),
					zap.Error(err),
				)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(a, b int) bool { return results[a].EnrollmentID < results[b].EnrollmentID })
	for _, res := range results {
		report.Examined++
		monitoring.ReconcileOutcomes.WithLabelValues(string(res.Outcome)).Inc()
		if res.Anomalous {
			report.Anomalous++
			monitoring.ReconcileAnomalies.Inc()
		}
		switch res.Outcome {
		case OutcomeUpdated:
			report.Updated++
			report.Updates = append(report.Updates, res)
		case OutcomeUnchanged:
			report.Unchanged++
		case OutcomeSkipped:
			report.Skipped++
			report.Skips = append(report.Skips, res)
		}
	}
	report.FinishedAt = time.Now()
	monitoring.ReconcileRunDuration.Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())

	span.SetAttributes(
		attribute.Int("reconcile.examined", report.Examined),
		attribute.Int("reconcile.updated", report.Updated),
		attribute.Int("reconcile.skipped", report.Skipped),
	)
	logger.Log.Info("Reconciliation finished",
		zap.Int("examined", report.Examined),
		zap.Int("updated", report.Updated),
		zap.Int("unchanged", report.Unchanged),
		zap.Int("skipped", report.Skipped),
		zap.Int("anomalous", report.Anomalous),
		zap.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
	)

	if s.Runs != nil {
		if data, err := json.Marshal(report); err == nil {
			if err := s.Runs.SaveLastReport(ctx, data); err != nil {
				logger.Log.Warn("Failed to cache reconcile report", zap.Error(err))
			}
		}
	}
	return report, nil
}

// LastReport returns the report of the most recent run, or nil if none is
// cached.
func (s *ReconcileService) LastReport(ctx context.Context) (*ReconcileReport, error) {
	if s.Runs == nil {
		return nil, nil
	}
	data, err := s.Runs.LoadLastReport(ctx)
	if err != nil || data == nil {
		return nil, err
	}
	var report ReconcileReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// FormatReport writes the report in the form printed by the maintenance command.
func FormatReport(w io.Writer, r *ReconcileReport) {
	fmt.Fprintf(w, "Examined: %d\n", r.Examined)
	fmt.Fprintf(w, "Updated: %d\n", r.Updated)
	fmt.Fprintf(w, "Unchanged: %d\n", r.Unchanged)
	fmt.Fprintf(w, "Skipped: %d\n", r.Skipped)
	if r.Anomalous > 0 {
		fmt.Fprintf(w, "Anomalous: %d\n", r.Anomalous)
	}
	for _, u := range r.Updates {
		line := fmt.Sprintf("  enrollment %d (user %d, course %d): %d/%d lessons, %d%% -> %d%%",
			u.EnrollmentID, u.UserID, u.CourseID, u.Completed, u.Total, u.Previous, u.Percentage)
		if u.Anomalous {
			line += " [anomalous]"
		}
		fmt.Fprintln(w, line)
	}
	for _, sk := range r.Skips {
		fmt.Fprintf(w, "  skipped enrollment %d (course %d): %s\n", sk.EnrollmentID, sk.CourseID, sk.Reason)
	}
}
