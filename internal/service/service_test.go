package service

import (
	"context"
	"course_market_backend/internal/config"
	"course_market_backend/internal/model"
	"course_market_backend/internal/repository"
	"course_market_backend/internal/util"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db          *gorm.DB
	users       *repository.UserRepository
	courses     *repository.CourseRepository
	enrollments *repository.EnrollmentRepository
	progress    *repository.ProgressRepository
	notes       *repository.NoteRepository
	reconciler  *ReconcileService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(model.All()...))

	env := &testEnv{
		db:          db,
		users:       repository.NewUserRepository(db),
		courses:     repository.NewCourseRepository(db),
		enrollments: repository.NewEnrollmentRepository(db),
		progress:    repository.NewProgressRepository(db),
		notes:       repository.NewNoteRepository(db),
	}
	env.reconciler = NewReconcileService(env.courses, env.progress, env.enrollments, repository.NewReconcileRunRepository(nil), 2, time.Minute)
	return env
}

func TestCourseServiceRejectsLessonsAndSections(t *testing.T) {
	svc := NewCourseService(newTestEnv(t).courses)
	_, err := svc.CreateCourse(context.Background(), &model.Course{
		Title:    "Both",
		Lessons:  []model.Lesson{{Title: "l"}},
		Sections: []model.Section{{Title: "s"}},
	})
	assert.ErrorIs(t, err, util.ErrInvalidCourse)

	_, err = svc.CreateCourse(context.Background(), &model.Course{Title: "Bad level", Level: "expert"})
	assert.ErrorIs(t, err, util.ErrInvalidCourse)

	_, err = svc.CreateCourse(context.Background(), &model.Course{Title: "  "})
	assert.ErrorIs(t, err, util.ErrInvalidCourse)
}

func TestCourseServiceCreateSetsLayoutAndTotal(t *testing.T) {
	ctx := context.Background()
	svc := NewCourseService(newTestEnv(t).courses)

	created, err := svc.CreateCourse(ctx, &model.Course{
		Title: "Sectioned",
		Sections: []model.Section{
			{Title: "one", Subsections: []model.Subsection{{Title: "1.1", Content: []model.ContentItem{{Title: "a"}, {Title: "b", Type: model.ContentArticle}, {Title: "c"}}}}},
			{Title: "two", Subsections: []model.Subsection{{Title: "2.1", Content: []model.ContentItem{{Title: "d", Type: model.ContentAssignment}, {Title: "e"}}}}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.LayoutSectioned, created.Layout)
	assert.Equal(t, model.Beginner, created.Level)
	assert.Equal(t, 5, created.TotalLessons)

	got, err := svc.GetCourse(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.TotalLessons)
	assert.Equal(t, created.ID, got.Sections[0].Subsections[0].Content[0].CourseID)

	list, err := svc.ListCourses(ctx, repository.CourseFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 5, list[0].TotalLessons)

	require.NoError(t, svc.DeleteCourse(ctx, created.ID))
	_, err = svc.GetCourse(ctx, created.ID)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestEnrollmentServiceFreeCourseIsPaid(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	courses := NewCourseService(env.courses)
	svc := NewEnrollmentService(env.enrollments, env.courses, env.reconciler)

	free, err := courses.CreateCourse(ctx, &model.Course{Title: "Free", Lessons: []model.Lesson{{Title: "l1"}}})
	require.NoError(t, err)
	priced, err := courses.CreateCourse(ctx, &model.Course{Title: "Priced", Price: 4900})
	require.NoError(t, err)

	e, created, err := svc.Enroll(ctx, 1, free.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, model.EnrollmentPaid, e.Status)
	assert.NotNil(t, e.PaidAt)

	again, created, err := svc.Enroll(ctx, 1, free.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, e.ID, again.ID)

	pending, _, err := svc.Enroll(ctx, 1, priced.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentPending, pending.Status)

	_, _, err = svc.Enroll(ctx, 1, 9999)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)

	course, err := courses.GetCourse(ctx, free.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, course.StudentsEnrolled)

	mine, err := svc.ListForUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestEnrollmentServiceUpdateStatus(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	courses := NewCourseService(env.courses)
	svc := NewEnrollmentService(env.enrollments, env.courses, env.reconciler)

	course, err := courses.CreateCourse(ctx, &model.Course{Title: "Priced", Price: 100, Lessons: []model.Lesson{{Title: "a"}, {Title: "b"}}})
	require.NoError(t, err)
	e, _, err := svc.Enroll(ctx, 2, course.ID)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, e.ID, "shipped")
	assert.ErrorIs(t, err, util.ErrInvalidStatus)

	updated, err := svc.UpdateStatus(ctx, e.ID, model.EnrollmentPaid)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentPaid, updated.Status)
	assert.Equal(t, 0, updated.CompletionPercentage)

	_, err = svc.UpdateStatus(ctx, 9999, model.EnrollmentPaid)
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
}

func TestProgressServiceRecordsAndReconciles(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	courses := NewCourseService(env.courses)
	enrollments := NewEnrollmentService(env.enrollments, env.courses, env.reconciler)
	svc := NewProgressService(env.progress, env.courses, env.enrollments, env.reconciler)

	course, err := courses.CreateCourse(ctx, &model.Course{Title: "Flat", Lessons: []model.Lesson{{Title: "a"}, {Title: "b"}, {Title: "c"}}})
	require.NoError(t, err)
	_, _, err = enrollments.Enroll(ctx, 7, course.ID)
	require.NoError(t, err)

	lessons := course.Lessons
	summary, err := svc.RecordProgress(ctx, 7, course.ID, lessons[0].ID, ProgressUpdate{Completed: true, WatchedSeconds: 120})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Completed)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 33, summary.CompletionPercentage)

	summary, err = svc.RecordProgress(ctx, 7, course.ID, lessons[1].ID, ProgressUpdate{Completed: true})
	require.NoError(t, err)
	assert.Equal(t, 67, summary.CompletionPercentage)

	stored, err := env.enrollments.FindByUserAndCourse(ctx, 7, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 67, stored.CompletionPercentage)

	got, err := svc.GetProgress(ctx, 7, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Completed)
	assert.Len(t, got.Units, 2)

	_, err = svc.RecordProgress(ctx, 7, course.ID, "not-a-unit", ProgressUpdate{Completed: true})
	assert.ErrorIs(t, err, util.ErrUnitNotInCourse)

	_, err = svc.RecordProgress(ctx, 8, course.ID, lessons[0].ID, ProgressUpdate{Completed: true})
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestAuthServiceRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour
	svc := NewAuthService(newTestEnv(t).users, cfg)

	user := &model.User{Name: "Kim", Email: " Kim@Example.com ", Password: "s3cret!", Role: model.Admin}
	require.NoError(t, svc.Register(ctx, user))
	assert.Equal(t, model.Student, user.Role)
	assert.NotEqual(t, "s3cret!", user.Password)

	err := svc.Register(ctx, &model.User{Name: "Kim", Email: "kim@example.com", Password: "x"})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)

	token, logged, err := svc.Login(ctx, "kim@example.com", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	claims, err := util.ParseJWT(token, cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, _, err = svc.Login(ctx, "kim@example.com", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody@example.com", "x")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestNoteServiceWithLocalStorage(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	dir := t.TempDir()
	storage := &StorageService{Provider: &LocalStorageProvider{Config: &config.StorageConfig{LocalPath: dir}}}
	svc := NewNoteService(env.notes, storage)

	_, err := svc.CreateNote(ctx, &model.Note{Title: "empty"}, nil, 1)
	assert.ErrorIs(t, err, util.ErrInvalidNote)
	_, err = svc.CreateNote(ctx, &model.Note{Title: "pdf", FileType: model.NotePDF}, nil, 1)
	assert.ErrorIs(t, err, util.ErrInvalidNote)

	note, err := svc.CreateNote(ctx, &model.Note{Title: "Slides", FileType: model.NotePDF}, &NoteFile{
		Name:   "week1.PDF",
		Size:   4,
		Reader: strings.NewReader("%PDF"),
	}, 1)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(note.FileKey, util.NoteFilePrefix))
	assert.True(t, strings.HasSuffix(note.FileKey, ".pdf"))
	assert.Equal(t, "/uploads/"+note.FileKey, note.FileURL)
	assert.Equal(t, uint(1), note.UploadedBy)

	stored := filepath.Join(dir, filepath.FromSlash(note.FileKey))
	_, err = os.Stat(stored)
	require.NoError(t, err)

	md, err := svc.CreateNote(ctx, &model.Note{Title: "Summary", MarkdownContent: "# hi"}, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, model.NoteMarkdown, md.FileType)

	require.NoError(t, svc.DeleteNote(ctx, note.ID))
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))

	_, err = svc.GetNote(ctx, note.ID)
	assert.ErrorIs(t, err, util.ErrNoteNotFound)
	assert.ErrorIs(t, svc.DeleteNote(ctx, note.ID), util.ErrNoteNotFound)
}
