package repository

import (
	"context"
	"course_market_backend/internal/model"
	"course_market_backend/internal/util"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func sectionedCourse() *model.Course {
	return &model.Course{
		Title:  "Go in depth",
		Layout: model.LayoutSectioned,
		Sections: []model.Section{
			{Title: "B", Order: 2, Subsections: []model.Subsection{
				{Title: "B.1", Content: []model.ContentItem{{Title: "d"}, {Title: "e", Type: model.ContentQuiz}}},
			}},
			{Title: "A", Order: 1, Subsections: []model.Subsection{
				{Title: "A.1", Content: []model.ContentItem{{Title: "a"}, {Title: "b"}, {Title: "c", Type: model.ContentArticle}}},
			}},
		},
	}
}

func TestCourseRepositoryLoadsSectionedTree(t *testing.T) {
	ctx := context.Background()
	repo := NewCourseRepository(newTestDB(t))

	course := sectionedCourse()
	require.NoError(t, repo.Create(ctx, course))

	got, err := repo.FindCourseByID(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, got.Sections, 2)
	assert.Equal(t, "A", got.Sections[0].Title)
	assert.Equal(t, 5, model.CountLearnableUnits(got.Content()))
	assert.Empty(t, got.Lessons)
}

func TestCourseRepositoryLoadsFlatLessons(t *testing.T) {
	ctx := context.Background()
	repo := NewCourseRepository(newTestDB(t))

	course := &model.Course{Title: "Intro", Category: "web", Lessons: []model.Lesson{
		{Title: "two", Order: 2}, {Title: "one", Order: 1},
	}}
	require.NoError(t, repo.Create(ctx, course))

	got, err := repo.FindCourseByID(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, got.Lessons, 2)
	assert.Equal(t, "one", got.Lessons[0].Title)
	assert.Equal(t, model.LayoutFlat, got.Layout)
	assert.Equal(t, 2, model.CountLearnableUnits(got.Content()))
}

func TestCourseRepositoryMissingCourse(t *testing.T) {
	repo := NewCourseRepository(newTestDB(t))
	_, err := repo.FindCourseByID(context.Background(), 42)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
	assert.ErrorIs(t, repo.Delete(context.Background(), 42), util.ErrCourseNotFound)
}

func TestCourseRepositoryListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewCourseRepository(newTestDB(t))
	require.NoError(t, repo.Create(ctx, &model.Course{Title: "a", Category: "web", Level: model.Beginner}))
	require.NoError(t, repo.Create(ctx, &model.Course{Title: "b", Category: "web", Level: model.Advanced}))
	require.NoError(t, repo.Create(ctx, &model.Course{Title: "c", Category: "data", Level: model.Beginner}))

	all, err := repo.List(ctx, CourseFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	web, err := repo.List(ctx, CourseFilter{Category: "web"})
	require.NoError(t, err)
	assert.Len(t, web, 2)

	webBeginner, err := repo.List(ctx, CourseFilter{Category: "web", Level: model.Beginner})
	require.NoError(t, err)
	require.Len(t, webBeginner, 1)
	assert.Equal(t, "a", webBeginner[0].Title)
}

func TestEnrollmentRepositoryUpdateCompletionPercentageOnlyTouchesColumn(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewEnrollmentRepository(db)

	e := &model.Enrollment{UserID: 1, CourseID: 1, Status: model.EnrollmentPaid, AmountPaid: 900}
	require.NoError(t, repo.Create(ctx, e))
	before, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateCompletionPercentage(ctx, e.ID, 67))

	after, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 67, after.CompletionPercentage)
	assert.Equal(t, 900, after.AmountPaid)
	assert.Equal(t, model.EnrollmentPaid, after.Status)
	assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt))

	assert.ErrorIs(t, repo.UpdateCompletionPercentage(ctx, 999, 10), util.ErrEnrollmentNotFound)
}

func TestEnrollmentRepositoryUpdateCompletionPercentageSameValueTwice(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewEnrollmentRepository(db)

	e := &model.Enrollment{UserID: 1, CourseID: 1, Status: model.EnrollmentPaid, CompletionPercentage: 20}
	require.NoError(t, repo.Create(ctx, e))

	// Two reconciliations that read 20 and both computed 40.
	require.NoError(t, repo.UpdateCompletionPercentage(ctx, e.ID, 40))
	require.NoError(t, repo.UpdateCompletionPercentage(ctx, e.ID, 40))
	// Rewriting the stored value is not a missing row either.
	require.NoError(t, repo.UpdateCompletionPercentage(ctx, e.ID, 40))

	got, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, got.CompletionPercentage)
}

func TestEnrollmentRepositoryFindEnrollmentsByStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewEnrollmentRepository(newTestDB(t))
	for _, s := range []model.EnrollmentStatus{model.EnrollmentPaid, model.EnrollmentPending, model.EnrollmentPaid, model.EnrollmentRefunded} {
		require.NoError(t, repo.Create(ctx, &model.Enrollment{UserID: 1, CourseID: 1, Status: s}))
	}

	paid, err := repo.FindEnrollments(ctx, model.EnrollmentPaid)
	require.NoError(t, err)
	require.Len(t, paid, 2)
	assert.Less(t, paid[0].ID, paid[1].ID)
}

func TestEnrollmentRepositoryPrefersPaidEnrollment(t *testing.T) {
	ctx := context.Background()
	repo := NewEnrollmentRepository(newTestDB(t))
	require.NoError(t, repo.Create(ctx, &model.Enrollment{UserID: 3, CourseID: 7, Status: model.EnrollmentCancelled}))
	paid := &model.Enrollment{UserID: 3, CourseID: 7, Status: model.EnrollmentPaid}
	require.NoError(t, repo.Create(ctx, paid))

	got, err := repo.FindByUserAndCourse(ctx, 3, 7)
	require.NoError(t, err)
	assert.Equal(t, paid.ID, got.ID)

	_, err = repo.FindByUserAndCourse(ctx, 3, 8)
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
}

func TestEnrollmentRepositoryUpdateStatusStampsPaidAt(t *testing.T) {
	ctx := context.Background()
	repo := NewEnrollmentRepository(newTestDB(t))
	e := &model.Enrollment{UserID: 1, CourseID: 1, Status: model.EnrollmentPending}
	require.NoError(t, repo.Create(ctx, e))

	require.NoError(t, repo.UpdateStatus(ctx, e.ID, model.EnrollmentPaid))
	got, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentPaid, got.Status)
	assert.NotNil(t, got.PaidAt)
}

func TestProgressRepositoryUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewProgressRepository(newTestDB(t))

	require.NoError(t, repo.Upsert(ctx, &model.VideoProgress{UserID: 1, CourseID: 2, UnitID: "u1", WatchedSeconds: 30}))
	require.NoError(t, repo.Upsert(ctx, &model.VideoProgress{UserID: 1, CourseID: 2, UnitID: "u1", Completed: true, WatchedSeconds: 10}))
	require.NoError(t, repo.Upsert(ctx, &model.VideoProgress{UserID: 1, CourseID: 2, UnitID: "u2", Completed: true}))
	require.NoError(t, repo.Upsert(ctx, &model.VideoProgress{UserID: 1, CourseID: 3, UnitID: "u1", Completed: true}))

	rows, err := repo.FindProgress(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "u1", rows[0].UnitID)
	assert.True(t, rows[0].Completed)
	assert.Equal(t, 30, rows[0].WatchedSeconds)
	assert.NotNil(t, rows[0].CompletedAt)

	count, err := repo.CountCompleted(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, repo.Upsert(ctx, &model.VideoProgress{UserID: 1, CourseID: 2, UnitID: "u2", Completed: false}))
	count, err = repo.CountCompleted(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNoteRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewNoteRepository(db)

	teacher := &model.User{Name: "Ada", Email: "ada@example.com", Password: "x", Role: model.Teacher}
	require.NoError(t, users.Create(ctx, teacher))

	courseID := uint(5)
	first := &model.Note{Title: "first", UploadedBy: teacher.ID, Tags: []string{"go"}}
	require.NoError(t, repo.Create(ctx, first))
	second := &model.Note{Title: "second", UploadedBy: teacher.ID, CourseID: &courseID}
	require.NoError(t, repo.Create(ctx, second))
	db.Model(second).UpdateColumn("created_at", first.CreatedAt.Add(1e9))

	all, err := repo.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "second", all[0].Title)
	require.NotNil(t, all[0].Uploader)
	assert.Equal(t, "Ada", all[0].Uploader.Name)

	byCourse, err := repo.List(ctx, &courseID)
	require.NoError(t, err)
	assert.Len(t, byCourse, 1)

	got, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, got.Tags)

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.FindByID(ctx, first.ID)
	assert.ErrorIs(t, err, util.ErrNoteNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), util.ErrNoteNotFound)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))
	u := &model.User{Name: "Lin", Email: "lin@example.com", Password: "hash", Role: model.Student}
	require.NoError(t, repo.Create(ctx, u))

	byEmail, err := repo.FindByEmail(ctx, "lin@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = repo.FindByID(ctx, u.ID+1)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestReconcileRunRepositoryWithoutRedis(t *testing.T) {
	ctx := context.Background()
	repo := NewReconcileRunRepository(nil)

	ok, err := repo.TryLock(ctx, "a", 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, repo.Unlock(ctx, "a"))
	assert.NoError(t, repo.SaveLastReport(ctx, []byte("{}")))

	data, err := repo.LoadLastReport(ctx)
	assert.NoError(t, err)
	assert.Nil(t, data)
}
