package repository

import (
	"context"
	"testing"
	"time"

	"github.com/lshigami/Learnhub/internal/model"
	"github.com/lshigami/Learnhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestLessonRepository_FindByIDPreloadsModule(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.SeedCourse(t, db, testutil.ThreeQuestionQuiz)
	repo := NewLessonRepository(db)

	lesson, err := repo.FindByID(context.Background(), fx.Quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, fx.Course.ID, lesson.Module.CourseID)
	assert.True(t, lesson.IsQuiz())

	_, err = repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestQuizAttemptRepository_ListNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.SeedCourse(t, db, testutil.ThreeQuestionQuiz)
	repo := NewQuizAttemptRepository(db)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, score := range []int{33, 67, 100} {
		err := repo.Create(ctx, &model.QuizAttempt{
			LessonID:         fx.Quiz.ID,
			UserID:           "u1",
			CourseID:         fx.Course.ID,
			AnswersSubmitted: datatypes.NewJSONSlice([]model.ReviewedAnswer{{QuestionID: "q1", SelectedOption: "4", IsCorrect: true}}),
			Score:            score,
			TotalQuestions:   3,
			AttemptedAt:      base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
	// another learner's attempt must not leak into the listing
	require.NoError(t, repo.Create(ctx, &model.QuizAttempt{
		LessonID: fx.Quiz.ID, UserID: "u2", CourseID: fx.Course.ID,
		AnswersSubmitted: datatypes.NewJSONSlice([]model.ReviewedAnswer{}), AttemptedAt: base,
	}))

	filter := AttemptFilter{UserID: "u1", CourseID: fx.Course.ID}
	attempts, err := repo.List(ctx, filter)
	require.NoError(t, err)
	require.Len(t, attempts, 3)
	assert.Equal(t, 100, attempts[0].Score)
	assert.Equal(t, 33, attempts[2].Score)
	assert.Equal(t, "q1", attempts[0].AnswersSubmitted[0].QuestionID)

	filter.Limit, filter.Offset = 1, 1
	page, err := repo.List(ctx, filter)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, 67, page[0].Score)

	n, err := repo.Count(ctx, AttemptFilter{UserID: "u1", CourseID: fx.Course.ID, LessonID: "other"})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestClampPageSize(t *testing.T) {
	assert.Equal(t, DefaultAttemptPageSize, ClampPageSize(0))
	assert.Equal(t, DefaultAttemptPageSize, ClampPageSize(-3))
	assert.Equal(t, 10, ClampPageSize(10))
	assert.Equal(t, MaxAttemptPageSize, ClampPageSize(5000))
}

func TestEnrollmentRepository_EnsureActiveIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	first, created, err := repo.EnsureActive(ctx, "u1", "c1", 4900, now)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := repo.EnsureActive(ctx, "u1", "c1", 4900, now)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&model.Enrollment{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestEnrollmentRepository_EnsureActiveReactivatesCancelled(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.Enrollment{
		UserID: "u1", CourseID: "c1", Status: model.EnrollmentCancelled,
		PaymentStatus: model.PaymentFailed, EnrolledAt: time.Now().UTC(),
	}).Error)

	enrollment, created, err := repo.EnsureActive(ctx, "u1", "c1", 1000, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, model.EnrollmentActive, enrollment.Status)

	stored, err := repo.FindByUserCourse(ctx, "u1", "c1")
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentActive, stored.Status)
	assert.Equal(t, model.PaymentPaid, stored.PaymentStatus)
	assert.EqualValues(t, 1000, stored.PaymentAmountCents)
}

func TestEnrollmentRepository_DeleteByUserCourse(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.Enroll(t, db, "u1", "c1")
	repo := NewEnrollmentRepository(db)

	n, err := repo.DeleteByUserCourse(context.Background(), "u1", "c1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = repo.DeleteByUserCourse(context.Background(), "u1", "c1")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPaymentRepository_ExpirePendingBefore(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	old := &model.Payment{UserID: "u1", CourseID: "c1", StripeSessionID: "cs_old", AmountCents: 100, Currency: "usd", Status: model.PaymentPending}
	fresh := &model.Payment{UserID: "u1", CourseID: "c2", StripeSessionID: "cs_new", AmountCents: 100, Currency: "usd", Status: model.PaymentPending}
	paid := &model.Payment{UserID: "u1", CourseID: "c3", StripeSessionID: "cs_paid", AmountCents: 100, Currency: "usd", Status: model.PaymentPaid}
	for _, p := range []*model.Payment{old, fresh, paid} {
		require.NoError(t, repo.Create(ctx, p))
	}
	require.NoError(t, db.Model(old).UpdateColumn("created_at", time.Now().UTC().Add(-48*time.Hour)).Error)
	require.NoError(t, db.Model(paid).UpdateColumn("created_at", time.Now().UTC().Add(-48*time.Hour)).Error)

	n, err := repo.ExpirePendingBefore(ctx, time.Now().UTC().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := repo.FindBySessionID(ctx, "cs_old")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentExpired, got.Status)
	got, err = repo.FindBySessionID(ctx, "cs_paid")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, got.Status)
}

func TestPaymentEventRepository_DuplicateEventID(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPaymentEventRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.PaymentEvent{EventID: "evt_1", Type: "checkout.session.completed", ReceivedAt: time.Now().UTC()}))
	err := repo.Create(ctx, &model.PaymentEvent{EventID: "evt_1", Type: "checkout.session.completed", ReceivedAt: time.Now().UTC()})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	event, err := repo.FindByEventID(ctx, "evt_1")
	require.NoError(t, err)
	assert.Equal(t, model.EventReceived, event.Status)
}

func TestQuizAttemptRepository_SameTimestampNewestIDFirst(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.SeedCourse(t, db, testutil.ThreeQuestionQuiz)
	repo := NewQuizAttemptRepository(db)
	ctx := context.Background()

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, score := range []int{10, 20, 30} {
		require.NoError(t, repo.Create(ctx, &model.QuizAttempt{
			LessonID: fx.Quiz.ID, UserID: "u1", CourseID: fx.Course.ID,
			AnswersSubmitted: datatypes.NewJSONSlice([]model.ReviewedAnswer{}),
			Score:            score, TotalQuestions: 3, AttemptedAt: at,
		}))
	}

	for i := 0; i < 3; i++ {
		attempts, err := repo.List(ctx, AttemptFilter{UserID: "u1", CourseID: fx.Course.ID})
		require.NoError(t, err)
		require.Len(t, attempts, 3)
		assert.Equal(t, []int{30, 20, 10}, []int{attempts[0].Score, attempts[1].Score, attempts[2].Score})
	}
}

func TestQuizAttemptRepository_StatsByUser(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.SeedCourse(t, db, testutil.ThreeQuestionQuiz)
	repo := NewQuizAttemptRepository(db)
	ctx := context.Background()

	for _, score := range []int{33, 67, 100} {
		require.NoError(t, repo.Create(ctx, &model.QuizAttempt{
			LessonID: fx.Quiz.ID, UserID: "u1", CourseID: fx.Course.ID,
			AnswersSubmitted: datatypes.NewJSONSlice([]model.ReviewedAnswer{}),
			Score:            score, TotalQuestions: 3, AttemptedAt: time.Now().UTC(),
		}))
	}

	stats, err := repo.StatsByUser(ctx, "u1", 67)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Attempted)
	assert.EqualValues(t, 2, stats.Passed)
	assert.InDelta(t, 66.67, stats.AverageScore, 0.01)

	empty, err := repo.StatsByUser(ctx, "nobody", 70)
	require.NoError(t, err)
	assert.Zero(t, empty.Attempted)
	assert.Zero(t, empty.Passed)
	assert.Zero(t, empty.AverageScore)
}

func TestEnrollmentRepository_ListByUser(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, course := range []string{"c1", "c2"} {
		require.NoError(t, db.Create(&model.Enrollment{
			UserID: "u1", CourseID: course, Status: model.EnrollmentActive,
			EnrolledAt: base.Add(time.Duration(i) * time.Hour),
		}).Error)
	}
	require.NoError(t, db.Create(&model.Enrollment{UserID: "u2", CourseID: "c1", Status: model.EnrollmentActive, EnrolledAt: base}).Error)

	enrollments, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, enrollments, 2)
	assert.Equal(t, "c2", enrollments[0].CourseID)
	assert.Equal(t, "c1", enrollments[1].CourseID)
}

func TestCourseRepository_FindByIDs(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.SeedCourse(t, db, testutil.ThreeQuestionQuiz)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	courses, err := repo.FindByIDs(ctx, []string{fx.Course.ID, "missing"})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Go Basics", courses[0].Title)

	courses, err = repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestPaymentEventRepository_Claim(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPaymentEventRepository(db)
	ctx := context.Background()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	staleBefore := now.Add(-10 * time.Minute)
	recent := now.Add(-time.Minute)
	old := now.Add(-time.Hour)

	seed := func(id, status string, receivedAt time.Time, claimedAt *time.Time) {
		require.NoError(t, repo.Create(ctx, &model.PaymentEvent{
			EventID: id, Type: "checkout.session.completed", Status: status,
			TryCount: 1, ReceivedAt: receivedAt, ClaimedAt: claimedAt,
		}))
	}
	seed("evt_failed", model.EventFailed, old, &old)
	seed("evt_done", model.EventProcessed, old, &old)
	seed("evt_inflight", model.EventProcessing, recent, &recent)
	seed("evt_stuck", model.EventProcessing, old, &old)
	seed("evt_received_old", model.EventReceived, old, nil)
	seed("evt_received_new", model.EventReceived, recent, nil)

	tests := []struct {
		eventID string
		won     bool
	}{
		{"evt_failed", true},
		{"evt_done", false},
		{"evt_inflight", false},
		{"evt_stuck", true},
		{"evt_received_old", true},
		{"evt_received_new", false},
		{"evt_unknown", false},
	}
	for _, tt := range tests {
		t.Run(tt.eventID, func(t *testing.T) {
			won, err := repo.Claim(ctx, tt.eventID, now, staleBefore)
			require.NoError(t, err)
			assert.Equal(t, tt.won, won)
		})
	}

	// a second claim inside the lease loses
	won, err := repo.Claim(ctx, "evt_failed", now, staleBefore)
	require.NoError(t, err)
	assert.False(t, won)

	event, err := repo.FindByEventID(ctx, "evt_stuck")
	require.NoError(t, err)
	assert.Equal(t, model.EventProcessing, event.Status)
	assert.Equal(t, 2, event.TryCount)
	require.NotNil(t, event.ClaimedAt)
	assert.True(t, event.ClaimedAt.Equal(now))
	assert.Nil(t, event.ProcessedAt)
}

func TestAssignmentRepository_Submissions(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.SeedCourse(t, db, testutil.ThreeQuestionQuiz)
	repo := NewAssignmentRepository(db)
	ctx := context.Background()

	assignment := &model.Assignment{CourseID: fx.Course.ID, Title: "Build a CLI", Description: "Ship it", MaxScore: 100, SubmissionType: model.SubmissionTypeGithub}
	require.NoError(t, repo.Create(ctx, assignment))

	loaded, err := repo.FindByID(ctx, assignment.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go Basics", loaded.Course.Title)

	base := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	score := 80
	graded := &model.Submission{AssignmentID: assignment.ID, UserID: "u1", SubmissionURL: "https://github.com/u1/cli", SubmittedAt: base, Status: model.SubmissionGraded, Score: &score}
	pending := &model.Submission{AssignmentID: assignment.ID, UserID: "u2", SubmissionURL: "https://github.com/u2/cli", SubmittedAt: base.Add(time.Hour), Status: model.SubmissionPending}
	require.NoError(t, repo.CreateSubmission(ctx, graded))
	require.NoError(t, repo.CreateSubmission(ctx, pending))

	err = repo.CreateSubmission(ctx, &model.Submission{AssignmentID: assignment.ID, UserID: "u1", SubmissionURL: "x", SubmittedAt: base, Status: model.SubmissionPending})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	all, err := repo.ListSubmissions(ctx, assignment.ID, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "u2", all[0].UserID)

	onlyGraded, err := repo.ListSubmissions(ctx, assignment.ID, model.SubmissionGraded)
	require.NoError(t, err)
	require.Len(t, onlyGraded, 1)
	assert.Equal(t, "u1", onlyGraded[0].UserID)

	withCourse, err := repo.FindSubmissionByID(ctx, graded.ID)
	require.NoError(t, err)
	assert.Equal(t, fx.Course.ID, withCourse.Assignment.Course.ID)

	stats, err := repo.SubmissionStatsByUser(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Submitted)
	assert.EqualValues(t, 1, stats.Graded)
	assert.EqualValues(t, 1, stats.ScoredCount)
	assert.InDelta(t, 80, stats.AverageScore, 0.001)
}
