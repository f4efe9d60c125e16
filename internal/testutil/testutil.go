// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lshigami/Learnhub/database"
	"github.com/lshigami/Learnhub/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory sqlite database with every table migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// Fixture is a course with one module holding a quiz lesson.
type Fixture struct {
	Course *model.Course
	Module *model.CourseModule
	Quiz   *model.Lesson
}

// ThreeQuestionQuiz is the lesson content used across grading scenarios.
const ThreeQuestionQuiz = `[
  {"id":"q1","question":"2+2?","options":["3","4"],"correctAnswer":"4"},
  {"id":"q2","question":"Sky color?","options":["blue","red"],"correctAnswer":"blue"},
  {"id":"q3","question":"Is water wet?","options":["true","false"],"correctAnswer":true}
]`

// SeedCourse creates an active course, a module and a quiz lesson with the given content.
func SeedCourse(t *testing.T, db *gorm.DB, quizContent string) Fixture {
	t.Helper()
	ctx := context.Background()

	course := &model.Course{Title: "Go Basics", PriceCents: 4900, IsActive: true}
	require.NoError(t, db.WithContext(ctx).Create(course).Error)

	module := &model.CourseModule{CourseID: course.ID, Title: "Week 1", OrderIndex: 1}
	require.NoError(t, db.WithContext(ctx).Create(module).Error)

	quiz := &model.Lesson{
		ModuleID:    module.ID,
		Title:       "Checkpoint",
		Content:     quizContent,
		ContentType: model.ContentTypeQuiz,
		OrderIndex:  1,
	}
	require.NoError(t, db.WithContext(ctx).Omit("Module").Create(quiz).Error)
	quiz.Module = *module

	return Fixture{Course: course, Module: module, Quiz: quiz}
}

// Enroll gives userID an active enrollment in courseID.
func Enroll(t *testing.T, db *gorm.DB, userID, courseID string) *model.Enrollment {
	t.Helper()
	enrollment := &model.Enrollment{
		UserID:        userID,
		CourseID:      courseID,
		Status:        model.EnrollmentActive,
		PaymentStatus: model.PaymentPaid,
		EnrolledAt:    time.Now().UTC(),
	}
	require.NoError(t, db.Create(enrollment).Error)
	return enrollment
}

// Clock returns a deterministic clock that advances one second per call.
func Clock(start time.Time) func() time.Time {
	current := start.Add(-time.Second)
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}
