package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/lshigami/Learnhub/config"
	"github.com/lshigami/Learnhub/internal/dto"
	"github.com/lshigami/Learnhub/internal/model"
	"github.com/lshigami/Learnhub/internal/repository"
	"github.com/lshigami/Learnhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newLessonService(db *gorm.DB) LessonService {
	return NewLessonService(
		repository.NewCourseRepository(db),
		repository.NewLessonRepository(db),
		repository.NewEnrollmentRepository(db),
		&config.Config{},
	)
}

func TestCreateLesson_Quiz(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.SeedCourse(t, db, testutil.ThreeQuestionQuiz)
	svc := newLessonService(db)
	admin := Caller{UserID: "admin-1", Role: RoleAdmin}

	resp, err := svc.CreateLesson(context.Background(), admin, dto.LessonCreateDTO{
		ModuleID:    fx.Module.ID,
		Title:       "Final check",
		ContentType: model.ContentTypeQuiz,
		OrderIndex:  2,
		Questions: json.RawMessage(`[
			{"id": "a", "question": "Pick 1", "options": ["0", "1"], "correctAnswer": 1}
		]`),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.QuestionCount)
	assert.Equal(t, fx.Module.ID, resp.ModuleID)

	var stored model.Lesson
	require.NoError(t, db.First(&stored, "id = ?", resp.ID).Error)
	assert.Equal(t, `[{"id":"a","question":"Pick 1","options":["0","1"],"correctAnswer":1}]`, stored.Content)
}

func TestCreateLesson_Validation(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.SeedCourse(t, db, testutil.ThreeQuestionQuiz)
	svc := newLessonService(db)
	admin := Caller{UserID: "admin-1", Role: RoleAdmin}
	ctx := context.Background()

	tests := []struct {
		name string
		req  dto.LessonCreateDTO
		want error
	}{
		{"quiz without questions", dto.LessonCreateDTO{ModuleID: fx.Module.ID, Title: "q", ContentType: model.ContentTypeQuiz}, ErrValidation},
		{"quiz with empty list", dto.LessonCreateDTO{ModuleID: fx.Module.ID, Title: "q", ContentType: model.ContentTypeQuiz, Questions: json.RawMessage(`[]`)}, ErrValidation},
		{"quiz without answer key", dto.LessonCreateDTO{ModuleID: fx.Module.ID, Title: "q", ContentType: model.ContentTypeQuiz, Questions: json.RawMessage(`[{"id":"a"}]`)}, ErrValidation},
		{"video without url", dto.LessonCreateDTO{ModuleID: fx.Module.ID, Title: "v", ContentType: model.ContentTypeVideo}, ErrValidation},
		{"text without content", dto.LessonCreateDTO{ModuleID: fx.Module.ID, Title: "t", ContentType: model.ContentTypeText}, ErrValidation},
		{"unknown module", dto.LessonCreateDTO{ModuleID: "nope", Title: "t", ContentType: model.ContentTypeText, Content: "x"}, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateLesson(ctx, admin, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := svc.CreateLesson(ctx, Caller{UserID: "learner", Role: RoleLearner}, dto.LessonCreateDTO{
		ModuleID: fx.Module.ID, Title: "t", ContentType: model.ContentTypeText, Content: "x",
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateLesson_InstructorMustOwnCourse(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.SeedCourse(t, db, testutil.ThreeQuestionQuiz)
	require.NoError(t, db.Model(fx.Course).Update("instructor_id", "instructor-1").Error)
	svc := newLessonService(db)
	req := dto.LessonCreateDTO{ModuleID: fx.Module.ID, Title: "Notes", ContentType: model.ContentTypeText, Content: "read me"}

	_, err := svc.CreateLesson(context.Background(), Caller{UserID: "instructor-2", Role: RoleInstructor}, req)
	assert.ErrorIs(t, err, ErrForbidden)

	resp, err := svc.CreateLesson(context.Background(), Caller{UserID: "instructor-1", Role: RoleInstructor}, req)
	require.NoError(t, err)
	assert.Zero(t, resp.QuestionCount)
}

func TestCreateLesson_InstructorWithDeletedCourse(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.SeedCourse(t, db, testutil.ThreeQuestionQuiz)
	require.NoError(t, db.Delete(fx.Course).Error)
	svc := newLessonService(db)

	_, err := svc.CreateLesson(context.Background(), Caller{UserID: "instructor-1", Role: RoleInstructor}, dto.LessonCreateDTO{
		ModuleID: fx.Module.ID, Title: "Notes", ContentType: model.ContentTypeText, Content: "read me",
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrPersistence)
}

func TestGetLesson_HidesAnswerKeys(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.SeedCourse(t, db, testutil.ThreeQuestionQuiz)
	testutil.Enroll(t, db, "learner-1", fx.Course.ID)
	svc := newLessonService(db)

	lesson, err := svc.GetLesson(context.Background(), Caller{UserID: "learner-1", Role: RoleLearner}, fx.Quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, fx.Course.ID, lesson.CourseID)
	assert.Empty(t, lesson.Content)
	require.Len(t, lesson.Questions, 3)
	assert.Equal(t, []string{"3", "4"}, lesson.Questions[0].Options)
	assert.Equal(t, 70, lesson.PassingScore)

	body, err := json.Marshal(lesson)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "correctAnswer")
}

func TestGetLesson_Access(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.SeedCourse(t, db, testutil.ThreeQuestionQuiz)
	svc := newLessonService(db)
	ctx := context.Background()

	_, err := svc.GetLesson(ctx, Caller{UserID: "stranger", Role: RoleLearner}, fx.Quiz.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetLesson(ctx, Caller{UserID: "admin", Role: RoleAdmin}, fx.Quiz.ID)
	assert.NoError(t, err)

	_, err = svc.GetLesson(ctx, Caller{UserID: "admin", Role: RoleAdmin}, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
