package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Learnhub/config"
	"github.com/lshigami/Learnhub/internal/dto"
	"github.com/lshigami/Learnhub/internal/grading"
	"github.com/lshigami/Learnhub/internal/model"
	"github.com/lshigami/Learnhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizService grades quiz submissions and lists the stored attempts.
type QuizService interface {
	SubmitAttempt(ctx context.Context, caller Caller, req dto.QuizAttemptSubmitDTO) (*dto.QuizAttemptResultDTO, error)
	ListResults(ctx context.Context, caller Caller, query dto.QuizResultsQuery) ([]dto.QuizAttemptDTO, error)
}

type quizService struct {
	lessonRepo     repository.LessonRepository
	attemptRepo    repository.QuizAttemptRepository
	enrollmentRepo repository.EnrollmentRepository
	passingScore   int
	now            func() time.Time
}

func NewQuizService(
	lessonRepo repository.LessonRepository,
	attemptRepo repository.QuizAttemptRepository,
	enrollmentRepo repository.EnrollmentRepository,
	cfg *config.Config,
) QuizService {
	return newQuizService(lessonRepo, attemptRepo, enrollmentRepo, cfg)
}

func newQuizService(
	lessonRepo repository.LessonRepository,
	attemptRepo repository.QuizAttemptRepository,
	enrollmentRepo repository.EnrollmentRepository,
	cfg *config.Config,
) *quizService {
	passing := grading.DefaultPassingScore
	if cfg != nil && cfg.Quiz.PassingScore > 0 {
		passing = cfg.Quiz.PassingScore
	}
	return &quizService{
		lessonRepo:     lessonRepo,
		attemptRepo:    attemptRepo,
		enrollmentRepo: enrollmentRepo,
		passingScore:   passing,
		now:            time.Now,
	}
}

// SubmitAttempt loads the canonical questions, checks that the caller may take
// the quiz, grades the answers and stores exactly one attempt row. Nothing is
// written when any step before the insert fails.
func (s *quizService) SubmitAttempt(ctx context.Context, caller Caller, req dto.QuizAttemptSubmitDTO) (*dto.QuizAttemptResultDTO, error) {
	lesson, questions, err := s.loadQuiz(ctx, req.QuizID)
	if err != nil {
		return nil, err
	}

	if lesson.Module.CourseID != req.CourseID {
		return nil, fmt.Errorf("%w: quiz %s does not belong to course %s", ErrValidation, req.QuizID, req.CourseID)
	}
	if err := requireEnrollment(ctx, s.enrollmentRepo, caller.UserID, req.CourseID); err != nil {
		return nil, err
	}

	answers, dropped := grading.ParseAnswers(req.Answers)
	if dropped > 0 {
		log.Debug().Str("quizID", req.QuizID).Str("userID", caller.UserID).Int("dropped", dropped).Msg("SubmitAttempt: ignoring malformed answers")
	}
	result := grading.Grade(questions, answers)

	reviewed := make([]model.ReviewedAnswer, len(result.Reviewed))
	for i, r := range result.Reviewed {
		reviewed[i] = model.ReviewedAnswer{QuestionID: r.QuestionID, SelectedOption: r.SelectedOption, IsCorrect: r.IsCorrect}
	}
	attempt := &model.QuizAttempt{
		LessonID:         lesson.ID,
		UserID:           caller.UserID,
		CourseID:         req.CourseID,
		AnswersSubmitted: datatypes.NewJSONSlice(reviewed),
		Score:            result.Score,
		CorrectCount:     result.CorrectCount,
		TotalQuestions:   result.TotalQuestions,
		AttemptedAt:      s.now().UTC(),
	}
	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		log.Error().Err(err).Str("quizID", req.QuizID).Str("userID", caller.UserID).Msg("SubmitAttempt: failed to store attempt")
		return nil, fmt.Errorf("%w: store quiz attempt", ErrPersistence)
	}

	log.Info().
		Str("attemptID", attempt.ID).
		Str("quizID", lesson.ID).
		Str("userID", caller.UserID).
		Int("score", result.Score).
		Msg("Quiz attempt graded")

	return &dto.QuizAttemptResultDTO{
		Message:         "Quiz submitted successfully",
		AttemptID:       attempt.ID,
		Score:           result.Score,
		PassedRequired:  result.Passed(s.passingScore),
		CorrectCount:    result.CorrectCount,
		TotalQuestions:  result.TotalQuestions,
		ReviewedAnswers: toReviewedDTOs(reviewed),
	}, nil
}

func (s *quizService) ListResults(ctx context.Context, caller Caller, query dto.QuizResultsQuery) ([]dto.QuizAttemptDTO, error) {
	if query.CourseID == "" {
		return nil, fmt.Errorf("%w: courseId is required", ErrValidation)
	}
	userID := caller.UserID
	if query.UserID != "" && query.UserID != caller.UserID {
		if !caller.Elevated() {
			return nil, fmt.Errorf("%w: cannot list another user's results", ErrForbidden)
		}
		userID = query.UserID
	}

	attempts, err := s.attemptRepo.List(ctx, repository.AttemptFilter{
		UserID:   userID,
		CourseID: query.CourseID,
		LessonID: query.LessonID,
		Limit:    query.Limit,
		Offset:   query.Offset,
	})
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Str("courseID", query.CourseID).Msg("ListResults: query failed")
		return nil, fmt.Errorf("%w: list quiz attempts", ErrPersistence)
	}

	out := make([]dto.QuizAttemptDTO, 0, len(attempts))
	for i := range attempts {
		var item dto.QuizAttemptDTO
		if err := copier.Copy(&item, &attempts[i]); err != nil {
			log.Error().Err(err).Msg("ListResults: failed to map attempt")
			return nil, fmt.Errorf("error preparing results: %w", err)
		}
		item.Answers = toReviewedDTOs(attempts[i].AnswersSubmitted)
		out = append(out, item)
	}
	return out, nil
}

// loadQuiz returns the lesson and its validated canonical question list.
func (s *quizService) loadQuiz(ctx context.Context, lessonID string) (*model.Lesson, []grading.Question, error) {
	lesson, err := s.lessonRepo.FindByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: quiz %s", ErrNotFound, lessonID)
		}
		log.Error().Err(err).Str("lessonID", lessonID).Msg("loadQuiz: lesson lookup failed")
		return nil, nil, fmt.Errorf("%w: load quiz", ErrPersistence)
	}
	if !lesson.IsQuiz() {
		return nil, nil, fmt.Errorf("%w: lesson %s is not a quiz", ErrNotFound, lessonID)
	}

	questions, err := grading.ParseQuestions(lesson.Content)
	if err != nil {
		log.Error().Err(err).Str("lessonID", lessonID).Msg("loadQuiz: unusable quiz content")
		return nil, nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return lesson, questions, nil
}

// requireEnrollment fails with ErrForbidden unless userID holds an enrollment
// that grants access to courseID.
func requireEnrollment(ctx context.Context, enrollments repository.EnrollmentRepository, userID, courseID string) error {
	enrollment, err := enrollments.FindByUserCourse(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: not enrolled in course %s", ErrForbidden, courseID)
		}
		log.Error().Err(err).Str("userID", userID).Str("courseID", courseID).Msg("requireEnrollment: lookup failed")
		return fmt.Errorf("%w: check enrollment", ErrPersistence)
	}
	if !enrollment.GrantsAccess() {
		return fmt.Errorf("%w: enrollment in course %s is %s", ErrForbidden, courseID, enrollment.Status)
	}
	return nil
}

func toReviewedDTOs(answers []model.ReviewedAnswer) []dto.ReviewedAnswerDTO {
	out := make([]dto.ReviewedAnswerDTO, len(answers))
	for i, a := range answers {
		out[i] = dto.ReviewedAnswerDTO{QuestionID: a.QuestionID, SelectedOption: a.SelectedOption, IsCorrect: a.IsCorrect}
	}
	return out
}
