package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Learnhub/config"
	"github.com/lshigami/Learnhub/internal/dto"
	"github.com/lshigami/Learnhub/internal/grading"
	"github.com/lshigami/Learnhub/internal/model"
	"github.com/lshigami/Learnhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type LessonService interface {
	// CreateLesson adds a lesson to a module. Quiz lessons are validated with the
	// same parser used at grading time, so a stored quiz is always gradable.
	CreateLesson(ctx context.Context, caller Caller, req dto.LessonCreateDTO) (*dto.AdminLessonResponseDTO, error)
	// GetLesson returns the learner view of a lesson. Quiz answer keys are never included.
	GetLesson(ctx context.Context, caller Caller, lessonID string) (*dto.LessonResponseDTO, error)
}

type lessonService struct {
	courseRepo     repository.CourseRepository
	lessonRepo     repository.LessonRepository
	enrollmentRepo repository.EnrollmentRepository
	passingScore   int
}

func NewLessonService(
	courseRepo repository.CourseRepository,
	lessonRepo repository.LessonRepository,
	enrollmentRepo repository.EnrollmentRepository,
	cfg *config.Config,
) LessonService {
	passing := grading.DefaultPassingScore
	if cfg != nil && cfg.Quiz.PassingScore > 0 {
		passing = cfg.Quiz.PassingScore
	}
	return &lessonService{courseRepo: courseRepo, lessonRepo: lessonRepo, enrollmentRepo: enrollmentRepo, passingScore: passing}
}

func (s *lessonService) CreateLesson(ctx context.Context, caller Caller, req dto.LessonCreateDTO) (*dto.AdminLessonResponseDTO, error) {
	if !caller.Elevated() {
		return nil, fmt.Errorf("%w: only instructors can create lessons", ErrForbidden)
	}

	module, err := s.courseRepo.FindModuleByID(ctx, req.ModuleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: module %s", ErrNotFound, req.ModuleID)
		}
		log.Error().Err(err).Str("moduleID", req.ModuleID).Msg("CreateLesson: module lookup failed")
		return nil, fmt.Errorf("%w: load module", ErrPersistence)
	}
	if caller.Role == RoleInstructor {
		course, err := s.courseRepo.FindByID(ctx, module.CourseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: course %s", ErrNotFound, module.CourseID)
			}
			log.Error().Err(err).Str("courseID", module.CourseID).Msg("CreateLesson: course lookup failed")
			return nil, fmt.Errorf("%w: load course", ErrPersistence)
		}
		if course.InstructorID != nil && *course.InstructorID != caller.UserID {
			return nil, fmt.Errorf("%w: course %s belongs to another instructor", ErrForbidden, course.ID)
		}
	}

	var lesson model.Lesson
	if err := copier.Copy(&lesson, &req); err != nil {
		log.Error().Err(err).Msg("CreateLesson: failed to map request")
		return nil, fmt.Errorf("error preparing lesson: %w", err)
	}

	questionCount := 0
	switch req.ContentType {
	case model.ContentTypeQuiz:
		content, count, err := canonicalQuizContent(req.Questions)
		if err != nil {
			return nil, err
		}
		lesson.Content, questionCount = content, count
	case model.ContentTypeVideo:
		if req.VideoURL == nil || strings.TrimSpace(*req.VideoURL) == "" {
			return nil, fmt.Errorf("%w: video_url is required for video lessons", ErrValidation)
		}
	default:
		if strings.TrimSpace(req.Content) == "" {
			return nil, fmt.Errorf("%w: content is required for text lessons", ErrValidation)
		}
	}

	if err := s.lessonRepo.Create(ctx, &lesson); err != nil {
		log.Error().Err(err).Str("moduleID", req.ModuleID).Msg("CreateLesson: failed to create lesson")
		return nil, fmt.Errorf("%w: create lesson", ErrPersistence)
	}
	log.Info().Str("lessonID", lesson.ID).Str("contentType", lesson.ContentType).Str("by", caller.UserID).Msg("Lesson created")

	var resp dto.AdminLessonResponseDTO
	if err := copier.Copy(&resp, &lesson); err != nil {
		log.Error().Err(err).Msg("CreateLesson: failed to map response")
		return nil, fmt.Errorf("error preparing response data: %w", err)
	}
	resp.QuestionCount = questionCount
	return &resp, nil
}

func (s *lessonService) GetLesson(ctx context.Context, caller Caller, lessonID string) (*dto.LessonResponseDTO, error) {
	lesson, err := s.lessonRepo.FindByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: lesson %s", ErrNotFound, lessonID)
		}
		log.Error().Err(err).Str("lessonID", lessonID).Msg("GetLesson: lookup failed")
		return nil, fmt.Errorf("%w: load lesson", ErrPersistence)
	}
	if !caller.Elevated() {
		if err := requireEnrollment(ctx, s.enrollmentRepo, caller.UserID, lesson.Module.CourseID); err != nil {
			return nil, err
		}
	}

	resp := &dto.LessonResponseDTO{
		ID:              lesson.ID,
		ModuleID:        lesson.ModuleID,
		CourseID:        lesson.Module.CourseID,
		Title:           lesson.Title,
		ContentType:     lesson.ContentType,
		VideoURL:        lesson.VideoURL,
		OrderIndex:      lesson.OrderIndex,
		DurationMinutes: lesson.DurationMinutes,
	}
	if !lesson.IsQuiz() {
		resp.Content = lesson.Content
		return resp, nil
	}

	questions, err := grading.ParseQuestions(lesson.Content)
	if err != nil {
		log.Error().Err(err).Str("lessonID", lessonID).Msg("GetLesson: unusable quiz content")
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	for _, q := range grading.StripAnswerKeys(questions) {
		resp.Questions = append(resp.Questions, dto.QuizQuestionDTO{ID: q.ID, Prompt: q.Prompt, Options: q.Options})
	}
	resp.PassingScore = s.passingScore
	return resp, nil
}

// canonicalQuizContent validates a question list and returns it compacted for storage.
func canonicalQuizContent(raw json.RawMessage) (string, int, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", 0, fmt.Errorf("%w: questions are required for quiz lessons", ErrValidation)
	}
	questions, err := grading.ParseQuestions(string(raw))
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return buf.String(), len(questions), nil
}
