package service

import (
	"context"
	"fmt"
	"math"

	"github.com/lshigami/Learnhub/config"
	"github.com/lshigami/Learnhub/internal/dto"
	"github.com/lshigami/Learnhub/internal/grading"
	"github.com/lshigami/Learnhub/internal/model"
	"github.com/lshigami/Learnhub/internal/repository"
	"github.com/rs/zerolog/log"
)

// engagementTarget is the number of learner actions that counts as full engagement.
const engagementTarget = 50

type AnalyticsService interface {
	// GetLearnerAnalytics aggregates a learner's enrollments, quiz attempts and
	// assignment submissions. Only the learner themself or an admin may read it.
	GetLearnerAnalytics(ctx context.Context, caller Caller, userID string) (*dto.LearnerAnalyticsDTO, error)
}

type analyticsService struct {
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
	attemptRepo    repository.QuizAttemptRepository
	assignmentRepo repository.AssignmentRepository
	passingScore   int
}

func NewAnalyticsService(
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
	attemptRepo repository.QuizAttemptRepository,
	assignmentRepo repository.AssignmentRepository,
	cfg *config.Config,
) AnalyticsService {
	passing := grading.DefaultPassingScore
	if cfg != nil && cfg.Quiz.PassingScore > 0 {
		passing = cfg.Quiz.PassingScore
	}
	return &analyticsService{
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		attemptRepo:    attemptRepo,
		assignmentRepo: assignmentRepo,
		passingScore:   passing,
	}
}

func (s *analyticsService) GetLearnerAnalytics(ctx context.Context, caller Caller, userID string) (*dto.LearnerAnalyticsDTO, error) {
	if userID == "" {
		userID = caller.UserID
	}
	if userID != caller.UserID && caller.Role != RoleAdmin {
		return nil, fmt.Errorf("%w: not authorized to view this learner's analytics", ErrForbidden)
	}
	logger := log.With().Str("userID", userID).Logger()

	enrollments, err := s.enrollmentRepo.ListByUser(ctx, userID)
	if err != nil {
		logger.Error().Err(err).Msg("GetLearnerAnalytics: failed to list enrollments")
		return nil, fmt.Errorf("%w: list enrollments", ErrPersistence)
	}
	titles, err := s.courseTitles(ctx, enrollments)
	if err != nil {
		logger.Error().Err(err).Msg("GetLearnerAnalytics: failed to load courses")
		return nil, fmt.Errorf("%w: load courses", ErrPersistence)
	}
	quizzes, err := s.attemptRepo.StatsByUser(ctx, userID, s.passingScore)
	if err != nil {
		logger.Error().Err(err).Msg("GetLearnerAnalytics: failed to aggregate quiz attempts")
		return nil, fmt.Errorf("%w: aggregate quiz attempts", ErrPersistence)
	}
	submissions, err := s.assignmentRepo.SubmissionStatsByUser(ctx, userID)
	if err != nil {
		logger.Error().Err(err).Msg("GetLearnerAnalytics: failed to aggregate submissions")
		return nil, fmt.Errorf("%w: aggregate submissions", ErrPersistence)
	}

	resp := &dto.LearnerAnalyticsDTO{
		UserID:               userID,
		EnrolledCoursesCount: len(enrollments),
		EnrolledCourses:      make([]dto.EnrolledCourseDTO, 0, len(enrollments)),
		QuizzesAttempted:     quizzes.Attempted,
		QuizzesPassed:        quizzes.Passed,
		AverageQuizScore:     int(math.Round(quizzes.AverageScore)),
		AssignmentsSubmitted: submissions.Submitted,
		AssignmentsGraded:    submissions.Graded,
	}
	for _, e := range enrollments {
		if e.Status == model.EnrollmentCompleted || e.ProgressPercentage >= 100 {
			resp.CompletedCoursesCount++
		}
		resp.EnrolledCourses = append(resp.EnrolledCourses, dto.EnrolledCourseDTO{
			CourseID:           e.CourseID,
			Title:              titles[e.CourseID],
			Status:             e.Status,
			ProgressPercentage: e.ProgressPercentage,
			EnrolledAt:         e.EnrolledAt,
		})
	}
	if resp.EnrolledCoursesCount > 0 {
		resp.CompletionRate = percent(float64(resp.CompletedCoursesCount), float64(resp.EnrolledCoursesCount))
	}
	if submissions.ScoredCount > 0 {
		resp.AverageAssignmentScore = int(math.Round(submissions.AverageScore))
	}
	actions := int64(len(enrollments)) + quizzes.Attempted + submissions.Submitted
	resp.EngagementScore = min(100, percent(float64(actions), engagementTarget))

	return resp, nil
}

func (s *analyticsService) courseTitles(ctx context.Context, enrollments []model.Enrollment) (map[string]string, error) {
	ids := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.CourseID)
	}
	courses, err := s.courseRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(courses))
	for _, c := range courses {
		titles[c.ID] = c.Title
	}
	return titles, nil
}

func percent(part, whole float64) int {
	return int(math.Round(part / whole * 100))
}
