package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Learnhub/internal/dto"
	"github.com/lshigami/Learnhub/internal/model"
	"github.com/lshigami/Learnhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	msgSubmissionCreated = "Assignment submitted successfully"
	msgSubmissionUpdated = "Submission updated successfully"
	msgSubmissionGraded  = "Submission graded successfully"
)

// AssignmentService handles instructor assignments and the learners' submissions.
type AssignmentService interface {
	CreateAssignment(ctx context.Context, caller Caller, req dto.AssignmentCreateDTO) (*dto.AssignmentResponseDTO, error)
	// Submit stores the caller's submission. A second submission replaces the
	// first and sends it back to pending; created reports which case applied.
	Submit(ctx context.Context, caller Caller, req dto.SubmissionCreateDTO) (ack *dto.SubmissionAckDTO, created bool, err error)
	GetSubmission(ctx context.Context, caller Caller, assignmentID, userID string) (*dto.SubmissionDTO, error)
	Grade(ctx context.Context, caller Caller, req dto.GradeSubmissionDTO) (*dto.GradeResponseDTO, error)
	ListSubmissions(ctx context.Context, caller Caller, assignmentID, status string) ([]dto.SubmissionDTO, error)
}

type assignmentService struct {
	courseRepo     repository.CourseRepository
	assignmentRepo repository.AssignmentRepository
	enrollmentRepo repository.EnrollmentRepository
	now            func() time.Time
}

func NewAssignmentService(
	courseRepo repository.CourseRepository,
	assignmentRepo repository.AssignmentRepository,
	enrollmentRepo repository.EnrollmentRepository,
) AssignmentService {
	return newAssignmentService(courseRepo, assignmentRepo, enrollmentRepo)
}

func newAssignmentService(
	courseRepo repository.CourseRepository,
	assignmentRepo repository.AssignmentRepository,
	enrollmentRepo repository.EnrollmentRepository,
) *assignmentService {
	return &assignmentService{
		courseRepo:     courseRepo,
		assignmentRepo: assignmentRepo,
		enrollmentRepo: enrollmentRepo,
		now:            time.Now,
	}
}

func (s *assignmentService) CreateAssignment(ctx context.Context, caller Caller, req dto.AssignmentCreateDTO) (*dto.AssignmentResponseDTO, error) {
	if !caller.Elevated() {
		return nil, fmt.Errorf("%w: only instructors can create assignments", ErrForbidden)
	}

	course, err := s.courseRepo.FindByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: course %s", ErrNotFound, req.CourseID)
		}
		log.Error().Err(err).Str("courseID", req.CourseID).Msg("CreateAssignment: course lookup failed")
		return nil, fmt.Errorf("%w: load course", ErrPersistence)
	}
	if caller.Role == RoleInstructor && course.InstructorID != nil && *course.InstructorID != caller.UserID {
		return nil, fmt.Errorf("%w: course %s belongs to another instructor", ErrForbidden, course.ID)
	}
	if req.ModuleID != nil {
		module, err := s.courseRepo.FindModuleByID(ctx, *req.ModuleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: module %s", ErrNotFound, *req.ModuleID)
			}
			log.Error().Err(err).Str("moduleID", *req.ModuleID).Msg("CreateAssignment: module lookup failed")
			return nil, fmt.Errorf("%w: load module", ErrPersistence)
		}
		if module.CourseID != course.ID {
			return nil, fmt.Errorf("%w: module %s does not belong to course %s", ErrValidation, module.ID, course.ID)
		}
	}

	var assignment model.Assignment
	if err := copier.Copy(&assignment, &req); err != nil {
		log.Error().Err(err).Msg("CreateAssignment: failed to map request")
		return nil, fmt.Errorf("error preparing assignment: %w", err)
	}
	if assignment.MaxScore == 0 {
		assignment.MaxScore = 100
	}
	if assignment.SubmissionType == "" {
		assignment.SubmissionType = model.SubmissionTypeGithub
	}

	if err := s.assignmentRepo.Create(ctx, &assignment); err != nil {
		log.Error().Err(err).Str("courseID", course.ID).Msg("CreateAssignment: failed to create assignment")
		return nil, fmt.Errorf("%w: create assignment", ErrPersistence)
	}
	log.Info().Str("assignmentID", assignment.ID).Str("courseID", course.ID).Str("by", caller.UserID).Msg("Assignment created")

	var resp dto.AssignmentResponseDTO
	if err := copier.Copy(&resp, &assignment); err != nil {
		log.Error().Err(err).Msg("CreateAssignment: failed to map response")
		return nil, fmt.Errorf("error preparing response data: %w", err)
	}
	return &resp, nil
}

func (s *assignmentService) Submit(ctx context.Context, caller Caller, req dto.SubmissionCreateDTO) (*dto.SubmissionAckDTO, bool, error) {
	if strings.TrimSpace(req.AssignmentID) == "" || strings.TrimSpace(req.SubmissionURL) == "" {
		return nil, false, fmt.Errorf("%w: assignmentId and submissionUrl are required", ErrValidation)
	}

	assignment, err := s.loadAssignment(ctx, req.AssignmentID)
	if err != nil {
		return nil, false, err
	}
	if err := requireEnrollment(ctx, s.enrollmentRepo, caller.UserID, assignment.CourseID); err != nil {
		return nil, false, err
	}

	now := s.now().UTC()
	existing, err := s.assignmentRepo.FindSubmission(ctx, assignment.ID, caller.UserID)
	switch {
	case err == nil:
		existing.SubmissionURL = req.SubmissionURL
		existing.SubmissionText = req.SubmissionText
		existing.SubmittedAt = now
		existing.Status = model.SubmissionPending
		existing.Score, existing.InstructorFeedback = nil, nil
		existing.GradedBy, existing.GradedAt = nil, nil
		if err := s.assignmentRepo.UpdateSubmission(ctx, existing); err != nil {
			log.Error().Err(err).Str("submissionID", existing.ID).Msg("Submit: failed to update submission")
			return nil, false, fmt.Errorf("%w: update submission", ErrPersistence)
		}
		log.Info().Str("submissionID", existing.ID).Str("userID", caller.UserID).Msg("Submission updated")
		return submissionAck(existing, msgSubmissionUpdated), false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		log.Error().Err(err).Str("assignmentID", assignment.ID).Str("userID", caller.UserID).Msg("Submit: lookup failed")
		return nil, false, fmt.Errorf("%w: load submission", ErrPersistence)
	}

	submission := &model.Submission{
		AssignmentID:   assignment.ID,
		UserID:         caller.UserID,
		SubmissionURL:  req.SubmissionURL,
		SubmissionText: req.SubmissionText,
		SubmittedAt:    now,
		Status:         model.SubmissionPending,
	}
	if err := s.assignmentRepo.CreateSubmission(ctx, submission); err != nil {
		log.Error().Err(err).Str("assignmentID", assignment.ID).Str("userID", caller.UserID).Msg("Submit: failed to create submission")
		return nil, false, fmt.Errorf("%w: create submission", ErrPersistence)
	}
	log.Info().Str("submissionID", submission.ID).Str("userID", caller.UserID).Msg("Assignment submitted")
	return submissionAck(submission, msgSubmissionCreated), true, nil
}

func (s *assignmentService) GetSubmission(ctx context.Context, caller Caller, assignmentID, userID string) (*dto.SubmissionDTO, error) {
	if assignmentID == "" {
		return nil, fmt.Errorf("%w: assignmentId is required", ErrValidation)
	}
	if userID == "" {
		userID = caller.UserID
	}
	if userID != caller.UserID && !caller.Elevated() {
		return nil, fmt.Errorf("%w: cannot view another user's submission", ErrForbidden)
	}

	submission, err := s.assignmentRepo.FindSubmission(ctx, assignmentID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no submission for assignment %s", ErrNotFound, assignmentID)
		}
		log.Error().Err(err).Str("assignmentID", assignmentID).Str("userID", userID).Msg("GetSubmission: lookup failed")
		return nil, fmt.Errorf("%w: load submission", ErrPersistence)
	}
	resp := toSubmissionDTO(submission)
	return &resp, nil
}

// Grade records a score and feedback. Only the course's instructor or an admin may grade.
func (s *assignmentService) Grade(ctx context.Context, caller Caller, req dto.GradeSubmissionDTO) (*dto.GradeResponseDTO, error) {
	if req.SubmissionID == "" || req.Score == nil || strings.TrimSpace(req.InstructorFeedback) == "" {
		return nil, fmt.Errorf("%w: submissionId, score and instructorFeedback are required", ErrValidation)
	}

	submission, err := s.assignmentRepo.FindSubmissionByID(ctx, req.SubmissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: submission %s", ErrNotFound, req.SubmissionID)
		}
		log.Error().Err(err).Str("submissionID", req.SubmissionID).Msg("Grade: lookup failed")
		return nil, fmt.Errorf("%w: load submission", ErrPersistence)
	}
	if !canGrade(caller, &submission.Assignment.Course) {
		return nil, fmt.Errorf("%w: only the course instructor can grade this submission", ErrForbidden)
	}
	if *req.Score < 0 || *req.Score > submission.Assignment.MaxScore {
		return nil, fmt.Errorf("%w: score must be between 0 and %d", ErrValidation, submission.Assignment.MaxScore)
	}

	now := s.now().UTC()
	score, feedback, grader := *req.Score, req.InstructorFeedback, caller.UserID
	submission.Score = &score
	submission.InstructorFeedback = &feedback
	submission.Status = model.SubmissionGraded
	submission.GradedBy = &grader
	submission.GradedAt = &now
	if err := s.assignmentRepo.UpdateSubmission(ctx, submission); err != nil {
		log.Error().Err(err).Str("submissionID", submission.ID).Msg("Grade: failed to save grade")
		return nil, fmt.Errorf("%w: save grade", ErrPersistence)
	}
	log.Info().Str("submissionID", submission.ID).Int("score", score).Str("by", caller.UserID).Msg("Submission graded")

	return &dto.GradeResponseDTO{Message: msgSubmissionGraded, Submission: toSubmissionDTO(submission)}, nil
}

func (s *assignmentService) ListSubmissions(ctx context.Context, caller Caller, assignmentID, status string) ([]dto.SubmissionDTO, error) {
	if assignmentID == "" {
		return nil, fmt.Errorf("%w: assignmentId is required", ErrValidation)
	}
	if status != "" && status != model.SubmissionPending && status != model.SubmissionGraded && status != model.SubmissionRevisionNeeded {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	assignment, err := s.loadAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if !canGrade(caller, &assignment.Course) {
		return nil, fmt.Errorf("%w: only the course instructor can list submissions", ErrForbidden)
	}

	submissions, err := s.assignmentRepo.ListSubmissions(ctx, assignmentID, status)
	if err != nil {
		log.Error().Err(err).Str("assignmentID", assignmentID).Msg("ListSubmissions: query failed")
		return nil, fmt.Errorf("%w: list submissions", ErrPersistence)
	}
	out := make([]dto.SubmissionDTO, len(submissions))
	for i := range submissions {
		out[i] = toSubmissionDTO(&submissions[i])
	}
	return out, nil
}

func (s *assignmentService) loadAssignment(ctx context.Context, id string) (*model.Assignment, error) {
	assignment, err := s.assignmentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: assignment %s", ErrNotFound, id)
		}
		log.Error().Err(err).Str("assignmentID", id).Msg("loadAssignment: lookup failed")
		return nil, fmt.Errorf("%w: load assignment", ErrPersistence)
	}
	return assignment, nil
}

func canGrade(caller Caller, course *model.Course) bool {
	if caller.Role == RoleAdmin {
		return true
	}
	return caller.Role == RoleInstructor && course.InstructorID != nil && *course.InstructorID == caller.UserID
}

func submissionAck(sub *model.Submission, message string) *dto.SubmissionAckDTO {
	return &dto.SubmissionAckDTO{Message: message, SubmissionID: sub.ID, Status: sub.Status, SubmittedAt: sub.SubmittedAt}
}

func toSubmissionDTO(sub *model.Submission) dto.SubmissionDTO {
	return dto.SubmissionDTO{
		ID:                 sub.ID,
		AssignmentID:       sub.AssignmentID,
		UserID:             sub.UserID,
		SubmissionURL:      sub.SubmissionURL,
		SubmissionText:     sub.SubmissionText,
		SubmittedAt:        sub.SubmittedAt,
		Score:              sub.Score,
		InstructorFeedback: sub.InstructorFeedback,
		Status:             sub.Status,
		GradedBy:           sub.GradedBy,
		GradedAt:           sub.GradedAt,
	}
}
