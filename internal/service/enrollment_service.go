package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lshigami/Learnhub/internal/model"
	"github.com/lshigami/Learnhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

const AuditActionUnenroll = "unenroll"

type EnrollmentService interface {
	Unenroll(ctx context.Context, caller Caller, courseID string) error
}

type enrollmentService struct {
	enrollmentRepo repository.EnrollmentRepository
	auditRepo      repository.AuditLogRepository
}

func NewEnrollmentService(enrollmentRepo repository.EnrollmentRepository, auditRepo repository.AuditLogRepository) EnrollmentService {
	return &enrollmentService{enrollmentRepo: enrollmentRepo, auditRepo: auditRepo}
}

// Unenroll removes the caller's enrollment. Quiz attempts are kept.
func (s *enrollmentService) Unenroll(ctx context.Context, caller Caller, courseID string) error {
	if courseID == "" {
		return fmt.Errorf("%w: courseId is required", ErrValidation)
	}

	removed, err := s.enrollmentRepo.DeleteByUserCourse(ctx, caller.UserID, courseID)
	if err != nil {
		log.Error().Err(err).Str("userID", caller.UserID).Str("courseID", courseID).Msg("Unenroll: delete failed")
		return fmt.Errorf("%w: delete enrollment", ErrPersistence)
	}
	if removed == 0 {
		return fmt.Errorf("%w: not enrolled in course %s", ErrNotFound, courseID)
	}

	details, _ := json.Marshal(map[string]string{"course_id": courseID})
	entry := &model.AuditLog{
		Action:       AuditActionUnenroll,
		PerformedBy:  caller.UserID,
		TargetUserID: caller.UserID,
		Details:      datatypes.JSON(details),
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		// the enrollment is already gone; a missing audit row must not fail the request
		log.Warn().Err(err).Str("userID", caller.UserID).Str("courseID", courseID).Msg("Unenroll: failed to write audit log")
	}

	log.Info().Str("userID", caller.UserID).Str("courseID", courseID).Msg("User unenrolled")
	return nil
}
