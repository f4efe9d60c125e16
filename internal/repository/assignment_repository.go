package repository

import (
	"context"

	"github.com/lshigami/Learnhub/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubmissionStats struct {
	Submitted    int64
	Graded       int64
	ScoredCount  int64
	AverageScore float64
}

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.Assignment) error
	// FindByID preloads the owning course.
	FindByID(ctx context.Context, id string) (*model.Assignment, error)
	FindSubmission(ctx context.Context, assignmentID, userID string) (*model.Submission, error)
	// FindSubmissionByID preloads the assignment and its course.
	FindSubmissionByID(ctx context.Context, id string) (*model.Submission, error)
	CreateSubmission(ctx context.Context, submission *model.Submission) error
	UpdateSubmission(ctx context.Context, submission *model.Submission) error
	ListSubmissions(ctx context.Context, assignmentID, status string) ([]model.Submission, error)
	SubmissionStatsByUser(ctx context.Context, userID string) (SubmissionStats, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *model.Assignment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(assignment).Error
}

func (r *assignmentRepository) FindByID(ctx context.Context, id string) (*model.Assignment, error) {
	var assignment model.Assignment
	if err := r.db.WithContext(ctx).Preload("Course").First(&assignment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) FindSubmission(ctx context.Context, assignmentID, userID string) (*model.Submission, error) {
	var submission model.Submission
	err := r.db.WithContext(ctx).
		Where("assignment_id = ? AND user_id = ?", assignmentID, userID).
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *assignmentRepository) FindSubmissionByID(ctx context.Context, id string) (*model.Submission, error) {
	var submission model.Submission
	if err := r.db.WithContext(ctx).Preload("Assignment.Course").First(&submission, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// CreateSubmission fails with gorm.ErrDuplicatedKey when the learner already submitted.
func (r *assignmentRepository) CreateSubmission(ctx context.Context, submission *model.Submission) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(submission).Error
}

func (r *assignmentRepository) UpdateSubmission(ctx context.Context, submission *model.Submission) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(submission).Error
}

func (r *assignmentRepository) ListSubmissions(ctx context.Context, assignmentID, status string) ([]model.Submission, error) {
	query := r.db.WithContext(ctx).Where("assignment_id = ?", assignmentID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var submissions []model.Submission
	err := query.Order("submitted_at DESC, id DESC").Find(&submissions).Error
	return submissions, err
}

func (r *assignmentRepository) SubmissionStatsByUser(ctx context.Context, userID string) (SubmissionStats, error) {
	var stats SubmissionStats
	err := r.db.WithContext(ctx).
		Model(&model.Submission{}).
		Select("COUNT(*) AS submitted, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS graded, "+
			"COUNT(score) AS scored_count, "+
			"COALESCE(AVG(score), 0) AS average_score", model.SubmissionGraded).
		Where("user_id = ?", userID).
		Scan(&stats).Error
	return stats, err
}
