package repository

import (
	"context"

	"github.com/lshigami/Learnhub/internal/model"
	"gorm.io/gorm"
)

const (
	DefaultAttemptPageSize = 50
	MaxAttemptPageSize     = 200
)

type AttemptFilter struct {
	UserID   string
	CourseID string
	LessonID string // optional
	Limit    int
	Offset   int
}

// QuizAttemptRepository is append-only: there is no update or delete.
type QuizAttemptRepository interface {
	Create(ctx context.Context, attempt *model.QuizAttempt) error
	List(ctx context.Context, filter AttemptFilter) ([]model.QuizAttempt, error)
	Count(ctx context.Context, filter AttemptFilter) (int64, error)
	// StatsByUser aggregates every attempt of a user across courses.
	StatsByUser(ctx context.Context, userID string, passingScore int) (AttemptStats, error)
}

type AttemptStats struct {
	Attempted    int64
	Passed       int64
	AverageScore float64
}

type quizAttemptRepository struct {
	db *gorm.DB
}

func NewQuizAttemptRepository(db *gorm.DB) QuizAttemptRepository {
	return &quizAttemptRepository{db: db}
}

// Create inserts the attempt row in a single statement.
func (r *quizAttemptRepository) Create(ctx context.Context, attempt *model.QuizAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *quizAttemptRepository) List(ctx context.Context, filter AttemptFilter) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.filtered(ctx, filter).
		Order("attempted_at DESC, id DESC").
		Limit(ClampPageSize(filter.Limit)).
		Offset(max(filter.Offset, 0)).
		Find(&attempts).Error
	return attempts, err
}

func (r *quizAttemptRepository) Count(ctx context.Context, filter AttemptFilter) (int64, error) {
	var n int64
	err := r.filtered(ctx, filter).Model(&model.QuizAttempt{}).Count(&n).Error
	return n, err
}

func (r *quizAttemptRepository) StatsByUser(ctx context.Context, userID string, passingScore int) (AttemptStats, error) {
	var stats AttemptStats
	err := r.db.WithContext(ctx).
		Model(&model.QuizAttempt{}).
		Select("COUNT(*) AS attempted, COALESCE(SUM(CASE WHEN score >= ? THEN 1 ELSE 0 END), 0) AS passed, COALESCE(AVG(score), 0) AS average_score", passingScore).
		Where("user_id = ?", userID).
		Scan(&stats).Error
	return stats, err
}

func (r *quizAttemptRepository) filtered(ctx context.Context, filter AttemptFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Where("user_id = ? AND course_id = ?", filter.UserID, filter.CourseID)
	if filter.LessonID != "" {
		query = query.Where("lesson_id = ?", filter.LessonID)
	}
	return query
}

// ClampPageSize applies the default and maximum page sizes.
func ClampPageSize(limit int) int {
	switch {
	case limit <= 0:
		return DefaultAttemptPageSize
	case limit > MaxAttemptPageSize:
		return MaxAttemptPageSize
	default:
		return limit
	}
}
