package repository

import (
	"context"

	"github.com/lshigami/Learnhub/internal/model"
	"gorm.io/gorm"
)

type LessonRepository interface {
	Create(ctx context.Context, lesson *model.Lesson) error
	// FindByID loads the lesson with its module so the owning course is known.
	FindByID(ctx context.Context, id string) (*model.Lesson, error)
	FindByModuleID(ctx context.Context, moduleID string) ([]model.Lesson, error)
}

type lessonRepository struct {
	db *gorm.DB
}

func NewLessonRepository(db *gorm.DB) LessonRepository {
	return &lessonRepository{db: db}
}

func (r *lessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	return r.db.WithContext(ctx).Omit("Module").Create(lesson).Error
}

func (r *lessonRepository) FindByID(ctx context.Context, id string) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := r.db.WithContext(ctx).Preload("Module").First(&lesson, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *lessonRepository) FindByModuleID(ctx context.Context, moduleID string) ([]model.Lesson, error) {
	var lessons []model.Lesson
	if err := r.db.WithContext(ctx).Where("module_id = ?", moduleID).Order("order_index ASC").Find(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}
