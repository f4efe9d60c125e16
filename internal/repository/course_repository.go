package repository

import (
	"context"

	"github.com/lshigami/Learnhub/internal/model"
	"gorm.io/gorm"
)

type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	FindByID(ctx context.Context, id string) (*model.Course, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Course, error)
	CreateModule(ctx context.Context, module *model.CourseModule) error
	FindModuleByID(ctx context.Context, id string) (*model.CourseModule, error)
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) FindByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	if err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Course, error) {
	var courses []model.Course
	if len(ids) == 0 {
		return courses, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&courses).Error
	return courses, err
}

func (r *courseRepository) CreateModule(ctx context.Context, module *model.CourseModule) error {
	return r.db.WithContext(ctx).Create(module).Error
}

func (r *courseRepository) FindModuleByID(ctx context.Context, id string) (*model.CourseModule, error) {
	var module model.CourseModule
	if err := r.db.WithContext(ctx).First(&module, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &module, nil
}
