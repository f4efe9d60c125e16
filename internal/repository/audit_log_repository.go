package repository

import (
	"context"

	"github.com/lshigami/Learnhub/internal/model"
	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	ListByTarget(ctx context.Context, targetUserID string) ([]model.AuditLog, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditLogRepository) ListByTarget(ctx context.Context, targetUserID string) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	err := r.db.WithContext(ctx).
		Where("target_user_id = ?", targetUserID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}
