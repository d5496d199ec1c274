package repository

import (
	"context"

	"github.com/edgecloak/edgecloak/pkg/domain/accesslog"
	"gorm.io/gorm"
)

type accessLogRepository struct {
	db *gorm.DB
}

func NewAccessLogRepository(db *gorm.DB) accesslog.Repository {
	return &accessLogRepository{db: db}
}

func (r *accessLogRepository) Save(ctx context.Context, entry *accesslog.AccessLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
