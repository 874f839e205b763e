package repository

import (
	"context"
	"studyplan_backend/internal/model"

	"gorm.io/gorm"
)

type ExamConfigRepository struct {
	DB *gorm.DB
}

func NewExamConfigRepository(db *gorm.DB) *ExamConfigRepository {
	return &ExamConfigRepository{DB: db}
}

func (r *ExamConfigRepository) ByKey(ctx context.Context, key string) (*model.ExamConfig, error) {
	var cfg model.ExamConfig
	err := r.DB.WithContext(ctx).Where("`key` = ?", key).First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
