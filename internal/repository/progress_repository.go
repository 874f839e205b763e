package repository

import (
	"context"
	"studyplan_backend/internal/model"

	"gorm.io/gorm"
)

// ProgressRepository reads the append-only learner interaction logs. The
// aggregator always pulls everything for (user, plan) in bulk and groups in
// memory, so each call here is a single indexed query.
type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) ReadingCompletions(ctx context.Context, userID uint, planID string) ([]model.ReadingCompletion, error) {
	var recs []model.ReadingCompletion
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND plan_id = ?", userID, planID).
		Find(&recs).Error
	return recs, err
}

func (r *ProgressRepository) ReadingTimeLogs(ctx context.Context, userID uint, planID string) ([]model.ReadingTimeLog, error) {
	var logs []model.ReadingTimeLog
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND plan_id = ?", userID, planID).
		Find(&logs).Error
	return logs, err
}

func (r *ProgressRepository) QuizAttempts(ctx context.Context, userID uint, planID string) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND plan_id = ?", userID, planID).
		Find(&attempts).Error
	return attempts, err
}

func (r *ProgressRepository) RevisionAttempts(ctx context.Context, userID uint, planID string) ([]model.RevisionAttempt, error) {
	var attempts []model.RevisionAttempt
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND plan_id = ?", userID, planID).
		Find(&attempts).Error
	return attempts, err
}

func (r *ProgressRepository) StageTimeLogs(ctx context.Context, userID uint, planID string) ([]model.StageTimeLog, error) {
	var logs []model.StageTimeLog
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND plan_id = ?", userID, planID).
		Find(&logs).Error
	return logs, err
}
