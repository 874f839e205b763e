package repository

import (
	"context"
	"studyplan_backend/internal/model"

	"gorm.io/gorm"
)

type PlanRepository struct {
	DB *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{DB: db}
}

func (r *PlanRepository) Create(ctx context.Context, plan *model.Plan) error {
	return r.DB.WithContext(ctx).Create(plan).Error
}

// CreateStats writes the derived summary record. Callers treat failures as
// non-fatal; the plan document stays valid without it.
func (r *PlanRepository) CreateStats(ctx context.Context, stats *model.PlanStats) error {
	return r.DB.WithContext(ctx).Create(stats).Error
}

func (r *PlanRepository) ByID(ctx context.Context, id string) (*model.Plan, error) {
	var plan model.Plan
	err := r.DB.WithContext(ctx).First(&plan, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) ByUser(ctx context.Context, userID uint) ([]model.Plan, error) {
	var plans []model.Plan
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&plans).Error
	return plans, err
}

func (r *PlanRepository) StatsByPlanID(ctx context.Context, planID string) (*model.PlanStats, error) {
	var stats model.PlanStats
	err := r.DB.WithContext(ctx).Where("plan_id = ?", planID).First(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
