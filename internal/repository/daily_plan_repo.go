package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tiredheron/Stufit/internal/model"
)

// DailyPlanRepository 日计划数据访问接口
type DailyPlanRepository interface {
	Create(ctx context.Context, daily *model.DailyPlan) error
	ListByPlan(ctx context.Context, planID string) ([]model.DailyPlan, error)
}

type dailyPlanRepo struct {
	db *gorm.DB
}

// NewDailyPlanRepo 创建 DailyPlanRepository 实例
func NewDailyPlanRepo(db *gorm.DB) DailyPlanRepository {
	return &dailyPlanRepo{db: db}
}

func (r *dailyPlanRepo) Create(ctx context.Context, daily *model.DailyPlan) error {
	return r.db.WithContext(ctx).Create(daily).Error
}

func (r *dailyPlanRepo) ListByPlan(ctx context.Context, planID string) ([]model.DailyPlan, error) {
	var dailies []model.DailyPlan
	err := r.db.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order("start_date ASC, daily_id ASC").
		Find(&dailies).Error
	return dailies, err
}
