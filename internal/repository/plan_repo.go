package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tiredheron/Stufit/internal/model"
)

// PlanTreeRow plans ⋈ daily_plans ⋈ todos 左连接的一行
// 日计划或 Todo 不存在时对应列为 NULL
type PlanTreeRow struct {
	PlanID          string
	PlanTitle       string
	PlanDescription string
	PlanStartDate   *time.Time
	DailyID         *string
	DailyTitle      *string
	DailyStartDate  *time.Time
	TodoID          *string
	TodoTitle       *string
	TodoContent     *string
	StatusID        *string
	EndTime         *time.Time
	AccumulatedTime *int64
}

// PlanRepository 学习计划数据访问接口
type PlanRepository interface {
	Create(ctx context.Context, plan *model.Plan) error
	GetByID(ctx context.Context, planID string) (*model.Plan, error)
	ListByUser(ctx context.Context, userID string) ([]model.Plan, error)
	UpdateDescription(ctx context.Context, planID, description string) error
	// TreeRowsByUser 按 计划创建时间 → 日计划日期 → daily_id → todo_id 排序
	TreeRowsByUser(ctx context.Context, userID string) ([]PlanTreeRow, error)
	TreeRowsByPlan(ctx context.Context, planID string) ([]PlanTreeRow, error)
}

type planRepo struct {
	db *gorm.DB
}

// NewPlanRepo 创建 PlanRepository 实例
func NewPlanRepo(db *gorm.DB) PlanRepository {
	return &planRepo{db: db}
}

func (r *planRepo) Create(ctx context.Context, plan *model.Plan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *planRepo) GetByID(ctx context.Context, planID string) (*model.Plan, error) {
	var plan model.Plan
	err := r.db.WithContext(ctx).
		Where("plan_id = ?", planID).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepo) ListByUser(ctx context.Context, userID string) ([]model.Plan, error) {
	var plans []model.Plan
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, plan_id DESC").
		Find(&plans).Error
	return plans, err
}

func (r *planRepo) UpdateDescription(ctx context.Context, planID, description string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Plan{}).
		Where("plan_id = ?", planID).
		Updates(map[string]interface{}{
			"description": description,
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *planRepo) TreeRowsByUser(ctx context.Context, userID string) ([]PlanTreeRow, error) {
	var rows []PlanTreeRow
	err := r.treeQuery(ctx).
		Where("p.user_id = ?", userID).
		Scan(&rows).Error
	return rows, err
}

func (r *planRepo) TreeRowsByPlan(ctx context.Context, planID string) ([]PlanTreeRow, error) {
	var rows []PlanTreeRow
	err := r.treeQuery(ctx).
		Where("p.plan_id = ?", planID).
		Scan(&rows).Error
	return rows, err
}

func (r *planRepo) treeQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("plans AS p").
		Select(`p.plan_id AS plan_id,
			p.title AS plan_title,
			p.description AS plan_description,
			p.start_date AS plan_start_date,
			d.daily_id AS daily_id,
			d.title AS daily_title,
			d.start_date AS daily_start_date,
			t.todo_id AS todo_id,
			t.title AS todo_title,
			t.content AS todo_content,
			t.status_id AS status_id,
			t.end_time AS end_time,
			t.accumulated_time AS accumulated_time`).
		Joins("LEFT JOIN daily_plans AS d ON d.plan_id = p.plan_id").
		Joins("LEFT JOIN todos AS t ON t.daily_id = d.daily_id").
		Order("p.created_at ASC, p.plan_id ASC, d.start_date ASC, d.daily_id ASC, t.todo_id ASC")
}
