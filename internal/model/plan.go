package model

import "time"

// Plan 学习计划，对应 plans
// PlanID 形如 "<user_id>-0001"
type Plan struct {
	PlanID      string     `gorm:"type:varchar(64);primaryKey"              json:"plan_id"`
	UserID      string     `gorm:"type:varchar(50);not null;index"          json:"user_id"`
	Title       string     `gorm:"type:varchar(200);not null"               json:"title"`
	Description string     `gorm:"type:text;not null;default:''"            json:"description"`
	StartDate   *time.Time `gorm:"type:date"                                json:"start_date,omitempty"`
	EndDate     *time.Time `gorm:"type:date"                                json:"end_date,omitempty"`
	IsAIPlan    bool       `gorm:"column:is_ai_plan;not null;default:false" json:"is_ai_plan"`
	Timestamps

	// 关联
	DailyPlans []DailyPlan `gorm:"foreignKey:PlanID" json:"daily_plans,omitempty"`
}

func (Plan) TableName() string { return "plans" }

// DailyPlan 日计划，对应 daily_plans
// DailyID 形如 "<plan_id>-0001"（结构化导入）或 "<plan_id>-day01"（文本导入）
type DailyPlan struct {
	DailyID     string    `gorm:"type:varchar(80);primaryKey"              json:"daily_id"`
	PlanID      string    `gorm:"type:varchar(64);not null;index"          json:"plan_id"`
	Title       string    `gorm:"type:varchar(200);not null"               json:"title"`
	Description string    `gorm:"type:text;not null;default:''"            json:"description"`
	StartDate   time.Time `gorm:"type:date;not null"                       json:"start_date"`
	EndDate     time.Time `gorm:"type:date;not null"                       json:"end_date"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"       json:"created_at"`
	IsAIPlan    bool      `gorm:"column:is_ai_plan;not null;default:false" json:"is_ai_plan"`

	// 关联
	Todos []Todo `gorm:"foreignKey:DailyID" json:"todos,omitempty"`
}

func (DailyPlan) TableName() string { return "daily_plans" }
