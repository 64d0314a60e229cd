package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tiredheron/Stufit/internal/model"
)

// StudyRecord 一条已完成 Todo 的学习记录
type StudyRecord struct {
	UserID          string
	DepartmentName  string
	AccumulatedTime int64
	EndTime         time.Time
}

// RankingRepository 排行榜原始数据读取接口
type RankingRepository interface {
	// DoneRecords 返回 end_time ∈ [from, to) 的 DONE 记录，按 user_id、todo_id 升序
	DoneRecords(ctx context.Context, from, to time.Time) ([]StudyRecord, error)
}

type rankingRepo struct {
	db *gorm.DB
}

// NewRankingRepo 创建 RankingRepository 实例
func NewRankingRepo(db *gorm.DB) RankingRepository {
	return &rankingRepo{db: db}
}

func (r *rankingRepo) DoneRecords(ctx context.Context, from, to time.Time) ([]StudyRecord, error) {
	var records []StudyRecord
	err := r.db.WithContext(ctx).
		Table("todos AS t").
		Select(`u.user_id AS user_id,
			u.department_name AS department_name,
			t.accumulated_time AS accumulated_time,
			t.end_time AS end_time`).
		Joins("JOIN daily_plans AS d ON d.daily_id = t.daily_id").
		Joins("JOIN plans AS p ON p.plan_id = d.plan_id").
		Joins("JOIN users AS u ON u.user_id = p.user_id").
		Where("t.status_id = ? AND t.end_time IS NOT NULL AND t.end_time >= ? AND t.end_time < ?",
			model.StatusDone, from.UTC(), to.UTC()).
		Order("u.user_id ASC, t.todo_id ASC").
		Scan(&records).Error
	return records, err
}
