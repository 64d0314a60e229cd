package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tiredheron/Stufit/internal/model"
)

// OwnedTodo 带所属用户的 Todo
type OwnedTodo struct {
	model.Todo
	UserID string
}

// TodoListRow 某日待办列表的一行
type TodoListRow struct {
	TodoID          string
	Title           string
	Content         string
	EndTime         *time.Time
	AccumulatedTime int64
	StatusID        string
	StatusName      string
	DailyID         string
	DailyTitle      string
}

// TodoRepository 待办数据访问接口
type TodoRepository interface {
	Create(ctx context.Context, todo *model.Todo) error
	// GetOwnedForUpdate 锁定 Todo 行并返回其所属用户，需在事务中调用
	GetOwnedForUpdate(ctx context.Context, todoID string) (*OwnedTodo, error)
	GetOwner(ctx context.Context, todoID string) (string, error)
	UpdateStatus(ctx context.Context, todoID, statusID string, endTime *time.Time) error
	// AddTime 原子累加 accumulated_time（秒）
	AddTime(ctx context.Context, todoID string, seconds int64) error
	// ListByUserAndDate 返回 date 落在日计划区间内的全部 Todo
	ListByUserAndDate(ctx context.Context, userID string, date time.Time) ([]TodoListRow, error)
	// SumTimeByUserAndDate 统计 date 当天日计划下的累计学习秒数
	SumTimeByUserAndDate(ctx context.Context, userID string, date time.Time) (int64, error)
}

type todoRepo struct {
	db *gorm.DB
}

// NewTodoRepo 创建 TodoRepository 实例
func NewTodoRepo(db *gorm.DB) TodoRepository {
	return &todoRepo{db: db}
}

func (r *todoRepo) Create(ctx context.Context, todo *model.Todo) error {
	return r.db.WithContext(ctx).Create(todo).Error
}

func (r *todoRepo) GetOwnedForUpdate(ctx context.Context, todoID string) (*OwnedTodo, error) {
	var todo model.Todo
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("todo_id = ?", todoID).
		First(&todo).Error
	if err != nil {
		return nil, err
	}
	owner, err := r.GetOwner(ctx, todoID)
	if err != nil {
		return nil, err
	}
	return &OwnedTodo{Todo: todo, UserID: owner}, nil
}

func (r *todoRepo) GetOwner(ctx context.Context, todoID string) (string, error) {
	var owners []string
	err := r.db.WithContext(ctx).
		Table("todos AS t").
		Select("p.user_id").
		Joins("JOIN daily_plans AS d ON d.daily_id = t.daily_id").
		Joins("JOIN plans AS p ON p.plan_id = d.plan_id").
		Where("t.todo_id = ?", todoID).
		Limit(1).
		Scan(&owners).Error
	if err != nil {
		return "", err
	}
	if len(owners) == 0 {
		return "", gorm.ErrRecordNotFound
	}
	return owners[0], nil
}

func (r *todoRepo) UpdateStatus(ctx context.Context, todoID, statusID string, endTime *time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.Todo{}).
		Where("todo_id = ?", todoID).
		Updates(map[string]interface{}{
			"status_id": statusID,
			"end_time":  endTime,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *todoRepo) AddTime(ctx context.Context, todoID string, seconds int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Todo{}).
		Where("todo_id = ?", todoID).
		Update("accumulated_time", gorm.Expr("accumulated_time + ?", seconds))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *todoRepo) ListByUserAndDate(ctx context.Context, userID string, date time.Time) ([]TodoListRow, error) {
	var rows []TodoListRow
	err := r.db.WithContext(ctx).
		Table("todos AS t").
		Select(`t.todo_id AS todo_id,
			t.title AS title,
			t.content AS content,
			t.end_time AS end_time,
			t.accumulated_time AS accumulated_time,
			t.status_id AS status_id,
			s.status_name AS status_name,
			d.daily_id AS daily_id,
			d.title AS daily_title`).
		Joins("JOIN daily_plans AS d ON d.daily_id = t.daily_id").
		Joins("JOIN plans AS p ON p.plan_id = d.plan_id").
		Joins("JOIN todo_statuses AS s ON s.status_id = t.status_id").
		Where("p.user_id = ? AND d.start_date <= ? AND d.end_date >= ?", userID, date, date).
		Order("d.start_date ASC, d.daily_id ASC, t.todo_id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *todoRepo) SumTimeByUserAndDate(ctx context.Context, userID string, date time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Table("todos AS t").
		Select("COALESCE(SUM(t.accumulated_time), 0)").
		Joins("JOIN daily_plans AS d ON d.daily_id = t.daily_id").
		Joins("JOIN plans AS p ON p.plan_id = d.plan_id").
		Where("p.user_id = ? AND d.start_date <= ? AND d.end_date >= ?", userID, date, date).
		Scan(&total).Error
	return total, err
}
