package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tiredheron/Stufit/config"
	"github.com/tiredheron/Stufit/internal/dto"
	"github.com/tiredheron/Stufit/internal/model"
	"github.com/tiredheron/Stufit/internal/repository"
	"github.com/tiredheron/Stufit/pkg/caldate"
	apperrors "github.com/tiredheron/Stufit/pkg/errors"
)

// ── Todo 模块业务错误 ──

var (
	ErrTodoNotFound   = apperrors.Wrap(apperrors.ErrNotFound, "Todo 不存在")
	ErrTodoForbidden  = errors.New("无权操作该 Todo")
	ErrInvalidStatus  = apperrors.Wrap(apperrors.ErrValidation, "status_id 必须为 NOT_STARTED / IN_PROGRESS / DONE")
	ErrInvalidSeconds = apperrors.Wrap(apperrors.ErrValidation, "seconds 不能为负数")
)

// TodoService Todo 生命周期业务接口
type TodoService interface {
	UpdateStatus(ctx context.Context, userID string, req *dto.UpdateTodoStatusRequest) error
	AddTime(ctx context.Context, userID string, req *dto.AddTodoTimeRequest) error
	ListByDate(ctx context.Context, userID, date string) (*dto.TodoListResponse, error)
}

type todoService struct {
	repo   *repository.Repository
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewTodoService 创建 TodoService 实例
func NewTodoService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) TodoService {
	return &todoService{
		repo:   repo,
		loc:    cfg.Plan.Location(),
		now:    time.Now,
		logger: logger,
	}
}

// ────────────────────── 状态 ──────────────────────

func (s *todoService) UpdateStatus(ctx context.Context, userID string, req *dto.UpdateTodoStatusRequest) error {
	if !model.IsValidStatus(req.StatusID) {
		return ErrInvalidStatus
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		todo, err := tx.Todo.GetOwnedForUpdate(ctx, req.TodoID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTodoNotFound
			}
			return err
		}
		if todo.UserID != userID {
			return ErrTodoForbidden
		}

		endTime := nextEndTime(todo.StatusID, req.StatusID, todo.EndTime, s.now())
		return tx.Todo.UpdateStatus(ctx, req.TodoID, req.StatusID, endTime)
	})
	if err != nil {
		if isDomainError(err) {
			return err
		}
		s.logger.Error("更新 Todo 状态失败", zap.String("todo_id", req.TodoID), zap.Error(err))
		return storageError("更新 Todo 状态", err)
	}
	return nil
}

// nextEndTime 计算状态变更后的 end_time：
// 进入 DONE 记录当前时间，已是 DONE 则保留原值；离开 DONE 清空。
func nextEndTime(from, to string, current *time.Time, now time.Time) *time.Time {
	if to != model.StatusDone {
		return nil
	}
	if from == model.StatusDone && current != nil {
		return current
	}
	t := now.UTC()
	return &t
}

// ────────────────────── 计时 ──────────────────────

func (s *todoService) AddTime(ctx context.Context, userID string, req *dto.AddTodoTimeRequest) error {
	if req.Seconds == nil || *req.Seconds < 0 {
		return ErrInvalidSeconds
	}

	owner, err := s.repo.Todo.GetOwner(ctx, req.TodoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTodoNotFound
		}
		s.logger.Error("查询 Todo 失败", zap.String("todo_id", req.TodoID), zap.Error(err))
		return storageError("查询 Todo", err)
	}
	if owner != userID {
		return ErrTodoForbidden
	}
	if *req.Seconds == 0 {
		return nil
	}

	if err := s.repo.Todo.AddTime(ctx, req.TodoID, *req.Seconds); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTodoNotFound
		}
		s.logger.Error("累加学习时间失败", zap.String("todo_id", req.TodoID), zap.Error(err))
		return storageError("累加学习时间", err)
	}
	return nil
}

// ────────────────────── 列表 ──────────────────────

func (s *todoService) ListByDate(ctx context.Context, userID, date string) (*dto.TodoListResponse, error) {
	if date == "" {
		date = caldate.Today(s.now(), s.loc)
	}
	day, err := caldate.Parse(date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	rows, err := s.repo.Todo.ListByUserAndDate(ctx, userID, day)
	if err != nil {
		s.logger.Error("查询待办列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, storageError("查询待办列表", err)
	}

	items := make([]dto.TodoItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.TodoItem{
			TodoID:          r.TodoID,
			Title:           r.Title,
			Content:         r.Content,
			EndTime:         formatTimestamp(r.EndTime),
			AccumulatedTime: r.AccumulatedTime,
			StatusID:        r.StatusID,
			StatusName:      r.StatusName,
			DailyID:         r.DailyID,
			DailyTitle:      r.DailyTitle,
		})
	}
	return &dto.TodoListResponse{Todos: items}, nil
}
