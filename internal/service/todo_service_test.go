package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tiredheron/Stufit/internal/dto"
	"github.com/tiredheron/Stufit/internal/model"
	"github.com/tiredheron/Stufit/internal/testutil"
)

func setupTestTodoService(t *testing.T) (*gorm.DB, *todoService) {
	t.Helper()
	db, repo := newTestRepo(t)
	testutil.SeedUser(t, db, "alice", "CS")
	testutil.SeedUser(t, db, "bob", "CS")
	testutil.SeedPlan(t, db, "alice-0001", "alice", testutil.Date(2024, 3, 1))
	testutil.SeedDaily(t, db, "alice-0001-0001", "alice-0001", testutil.Date(2024, 3, 13))
	testutil.SeedTodo(t, db, model.Todo{TodoID: "alice-0001-0001-0001", DailyID: "alice-0001-0001"})
	testutil.SeedTodo(t, db, model.Todo{TodoID: "alice-0001-0001-0002", DailyID: "alice-0001-0001", StatusID: model.StatusInProgress})

	svc := NewTodoService(newTestConfig(), repo, zap.NewNop()).(*todoService)
	svc.now = fixedNow
	return db, svc
}

func loadTodo(t *testing.T, db *gorm.DB, id string) model.Todo {
	t.Helper()
	var todo model.Todo
	if err := db.First(&todo, "todo_id = ?", id).Error; err != nil {
		t.Fatalf("读取 Todo %s 失败: %v", id, err)
	}
	return todo
}

// ── 状态 ──

func TestNextEndTime(t *testing.T) {
	now := fixedNow()
	earlier := now.Add(-time.Hour)

	tests := []struct {
		name    string
		from    string
		to      string
		current *time.Time
		want    *time.Time
	}{
		{"进入 DONE", model.StatusInProgress, model.StatusDone, nil, &now},
		{"DONE 重复提交保留原值", model.StatusDone, model.StatusDone, &earlier, &earlier},
		{"离开 DONE 清空", model.StatusDone, model.StatusInProgress, &earlier, nil},
		{"非 DONE 之间切换", model.StatusNotStarted, model.StatusInProgress, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextEndTime(tt.from, tt.to, tt.current, now)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("期望 nil，实际 %v", *got)
			case tt.want != nil && (got == nil || !got.Equal(*tt.want)):
				t.Errorf("期望 %v，实际 %v", *tt.want, got)
			}
		})
	}
}

func TestTodoService_UpdateStatus_DoneThenRevert(t *testing.T) {
	db, svc := setupTestTodoService(t)
	ctx := context.Background()

	if err := svc.UpdateStatus(ctx, "alice", &dto.UpdateTodoStatusRequest{
		TodoID: "alice-0001-0001-0001", StatusID: model.StatusDone,
	}); err != nil {
		t.Fatalf("UpdateStatus 失败: %v", err)
	}
	todo := loadTodo(t, db, "alice-0001-0001-0001")
	if todo.StatusID != model.StatusDone || todo.EndTime == nil || !todo.EndTime.Equal(fixedNow()) {
		t.Fatalf("进入 DONE 应记录 end_time，实际 %+v", todo)
	}

	if err := svc.UpdateStatus(ctx, "alice", &dto.UpdateTodoStatusRequest{
		TodoID: "alice-0001-0001-0001", StatusID: model.StatusInProgress,
	}); err != nil {
		t.Fatalf("UpdateStatus 失败: %v", err)
	}
	todo = loadTodo(t, db, "alice-0001-0001-0001")
	if todo.StatusID != model.StatusInProgress || todo.EndTime != nil {
		t.Errorf("离开 DONE 应清空 end_time，实际 %+v", todo)
	}
}

func TestTodoService_UpdateStatus_Errors(t *testing.T) {
	_, svc := setupTestTodoService(t)
	ctx := context.Background()

	err := svc.UpdateStatus(ctx, "bob", &dto.UpdateTodoStatusRequest{TodoID: "alice-0001-0001-0001", StatusID: model.StatusDone})
	if !errors.Is(err, ErrTodoForbidden) {
		t.Errorf("期望 ErrTodoForbidden，实际: %v", err)
	}

	err = svc.UpdateStatus(ctx, "alice", &dto.UpdateTodoStatusRequest{TodoID: "nope", StatusID: model.StatusDone})
	if !errors.Is(err, ErrTodoNotFound) {
		t.Errorf("期望 ErrTodoNotFound，实际: %v", err)
	}

	err = svc.UpdateStatus(ctx, "alice", &dto.UpdateTodoStatusRequest{TodoID: "alice-0001-0001-0001", StatusID: "PAUSED"})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("期望 ErrInvalidStatus，实际: %v", err)
	}
}

// ── 计时 ──

func TestTodoService_AddTime(t *testing.T) {
	db, svc := setupTestTodoService(t)
	ctx := context.Background()

	for _, sec := range []int64{90, 30, 0} {
		if err := svc.AddTime(ctx, "alice", &dto.AddTodoTimeRequest{TodoID: "alice-0001-0001-0001", Seconds: int64Ptr(sec)}); err != nil {
			t.Fatalf("AddTime(%d) 失败: %v", sec, err)
		}
	}
	if got := loadTodo(t, db, "alice-0001-0001-0001").AccumulatedTime; got != 120 {
		t.Errorf("期望累计 120 秒，实际 %d", got)
	}
}

func TestTodoService_AddTime_Errors(t *testing.T) {
	db, svc := setupTestTodoService(t)
	ctx := context.Background()

	err := svc.AddTime(ctx, "alice", &dto.AddTodoTimeRequest{TodoID: "alice-0001-0001-0001", Seconds: int64Ptr(-10)})
	if !errors.Is(err, ErrInvalidSeconds) {
		t.Errorf("期望 ErrInvalidSeconds，实际: %v", err)
	}
	err = svc.AddTime(ctx, "bob", &dto.AddTodoTimeRequest{TodoID: "alice-0001-0001-0001", Seconds: int64Ptr(10)})
	if !errors.Is(err, ErrTodoForbidden) {
		t.Errorf("期望 ErrTodoForbidden，实际: %v", err)
	}
	err = svc.AddTime(ctx, "alice", &dto.AddTodoTimeRequest{TodoID: "nope", Seconds: int64Ptr(10)})
	if !errors.Is(err, ErrTodoNotFound) {
		t.Errorf("期望 ErrTodoNotFound，实际: %v", err)
	}

	if got := loadTodo(t, db, "alice-0001-0001-0001").AccumulatedTime; got != 0 {
		t.Errorf("失败的请求不应修改累计时间，实际 %d", got)
	}
}

// ── 列表 ──

func TestTodoService_ListByDate(t *testing.T) {
	_, svc := setupTestTodoService(t)

	resp, err := svc.ListByDate(context.Background(), "alice", "")
	if err != nil {
		t.Fatalf("ListByDate 失败: %v", err)
	}
	if len(resp.Todos) != 2 {
		t.Fatalf("今天（2024-03-13）应有 2 个 Todo，实际 %d", len(resp.Todos))
	}
	if resp.Todos[1].StatusName != "进行中" {
		t.Errorf("应带出状态名称，实际 %q", resp.Todos[1].StatusName)
	}

	other, err := svc.ListByDate(context.Background(), "alice", "2024-03-14")
	if err != nil {
		t.Fatalf("ListByDate 失败: %v", err)
	}
	if len(other.Todos) != 0 {
		t.Errorf("2024-03-14 不应有 Todo，实际 %d", len(other.Todos))
	}

	if _, err := svc.ListByDate(context.Background(), "alice", "13/03/2024"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("期望 ErrInvalidDate，实际: %v", err)
	}
}
