package service

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/tiredheron/Stufit/internal/model"
	"github.com/tiredheron/Stufit/internal/repository"
	apperrors "github.com/tiredheron/Stufit/pkg/errors"
)

func setupTestRankingService() (*rankingService, *mockUserRepo, *mockRankingRepo) {
	users := newMockUserRepo()
	ranking := &mockRankingRepo{}
	repo := &repository.Repository{User: users, Ranking: ranking}
	svc := NewRankingService(newTestConfig(), repo, zap.NewNop()).(*rankingService)
	svc.now = fixedNow
	return svc, users, ranking
}

func TestRankingService_Personal(t *testing.T) {
	svc, users, ranking := setupTestRankingService()
	users.users["U1"] = &model.User{UserID: "U1", DepartmentName: "CS"}
	users.users["U2"] = &model.User{UserID: "U2", DepartmentName: "CS"}
	users.users["U3"] = &model.User{UserID: "U3", DepartmentName: "CS"}
	ranking.records = []repository.StudyRecord{
		record("U1", "CS", 120, thisWeek),
		record("U2", "CS", 180, thisWeek),
		record("U3", "CS", 180, thisWeek),
		// 窗口之外
		record("U1", "CS", 999, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
	}

	resp, err := svc.GetPersonalRanking(context.Background(), "U1")
	if err != nil {
		t.Fatalf("GetPersonalRanking 失败: %v", err)
	}
	if resp.MyRank == nil || *resp.MyRank != 3 {
		t.Errorf("U1 应为第 3 名，实际 %v", resp.MyRank)
	}
	if resp.Rankings[0].UserID != "U2" || resp.Rankings[1].UserID != "U3" {
		t.Errorf("同分应按 user_id 顺序，实际 %+v", resp.Rankings)
	}
	if resp.MyStudyTime != "2h 0m" {
		t.Errorf("窗口外记录不应计入，实际 %s", resp.MyStudyTime)
	}
}

func TestRankingService_Department(t *testing.T) {
	svc, users, ranking := setupTestRankingService()
	users.users["A"] = &model.User{UserID: "A", DepartmentName: "CS"}
	users.users["B"] = &model.User{UserID: "B", DepartmentName: "Math"}
	ranking.records = []repository.StudyRecord{
		record("A", "CS", 30, thisWeek),
		record("B", "Math", 90, thisWeek),
	}

	resp, err := svc.GetDepartmentRanking(context.Background(), "A")
	if err != nil {
		t.Fatalf("GetDepartmentRanking 失败: %v", err)
	}
	if resp.MyDepartment != "CS" || resp.MyDepartmentRank == nil || *resp.MyDepartmentRank != 2 {
		t.Errorf("结果错误: %+v", resp)
	}
}

func TestRankingService_UserNotFound(t *testing.T) {
	svc, _, _ := setupTestRankingService()

	_, err := svc.GetPersonalRanking(context.Background(), "ghost")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("ErrUserNotFound 应归类为 NotFound，实际: %v", err)
	}
}

func TestRankingService_RetriesOnceOnConnectionLoss(t *testing.T) {
	svc, users, ranking := setupTestRankingService()
	users.users["A"] = &model.User{UserID: "A", DepartmentName: "CS"}
	ranking.records = []repository.StudyRecord{record("A", "CS", 60, thisWeek)}
	ranking.errOnce = driver.ErrBadConn

	resp, err := svc.GetPersonalRanking(context.Background(), "A")
	if err != nil {
		t.Fatalf("连接丢失应自动重试一次: %v", err)
	}
	if ranking.calls != 2 {
		t.Errorf("期望调用 2 次，实际 %d", ranking.calls)
	}
	if resp.MyRank == nil || *resp.MyRank != 1 {
		t.Errorf("重试后结果错误: %+v", resp)
	}
}

func TestRankingService_StorageError(t *testing.T) {
	svc, users, ranking := setupTestRankingService()
	users.users["A"] = &model.User{UserID: "A", DepartmentName: "CS"}
	ranking.err = errInjected

	_, err := svc.GetPersonalRanking(context.Background(), "A")
	if !errors.Is(err, apperrors.ErrStorage) {
		t.Errorf("期望 StorageError，实际: %v", err)
	}
	if ranking.calls != 1 {
		t.Errorf("非连接错误不应重试，实际调用 %d 次", ranking.calls)
	}
}
