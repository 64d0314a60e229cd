package service

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tiredheron/Stufit/config"
	"github.com/tiredheron/Stufit/internal/repository"
	"github.com/tiredheron/Stufit/internal/testutil"
)

// ── 测试辅助 ──

func newTestConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-key-for-unit-tests",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
		},
		AI: config.AIConfig{
			SessionTTL: time.Hour,
		},
		Plan: config.PlanConfig{
			Timezone:          "UTC",
			TodosPerDayLegacy: TodosPerDayLegacy,
		},
	}
}

// fixedNow 2024-03-13（周三）10:00 UTC
func fixedNow() time.Time {
	return time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)
}

func newTestRepo(t *testing.T) (*gorm.DB, *repository.Repository) {
	t.Helper()
	db := testutil.NewDB(t)
	return db, repository.NewRepository(db)
}

func newTestPlanService(repo *repository.Repository, ai PlanGenerator, sessions SessionStore) *planService {
	svc := NewPlanService(newTestConfig(), repo, ai, sessions, zap.NewNop()).(*planService)
	svc.now = fixedNow
	return svc
}

// failOnNthTodoInsert 第 n 次写入 todos 表时注入错误
func failOnNthTodoInsert(t *testing.T, db *gorm.DB, n int) {
	t.Helper()
	count := 0
	err := db.Callback().Create().Before("gorm:create").Register("test:fail_todo_insert", func(tx *gorm.DB) {
		if tx.Statement.Table != "todos" {
			return
		}
		count++
		if count == n {
			_ = tx.AddError(errInjected)
		}
	})
	if err != nil {
		t.Fatalf("注册回调失败: %v", err)
	}
}

func countRows(t *testing.T, db *gorm.DB, table, where string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Table(table).Where(where, args...).Count(&n).Error; err != nil {
		t.Fatalf("统计 %s 失败: %v", table, err)
	}
	return n
}

func int64Ptr(v int64) *int64 { return &v }
