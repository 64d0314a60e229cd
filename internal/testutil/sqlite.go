// Package testutil 提供基于内存 SQLite 的 gorm 测试数据库。
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tiredheron/Stufit/internal/model"
)

var dbSeq atomic.Int64

// NewDB 创建独立的内存数据库，完成建表并写入状态字典
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		t.Fatalf("打开 SQLite 失败: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取 sql.DB 失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("AutoMigrate 失败: %v", err)
	}
	statuses := model.DefaultTodoStatuses()
	if err := db.Create(&statuses).Error; err != nil {
		t.Fatalf("写入状态字典失败: %v", err)
	}
	return db
}

// Date 构造 UTC 零点日期
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SeedUser 插入用户
func SeedUser(t *testing.T, db *gorm.DB, userID, department string) *model.User {
	t.Helper()
	u := &model.User{UserID: userID, PasswordHash: "x", UniversityName: "한국대학교", DepartmentName: department}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("插入用户 %s 失败: %v", userID, err)
	}
	return u
}

// SeedPlan 插入计划，start 为零值时 start_date 为 NULL
func SeedPlan(t *testing.T, db *gorm.DB, planID, userID string, start time.Time) *model.Plan {
	t.Helper()
	p := &model.Plan{PlanID: planID, UserID: userID, Title: "plan " + planID}
	if !start.IsZero() {
		p.StartDate = &start
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("插入计划 %s 失败: %v", planID, err)
	}
	return p
}

// SeedDaily 插入日计划
func SeedDaily(t *testing.T, db *gorm.DB, dailyID, planID string, date time.Time) *model.DailyPlan {
	t.Helper()
	d := &model.DailyPlan{DailyID: dailyID, PlanID: planID, Title: dailyID, StartDate: date, EndDate: date}
	if err := db.Create(d).Error; err != nil {
		t.Fatalf("插入日计划 %s 失败: %v", dailyID, err)
	}
	return d
}

// SeedTodo 插入 Todo
func SeedTodo(t *testing.T, db *gorm.DB, todo model.Todo) *model.Todo {
	t.Helper()
	if todo.StatusID == "" {
		todo.StatusID = model.StatusNotStarted
	}
	if todo.Title == "" {
		todo.Title = todo.TodoID
	}
	if err := db.Create(&todo).Error; err != nil {
		t.Fatalf("插入 Todo %s 失败: %v", todo.TodoID, err)
	}
	return &todo
}
