package service

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/tiredheron/Stufit/internal/repository"
)

func strPtr(s string) *string { return &s }

func treeRow(planID, dailyID, todoID string) repository.PlanTreeRow {
	row := repository.PlanTreeRow{PlanID: planID, PlanTitle: "title " + planID}
	if dailyID != "" {
		row.DailyID = strPtr(dailyID)
		row.DailyTitle = strPtr("Day " + dailyID)
		d := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		row.DailyStartDate = &d
	}
	if todoID != "" {
		row.TodoID = strPtr(todoID)
		row.TodoTitle = strPtr("todo " + todoID)
		row.StatusID = strPtr("NOT_STARTED")
		row.AccumulatedTime = int64Ptr(0)
	}
	return row
}

func TestAssemblePlanTree_EmptyDailyKeepsEmptyTodos(t *testing.T) {
	rows := []repository.PlanTreeRow{
		treeRow("u-0001", "u-0001-0001", "u-0001-0001-0001"),
		treeRow("u-0001", "u-0001-0002", ""),
	}

	tree := AssemblePlanTree(rows)
	if len(tree) != 1 || len(tree[0].DailyPlans) != 2 {
		t.Fatalf("期望 1 个计划 2 个日计划，实际 %+v", tree)
	}
	empty := tree[0].DailyPlans[1]
	if empty.Todos == nil || len(empty.Todos) != 0 {
		t.Fatalf("空日计划应为 todos: []，实际 %#v", empty.Todos)
	}

	raw, _ := json.Marshal(empty)
	if !strings.Contains(string(raw), `"todos":[]`) {
		t.Errorf("JSON 中应为 \"todos\":[]，实际 %s", raw)
	}
}

func TestAssemblePlanTree_PlanWithoutDaily(t *testing.T) {
	tree := AssemblePlanTree([]repository.PlanTreeRow{treeRow("u-0001", "", "")})
	if len(tree) != 1 {
		t.Fatalf("期望 1 个计划，实际 %d", len(tree))
	}
	if tree[0].DailyPlans == nil || len(tree[0].DailyPlans) != 0 {
		t.Errorf("无日计划时应为空数组，实际 %#v", tree[0].DailyPlans)
	}
}

func TestAssemblePlanTree_InterleavedOrder(t *testing.T) {
	rows := []repository.PlanTreeRow{
		treeRow("u-0002", "u-0002-0001", "u-0002-0001-0001"),
		treeRow("u-0001", "u-0001-0001", "u-0001-0001-0001"),
		treeRow("u-0002", "u-0002-0001", "u-0002-0001-0002"),
		treeRow("u-0001", "u-0001-0001", "u-0001-0001-0002"),
		treeRow("u-0002", "u-0002-0002", "u-0002-0002-0001"),
	}

	tree := AssemblePlanTree(rows)
	if len(tree) != 2 {
		t.Fatalf("期望 2 个计划，实际 %d", len(tree))
	}
	if tree[0].PlanID != "u-0002" || tree[1].PlanID != "u-0001" {
		t.Errorf("计划应保持首次出现顺序，实际 %s, %s", tree[0].PlanID, tree[1].PlanID)
	}

	first := tree[0].DailyPlans
	if len(first) != 2 || len(first[0].Todos) != 2 || len(first[1].Todos) != 1 {
		t.Fatalf("u-0002 结构错误: %+v", first)
	}
	if first[0].Todos[0].TodoID != "u-0002-0001-0001" || first[0].Todos[1].TodoID != "u-0002-0001-0002" {
		t.Errorf("Todo 应保持行顺序，实际 %+v", first[0].Todos)
	}
	if first[0].StartDate != "2024-03-01" {
		t.Errorf("日计划日期应规范化为 2024-03-01，实际 %s", first[0].StartDate)
	}
	if got := len(tree[1].DailyPlans[0].Todos); got != 2 {
		t.Errorf("u-0001 应有 2 个 Todo，实际 %d", got)
	}
}

func TestAssemblePlanTree_Empty(t *testing.T) {
	tree := AssemblePlanTree(nil)
	if tree == nil || len(tree) != 0 {
		t.Errorf("无数据时应返回空数组，实际 %#v", tree)
	}
}
