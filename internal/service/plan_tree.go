package service

import (
	"time"

	"github.com/tiredheron/Stufit/internal/dto"
	"github.com/tiredheron/Stufit/internal/repository"
	"github.com/tiredheron/Stufit/pkg/caldate"
)

// AssemblePlanTree 将 plans ⋈ daily_plans ⋈ todos 的扁平行还原为树。
// 计划与日计划保持首次出现的顺序，Todo 保持行顺序；没有 Todo 的日计划输出空数组。
func AssemblePlanTree(rows []repository.PlanTreeRow) []dto.PlanNode {
	plans := make([]dto.PlanNode, 0)
	planIdx := make(map[string]int)
	// key: daily_id → (计划下标, 日计划下标)
	dailyIdx := make(map[string][2]int)

	for _, row := range rows {
		pi, ok := planIdx[row.PlanID]
		if !ok {
			plans = append(plans, dto.PlanNode{
				PlanID:      row.PlanID,
				Title:       row.PlanTitle,
				Description: row.PlanDescription,
				DailyPlans:  make([]dto.DailyPlanNode, 0),
			})
			pi = len(plans) - 1
			planIdx[row.PlanID] = pi
		}

		if row.DailyID == nil {
			continue
		}
		pos, ok := dailyIdx[*row.DailyID]
		if !ok {
			node := dto.DailyPlanNode{
				DailyID: *row.DailyID,
				Title:   deref(row.DailyTitle),
				Todos:   make([]dto.TodoNode, 0),
			}
			if row.DailyStartDate != nil {
				node.StartDate = caldate.Normalize(*row.DailyStartDate)
			}
			plans[pi].DailyPlans = append(plans[pi].DailyPlans, node)
			pos = [2]int{pi, len(plans[pi].DailyPlans) - 1}
			dailyIdx[*row.DailyID] = pos
		}

		// 左连接产生的空 Todo 行
		if row.TodoID == nil {
			continue
		}
		todo := dto.TodoNode{
			TodoID:   *row.TodoID,
			Title:    deref(row.TodoTitle),
			Content:  deref(row.TodoContent),
			StatusID: deref(row.StatusID),
			EndTime:  formatTimestamp(row.EndTime),
		}
		if row.AccumulatedTime != nil {
			todo.AccumulatedTime = *row.AccumulatedTime
		}
		daily := &plans[pos[0]].DailyPlans[pos[1]]
		daily.Todos = append(daily.Todos, todo)
	}
	return plans
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
