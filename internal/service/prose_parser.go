package service

import "regexp"

// TodosPerDayLegacy 文本导入路径中每个 Day 块分配的 Todo 数（默认值，可由 plan.todos_per_day_legacy 覆盖）
const TodosPerDayLegacy = 4

// dayMarkerPattern 匹配 "Day 3 (3/4~3/5)" 形式的 Day 标记，括号内只允许日期字符
var dayMarkerPattern = regexp.MustCompile(`Day\s*\d+\s*\(\s*\d[\d\-/.~ ]*\)`)

// ExtractDayMarkers 按出现顺序返回文本中的全部 Day 标记
func ExtractDayMarkers(text string) []string {
	return dayMarkerPattern.FindAllString(text, -1)
}

// DistributeTodos 返回每个 Todo 所属的块下标。
// 第 i 个 Todo 分到 floor(i/perDay) 块，超出块数的部分全部落入最后一块。
func DistributeTodos(todoCount, blockCount, perDay int) []int {
	if blockCount <= 0 || todoCount <= 0 {
		return nil
	}
	if perDay <= 0 {
		perDay = TodosPerDayLegacy
	}
	assign := make([]int, todoCount)
	for i := range assign {
		block := i / perDay
		if block >= blockCount {
			block = blockCount - 1
		}
		assign[i] = block
	}
	return assign
}
