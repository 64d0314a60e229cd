package service

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractDayMarkers(t *testing.T) {
	text := `학습 계획
Day 1 (3/1~3/2): 기초 문법
내용...
Day2(3/3) 심화
Day 3 without parens
Day 10 ( 3/10 ~ 3/12 ) 복습`

	got := ExtractDayMarkers(text)
	want := []string{"Day 1 (3/1~3/2)", "Day2(3/3)", "Day 10 ( 3/10 ~ 3/12 )"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("期望 %v，实际 %v", want, got)
	}
}

func TestExtractDayMarkers_None(t *testing.T) {
	if got := ExtractDayMarkers("그냥 텍스트입니다"); len(got) != 0 {
		t.Errorf("无标记时应返回空，实际 %v", got)
	}
}

func TestExtractDayMarkers_IgnoresNonDateParentheticals(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			"正文中再次提到 Day",
			"Day 1 (2024-03-01) read ch1. Reminder: see Day 1 (notes above) and Day 2 (optional)",
			[]string{"Day 1 (2024-03-01)"},
		},
		{
			"括号内非日期",
			"Day 1 (Mon) 문법\nDay 2 (3.2) 독해",
			[]string{"Day 2 (3.2)"},
		},
		{
			"超长说明不会成为标题",
			"Day 3 (" + strings.Repeat("아주 긴 설명 ", 40) + ")",
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractDayMarkers(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("期望 %v，实际 %v", tt.want, got)
			}
		})
	}
}

func TestDistributeTodos_NineItemsTwoBlocks(t *testing.T) {
	got := DistributeTodos(9, 2, TodosPerDayLegacy)
	want := []int{0, 0, 0, 0, 1, 1, 1, 1, 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("期望 %v，实际 %v", want, got)
	}

	counts := make([]int, 2)
	for _, b := range got {
		counts[b]++
	}
	if counts[0] != 4 || counts[1] != 5 {
		t.Errorf("期望 4/5 分配，实际 %d/%d", counts[0], counts[1])
	}
}

func TestDistributeTodos(t *testing.T) {
	tests := []struct {
		name   string
		todos  int
		blocks int
		perDay int
		want   []int
	}{
		{"少于一块", 3, 3, 4, []int{0, 0, 0}},
		{"恰好填满", 8, 2, 4, []int{0, 0, 0, 0, 1, 1, 1, 1}},
		{"单块全部溢出", 6, 1, 4, []int{0, 0, 0, 0, 0, 0}},
		{"自定义比例", 5, 3, 2, []int{0, 0, 1, 1, 2}},
		{"比例非法回退默认", 5, 2, 0, []int{0, 0, 0, 0, 1}},
		{"无 Todo", 0, 2, 4, nil},
		{"无块", 3, 0, 4, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistributeTodos(tt.todos, tt.blocks, tt.perDay)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("期望 %v，实际 %v", tt.want, got)
			}
		})
	}
}
