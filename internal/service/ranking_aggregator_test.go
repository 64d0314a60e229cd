package service

import (
	"testing"
	"time"

	"github.com/tiredheron/Stufit/internal/model"
	"github.com/tiredheron/Stufit/internal/repository"
)

var (
	curWeek  = time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC) // 周一
	thisWeek = time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC)
	lastWeek = time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)
)

func record(userID, dept string, minutes int64, end time.Time) repository.StudyRecord {
	return repository.StudyRecord{UserID: userID, DepartmentName: dept, AccumulatedTime: minutes * 60, EndTime: end}
}

func roster(users ...[2]string) []model.User {
	result := make([]model.User, 0, len(users))
	for _, u := range users {
		result = append(result, model.User{UserID: u[0], DepartmentName: u[1]})
	}
	return result
}

// ── 周窗口 ──

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"周三", time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC), curWeek},
		{"周一零点", curWeek, curWeek},
		{"周日深夜", time.Date(2024, 3, 17, 23, 59, 0, 0, time.UTC), curWeek},
		{"跨年", time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"跨月", time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC), time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekStart(tt.now, time.UTC); !got.Equal(tt.want) {
				t.Errorf("期望 %v，实际 %v", tt.want, got)
			}
		})
	}
}

func TestWeekStart_UsesLocation(t *testing.T) {
	seoul := time.FixedZone("KST", 9*3600)
	// UTC 周日 20:00 = 首尔周一 05:00
	now := time.Date(2024, 3, 17, 20, 0, 0, 0, time.UTC)
	got := WeekStart(now, seoul)
	want := time.Date(2024, 3, 18, 0, 0, 0, 0, seoul)
	if !got.Equal(want) {
		t.Errorf("期望 %v，实际 %v", want, got)
	}
}

func TestRankingWindow(t *testing.T) {
	prev, cur, end := RankingWindow(fixedNow(), time.UTC)
	if !prev.Equal(curWeek.AddDate(0, 0, -7)) || !cur.Equal(curWeek) || !end.Equal(curWeek.AddDate(0, 0, 7)) {
		t.Errorf("窗口错误: %v %v %v", prev, cur, end)
	}
}

// ── 时间格式 ──

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0h 0m"},
		{59, "0h 59m"},
		{60, "1h 0m"},
		{185, "3h 5m"},
	}
	for _, tt := range tests {
		if got := FormatMinutes(tt.in); got != tt.want {
			t.Errorf("FormatMinutes(%d) 期望 %s，实际 %s", tt.in, tt.want, got)
		}
	}
}

func TestFormatSignedMinutes(t *testing.T) {
	if got := FormatSignedMinutes(50 - 80); got != "-0h 30m" {
		t.Errorf("期望 -0h 30m，实际 %s", got)
	}
	if got := FormatSignedMinutes(90); got != "+1h 30m" {
		t.Errorf("期望 +1h 30m，实际 %s", got)
	}
	if got := FormatSignedMinutes(0); got != "+0h 0m" {
		t.Errorf("期望 +0h 0m，实际 %s", got)
	}
}

// ── 个人排行 ──

func TestBuildPersonalRanking_TieAndOrder(t *testing.T) {
	users := roster([2]string{"U1", "CS"}, [2]string{"U2", "CS"}, [2]string{"U3", "CS"})
	records := []repository.StudyRecord{
		record("U1", "CS", 120, thisWeek),
		record("U2", "CS", 100, thisWeek),
		record("U2", "CS", 80, thisWeek),
		record("U3", "CS", 180, thisWeek),
	}

	resp := BuildPersonalRanking("U1", "CS", users, records, curWeek)
	if len(resp.Rankings) != 3 || resp.TotalStudents != 3 {
		t.Fatalf("期望 3 人上榜，实际 %+v", resp.Rankings)
	}
	order := []string{resp.Rankings[0].UserID, resp.Rankings[1].UserID, resp.Rankings[2].UserID}
	if order[0] != "U2" || order[1] != "U3" || order[2] != "U1" {
		t.Errorf("同分应按 user_id 顺序，期望 [U2 U3 U1]，实际 %v", order)
	}
	for i, e := range resp.Rankings {
		if e.Rank != i+1 {
			t.Errorf("第 %d 项 rank 应为 %d，实际 %d", i, i+1, e.Rank)
		}
	}
	if resp.MyRank == nil || *resp.MyRank != 3 {
		t.Errorf("U1 应为第 3 名，实际 %v", resp.MyRank)
	}
	if resp.MyStudyTime != "2h 0m" {
		t.Errorf("期望 myStudyTime=2h 0m，实际 %s", resp.MyStudyTime)
	}
	if !resp.Rankings[2].IsMe || resp.Rankings[0].IsMe {
		t.Error("isMe 标记错误")
	}
}

func TestBuildPersonalRanking_ExcludesInactive(t *testing.T) {
	users := roster([2]string{"A", "CS"}, [2]string{"Z", "CS"})
	records := []repository.StudyRecord{record("A", "CS", 30, thisWeek)}

	resp := BuildPersonalRanking("Z", "CS", users, records, curWeek)
	for _, e := range resp.Rankings {
		if e.UserID == "Z" {
			t.Fatal("两周均为 0 的用户不应上榜")
		}
	}
	if resp.MyRank != nil {
		t.Errorf("未上榜时 myRank 应为 null，实际 %d", *resp.MyRank)
	}
	if resp.MyStudyTime != "0h 0m" {
		t.Errorf("未上榜时 myStudyTime 应为 0h 0m，实际 %s", resp.MyStudyTime)
	}
	if resp.TotalStudents != 1 {
		t.Errorf("期望 totalStudents=1，实际 %d", resp.TotalStudents)
	}
}

func TestBuildPersonalRanking_WeeklyDecrease(t *testing.T) {
	users := roster([2]string{"A", "CS"})
	records := []repository.StudyRecord{
		record("A", "CS", 80, lastWeek),
		record("A", "CS", 50, thisWeek),
	}

	resp := BuildPersonalRanking("A", "CS", users, records, curWeek)
	if len(resp.Rankings) != 1 {
		t.Fatalf("期望 1 人上榜，实际 %d", len(resp.Rankings))
	}
	e := resp.Rankings[0]
	if e.WeeklyIncrease != "-0h 30m" || e.WeeklyIncreaseMinutes != -30 {
		t.Errorf("期望 -0h 30m / -30，实际 %s / %d", e.WeeklyIncrease, e.WeeklyIncreaseMinutes)
	}
	if e.StudyTime != "0h 50m" {
		t.Errorf("期望 0h 50m，实际 %s", e.StudyTime)
	}
}

func TestBuildPersonalRanking_LastWeekOnlyStillListed(t *testing.T) {
	users := roster([2]string{"A", "CS"})
	records := []repository.StudyRecord{record("A", "CS", 45, lastWeek)}

	resp := BuildPersonalRanking("A", "CS", users, records, curWeek)
	if len(resp.Rankings) != 1 {
		t.Fatalf("上周有记录的用户应上榜，实际 %d", len(resp.Rankings))
	}
	if resp.Rankings[0].StudyTime != "0h 0m" || resp.Rankings[0].WeeklyIncrease != "-0h 45m" {
		t.Errorf("结果错误: %+v", resp.Rankings[0])
	}
}

func TestBuildPersonalRanking_OnlySameDepartment(t *testing.T) {
	users := roster([2]string{"A", "CS"}, [2]string{"B", "Math"})
	records := []repository.StudyRecord{
		record("A", "CS", 10, thisWeek),
		record("B", "Math", 500, thisWeek),
	}

	resp := BuildPersonalRanking("A", "CS", users, records, curWeek)
	if len(resp.Rankings) != 1 || resp.Rankings[0].UserID != "A" {
		t.Errorf("只应包含同学科用户，实际 %+v", resp.Rankings)
	}
	if resp.Department != "CS" {
		t.Errorf("期望 department=CS，实际 %s", resp.Department)
	}
}

func TestBuildPersonalRanking_SecondsTruncatedAfterSum(t *testing.T) {
	users := roster([2]string{"A", "CS"})
	records := []repository.StudyRecord{
		{UserID: "A", DepartmentName: "CS", AccumulatedTime: 40, EndTime: thisWeek},
		{UserID: "A", DepartmentName: "CS", AccumulatedTime: 40, EndTime: thisWeek},
	}

	resp := BuildPersonalRanking("A", "CS", users, records, curWeek)
	if len(resp.Rankings) != 1 || resp.Rankings[0].StudyTimeMinutes != 1 {
		t.Errorf("80 秒应计为 1 分钟，实际 %+v", resp.Rankings)
	}
}

// ── 学科排行 ──

func TestBuildDepartmentRanking(t *testing.T) {
	users := roster(
		[2]string{"A", "CS"}, [2]string{"B", "CS"}, [2]string{"C", "CS"},
		[2]string{"D", "Math"},
		[2]string{"E", "Art"},
	)
	records := []repository.StudyRecord{
		record("A", "CS", 100, thisWeek),
		record("B", "CS", 100, thisWeek),
		record("D", "Math", 250, thisWeek),
		record("E", "Art", 300, lastWeek),
	}

	resp := BuildDepartmentRanking("CS", users, records, curWeek)
	if len(resp.Rankings) != 2 {
		t.Fatalf("本周为 0 的学科不应上榜，实际 %+v", resp.Rankings)
	}

	math, cs := resp.Rankings[0], resp.Rankings[1]
	if math.Department != "Math" || math.Rank != 1 {
		t.Errorf("Math 应为第 1，实际 %+v", math)
	}
	if cs.Department != "CS" || cs.Rank != 2 || !cs.IsMyDepartment {
		t.Errorf("CS 应为第 2 且标记为本学科，实际 %+v", cs)
	}
	if cs.StudentCount != 3 {
		t.Errorf("学生数应统计学科全部用户，期望 3，实际 %d", cs.StudentCount)
	}
	if cs.TotalStudyTime != "3h 20m" || cs.AvgPerStudent != "1h 6m" || cs.AvgPerStudentMinutes != 66 {
		t.Errorf("CS 合计/人均错误: %+v", cs)
	}
	if resp.MyDepartmentRank == nil || *resp.MyDepartmentRank != 2 {
		t.Errorf("期望 myDepartmentRank=2，实际 %v", resp.MyDepartmentRank)
	}
	if resp.MyDepartmentTotalTime != "3h 20m" {
		t.Errorf("期望 myDepartmentTotalTime=3h 20m，实际 %s", resp.MyDepartmentTotalTime)
	}
}

func TestBuildDepartmentRanking_MyDepartmentInactive(t *testing.T) {
	users := roster([2]string{"A", "CS"}, [2]string{"B", "Math"})
	records := []repository.StudyRecord{record("B", "Math", 30, thisWeek)}

	resp := BuildDepartmentRanking("CS", users, records, curWeek)
	if resp.MyDepartmentRank != nil {
		t.Errorf("本学科未上榜时应为 null，实际 %d", *resp.MyDepartmentRank)
	}
	if resp.MyDepartmentTotalTime != "0h 0m" {
		t.Errorf("期望 0h 0m，实际 %s", resp.MyDepartmentTotalTime)
	}
}

func TestBuildDepartmentRanking_TieByName(t *testing.T) {
	users := roster([2]string{"A", "Math"}, [2]string{"B", "Bio"})
	records := []repository.StudyRecord{
		record("A", "Math", 60, thisWeek),
		record("B", "Bio", 60, thisWeek),
	}

	resp := BuildDepartmentRanking("Math", users, records, curWeek)
	if resp.Rankings[0].Department != "Bio" || resp.Rankings[1].Department != "Math" {
		t.Errorf("同分应按学科名升序，实际 %+v", resp.Rankings)
	}
}
