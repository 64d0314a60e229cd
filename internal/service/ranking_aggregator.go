package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/tiredheron/Stufit/internal/dto"
	"github.com/tiredheron/Stufit/internal/model"
	"github.com/tiredheron/Stufit/internal/repository"
)

// ────────────────────── 周窗口 ──────────────────────

// WeekStart 返回 now 所在 ISO 周的周一零点（loc 时区）
func WeekStart(now time.Time, loc *time.Location) time.Time {
	t := now.In(loc)
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, loc)
}

// RankingWindow 返回 [上周一, 本周一, 下周一)
func RankingWindow(now time.Time, loc *time.Location) (prevStart, curStart, end time.Time) {
	curStart = WeekStart(now, loc)
	return curStart.AddDate(0, 0, -7), curStart, curStart.AddDate(0, 0, 7)
}

// ────────────────────── 时间格式 ──────────────────────

// FormatMinutes 分钟 → "{H}h {M}m"
func FormatMinutes(minutes int64) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// FormatSignedMinutes 带符号的分钟差，非负为 "+"
func FormatSignedMinutes(delta int64) string {
	if delta < 0 {
		return "-" + FormatMinutes(-delta)
	}
	return "+" + FormatMinutes(delta)
}

// ────────────────────── 聚合 ──────────────────────

// weekSeconds 本周 / 上周累计秒数
type weekSeconds struct {
	current int64
	last    int64
}

func bucketByUser(records []repository.StudyRecord, curStart time.Time) map[string]*weekSeconds {
	byUser := make(map[string]*weekSeconds)
	for _, r := range records {
		w, ok := byUser[r.UserID]
		if !ok {
			w = &weekSeconds{}
			byUser[r.UserID] = w
		}
		if r.EndTime.Before(curStart) {
			w.last += r.AccumulatedTime
		} else {
			w.current += r.AccumulatedTime
		}
	}
	return byUser
}

// BuildPersonalRanking 同学科个人排行。
// roster 需按 user_id 升序；两周均为 0 分钟的用户不上榜；同分按 roster 顺序。
func BuildPersonalRanking(
	callerID, department string,
	roster []model.User,
	records []repository.StudyRecord,
	curStart time.Time,
) *dto.PersonalRankingResponse {
	byUser := bucketByUser(records, curStart)

	entries := make([]dto.PersonalRankingEntry, 0)
	for _, u := range roster {
		if u.DepartmentName != department {
			continue
		}
		var current, last int64
		if w, ok := byUser[u.UserID]; ok {
			current, last = w.current/60, w.last/60
		}
		if current == 0 && last == 0 {
			continue
		}
		entries = append(entries, dto.PersonalRankingEntry{
			UserID:                u.UserID,
			Department:            u.DepartmentName,
			StudyTime:             FormatMinutes(current),
			StudyTimeMinutes:      current,
			WeeklyIncrease:        FormatSignedMinutes(current - last),
			WeeklyIncreaseMinutes: current - last,
			IsMe:                  u.UserID == callerID,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StudyTimeMinutes > entries[j].StudyTimeMinutes
	})

	resp := &dto.PersonalRankingResponse{
		TotalStudents: len(entries),
		Department:    department,
		MyStudyTime:   FormatMinutes(0),
		Rankings:      entries,
	}
	for i := range entries {
		entries[i].Rank = i + 1
		if entries[i].IsMe {
			rank := i + 1
			resp.MyRank = &rank
			resp.MyStudyTime = entries[i].StudyTime
		}
	}
	return resp
}

// BuildDepartmentRanking 全学科排行。
// 学生数统计学科内全部用户；本周为 0 分钟的学科不上榜；同分按学科名升序。
func BuildDepartmentRanking(
	myDepartment string,
	roster []model.User,
	records []repository.StudyRecord,
	curStart time.Time,
) *dto.DepartmentRankingResponse {
	students := make(map[string]int)
	for _, u := range roster {
		students[u.DepartmentName]++
	}
	seconds := make(map[string]int64)
	for _, r := range records {
		if !r.EndTime.Before(curStart) {
			seconds[r.DepartmentName] += r.AccumulatedTime
		}
	}

	names := make([]string, 0, len(students))
	for name := range students {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]dto.DepartmentRankingEntry, 0)
	for _, name := range names {
		total := seconds[name] / 60
		if total == 0 {
			continue
		}
		avg := total / int64(students[name])
		entries = append(entries, dto.DepartmentRankingEntry{
			Department:           name,
			TotalStudyTime:       FormatMinutes(total),
			TotalStudyMinutes:    total,
			AvgPerStudent:        FormatMinutes(avg),
			AvgPerStudentMinutes: avg,
			StudentCount:         students[name],
			IsMyDepartment:       name == myDepartment,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalStudyMinutes > entries[j].TotalStudyMinutes
	})

	resp := &dto.DepartmentRankingResponse{
		MyDepartment:          myDepartment,
		MyDepartmentTotalTime: FormatMinutes(seconds[myDepartment] / 60),
		Rankings:              entries,
	}
	for i := range entries {
		entries[i].Rank = i + 1
		if entries[i].IsMyDepartment {
			rank := i + 1
			resp.MyDepartmentRank = &rank
		}
	}
	return resp
}
