// Package caldate 提供与时区无关的日历日期运算（YYYY-MM-DD）。
package caldate

import (
	"fmt"
	"time"
)

// Layout 日期字符串格式
const Layout = "2006-01-02"

// Parse 解析 YYYY-MM-DD，返回 UTC 零点的 time.Time
func Parse(iso string) (time.Time, error) {
	t, err := time.Parse(Layout, iso)
	if err != nil {
		return time.Time{}, fmt.Errorf("无效日期 %q: %w", iso, err)
	}
	return t, nil
}

// Normalize 取 t 自身的年月日分量格式化为 YYYY-MM-DD，不做时区换算
func Normalize(t time.Time) string {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Format(Layout)
}

// AddDays 在日历日期上加减天数，自动处理跨月跨年
func AddDays(iso string, days int) (string, error) {
	t, err := Parse(iso)
	if err != nil {
		return "", err
	}
	y, m, d := t.Date()
	return time.Date(y, m, d+days, 0, 0, 0, 0, time.UTC).Format(Layout), nil
}

// DayDate 计算计划第 day 天（从 1 开始）对应的日期
func DayDate(start string, day int) (string, error) {
	if day < 1 {
		return "", fmt.Errorf("day 必须从 1 开始，实际为 %d", day)
	}
	return AddDays(start, day-1)
}

// Today 返回 loc 时区下的当天日期
func Today(now time.Time, loc *time.Location) string {
	return Normalize(now.In(loc))
}

// TodayDate 返回 loc 时区下当天的 UTC 零点
func TodayDate(now time.Time, loc *time.Location) time.Time {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
