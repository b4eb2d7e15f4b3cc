// Package model 定义排班引擎的核心数据模型
package model

import (
	"strings"
	"time"
)

// dayKeyLayout 日期键格式
const dayKeyLayout = "2006-01-02"

// ParseDay 解析 ISO 日期键
func ParseDay(day string) (time.Time, error) {
	return time.Parse(dayKeyLayout, day)
}

// IsWeekend 检查日期键是否为周末（周六/周日）
// 非 ISO 格式退化为 "Sat"/"Sun" 子串匹配
func IsWeekend(day string) bool {
	if t, err := ParseDay(day); err == nil {
		wd := t.Weekday()
		return wd == time.Saturday || wd == time.Sunday
	}
	return strings.Contains(day, "Sat") || strings.Contains(day, "Sun")
}

// WeekCount 返回排班周期覆盖的整周数（向上取整，至少 1）
func WeekCount(days int) int {
	if days <= 0 {
		return 1
	}
	return (days + 6) / 7
}

// CountWeekendDays 统计周末天数
func CountWeekendDays(days []string) int {
	n := 0
	for _, d := range days {
		if IsWeekend(d) {
			n++
		}
	}
	return n
}
