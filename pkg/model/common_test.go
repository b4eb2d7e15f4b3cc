package model

import "testing"

func TestIsWeekend(t *testing.T) {
	tests := []struct {
		day      string
		expected bool
	}{
		{"2025-03-01", true},  // 周六
		{"2025-03-02", true},  // 周日
		{"2025-03-03", false}, // 周一
		{"2025-03-07", false}, // 周五
		{"Sat Week1", true},   // 非 ISO 退化匹配
		{"Sun Week2", true},
		{"Mon Week1", false},
	}

	for _, tt := range tests {
		t.Run(tt.day, func(t *testing.T) {
			if got := IsWeekend(tt.day); got != tt.expected {
				t.Errorf("IsWeekend(%s) = %v, 期望 %v", tt.day, got, tt.expected)
			}
		})
	}
}

func TestWeekCount(t *testing.T) {
	tests := []struct {
		days     int
		expected int
	}{
		{0, 1},
		{1, 1},
		{7, 1},
		{8, 2},
		{14, 2},
		{15, 3},
	}

	for _, tt := range tests {
		if got := WeekCount(tt.days); got != tt.expected {
			t.Errorf("WeekCount(%d) = %d, 期望 %d", tt.days, got, tt.expected)
		}
	}
}

func TestCountWeekendDays(t *testing.T) {
	days := []string{"2025-03-01", "2025-03-02", "2025-03-03"}
	if got := CountWeekendDays(days); got != 2 {
		t.Errorf("CountWeekendDays = %d, 期望 2", got)
	}
}
