// Package stats 提供花名册统计分析功能
package stats

import (
	"math"
	"sort"

	"github.com/yepai/yepai/pkg/model"
)

// EmployeeStat 员工统计
type EmployeeStat struct {
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name"`
	TotalHours    float64 `json:"total_hours"`
	ShiftCount    int     `json:"shift_count"`
	WeekendShifts int     `json:"weekend_shifts"`
	Deviation     float64 `json:"deviation"` // 与人均工时的偏差百分比
}

// FairnessMetrics 公平性指标
type FairnessMetrics struct {
	WorkloadGini        float64        `json:"workload_gini"` // 0=完全公平
	WorkloadVariance    float64        `json:"workload_variance"`
	WorkloadStdDev      float64        `json:"workload_std_dev"`
	AvgHoursPerEmployee float64        `json:"avg_hours_per_employee"`
	MaxHours            float64        `json:"max_hours"`
	MinHours            float64        `json:"min_hours"`
	HoursRange          float64        `json:"hours_range"`
	WeekendShiftGini    float64        `json:"weekend_shift_gini"`
	EmployeeStats       []EmployeeStat `json:"employee_stats"`

	// 综合公平性评分 (0-100)
	OverallFairnessScore float64 `json:"overall_fairness_score"`
}

// FairnessAnalyzer 公平性分析器
type FairnessAnalyzer struct {
	standardWeeklyHours float64
}

// NewFairnessAnalyzer 创建公平性分析器
func NewFairnessAnalyzer() *FairnessAnalyzer {
	return &FairnessAnalyzer{standardWeeklyHours: 38.0}
}

// Analyze 分析花名册公平性
// 仅用于观测报告，不反馈到排班
func (f *FairnessAnalyzer) Analyze(roster model.Roster, days []string) *FairnessMetrics {
	if len(roster) == 0 {
		return &FairnessMetrics{OverallFairnessScore: 100}
	}

	stats := make([]EmployeeStat, 0, len(roster))
	hours := make([]float64, 0, len(roster))
	weekendShifts := make([]float64, 0, len(roster))

	for _, schedule := range roster {
		stat := EmployeeStat{
			EmployeeID:   schedule.EmployeeID,
			EmployeeName: schedule.EmployeeName,
			TotalHours:   schedule.TotalHours,
		}
		for _, day := range days {
			rec := schedule.ShiftOn(day)
			if rec == nil || rec.IsDayOff() {
				continue
			}
			stat.ShiftCount++
			if model.IsWeekend(day) {
				stat.WeekendShifts++
			}
		}
		stats = append(stats, stat)
		hours = append(hours, stat.TotalHours)
		weekendShifts = append(weekendShifts, float64(stat.WeekendShifts))
	}

	avg := mean(hours)
	variance := varianceOf(hours, avg)
	stdDev := math.Sqrt(variance)
	maxH, minH := rangeOf(hours)

	for i := range stats {
		if avg > 0 {
			stats[i].Deviation = (stats[i].TotalHours - avg) / avg * 100
		}
	}

	workloadGini := gini(hours)
	weekendGini := gini(weekendShifts)

	return &FairnessMetrics{
		WorkloadGini:         workloadGini,
		WorkloadVariance:     variance,
		WorkloadStdDev:       stdDev,
		AvgHoursPerEmployee:  avg,
		MaxHours:             maxH,
		MinHours:             minH,
		HoursRange:           maxH - minH,
		WeekendShiftGini:     weekendGini,
		EmployeeStats:        stats,
		OverallFairnessScore: f.overallScore(workloadGini, weekendGini, stdDev, avg),
	}
}

// overallScore 综合评分：基尼系数与离散度越低得分越高
func (f *FairnessAnalyzer) overallScore(workloadGini, weekendGini, stdDev, avg float64) float64 {
	score := 100.0
	score -= workloadGini * 50
	score -= weekendGini * 20
	if avg > 0 {
		score -= (stdDev / avg) * 30
	}
	if score < 0 {
		score = 0
	}
	return math.Round(score*10) / 10
}

// gini 计算基尼系数
func gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum, weighted float64
	for i, v := range sorted {
		sum += v
		weighted += float64(i+1) * v
	}
	if sum == 0 {
		return 0
	}
	return (2*weighted)/(float64(n)*sum) - float64(n+1)/float64(n)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func varianceOf(values []float64, avg float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - avg
		sum += d * d
	}
	return sum / float64(len(values))
}

func rangeOf(values []float64) (max, min float64) {
	if len(values) == 0 {
		return 0, 0
	}
	max, min = values[0], values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	return max, min
}
