// Package demand 提供门店人力需求画像分析
package demand

import (
	"github.com/yepai/yepai/pkg/logger"
	"github.com/yepai/yepai/pkg/model"
)

// Priority 时段优先级
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
)

// PeriodRequirement 单个营业时段的人力需求
type PeriodRequirement struct {
	Start    string `json:"start"` // HH:MM
	End      string `json:"end"`   // HH:MM
	MinStaff int    `json:"min_staff"`
	Priority string `json:"priority"`
}

// StationDemand 单个工作站的平峰/高峰需求
type StationDemand struct {
	Normal int `json:"normal"`
	Peak   int `json:"peak"`
}

// DayDemand 单日需求画像
type DayDemand struct {
	IsWeekend           bool                         `json:"is_weekend"`
	Periods             map[string]PeriodRequirement `json:"periods"`
	StationRequirements map[string]StationDemand     `json:"station_requirements"`
}

// Analysis 需求分析结果
// 仅随编排器结果输出供参考；求解器与校验器均不读取
type Analysis struct {
	DemandByDay map[string]DayDemand `json:"demand_by_day"`
	TotalDays   int                  `json:"total_days"`
	WeekendDays int                  `json:"weekend_days"`
}

// Analyzer 需求画像分析器
type Analyzer struct {
	log *logger.RosterLogger
}

// NewAnalyzer 创建需求画像分析器
func NewAnalyzer() *Analyzer {
	return &Analyzer{log: logger.NewRosterLogger("demand")}
}

// Analyze 对 (门店, 日期列表) 的纯函数分析
func (a *Analyzer) Analyze(store *model.Store, days []string) *Analysis {
	result := &Analysis{
		DemandByDay: make(map[string]DayDemand, len(days)),
		TotalDays:   len(days),
		WeekendDays: model.CountWeekendDays(days),
	}

	totalNormal := store.NormalRequirements.TotalStaff()
	totalPeak := store.PeakRequirements.TotalStaff()

	for _, day := range days {
		isWeekend := model.IsWeekend(day)
		weekendMultiplier := 1.0
		if isWeekend {
			weekendMultiplier = 1.2
		}

		// 开/闭店时段取固定下限与 40% 平峰需求的较大者
		windowStaff := maxInt(2, int(float64(totalNormal)*0.4))

		result.DemandByDay[day] = DayDemand{
			IsWeekend: isWeekend,
			Periods: map[string]PeriodRequirement{
				"opening": {
					Start: "06:30", End: "08:00",
					MinStaff: windowStaff,
					Priority: PriorityHigh,
				},
				"morning": {
					Start: "08:00", End: "11:00",
					MinStaff: int(float64(totalNormal) * weekendMultiplier),
					Priority: PriorityMedium,
				},
				"lunch_peak": {
					Start: "11:00", End: "14:00",
					MinStaff: int(float64(totalPeak) * weekendMultiplier),
					Priority: PriorityCritical,
				},
				"afternoon": {
					Start: "14:00", End: "17:00",
					MinStaff: int(float64(totalNormal) * weekendMultiplier),
					Priority: PriorityMedium,
				},
				"dinner_peak": {
					Start: "17:00", End: "21:00",
					MinStaff: int(float64(totalPeak) * weekendMultiplier),
					Priority: PriorityCritical,
				},
				"closing": {
					Start: "21:00", End: "23:00",
					MinStaff: windowStaff,
					Priority: PriorityHigh,
				},
			},
			StationRequirements: map[string]StationDemand{
				"kitchen": {
					Normal: store.NormalRequirements.KitchenStaff,
					Peak:   store.PeakRequirements.KitchenStaff,
				},
				"counter": {
					Normal: store.NormalRequirements.CounterStaff,
					Peak:   store.PeakRequirements.CounterStaff,
				},
				"mccafe": {
					Normal: store.NormalRequirements.McCafeStaff,
					Peak:   store.PeakRequirements.McCafeStaff,
				},
			},
		}
	}

	a.log.Base().Debug().
		Str("store_id", store.StoreID).
		Int("days", result.TotalDays).
		Int("weekend_days", result.WeekendDays).
		Msg("需求画像分析完成")

	return result
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
