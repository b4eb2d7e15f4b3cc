package demand

import (
	"testing"

	"github.com/yepai/yepai/pkg/model"
)

func testStore() *model.Store {
	// 平峰总数 10（厨房4 柜台4 咖啡2），高峰总数 10
	return model.NewStore("store_1", model.StoreSuburban,
		model.StaffingRequirement{KitchenStaff: 4, CounterStaff: 4, McCafeStaff: 2},
		model.StaffingRequirement{KitchenStaff: 4, CounterStaff: 4, McCafeStaff: 2},
	)
}

func TestAnalyze_WeekendUplift(t *testing.T) {
	a := NewAnalyzer()
	// 2025-03-02 是周日
	analysis := a.Analyze(testStore(), []string{"2025-03-02"})

	day := analysis.DemandByDay["2025-03-02"]
	if !day.IsWeekend {
		t.Fatal("周日应标记为周末")
	}

	tests := []struct {
		period   string
		minStaff int
		priority string
	}{
		{"opening", 4, PriorityHigh}, // max(2, ⌊10*0.4⌋) = 4
		{"morning", 12, PriorityMedium},
		{"lunch_peak", 12, PriorityCritical},
		{"afternoon", 12, PriorityMedium},
		{"dinner_peak", 12, PriorityCritical},
		{"closing", 4, PriorityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			p, ok := day.Periods[tt.period]
			if !ok {
				t.Fatalf("缺少时段 %s", tt.period)
			}
			if p.MinStaff != tt.minStaff {
				t.Errorf("MinStaff = %d, 期望 %d", p.MinStaff, tt.minStaff)
			}
			if p.Priority != tt.priority {
				t.Errorf("Priority = %s, 期望 %s", p.Priority, tt.priority)
			}
		})
	}
}

func TestAnalyze_Weekday(t *testing.T) {
	a := NewAnalyzer()
	// 2025-03-03 是周一
	analysis := a.Analyze(testStore(), []string{"2025-03-03"})

	day := analysis.DemandByDay["2025-03-03"]
	if day.IsWeekend {
		t.Fatal("周一不应标记为周末")
	}
	if day.Periods["morning"].MinStaff != 10 {
		t.Errorf("平日早市 MinStaff = %d, 期望 10", day.Periods["morning"].MinStaff)
	}
	if day.Periods["lunch_peak"].MinStaff != 10 {
		t.Errorf("平日午高峰 MinStaff = %d, 期望 10", day.Periods["lunch_peak"].MinStaff)
	}
}

func TestAnalyze_SmallStoreFloor(t *testing.T) {
	a := NewAnalyzer()
	store := model.NewStore("store_2", model.StoreHighway,
		model.StaffingRequirement{KitchenStaff: 1, CounterStaff: 1},
		model.StaffingRequirement{KitchenStaff: 2, CounterStaff: 2},
	)
	analysis := a.Analyze(store, []string{"2025-03-03"})

	// ⌊2*0.4⌋ = 0，取下限2
	if got := analysis.DemandByDay["2025-03-03"].Periods["opening"].MinStaff; got != 2 {
		t.Errorf("开店 MinStaff = %d, 期望 2", got)
	}
}

func TestAnalyze_Counters(t *testing.T) {
	a := NewAnalyzer()
	days := []string{"2025-03-01", "2025-03-02", "2025-03-03"}
	analysis := a.Analyze(testStore(), days)

	if analysis.TotalDays != 3 {
		t.Errorf("TotalDays = %d, 期望 3", analysis.TotalDays)
	}
	if analysis.WeekendDays != 2 {
		t.Errorf("WeekendDays = %d, 期望 2", analysis.WeekendDays)
	}

	station := analysis.DemandByDay["2025-03-03"].StationRequirements["kitchen"]
	if station.Normal != 4 || station.Peak != 4 {
		t.Errorf("厨房需求 = %+v, 期望 normal=4 peak=4", station)
	}
}
