package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/yepai/yepai/pkg/model"
	"github.com/yepai/yepai/pkg/scheduler/solver"
)

func availEveryDay(days []string, codes ...string) map[string][]string {
	avail := make(map[string][]string, len(days))
	for _, d := range days {
		avail[d] = codes
	}
	return avail
}

func newEmployee(id, name string, empType model.EmployeeType, station model.Station, manager bool, avail map[string][]string) *model.Employee {
	return &model.Employee{
		ID:             id,
		Name:           name,
		EmployeeType:   empType,
		PrimaryStation: station,
		IsManager:      manager,
		Availability:   avail,
	}
}

// TestGenerate_MinimumViable 最小可行场景：
// 一名店长四名店员全员仅可上日班，闭店覆盖无法满足，
// 引擎回退到可用性保底排班
func TestGenerate_MinimumViable(t *testing.T) {
	days := []string{"2024-12-09"} // 周一
	employees := []*model.Employee{
		newEmployee("m1", "店长", model.FullTime, model.StationMultiStation, true, availEveryDay(days, "S")),
		newEmployee("c1", "店员一", model.Casual, model.StationCounter, false, availEveryDay(days, "S")),
		newEmployee("c2", "店员二", model.Casual, model.StationCounter, false, availEveryDay(days, "S")),
		newEmployee("c3", "店员三", model.Casual, model.StationCounter, false, availEveryDay(days, "S")),
		newEmployee("c4", "店员四", model.Casual, model.StationCounter, false, availEveryDay(days, "S")),
	}
	store := model.NewStore("store_1", model.StoreSuburban,
		model.StaffingRequirement{KitchenStaff: 2, CounterStaff: 2},
		model.StaffingRequirement{KitchenStaff: 2, CounterStaff: 2},
	)

	engine := NewEngine(employees, store, model.DefaultConstraints(), days)
	engine.SetSolverOptions(solver.Options{TimeLimit: 10 * time.Second, Workers: 2, Seed: 1})

	result, err := engine.Generate(context.Background(), 10*time.Second)
	if err != nil {
		t.Fatalf("生成失败: %v", err)
	}

	// 无人可上闭店班次，模型不可行，走保底路径
	if result.Status != StatusHeuristic {
		t.Errorf("状态 = %s, 期望 heuristic", result.Status)
	}

	// 不变量1：每人每天恰好一条记录
	for _, schedule := range result.Roster {
		if len(schedule.Shifts) != len(days) {
			t.Errorf("员工 %s 记录数 = %d, 期望 %d", schedule.EmployeeID, len(schedule.Shifts), len(days))
		}
	}

	// 保底路径：全员取可用列表第一个代码 S
	for _, schedule := range result.Roster {
		rec := schedule.ShiftOn("2024-12-09")
		if rec.ShiftCode != model.ShiftDay {
			t.Errorf("员工 %s 班次 = %s, 期望 S", schedule.EmployeeID, rec.ShiftCode)
		}
	}

	// 午高峰覆盖满足：5 >= 4
	lunch := result.PeakCoverage.LunchPeak["2024-12-09"]
	if !lunch.Met || lunch.Count != 5 || lunch.Required != 4 {
		t.Errorf("午高峰覆盖 = %+v", lunch)
	}

	if result.ManagersCount != 1 || result.CrewCount != 4 {
		t.Errorf("人数统计错误: 店长 %d 店员 %d", result.ManagersCount, result.CrewCount)
	}
}

// TestGenerate_FeasiblePath 可行路径：开店/闭店各两人即可满足
func TestGenerate_FeasiblePath(t *testing.T) {
	days := []string{"2024-12-09"}
	employees := []*model.Employee{
		newEmployee("m1", "店长", model.FullTime, model.StationMultiStation, true, availEveryDay(days, "S")),
		newEmployee("c1", "店员一", model.Casual, model.StationCounter, false, availEveryDay(days, "S")),
		newEmployee("c2", "店员二", model.Casual, model.StationKitchen, false, availEveryDay(days, "2F")),
		newEmployee("c3", "店员三", model.Casual, model.StationKitchen, false, availEveryDay(days, "2F")),
	}
	// 需求为零，只剩开/闭店与店长约束
	store := model.NewStore("store_1", model.StoreSuburban,
		model.StaffingRequirement{}, model.StaffingRequirement{})

	engine := NewEngine(employees, store, model.DefaultConstraints(), days)
	engine.SetSolverOptions(solver.Options{TimeLimit: 10 * time.Second, Workers: 2, Seed: 1})

	result, err := engine.Generate(context.Background(), 10*time.Second)
	if err != nil {
		t.Fatalf("生成失败: %v", err)
	}

	if result.Status != StatusOptimal && result.Status != StatusFeasible {
		t.Fatalf("状态 = %s, 期望 optimal/feasible", result.Status)
	}

	// 不变量2：求解路径下的分配必须在可用性申报内
	for i, schedule := range result.Roster {
		emp := employees[i]
		for day, rec := range schedule.Shifts {
			if rec.IsDayOff() {
				continue
			}
			if !emp.IsAvailable(day, rec.ShiftCode) {
				t.Errorf("员工 %s 在 %s 被分配未申报班次 %s", emp.ID, day, rec.ShiftCode)
			}
		}
	}

	// 不变量3：总工时等于各班次工时之和
	for _, schedule := range result.Roster {
		var sum float64
		for _, rec := range schedule.Shifts {
			sum += model.HoursForCode(rec.ShiftCode)
		}
		if schedule.TotalHours != sum {
			t.Errorf("员工 %s 总工时 = %v, 期望 %v", schedule.EmployeeID, schedule.TotalHours, sum)
		}
	}

	// 开店/闭店覆盖均满足
	if !result.PeakCoverage.Summary.OpeningCovered {
		t.Error("开店覆盖应满足")
	}
	if !result.PeakCoverage.Summary.ClosingCovered {
		t.Error("闭店覆盖应满足")
	}
}

// TestGenerate_RestConstraintInSolver 求解路径禁止闭店接开店
func TestGenerate_RestConstraintInSolver(t *testing.T) {
	days := []string{"2024-12-09", "2024-12-10"}
	// 覆盖由其他员工保证
	support := []*model.Employee{
		newEmployee("m1", "店长", model.FullTime, model.StationMultiStation, true, availEveryDay(days, "S", "1F")),
		newEmployee("s1", "甲", model.Casual, model.StationCounter, false, availEveryDay(days, "S")),
		newEmployee("s2", "乙", model.Casual, model.StationCounter, false, availEveryDay(days, "1F")),
		newEmployee("s3", "丙", model.Casual, model.StationKitchen, false, availEveryDay(days, "2F")),
		newEmployee("s4", "丁", model.Casual, model.StationKitchen, false, availEveryDay(days, "2F")),
	}
	// 目标员工只申报 d1 闭店与 d2 开店
	target := newEmployee("t1", "戊", model.Casual, model.StationCounter, false, map[string][]string{
		"2024-12-09": {"2F"},
		"2024-12-10": {"1F"},
	})
	employees := append(support, target)

	store := model.NewStore("store_1", model.StoreSuburban,
		model.StaffingRequirement{}, model.StaffingRequirement{})

	engine := NewEngine(employees, store, model.DefaultConstraints(), days)
	engine.SetSolverOptions(solver.Options{TimeLimit: 10 * time.Second, Workers: 2, Seed: 1})

	result, err := engine.Generate(context.Background(), 10*time.Second)
	if err != nil {
		t.Fatalf("生成失败: %v", err)
	}
	if result.Status == StatusHeuristic {
		t.Fatalf("模型应可行，状态 = %s", result.Status)
	}

	// 不变量4：闭店次日不开店
	schedule := result.Roster.Find("t1")
	d1 := schedule.ShiftOn("2024-12-09")
	d2 := schedule.ShiftOn("2024-12-10")
	if model.IsClosingCode(d1.ShiftCode) && model.IsOpeningCode(d2.ShiftCode) {
		t.Errorf("闭店接开店: d1=%s d2=%s", d1.ShiftCode, d2.ShiftCode)
	}
	// 两天至少有一天休息
	if !d1.IsDayOff() && !d2.IsDayOff() {
		t.Errorf("目标员工两天都被排班: d1=%s d2=%s", d1.ShiftCode, d2.ShiftCode)
	}
}

// TestPeakRequirement_WeekendUplift 周末高峰需求上浮 20% 向上取整
func TestPeakRequirement_WeekendUplift(t *testing.T) {
	store := model.NewStore("store_1", model.StoreCBDCore,
		model.StaffingRequirement{KitchenStaff: 5, CounterStaff: 5},
		model.StaffingRequirement{KitchenStaff: 5, CounterStaff: 5},
	)
	engine := NewEngine(nil, store, model.DefaultConstraints(), nil)

	// 2024-12-14 是周六：⌈10*1.2⌉ = 12
	if got := engine.peakRequirement("2024-12-14", 10); got != 12 {
		t.Errorf("周六高峰需求 = %d, 期望 12", got)
	}
	// 平日不上浮
	if got := engine.peakRequirement("2024-12-09", 10); got != 10 {
		t.Errorf("平日高峰需求 = %d, 期望 10", got)
	}
	// 向上取整：⌈7*1.2⌉ = 9
	if got := engine.peakRequirement("2024-12-14", 7); got != 9 {
		t.Errorf("周六高峰需求 = %d, 期望 9", got)
	}
}

// TestGenerate_FallbackSkipsUnknownCodes 保底路径跳过目录外代码
func TestGenerate_FallbackSkipsUnknownCodes(t *testing.T) {
	days := []string{"2024-12-09"}
	employees := []*model.Employee{
		newEmployee("e1", "甲", model.Casual, model.StationCounter, false, map[string][]string{
			"2024-12-09": {"XX", "M"},
		}),
		newEmployee("e2", "乙", model.Casual, model.StationCounter, false, map[string][]string{
			"2024-12-09": {"/"},
		}),
	}
	store := model.NewStore("store_1", model.StoreSuburban,
		model.StaffingRequirement{KitchenStaff: 3, CounterStaff: 3},
		model.StaffingRequirement{KitchenStaff: 3, CounterStaff: 3},
	)

	engine := NewEngine(employees, store, model.DefaultConstraints(), days)
	engine.SetSolverOptions(solver.Options{TimeLimit: 10 * time.Second, Workers: 2, Seed: 1})

	result, err := engine.Generate(context.Background(), 10*time.Second)
	if err != nil {
		t.Fatalf("生成失败: %v", err)
	}
	if result.Status != StatusHeuristic {
		t.Fatalf("状态 = %s, 期望 heuristic", result.Status)
	}

	// XX 不在目录中，取后续的 M
	if rec := result.Roster.Find("e1").ShiftOn("2024-12-09"); rec.ShiftCode != model.ShiftMeeting {
		t.Errorf("e1 班次 = %s, 期望 M", rec.ShiftCode)
	}
	// 仅申报 "/" 等同于不可用
	if rec := result.Roster.Find("e2").ShiftOn("2024-12-09"); !rec.IsDayOff() {
		t.Errorf("e2 班次 = %s, 期望 /", rec.ShiftCode)
	}
}

// TestGenerate_EmptyDays 空日期列表产生空排班
func TestGenerate_EmptyDays(t *testing.T) {
	employees := []*model.Employee{
		newEmployee("e1", "甲", model.Casual, model.StationCounter, false, nil),
	}
	store := model.NewStore("store_1", model.StoreSuburban,
		model.StaffingRequirement{}, model.StaffingRequirement{})

	engine := NewEngine(employees, store, model.DefaultConstraints(), nil)
	engine.SetSolverOptions(solver.Options{TimeLimit: 10 * time.Second, Workers: 2, Seed: 1})

	result, err := engine.Generate(context.Background(), 10*time.Second)
	if err != nil {
		t.Fatalf("生成失败: %v", err)
	}
	if len(result.Roster) != 1 || len(result.Roster[0].Shifts) != 0 {
		t.Errorf("空日期应产生无班次花名册: %+v", result.Roster)
	}
	if result.Status == StatusHeuristic {
		t.Errorf("空模型不应回退: %s", result.Status)
	}
}
