package resolver

import (
	"reflect"
	"testing"

	"github.com/yepai/yepai/pkg/model"
)

func schedule(id, name string, empType model.EmployeeType, manager bool, shifts map[string]model.ShiftCode) *model.EmployeeSchedule {
	s := &model.EmployeeSchedule{
		EmployeeID:     id,
		EmployeeName:   name,
		EmployeeType:   empType,
		IsManager:      manager,
		PrimaryStation: model.StationCounter,
		Shifts:         make(map[string]*model.ShiftRecord, len(shifts)),
	}
	for day, code := range shifts {
		rec, _ := model.NewShiftRecord(code, model.StationCounter)
		s.Shifts[day] = rec
	}
	s.RecalcTotalHours()
	return s
}

// TestRepair_MaxHoursShortensFullDay 超时修复：
// 兼职 5 个 3F 共 60h，候选为三个移除(6.0)与三个缩短(3.0)，
// 首选缩短，复验总工时应降为 57h
func TestRepair_MaxHoursShortensFullDay(t *testing.T) {
	days := map[string]model.ShiftCode{
		"2024-12-09": model.ShiftFullDay,
		"2024-12-10": model.ShiftFullDay,
		"2024-12-11": model.ShiftFullDay,
		"2024-12-12": model.ShiftFullDay,
		"2024-12-13": model.ShiftFullDay,
		"2024-12-14": model.ShiftDayOff,
		"2024-12-15": model.ShiftDayOff,
	}
	roster := model.Roster{schedule("e1", "甲", model.PartTime, false, days)}
	conflicts := []model.Conflict{{
		Kind:       model.ConflictMaxHoursExceeded,
		Severity:   model.SeverityHigh,
		EmployeeID: "e1",
	}}

	report := NewEngine().Repair(conflicts, roster, nil)

	if report.ResolutionsApplied != 1 {
		t.Fatalf("应用修复数 = %d, 期望 1", report.ResolutionsApplied)
	}
	applied := report.Resolutions[0].Resolution
	if applied.ImpactScore != 3.0 {
		t.Errorf("首选影响分 = %v, 期望 3.0（缩短）", applied.ImpactScore)
	}

	// 最早的 3F 被缩短为 1F
	modified := report.ModifiedRoster.Find("e1")
	rec := modified.ShiftOn("2024-12-09")
	if rec.ShiftCode != model.ShiftFirstHalf {
		t.Errorf("2024-12-09 班次 = %s, 期望 1F", rec.ShiftCode)
	}
	if modified.TotalHours != 57.0 {
		t.Errorf("修复后总工时 = %v, 期望 57.0", modified.TotalHours)
	}

	// 原花名册不受影响
	if roster[0].TotalHours != 60.0 {
		t.Errorf("原总工时被修改: %v", roster[0].TotalHours)
	}
}

func TestRepair_RestPeriodOptions(t *testing.T) {
	roster := model.Roster{schedule("e1", "甲", model.Casual, false, map[string]model.ShiftCode{
		"2024-12-09": model.ShiftSecondHalf,
		"2024-12-10": model.ShiftFirstHalf,
	})}
	conflict := model.Conflict{
		Kind:       model.ConflictRestPeriodViolation,
		Severity:   model.SeverityCritical,
		EmployeeID: "e1",
		Days:       []string{"2024-12-09", "2024-12-10"},
	}

	report := NewEngine().Repair([]model.Conflict{conflict}, roster, nil)

	if report.ResolutionsApplied != 1 {
		t.Fatalf("应用修复数 = %d", report.ResolutionsApplied)
	}
	// 首选影响分 2.0：d1 改 1F
	applied := report.Resolutions[0].Resolution
	if applied.ImpactScore != 2.0 {
		t.Errorf("影响分 = %v, 期望 2.0", applied.ImpactScore)
	}
	rec := report.ModifiedRoster.Find("e1").ShiftOn("2024-12-09")
	if rec.ShiftCode != model.ShiftFirstHalf {
		t.Errorf("d1 班次 = %s, 期望 1F", rec.ShiftCode)
	}
}

func TestRepair_SeverityOrder(t *testing.T) {
	roster := model.Roster{
		schedule("e1", "甲", model.Casual, false, map[string]model.ShiftCode{
			"2024-12-09": model.ShiftSecondHalf,
			"2024-12-10": model.ShiftFirstHalf,
		}),
	}
	// medium 在前、critical 在后，修复顺序应倒转
	conflicts := []model.Conflict{
		{Kind: model.ConflictMinHoursNotMet, Severity: model.SeverityMedium, EmployeeID: "e1"},
		{Kind: model.ConflictRestPeriodViolation, Severity: model.SeverityCritical, EmployeeID: "e1",
			Days: []string{"2024-12-09", "2024-12-10"}},
	}

	report := NewEngine().Repair(conflicts, roster, nil)

	if len(report.Resolutions) == 0 {
		t.Fatal("应有修复记录")
	}
	if report.Resolutions[0].Conflict.Kind != model.ConflictRestPeriodViolation {
		t.Errorf("首个修复 = %s, 期望 rest_period_violation", report.Resolutions[0].Conflict.Kind)
	}
}

func TestRepair_MinHours(t *testing.T) {
	roster := model.Roster{schedule("e1", "甲", model.FullTime, false, map[string]model.ShiftCode{
		"2024-12-09": model.ShiftDay,
		"2024-12-10": model.ShiftDayOff,
	})}
	conflict := model.Conflict{
		Kind: model.ConflictMinHoursNotMet, Severity: model.SeverityMedium, EmployeeID: "e1",
	}

	report := NewEngine().Repair([]model.Conflict{conflict}, roster, nil)

	rec := report.ModifiedRoster.Find("e1").ShiftOn("2024-12-10")
	if rec.ShiftCode != model.ShiftDay {
		t.Errorf("休息日应补日班, 实际 %s", rec.ShiftCode)
	}
	if rec.Station != model.StationCounter {
		t.Errorf("补班工作站 = %s, 期望主站", rec.Station)
	}
}

// TestRepair_UnderstaffedTreatsNoAvailabilityAsFree
// 无可用性记录的员工被视为可补班（保留原有行为，见 DESIGN.md）
func TestRepair_UnderstaffedTreatsNoAvailabilityAsFree(t *testing.T) {
	employees := []*model.Employee{
		{ID: "e1", Name: "甲", EmployeeType: model.Casual, PrimaryStation: model.StationCounter,
			Availability: map[string][]string{"2024-12-10": {"S"}}}, // 当天无记录
		{ID: "e2", Name: "乙", EmployeeType: model.Casual, PrimaryStation: model.StationCounter,
			Availability: nil}, // 完全无可用性记录
	}
	roster := model.Roster{
		schedule("e1", "甲", model.Casual, false, map[string]model.ShiftCode{"2024-12-09": model.ShiftDayOff}),
		schedule("e2", "乙", model.Casual, false, map[string]model.ShiftCode{"2024-12-09": model.ShiftDayOff}),
	}
	conflict := model.Conflict{
		Kind: model.ConflictUnderstaffed, Severity: model.SeverityHigh, Days: []string{"2024-12-09"},
	}

	report := NewEngine().Repair([]model.Conflict{conflict}, roster, employees)

	if report.ResolutionsApplied != 1 {
		t.Fatalf("应用修复数 = %d", report.ResolutionsApplied)
	}
	// e1 当天有明确不可用（无日期键），被跳过；e2 无任何记录视为可用
	changes := report.Resolutions[0].Resolution.Changes
	if len(changes) != 1 || changes[0].EmployeeID != "e2" {
		t.Errorf("修改 = %+v, 期望补 e2", changes)
	}
}

func TestRepair_NoManagerFiltersManagers(t *testing.T) {
	employees := []*model.Employee{
		{ID: "c1", Name: "店员", EmployeeType: model.Casual, PrimaryStation: model.StationCounter},
		{ID: "m1", Name: "店长", EmployeeType: model.FullTime, PrimaryStation: model.StationMultiStation, IsManager: true},
	}
	roster := model.Roster{
		schedule("c1", "店员", model.Casual, false, map[string]model.ShiftCode{"2024-12-09": model.ShiftDayOff}),
		schedule("m1", "店长", model.FullTime, true, map[string]model.ShiftCode{"2024-12-09": model.ShiftDayOff}),
	}
	conflict := model.Conflict{
		Kind: model.ConflictNoManager, Severity: model.SeverityCritical, Days: []string{"2024-12-09"},
	}

	report := NewEngine().Repair([]model.Conflict{conflict}, roster, employees)

	changes := report.Resolutions[0].Resolution.Changes
	if len(changes) != 1 || changes[0].EmployeeID != "m1" {
		t.Errorf("应只补店长: %+v", changes)
	}
	if report.Resolutions[0].Resolution.ImpactScore != 1.0 {
		t.Errorf("影响分 = %v, 期望 1.0", report.Resolutions[0].Resolution.ImpactScore)
	}
}

func TestRepair_SkillMismatch(t *testing.T) {
	employees := []*model.Employee{
		{ID: "e1", Name: "甲", EmployeeType: model.Casual, PrimaryStation: model.StationMultiStation},
	}
	roster := model.Roster{
		schedule("e1", "甲", model.Casual, false, map[string]model.ShiftCode{"2024-12-09": model.ShiftDay}),
	}
	conflict := model.Conflict{
		Kind: model.ConflictSkillMismatch, Severity: model.SeverityMedium,
		Days: []string{"2024-12-09"}, Station: model.StationKitchen,
	}

	report := NewEngine().Repair([]model.Conflict{conflict}, roster, employees)

	if report.ResolutionsApplied != 1 {
		t.Fatalf("应用修复数 = %d", report.ResolutionsApplied)
	}
	rec := report.ModifiedRoster.Find("e1").ShiftOn("2024-12-09")
	if rec.Station != model.StationKitchen {
		t.Errorf("工作站 = %s, 期望 Kitchen", rec.Station)
	}
}

func TestRepair_UnknownKindUnresolved(t *testing.T) {
	roster := model.Roster{schedule("e1", "甲", model.Casual, false, map[string]model.ShiftCode{
		"2024-12-09": model.ShiftDay,
	})}
	conflict := model.Conflict{
		Kind: model.ConflictDoubleBooking, Severity: model.SeverityMedium, EmployeeID: "e1",
	}

	report := NewEngine().Repair([]model.Conflict{conflict}, roster, nil)

	// 人工复核方案无修改项，无法应用
	if report.UnresolvedCount != 1 || report.ResolutionsApplied != 0 {
		t.Errorf("未解决 = %d 已应用 = %d", report.UnresolvedCount, report.ResolutionsApplied)
	}
}

func TestRepair_MissingTargetUnresolved(t *testing.T) {
	roster := model.Roster{}
	conflict := model.Conflict{
		Kind: model.ConflictMaxHoursExceeded, Severity: model.SeverityHigh, EmployeeID: "ghost",
	}

	report := NewEngine().Repair([]model.Conflict{conflict}, roster, nil)

	if report.UnresolvedCount != 1 {
		t.Errorf("目标不存在应记入未解决: %+v", report)
	}
}

func TestRepair_Deterministic(t *testing.T) {
	build := func() (model.Roster, []model.Conflict) {
		roster := model.Roster{
			schedule("e1", "甲", model.PartTime, false, map[string]model.ShiftCode{
				"2024-12-09": model.ShiftFullDay,
				"2024-12-10": model.ShiftFullDay,
				"2024-12-11": model.ShiftFullDay,
				"2024-12-12": model.ShiftDayOff,
			}),
			schedule("e2", "乙", model.Casual, false, map[string]model.ShiftCode{
				"2024-12-09": model.ShiftSecondHalf,
				"2024-12-10": model.ShiftFirstHalf,
				"2024-12-11": model.ShiftDayOff,
				"2024-12-12": model.ShiftDayOff,
			}),
		}
		conflicts := []model.Conflict{
			{Kind: model.ConflictMaxHoursExceeded, Severity: model.SeverityHigh, EmployeeID: "e1"},
			{Kind: model.ConflictRestPeriodViolation, Severity: model.SeverityCritical, EmployeeID: "e2",
				Days: []string{"2024-12-09", "2024-12-10"}},
			{Kind: model.ConflictMinHoursNotMet, Severity: model.SeverityMedium, EmployeeID: "e1"},
		}
		return roster, conflicts
	}

	r1, c1 := build()
	r2, c2 := build()
	first := NewEngine().Repair(c1, r1, nil)
	second := NewEngine().Repair(c2, r2, nil)

	if !reflect.DeepEqual(first.ModifiedRoster, second.ModifiedRoster) {
		t.Error("相同输入的修复结果应确定")
	}
	if !reflect.DeepEqual(first.Resolutions, second.Resolutions) {
		t.Error("修复记录应确定")
	}
}
