// Package e2e 提供完整排班工作流端到端测试
package e2e

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yepai/yepai/internal/exporter"
	"github.com/yepai/yepai/pkg/model"
	"github.com/yepai/yepai/pkg/orchestrator"
	"github.com/yepai/yepai/pkg/scheduler/solver"
)

// weekDays 2024-12-09（周一）起一整周
var weekDays = []string{
	"2024-12-09", "2024-12-10", "2024-12-11", "2024-12-12",
	"2024-12-13", "2024-12-14", "2024-12-15",
}

func buildEmployees() []*model.Employee {
	avail := func(codes ...string) map[string][]string {
		m := make(map[string][]string, len(weekDays))
		for _, d := range weekDays {
			m[d] = codes
		}
		return m
	}

	var employees []*model.Employee
	employees = append(employees,
		&model.Employee{ID: "m1", Name: "店长一", EmployeeType: model.FullTime,
			PrimaryStation: model.StationMultiStation, IsManager: true,
			Availability: avail("S", "1F", "2F", "3F", "SC")},
		&model.Employee{ID: "m2", Name: "店长二", EmployeeType: model.FullTime,
			PrimaryStation: model.StationMultiStationCafe, IsManager: true,
			Availability: avail("S", "1F", "2F", "3F", "SC")},
	)
	stations := []model.Station{
		model.StationKitchen, model.StationCounter, model.StationKitchen,
		model.StationCounter, model.StationMcCafe, model.StationKitchen,
		model.StationCounter, model.StationKitchen,
	}
	names := []string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛"}
	for i, st := range stations {
		employees = append(employees, &model.Employee{
			ID: names[i], Name: names[i], EmployeeType: model.PartTime,
			PrimaryStation: st,
			Availability:   avail("S", "1F", "2F", "3F", "SC"),
		})
	}
	return employees
}

func run(t *testing.T) *orchestrator.Result {
	t.Helper()

	orch := orchestrator.New()
	orch.SetSolverOptions(solver.Options{TimeLimit: 20 * time.Second, Workers: 4, Seed: 7})

	store := model.NewStore("store_e2e", model.StoreCBDCore,
		model.StaffingRequirement{KitchenStaff: 1, CounterStaff: 1},
		model.StaffingRequirement{KitchenStaff: 1, CounterStaff: 1},
	)

	result, err := orch.Generate(context.Background(), &orchestrator.Request{
		Store:            store,
		Employees:        buildEmployees(),
		Days:             weekDays,
		TimeLimitSeconds: 20,
	})
	require.NoError(t, err)
	return result
}

func TestFullPipeline(t *testing.T) {
	result := run(t)

	// 不变量1：每人每天恰好一条记录
	require.Len(t, result.Roster, 10)
	for _, schedule := range result.Roster {
		assert.Len(t, schedule.Shifts, len(weekDays), "员工 %s", schedule.EmployeeID)
	}

	// 不变量3：总工时等于目录工时之和
	for _, schedule := range result.Roster {
		var sum float64
		for _, rec := range schedule.Shifts {
			sum += model.HoursForCode(rec.ShiftCode)
		}
		assert.InDelta(t, sum, schedule.TotalHours, 1e-9, "员工 %s", schedule.EmployeeID)
	}

	// 已应用修复均体现在最终花名册中
	if result.ResolutionSummary != nil {
		for _, applied := range result.ResolutionSummary.Resolutions {
			for _, change := range applied.Resolution.Changes {
				schedule := result.Roster.Find(change.EmployeeID)
				require.NotNil(t, schedule)
				rec := schedule.ShiftOn(change.Day)
				require.NotNil(t, rec)
				if change.Field == "shift_code" {
					assert.Equal(t, change.NewValue, string(rec.ShiftCode))
				}
			}
		}
	}

	// 状态与最终校验一致
	if result.FinalValidation.IsValid {
		assert.Equal(t, orchestrator.StatusSuccess, result.Status)
	} else {
		assert.Equal(t, orchestrator.StatusPartial, result.Status)
	}

	// 工作流首尾阶段
	require.NotEmpty(t, result.WorkflowLog)
	assert.Equal(t, orchestrator.StageInit, result.WorkflowLog[0].Stage)
	assert.Equal(t, orchestrator.StageComplete, result.WorkflowLog[len(result.WorkflowLog)-1].Stage)

	// 观测产物
	assert.Equal(t, len(weekDays), result.DemandAnalysis.TotalDays)
	assert.Equal(t, 2, result.DemandAnalysis.WeekendDays)
	assert.NotEmpty(t, result.SkillMatching.StationCoverage)
	assert.Len(t, result.PeakCoverage.LunchPeak, len(weekDays))
}

// TestFullPipeline_Reproducible 相同输入与种子产生一致的花名册
func TestFullPipeline_Reproducible(t *testing.T) {
	first := run(t)
	second := run(t)

	require.Equal(t, first.Status, second.Status)
	require.Len(t, second.Roster, len(first.Roster))
	for i := range first.Roster {
		a, b := first.Roster[i], second.Roster[i]
		require.Equal(t, a.EmployeeID, b.EmployeeID)
		assert.InDelta(t, a.TotalHours, b.TotalHours, 1e-9)
		for day, rec := range a.Shifts {
			assert.Equal(t, rec.ShiftCode, b.Shifts[day].ShiftCode,
				"员工 %s 日期 %s", a.EmployeeID, day)
		}
	}
}

func TestCSVExport(t *testing.T) {
	result := run(t)

	var buf bytes.Buffer
	require.NoError(t, exporter.NewCSVExporter("").Write(&buf, result))

	out := buf.String()
	assert.Contains(t, out, "employee_id")
	assert.Contains(t, out, "2024-12-09")
	assert.Contains(t, out, "m1")
}
