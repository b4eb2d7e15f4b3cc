// Package scheduler 提供排班引擎
package scheduler

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/yepai/yepai/pkg/errors"
	"github.com/yepai/yepai/pkg/logger"
	"github.com/yepai/yepai/pkg/model"
	"github.com/yepai/yepai/pkg/scheduler/cpmodel"
	"github.com/yepai/yepai/pkg/scheduler/solver"
)

// Status 引擎状态机：building -> solving -> {optimal, feasible, heuristic}
type Status string

const (
	StatusBuilding  Status = "building"
	StatusSolving   Status = "solving"
	StatusOptimal   Status = "optimal"
	StatusFeasible  Status = "feasible"
	StatusHeuristic Status = "heuristic"
)

// DayPeakCoverage 单日高峰覆盖
type DayPeakCoverage struct {
	Count     int  `json:"count"`
	Required  int  `json:"required"`
	Met       bool `json:"met"`
	IsWeekend bool `json:"is_weekend"`
}

// DayWindowCoverage 单日开/闭店覆盖
type DayWindowCoverage struct {
	Count    int `json:"count"`
	Required int `json:"required"`
}

// PeakSummary 覆盖总览
type PeakSummary struct {
	LunchPeakMet   bool `json:"lunch_peak_met"`
	DinnerPeakMet  bool `json:"dinner_peak_met"`
	OpeningCovered bool `json:"opening_covered"`
	ClosingCovered bool `json:"closing_covered"`
}

// PeakCoverage 高峰覆盖指标
type PeakCoverage struct {
	LunchPeak                      map[string]DayPeakCoverage   `json:"lunch_peak"`
	DinnerPeak                     map[string]DayPeakCoverage   `json:"dinner_peak"`
	Opening                        map[string]DayWindowCoverage `json:"opening"`
	Closing                        map[string]DayWindowCoverage `json:"closing"`
	WeekendCoverageIncreasePercent float64                      `json:"weekend_coverage_increase_percent"`
	WeekendTargetPercent           float64                      `json:"weekend_target_percent"`
	MeetsWeekendTarget             bool                         `json:"meets_weekend_target"`
	Summary                        PeakSummary                  `json:"summary"`
}

// Result 排班引擎结果
type Result struct {
	Status           Status        `json:"status"`
	SolveTimeSeconds float64       `json:"solve_time_seconds"`
	Roster           model.Roster  `json:"roster"`
	Days             []string      `json:"days"`
	StoreID          string        `json:"store_id"`
	TotalEmployees   int           `json:"total_employees"`
	ManagersCount    int           `json:"managers_count"`
	CrewCount        int           `json:"crew_count"`
	PeakCoverage     *PeakCoverage `json:"peak_coverage"`
}

// Engine 排班引擎
type Engine struct {
	employees   []*model.Employee
	store       *model.Store
	constraints *model.Constraints
	days        []string

	managers []*model.Employee
	crew     []*model.Employee

	lunchShifts   []model.ShiftCode
	dinnerShifts  []model.ShiftCode
	openingShifts []model.ShiftCode
	closingShifts []model.ShiftCode

	solver  solver.Solver
	options solver.Options
	status  Status
	log     *logger.RosterLogger
}

// NewEngine 创建排班引擎
func NewEngine(employees []*model.Employee, store *model.Store, constraints *model.Constraints, days []string) *Engine {
	e := &Engine{
		employees:     employees,
		store:         store,
		constraints:   constraints,
		days:          days,
		lunchShifts:   model.LunchPeakShifts(),
		dinnerShifts:  model.DinnerPeakShifts(),
		openingShifts: model.OpeningShifts(),
		closingShifts: model.ClosingShifts(),
		solver:        solver.NewLocalSearchSolver(),
		options:       solver.DefaultOptions(),
		status:        StatusBuilding,
		log:           logger.NewRosterLogger("scheduler"),
	}
	for _, emp := range employees {
		if emp.IsManager {
			e.managers = append(e.managers, emp)
		} else {
			e.crew = append(e.crew, emp)
		}
	}
	return e
}

// SetSolver 注入求解器
func (e *Engine) SetSolver(s solver.Solver) {
	e.solver = s
}

// SetSolverOptions 设置求解参数
func (e *Engine) SetSolverOptions(opts solver.Options) {
	e.options = opts
}

// Status 返回引擎当前状态
func (e *Engine) Status() Status {
	return e.status
}

// Generate 生成花名册
func (e *Engine) Generate(ctx context.Context, timeLimit time.Duration) (*Result, error) {
	start := time.Now()
	e.status = StatusBuilding
	e.log.StartGeneration(e.store.StoreID, len(e.employees), len(e.days))

	cp, vars := e.buildModel()

	opts := e.options
	if timeLimit > 0 {
		opts.TimeLimit = timeLimit
	}

	e.status = StatusSolving
	status, assign, err := e.solver.Solve(ctx, cp, opts)
	if err != nil {
		return nil, err
	}

	var roster model.Roster
	switch status {
	case solver.StatusOptimal, solver.StatusFeasible:
		roster, err = e.decodeRoster(assign, vars)
		if err != nil {
			return nil, err
		}
		if status == solver.StatusOptimal {
			e.status = StatusOptimal
		} else {
			e.status = StatusFeasible
		}
	default:
		// 不可行或未知：基于可用性的保底排班，不强制任何约束，
		// 由下游校验器如实报告所有违反
		roster = e.fallbackRoster()
		e.status = StatusHeuristic
	}

	result := &Result{
		Status:           e.status,
		SolveTimeSeconds: round2(time.Since(start).Seconds()),
		Roster:           roster,
		Days:             e.days,
		StoreID:          e.store.StoreID,
		TotalEmployees:   len(e.employees),
		ManagersCount:    len(e.managers),
		CrewCount:        len(e.crew),
	}
	result.PeakCoverage = e.calculatePeakCoverage(roster)

	e.log.GenerationComplete(e.store.StoreID, string(e.status), time.Since(start))
	return result, nil
}

// buildModel 组装约束模型
// 变量索引：vars[员工序号][日期序号][班次序号]
func (e *Engine) buildModel() (*cpmodel.Model, [][][]cpmodel.BoolVar) {
	m := cpmodel.NewModel()
	shiftCodes := model.ActiveShiftCodes()

	vars := make([][][]cpmodel.BoolVar, len(e.employees))
	for ei, emp := range e.employees {
		vars[ei] = make([][]cpmodel.BoolVar, len(e.days))
		for di, day := range e.days {
			vars[ei][di] = make([]cpmodel.BoolVar, len(shiftCodes))
			for si, code := range shiftCodes {
				vars[ei][di][si] = m.NewBoolVar(
					fmt.Sprintf("shift_e%s_d%s_s%s", emp.ID, day, code))
			}
		}
	}

	// 约束1：每人每天至多一个班次
	for ei := range e.employees {
		for di := range e.days {
			m.AddAtMostOne(vars[ei][di]...)
		}
	}

	// 约束2：可用性——未申报的班次禁止分配
	for ei, emp := range e.employees {
		for di, day := range e.days {
			for si, code := range shiftCodes {
				if !emp.IsAvailable(day, code) {
					m.FixFalse(vars[ei][di][si])
				}
			}
		}
	}

	// 约束3：周工时上限（带 10% 松弛，严格上限由校验器重申）
	// 工时以十分之一小时整数累计，蕴含式具体化
	weeks := model.WeekCount(len(e.days))
	for ei, emp := range e.employees {
		_, maxHours := e.constraints.HourLimits(emp.EmployeeType)
		var hourVars []cpmodel.IntVar
		for di, day := range e.days {
			for si, code := range shiftCodes {
				tenths := int(model.HoursForCode(code) * 10)
				iv := m.NewIntVar(0, tenths,
					fmt.Sprintf("hours_e%s_d%s_s%s", emp.ID, day, code))
				m.AddEqualityIf(cpmodel.Pos(vars[ei][di][si]), iv, tenths)
				m.AddEqualityIf(cpmodel.Neg(vars[ei][di][si]), iv, 0)
				hourVars = append(hourVars, iv)
			}
		}
		bound := int(maxHours * 10 * float64(weeks) * 1.1)
		m.AddIntSumLE(hourVars, bound, fmt.Sprintf("周工时上限 %s", emp.ID))
	}

	// 约束4：最小休息——闭店班次后不得接开店班次
	for ei := range e.employees {
		for di := 0; di < len(e.days)-1; di++ {
			for si1, code1 := range shiftCodes {
				if !model.IsClosingCode(code1) {
					continue
				}
				for si2, code2 := range shiftCodes {
					if !model.IsOpeningCode(code2) {
						continue
					}
					m.AddBoolOr(
						cpmodel.Neg(vars[ei][di][si1]),
						cpmodel.Neg(vars[ei][di+1][si2]),
					)
				}
			}
		}
	}

	shiftIndex := make(map[model.ShiftCode]int, len(shiftCodes))
	for si, code := range shiftCodes {
		shiftIndex[code] = si
	}

	peakStaff := e.store.PeakRequirements.TotalStaff()
	normalStaff := e.store.NormalRequirements.TotalStaff()
	windowMin := maxInt(2, int(float64(normalStaff)*0.3))

	collect := func(di int, codes []model.ShiftCode) []cpmodel.BoolVar {
		var out []cpmodel.BoolVar
		for ei := range e.employees {
			for _, code := range codes {
				out = append(out, vars[ei][di][shiftIndex[code]])
			}
		}
		return out
	}

	for di, day := range e.days {
		peakMin := e.peakRequirement(day, peakStaff)

		// 约束5/6：午/晚高峰覆盖（周末 +20%）
		m.AddLinearGE(collect(di, e.lunchShifts), peakMin, fmt.Sprintf("午高峰覆盖 %s", day))
		m.AddLinearGE(collect(di, e.dinnerShifts), peakMin, fmt.Sprintf("晚高峰覆盖 %s", day))

		// 约束7/8：开店/闭店覆盖
		m.AddLinearGE(collect(di, e.openingShifts), windowMin, fmt.Sprintf("开店覆盖 %s", day))
		m.AddLinearGE(collect(di, e.closingShifts), windowMin, fmt.Sprintf("闭店覆盖 %s", day))

		// 约束9：店长在岗
		if len(e.managers) > 0 {
			var managerVars []cpmodel.BoolVar
			for ei, emp := range e.employees {
				if !emp.IsManager {
					continue
				}
				for si := range shiftCodes {
					managerVars = append(managerVars, vars[ei][di][si])
				}
			}
			m.AddLinearGE(managerVars, e.constraints.MinManagersAlways, fmt.Sprintf("店长在岗 %s", day))
		}
	}

	// 目标：最大化覆盖，奖励高峰班次与周末出勤
	for ei := range e.employees {
		for di, day := range e.days {
			isWeekend := model.IsWeekend(day)
			for si, code := range shiftCodes {
				t, _ := model.LookupShift(code)
				coef := int(t.Hours * 10)
				if t.CoversLunchPeak {
					coef += 5
				}
				if t.CoversDinnerPeak {
					coef += 5
				}
				if isWeekend {
					coef += 3
				}
				m.AddObjectiveTerm(vars[ei][di][si], coef)
			}
		}
	}

	return m, vars
}

// peakRequirement 单日高峰需求人数（周末上浮后向上取整）
func (e *Engine) peakRequirement(day string, peakStaff int) int {
	multiplier := 1.0
	if model.IsWeekend(day) {
		multiplier = e.constraints.WeekendMultiplier()
	}
	return int(math.Ceil(float64(peakStaff) * multiplier))
}

// decodeRoster 将求解器赋值解码为花名册
func (e *Engine) decodeRoster(assign []bool, vars [][][]cpmodel.BoolVar) (model.Roster, error) {
	shiftCodes := model.ActiveShiftCodes()
	roster := make(model.Roster, 0, len(e.employees))

	for ei, emp := range e.employees {
		schedule := e.newSchedule(emp)
		for di, day := range e.days {
			assigned := false
			for si, code := range shiftCodes {
				if !assign[vars[ei][di][si]] {
					continue
				}
				rec, ok := model.NewShiftRecord(code, emp.PrimaryStation)
				if !ok {
					// 内部不变量被破坏：中止请求
					return nil, errors.UnknownShiftCode(string(code))
				}
				schedule.Shifts[day] = rec
				schedule.TotalHours += rec.Hours
				assigned = true
				break
			}
			if !assigned {
				schedule.Shifts[day] = model.DayOffRecord()
			}
		}
		roster = append(roster, schedule)
	}

	return roster, nil
}

// fallbackRoster 可用性驱动的保底排班
// 取可用列表中第一个在目录内的班次代码，否则休息
func (e *Engine) fallbackRoster() model.Roster {
	roster := make(model.Roster, 0, len(e.employees))

	for _, emp := range e.employees {
		schedule := e.newSchedule(emp)
		for _, day := range e.days {
			var rec *model.ShiftRecord
			for _, code := range emp.AvailableCodes(day) {
				sc := model.ShiftCode(code)
				if sc == model.ShiftDayOff {
					continue
				}
				if r, ok := model.NewShiftRecord(sc, emp.PrimaryStation); ok {
					rec = r
					break
				}
			}
			if rec == nil {
				rec = model.DayOffRecord()
			}
			schedule.Shifts[day] = rec
			schedule.TotalHours += rec.Hours
		}
		roster = append(roster, schedule)
	}

	return roster
}

// newSchedule 初始化员工排班骨架
func (e *Engine) newSchedule(emp *model.Employee) *model.EmployeeSchedule {
	return &model.EmployeeSchedule{
		EmployeeID:     emp.ID,
		EmployeeName:   emp.Name,
		EmployeeType:   emp.EmployeeType,
		IsManager:      emp.IsManager,
		PrimaryStation: emp.PrimaryStation,
		Shifts:         make(map[string]*model.ShiftRecord, len(e.days)),
	}
}

// calculatePeakCoverage 计算高峰覆盖指标
func (e *Engine) calculatePeakCoverage(roster model.Roster) *PeakCoverage {
	peakStaff := e.store.PeakRequirements.TotalStaff()
	normalStaff := e.store.NormalRequirements.TotalStaff()
	windowRequired := maxInt(2, int(float64(normalStaff)*0.3))

	pc := &PeakCoverage{
		LunchPeak:            make(map[string]DayPeakCoverage, len(e.days)),
		DinnerPeak:           make(map[string]DayPeakCoverage, len(e.days)),
		Opening:              make(map[string]DayWindowCoverage, len(e.days)),
		Closing:              make(map[string]DayWindowCoverage, len(e.days)),
		WeekendTargetPercent: e.constraints.WeekendCoverageIncreasePercent,
	}

	weekendTotal, weekdayTotal := 0, 0
	weekendDays, weekdayDays := 0, 0

	for _, day := range e.days {
		isWeekend := model.IsWeekend(day)
		lunch, dinner, opening, closing := 0, 0, 0, 0

		for _, schedule := range roster {
			rec := schedule.ShiftOn(day)
			if rec == nil || rec.IsDayOff() {
				continue
			}
			t, ok := model.LookupShift(rec.ShiftCode)
			if !ok {
				continue
			}
			if t.CoversLunchPeak {
				lunch++
			}
			if t.CoversDinnerPeak {
				dinner++
			}
			if t.IsOpening {
				opening++
			}
			if t.IsClosing {
				closing++
			}
		}

		required := e.peakRequirement(day, peakStaff)
		pc.LunchPeak[day] = DayPeakCoverage{
			Count: lunch, Required: required, Met: lunch >= required, IsWeekend: isWeekend,
		}
		pc.DinnerPeak[day] = DayPeakCoverage{
			Count: dinner, Required: required, Met: dinner >= required, IsWeekend: isWeekend,
		}
		pc.Opening[day] = DayWindowCoverage{Count: opening, Required: windowRequired}
		pc.Closing[day] = DayWindowCoverage{Count: closing, Required: windowRequired}

		if isWeekend {
			weekendTotal += lunch + dinner
			weekendDays++
		} else {
			weekdayTotal += lunch + dinner
			weekdayDays++
		}
	}

	var avgWeekend, avgWeekday float64
	if weekendDays > 0 {
		avgWeekend = float64(weekendTotal) / float64(weekendDays)
	}
	if weekdayDays > 0 {
		avgWeekday = float64(weekdayTotal) / float64(weekdayDays)
	}
	var increasePct float64
	if avgWeekday > 0 {
		increasePct = (avgWeekend/avgWeekday - 1) * 100
	}
	pc.WeekendCoverageIncreasePercent = round1(increasePct)
	pc.MeetsWeekendTarget = increasePct >= e.constraints.WeekendCoverageIncreasePercent*0.9

	pc.Summary = PeakSummary{
		LunchPeakMet:   allPeakMet(pc.LunchPeak),
		DinnerPeakMet:  allPeakMet(pc.DinnerPeak),
		OpeningCovered: allWindowCovered(pc.Opening),
		ClosingCovered: allWindowCovered(pc.Closing),
	}

	return pc
}

func allPeakMet(coverage map[string]DayPeakCoverage) bool {
	for _, c := range coverage {
		if !c.Met {
			return false
		}
	}
	return true
}

func allWindowCovered(coverage map[string]DayWindowCoverage) bool {
	for _, c := range coverage {
		if c.Count < c.Required {
			return false
		}
	}
	return true
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
