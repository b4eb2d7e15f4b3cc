// Package resolver 提供排班冲突修复引擎
//
// 修复引擎对冲突按严重度排序，逐个生成候选修复方案，
// 按影响分升序保留前 5 个并尝试应用第一个。引擎本身不循环，
// 由编排器在修复后重新运行校验。
package resolver

import (
	"fmt"
	"sort"

	"github.com/yepai/yepai/pkg/logger"
	"github.com/yepai/yepai/pkg/model"
)

// 每个冲突保留的候选方案数
const maxOptionsPerConflict = 5

// AppliedResolution 已应用的修复记录
type AppliedResolution struct {
	Conflict   model.Conflict   `json:"conflict"`
	Resolution model.Resolution `json:"resolution"`
	Applied    bool             `json:"applied"`
}

// Report 修复结果
type Report struct {
	ResolutionsApplied int                 `json:"resolutions_applied"`
	UnresolvedCount    int                 `json:"unresolved_count"`
	Resolutions        []AppliedResolution `json:"resolutions"`
	Unresolved         []model.Conflict    `json:"unresolved_conflicts"`
	ModifiedRoster     model.Roster        `json:"modified_roster"`
}

// Engine 冲突修复引擎
type Engine struct {
	log *logger.RosterLogger
}

// NewEngine 创建修复引擎
func NewEngine() *Engine {
	return &Engine{log: logger.NewRosterLogger("resolver")}
}

// Repair 修复冲突
// 只修改自己的深拷贝，原花名册不受影响
func (e *Engine) Repair(conflicts []model.Conflict, roster model.Roster, employees []*model.Employee) *Report {
	report := &Report{
		Resolutions:    make([]AppliedResolution, 0),
		Unresolved:     make([]model.Conflict, 0),
		ModifiedRoster: roster.DeepCopy(),
	}

	// 严重度排序，critical 最先；同级保持原顺序
	sorted := make([]model.Conflict, len(conflicts))
	copy(sorted, conflicts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return model.SeverityRank(sorted[i].Severity) < model.SeverityRank(sorted[j].Severity)
	})

	for _, conflict := range sorted {
		options := e.suggest(conflict, report.ModifiedRoster, employees)
		if len(options) > maxOptionsPerConflict {
			options = options[:maxOptionsPerConflict]
		}

		if len(options) == 0 {
			report.Unresolved = append(report.Unresolved, conflict)
			continue
		}

		best := options[0]
		if e.apply(report.ModifiedRoster, best) {
			report.Resolutions = append(report.Resolutions, AppliedResolution{
				Conflict:   conflict,
				Resolution: best,
				Applied:    true,
			})
		} else {
			report.Unresolved = append(report.Unresolved, conflict)
		}
	}

	report.ResolutionsApplied = len(report.Resolutions)
	report.UnresolvedCount = len(report.Unresolved)

	e.log.Base().Info().
		Int("applied", report.ResolutionsApplied).
		Int("unresolved", report.UnresolvedCount).
		Msg("冲突修复完成")

	return report
}

// suggest 按冲突类型生成候选方案，影响分升序
func (e *Engine) suggest(conflict model.Conflict, roster model.Roster, employees []*model.Employee) []model.Resolution {
	var options []model.Resolution

	switch conflict.Kind {
	case model.ConflictRestPeriodViolation:
		options = e.resolveRestPeriod(conflict)
	case model.ConflictMaxHoursExceeded:
		options = e.resolveMaxHours(conflict, roster)
	case model.ConflictMinHoursNotMet:
		options = e.resolveMinHours(conflict, roster)
	case model.ConflictUnderstaffed:
		options = e.resolveUnderstaffed(conflict, roster, employees, false)
	case model.ConflictNoManager:
		options = e.resolveUnderstaffed(conflict, roster, employees, true)
	case model.ConflictSkillMismatch:
		options = e.resolveSkillMismatch(conflict, roster, employees)
	default:
		options = []model.Resolution{{
			Description: fmt.Sprintf("冲突类型 %s 需要人工复核", conflict.Kind),
			ImpactScore: 10.0,
		}}
	}

	sort.SliceStable(options, func(i, j int) bool {
		return options[i].ImpactScore < options[j].ImpactScore
	})
	return options
}

// resolveRestPeriod 休息不足：前一天提前下班、后一天推迟上班或休息
func (e *Engine) resolveRestPeriod(conflict model.Conflict) []model.Resolution {
	if len(conflict.Days) < 2 {
		return nil
	}
	d1, d2 := conflict.Days[0], conflict.Days[1]
	empID := conflict.EmployeeID

	return []model.Resolution{
		{
			Description: fmt.Sprintf("将 %s 的班次改为前半班 (1F)", d1),
			ImpactScore: 2.0,
			Changes: []model.Change{{
				EmployeeID: empID, Day: d1, Field: "shift_code", NewValue: string(model.ShiftFirstHalf),
			}},
		},
		{
			Description: fmt.Sprintf("将 %s 的班次改为后半班 (2F)", d2),
			ImpactScore: 2.0,
			Changes: []model.Change{{
				EmployeeID: empID, Day: d2, Field: "shift_code", NewValue: string(model.ShiftSecondHalf),
			}},
		},
		{
			Description: fmt.Sprintf("%s 安排休息", d2),
			ImpactScore: 4.0,
			Changes: []model.Change{{
				EmployeeID: empID, Day: d2, Field: "shift_code", NewValue: string(model.ShiftDayOff),
			}},
		},
	}
}

// resolveMaxHours 超时：对工时最长的前三个班次给出移除/缩短选项
func (e *Engine) resolveMaxHours(conflict model.Conflict, roster model.Roster) []model.Resolution {
	schedule := roster.Find(conflict.EmployeeID)
	if schedule == nil {
		return nil
	}

	type dayShift struct {
		day   string
		hours float64
		code  model.ShiftCode
	}
	var working []dayShift
	for _, day := range schedule.SortedDays() {
		rec := schedule.Shifts[day]
		if rec.Hours > 0 {
			working = append(working, dayShift{day: day, hours: rec.Hours, code: rec.ShiftCode})
		}
	}
	sort.SliceStable(working, func(i, j int) bool {
		return working[i].hours > working[j].hours
	})
	if len(working) > 3 {
		working = working[:3]
	}

	var options []model.Resolution
	for _, ds := range working {
		options = append(options, model.Resolution{
			Description: fmt.Sprintf("移除 %s 的班次（%.1f 小时）", ds.day, ds.hours),
			ImpactScore: ds.hours / 2,
			Changes: []model.Change{{
				EmployeeID: conflict.EmployeeID, Day: ds.day,
				Field: "shift_code", NewValue: string(model.ShiftDayOff),
			}},
		})
		if ds.code == model.ShiftFullDay {
			options = append(options, model.Resolution{
				Description: fmt.Sprintf("将 %s 缩短为前半班 (1F)", ds.day),
				ImpactScore: ds.hours / 4,
				Changes: []model.Change{{
					EmployeeID: conflict.EmployeeID, Day: ds.day,
					Field: "shift_code", NewValue: string(model.ShiftFirstHalf),
				}},
			})
		}
	}
	return options
}

// resolveMinHours 工时不足：空闲日补日班
func (e *Engine) resolveMinHours(conflict model.Conflict, roster model.Roster) []model.Resolution {
	schedule := roster.Find(conflict.EmployeeID)
	if schedule == nil {
		return nil
	}

	var options []model.Resolution
	for _, day := range schedule.SortedDays() {
		if schedule.Shifts[day].IsDayOff() {
			options = append(options, model.Resolution{
				Description: fmt.Sprintf("在 %s 增加日班 (+8.5 小时)", day),
				ImpactScore: 1.0,
				Changes: []model.Change{{
					EmployeeID: conflict.EmployeeID, Day: day,
					Field: "shift_code", NewValue: string(model.ShiftDay),
				}},
			})
		}
	}
	return options
}

// resolveUnderstaffed 人手不足：找当天休息且可用的员工补日班
// managersOnly 为真时只考虑店长（无店长冲突）
// 无可用性记录的员工视为可补班（保留原有行为）；当天仅申报 "/" 视为不可用
func (e *Engine) resolveUnderstaffed(conflict model.Conflict, roster model.Roster, employees []*model.Employee, managersOnly bool) []model.Resolution {
	impact := 1.5
	role := ""
	if managersOnly {
		impact = 1.0
		role = "店长"
	}

	var options []model.Resolution
	for _, day := range conflict.Days {
		for _, emp := range employees {
			if managersOnly && !emp.IsManager {
				continue
			}
			schedule := roster.Find(emp.ID)
			if schedule == nil {
				continue
			}
			rec := schedule.ShiftOn(day)
			if rec == nil || !rec.IsDayOff() {
				continue
			}
			codes, hasDay := emp.Availability[day]
			if !hasDay && len(emp.Availability) > 0 {
				continue
			}
			if hasDay {
				offers := false
				for _, c := range codes {
					if model.ShiftCode(c) != model.ShiftDayOff {
						offers = true
						break
					}
				}
				if !offers {
					continue
				}
			}
			options = append(options, model.Resolution{
				Description: fmt.Sprintf("安排%s %s 在 %s 上日班", role, emp.Name, day),
				ImpactScore: impact,
				Changes: []model.Change{{
					EmployeeID: emp.ID, Day: day,
					Field: "shift_code", NewValue: string(model.ShiftDay),
				}},
			})
		}
	}
	return options
}

// resolveSkillMismatch 技能不匹配：将具备资质的员工改派到目标工作站
func (e *Engine) resolveSkillMismatch(conflict model.Conflict, roster model.Roster, employees []*model.Employee) []model.Resolution {
	if len(conflict.Days) == 0 || conflict.Station == "" {
		return nil
	}
	day := conflict.Days[0]

	var options []model.Resolution
	for _, emp := range employees {
		if !emp.CanWorkStation(conflict.Station) {
			continue
		}
		schedule := roster.Find(emp.ID)
		if schedule == nil {
			continue
		}
		rec := schedule.ShiftOn(day)
		if rec == nil || rec.Station == conflict.Station {
			continue
		}
		options = append(options, model.Resolution{
			Description: fmt.Sprintf("将 %s 在 %s 改派到 %s", emp.Name, day, conflict.Station),
			ImpactScore: 2.0,
			Changes: []model.Change{{
				EmployeeID: emp.ID, Day: day,
				Field: "station", NewValue: string(conflict.Station),
			}},
		})
	}
	return options
}

// apply 应用修复方案
// 目标 (employee_id, day) 必须存在且引用的字段在班次记录上有效
func (e *Engine) apply(roster model.Roster, resolution model.Resolution) bool {
	if len(resolution.Changes) == 0 {
		return false
	}

	for _, change := range resolution.Changes {
		schedule := roster.Find(change.EmployeeID)
		if schedule == nil {
			return false
		}
		rec := schedule.ShiftOn(change.Day)
		if rec == nil {
			return false
		}

		switch change.Field {
		case "shift_code":
			code := model.ShiftCode(change.NewValue)
			t, ok := model.LookupShift(code)
			if !ok {
				return false
			}
			rec.ShiftCode = t.Code
			rec.ShiftName = t.Name
			rec.Hours = t.Hours
			if code == model.ShiftDayOff {
				rec.Station = ""
			} else if rec.Station == "" {
				rec.Station = schedule.PrimaryStation
			}
			schedule.RecalcTotalHours()
		case "station":
			rec.Station = model.Station(change.NewValue)
		default:
			return false
		}
	}
	return true
}
