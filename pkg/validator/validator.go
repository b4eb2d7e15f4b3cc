// Package validator 提供花名册规则校验
//
// 校验器不关心花名册如何产生，按完整约束分类法重查一遍。
// 求解器侧的周工时上限带 10% 松弛，这里重申严格上限。
package validator

import (
	"fmt"
	"math"

	"github.com/yepai/yepai/pkg/logger"
	"github.com/yepai/yepai/pkg/model"
)

// Result 校验结果
// IsValid 仅取决于 critical/high 级别的冲突
type Result struct {
	IsValid                  bool             `json:"is_valid"`
	Conflicts                []model.Conflict `json:"conflicts"`
	Warnings                 []model.Conflict `json:"warnings"`
	TotalConflicts           int              `json:"total_conflicts"`
	TotalWarnings            int              `json:"total_warnings"`
	HardConstraintViolations int              `json:"hard_constraint_violations"`
}

// Validator 花名册校验器
type Validator struct {
	constraints *model.Constraints
	log         *logger.RosterLogger

	lunchShifts  map[model.ShiftCode]bool
	dinnerShifts map[model.ShiftCode]bool
}

// New 创建校验器
func New(constraints *model.Constraints) *Validator {
	v := &Validator{
		constraints:  constraints,
		log:          logger.NewRosterLogger("validator"),
		lunchShifts:  make(map[model.ShiftCode]bool),
		dinnerShifts: make(map[model.ShiftCode]bool),
	}
	for _, code := range model.LunchPeakShifts() {
		v.lunchShifts[code] = true
	}
	for _, code := range model.DinnerPeakShifts() {
		v.dinnerShifts[code] = true
	}
	return v
}

// Validate 校验花名册
func (v *Validator) Validate(roster model.Roster, days []string, store *model.Store) *Result {
	result := &Result{
		Conflicts: make([]model.Conflict, 0),
		Warnings:  make([]model.Conflict, 0),
	}

	for _, schedule := range roster {
		v.checkEmployee(schedule, days, result)
	}
	v.checkDaily(roster, days, store, result)

	for _, c := range result.Conflicts {
		if c.IsHard() {
			result.HardConstraintViolations++
		}
		v.log.ConflictFound(string(c.Kind), string(c.Severity), c.Description)
	}

	result.IsValid = result.HardConstraintViolations == 0
	result.TotalConflicts = len(result.Conflicts)
	result.TotalWarnings = len(result.Warnings)
	return result
}

// checkEmployee 检查单个员工：休息间隔、连续天数、周工时
func (v *Validator) checkEmployee(schedule *model.EmployeeSchedule, days []string, result *Result) {
	var totalHours float64
	var prevCode model.ShiftCode
	var prevDay string
	consecutive := 0

	for _, day := range days {
		rec := schedule.ShiftOn(day)
		code := model.ShiftDayOff
		if rec != nil {
			code = rec.ShiftCode
		}

		if code != model.ShiftDayOff {
			if rec != nil {
				totalHours += rec.Hours
			}
			consecutive++

			// 闭店接开店：不足 10 小时休息
			if prevCode != "" && prevCode != model.ShiftDayOff &&
				model.IsClosingCode(prevCode) && model.IsOpeningCode(code) {
				result.Conflicts = append(result.Conflicts, model.Conflict{
					Kind:     model.ConflictRestPeriodViolation,
					Severity: model.SeverityCritical,
					Description: fmt.Sprintf("%s: %s 闭店后于 %s 开店，休息不足 %.0f 小时",
						schedule.EmployeeName, prevDay, day, v.constraints.MinRestBetweenShiftsHours),
					EmployeeID: schedule.EmployeeID,
					Days:       []string{prevDay, day},
				})
			}
		} else {
			consecutive = 0
		}

		if consecutive > v.constraints.MaxConsecutiveDays {
			result.Conflicts = append(result.Conflicts, model.Conflict{
				Kind:     model.ConflictLaborLawViolation,
				Severity: model.SeverityHigh,
				Description: fmt.Sprintf("%s: 连续工作超过 %d 天",
					schedule.EmployeeName, v.constraints.MaxConsecutiveDays),
				EmployeeID: schedule.EmployeeID,
				Days:       []string{day},
			})
		}

		prevCode = code
		prevDay = day
	}

	minHours, maxHours := v.constraints.HourLimits(schedule.EmployeeType)
	weeks := float64(model.WeekCount(len(days)))

	if totalHours < minHours*weeks {
		// 仅告警，不影响有效性
		result.Warnings = append(result.Warnings, model.Conflict{
			Kind:     model.ConflictMinHoursNotMet,
			Severity: model.SeverityMedium,
			Description: fmt.Sprintf("%s: %.1f 小时低于最低 %.1f 小时",
				schedule.EmployeeName, totalHours, minHours*weeks),
			EmployeeID: schedule.EmployeeID,
		})
	}

	if totalHours > maxHours*weeks {
		result.Conflicts = append(result.Conflicts, model.Conflict{
			Kind:     model.ConflictMaxHoursExceeded,
			Severity: model.SeverityHigh,
			Description: fmt.Sprintf("%s: %.1f 小时超过上限 %.1f 小时",
				schedule.EmployeeName, totalHours, maxHours*weeks),
			EmployeeID: schedule.EmployeeID,
		})
	}
}

// checkDaily 检查每日：总人数、店长在岗、高峰覆盖
func (v *Validator) checkDaily(roster model.Roster, days []string, store *model.Store, result *Result) {
	normalStaff := store.NormalRequirements.TotalStaff()
	peakStaff := store.PeakRequirements.TotalStaff()

	for _, day := range days {
		isWeekend := model.IsWeekend(day)
		staffCount, managerCount := 0, 0
		lunchCount, dinnerCount := 0, 0

		for _, schedule := range roster {
			rec := schedule.ShiftOn(day)
			if rec == nil || rec.IsDayOff() {
				continue
			}
			staffCount++
			if schedule.IsManager {
				managerCount++
			}
			if v.lunchShifts[rec.ShiftCode] {
				lunchCount++
			}
			if v.dinnerShifts[rec.ShiftCode] {
				dinnerCount++
			}
		}

		if staffCount < normalStaff {
			result.Conflicts = append(result.Conflicts, model.Conflict{
				Kind:     model.ConflictUnderstaffed,
				Severity: model.SeverityHigh,
				Description: fmt.Sprintf("%s: 仅排班 %d 人，需要 %d 人",
					day, staffCount, normalStaff),
				Days: []string{day},
			})
		}

		if managerCount < v.constraints.MinManagersAlways {
			result.Conflicts = append(result.Conflicts, model.Conflict{
				Kind:        model.ConflictNoManager,
				Severity:    model.SeverityCritical,
				Description: fmt.Sprintf("%s: 无店长当值", day),
				Days:        []string{day},
			})
		}

		multiplier := 1.0
		if isWeekend {
			multiplier = v.constraints.WeekendMultiplier()
		}
		requiredPeak := int(math.Ceil(float64(peakStaff) * multiplier))

		weekendNote := ""
		if isWeekend {
			weekendNote = "（含周末 +20%）"
		}

		if lunchCount < requiredPeak {
			result.Conflicts = append(result.Conflicts, model.Conflict{
				Kind:     model.ConflictPeakUnderstaffed,
				Severity: model.SeverityHigh,
				Description: fmt.Sprintf("%s: 午高峰 (11:00-14:00) 在岗 %d 人，需要 %d 人%s",
					day, lunchCount, requiredPeak, weekendNote),
				Days:   []string{day},
				Period: "lunch_peak",
			})
		}

		if dinnerCount < requiredPeak {
			result.Conflicts = append(result.Conflicts, model.Conflict{
				Kind:     model.ConflictPeakUnderstaffed,
				Severity: model.SeverityHigh,
				Description: fmt.Sprintf("%s: 晚高峰 (17:00-21:00) 在岗 %d 人，需要 %d 人%s",
					day, dinnerCount, requiredPeak, weekendNote),
				Days:   []string{day},
				Period: "dinner_peak",
			})
		}
	}
}
