// Package model 定义排班引擎的核心数据模型
package model

// ConflictKind 冲突类型（对外可见字符串）
type ConflictKind string

const (
	// 硬约束冲突
	ConflictLaborLawViolation   ConflictKind = "labor_law_violation"
	ConflictRestPeriodViolation ConflictKind = "rest_period_violation"
	ConflictMaxHoursExceeded    ConflictKind = "max_hours_exceeded"
	ConflictMinHoursNotMet      ConflictKind = "min_hours_not_met"
	ConflictSkillMismatch       ConflictKind = "skill_mismatch"
	ConflictUnderstaffed        ConflictKind = "understaffed"
	ConflictNoManager           ConflictKind = "no_manager"
	ConflictAvailability        ConflictKind = "availability_conflict"
	ConflictDoubleBooking       ConflictKind = "double_booking"
	ConflictPeakUnderstaffed    ConflictKind = "peak_understaffed"

	// 软约束冲突（保留枚举，当前不生成）
	ConflictPreferenceNotMet    ConflictKind = "preference_not_met"
	ConflictUnevenDistribution  ConflictKind = "uneven_distribution"
	ConflictConsecutiveDays     ConflictKind = "consecutive_days"
	ConflictOverstaffed         ConflictKind = "overstaffed"
)

// Severity 冲突严重度
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// SeverityRank 返回严重度排序值，critical 最优先
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	}
	return 4
}

// Conflict 排班冲突
type Conflict struct {
	Kind        ConflictKind `json:"type"`
	Severity    Severity     `json:"severity"`
	Description string       `json:"description"`
	EmployeeID  string       `json:"employee_id,omitempty"`
	Days        []string     `json:"days,omitempty"`
	Station     Station      `json:"station,omitempty"`
	Period      string       `json:"period,omitempty"` // lunch_peak/dinner_peak
}

// IsHard 硬冲突：severity 为 critical 或 high
func (c Conflict) IsHard() bool {
	return c.Severity == SeverityCritical || c.Severity == SeverityHigh
}

// Change 排班修改项
type Change struct {
	EmployeeID string `json:"employee_id"`
	Day        string `json:"day"`
	Field      string `json:"field"` // shift_code/station
	NewValue   string `json:"new_value"`
}

// Resolution 冲突修复方案，ImpactScore 越低越优
type Resolution struct {
	Description string   `json:"description"`
	ImpactScore float64  `json:"impact_score"`
	Changes     []Change `json:"changes"`
}

// Constraints 劳动法与运营约束
type Constraints struct {
	// 班次间休息
	MinRestBetweenShiftsHours float64 `json:"min_rest_between_shifts_hours"`

	// 按雇佣类型的周工时上下限
	FullTimeMinHours float64 `json:"full_time_min_hours"`
	FullTimeMaxHours float64 `json:"full_time_max_hours"`
	PartTimeMinHours float64 `json:"part_time_min_hours"`
	PartTimeMaxHours float64 `json:"part_time_max_hours"`
	CasualMinHours   float64 `json:"casual_min_hours"`
	CasualMaxHours   float64 `json:"casual_max_hours"`

	// 单日约束
	MaxHoursPerDay   float64 `json:"max_hours_per_day"`
	MinHoursPerShift float64 `json:"min_hours_per_shift"`

	// 店长约束
	MinManagersAlways int `json:"min_managers_always"`

	// 周末约束
	WeekendCoverageIncreasePercent float64 `json:"weekend_coverage_increase_percent"`

	// 连续工作天数约束
	MaxConsecutiveDays          int `json:"max_consecutive_days"`
	PreferredConsecutiveDaysOff int `json:"preferred_consecutive_days_off"`
}

// DefaultConstraints 返回默认约束配置
func DefaultConstraints() *Constraints {
	return &Constraints{
		MinRestBetweenShiftsHours:      10.0,
		FullTimeMinHours:               35.0,
		FullTimeMaxHours:               38.0,
		PartTimeMinHours:               20.0,
		PartTimeMaxHours:               32.0,
		CasualMinHours:                 8.0,
		CasualMaxHours:                 24.0,
		MaxHoursPerDay:                 12.0,
		MinHoursPerShift:               3.0,
		MinManagersAlways:              1,
		WeekendCoverageIncreasePercent: 20.0,
		MaxConsecutiveDays:             6,
		PreferredConsecutiveDaysOff:    2,
	}
}

// HourLimits 返回某雇佣类型的周工时上下限
func (c *Constraints) HourLimits(t EmployeeType) (min, max float64) {
	switch t {
	case FullTime:
		return c.FullTimeMinHours, c.FullTimeMaxHours
	case PartTime:
		return c.PartTimeMinHours, c.PartTimeMaxHours
	default:
		return c.CasualMinHours, c.CasualMaxHours
	}
}

// WeekendMultiplier 返回周末覆盖乘数（如 1.2）
func (c *Constraints) WeekendMultiplier() float64 {
	return 1.0 + c.WeekendCoverageIncreasePercent/100.0
}
