// Package handler 提供HTTP请求处理器
package handler

import (
	"net/http"

	"github.com/yepai/yepai/pkg/model"
)

// LaborRule 劳动规则定义
type LaborRule struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // hard/soft
	Category    string `json:"category"`
	Description string `json:"description"`
	Default     string `json:"default"`
}

// ConflictKindInfo 冲突类型定义
type ConflictKindInfo struct {
	Kind        model.ConflictKind `json:"kind"`
	Severity    model.Severity     `json:"severity"`
	Description string             `json:"description"`
	Emitted     bool               `json:"emitted"` // 当前是否会生成
}

// ConstraintLibraryResponse 约束库响应
type ConstraintLibraryResponse struct {
	Rules         []LaborRule        `json:"rules"`
	ConflictKinds []ConflictKindInfo `json:"conflict_kinds"`
}

// ConstraintLibraryHandler 返回排班引擎支持的劳动规则与冲突分类
func ConstraintLibraryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	rules := []LaborRule{
		{Name: "min_rest_between_shifts", Type: "hard", Category: "休息保障", Description: "班次间最小休息时间", Default: "10小时"},
		{Name: "max_hours_per_day", Type: "hard", Category: "工时限制", Description: "每日最大工时", Default: "12小时"},
		{Name: "max_consecutive_days", Type: "hard", Category: "休息保障", Description: "最大连续工作天数", Default: "6天"},
		{Name: "full_time_weekly_hours", Type: "hard", Category: "工时限制", Description: "全职周工时范围", Default: "35-38小时"},
		{Name: "part_time_weekly_hours", Type: "hard", Category: "工时限制", Description: "兼职周工时范围", Default: "20-32小时"},
		{Name: "casual_weekly_hours", Type: "hard", Category: "工时限制", Description: "临时工周工时范围", Default: "8-24小时"},
		{Name: "min_managers_always", Type: "hard", Category: "服务保障", Description: "店长随时在岗人数", Default: "1人"},
		{Name: "weekend_coverage_increase", Type: "hard", Category: "服务保障", Description: "周末高峰人员上浮", Default: "20%"},
		{Name: "min_hours_per_week", Type: "soft", Category: "工时保障", Description: "周最低工时（仅告警）", Default: "按雇佣类型"},
	}

	kinds := []ConflictKindInfo{
		{Kind: model.ConflictRestPeriodViolation, Severity: model.SeverityCritical, Description: "闭店后接开店，休息不足", Emitted: true},
		{Kind: model.ConflictNoManager, Severity: model.SeverityCritical, Description: "无店长当值", Emitted: true},
		{Kind: model.ConflictLaborLawViolation, Severity: model.SeverityHigh, Description: "连续工作天数超限", Emitted: true},
		{Kind: model.ConflictMaxHoursExceeded, Severity: model.SeverityHigh, Description: "周工时超上限", Emitted: true},
		{Kind: model.ConflictUnderstaffed, Severity: model.SeverityHigh, Description: "单日总人数不足", Emitted: true},
		{Kind: model.ConflictPeakUnderstaffed, Severity: model.SeverityHigh, Description: "高峰时段人数不足", Emitted: true},
		{Kind: model.ConflictMinHoursNotMet, Severity: model.SeverityMedium, Description: "周工时低于下限（告警）", Emitted: true},
		{Kind: model.ConflictSkillMismatch, Severity: model.SeverityMedium, Description: "工作站资质不匹配", Emitted: false},
		{Kind: model.ConflictAvailability, Severity: model.SeverityMedium, Description: "可用性冲突", Emitted: false},
		{Kind: model.ConflictDoubleBooking, Severity: model.SeverityMedium, Description: "重复排班", Emitted: false},
		{Kind: model.ConflictPreferenceNotMet, Severity: model.SeverityLow, Description: "偏好未满足", Emitted: false},
		{Kind: model.ConflictUnevenDistribution, Severity: model.SeverityLow, Description: "工作量分布不均", Emitted: false},
		{Kind: model.ConflictConsecutiveDays, Severity: model.SeverityLow, Description: "连续工作天数偏多", Emitted: false},
		{Kind: model.ConflictOverstaffed, Severity: model.SeverityLow, Description: "人员过剩", Emitted: false},
	}

	writeJSON(w, http.StatusOK, ConstraintLibraryResponse{Rules: rules, ConflictKinds: kinds})
}
