// Package model 定义排班引擎的核心数据模型
package model

// ShiftCode 班次代码（对外可见标识，必须逐字保留）
type ShiftCode string

const (
	ShiftDay        ShiftCode = "S"  // 日班 06:30-15:00
	ShiftFirstHalf  ShiftCode = "1F" // 前半班 06:30-15:30
	ShiftSecondHalf ShiftCode = "2F" // 后半班 14:00-23:00
	ShiftFullDay    ShiftCode = "3F" // 全天班 08:00-20:00
	ShiftChange     ShiftCode = "SC" // 换班班 11:00-20:00
	ShiftMeeting    ShiftCode = "M"  // 会议班 09:00-17:00
	ShiftDayOff     ShiftCode = "/"  // 休息日
)

// ShiftTemplate 班次模板
// 覆盖标志以本表为准，不从时间重新推算
type ShiftTemplate struct {
	Code             ShiftCode `json:"code"`
	Name             string    `json:"name"`
	StartTime        string    `json:"start_time,omitempty"` // HH:MM
	EndTime          string    `json:"end_time,omitempty"`   // HH:MM
	Hours            float64   `json:"hours"`
	IsOpening        bool      `json:"is_opening"`
	IsClosing        bool      `json:"is_closing"`
	CoversLunchPeak  bool      `json:"covers_lunch_peak"`  // 11:00-14:00
	CoversDinnerPeak bool      `json:"covers_dinner_peak"` // 17:00-21:00
}

// shiftCatalog 进程级不可变班次目录
var shiftCatalog = map[ShiftCode]ShiftTemplate{
	ShiftDay: {
		Code: ShiftDay, Name: "Day Shift",
		StartTime: "06:30", EndTime: "15:00", Hours: 8.5,
		IsOpening: true, CoversLunchPeak: true,
	},
	ShiftFirstHalf: {
		Code: ShiftFirstHalf, Name: "First Half",
		StartTime: "06:30", EndTime: "15:30", Hours: 9.0,
		IsOpening: true, CoversLunchPeak: true,
	},
	ShiftSecondHalf: {
		Code: ShiftSecondHalf, Name: "Second Half",
		StartTime: "14:00", EndTime: "23:00", Hours: 9.0,
		IsClosing: true, CoversDinnerPeak: true,
	},
	ShiftFullDay: {
		Code: ShiftFullDay, Name: "Full Day",
		StartTime: "08:00", EndTime: "20:00", Hours: 12.0,
		CoversLunchPeak: true, CoversDinnerPeak: true,
	},
	ShiftChange: {
		Code: ShiftChange, Name: "Shift Change",
		StartTime: "11:00", EndTime: "20:00", Hours: 9.0,
		CoversLunchPeak: true, CoversDinnerPeak: true,
	},
	ShiftMeeting: {
		Code: ShiftMeeting, Name: "Meeting",
		StartTime: "09:00", EndTime: "17:00", Hours: 8.0,
		CoversLunchPeak: true,
	},
	ShiftDayOff: {
		Code: ShiftDayOff, Name: "Day Off", Hours: 0.0,
	},
}

// activeShiftOrder 活动班次的固定遍历顺序（"/" 不是决策变量）
var activeShiftOrder = []ShiftCode{
	ShiftDay, ShiftFirstHalf, ShiftSecondHalf, ShiftFullDay, ShiftChange, ShiftMeeting,
}

// LookupShift 查找班次模板
func LookupShift(code ShiftCode) (ShiftTemplate, bool) {
	t, ok := shiftCatalog[code]
	return t, ok
}

// ActiveShiftCodes 返回所有活动班次代码（不含休息日）
func ActiveShiftCodes() []ShiftCode {
	codes := make([]ShiftCode, len(activeShiftOrder))
	copy(codes, activeShiftOrder)
	return codes
}

// HoursForCode 返回班次工时，未知代码返回 0
func HoursForCode(code ShiftCode) float64 {
	if t, ok := shiftCatalog[code]; ok {
		return t.Hours
	}
	return 0
}

// LunchPeakShifts 返回覆盖午高峰的班次
func LunchPeakShifts() []ShiftCode {
	return filterShifts(func(t ShiftTemplate) bool { return t.CoversLunchPeak })
}

// DinnerPeakShifts 返回覆盖晚高峰的班次
func DinnerPeakShifts() []ShiftCode {
	return filterShifts(func(t ShiftTemplate) bool { return t.CoversDinnerPeak })
}

// OpeningShifts 返回开店班次
func OpeningShifts() []ShiftCode {
	return filterShifts(func(t ShiftTemplate) bool { return t.IsOpening })
}

// ClosingShifts 返回闭店班次
func ClosingShifts() []ShiftCode {
	return filterShifts(func(t ShiftTemplate) bool { return t.IsClosing })
}

// filterShifts 按条件过滤活动班次，保持固定顺序
func filterShifts(pred func(ShiftTemplate) bool) []ShiftCode {
	var codes []ShiftCode
	for _, code := range activeShiftOrder {
		if pred(shiftCatalog[code]) {
			codes = append(codes, code)
		}
	}
	return codes
}

// IsClosingCode 检查代码是否为闭店班次
func IsClosingCode(code ShiftCode) bool {
	t, ok := shiftCatalog[code]
	return ok && t.IsClosing
}

// IsOpeningCode 检查代码是否为开店班次
func IsOpeningCode(code ShiftCode) bool {
	t, ok := shiftCatalog[code]
	return ok && t.IsOpening
}
