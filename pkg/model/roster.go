// Package model 定义排班引擎的核心数据模型
package model

import "sort"

// ShiftRecord 花名册中的单日班次记录
type ShiftRecord struct {
	ShiftCode ShiftCode `json:"shift_code"`
	ShiftName string    `json:"shift_name"`
	Hours     float64   `json:"hours"`
	Station   Station   `json:"station,omitempty"`
}

// NewShiftRecord 从班次目录构造班次记录
func NewShiftRecord(code ShiftCode, station Station) (*ShiftRecord, bool) {
	t, ok := LookupShift(code)
	if !ok {
		return nil, false
	}
	rec := &ShiftRecord{
		ShiftCode: t.Code,
		ShiftName: t.Name,
		Hours:     t.Hours,
	}
	if code != ShiftDayOff {
		rec.Station = station
	}
	return rec, true
}

// DayOffRecord 构造休息日记录
func DayOffRecord() *ShiftRecord {
	rec, _ := NewShiftRecord(ShiftDayOff, "")
	return rec
}

// IsDayOff 检查是否为休息日
func (r *ShiftRecord) IsDayOff() bool {
	return r.ShiftCode == ShiftDayOff
}

// EmployeeSchedule 单个员工的排班
// 不变量：输入中的每个日期在 Shifts 中都有条目（可能是休息日）
type EmployeeSchedule struct {
	EmployeeID     string                  `json:"employee_id"`
	EmployeeName   string                  `json:"employee_name"`
	EmployeeType   EmployeeType            `json:"employee_type"`
	IsManager      bool                    `json:"is_manager"`
	PrimaryStation Station                 `json:"primary_station"`
	Shifts         map[string]*ShiftRecord `json:"shifts"`
	TotalHours     float64                 `json:"total_hours"`
}

// ShiftOn 返回某天的班次记录
func (s *EmployeeSchedule) ShiftOn(day string) *ShiftRecord {
	if s.Shifts == nil {
		return nil
	}
	return s.Shifts[day]
}

// RecalcTotalHours 从班次记录重新累计总工时
func (s *EmployeeSchedule) RecalcTotalHours() {
	var total float64
	for _, rec := range s.Shifts {
		total += rec.Hours
	}
	s.TotalHours = total
}

// SortedDays 返回排班日期的字典序列表（ISO 日期键即时间序）
func (s *EmployeeSchedule) SortedDays() []string {
	days := make([]string, 0, len(s.Shifts))
	for d := range s.Shifts {
		days = append(days, d)
	}
	sort.Strings(days)
	return days
}

// Roster 花名册，按员工有序
type Roster []*EmployeeSchedule

// Find 按员工ID查找排班
func (r Roster) Find(employeeID string) *EmployeeSchedule {
	for _, s := range r {
		if s.EmployeeID == employeeID {
			return s
		}
	}
	return nil
}

// DeepCopy 深拷贝花名册（修复引擎只改自己的副本）
func (r Roster) DeepCopy() Roster {
	clone := make(Roster, len(r))
	for i, s := range r {
		cs := &EmployeeSchedule{
			EmployeeID:     s.EmployeeID,
			EmployeeName:   s.EmployeeName,
			EmployeeType:   s.EmployeeType,
			IsManager:      s.IsManager,
			PrimaryStation: s.PrimaryStation,
			Shifts:         make(map[string]*ShiftRecord, len(s.Shifts)),
			TotalHours:     s.TotalHours,
		}
		for d, rec := range s.Shifts {
			copied := *rec
			cs.Shifts[d] = &copied
		}
		clone[i] = cs
	}
	return clone
}
