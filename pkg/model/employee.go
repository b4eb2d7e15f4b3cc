// Package model 定义排班引擎的核心数据模型
package model

// EmployeeType 雇佣类型
type EmployeeType string

const (
	FullTime EmployeeType = "Full-Time"
	PartTime EmployeeType = "Part-Time"
	Casual   EmployeeType = "Casual"
)

// Station 工作站（封闭枚举）
type Station string

const (
	StationKitchen          Station = "Kitchen"
	StationCounter          Station = "Counter"
	StationMcCafe           Station = "McCafe"
	StationDessert          Station = "Dessert"
	StationMultiStation     Station = "Multi-Station"
	StationMultiStationCafe Station = "Multi-Station McCafe"
)

// AllStations 返回全部工作站
func AllStations() []Station {
	return []Station{
		StationKitchen, StationCounter, StationMcCafe,
		StationDessert, StationMultiStation, StationMultiStationCafe,
	}
}

// ValidEmployeeType 检查雇佣类型是否合法
func ValidEmployeeType(t EmployeeType) bool {
	switch t {
	case FullTime, PartTime, Casual:
		return true
	}
	return false
}

// ValidStation 检查工作站是否合法
func ValidStation(s Station) bool {
	switch s {
	case StationKitchen, StationCounter, StationMcCafe,
		StationDessert, StationMultiStation, StationMultiStationCafe:
		return true
	}
	return false
}

// Employee 员工
// 在一次排班生成中不可变
type Employee struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	EmployeeType      EmployeeType `json:"employee_type"`
	PrimaryStation    Station      `json:"primary_station"`
	CertifiedStations []Station    `json:"certified_stations,omitempty"`
	IsManager         bool         `json:"is_manager"`

	// 可用性：日期 -> 可上班次代码列表
	// 缺少日期键表示当天不可用；仅含 "/" 等同于不可用
	Availability map[string][]string `json:"availability,omitempty"`
}

// HourLimits 返回该雇佣类型的周工时上下限
func (e *Employee) HourLimits() (min, max float64) {
	switch e.EmployeeType {
	case FullTime:
		return 35.0, 38.0
	case PartTime:
		return 20.0, 32.0
	default: // Casual
		return 8.0, 24.0
	}
}

// CanWorkStation 检查员工是否具备某工作站资质
func (e *Employee) CanWorkStation(station Station) bool {
	if e.PrimaryStation == station {
		return true
	}
	for _, s := range e.CertifiedStations {
		if s == station {
			return true
		}
	}
	// 多功能员工可覆盖厨房和柜台
	if e.PrimaryStation == StationMultiStation || e.PrimaryStation == StationMultiStationCafe {
		if station == StationKitchen || station == StationCounter {
			return true
		}
		if e.PrimaryStation == StationMultiStationCafe && station == StationMcCafe {
			return true
		}
	}
	return false
}

// AvailableCodes 返回员工某天可上的班次代码，缺失日期返回空
func (e *Employee) AvailableCodes(day string) []string {
	if e.Availability == nil {
		return nil
	}
	return e.Availability[day]
}

// IsAvailable 检查员工某天是否可上某班次
func (e *Employee) IsAvailable(day string, code ShiftCode) bool {
	if code == ShiftDayOff {
		return false
	}
	for _, c := range e.AvailableCodes(day) {
		if ShiftCode(c) == code {
			return true
		}
	}
	return false
}
