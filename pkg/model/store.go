// Package model 定义排班引擎的核心数据模型
package model

// StoreType 门店位置类型
type StoreType string

const (
	StoreCBDCore  StoreType = "CBD Core Area"
	StoreSuburban StoreType = "Suburban Residential"
	StoreHighway  StoreType = "Highway"
)

// StaffingRequirement 人员配置需求（按工作站）
type StaffingRequirement struct {
	KitchenStaff               int `json:"kitchen_staff"`
	CounterStaff               int `json:"counter_staff"`
	McCafeStaff                int `json:"mccafe_staff"`
	DessertStationStaff        int `json:"dessert_station_staff"`
	OfflineDessertStationStaff int `json:"offline_dessert_station_staff"`
}

// TotalStaff 返回各工作站需求总和
func (r StaffingRequirement) TotalStaff() int {
	return r.KitchenStaff + r.CounterStaff + r.McCafeStaff +
		r.DessertStationStaff + r.OfflineDessertStationStaff
}

// Store 门店
type Store struct {
	StoreID      string    `json:"store_id"`
	LocationType StoreType `json:"location_type"`

	// 平峰/高峰人员配置需求
	NormalRequirements StaffingRequirement `json:"normal_requirements"`
	PeakRequirements   StaffingRequirement `json:"peak_requirements"`

	// 营业时间
	OpeningTime string `json:"opening_time"`
	ClosingTime string `json:"closing_time"`

	// 高峰时段（整点小时）
	LunchPeakStart  int `json:"lunch_peak_start"`
	LunchPeakEnd    int `json:"lunch_peak_end"`
	DinnerPeakStart int `json:"dinner_peak_start"`
	DinnerPeakEnd   int `json:"dinner_peak_end"`

	// 店长要求
	MinManagersOnDuty  int `json:"min_managers_on_duty"`
	PeakManagersOnDuty int `json:"peak_managers_on_duty"`
}

// NewStore 创建门店并填入默认营业参数
func NewStore(storeID string, locationType StoreType, normal, peak StaffingRequirement) *Store {
	return &Store{
		StoreID:            storeID,
		LocationType:       locationType,
		NormalRequirements: normal,
		PeakRequirements:   peak,
		OpeningTime:        "06:30",
		ClosingTime:        "23:00",
		LunchPeakStart:     11,
		LunchPeakEnd:       14,
		DinnerPeakStart:    17,
		DinnerPeakEnd:      21,
		MinManagersOnDuty:  1,
		PeakManagersOnDuty: 2,
	}
}

// Requirements 返回平峰或高峰人员需求
func (s *Store) Requirements(isPeak bool) StaffingRequirement {
	if isPeak {
		return s.PeakRequirements
	}
	return s.NormalRequirements
}

// IsPeakHour 检查某整点是否处于高峰时段
func (s *Store) IsPeakHour(hour int) bool {
	return (s.LunchPeakStart <= hour && hour < s.LunchPeakEnd) ||
		(s.DinnerPeakStart <= hour && hour < s.DinnerPeakEnd)
}

// HasMcCafe 检查门店是否设有 McCafe 工作站
func (s *Store) HasMcCafe() bool {
	return s.NormalRequirements.McCafeStaff > 0
}

// HasDessertStation 检查门店是否设有甜品站
func (s *Store) HasDessertStation() bool {
	return s.NormalRequirements.DessertStationStaff > 0
}
