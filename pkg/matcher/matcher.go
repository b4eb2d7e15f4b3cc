// Package matcher 提供员工与工作站的技能匹配分析
package matcher

import (
	"github.com/yepai/yepai/pkg/logger"
	"github.com/yepai/yepai/pkg/model"
)

// StationCoverage 单个工作站的覆盖情况
type StationCoverage struct {
	Required           int      `json:"required"`
	Available          int      `json:"available"`
	CoverageRatio      float64  `json:"coverage_ratio"`
	IsSufficient       bool     `json:"is_sufficient"`
	QualifiedEmployees []string `json:"qualified_employees"`
}

// Shortage 工作站人员缺口
type Shortage struct {
	Station  model.Station `json:"station"`
	Shortage int           `json:"shortage"`
}

// CrossTraining 交叉培训建议
type CrossTraining struct {
	Station        model.Station `json:"station"`
	Candidates     []string      `json:"candidates"`
	TrainingNeeded bool          `json:"training_needed"`
}

// Report 技能匹配报告
type Report struct {
	StationCoverage map[model.Station]StationCoverage `json:"station_coverage"`
	Shortages       []Shortage                        `json:"shortages"`
	HasShortages    bool                              `json:"has_shortages"`
	TotalEmployees  int                               `json:"total_employees"`
	CrossTraining   []CrossTraining                   `json:"cross_training,omitempty"`
}

// Matcher 技能匹配器
type Matcher struct {
	log *logger.RosterLogger
}

// NewMatcher 创建技能匹配器
func NewMatcher() *Matcher {
	return &Matcher{log: logger.NewRosterLogger("matcher")}
}

// stationOrder 工作站需求的固定遍历顺序，保证输出确定
var stationOrder = []model.Station{
	model.StationKitchen, model.StationCounter, model.StationMcCafe,
	model.StationDessert, model.StationMultiStation, model.StationMultiStationCafe,
}

// Match 计算各工作站的覆盖率、缺口与交叉培训候选
// 遍历与候选顺序均为输入顺序
func (m *Matcher) Match(employees []*model.Employee, requirements map[model.Station]int) *Report {
	report := &Report{
		StationCoverage: make(map[model.Station]StationCoverage, len(requirements)),
		TotalEmployees:  len(employees),
	}

	for _, station := range stationOrder {
		required, ok := requirements[station]
		if !ok {
			continue
		}

		qualified := qualifiedFor(employees, station)
		ratio := float64(len(qualified)) / float64(maxInt(1, required))

		ids := make([]string, len(qualified))
		for i, e := range qualified {
			ids[i] = e.ID
		}

		report.StationCoverage[station] = StationCoverage{
			Required:           required,
			Available:          len(qualified),
			CoverageRatio:      ratio,
			IsSufficient:       len(qualified) >= required,
			QualifiedEmployees: ids,
		}

		if len(qualified) < required {
			report.Shortages = append(report.Shortages, Shortage{
				Station:  station,
				Shortage: required - len(qualified),
			})
		}
	}

	report.HasShortages = len(report.Shortages) > 0
	report.CrossTraining = m.recommendCrossTraining(employees, report.Shortages)

	if report.HasShortages {
		m.log.Base().Warn().
			Int("shortages", len(report.Shortages)).
			Msg("存在工作站人员缺口")
	}

	return report
}

// qualifiedFor 收集具备某工作站资质的员工，按输入顺序去重
func qualifiedFor(employees []*model.Employee, station model.Station) []*model.Employee {
	seen := make(map[string]bool)
	var out []*model.Employee

	add := func(e *model.Employee) {
		if !seen[e.ID] {
			seen[e.ID] = true
			out = append(out, e)
		}
	}

	// 主工作站匹配
	for _, e := range employees {
		if e.PrimaryStation == station {
			add(e)
		}
	}
	// 多功能员工可覆盖厨房与柜台
	if station == model.StationKitchen || station == model.StationCounter {
		for _, e := range employees {
			if e.PrimaryStation == model.StationMultiStation ||
				e.PrimaryStation == model.StationMultiStationCafe {
				add(e)
			}
		}
	}
	// McCafe 由多功能含咖啡资质覆盖
	if station == model.StationMcCafe {
		for _, e := range employees {
			if e.PrimaryStation == model.StationMultiStationCafe {
				add(e)
			}
		}
	}
	// 显式认证
	for _, e := range employees {
		for _, c := range e.CertifiedStations {
			if c == station {
				add(e)
			}
		}
	}

	return out
}

// recommendCrossTraining 针对每个缺口工作站给出前 N 个交叉培训候选
// 候选为主站是互补非多功能站（厨房<->柜台）且尚未多功能化的员工
func (m *Matcher) recommendCrossTraining(employees []*model.Employee, shortages []Shortage) []CrossTraining {
	var recs []CrossTraining

	for _, shortage := range shortages {
		complement, ok := complementStation(shortage.Station)
		var candidates []string
		if ok {
			for _, e := range employees {
				if len(candidates) >= shortage.Shortage {
					break
				}
				if e.PrimaryStation != complement {
					continue
				}
				if isMultiCertified(e) {
					continue
				}
				candidates = append(candidates, e.Name)
			}
		}

		recs = append(recs, CrossTraining{
			Station:        shortage.Station,
			Candidates:     candidates,
			TrainingNeeded: true,
		})
	}

	return recs
}

// complementStation 返回互补的非多功能工作站
func complementStation(s model.Station) (model.Station, bool) {
	switch s {
	case model.StationKitchen:
		return model.StationCounter, true
	case model.StationCounter:
		return model.StationKitchen, true
	}
	return "", false
}

// isMultiCertified 检查员工是否已多功能化
func isMultiCertified(e *model.Employee) bool {
	if e.PrimaryStation == model.StationMultiStation ||
		e.PrimaryStation == model.StationMultiStationCafe {
		return true
	}
	for _, c := range e.CertifiedStations {
		if c == model.StationMultiStation || c == model.StationMultiStationCafe {
			return true
		}
	}
	return false
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
