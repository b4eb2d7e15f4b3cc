// Package handler 提供HTTP请求处理器
package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/yepai/yepai/internal/metrics"
	"github.com/yepai/yepai/pkg/errors"
	"github.com/yepai/yepai/pkg/logger"
	"github.com/yepai/yepai/pkg/model"
	"github.com/yepai/yepai/pkg/orchestrator"
	"github.com/yepai/yepai/pkg/scheduler/solver"
	"github.com/yepai/yepai/pkg/validator"
)

// RosterHandler 排班处理器
type RosterHandler struct {
	orch     *orchestrator.Orchestrator
	source   orchestrator.DataSource
	exporter orchestrator.Exporter
}

// NewRosterHandler 创建排班处理器
func NewRosterHandler(orch *orchestrator.Orchestrator) *RosterHandler {
	return &RosterHandler{orch: orch}
}

// NewRosterHandlerWithOptions 创建带求解参数的排班处理器
func NewRosterHandlerWithOptions(opts solver.Options) *RosterHandler {
	orch := orchestrator.New()
	orch.SetSolverOptions(opts)
	return &RosterHandler{orch: orch}
}

// SetDataSource 注入参照数据来源
// 配置后请求可只携带 store_id，门店与员工从数据源加载
func (h *RosterHandler) SetDataSource(source orchestrator.DataSource) {
	h.source = source
}

// SetExporter 注入结果导出器，生成成功后导出最终产物
func (h *RosterHandler) SetExporter(exporter orchestrator.Exporter) {
	h.exporter = exporter
}

// RequirementInput 人员配置需求输入
type RequirementInput struct {
	KitchenStaff               int `json:"kitchen_staff"`
	CounterStaff               int `json:"counter_staff"`
	McCafeStaff                int `json:"mccafe_staff"`
	DessertStationStaff        int `json:"dessert_station_staff"`
	OfflineDessertStationStaff int `json:"offline_dessert_station_staff"`
}

// StoreInput 门店输入
type StoreInput struct {
	StoreID            string           `json:"store_id"`
	LocationType       string           `json:"location_type"`
	NormalRequirements RequirementInput `json:"normal_requirements"`
	PeakRequirements   RequirementInput `json:"peak_requirements"`
}

// EmployeeInput 员工输入
// is_manager 缺省时按"全职多功能即店长"推断（仅限数据适配层，核心信任该字段）
type EmployeeInput struct {
	ID                string              `json:"id"`
	Name              string              `json:"name"`
	EmployeeType      string              `json:"employee_type"`
	PrimaryStation    string              `json:"primary_station"`
	CertifiedStations []string            `json:"certified_stations,omitempty"`
	IsManager         *bool               `json:"is_manager,omitempty"`
	Availability      map[string][]string `json:"availability,omitempty"`
}

// GenerateRequest 排班生成请求
// 配置了数据源时可只提供 store_id，由数据源加载门店与员工
type GenerateRequest struct {
	StoreID          string          `json:"store_id,omitempty"`
	Store            StoreInput      `json:"store"`
	Employees        []EmployeeInput `json:"employees"`
	Days             []string        `json:"days"`
	TimeLimitSeconds int             `json:"time_limit_seconds,omitempty"`
}

// Generate 处理排班生成请求
func (h *RosterHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(err, errors.CodeInvalidInput, "请求体解析失败"))
		return
	}

	orchReq := &orchestrator.Request{
		Store:            convertStore(req.Store),
		Employees:        convertEmployees(req.Employees),
		Days:             req.Days,
		TimeLimitSeconds: req.TimeLimitSeconds,
	}

	// 从数据源加载参照数据
	if req.StoreID != "" && h.source != nil {
		store, err := h.source.LoadStore(r.Context(), req.StoreID)
		if err != nil {
			writeError(w, errors.DatabaseError("加载门店", err))
			return
		}
		employees, err := h.source.LoadEmployees(r.Context(), req.StoreID)
		if err != nil {
			writeError(w, errors.DatabaseError("加载员工", err))
			return
		}
		orchReq.Store = store
		orchReq.Employees = employees
	}

	start := time.Now()
	result, err := h.orch.Generate(r.Context(), orchReq)
	if err != nil {
		writeError(w, err)
		return
	}

	if h.exporter != nil {
		if err := h.exporter.Export(r.Context(), result); err != nil {
			logger.Warn().Err(err).Msg("结果导出失败")
		}
	}

	metrics.RecordRosterGeneration(result.Status, time.Since(start))
	for _, c := range result.FinalValidation.Conflicts {
		metrics.RecordConflict(string(c.Kind), string(c.Severity))
	}
	if result.ResolutionSummary != nil {
		for i := 0; i < result.ResolutionSummary.ResolutionsApplied; i++ {
			metrics.RecordResolution("applied")
		}
	}

	writeJSON(w, http.StatusOK, result)
}

// ValidateRequest 排班校验请求
type ValidateRequest struct {
	Roster model.Roster `json:"roster"`
	Days   []string     `json:"days"`
	Store  StoreInput   `json:"store"`
}

// Validate 处理独立校验请求
func (h *RosterHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(err, errors.CodeInvalidInput, "请求体解析失败"))
		return
	}

	v := validator.New(model.DefaultConstraints())
	result := v.Validate(req.Roster, req.Days, convertStore(req.Store))
	writeJSON(w, http.StatusOK, result)
}

// convertStore 将门店输入转换为领域模型
func convertStore(in StoreInput) *model.Store {
	locationType := model.StoreSuburban
	switch {
	case strings.Contains(in.LocationType, "CBD"):
		locationType = model.StoreCBDCore
	case strings.Contains(in.LocationType, "Highway"):
		locationType = model.StoreHighway
	}

	return model.NewStore(
		in.StoreID,
		locationType,
		convertRequirement(in.NormalRequirements),
		convertRequirement(in.PeakRequirements),
	)
}

func convertRequirement(in RequirementInput) model.StaffingRequirement {
	return model.StaffingRequirement{
		KitchenStaff:               in.KitchenStaff,
		CounterStaff:               in.CounterStaff,
		McCafeStaff:                in.McCafeStaff,
		DessertStationStaff:        in.DessertStationStaff,
		OfflineDessertStationStaff: in.OfflineDessertStationStaff,
	}
}

// convertEmployees 将员工输入转换为领域模型
func convertEmployees(inputs []EmployeeInput) []*model.Employee {
	employees := make([]*model.Employee, 0, len(inputs))
	for _, in := range inputs {
		emp := &model.Employee{
			ID:             in.ID,
			Name:           in.Name,
			EmployeeType:   convertEmployeeType(in.EmployeeType),
			PrimaryStation: convertStation(in.PrimaryStation),
			Availability:   in.Availability,
		}
		for _, c := range in.CertifiedStations {
			emp.CertifiedStations = append(emp.CertifiedStations, convertStation(c))
		}
		if in.IsManager != nil {
			emp.IsManager = *in.IsManager
		} else {
			// 全职多功能员工默认视为店长
			emp.IsManager = emp.EmployeeType == model.FullTime &&
				(emp.PrimaryStation == model.StationMultiStation ||
					emp.PrimaryStation == model.StationMultiStationCafe)
		}
		employees = append(employees, emp)
	}
	return employees
}

func convertEmployeeType(s string) model.EmployeeType {
	switch {
	case strings.Contains(s, "Full"):
		return model.FullTime
	case strings.Contains(s, "Part"):
		return model.PartTime
	}
	return model.Casual
}

func convertStation(s string) model.Station {
	switch {
	case strings.Contains(s, "Multi") && strings.Contains(s, "McCafe"):
		return model.StationMultiStationCafe
	case strings.Contains(s, "Multi"):
		return model.StationMultiStation
	case strings.Contains(s, "Kitchen"):
		return model.StationKitchen
	case strings.Contains(s, "McCafe"):
		return model.StationMcCafe
	case strings.Contains(s, "Dessert"):
		return model.StationDessert
	}
	return model.StationCounter
}

// writeJSON 写JSON响应
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error().Err(err).Msg("响应编码失败")
	}
}

// writeError 写错误响应
func writeError(w http.ResponseWriter, err error) {
	logger.Error().Err(err).Msg("请求处理失败")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(errors.GetHTTPStatus(err))
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"code":    string(errors.GetCode(err)),
		"message": err.Error(),
	})
}
