// Package orchestrator 提供排班流水线编排
//
// 流水线严格顺序：需求分析 -> 技能匹配 -> 求解排班 -> 校验 ->
// 修复（初验通过时跳过）-> 复验。各阶段产物由编排器持有，
// 后序阶段的输出不会被前序阶段观测到。
package orchestrator

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/yepai/yepai/pkg/demand"
	"github.com/yepai/yepai/pkg/errors"
	"github.com/yepai/yepai/pkg/logger"
	"github.com/yepai/yepai/pkg/matcher"
	"github.com/yepai/yepai/pkg/model"
	"github.com/yepai/yepai/pkg/resolver"
	"github.com/yepai/yepai/pkg/scheduler"
	"github.com/yepai/yepai/pkg/scheduler/solver"
	"github.com/yepai/yepai/pkg/validator"
)

// 最终状态
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
)

// 工作流阶段
const (
	StageInit     = "INIT"
	StageDemand   = "DEMAND"
	StageMatch    = "MATCH"
	StageSchedule = "SCHEDULE"
	StageValidate = "VALIDATE"
	StageResolve  = "RESOLVE"
	StageFinal    = "FINAL"
	StageComplete = "COMPLETE"
)

// DataSource 参照数据来源（外部协作方，仅按接口约定）
type DataSource interface {
	// LoadStore 按门店ID加载门店配置
	LoadStore(ctx context.Context, storeID string) (*model.Store, error)

	// LoadEmployees 按门店ID加载员工列表
	LoadEmployees(ctx context.Context, storeID string) ([]*model.Employee, error)
}

// Exporter 结果导出（外部协作方，仅按接口约定）
type Exporter interface {
	// Export 导出最终产物
	Export(ctx context.Context, result *Result) error
}

// WorkflowEntry 工作流日志条目
type WorkflowEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Stage     string    `json:"stage"`
	Message   string    `json:"message"`
}

// Request 排班生成请求
type Request struct {
	Store            *model.Store      `json:"store"`
	Employees        []*model.Employee `json:"employees"`
	Days             []string          `json:"days"`
	TimeLimitSeconds int               `json:"time_limit_seconds"`
}

// Result 排班生成结果
type Result struct {
	Status                string                  `json:"status"`
	Roster                model.Roster            `json:"roster"`
	Days                  []string                `json:"days"`
	TotalEmployees        int                     `json:"total_employees"`
	GenerationTimeSeconds float64                 `json:"generation_time_seconds"`
	DemandAnalysis        *demand.Analysis        `json:"demand_analysis"`
	SkillMatching         *matcher.Report         `json:"skill_matching"`
	InitialValidation     *validator.Result       `json:"initial_validation"`
	ResolutionSummary     *resolver.Report        `json:"resolution_summary,omitempty"`
	FinalValidation       *validator.Result       `json:"final_validation"`
	WorkflowLog           []WorkflowEntry         `json:"workflow_log"`
	PeakCoverage          *scheduler.PeakCoverage `json:"peak_coverage"`
}

// Orchestrator 排班流水线编排器
type Orchestrator struct {
	constraints *model.Constraints
	demand      *demand.Analyzer
	matcher     *matcher.Matcher
	validator   *validator.Validator
	resolver    *resolver.Engine

	solver     solver.Solver
	solverOpts solver.Options

	log *logger.RosterLogger
}

// New 创建编排器
func New() *Orchestrator {
	constraints := model.DefaultConstraints()
	return &Orchestrator{
		constraints: constraints,
		demand:      demand.NewAnalyzer(),
		matcher:     matcher.NewMatcher(),
		validator:   validator.New(constraints),
		resolver:    resolver.NewEngine(),
		solverOpts:  solver.DefaultOptions(),
		log:         logger.NewRosterLogger("orchestrator"),
	}
}

// SetSolver 注入求解器（默认使用引擎自带实现）
func (o *Orchestrator) SetSolver(s solver.Solver) {
	o.solver = s
}

// SetSolverOptions 设置求解参数（种子、并行数）
func (o *Orchestrator) SetSolverOptions(opts solver.Options) {
	o.solverOpts = opts
}

// Generate 执行完整排班工作流
func (o *Orchestrator) Generate(ctx context.Context, req *Request) (*Result, error) {
	start := time.Now()
	runID := uuid.New().String()

	if err := o.validateRequest(req); err != nil {
		return nil, err
	}

	var workflow []WorkflowEntry
	logStep := func(stage, message string) {
		workflow = append(workflow, WorkflowEntry{
			Timestamp: time.Now(),
			Stage:     stage,
			Message:   message,
		})
		o.log.Base().Info().
			Str("run_id", runID).
			Str("stage", stage).
			Msg(message)
	}

	logStep(StageInit, "开始排班生成工作流")

	// 阶段1：需求画像
	logStep(StageDemand, "分析人力需求模式")
	demandAnalysis := o.demand.Analyze(req.Store, req.Days)
	logStep(StageDemand, fmt.Sprintf("完成：分析 %d 天", len(req.Days)))

	// 阶段2：技能匹配
	logStep(StageMatch, "匹配员工技能与工作站")
	stationReqs := map[model.Station]int{
		model.StationKitchen: req.Store.NormalRequirements.KitchenStaff,
		model.StationCounter: req.Store.NormalRequirements.CounterStaff,
		model.StationMcCafe:  req.Store.NormalRequirements.McCafeStaff,
	}
	skillMatching := o.matcher.Match(req.Employees, stationReqs)
	logStep(StageMatch, fmt.Sprintf("完成：匹配 %d 名员工", len(req.Employees)))

	// 阶段3：求解排班
	logStep(StageSchedule, "使用约束求解器生成花名册")
	engine := scheduler.NewEngine(req.Employees, req.Store, o.constraints, req.Days)
	if o.solver != nil {
		engine.SetSolver(o.solver)
	}
	engine.SetSolverOptions(o.solverOpts)

	timeLimit := time.Duration(req.TimeLimitSeconds) * time.Second
	schedResult, err := engine.Generate(ctx, timeLimit)
	if err != nil {
		return nil, err
	}
	logStep(StageSchedule, fmt.Sprintf("完成：%s，用时 %.2fs", schedResult.Status, schedResult.SolveTimeSeconds))

	// 阶段4：校验
	logStep(StageValidate, "按完整约束分类法校验花名册")
	initial := o.validator.Validate(schedResult.Roster, req.Days, req.Store)
	logStep(StageValidate, fmt.Sprintf("发现 %d 个冲突", initial.TotalConflicts))

	// 阶段5：修复（初验通过时跳过）
	finalRoster := schedResult.Roster
	var resolution *resolver.Report
	if !initial.IsValid {
		logStep(StageResolve, "修复排班冲突")
		resolution = o.resolver.Repair(initial.Conflicts, schedResult.Roster, req.Employees)
		finalRoster = resolution.ModifiedRoster
		logStep(StageResolve, fmt.Sprintf("应用 %d 个修复方案", resolution.ResolutionsApplied))
	}

	// 复验
	logStep(StageFinal, "运行最终校验")
	final := o.validator.Validate(finalRoster, req.Days, req.Store)

	status := StatusPartial
	if final.IsValid {
		status = StatusSuccess
	}

	elapsed := time.Since(start)
	logStep(StageComplete, fmt.Sprintf("工作流完成，用时 %.2fs", elapsed.Seconds()))
	o.log.GenerationComplete(req.Store.StoreID, status, elapsed)

	return &Result{
		Status:                status,
		Roster:                finalRoster,
		Days:                  req.Days,
		TotalEmployees:        len(req.Employees),
		GenerationTimeSeconds: math.Round(elapsed.Seconds()*100) / 100,
		DemandAnalysis:        demandAnalysis,
		SkillMatching:         skillMatching,
		InitialValidation:     initial,
		ResolutionSummary:     resolution,
		FinalValidation:       final,
		WorkflowLog:           workflow,
		PeakCoverage:          schedResult.PeakCoverage,
	}, nil
}

// validateRequest 请求入参校验：字段缺失或枚举非法时整体失败
func (o *Orchestrator) validateRequest(req *Request) error {
	if req == nil {
		return errors.InvalidInput("request", "请求为空")
	}
	if req.Store == nil {
		return errors.InvalidInput("store", "门店配置缺失")
	}
	if req.Store.StoreID == "" {
		return errors.InvalidInput("store.store_id", "门店ID缺失")
	}
	seen := make(map[string]bool, len(req.Employees))
	for i, emp := range req.Employees {
		if emp == nil || emp.ID == "" {
			return errors.InvalidInput(fmt.Sprintf("employees[%d].id", i), "员工ID缺失")
		}
		if seen[emp.ID] {
			return errors.InvalidInput(fmt.Sprintf("employees[%d].id", i), "员工ID重复")
		}
		seen[emp.ID] = true
		if !model.ValidEmployeeType(emp.EmployeeType) {
			return errors.InvalidInput(fmt.Sprintf("employees[%d].employee_type", i),
				fmt.Sprintf("未知雇佣类型 '%s'", emp.EmployeeType))
		}
		if !model.ValidStation(emp.PrimaryStation) {
			return errors.InvalidInput(fmt.Sprintf("employees[%d].primary_station", i),
				fmt.Sprintf("未知工作站 '%s'", emp.PrimaryStation))
		}
	}
	return nil
}
